package entity

import "time"

// User owns invoices and authenticates with username/password.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
