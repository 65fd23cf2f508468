package repository

import "github.com/billmate/billing-api/internal/domain/entity"

// UserRepository is the persistence port for users.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
}
