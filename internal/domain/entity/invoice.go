package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice payment states.
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// Invoice is the persisted header of a committed sale. Immutable once created
// except for Status; amounts are GST-inclusive (TotalAmount = subtotal + GSTAmount).
type Invoice struct {
	ID              string
	InvoiceNumber   string // INV<year>-<4-digit sequence>, unique per calendar year
	Date            time.Time
	CustomerName    string
	CustomerAddress string
	CustomerGSTIN   string
	CustomerPhone   string
	PaymentMethod   string
	Status          string
	UserID          string
	TotalAmount     decimal.Decimal
	GSTAmount       decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Subtotal is the pre-GST amount.
func (i *Invoice) Subtotal() decimal.Decimal {
	return i.TotalAmount.Sub(i.GSTAmount)
}
