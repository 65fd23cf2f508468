package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. GSTRate is a percentage (18 means 18%).
// StockQuantity is decremented when an invoice commits and never goes below zero.
// Hidden products stay in the catalog but cannot be added to carts.
type Product struct {
	ID            string
	Name          string
	UnitPrice     decimal.Decimal
	GSTRate       decimal.Decimal
	StockQuantity int
	Hidden        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
