package entity

import "github.com/shopspring/decimal"

// InvoiceItem is one line of an invoice. ProductName, UnitPrice and GSTRate are
// snapshots taken at creation time and survive later catalog edits. Position
// records the cart line order so repeated document renders see the lines in
// the same sequence.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	ProductID   string
	ProductName string
	Position    int
	Quantity    int
	UnitPrice   decimal.Decimal
	GSTRate     decimal.Decimal
	Subtotal    decimal.Decimal
	GSTAmount   decimal.Decimal
	Total       decimal.Decimal
}
