package entity

import "github.com/shopspring/decimal"

// CartLine is one product/quantity pairing in a session cart. The derived
// fields are recomputed from the current catalog price on every mutation,
// never from a stale cached value.
type CartLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	Total       decimal.Decimal `json:"total"`
}
