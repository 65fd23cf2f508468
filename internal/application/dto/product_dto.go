package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest body for POST/PUT /api/products.
type ProductRequest struct {
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	GSTRate       decimal.Decimal `json:"gst_rate"`
	StockQuantity int             `json:"stock_quantity"`
	Hidden        bool            `json:"hidden"`
}

// ProductResponse product in responses.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	GSTRate       decimal.Decimal `json:"gst_rate"`
	StockQuantity int             `json:"stock_quantity"`
	Hidden        bool            `json:"hidden"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
