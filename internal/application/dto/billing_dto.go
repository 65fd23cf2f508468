package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest body for POST /api/cart/items. Quantity defaults to 1.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

// UpdateCartItemRequest body for PUT /api/cart/items/:productID.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse one cart line in responses.
type CartLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	Total       decimal.Decimal `json:"total"`
}

// CartResponse cart with display totals for GET /api/cart.
type CartResponse struct {
	Items       []CartLineResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	TotalGST    decimal.Decimal    `json:"total_gst"`
}

// CreateInvoiceRequest body for POST /api/invoices. The cart is taken from
// the caller's session; NotifyEmail/NotifyPhone trigger best-effort delivery.
type CreateInvoiceRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
	CustomerGSTIN   string `json:"customer_gstin,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	PaymentMethod   string `json:"payment_method"`
	NotifyEmail     string `json:"notify_email,omitempty"`
	NotifyPhone     string `json:"notify_phone,omitempty"`
}

// InvoiceItemResponse one invoice line in responses.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse full invoice for GET /api/invoices/:id.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	Date            string                `json:"date"`
	CustomerName    string                `json:"customer_name"`
	CustomerAddress string                `json:"customer_address"`
	CustomerGSTIN   string                `json:"customer_gstin,omitempty"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	PaymentMethod   string                `json:"payment_method"`
	Status          string                `json:"status"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	GSTAmount       decimal.Decimal       `json:"gst_amount"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceSummaryResponse one row of GET /api/invoices.
type InvoiceSummaryResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          string          `json:"date"`
	CustomerName  string          `json:"customer_name"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}
