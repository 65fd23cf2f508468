// Package billing holds the pure invoice math: per-line GST computation,
// invoice-wide totals and the yearly invoice-number scheme. Everything here
// is deterministic and free of I/O so the same figures are produced by the
// ledger at commit time and by the document renderer afterwards.
package billing

import (
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineAmounts are the derived figures for one product/quantity pairing.
type LineAmounts struct {
	Subtotal  decimal.Decimal
	GSTAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeLine derives subtotal, GST amount and GST-inclusive total for a line.
// gstRate is a percentage (18 means 18%).
func ComputeLine(quantity int, unitPrice, gstRate decimal.Decimal) LineAmounts {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	gstAmount := subtotal.Mul(gstRate).Div(hundred)
	return LineAmounts{
		Subtotal:  subtotal,
		GSTAmount: gstAmount,
		Total:     subtotal.Add(gstAmount),
	}
}

// InvoiceTotals are the invoice-wide figures summed across all lines.
type InvoiceTotals struct {
	Subtotal    decimal.Decimal
	GSTAmount   decimal.Decimal
	TotalAmount decimal.Decimal // GST-inclusive
}

// ComputeTotals sums line amounts across the cart snapshot.
func ComputeTotals(lines []entity.CartLine) InvoiceTotals {
	var t InvoiceTotals
	for _, l := range lines {
		a := ComputeLine(l.Quantity, l.UnitPrice, l.GSTRate)
		t.Subtotal = t.Subtotal.Add(a.Subtotal)
		t.GSTAmount = t.GSTAmount.Add(a.GSTAmount)
	}
	t.TotalAmount = t.Subtotal.Add(t.GSTAmount)
	return t
}
