// Package pdf renders the printable GST tax invoice with Maroto v2.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  LETTERHEAD: company name, address, GSTIN, phone, email     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TAX INVOICE   │  Invoice No + Date        │  QR            │
//	│  BILL TO: customer name, address, GSTIN, phone              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Item | Qty | Unit Price | GST% | GST Amt | Total    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Subtotal / GST / Grand Total                       │
//	│  Payment: method + status                                   │
//	│  Terms & conditions, footer                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotocfg "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/billmate/billing-api/internal/application/billing"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/pkg/config"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appbilling.DocumentRenderer = (*InvoiceRenderer)(nil)

// InvoiceRenderer implements billing.DocumentRenderer with Maroto v2.
type InvoiceRenderer struct {
	company config.CompanyConfig
}

// NewInvoiceRenderer builds the renderer with the letterhead data.
func NewInvoiceRenderer(company config.CompanyConfig) *InvoiceRenderer {
	return &InvoiceRenderer{company: company}
}

// Render produces the PDF bytes for an invoice. The document creation date is
// pinned to the invoice date so rendering the same invoice twice yields
// identical bytes.
func (g *InvoiceRenderer) Render(invoice *entity.Invoice, items []*entity.InvoiceItem) ([]byte, error) {
	cfg := marotocfg.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+invoice.InvoiceNumber, true).
		WithAuthor(g.company.Name, true).
		WithCreationDate(invoice.Date).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.letterheadRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(titleRow(invoice))
	m.AddRows(billToRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))
	m.AddRows(paymentRow(invoice))

	m.AddRows(line.NewRow(2))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range termsRows() {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *InvoiceRenderer) letterheadRow() core.Row {
	return row.New(22).Add(
		col.New(12).Add(
			text.New(g.company.Name, props.Text{
				Style: fontstyle.Bold, Size: 15, Align: align.Center, Color: colorPrimary, Top: 1,
			}),
			text.New(g.company.Address, props.Text{
				Size: 8, Align: align.Center, Top: 9, Color: colorGray,
			}),
			text.New(fmt.Sprintf("GSTIN: %s   |   Phone: %s   |   Email: %s",
				g.company.GSTIN, g.company.Phone, g.company.Email,
			), props.Text{Size: 8, Align: align.Center, Top: 14, Color: colorGray}),
		),
	)
}

// qrPayload is what the validation QR encodes: number, date, grand total and
// the customer GSTIN, pipe-separated.
func qrPayload(invoice *entity.Invoice) string {
	return strings.Join([]string{
		invoice.InvoiceNumber,
		invoice.Date.Format("02-01-2006"),
		invoice.TotalAmount.StringFixed(2),
		invoice.CustomerGSTIN,
	}, "|")
}

// titleRow: TAX INVOICE heading with number and date on the left, validation
// QR on the right.
func titleRow(invoice *entity.Invoice) core.Row {
	return row.New(24).Add(
		col.New(8).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New("Invoice No: "+invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 9,
			}),
			text.New("Date: "+invoice.Date.Format("02-01-2006"), props.Text{
				Size: 9, Top: 16, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewQr(qrPayload(invoice), props.Rect{Percent: 90, Center: true})),
	)
}

func billToRow(invoice *entity.Invoice) core.Row {
	contact := make([]string, 0, 2)
	if invoice.CustomerGSTIN != "" {
		contact = append(contact, "GSTIN: "+invoice.CustomerGSTIN)
	}
	if invoice.CustomerPhone != "" {
		contact = append(contact, "Phone: "+invoice.CustomerPhone)
	}

	return row.New(18).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(invoice.CustomerAddress, props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(strings.Join(contact, "   |   "), props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Item", 4, align.Left),
		h("Qty", 1, align.Center),
		h("Unit Price", 2, align.Right),
		h("GST %", 1, align.Center),
		h("GST Amt", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(it.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(it.UnitPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(formatRate(it.GSTRate), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(it.GSTAmount.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(it.Total.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

// formatRate keeps the slab's own precision: 18 prints as "18%", 0.25 as
// "0.25%". Currency cells are fixed to two decimals, rates are not.
func formatRate(rate decimal.Decimal) string {
	return rate.String() + "%"
}

func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right})
	}
	return row.New(24).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			text.New("Total GST:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 7}),
			text.New("GRAND TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 15, Color: colorPrimary,
			}),
		),
		col.New(3).Add(
			value("Rs. "+invoice.Subtotal().StringFixed(2)),
			text.New("Rs. "+invoice.GSTAmount.StringFixed(2), props.Text{Size: 9, Align: align.Right, Top: 7}),
			text.New("Rs. "+invoice.TotalAmount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 15, Color: colorPrimary,
			}),
		),
	)
}

func paymentRow(invoice *entity.Invoice) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Payment Method: %s   |   Status: %s",
				invoice.PaymentMethod, invoice.Status,
			), props.Text{Size: 9, Top: 2}),
		),
	)
}

var terms = []string{
	"1. Goods once sold will not be taken back or exchanged.",
	"2. All disputes are subject to local jurisdiction only.",
	"3. Payment is due within 30 days of the invoice date.",
	"4. Interest @18% p.a. will be charged on overdue payments.",
	"5. E. & O.E.",
}

func termsRows() []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Terms & Conditions", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, term := range terms {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(term, props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("This is a computer generated invoice.", props.Text{
			Size: 7, Align: align.Center, Color: colorGray, Top: 3,
		}),
	)))
	return rows
}
