// Package billing implements the invoice ledger: atomic invoice creation with
// stock decrement and yearly sequential numbering, document generation and
// storage, and best-effort buyer notification after commit.
package billing

import (
	"context"

	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/internal/domain/repository"
)

// TxRepos are the repositories bound to one open transaction. Everything done
// through them commits or rolls back together.
type TxRepos struct {
	Products  repository.ProductRepository
	Invoices  repository.InvoiceRepository
	Documents repository.DocumentRepository
}

// TxRunner opens a transaction, runs fn with transaction-bound repositories,
// and commits when fn returns nil. Any error rolls everything back.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// DocumentRenderer produces the PDF bytes for an invoice. Rendering the same
// invoice twice must produce identical bytes.
type DocumentRenderer interface {
	Render(invoice *entity.Invoice, items []*entity.InvoiceItem) ([]byte, error)
}

// Mailer delivers an invoice email with the PDF attached.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachment []byte, fileName string) error
}

// SMSSender delivers a short confirmation text.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}
