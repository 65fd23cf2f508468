package repository

import (
	"time"

	"github.com/billmate/billing-api/internal/domain/entity"
)

// InvoiceRepository is the persistence port for invoice headers and lines.
type InvoiceRepository interface {
	// Create persists the header. Returns domain.ErrDuplicate when the
	// invoice number is already taken (the ledger retries allocation).
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetByNumber(number string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	ListByUser(userID string) ([]*entity.Invoice, error)
	ListAll() ([]*entity.Invoice, error)
	UpdateStatus(id, status string, updatedAt time.Time) error
	// LastNumberForYear returns the highest invoice number matching the
	// year prefix, locking the row against concurrent allocators; empty
	// string when the year has no invoices yet.
	LastNumberForYear(yearPrefix string) (string, error)
}
