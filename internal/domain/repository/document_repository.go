package repository

import "github.com/billmate/billing-api/internal/domain/entity"

// DocumentRepository is the persistence port for rendered invoice documents.
// One row per invoice: Upsert overwrites bytes/size/timestamp in place so
// repeated regeneration never grows storage.
type DocumentRepository interface {
	Upsert(doc *entity.RenderedDocument) error
	GetByInvoiceID(invoiceID string) (*entity.RenderedDocument, error)
	DeleteByInvoiceID(invoiceID string) error
}
