package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/billing"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/internal/domain/repository"
	"github.com/billmate/billing-api/pkg/logger"
)

// DocumentUseCase renders invoice PDFs and keeps the single stored copy per
// invoice up to date.
type DocumentUseCase struct {
	renderer  DocumentRenderer
	invoices  repository.InvoiceRepository
	documents repository.DocumentRepository
	log       *logger.Logger
}

// NewDocumentUseCase builds the document use case.
func NewDocumentUseCase(renderer DocumentRenderer, invoices repository.InvoiceRepository, documents repository.DocumentRepository, log *logger.Logger) *DocumentUseCase {
	return &DocumentUseCase{renderer: renderer, invoices: invoices, documents: documents, log: log}
}

// Download returns the stored PDF for an invoice, rendering and storing it
// first if creation-time rendering failed. Ownership rules match Get: other
// users' invoices answer ErrNotFound.
func (uc *DocumentUseCase) Download(idOrNumber, userID string) (*entity.RenderedDocument, error) {
	invoice, err := uc.findOwned(idOrNumber, userID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.documents.GetByInvoiceID(invoice.ID)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		return doc, nil
	}
	items, err := uc.invoices.GetItemsByInvoiceID(invoice.ID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.renderAndStore(invoice, items); err != nil {
		return nil, err
	}
	return uc.documents.GetByInvoiceID(invoice.ID)
}

// Regenerate re-renders one invoice and overwrites its stored document.
func (uc *DocumentUseCase) Regenerate(idOrNumber, userID string) (*entity.RenderedDocument, error) {
	invoice, err := uc.findOwned(idOrNumber, userID)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoices.GetItemsByInvoiceID(invoice.ID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.renderAndStore(invoice, items); err != nil {
		return nil, err
	}
	return uc.documents.GetByInvoiceID(invoice.ID)
}

// RegenerationResult is the outcome of one invoice in a batch run.
type RegenerationResult struct {
	InvoiceNumber string `json:"invoice_number"`
	Error         string `json:"error,omitempty"`
}

// RegenerateAll re-renders every invoice in the ledger. One failed invoice
// never aborts the batch; each failure is reported in its result row.
func (uc *DocumentUseCase) RegenerateAll() ([]RegenerationResult, error) {
	invoices, err := uc.invoices.ListAll()
	if err != nil {
		return nil, err
	}
	results := make([]RegenerationResult, 0, len(invoices))
	for _, invoice := range invoices {
		result := RegenerationResult{InvoiceNumber: invoice.InvoiceNumber}
		items, err := uc.invoices.GetItemsByInvoiceID(invoice.ID)
		if err == nil {
			_, err = uc.renderAndStore(invoice, items)
		}
		if err != nil {
			result.Error = err.Error()
			uc.log.Error().Err(err).
				Str("invoice_number", invoice.InvoiceNumber).
				Msg("regeneration failed")
		}
		results = append(results, result)
	}
	return results, nil
}

// renderAndStore produces the PDF and upserts the one stored row for the
// invoice. Returns the bytes so creation can hand them to the notifier
// without a second read.
func (uc *DocumentUseCase) renderAndStore(invoice *entity.Invoice, items []*entity.InvoiceItem) ([]byte, error) {
	data, err := uc.renderer.Render(invoice, items)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", invoice.InvoiceNumber, err)
	}
	doc := &entity.RenderedDocument{
		ID:        uuid.New().String(),
		InvoiceID: invoice.ID,
		Data:      data,
		FileName:  billing.DocumentFileName(invoice.InvoiceNumber),
		ByteSize:  len(data),
		CreatedAt: time.Now(),
	}
	if err := uc.documents.Upsert(doc); err != nil {
		return nil, fmt.Errorf("store %s: %w", invoice.InvoiceNumber, err)
	}
	return data, nil
}

func (uc *DocumentUseCase) findOwned(idOrNumber, userID string) (*entity.Invoice, error) {
	invoice, err := uc.invoices.GetByID(idOrNumber)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		invoice, err = uc.invoices.GetByNumber(idOrNumber)
		if err != nil {
			return nil, err
		}
	}
	if invoice == nil || invoice.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}
