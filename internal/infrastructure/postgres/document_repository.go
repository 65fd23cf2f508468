package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implements the DocumentRepository port on PostgreSQL. The
// unique index on invoice_id plus ON CONFLICT keeps exactly one stored
// document per invoice no matter how often it is regenerated.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository builds the document persistence adapter.
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Upsert stores the rendered bytes, overwriting any previous document of the
// same invoice in place.
func (r *DocumentRepo) Upsert(doc *entity.RenderedDocument) error {
	query := `
		INSERT INTO rendered_documents (id, invoice_id, data, file_name, byte_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (invoice_id) DO UPDATE
		SET data = EXCLUDED.data, file_name = EXCLUDED.file_name,
		    byte_size = EXCLUDED.byte_size, created_at = EXCLUDED.created_at`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.InvoiceID, doc.Data, doc.FileName, doc.ByteSize, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// GetByInvoiceID fetches the stored document of one invoice; nil when absent.
func (r *DocumentRepo) GetByInvoiceID(invoiceID string) (*entity.RenderedDocument, error) {
	query := `
		SELECT id, invoice_id, data, file_name, byte_size, created_at
		FROM rendered_documents WHERE invoice_id = $1`
	var d entity.RenderedDocument
	err := r.q.QueryRow(context.Background(), query, invoiceID).Scan(
		&d.ID, &d.InvoiceID, &d.Data, &d.FileName, &d.ByteSize, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

// DeleteByInvoiceID drops the stored document of one invoice.
func (r *DocumentRepo) DeleteByInvoiceID(invoiceID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM rendered_documents WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
