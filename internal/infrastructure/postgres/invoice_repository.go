package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, invoice_number, date, customer_name, customer_address, customer_gstin,
	customer_phone, payment_method, status, user_id, total_amount, gst_amount, created_at, updated_at`

// InvoiceRepo implements the InvoiceRepository port on PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the invoice persistence adapter.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create inserts the invoice header. The unique index on invoice_number turns
// allocation races into domain.ErrDuplicate for the ledger to retry.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber, invoice.Date, invoice.CustomerName,
		invoice.CustomerAddress, invoice.CustomerGSTIN, invoice.CustomerPhone,
		invoice.PaymentMethod, invoice.Status, invoice.UserID,
		invoice.TotalAmount, invoice.GSTAmount, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem inserts one invoice line.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, product_name, position, quantity, unit_price, gst_rate, subtotal, gst_amount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.ProductName, item.Position, item.Quantity,
		item.UnitPrice, item.GSTRate, item.Subtotal, item.GSTAmount, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID fetches one invoice by internal ID; nil when absent.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get invoice")
}

// GetByNumber fetches one invoice by its public number; nil when absent.
func (r *InvoiceRepo) GetByNumber(number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, number), "get invoice by number")
}

// GetItemsByInvoiceID returns the lines of one invoice ordered by their cart
// position, so every render of the invoice sees the same line sequence.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, position, quantity, unit_price, gst_rate, subtotal, gst_amount, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Position, &it.Quantity,
			&it.UnitPrice, &it.GSTRate, &it.Subtotal, &it.GSTAmount, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListByUser returns one user's invoices, newest first.
func (r *InvoiceRepo) ListByUser(userID string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(query, userID)
}

// ListAll returns every invoice, newest first. Used by batch regeneration.
func (r *InvoiceRepo) ListAll() ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	return r.list(query)
}

// UpdateStatus sets the payment status.
func (r *InvoiceRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastNumberForYear returns the highest number matching the year prefix,
// locking that row so concurrent allocators serialize. The zero-padded
// sequence makes MAX() by string order correct.
func (r *InvoiceRepo) LastNumberForYear(yearPrefix string) (string, error) {
	query := `
		SELECT invoice_number FROM invoices
		WHERE invoice_number LIKE $1 || '%'
		ORDER BY invoice_number DESC
		LIMIT 1
		FOR UPDATE`
	var number string
	err := r.q.QueryRow(context.Background(), query, yearPrefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return number, nil
}

func (r *InvoiceRepo) list(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Date, &inv.CustomerName,
			&inv.CustomerAddress, &inv.CustomerGSTIN, &inv.CustomerPhone,
			&inv.PaymentMethod, &inv.Status, &inv.UserID,
			&inv.TotalAmount, &inv.GSTAmount, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) scanOne(row pgx.Row, op string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Date, &inv.CustomerName,
		&inv.CustomerAddress, &inv.CustomerGSTIN, &inv.CustomerPhone,
		&inv.PaymentMethod, &inv.Status, &inv.UserID,
		&inv.TotalAmount, &inv.GSTAmount, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &inv, nil
}
