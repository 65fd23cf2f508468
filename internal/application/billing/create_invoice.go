package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billmate/billing-api/internal/application/dto"
	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/billing"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/internal/domain/repository"
	"github.com/billmate/billing-api/pkg/logger"
)

// numberRetries bounds how often creation is retried when two transactions
// race for the same invoice number.
const numberRetries = 3

// InvoiceUseCase is the ledger: it turns a cart snapshot into a committed
// invoice with decremented stock and a fresh sequential number, then hands the
// result to the document and notification pipelines.
type InvoiceUseCase struct {
	tx       TxRunner
	invoices repository.InvoiceRepository
	docs     *DocumentUseCase
	notifier *Notifier
	log      *logger.Logger
}

// NewInvoiceUseCase builds the ledger use case.
func NewInvoiceUseCase(tx TxRunner, invoices repository.InvoiceRepository, docs *DocumentUseCase, notifier *Notifier, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{tx: tx, invoices: invoices, docs: docs, notifier: notifier, log: log}
}

// Create commits an invoice from the given cart snapshot. Inside one
// transaction every product row is locked, stock is checked and decremented,
// line amounts are recomputed from the locked rows, and the next number of the
// current year is allocated. Any failure rolls the whole sale back.
//
// Document rendering and notification happen after the commit and never undo
// the invoice; a failed render is retried on first download.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, lines []entity.CartLine, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var (
		invoice *entity.Invoice
		items   []*entity.InvoiceItem
	)
	// A concurrent creator can win the race for the allocated number between
	// our MAX read and the insert. The unique index rejects the loser, which
	// simply re-runs the whole transaction with fresh locks.
	var err error
	for attempt := 0; attempt < numberRetries; attempt++ {
		invoice, items, err = uc.createOnce(ctx, userID, lines, req, now)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		uc.log.Warn().Int("attempt", attempt+1).Msg("invoice number collision, retrying")
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_number", invoice.InvoiceNumber).
		Str("user_id", userID).
		Str("total_amount", invoice.TotalAmount.StringFixed(2)).
		Msg("invoice created")

	pdf, renderErr := uc.docs.renderAndStore(invoice, items)
	if renderErr != nil {
		uc.log.Error().Err(renderErr).
			Str("invoice_number", invoice.InvoiceNumber).
			Msg("document generation failed, invoice remains valid")
	}

	if req.NotifyEmail != "" || req.NotifyPhone != "" {
		inv := *invoice
		go uc.notifier.Notify(context.Background(), &inv, pdf, req.NotifyEmail, req.NotifyPhone)
	}

	return toInvoiceResponse(invoice, items), nil
}

func (uc *InvoiceUseCase) createOnce(ctx context.Context, userID string, lines []entity.CartLine, req dto.CreateInvoiceRequest, now time.Time) (*entity.Invoice, []*entity.InvoiceItem, error) {
	var (
		invoice *entity.Invoice
		items   []*entity.InvoiceItem
	)
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		invoice = &entity.Invoice{
			ID:              uuid.New().String(),
			Date:            now,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerAddress: strings.TrimSpace(req.CustomerAddress),
			CustomerGSTIN:   strings.TrimSpace(req.CustomerGSTIN),
			CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
			PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
			Status:          entity.StatusPending,
			UserID:          userID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		items = items[:0]

		for pos, line := range lines {
			product, err := r.Products.GetForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if product.StockQuantity < line.Quantity {
				return domain.ErrInsufficientStock
			}
			// Amounts come from the locked row, not from whatever price the
			// cart saw when the line was added.
			a := billing.ComputeLine(line.Quantity, product.UnitPrice, product.GSTRate)
			items = append(items, &entity.InvoiceItem{
				ID:          uuid.New().String(),
				InvoiceID:   invoice.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Position:    pos,
				Quantity:    line.Quantity,
				UnitPrice:   product.UnitPrice,
				GSTRate:     product.GSTRate,
				Subtotal:    a.Subtotal,
				GSTAmount:   a.GSTAmount,
				Total:       a.Total,
			})
			invoice.TotalAmount = invoice.TotalAmount.Add(a.Total)
			invoice.GSTAmount = invoice.GSTAmount.Add(a.GSTAmount)

			if err := r.Products.UpdateStock(product.ID, product.StockQuantity-line.Quantity); err != nil {
				return err
			}
		}

		last, err := r.Invoices.LastNumberForYear(billing.YearPrefix(now.Year()))
		if err != nil {
			return err
		}
		number, err := billing.NextNumber(now.Year(), last)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number

		if err := r.Invoices.Create(invoice); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Invoices.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

// Get returns one invoice with its lines. Lookup accepts the internal ID or
// the invoice number. Invoices of other users answer with ErrNotFound so their
// existence is not revealed.
func (uc *InvoiceUseCase) Get(idOrNumber, userID string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.find(idOrNumber)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoices.GetItemsByInvoiceID(invoice.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, items), nil
}

// ListByUser returns the caller's invoice summaries, newest first.
func (uc *InvoiceUseCase) ListByUser(userID string) ([]dto.InvoiceSummaryResponse, error) {
	invoices, err := uc.invoices.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceSummaryResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, dto.InvoiceSummaryResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Date:          inv.Date.Format("2006-01-02"),
			CustomerName:  inv.CustomerName,
			Status:        inv.Status,
			PaymentMethod: inv.PaymentMethod,
			TotalAmount:   inv.TotalAmount,
		})
	}
	return out, nil
}

// MarkPaid flips a pending invoice to PAID. Marking an already paid invoice
// again is a no-op.
func (uc *InvoiceUseCase) MarkPaid(idOrNumber, userID string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.find(idOrNumber)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if invoice.Status != entity.StatusPaid {
		invoice.Status = entity.StatusPaid
		invoice.UpdatedAt = time.Now()
		if err := uc.invoices.UpdateStatus(invoice.ID, invoice.Status, invoice.UpdatedAt); err != nil {
			return nil, err
		}
	}
	items, err := uc.invoices.GetItemsByInvoiceID(invoice.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, items), nil
}

func (uc *InvoiceUseCase) find(idOrNumber string) (*entity.Invoice, error) {
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
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func validateRequest(req dto.CreateInvoiceRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerAddress) == "" ||
		strings.TrimSpace(req.PaymentMethod) == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

func toInvoiceResponse(invoice *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		Date:            invoice.Date.Format("2006-01-02"),
		CustomerName:    invoice.CustomerName,
		CustomerAddress: invoice.CustomerAddress,
		CustomerGSTIN:   invoice.CustomerGSTIN,
		CustomerPhone:   invoice.CustomerPhone,
		PaymentMethod:   invoice.PaymentMethod,
		Status:          invoice.Status,
		Subtotal:        invoice.Subtotal(),
		GSTAmount:       invoice.GSTAmount,
		TotalAmount:     invoice.TotalAmount,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			GSTRate:     item.GSTRate,
			Subtotal:    item.Subtotal,
			GSTAmount:   item.GSTAmount,
			Total:       item.Total,
		})
	}
	return resp
}
