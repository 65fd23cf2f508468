// Package cart implements the per-session cart: an ordered list of product
// lines kept in the session store and recomputed from the current catalog on
// every mutation. The cart is display-only scratch state; nothing here touches
// stock or invoices.
package cart

import (
	"context"

	"github.com/billmate/billing-api/internal/application/dto"
	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/billing"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/internal/domain/repository"
)

// SessionStore is the per-client scratch space holding cart lines.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) ([]entity.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []entity.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}

// Service cart operations for one session at a time.
type Service struct {
	store       SessionStore
	productRepo repository.ProductRepository
}

// NewService builds the cart service.
func NewService(store SessionStore, productRepo repository.ProductRepository) *Service {
	return &Service{store: store, productRepo: productRepo}
}

// Add puts quantity units of a product into the session cart, merging into an
// existing line. Hidden or unknown products are not added; the first return
// value reports whether the line went in (no error in that case, per the
// storefront flow where a stale product link is not a failure).
func (s *Service) Add(ctx context.Context, sessionID, productID string, quantity int) (bool, error) {
	if quantity < 1 {
		quantity = 1
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return false, err
	}
	if product == nil || product.Hidden {
		return false, nil
	}
	lines, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	merged := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			recompute(&lines[i], product)
			merged = true
			break
		}
	}
	if !merged {
		line := entity.CartLine{ProductID: productID, Quantity: quantity}
		recompute(&line, product)
		lines = append(lines, line)
	}
	if err := s.store.Save(ctx, sessionID, lines); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateQuantity sets the quantity of an existing line and recomputes its
// derived fields from the current catalog price.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	lines, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		lines[i].Quantity = quantity
		recompute(&lines[i], product)
		return s.store.Save(ctx, sessionID, lines)
	}
	return domain.ErrNotFound
}

// Remove drops a line if present. Removing an absent product is not an error.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) error {
	lines, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			lines = append(lines[:i], lines[i+1:]...)
			return s.store.Save(ctx, sessionID, lines)
		}
	}
	return nil
}

// Get returns the cart with display totals.
func (s *Service) Get(ctx context.Context, sessionID string) (*dto.CartResponse, error) {
	lines, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toResponse(lines), nil
}

// Snapshot returns the raw lines for the ledger to commit. The ledger
// re-validates stock and prices against locked rows; this is just the
// requested product/quantity list.
func (s *Service) Snapshot(ctx context.Context, sessionID string) ([]entity.CartLine, error) {
	return s.store.Get(ctx, sessionID)
}

// Clear empties the session cart, called after a successful invoice commit.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func recompute(line *entity.CartLine, product *entity.Product) {
	line.ProductName = product.Name
	line.UnitPrice = product.UnitPrice
	line.GSTRate = product.GSTRate
	a := billing.ComputeLine(line.Quantity, product.UnitPrice, product.GSTRate)
	line.Subtotal = a.Subtotal
	line.GSTAmount = a.GSTAmount
	line.Total = a.Total
}

func toResponse(lines []entity.CartLine) *dto.CartResponse {
	resp := &dto.CartResponse{Items: make([]dto.CartLineResponse, 0, len(lines))}
	totals := billing.ComputeTotals(lines)
	resp.TotalAmount = totals.TotalAmount
	resp.TotalGST = totals.GSTAmount
	for _, l := range lines {
		resp.Items = append(resp.Items, dto.CartLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			GSTRate:     l.GSTRate,
			Subtotal:    l.Subtotal,
			GSTAmount:   l.GSTAmount,
			Total:       l.Total,
		})
	}
	return resp
}
