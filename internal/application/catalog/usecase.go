// Package catalog implements product management: create, edit, delete, list
// with name search, and the hidden flag that keeps a product out of carts
// without breaking historical invoice snapshots.
package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billmate/billing-api/internal/application/dto"
	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/internal/domain/repository"
)

// ProductUseCase catalog management.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase builds the use case.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create validates and persists a new product.
func (uc *ProductUseCase) Create(in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		UnitPrice:     in.UnitPrice,
		GSTRate:       in.GSTRate,
		StockQuantity: in.StockQuantity,
		Hidden:        in.Hidden,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toResponse(product), nil
}

// Update edits an existing product. Price/GST edits do not touch snapshots
// inside already-committed invoices.
func (uc *ProductUseCase) Update(id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Name = in.Name
	product.UnitPrice = in.UnitPrice
	product.GSTRate = in.GSTRate
	product.StockQuantity = in.StockQuantity
	product.Hidden = in.Hidden
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toResponse(product), nil
}

// Delete removes a product from the catalog. Invoice items keep their
// snapshots; only the catalog row goes away.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

// GetByID fetches one product.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(product), nil
}

// List returns catalog products matching the optional search term.
// includeHidden is for the management view; the public listing excludes
// hidden products.
func (uc *ProductUseCase) List(search string, includeHidden bool) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.List(search, includeHidden)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toResponse(p))
	}
	return out, nil
}

func validate(in dto.ProductRequest) error {
	if in.Name == "" {
		return domain.ErrInvalidInput
	}
	if in.UnitPrice.LessThan(decimal.Zero) || in.GSTRate.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.StockQuantity < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

func toResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		UnitPrice:     p.UnitPrice,
		GSTRate:       p.GSTRate,
		StockQuantity: p.StockQuantity,
		Hidden:        p.Hidden,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
