package repository

import "github.com/billmate/billing-api/internal/domain/entity"

// ProductRepository is the persistence port for catalog products.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate reads the product and locks its row for the duration of
	// the surrounding transaction (SELECT FOR UPDATE). Only meaningful when
	// the repository is bound to a transaction.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(id string, stockQuantity int) error
	Delete(id string) error
	// List returns products, optionally filtered by a case-insensitive name
	// search. Hidden products are excluded unless includeHidden is set.
	List(search string, includeHidden bool) ([]*entity.Product, error)
}
