package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/entity"
)

type fakeStore struct {
	carts map[string][]entity.CartLine
}

func newFakeStore() *fakeStore {
	return &fakeStore{carts: make(map[string][]entity.CartLine)}
}

func (s *fakeStore) Get(_ context.Context, sessionID string) ([]entity.CartLine, error) {
	return s.carts[sessionID], nil
}

func (s *fakeStore) Save(_ context.Context, sessionID string, lines []entity.CartLine) error {
	s.carts[sessionID] = lines
	return nil
}

func (s *fakeStore) Delete(_ context.Context, sessionID string) error {
	delete(s.carts, sessionID)
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error      { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateStock(id string, qty int) error {
	r.products[id].StockQuantity = qty
	return nil
}
func (r *fakeProductRepo) Delete(id string) error { delete(r.products, id); return nil }
func (r *fakeProductRepo) List(string, bool) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func newService(products ...*entity.Product) (*Service, *fakeStore) {
	repo := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	store := newFakeStore()
	return NewService(store, repo), store
}

func product(id, name string, price string, rate string) *entity.Product {
	return &entity.Product{
		ID:            id,
		Name:          name,
		UnitPrice:     decimal.RequireFromString(price),
		GSTRate:       decimal.RequireFromString(rate),
		StockQuantity: 10,
	}
}

func TestAddMergesQuantities(t *testing.T) {
	svc, _ := newService(product("p1", "Cable", "100", "18"))
	ctx := context.Background()

	added, err := svc.Add(ctx, "s1", "p1", 2)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Add(ctx, "s1", "p1", 3)
	require.NoError(t, err)
	assert.True(t, added)

	resp, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.Equal(t, "590", resp.Items[0].Total.String())
}

func TestAddHiddenOrMissingProduct(t *testing.T) {
	hidden := product("p1", "Cable", "100", "18")
	hidden.Hidden = true
	svc, _ := newService(hidden)
	ctx := context.Background()

	added, err := svc.Add(ctx, "s1", "p1", 1)
	require.NoError(t, err)
	assert.False(t, added)

	added, err = svc.Add(ctx, "s1", "no-such-product", 1)
	require.NoError(t, err)
	assert.False(t, added)

	resp, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	svc, _ := newService(product("p1", "Cable", "100", "18"))
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "p1", 0)
	require.NoError(t, err)

	resp, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newService(product("p1", "Cable", "100", "18"))
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "p1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, "s1", "p1", 4))

	resp, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Items[0].Quantity)
	assert.Equal(t, "472", resp.TotalAmount.String())

	err = svc.UpdateQuantity(ctx, "s1", "p1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = svc.UpdateQuantity(ctx, "s1", "absent", 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateQuantityRecomputesFromCurrentPrice(t *testing.T) {
	p := product("p1", "Cable", "100", "18")
	svc, _ := newService(p)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "p1", 1)
	require.NoError(t, err)

	p.UnitPrice = decimal.RequireFromString("200")
	require.NoError(t, svc.UpdateQuantity(ctx, "s1", "p1", 1))

	resp, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "200", resp.Items[0].UnitPrice.String())
	assert.Equal(t, "236", resp.Items[0].Total.String())
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, _ := newService(product("p1", "Cable", "100", "18"))
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "p1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "s1", "p1"))
	require.NoError(t, svc.Remove(ctx, "s1", "p1"))

	resp, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestClear(t *testing.T) {
	svc, store := newService(product("p1", "Cable", "100", "18"))
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "p1", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "s1"))
	assert.Empty(t, store.carts["s1"])
}

func TestTotalsAcrossLines(t *testing.T) {
	svc, _ := newService(
		product("p1", "Cable", "100", "18"),
		product("p2", "Switch", "50", "12"),
	)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "p1", 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", "p2", 1)
	require.NoError(t, err)

	resp, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "292", resp.TotalAmount.String())
	assert.Equal(t, "42", resp.TotalGST.String())
}
