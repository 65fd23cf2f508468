package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billmate/billing-api/internal/application/dto"
	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/pkg/config"
)

func testProduct(id, name, price, rate string, stock int) *entity.Product {
	return &entity.Product{
		ID:            id,
		Name:          name,
		UnitPrice:     decimal.RequireFromString(price),
		GSTRate:       decimal.RequireFromString(rate),
		StockQuantity: stock,
	}
}

func newLedger(s *memState, renderer DocumentRenderer) *InvoiceUseCase {
	log := testLogger()
	invoices := &memInvoiceRepo{s: s}
	docs := NewDocumentUseCase(renderer, invoices, &memDocumentRepo{s: s}, log)
	notifier := NewNotifier(nil, nil, config.CompanyConfig{Name: "Test Traders"}, log)
	return NewInvoiceUseCase(&memTxRunner{s: s}, invoices, docs, notifier, log)
}

func cartLine(productID string, qty int) entity.CartLine {
	return entity.CartLine{ProductID: productID, Quantity: qty}
}

func validRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerName:    "Asha Traders",
		CustomerAddress: "14 MG Road, Pune",
		PaymentMethod:   "UPI",
	}
}

func TestCreateInvoice(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 100))
	uc := newLedger(s, &fakeRenderer{})

	resp, err := uc.Create(context.Background(), "u1", []entity.CartLine{cartLine("p1", 2)}, validRequest())
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("INV%d-0001", year), resp.InvoiceNumber)
	assert.Equal(t, entity.StatusPending, resp.Status)
	assert.Equal(t, "2000", resp.Subtotal.String())
	assert.Equal(t, "360", resp.GSTAmount.String())
	assert.Equal(t, "2360", resp.TotalAmount.String())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Copper Cable", resp.Items[0].ProductName)
	assert.Equal(t, 2, resp.Items[0].Quantity)

	assert.Equal(t, 98, s.products["p1"].StockQuantity)

	doc := s.docs[resp.ID]
	require.NotNil(t, doc)
	assert.Equal(t, fmt.Sprintf("invoice_INV%d-0001.pdf", year), doc.FileName)
	assert.Equal(t, len(doc.Data), doc.ByteSize)
}

func TestCreateInvoiceSequentialNumbers(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 100))
	uc := newLedger(s, &fakeRenderer{})
	ctx := context.Background()

	first, err := uc.Create(ctx, "u1", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	require.NoError(t, err)
	second, err := uc.Create(ctx, "u1", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("INV%d-0001", year), first.InvoiceNumber)
	assert.Equal(t, fmt.Sprintf("INV%d-0002", year), second.InvoiceNumber)
}

func TestCreateInvoiceItemsKeepCartOrder(t *testing.T) {
	s := newMemState(
		testProduct("p1", "Widget", "100", "18", 10),
		testProduct("p2", "Anvil", "500", "18", 10),
	)
	invoices := &memInvoiceRepo{s: s}
	uc := newLedger(s, &fakeRenderer{})

	lines := []entity.CartLine{cartLine("p1", 1), cartLine("p2", 1)}
	resp, err := uc.Create(context.Background(), "u1", lines, validRequest())
	require.NoError(t, err)

	// Lines stay in cart order, not alphabetical, so every later render of
	// the stored invoice lays the rows out identically.
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Widget", resp.Items[0].ProductName)
	assert.Equal(t, "Anvil", resp.Items[1].ProductName)

	items, err := invoices.GetItemsByInvoiceID(resp.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Widget", items[0].ProductName)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, "Anvil", items[1].ProductName)
	assert.Equal(t, 1, items[1].Position)
}

func TestCreateInvoiceInsufficientStockRollsBack(t *testing.T) {
	s := newMemState(
		testProduct("p1", "Copper Cable", "1000", "18", 100),
		testProduct("p2", "Junction Box", "250", "12", 1),
	)
	uc := newLedger(s, &fakeRenderer{})

	lines := []entity.CartLine{cartLine("p1", 5), cartLine("p2", 3)}
	_, err := uc.Create(context.Background(), "u1", lines, validRequest())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 100, s.products["p1"].StockQuantity)
	assert.Equal(t, 1, s.products["p2"].StockQuantity)
	assert.Empty(t, s.invoices)
	assert.Empty(t, s.docs)
}

func TestCreateInvoiceRetriesOnNumberCollision(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 10))
	s.failNextCreates(1)
	uc := newLedger(s, &fakeRenderer{})

	resp, err := uc.Create(context.Background(), "u1", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV%d-0001", time.Now().Year()), resp.InvoiceNumber)
	assert.Equal(t, 9, s.products["p1"].StockQuantity)
}

func TestCreateInvoiceGivesUpAfterRepeatedCollisions(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 10))
	s.failNextCreates(numberRetries)
	uc := newLedger(s, &fakeRenderer{})

	_, err := uc.Create(context.Background(), "u1", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 10, s.products["p1"].StockQuantity)
}

func TestCreateInvoiceValidation(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 10))
	uc := newLedger(s, &fakeRenderer{})
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", nil, validRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req := validRequest()
	req.CustomerName = "  "
	_, err = uc.Create(ctx, "u1", []entity.CartLine{cartLine("p1", 1)}, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = validRequest()
	req.PaymentMethod = ""
	_, err = uc.Create(ctx, "u1", []entity.CartLine{cartLine("p1", 1)}, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateInvoiceUsesLockedPrices(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1200", "18", 10))
	uc := newLedger(s, &fakeRenderer{})

	// Cart snapshot carries a stale price; the committed amounts must come
	// from the product row as it stands at commit time.
	stale := cartLine("p1", 1)
	stale.UnitPrice = decimal.RequireFromString("1000")

	resp, err := uc.Create(context.Background(), "u1", []entity.CartLine{stale}, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "1200", resp.Items[0].UnitPrice.String())
	assert.Equal(t, "1416", resp.TotalAmount.String())
}

func TestCreateInvoiceSurvivesRenderFailure(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 10))
	uc := newLedger(s, &fakeRenderer{failing: true})

	resp, err := uc.Create(context.Background(), "u1", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	require.NoError(t, err)

	assert.Equal(t, 9, s.products["p1"].StockQuantity)
	require.NotNil(t, s.invoices[resp.ID])
	assert.Empty(t, s.docs)
}

func TestGetInvoiceOwnership(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 10))
	uc := newLedger(s, &fakeRenderer{})
	ctx := context.Background()

	created, err := uc.Create(ctx, "u1", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	require.NoError(t, err)

	byID, err := uc.Get(created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, byID.InvoiceNumber)

	byNumber, err := uc.Get(created.InvoiceNumber, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)
	require.Len(t, byNumber.Items, 1)

	// Other users must not learn the invoice exists.
	_, err = uc.Get(created.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Get("no-such-invoice", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByUser(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 10))
	uc := newLedger(s, &fakeRenderer{})
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	require.NoError(t, err)
	_, err = uc.Create(ctx, "u2", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	require.NoError(t, err)

	mine, err := uc.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Asha Traders", mine[0].CustomerName)
	assert.Equal(t, "2360", mine[0].TotalAmount.String())
}

func TestMarkPaid(t *testing.T) {
	s := newMemState(testProduct("p1", "Copper Cable", "1000", "18", 10))
	uc := newLedger(s, &fakeRenderer{})
	ctx := context.Background()

	created, err := uc.Create(ctx, "u1", []entity.CartLine{cartLine("p1", 1)}, validRequest())
	require.NoError(t, err)

	paid, err := uc.MarkPaid(created.InvoiceNumber, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, paid.Status)
	assert.Equal(t, entity.StatusPaid, s.invoices[created.ID].Status)

	// Marking again stays PAID.
	again, err := uc.MarkPaid(created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, again.Status)

	_, err = uc.MarkPaid(created.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
