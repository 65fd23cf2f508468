package billing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/pkg/logger"
)

// memState is the in-memory database shared by the fake repositories.
type memState struct {
	products map[string]*entity.Product
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
	docs     map[string]*entity.RenderedDocument

	// createFailures makes the next N invoice inserts report a number
	// collision, to exercise the allocation retry. Shared by pointer so the
	// count survives transaction rollbacks.
	createFailures *int
}

func newMemState(products ...*entity.Product) *memState {
	s := &memState{
		products: make(map[string]*entity.Product),
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
		docs:     make(map[string]*entity.RenderedDocument),

		createFailures: new(int),
	}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, inv := range s.invoices {
		cp := *inv
		c.invoices[id] = &cp
	}
	for id, items := range s.items {
		cp := make([]*entity.InvoiceItem, len(items))
		for i, it := range items {
			itc := *it
			cp[i] = &itc
		}
		c.items[id] = cp
	}
	for id, d := range s.docs {
		cp := *d
		c.docs[id] = &cp
	}
	c.createFailures = s.createFailures
	return c
}

func (s *memState) failNextCreates(n int) { *s.createFailures = n }

func (s *memState) replaceWith(o *memState) {
	s.products = o.products
	s.invoices = o.invoices
	s.items = o.items
	s.docs = o.docs
	s.createFailures = o.createFailures
}

type memProductRepo struct{ s *memState }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) UpdateStock(id string, qty int) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = qty
	return nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.s.products, id); return nil }
func (r *memProductRepo) List(string, bool) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

type memInvoiceRepo struct{ s *memState }

func (r *memInvoiceRepo) Create(inv *entity.Invoice) error {
	if *r.s.createFailures > 0 {
		*r.s.createFailures--
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	cp := *item
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], &cp)
	return nil
}

func (r *memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.s.invoices[id], nil
}

func (r *memInvoiceRepo) GetByNumber(number string) (*entity.Invoice, error) {
	for _, inv := range r.s.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, nil
}

func (r *memInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	out := append([]*entity.InvoiceItem(nil), r.s.items[invoiceID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memInvoiceRepo) ListByUser(userID string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	sortByNumber(out)
	return out, nil
}

func (r *memInvoiceRepo) ListAll() ([]*entity.Invoice, error) {
	out := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		out = append(out, inv)
	}
	sortByNumber(out)
	return out, nil
}

func (r *memInvoiceRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	return nil
}

func (r *memInvoiceRepo) LastNumberForYear(yearPrefix string) (string, error) {
	last := ""
	for _, inv := range r.s.invoices {
		n := inv.InvoiceNumber
		if len(n) >= len(yearPrefix) && n[:len(yearPrefix)] == yearPrefix && n > last {
			last = n
		}
	}
	return last, nil
}

func sortByNumber(invoices []*entity.Invoice) {
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].InvoiceNumber < invoices[j].InvoiceNumber
	})
}

type memDocumentRepo struct{ s *memState }

func (r *memDocumentRepo) Upsert(doc *entity.RenderedDocument) error {
	cp := *doc
	r.s.docs[doc.InvoiceID] = &cp
	return nil
}

func (r *memDocumentRepo) GetByInvoiceID(invoiceID string) (*entity.RenderedDocument, error) {
	return r.s.docs[invoiceID], nil
}

func (r *memDocumentRepo) DeleteByInvoiceID(invoiceID string) error {
	delete(r.s.docs, invoiceID)
	return nil
}

// memTxRunner mimics transaction semantics over memState: fn runs against a
// clone, which replaces the live state only when fn returns nil.
type memTxRunner struct{ s *memState }

func (t *memTxRunner) Run(_ context.Context, fn func(r TxRepos) error) error {
	clone := t.s.clone()
	err := fn(TxRepos{
		Products:  &memProductRepo{s: clone},
		Invoices:  &memInvoiceRepo{s: clone},
		Documents: &memDocumentRepo{s: clone},
	})
	if err != nil {
		return err
	}
	t.s.replaceWith(clone)
	return nil
}

// fakeRenderer returns a deterministic payload derived from the invoice, or a
// fixed error when failing is set.
type fakeRenderer struct {
	failing bool
	calls   int
}

func (r *fakeRenderer) Render(invoice *entity.Invoice, items []*entity.InvoiceItem) ([]byte, error) {
	r.calls++
	if r.failing {
		return nil, errors.New("renderer unavailable")
	}
	return []byte("pdf:" + invoice.InvoiceNumber + ":" + invoice.TotalAmount.StringFixed(2)), nil
}

type recordedMessage struct {
	To       string
	Body     string
	FileName string
	Payload  []byte
}

type fakeMailer struct {
	sent []recordedMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, _ string, body string, attachment []byte, fileName string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, recordedMessage{To: to, Body: body, FileName: fileName, Payload: attachment})
	return nil
}

type fakeSMS struct {
	sent []recordedMessage
	err  error
}

func (s *fakeSMS) Send(_ context.Context, phone, message string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, recordedMessage{To: phone, Body: message})
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}
