package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/pkg/config"
)

func notifyInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV2026-0042",
		Date:          time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Asha Traders",
		TotalAmount:   decimal.RequireFromString("2360"),
		GSTAmount:     decimal.RequireFromString("360"),
	}
}

func TestNotifyBothChannels(t *testing.T) {
	mailer := &fakeMailer{}
	sms := &fakeSMS{}
	n := NewNotifier(mailer, sms, config.CompanyConfig{Name: "Test Traders", Phone: "+91 1234567890"}, testLogger())

	n.Notify(context.Background(), notifyInvoice(), []byte("pdf"), "asha@example.com", "9876543210")

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "asha@example.com", mailer.sent[0].To)
	assert.Equal(t, "invoice_INV2026-0042.pdf", mailer.sent[0].FileName)
	assert.Equal(t, []byte("pdf"), mailer.sent[0].Payload)
	assert.Contains(t, mailer.sent[0].Body, "INV2026-0042")
	assert.Contains(t, mailer.sent[0].Body, "2360.00")

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "9876543210", sms.sent[0].To)
	assert.Contains(t, sms.sent[0].Body, "INV2026-0042")
	assert.Contains(t, sms.sent[0].Body, "2360.00")
}

func TestNotifyChannelsFailIndependently(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	sms := &fakeSMS{}
	n := NewNotifier(mailer, sms, config.CompanyConfig{Name: "Test Traders"}, testLogger())

	n.Notify(context.Background(), notifyInvoice(), []byte("pdf"), "asha@example.com", "9876543210")

	assert.Empty(t, mailer.sent)
	require.Len(t, sms.sent, 1)
}

func TestNotifySkipsEmptyRecipients(t *testing.T) {
	mailer := &fakeMailer{}
	sms := &fakeSMS{}
	n := NewNotifier(mailer, sms, config.CompanyConfig{Name: "Test Traders"}, testLogger())

	n.Notify(context.Background(), notifyInvoice(), []byte("pdf"), "", "")

	assert.Empty(t, mailer.sent)
	assert.Empty(t, sms.sent)
}

func TestNotifyUnconfiguredTransports(t *testing.T) {
	n := NewNotifier(nil, nil, config.CompanyConfig{Name: "Test Traders"}, testLogger())
	// Must not panic with both transports absent.
	n.Notify(context.Background(), notifyInvoice(), nil, "asha@example.com", "9876543210")
}
