package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/billmate/billing-api/internal/domain/billing"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/pkg/config"
	"github.com/billmate/billing-api/pkg/logger"
)

// notifyTimeout bounds each outbound delivery attempt.
const notifyTimeout = 30 * time.Second

// Notifier delivers invoice confirmations over email and SMS. Delivery is
// best effort: a failed or unconfigured channel is logged and never affects
// the invoice, and the two channels fail independently.
type Notifier struct {
	mailer  Mailer
	sms     SMSSender
	company config.CompanyConfig
	log     *logger.Logger
}

// NewNotifier builds the notifier. mailer and sms may be nil when the
// corresponding transport is not configured.
func NewNotifier(mailer Mailer, sms SMSSender, company config.CompanyConfig, log *logger.Logger) *Notifier {
	return &Notifier{mailer: mailer, sms: sms, company: company, log: log}
}

// Notify sends the invoice to the given email and phone. Empty recipients
// skip their channel. Never returns an error; outcomes go to the log.
func (n *Notifier) Notify(ctx context.Context, invoice *entity.Invoice, pdf []byte, email, phone string) {
	if email != "" {
		n.sendEmail(ctx, invoice, pdf, email)
	}
	if phone != "" {
		n.sendSMS(ctx, invoice, phone)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, invoice *entity.Invoice, pdf []byte, to string) {
	if n.mailer == nil {
		n.log.Debug().Str("invoice_number", invoice.InvoiceNumber).Msg("mail transport not configured, skipping email")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	subject := fmt.Sprintf("Invoice %s from %s", invoice.InvoiceNumber, n.company.Name)
	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for your purchase. Please find invoice %s attached.\n\nAmount: Rs. %s\nDate: %s\n\nRegards,\n%s\n%s",
		invoice.CustomerName,
		invoice.InvoiceNumber,
		invoice.TotalAmount.StringFixed(2),
		invoice.Date.Format("02-01-2006"),
		n.company.Name,
		n.company.Phone,
	)
	fileName := billing.DocumentFileName(invoice.InvoiceNumber)
	if err := n.mailer.Send(ctx, to, subject, body, pdf, fileName); err != nil {
		n.log.Error().Err(err).
			Str("invoice_number", invoice.InvoiceNumber).
			Str("to", to).
			Msg("invoice email failed")
		return
	}
	n.log.Info().Str("invoice_number", invoice.InvoiceNumber).Str("to", to).Msg("invoice email sent")
}

func (n *Notifier) sendSMS(ctx context.Context, invoice *entity.Invoice, phone string) {
	if n.sms == nil {
		n.log.Debug().Str("invoice_number", invoice.InvoiceNumber).Msg("sms transport not configured, skipping sms")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	message := fmt.Sprintf(
		"Thank you for your purchase! Invoice %s for Rs. %s has been generated. - %s",
		invoice.InvoiceNumber,
		invoice.TotalAmount.StringFixed(2),
		n.company.Name,
	)
	if err := n.sms.Send(ctx, phone, message); err != nil {
		n.log.Error().Err(err).
			Str("invoice_number", invoice.InvoiceNumber).
			Str("phone", phone).
			Msg("invoice sms failed")
		return
	}
	n.log.Info().Str("invoice_number", invoice.InvoiceNumber).Str("phone", phone).Msg("invoice sms sent")
}
