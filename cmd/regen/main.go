// Command regen re-renders the stored PDF of every invoice in the ledger.
// Useful after letterhead or layout changes; each invoice is reported
// individually and one failure never stops the batch.
package main

import (
	"context"
	"os"

	appbilling "github.com/billmate/billing-api/internal/application/billing"
	infrapdf "github.com/billmate/billing-api/internal/infrastructure/pdf"
	"github.com/billmate/billing-api/internal/infrastructure/postgres"
	"github.com/billmate/billing-api/pkg/config"
	"github.com/billmate/billing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	pool, err := postgres.NewPool(context.Background(), cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	renderer := infrapdf.NewInvoiceRenderer(cfg.Company)
	docsUC := appbilling.NewDocumentUseCase(renderer, invoiceRepo, documentRepo, log)

	results, err := docsUC.RegenerateAll()
	if err != nil {
		log.Fatal().Err(err).Msg("list invoices")
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			log.Error().Str("invoice_number", r.InvoiceNumber).Str("error", r.Error).Msg("regeneration failed")
			continue
		}
		log.Info().Str("invoice_number", r.InvoiceNumber).Msg("regenerated")
	}

	log.Info().Int("total", len(results)).Int("failed", failed).Msg("regeneration finished")
	if failed > 0 {
		os.Exit(1)
	}
}
