package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/billmate/billing-api/internal/application/auth"
	appbilling "github.com/billmate/billing-api/internal/application/billing"
	"github.com/billmate/billing-api/internal/application/cart"
	"github.com/billmate/billing-api/internal/application/catalog"
	infranotify "github.com/billmate/billing-api/internal/infrastructure/notify"
	infrapdf "github.com/billmate/billing-api/internal/infrastructure/pdf"
	"github.com/billmate/billing-api/internal/infrastructure/postgres"
	infraredis "github.com/billmate/billing-api/internal/infrastructure/redis"
	httpRouter "github.com/billmate/billing-api/internal/interfaces/http"
	"github.com/billmate/billing-api/pkg/config"
	"github.com/billmate/billing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to Redis")
	}
	defer redisClient.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sessionStore := infraredis.NewSessionStore(redisClient, time.Duration(cfg.Redis.CartTTLHours)*time.Hour)
	cartSvc := cart.NewService(sessionStore, productRepo)

	renderer := infrapdf.NewInvoiceRenderer(cfg.Company)
	docsUC := appbilling.NewDocumentUseCase(renderer, invoiceRepo, documentRepo, log)

	var mailer appbilling.Mailer
	if cfg.SMTP.Enabled() {
		mailer = infranotify.NewSMTPMailer(cfg.SMTP)
	}
	var smsSender appbilling.SMSSender
	if cfg.SMS.Enabled() {
		smsSender = infranotify.NewFast2SMSSender(cfg.SMS)
	}
	notifier := appbilling.NewNotifier(mailer, smsSender, cfg.Company, log)

	invoiceUC := appbilling.NewInvoiceUseCase(txRunner, invoiceRepo, docsUC, notifier, log)
	productUC := catalog.NewProductUseCase(productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		CartSvc:   cartSvc,
		InvoiceUC: invoiceUC,
		DocsUC:    docsUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
