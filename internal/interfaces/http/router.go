package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/billmate/billing-api/internal/application/auth"
	appbilling "github.com/billmate/billing-api/internal/application/billing"
	"github.com/billmate/billing-api/internal/application/cart"
	"github.com/billmate/billing-api/internal/application/catalog"
	"github.com/billmate/billing-api/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *catalog.ProductUseCase
	CartSvc   *cart.Service
	InvoiceUC *appbilling.InvoiceUseCase
	DocsUC    *appbilling.DocumentUseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Product browsing is public; management requires a token.
	productHandler := NewProductHandler(deps.ProductUC)
	api.Get("/products", productHandler.List)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	cartHandler := NewCartHandler(deps.CartSvc)
	cartGroup := protected.Group("/cart")
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:productID", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:productID", cartHandler.RemoveItem)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocsUC, deps.CartSvc, deps.Log)
	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:idOrNumber", invoiceHandler.Get)
	invoices.Post("/:idOrNumber/pay", invoiceHandler.Pay)
	invoices.Get("/:idOrNumber/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:idOrNumber/pdf", invoiceHandler.RegeneratePDF)
}
