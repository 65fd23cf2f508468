package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	appbilling "github.com/billmate/billing-api/internal/application/billing"
	"github.com/billmate/billing-api/internal/application/cart"
	"github.com/billmate/billing-api/internal/application/dto"
	"github.com/billmate/billing-api/internal/domain"
	"github.com/billmate/billing-api/pkg/logger"
)

// InvoiceHandler handles the invoice ledger and document endpoints.
type InvoiceHandler struct {
	uc   *appbilling.InvoiceUseCase
	docs *appbilling.DocumentUseCase
	cart *cart.Service
	log  *logger.Logger
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *appbilling.InvoiceUseCase, docs *appbilling.DocumentUseCase, cartSvc *cart.Service, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, docs: docs, cart: cartSvc, log: log}
}

// Create godoc
// @Summary      Create invoice from the session cart
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "customer and payment data"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	userID := GetUserID(c)

	lines, err := h.cart.Snapshot(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out, err := h.uc.Create(c.Context(), userID, lines, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cart must not be empty; customer name, address and payment method are required"})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "not enough stock for one or more products"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRODUCT_GONE", Message: "a cart product no longer exists"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NUMBER_CONFLICT", Message: "could not allocate an invoice number, try again"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}

	// The sale is committed; an uncleared cart is an inconvenience, not a
	// reason to fail the request.
	if err := h.cart.Clear(c.Context(), userID); err != nil {
		h.log.Warn().Err(err).Str("invoice_number", out.InvoiceNumber).Msg("cart clear failed after invoice creation")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List own invoices
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InvoiceSummaryResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByUser(GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get invoice by ID or number
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        idOrNumber  path  string  true  "invoice ID or invoice number"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{idOrNumber} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Params("idOrNumber"), GetUserID(c))
	if err != nil {
		return h.invoiceError(c, err)
	}
	return c.JSON(out)
}

// Pay godoc
// @Summary      Mark invoice as paid
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        idOrNumber  path  string  true  "invoice ID or invoice number"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{idOrNumber}/pay [post]
func (h *InvoiceHandler) Pay(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.Params("idOrNumber"), GetUserID(c))
	if err != nil {
		return h.invoiceError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Download invoice PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        idOrNumber  path  string  true  "invoice ID or invoice number"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{idOrNumber}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	doc, err := h.docs.Download(c.Params("idOrNumber"), GetUserID(c))
	if err != nil {
		return h.invoiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	return c.Send(doc.Data)
}

// RegeneratePDF godoc
// @Summary      Regenerate invoice PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        idOrNumber  path  string  true  "invoice ID or invoice number"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{idOrNumber}/pdf [post]
func (h *InvoiceHandler) RegeneratePDF(c *fiber.Ctx) error {
	doc, err := h.docs.Regenerate(c.Params("idOrNumber"), GetUserID(c))
	if err != nil {
		return h.invoiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"file_name": doc.FileName,
		"byte_size": doc.ByteSize,
	})
}

func (h *InvoiceHandler) invoiceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "invoice not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
