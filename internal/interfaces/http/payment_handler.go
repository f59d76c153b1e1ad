package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// PaymentHandler abonos de una factura (protegido). Los montos viajan en moneda base.
type PaymentHandler struct {
	ledger *billing.PaymentLedger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(ledger *billing.PaymentLedger) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// List GET /api/invoices/:id/payments
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	out, err := h.ledger.List(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Registrar abono
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la factura"
// @Param        body  body  dto.AddPaymentRequest   true  "Monto en moneda base"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *PaymentHandler) Add(c *fiber.Ctx) error {
	var in dto.AddPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Add(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete DELETE /api/invoices/:id/payments/:paymentId
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.Delete(c.UserContext(), GetTenantID(c), c.Params("id"), c.Params("paymentId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete registra un abono por el saldo pendiente.
// POST /api/invoices/:id/payments/complete
func (h *PaymentHandler) Complete(c *fiber.Ctx) error {
	out, err := h.ledger.Complete(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Balance GET /api/invoices/:id/balance
func (h *PaymentHandler) Balance(c *fiber.Ctx) error {
	out, err := h.ledger.Balance(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
