package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/quota"
)

// WebhookSecretHeader cabecera con el secreto compartido del proveedor de pagos.
const WebhookSecretHeader = "X-Webhook-Secret"

// TenantHandler plan y consumo del tenant, más el webhook de pago confirmado.
type TenantHandler struct {
	tenants       *quota.TenantUseCase
	gate          *quota.Gate
	webhookSecret string
}

// NewTenantHandler construye el handler. Con webhookSecret vacío el webhook responde 503.
func NewTenantHandler(tenants *quota.TenantUseCase, gate *quota.Gate, webhookSecret string) *TenantHandler {
	return &TenantHandler{tenants: tenants, gate: gate, webhookSecret: webhookSecret}
}

// Get GET /api/tenant
func (h *TenantHandler) Get(c *fiber.Ctx) error {
	out, err := h.tenants.Get(c.UserContext(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Usage godoc
// @Summary      Consumo del plan
// @Tags         tenant
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UsageResponse
// @Router       /api/tenant/usage [get]
func (h *TenantHandler) Usage(c *fiber.Ctx) error {
	out, err := h.gate.Usage(c.UserContext(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PaymentConfirmed webhook del proveedor de pagos: sube el tenant a PRO. Idempotente.
// POST /api/webhooks/payment-confirmed
func (h *TenantHandler) PaymentConfirmed(c *fiber.Ctx) error {
	if h.webhookSecret == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "WEBHOOK_DISABLED", Message: "webhook no configurado"})
	}
	got := c.Get(WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "secreto inválido"})
	}
	var in dto.PaymentConfirmedRequest
	if err := c.BodyParser(&in); err != nil || in.TenantID == "" {
		return badBody(c)
	}
	out, err := h.tenants.UpgradeToPro(c.UserContext(), in.TenantID, in.Reference)
	if err != nil {
		return writeError(c, err)
	}
	log.Info().Str("tenant_id", in.TenantID).Str("reference", in.Reference).Str("plan", out.Plan).Msg("payment webhook processed")
	return c.JSON(out)
}
