package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
)

// InventoryHandler consulta y verifica el kardex (protegido).
type InventoryHandler struct {
	audit *inventory.AuditUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(audit *inventory.AuditUseCase) *InventoryHandler {
	return &InventoryHandler{audit: audit}
}

// Logs godoc
// @Summary      Kardex de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/products/{id}/logs [get]
func (h *InventoryHandler) Logs(c *fiber.Ctx) error {
	page := pagination(c)
	out, err := h.audit.ListLogs(c.UserContext(), GetTenantID(c), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(out, page))
}

// VerifyProduct reproduce el kardex de un producto contra su stock.
// GET /api/products/:id/audit
func (h *InventoryHandler) VerifyProduct(c *fiber.Ctx) error {
	out, err := h.audit.VerifyProduct(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// VerifyTenant GET /api/inventory/audit (solo ADMIN)
func (h *InventoryHandler) VerifyTenant(c *fiber.Ctx) error {
	out, err := h.audit.VerifyTenant(c.UserContext(), GetTenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
