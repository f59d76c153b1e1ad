package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// featureChecker es el contrato mínimo que necesita el middleware; lo implementa *quota.Gate.
type featureChecker interface {
	RequireFeature(ctx context.Context, tenantID, feature string) error
}

// RequireFeature verifica que el plan del tenant del token incluya la función.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalTenantID).
//
// Comportamiento:
//   - 403 Forbidden → función no incluida en el plan (o plan ilegible: la verificación falla cerrada).
//   - 401 si no hay tenant_id en el contexto.
func RequireFeature(feature string, checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := GetTenantID(c)
		if tenantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "tenant_id no encontrado en el token",
			})
		}
		if err := checker.RequireFeature(c.UserContext(), tenantID, feature); err != nil {
			if errors.Is(err, domain.ErrFeatureDisabled) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Code:    "FEATURE_DISABLED",
					Message: "la función '" + feature + "' no está incluida en el plan",
				})
			}
			return writeError(c, err)
		}
		return c.Next()
	}
}
