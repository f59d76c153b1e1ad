package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InventoryLogRepository puerto del libro de inventario (solo inserción).
type InventoryLogRepository interface {
	Create(ctx context.Context, log *entity.InventoryLog) error
	// ListByProduct devuelve los registros en orden cronológico de inserción.
	// limit <= 0 devuelve todos.
	ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.InventoryLog, error)
}
