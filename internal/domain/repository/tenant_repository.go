package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	// GetByID devuelve nil, nil si el tenant no existe.
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	UpdatePlan(ctx context.Context, id, plan string) error
}
