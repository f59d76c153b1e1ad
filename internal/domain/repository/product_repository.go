package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// CreateIfAbsent inserta salvo que el tenant ya tenga un producto con el mismo nombre plegado.
	// Devuelve false sin error si otro lo creó antes.
	CreateIfAbsent(ctx context.Context, product *entity.Product) (bool, error)
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error)
	// GetByName busca por nombre sin distinguir mayúsculas/minúsculas.
	GetByName(ctx context.Context, tenantID, name string) (*entity.Product, error)
	// GetByNameForUpdate igual que GetByName pero bloqueando la fila encontrada.
	GetByNameForUpdate(ctx context.Context, tenantID, name string) (*entity.Product, error)
	UpdateStock(ctx context.Context, tenantID, id string, stock int64) error
	// UpdatePricing sobrescribe price, buy_price, currency y exchange_rate.
	UpdatePricing(ctx context.Context, product *entity.Product) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error)
}
