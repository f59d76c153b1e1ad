package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceFilter criterios de listado de facturas.
type InvoiceFilter struct {
	TenantID string
	Type     string // vacío = todos
	Status   string // vacío = todos
	Limit    int
	Offset   int
}

// InvoiceRepository define el puerto de persistencia para Invoice e InvoiceItem.
type InvoiceRepository interface {
	// NextNumber reserva el siguiente consecutivo del tenant bloqueando su contador.
	// Los números no se reutilizan aunque se eliminen facturas.
	NextNumber(ctx context.Context, tenantID string) (int64, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la cabecera para serializar ediciones concurrentes.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	UpdateHeader(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, tenantID, id, status string) error
	DeleteItems(ctx context.Context, invoiceID string) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	ListIDsByCustomer(ctx context.Context, tenantID, customerID string) ([]string, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
}
