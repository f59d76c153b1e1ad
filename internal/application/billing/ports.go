package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Eventos publicados al Notifier después del commit.
const (
	EventInvoiceCreated       = "invoice.created"
	EventInvoiceUpdated       = "invoice.updated"
	EventInvoiceStatusChanged = "invoice.status_changed"
	EventPaymentAdded         = "payment.added"
	EventPaymentDeleted       = "payment.deleted"
)

// QuotaGate compuerta de cuotas del plan. La implementa *quota.Gate.
type QuotaGate interface {
	Allow(ctx context.Context, tenantID, feature string) error
	RequireFeature(ctx context.Context, tenantID, feature string) error
}

// Notifier consumidor de solo lectura (correo, PDF, resumen) que recibe la proyección
// de la factura cuando la transacción ya confirmó. Sus errores nunca revierten nada.
type Notifier interface {
	Notify(ctx context.Context, event string, view *dto.InvoiceView) error
}

// Repositories repositorios de lectura fuera de transacción.
// Dentro de RunInTx se usan siempre los de repository.TxRepos.
type Repositories struct {
	Tenants   repository.TenantRepository
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
	Invoices  repository.InvoiceRepository
	Payments  repository.PaymentRepository
}
