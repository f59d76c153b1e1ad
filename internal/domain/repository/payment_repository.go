package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para los abonos de una factura.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	// Delete elimina el abono solo si pertenece a invoiceID; si no, ErrNotFound.
	Delete(ctx context.Context, invoiceID, paymentID string) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	DeleteByInvoice(ctx context.Context, invoiceID string) error
}
