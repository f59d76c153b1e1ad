package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// PaymentLedger abonos parciales de una factura. Los montos se guardan en moneda base;
// la conversión a la moneda de la factura ocurre solo al leer.
type PaymentLedger struct {
	tx           repository.TxRunner
	repos        Repositories
	pub          publisher
	log          zerolog.Logger
	epsilon      decimal.Decimal
	baseCurrency string
	now          func() time.Time
}

// NewPaymentLedger construye el libro de abonos. epsilon cero usa ledger.DefaultEpsilon.
func NewPaymentLedger(
	tx repository.TxRunner,
	repos Repositories,
	projector *Projector,
	notifier Notifier,
	log zerolog.Logger,
	epsilon decimal.Decimal,
	baseCurrency string,
) *PaymentLedger {
	if !epsilon.IsPositive() {
		epsilon = ledger.DefaultEpsilon
	}
	return &PaymentLedger{
		tx:           tx,
		repos:        repos,
		pub:          publisher{projector: projector, notifier: notifier, log: log},
		log:          log,
		epsilon:      epsilon,
		baseCurrency: baseCurrency,
		now:          time.Now,
	}
}

// Add registra un abono (moneda base). No cambia el estado de la factura.
func (l *PaymentLedger) Add(ctx context.Context, tenantID, invoiceID string, in dto.AddPaymentRequest) (*dto.PaymentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("el abono debe ser positivo: %w", domain.ErrInvalidInput)
	}
	date := in.Date
	if date.IsZero() {
		date = l.now()
	}
	p := &entity.Payment{
		ID:        uuid.New().String(),
		InvoiceID: invoiceID,
		Amount:    in.Amount,
		Date:      date,
		Note:      strings.TrimSpace(in.Note),
		CreatedAt: l.now(),
	}
	err := l.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		inv, err := repos.Invoices.GetForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		return repos.Payments.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("tenant_id", tenantID).Str("invoice_id", invoiceID).Str("payment_id", p.ID).
		Str("amount", p.Amount.String()).Msg("payment added")
	l.pub.publish(ctx, tenantID, invoiceID, EventPaymentAdded)
	return toPaymentResponse(p), nil
}

// Delete elimina un abono de la factura indicada.
func (l *PaymentLedger) Delete(ctx context.Context, tenantID, invoiceID, paymentID string) error {
	err := l.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		inv, err := repos.Invoices.GetForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		return repos.Payments.Delete(ctx, invoiceID, paymentID)
	})
	if err != nil {
		return err
	}
	l.log.Info().Str("tenant_id", tenantID).Str("invoice_id", invoiceID).Str("payment_id", paymentID).Msg("payment deleted")
	l.pub.publish(ctx, tenantID, invoiceID, EventPaymentDeleted)
	return nil
}

// Complete agrega un abono por el saldo pendiente. ErrNothingToPay si no queda saldo.
func (l *PaymentLedger) Complete(ctx context.Context, tenantID, invoiceID string) (*dto.PaymentResponse, error) {
	var p *entity.Payment
	err := l.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		inv, err := repos.Invoices.GetForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		payments, err := repos.Payments.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		bal := ledger.ComputeBalance(inv.GrandTotal, inv.ExchangeRate, payments, l.epsilon)
		if !bal.Remaining.IsPositive() {
			return domain.ErrNothingToPay
		}
		now := l.now()
		p = &entity.Payment{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			Amount:    bal.Remaining,
			Date:      now,
			Note:      "pago del saldo",
			CreatedAt: now,
		}
		return repos.Payments.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("tenant_id", tenantID).Str("invoice_id", invoiceID).Str("payment_id", p.ID).
		Str("amount", p.Amount.String()).Msg("payment completed")
	l.pub.publish(ctx, tenantID, invoiceID, EventPaymentAdded)
	return toPaymentResponse(p), nil
}

// Balance saldo de la factura. Función pura de los abonos guardados.
func (l *PaymentLedger) Balance(ctx context.Context, tenantID, invoiceID string) (*dto.BalanceResponse, error) {
	inv, err := l.repos.Invoices.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	payments, err := l.repos.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	base := l.baseCurrency
	if t, err := l.repos.Tenants.GetByID(ctx, tenantID); err == nil && t != nil && t.BaseCurrency != "" {
		base = t.BaseCurrency
	}
	bal := ledger.ComputeBalance(inv.GrandTotal, inv.ExchangeRate, payments, l.epsilon)
	return &dto.BalanceResponse{
		InvoiceID:         inv.ID,
		Currency:          inv.Currency,
		BaseCurrency:      base,
		ExchangeRate:      bal.ExchangeRate,
		GrandTotal:        bal.GrandTotal,
		Paid:              bal.Paid,
		Remaining:         bal.Remaining,
		Overpaid:          bal.Overpaid,
		IsPaid:            bal.IsPaid,
		DisplayGrandTotal: bal.Display(bal.GrandTotal),
		DisplayPaid:       bal.Display(bal.Paid),
		DisplayRemaining:  bal.Display(bal.Remaining),
	}, nil
}

// List abonos de la factura en orden de registro.
func (l *PaymentLedger) List(ctx context.Context, tenantID, invoiceID string) ([]*dto.PaymentResponse, error) {
	inv, err := l.repos.Invoices.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	payments, err := l.repos.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out, nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Date:      p.Date.Format(dateLayout),
		Note:      p.Note,
	}
}
