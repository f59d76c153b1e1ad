package billing

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
)

// Projector arma la proyección InvoiceView (factura, cliente, líneas, abonos y saldo)
// con todos los montos como float64.
type Projector struct {
	repos   Repositories
	epsilon decimal.Decimal
}

// NewProjector construye el proyector.
func NewProjector(repos Repositories, epsilon decimal.Decimal) *Projector {
	return &Projector{repos: repos, epsilon: epsilon}
}

// Build lee la factura ya confirmada y la proyecta.
func (p *Projector) Build(ctx context.Context, tenantID, invoiceID string) (*dto.InvoiceView, error) {
	inv, err := p.repos.Invoices.GetByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := p.repos.Invoices.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	payments, err := p.repos.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	customer, err := p.repos.Customers.GetByID(ctx, tenantID, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	bal := ledger.ComputeBalance(inv.GrandTotal, inv.ExchangeRate, payments, p.epsilon)

	view := &dto.InvoiceView{
		ID:           inv.ID,
		TenantID:     inv.TenantID,
		Number:       inv.Number,
		Type:         inv.Type,
		Status:       inv.Status,
		Date:         inv.Date.Format(dateLayout),
		Currency:     inv.Currency,
		ExchangeRate: inv.ExchangeRate.InexactFloat64(),
		NetTotal:     inv.NetTotal.InexactFloat64(),
		TaxTotal:     inv.TaxTotal.InexactFloat64(),
		GrandTotal:   inv.GrandTotal.InexactFloat64(),
		Paid:         bal.Display(bal.Paid).InexactFloat64(),
		Remaining:    bal.Display(bal.Remaining).InexactFloat64(),
		IsPaid:       bal.IsPaid,
		Items:        make([]dto.InvoiceItemView, 0, len(items)),
		Payments:     make([]dto.PaymentView, 0, len(payments)),
	}
	if inv.DueDate != nil {
		view.DueDate = inv.DueDate.Format(dateLayout)
	}
	if customer != nil {
		view.Customer = dto.CustomerView{ID: customer.ID, Name: customer.Name, Type: customer.Type, Email: customer.Email}
	}
	for _, it := range items {
		name := ""
		if prod, err := p.repos.Products.GetByID(ctx, tenantID, it.ProductID); err == nil && prod != nil {
			name = prod.Name
		}
		view.Items = append(view.Items, dto.InvoiceItemView{
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			Price:       it.Price.InexactFloat64(),
			VATRate:     it.VATRate.InexactFloat64(),
			LineTotal:   ledger.LineTotal(it.Price, it.Quantity).InexactFloat64(),
		})
	}
	for _, pay := range payments {
		view.Payments = append(view.Payments, dto.PaymentView{
			ID:     pay.ID,
			Amount: bal.Display(pay.Amount).InexactFloat64(),
			Date:   pay.Date.Format(dateLayout),
			Note:   pay.Note,
		})
	}
	return view, nil
}

// publisher entrega la proyección al Notifier después del commit; solo registra los fallos.
type publisher struct {
	projector *Projector
	notifier  Notifier
	log       zerolog.Logger
}

func (p publisher) publish(ctx context.Context, tenantID, invoiceID, event string) {
	if p.notifier == nil || p.projector == nil {
		return
	}
	view, err := p.projector.Build(ctx, tenantID, invoiceID)
	if err != nil {
		p.log.Warn().Err(err).Str("event", event).Str("invoice_id", invoiceID).Msg("projection failed")
		return
	}
	if err := p.notifier.Notify(ctx, event, view); err != nil {
		p.log.Warn().Err(err).Str("event", event).Str("invoice_id", invoiceID).Msg("notifier failed")
	}
}
