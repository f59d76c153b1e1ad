package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// DefaultEpsilon tolerancia de redondeo para considerar una factura pagada (moneda base).
var DefaultEpsilon = decimal.NewFromFloat(0.1)

// Balance estado de pagos de una factura. Todos los importes están en la moneda base;
// Display convierte a la moneda de la factura.
type Balance struct {
	GrandTotal   decimal.Decimal
	Paid         decimal.Decimal
	Remaining    decimal.Decimal
	Overpaid     decimal.Decimal
	IsPaid       bool
	ExchangeRate decimal.Decimal
}

// ComputeBalance es función pura de los abonos almacenados.
// grandTotal está en la moneda de la factura y se lleva a base con exchangeRate.
func ComputeBalance(grandTotal, exchangeRate decimal.Decimal, payments []*entity.Payment, epsilon decimal.Decimal) Balance {
	if !exchangeRate.IsPositive() {
		exchangeRate = decimal.NewFromInt(1)
	}
	b := Balance{
		GrandTotal:   grandTotal.Mul(exchangeRate),
		ExchangeRate: exchangeRate,
	}
	for _, p := range payments {
		b.Paid = b.Paid.Add(p.Amount)
	}
	b.Remaining = b.GrandTotal.Sub(b.Paid)
	b.IsPaid = b.Remaining.LessThanOrEqual(epsilon)
	if b.Remaining.LessThan(epsilon.Neg()) {
		b.Overpaid = b.Remaining.Abs()
	}
	return b
}

// Display convierte un importe en moneda base a la moneda de la factura.
// Es una transformación de lectura; nunca se persiste.
func (b Balance) Display(base decimal.Decimal) decimal.Decimal {
	return base.Div(b.ExchangeRate)
}
