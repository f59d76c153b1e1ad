// Package ledger reúne los servicios de dominio puros del libro de facturas:
// totales de línea, saldo de pagos, costo promedio ponderado y reproducción del kardex.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals totales de una factura en su propia moneda.
type Totals struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Grand decimal.Decimal
}

// LineTotal = precio × cantidad (sin IVA).
func LineTotal(price decimal.Decimal, quantity int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}

// LineTax = total de línea × vatRate / 100.
func LineTax(lineTotal, vatRate decimal.Decimal) decimal.Decimal {
	return lineTotal.Mul(vatRate).Div(hundred)
}

// ComputeTotals suma totales e impuestos de todas las líneas.
func ComputeTotals(items []*entity.InvoiceItem) Totals {
	var t Totals
	for _, it := range items {
		line := LineTotal(it.Price, it.Quantity)
		t.Net = t.Net.Add(line)
		t.Tax = t.Tax.Add(LineTax(line, it.VATRate))
	}
	t.Grand = t.Net.Add(t.Tax)
	return t
}

// ValidVATRate informa si el porcentaje está entre 0 y 100.
func ValidVATRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
}
