package ledger

import "github.com/shopspring/decimal"

// WeightedAverageCost costo unitario promedio = total comprado / cantidad comprada.
// Sin historial de compras devuelve fallback (el costo de compra guardado en el producto).
func WeightedAverageCost(boughtAmount decimal.Decimal, boughtQty int64, fallback decimal.Decimal) decimal.Decimal {
	if boughtQty <= 0 {
		return fallback
	}
	return boughtAmount.Div(decimal.NewFromInt(boughtQty))
}

// EstimatedProfit = total vendido - (cantidad vendida × costo promedio).
func EstimatedProfit(soldAmount decimal.Decimal, soldQty int64, averageCost decimal.Decimal) decimal.Decimal {
	return soldAmount.Sub(averageCost.Mul(decimal.NewFromInt(soldQty)))
}
