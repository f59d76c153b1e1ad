package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo del tenant.
// Stock solo cambia a través del motor de facturas, el resolvedor de compras o un ajuste manual,
// y cada cambio deja exactamente un InventoryLog con el stock resultante.
type Product struct {
	ID           string
	TenantID     string
	Name         string
	Price        decimal.Decimal // precio de venta, sin IVA
	BuyPrice     decimal.Decimal // costo de compra (último)
	Stock        int64
	VATRate      decimal.Decimal // porcentaje 0..100
	Unit         string
	Currency     string
	ExchangeRate decimal.Decimal // Currency -> moneda base, > 0
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
