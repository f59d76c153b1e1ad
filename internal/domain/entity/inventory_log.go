package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	LogTypePurchase   = "PURCHASE"
	LogTypeSale       = "SALE"
	LogTypeAdjustment = "ADJUSTMENT"
	LogTypeCancel     = "CANCEL" // reversión de una factura editada o eliminada
)

// InventoryLog registro inmutable de un cambio de stock.
// Change es con signo; NewStock es el stock absoluto después del cambio.
type InventoryLog struct {
	ID           string
	TenantID     string
	ProductID    string
	Change       int64
	NewStock     int64
	Type         string
	ReferenceID  string // factura que originó el movimiento (vacío en ajustes)
	UnitPrice    decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	Note         string
	CreatedAt    time.Time
}
