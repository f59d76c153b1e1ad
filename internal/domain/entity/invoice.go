package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura.
const (
	InvoiceTypeSale     = "SALE"
	InvoiceTypePurchase = "PURCHASE"
)

// Estados de la factura. Cambiar el estado nunca mueve stock.
const (
	InvoiceStatusPending   = "PENDING"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// Invoice cabecera de una factura de venta o compra.
// Los totales están en la moneda de la factura; ExchangeRate convierte a la moneda base.
type Invoice struct {
	ID                       string
	TenantID                 string
	CustomerID               string
	Number                   int64
	Type                     string
	Status                   string
	Date                     time.Time
	DueDate                  *time.Time
	Currency                 string
	ExchangeRate             decimal.Decimal
	DocumentNumber           string
	CustomsDeclarationNumber string
	Note                     string
	NetTotal                 decimal.Decimal
	TaxTotal                 decimal.Decimal
	GrandTotal               decimal.Decimal
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// StockSign indica cómo afecta cada unidad facturada al stock: -1 en ventas, +1 en compras.
func (i *Invoice) StockSign() int64 {
	if i.Type == InvoiceTypePurchase {
		return 1
	}
	return -1
}

// LogType tipo de InventoryLog que genera una línea de esta factura.
func (i *Invoice) LogType() string {
	if i.Type == InvoiceTypePurchase {
		return LogTypePurchase
	}
	return LogTypeSale
}

// IsValidInvoiceStatus informa si s es uno de los estados conocidos.
func IsValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}
