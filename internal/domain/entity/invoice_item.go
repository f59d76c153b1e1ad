package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea de factura. Price está en la moneda de la factura, sin IVA.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  int64
	Price     decimal.Decimal
	VATRate   decimal.Decimal // porcentaje 0..100
}
