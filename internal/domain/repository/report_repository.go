package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductMovement línea de factura que referencia un producto, unida a su cabecera y cliente.
type ProductMovement struct {
	InvoiceID     string
	InvoiceNumber int64
	InvoiceType   string
	Date          time.Time
	CustomerID    string
	CustomerName  string
	Quantity      int64
	Price         decimal.Decimal // moneda de la factura
	ExchangeRate  decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes de producto.
type ReportRepository interface {
	ListProductMovements(ctx context.Context, tenantID, productID string) ([]ProductMovement, error)
}
