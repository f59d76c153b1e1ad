package dto

import "github.com/shopspring/decimal"

// ProductReportResponse reporte de rentabilidad de un producto (costo promedio ponderado).
// Montos en moneda base.
type ProductReportResponse struct {
	ProductID       string             `json:"product_id"`
	ProductName     string             `json:"product_name"`
	CurrentStock    int64              `json:"current_stock"`
	BoughtQty       int64              `json:"bought_qty"`
	BoughtAmount    decimal.Decimal    `json:"bought_amount"`
	SoldQty         int64              `json:"sold_qty"`
	SoldAmount      decimal.Decimal    `json:"sold_amount"`
	AverageCost     decimal.Decimal    `json:"average_cost"`
	EstimatedProfit decimal.Decimal    `json:"estimated_profit"`
	Bought          []MovementResponse `json:"bought"`
	Sold            []MovementResponse `json:"sold"`
}

// MovementResponse línea de factura que movió el producto.
type MovementResponse struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber int64           `json:"invoice_number"`
	Date          string          `json:"date"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	Amount        decimal.Decimal `json:"amount"` // quantity * price * exchange_rate
}
