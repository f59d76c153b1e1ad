package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	VATRate      decimal.Decimal `json:"vat_rate"`
	Unit         string          `json:"unit,omitempty"`
	Currency     string          `json:"currency,omitempty"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	InitialStock int64           `json:"initial_stock"`
}

// AdjustStockRequest body para POST /api/products/:id/adjust. Delta con signo.
type AdjustStockRequest struct {
	Delta int64  `json:"delta"`
	Note  string `json:"note,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenant_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	Stock        int64           `json:"stock"`
	VATRate      decimal.Decimal `json:"vat_rate"`
	Unit         string          `json:"unit,omitempty"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
