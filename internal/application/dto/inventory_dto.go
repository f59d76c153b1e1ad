package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLogResponse entrada del kardex.
type InventoryLogResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Change       int64           `json:"change"`
	NewStock     int64           `json:"new_stock"`
	Type         string          `json:"type"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Currency     string          `json:"currency,omitempty"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AuditResponse resultado de reproducir el kardex de un producto contra su stock actual.
type AuditResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Replayed    int64  `json:"replayed"`
	Current     int64  `json:"current"`
	Entries     int    `json:"entries"`
	Consistent  bool   `json:"consistent"`
	BrokenAt    string `json:"broken_at,omitempty"`
}

// TenantAuditResponse auditoría de todos los productos del tenant.
type TenantAuditResponse struct {
	TenantID     string          `json:"tenant_id"`
	Products     []AuditResponse `json:"products"`
	Inconsistent int             `json:"inconsistent"`
}
