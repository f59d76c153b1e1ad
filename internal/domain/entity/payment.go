package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment abono a una factura. Amount siempre en la moneda base del tenant.
type Payment struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	Date      time.Time
	Note      string
	CreatedAt time.Time
}
