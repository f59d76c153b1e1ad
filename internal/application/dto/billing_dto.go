package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"` // BUYER (por defecto) | SUPPLIER
	TaxID string `json:"tax_id,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	TaxID    string `json:"tax_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// InvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
// Currency vacío = moneda base del tenant; ExchangeRate cero = 1.
type InvoiceRequest struct {
	CustomerID               string               `json:"customer_id"`
	Date                     time.Time            `json:"date"`
	DueDate                  *time.Time           `json:"due_date,omitempty"`
	Currency                 string               `json:"currency,omitempty"`
	ExchangeRate             decimal.Decimal      `json:"exchange_rate"`
	DocumentNumber           string               `json:"document_number,omitempty"`
	CustomsDeclarationNumber string               `json:"customs_declaration_number,omitempty"`
	Note                     string               `json:"note,omitempty"`
	Items                    []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura (producto, cantidad, precio unitario sin IVA, IVA en %).
type InvoiceItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
}

// PurchaseRequest body para POST /api/purchases. Las líneas identifican el producto por nombre.
type PurchaseRequest struct {
	SupplierID               string                `json:"supplier_id"`
	Date                     time.Time             `json:"date"`
	DueDate                  *time.Time            `json:"due_date,omitempty"`
	Currency                 string                `json:"currency,omitempty"`
	ExchangeRate             decimal.Decimal       `json:"exchange_rate"`
	DocumentNumber           string                `json:"document_number,omitempty"`
	CustomsDeclarationNumber string                `json:"customs_declaration_number,omitempty"`
	Note                     string                `json:"note,omitempty"`
	Lines                    []PurchaseLineRequest `json:"lines"`
}

// PurchaseLineRequest línea de compra. BuyPrice cero toma Price como costo.
type PurchaseLineRequest struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Unit        string          `json:"unit,omitempty"`
}

// UpdateStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID                       string                `json:"id"`
	TenantID                 string                `json:"tenant_id"`
	CustomerID               string                `json:"customer_id"`
	CustomerName             string                `json:"customer_name,omitempty"`
	Number                   int64                 `json:"number"`
	Type                     string                `json:"type"`
	Status                   string                `json:"status"`
	Date                     string                `json:"date"`
	DueDate                  string                `json:"due_date,omitempty"`
	Currency                 string                `json:"currency"`
	ExchangeRate             decimal.Decimal       `json:"exchange_rate"`
	DocumentNumber           string                `json:"document_number,omitempty"`
	CustomsDeclarationNumber string                `json:"customs_declaration_number,omitempty"`
	Note                     string                `json:"note,omitempty"`
	NetTotal                 decimal.Decimal       `json:"net_total"`
	TaxTotal                 decimal.Decimal       `json:"tax_total"`
	GrandTotal               decimal.Decimal       `json:"grand_total"`
	Items                    []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse línea de detalle en la respuesta.
type InvoiceItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	LineTotal decimal.Decimal `json:"line_total"`
	LineTax   decimal.Decimal `json:"line_tax"`
}

// ResolutionResponse resultado de conciliar una línea de compra con el catálogo.
type ResolutionResponse struct {
	Line        int    `json:"line"`
	ProductName string `json:"product_name"`
	ProductID   string `json:"product_id"`
	Kind        string `json:"kind"` // MATCHED | CREATED
}

// PurchaseResponse factura de compra más la resolución de cada línea.
type PurchaseResponse struct {
	Invoice     InvoiceResponse      `json:"invoice"`
	Resolutions []ResolutionResponse `json:"resolutions"`
}

// AddPaymentRequest body para POST /api/invoices/:id/payments. Amount en moneda base.
type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
}

// PaymentResponse abono en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Note      string          `json:"note,omitempty"`
}

// BalanceResponse saldo de una factura. Los campos Display* están en la moneda de la factura;
// el resto en moneda base.
type BalanceResponse struct {
	InvoiceID         string          `json:"invoice_id"`
	Currency          string          `json:"currency"`
	BaseCurrency      string          `json:"base_currency"`
	ExchangeRate      decimal.Decimal `json:"exchange_rate"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	Paid              decimal.Decimal `json:"paid"`
	Remaining         decimal.Decimal `json:"remaining"`
	Overpaid          decimal.Decimal `json:"overpaid"`
	IsPaid            bool            `json:"is_paid"`
	DisplayGrandTotal decimal.Decimal `json:"display_grand_total"`
	DisplayPaid       decimal.Decimal `json:"display_paid"`
	DisplayRemaining  decimal.Decimal `json:"display_remaining"`
}
