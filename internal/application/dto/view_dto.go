package dto

// InvoiceView proyección de solo lectura para consumidores posteriores al commit
// (correo, PDF, resúmenes). Todos los montos ya convertidos a float64.
type InvoiceView struct {
	ID           string            `json:"id"`
	TenantID     string            `json:"tenant_id"`
	Number       int64             `json:"number"`
	Type         string            `json:"type"`
	Status       string            `json:"status"`
	Date         string            `json:"date"`
	DueDate      string            `json:"due_date,omitempty"`
	Currency     string            `json:"currency"`
	ExchangeRate float64           `json:"exchange_rate"`
	NetTotal     float64           `json:"net_total"`
	TaxTotal     float64           `json:"tax_total"`
	GrandTotal   float64           `json:"grand_total"`
	Paid         float64           `json:"paid"`
	Remaining    float64           `json:"remaining"`
	IsPaid       bool              `json:"is_paid"`
	Customer     CustomerView      `json:"customer"`
	Items        []InvoiceItemView `json:"items"`
	Payments     []PaymentView     `json:"payments"`
}

// CustomerView datos del cliente en la proyección.
type CustomerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Email string `json:"email,omitempty"`
}

// InvoiceItemView línea en la proyección.
type InvoiceItemView struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	VATRate     float64 `json:"vat_rate"`
	LineTotal   float64 `json:"line_total"`
}

// PaymentView abono en la proyección (moneda de la factura).
type PaymentView struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Note   string  `json:"note,omitempty"`
}
