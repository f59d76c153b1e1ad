package dto

// CreateTenantRequest alta de tenant (la usa el registro y ledgerctl).
type CreateTenantRequest struct {
	Name         string `json:"name"`
	Plan         string `json:"plan,omitempty"`
	BaseCurrency string `json:"base_currency,omitempty"`
}

// TenantResponse tenant en respuestas.
type TenantResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Plan         string `json:"plan"`
	BaseCurrency string `json:"base_currency"`
}

// FeatureUsage consumo de una función con cuota o flag del plan.
type FeatureUsage struct {
	Feature   string `json:"feature"`
	Used      int64  `json:"used"`
	Limit     int64  `json:"limit"`
	Remaining int64  `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
	Allowed   bool   `json:"allowed"`
}

// UsageResponse consumo del plan del tenant.
type UsageResponse struct {
	TenantID string         `json:"tenant_id"`
	Plan     string         `json:"plan"`
	Features []FeatureUsage `json:"features"`
}

// PaymentConfirmedRequest body del webhook de la pasarela de pago.
type PaymentConfirmedRequest struct {
	TenantID  string `json:"tenant_id"`
	Reference string `json:"reference,omitempty"`
}
