package entity

import "time"

// Planes comerciales del SaaS.
const (
	PlanFree       = "FREE"
	PlanPro        = "PRO"
	PlanEnterprise = "ENTERPRISE"
)

// Funciones controladas por el plan (Quota Gate).
const (
	FeatureInvoices      = "invoices"
	FeatureCustomers     = "customers"
	FeatureMultiCurrency = "multi_currency"
	FeatureReports       = "reports"
)

// Roles del usuario que actúa sobre el tenant (los emite el servicio de auth).
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Tenant es la unidad de aislamiento: una empresa cliente del SaaS.
type Tenant struct {
	ID           string
	Name         string
	Plan         string
	BaseCurrency string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
