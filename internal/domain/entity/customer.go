package entity

import "time"

// Tipos de contraparte.
const (
	CustomerTypeBuyer    = "BUYER"
	CustomerTypeSupplier = "SUPPLIER"
)

// Customer representa una contraparte (comprador o proveedor) de un tenant.
type Customer struct {
	ID        string
	TenantID  string
	Name      string
	Type      string
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
