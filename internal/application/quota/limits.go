// Package quota implementa la compuerta de cuotas por plan y la administración de tenants.
package quota

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// Unlimited techo a partir del cual la cuota se considera ilimitada y no se cuenta.
const Unlimited int64 = 100000

// PlanLimits techos y flags de un plan.
type PlanLimits struct {
	MaxInvoices  int64
	MaxCustomers int64
	Features     map[string]bool
}

// Limits límites por plan (FREE, PRO, ENTERPRISE).
type Limits map[string]PlanLimits

// NewLimits construye la tabla de planes a partir de los techos configurados.
// ENTERPRISE siempre es ilimitado.
func NewLimits(freeInvoices, freeCustomers, proInvoices, proCustomers int64) Limits {
	return Limits{
		entity.PlanFree: {
			MaxInvoices:  freeInvoices,
			MaxCustomers: freeCustomers,
			Features: map[string]bool{
				entity.FeatureMultiCurrency: false,
				entity.FeatureReports:       false,
			},
		},
		entity.PlanPro: {
			MaxInvoices:  proInvoices,
			MaxCustomers: proCustomers,
			Features: map[string]bool{
				entity.FeatureMultiCurrency: true,
				entity.FeatureReports:       true,
			},
		},
		entity.PlanEnterprise: {
			MaxInvoices:  Unlimited,
			MaxCustomers: Unlimited,
			Features: map[string]bool{
				entity.FeatureMultiCurrency: true,
				entity.FeatureReports:       true,
			},
		},
	}
}

// DefaultLimits valores por defecto: FREE 5 facturas / 10 clientes, PRO ilimitado.
func DefaultLimits() Limits {
	return NewLimits(5, 10, Unlimited, Unlimited)
}

// ceiling techo del plan para una función con cuota; ok=false si la función no tiene cuota.
func (p PlanLimits) ceiling(feature string) (int64, bool) {
	switch feature {
	case entity.FeatureInvoices:
		return p.MaxInvoices, true
	case entity.FeatureCustomers:
		return p.MaxCustomers, true
	}
	return 0, false
}
