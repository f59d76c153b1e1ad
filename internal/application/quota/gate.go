package quota

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Counter cuenta registros de un tenant (facturas o clientes).
type Counter interface {
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
}

// Gate decide si un tenant puede crear más registros o usar una función de su plan.
// Es el único punto de la aplicación que conoce los planes.
type Gate struct {
	tenants   repository.TenantRepository
	invoices  Counter
	customers Counter
	limits    Limits
	log       zerolog.Logger
}

// NewGate construye la compuerta de cuotas.
func NewGate(tenants repository.TenantRepository, invoices, customers Counter, limits Limits, log zerolog.Logger) *Gate {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Gate{tenants: tenants, invoices: invoices, customers: customers, limits: limits, log: log}
}

// CheckLimit informa si el tenant puede crear un registro más de feature (invoices|customers).
// Nunca retorna error: un tenant o plan que no se puede resolver, o un fallo al contar, deniega.
func (g *Gate) CheckLimit(ctx context.Context, tenantID, feature string) bool {
	plan, ok := g.plan(ctx, tenantID)
	if !ok {
		return false
	}
	ceiling, ok := plan.ceiling(feature)
	if !ok {
		return false
	}
	if ceiling >= Unlimited {
		return true
	}
	used, err := g.count(ctx, tenantID, feature)
	if err != nil {
		g.log.Warn().Err(err).Str("tenant_id", tenantID).Str("feature", feature).Msg("quota count failed")
		return false
	}
	return used < ceiling
}

// CheckFeature informa si el plan del tenant incluye la función (multi_currency, reports).
func (g *Gate) CheckFeature(ctx context.Context, tenantID, feature string) bool {
	plan, ok := g.plan(ctx, tenantID)
	if !ok {
		return false
	}
	return plan.Features[feature]
}

// Allow es CheckLimit como error: ErrQuotaExceeded si la cuota no permite crear.
func (g *Gate) Allow(ctx context.Context, tenantID, feature string) error {
	if !g.CheckLimit(ctx, tenantID, feature) {
		return fmt.Errorf("%s: %w", feature, domain.ErrQuotaExceeded)
	}
	return nil
}

// RequireFeature es CheckFeature como error: ErrFeatureDisabled si el plan no la incluye.
func (g *Gate) RequireFeature(ctx context.Context, tenantID, feature string) error {
	if !g.CheckFeature(ctx, tenantID, feature) {
		return fmt.Errorf("%s: %w", feature, domain.ErrFeatureDisabled)
	}
	return nil
}

// Usage devuelve el consumo de cada función del plan del tenant.
func (g *Gate) Usage(ctx context.Context, tenantID string) (*dto.UsageResponse, error) {
	tenant, err := g.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	plan, ok := g.limits[tenant.Plan]
	if !ok {
		return nil, fmt.Errorf("plan %q: %w", tenant.Plan, domain.ErrInvalidInput)
	}
	out := &dto.UsageResponse{TenantID: tenant.ID, Plan: tenant.Plan}
	for _, feature := range []string{entity.FeatureInvoices, entity.FeatureCustomers} {
		ceiling, _ := plan.ceiling(feature)
		used, err := g.count(ctx, tenantID, feature)
		if err != nil {
			return nil, err
		}
		u := dto.FeatureUsage{Feature: feature, Used: used, Limit: ceiling, Unlimited: ceiling >= Unlimited}
		if u.Unlimited {
			u.Allowed = true
		} else {
			u.Remaining = max(ceiling-used, 0)
			u.Allowed = used < ceiling
		}
		out.Features = append(out.Features, u)
	}
	for _, feature := range []string{entity.FeatureMultiCurrency, entity.FeatureReports} {
		out.Features = append(out.Features, dto.FeatureUsage{Feature: feature, Allowed: plan.Features[feature]})
	}
	return out, nil
}

func (g *Gate) plan(ctx context.Context, tenantID string) (PlanLimits, bool) {
	if tenantID == "" {
		return PlanLimits{}, false
	}
	tenant, err := g.tenants.GetByID(ctx, tenantID)
	if err != nil {
		g.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("quota tenant lookup failed")
		return PlanLimits{}, false
	}
	if tenant == nil {
		return PlanLimits{}, false
	}
	plan, ok := g.limits[tenant.Plan]
	return plan, ok
}

func (g *Gate) count(ctx context.Context, tenantID, feature string) (int64, error) {
	switch feature {
	case entity.FeatureInvoices:
		return g.invoices.CountByTenant(ctx, tenantID)
	case entity.FeatureCustomers:
		return g.customers.CountByTenant(ctx, tenantID)
	}
	return 0, fmt.Errorf("feature %q has no quota: %w", feature, domain.ErrInvalidInput)
}
