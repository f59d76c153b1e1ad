package quota

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// TenantUseCase alta, consulta y cambio de plan de tenants.
type TenantUseCase struct {
	repo         repository.TenantRepository
	baseCurrency string
	log          zerolog.Logger
}

// NewTenantUseCase construye el caso de uso. baseCurrency es la moneda por defecto de los tenants nuevos.
func NewTenantUseCase(repo repository.TenantRepository, baseCurrency string, log zerolog.Logger) *TenantUseCase {
	return &TenantUseCase{repo: repo, baseCurrency: baseCurrency, log: log}
}

// Create registra un tenant. Sin plan explícito queda en FREE.
func (uc *TenantUseCase) Create(ctx context.Context, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	plan := strings.ToUpper(strings.TrimSpace(in.Plan))
	switch plan {
	case "":
		plan = entity.PlanFree
	case entity.PlanFree, entity.PlanPro, entity.PlanEnterprise:
	default:
		return nil, domain.ErrInvalidInput
	}
	currency := strings.ToUpper(strings.TrimSpace(in.BaseCurrency))
	if currency == "" {
		currency = uc.baseCurrency
	}
	now := time.Now()
	t := &entity.Tenant{
		ID:           uuid.New().String(),
		Name:         name,
		Plan:         plan,
		BaseCurrency: currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return toTenantResponse(t), nil
}

// Get obtiene un tenant.
func (uc *TenantUseCase) Get(ctx context.Context, id string) (*dto.TenantResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toTenantResponse(t), nil
}

// UpgradeToPro único punto de mutación que dispara la confirmación de pago externa.
// Es idempotente: un tenant ya en PRO o ENTERPRISE no cambia.
func (uc *TenantUseCase) UpgradeToPro(ctx context.Context, id, reference string) (*dto.TenantResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.Plan == entity.PlanFree {
		if err := uc.repo.UpdatePlan(ctx, id, entity.PlanPro); err != nil {
			return nil, err
		}
		uc.log.Info().Str("tenant_id", id).Str("reference", reference).Msg("tenant upgraded to PRO")
		t.Plan = entity.PlanPro
	}
	return toTenantResponse(t), nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{ID: t.ID, Name: t.Name, Plan: t.Plan, BaseCurrency: t.BaseCurrency}
}
