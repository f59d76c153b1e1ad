package memory

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación en memoria de TenantRepository.
type TenantRepo struct {
	do access
}

func (r *TenantRepo) Create(_ context.Context, tenant *entity.Tenant) error {
	return r.do(func(st *state) error {
		if _, ok := st.tenants[tenant.ID]; ok {
			return domain.ErrDuplicate
		}
		st.tenants[tenant.ID] = *tenant
		return nil
	})
}

func (r *TenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	var out *entity.Tenant
	err := r.do(func(st *state) error {
		if t, ok := st.tenants[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *TenantRepo) UpdatePlan(_ context.Context, id, plan string) error {
	return r.do(func(st *state) error {
		t, ok := st.tenants[id]
		if !ok {
			return domain.ErrNotFound
		}
		t.Plan = plan
		st.tenants[id] = t
		return nil
	})
}
