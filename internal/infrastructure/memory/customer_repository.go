package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	s  *Store
	do access
}

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	return r.do(func(st *state) error {
		if _, ok := st.customers[customer.ID]; ok {
			return domain.ErrDuplicate
		}
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.do(func(st *state) error {
		if c, ok := st.customers[id]; ok && c.TenantID == tenantID {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	err := r.do(func(st *state) error {
		for _, c := range st.customers {
			if c.TenantID == tenantID {
				c := c
				list = append(list, &c)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	from, to := window(len(list), limit, offset)
	return list[from:to], err
}

func (r *CustomerRepo) CountByTenant(_ context.Context, tenantID string) (int64, error) {
	var n int64
	err := r.do(func(st *state) error {
		for _, c := range st.customers {
			if c.TenantID == tenantID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Delete emula la llave foránea invoices.customer_id: falla si quedan facturas del cliente.
func (r *CustomerRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.do(func(st *state) error {
		c, ok := st.customers[id]
		if !ok || c.TenantID != tenantID {
			return domain.ErrNotFound
		}
		for _, inv := range st.invoices {
			if inv.CustomerID == id {
				return fmt.Errorf("delete customer: invoice %s still references it", inv.ID)
			}
		}
		delete(st.customers, id)
		return nil
	})
}
