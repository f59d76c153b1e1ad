package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s  *Store
	do access
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.do(func(st *state) error {
		key := ledger.NameKey(product.Name)
		for _, p := range st.products {
			if p.TenantID == product.TenantID && ledger.NameKey(p.Name) == key {
				return domain.ErrDuplicate
			}
		}
		st.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) CreateIfAbsent(ctx context.Context, product *entity.Product) (bool, error) {
	err := r.Create(ctx, product)
	if errors.Is(err, domain.ErrDuplicate) {
		return false, nil
	}
	return err == nil, err
}

func (r *ProductRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(st *state) error {
		if p, ok := st.products[id]; ok && p.TenantID == tenantID {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo adicional: la transacción ya tiene el mutex del almacén.
func (r *ProductRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *ProductRepo) GetByName(_ context.Context, tenantID, name string) (*entity.Product, error) {
	key := ledger.NameKey(name)
	var out *entity.Product
	err := r.do(func(st *state) error {
		for _, p := range st.products {
			if p.TenantID == tenantID && ledger.NameKey(p.Name) == key {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByNameForUpdate(ctx context.Context, tenantID, name string) (*entity.Product, error) {
	return r.GetByName(ctx, tenantID, name)
}

func (r *ProductRepo) UpdateStock(_ context.Context, tenantID, id string, stock int64) error {
	return r.do(func(st *state) error {
		if err := r.s.fault("product.update_stock"); err != nil {
			return err
		}
		p, ok := st.products[id]
		if !ok || p.TenantID != tenantID {
			return domain.ErrNotFound
		}
		p.Stock = stock
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) UpdatePricing(_ context.Context, product *entity.Product) error {
	return r.do(func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok || p.TenantID != product.TenantID {
			return domain.ErrNotFound
		}
		p.Price = product.Price
		p.BuyPrice = product.BuyPrice
		p.Currency = product.Currency
		p.ExchangeRate = product.ExchangeRate
		p.UpdatedAt = product.UpdatedAt
		st.products[p.ID] = p
		return nil
	})
}

func (r *ProductRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.do(func(st *state) error {
		for _, p := range st.products {
			if p.TenantID == tenantID {
				p := p
				list = append(list, &p)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	from, to := window(len(list), limit, offset)
	return list[from:to], err
}
