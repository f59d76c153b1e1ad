package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct {
	s  *Store
	do access
}

func (r *InvoiceRepo) NextNumber(_ context.Context, tenantID string) (int64, error) {
	var n int64
	err := r.do(func(st *state) error {
		st.counters[tenantID]++
		n = st.counters[tenantID]
		return nil
	})
	return n, err
}

func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	return r.do(func(st *state) error {
		if err := r.s.fault("invoice.create"); err != nil {
			return err
		}
		for _, inv := range st.invoices {
			if inv.TenantID == invoice.TenantID && inv.Number == invoice.Number {
				return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
			}
		}
		st.invoices[invoice.ID] = *invoice
		return nil
	})
}

func (r *InvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	return r.do(func(st *state) error {
		if err := r.s.fault("invoice.create_item"); err != nil {
			return err
		}
		if _, ok := st.invoices[item.InvoiceID]; !ok {
			return fmt.Errorf("insert invoice item: invoice %s does not exist", item.InvoiceID)
		}
		st.items = append(st.items, *item)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.do(func(st *state) error {
		if inv, ok := st.invoices[id]; ok && inv.TenantID == tenantID {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *InvoiceRepo) GetItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	var list []*entity.InvoiceItem
	err := r.do(func(st *state) error {
		for _, it := range st.items {
			if it.InvoiceID == invoiceID {
				it := it
				list = append(list, &it)
			}
		}
		return nil
	})
	return list, err
}

func (r *InvoiceRepo) UpdateHeader(_ context.Context, invoice *entity.Invoice) error {
	return r.do(func(st *state) error {
		cur, ok := st.invoices[invoice.ID]
		if !ok || cur.TenantID != invoice.TenantID {
			return domain.ErrNotFound
		}
		// número, tipo y estado no se modifican por esta vía
		updated := *invoice
		updated.Number = cur.Number
		updated.Type = cur.Type
		updated.Status = cur.Status
		updated.CreatedAt = cur.CreatedAt
		st.invoices[invoice.ID] = updated
		return nil
	})
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, tenantID, id, status string) error {
	return r.do(func(st *state) error {
		inv, ok := st.invoices[id]
		if !ok || inv.TenantID != tenantID {
			return domain.ErrNotFound
		}
		inv.Status = status
		st.invoices[id] = inv
		return nil
	})
}

func (r *InvoiceRepo) DeleteItems(_ context.Context, invoiceID string) error {
	return r.do(func(st *state) error {
		kept := st.items[:0:0]
		for _, it := range st.items {
			if it.InvoiceID != invoiceID {
				kept = append(kept, it)
			}
		}
		st.items = kept
		return nil
	})
}

// Delete emula las llaves foráneas de invoice_items y payments.
func (r *InvoiceRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.do(func(st *state) error {
		inv, ok := st.invoices[id]
		if !ok || inv.TenantID != tenantID {
			return domain.ErrNotFound
		}
		for _, it := range st.items {
			if it.InvoiceID == id {
				return fmt.Errorf("delete invoice: items still reference %s", id)
			}
		}
		for _, p := range st.payments {
			if p.InvoiceID == id {
				return fmt.Errorf("delete invoice: payments still reference %s", id)
			}
		}
		delete(st.invoices, id)
		return nil
	})
}

func (r *InvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	err := r.do(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.TenantID != f.TenantID {
				continue
			}
			if f.Type != "" && inv.Type != f.Type {
				continue
			}
			if f.Status != "" && inv.Status != f.Status {
				continue
			}
			inv := inv
			list = append(list, &inv)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Number > list[j].Number })
	from, to := window(len(list), f.Limit, f.Offset)
	return list[from:to], err
}

func (r *InvoiceRepo) ListIDsByCustomer(_ context.Context, tenantID, customerID string) ([]string, error) {
	var ids []string
	err := r.do(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.TenantID == tenantID && inv.CustomerID == customerID {
				ids = append(ids, inv.ID)
			}
		}
		return nil
	})
	sort.Strings(ids)
	return ids, err
}

func (r *InvoiceRepo) CountByTenant(_ context.Context, tenantID string) (int64, error) {
	var n int64
	err := r.do(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.TenantID == tenantID {
				n++
			}
		}
		return nil
	})
	return n, err
}
