package memory

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo implementación en memoria del kardex (slice en orden de inserción).
type InventoryLogRepo struct {
	s  *Store
	do access
}

func (r *InventoryLogRepo) Create(_ context.Context, log *entity.InventoryLog) error {
	return r.do(func(st *state) error {
		if err := r.s.fault("log.create"); err != nil {
			return err
		}
		st.logs = append(st.logs, *log)
		return nil
	})
}

func (r *InventoryLogRepo) ListByProduct(_ context.Context, tenantID, productID string, limit, offset int) ([]*entity.InventoryLog, error) {
	var list []*entity.InventoryLog
	err := r.do(func(st *state) error {
		for _, l := range st.logs {
			if l.TenantID == tenantID && l.ProductID == productID {
				l := l
				list = append(list, &l)
			}
		}
		return nil
	})
	from, to := window(len(list), limit, offset)
	return list[from:to], err
}
