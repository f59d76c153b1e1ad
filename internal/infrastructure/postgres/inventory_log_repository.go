package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo kardex en PostgreSQL. Solo inserción; el orden cronológico lo da la columna seq.
type InventoryLogRepo struct {
	q Querier
}

// NewInventoryLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLogRepository(q Querier) *InventoryLogRepo {
	return &InventoryLogRepo{q: q}
}

func (r *InventoryLogRepo) Create(ctx context.Context, log *entity.InventoryLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_logs (id, tenant_id, product_id, change, new_stock, type, reference_id, unit_price, currency, exchange_rate, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		log.ID, log.TenantID, log.ProductID, log.Change, log.NewStock, log.Type,
		nullIfEmpty(log.ReferenceID), log.UnitPrice, nullIfEmpty(log.Currency), log.ExchangeRate,
		nullIfEmpty(log.Note), log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory log: %w", err)
	}
	return nil
}

func (r *InventoryLogRepo) ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.InventoryLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, product_id, change, new_stock, type, reference_id, unit_price, currency, exchange_rate, note, created_at
		FROM inventory_logs
		WHERE tenant_id = $1 AND product_id = $2
		ORDER BY seq LIMIT $3 OFFSET $4`,
		tenantID, productID, limitOrNil(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryLog
	for rows.Next() {
		var l entity.InventoryLog
		var ref, currency, note *string
		if err := rows.Scan(&l.ID, &l.TenantID, &l.ProductID, &l.Change, &l.NewStock, &l.Type,
			&ref, &l.UnitPrice, &currency, &l.ExchangeRate, &note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory log: %w", err)
		}
		l.ReferenceID, l.Currency, l.Note = stringOrEmpty(ref), stringOrEmpty(currency), stringOrEmpty(note)
		list = append(list, &l)
	}
	return list, rows.Err()
}
