package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ListProductMovements líneas de compra y venta del producto, en orden de fecha y número.
func (r *ReportRepo) ListProductMovements(ctx context.Context, tenantID, productID string) ([]repository.ProductMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.number, i.type, i.date, c.id, c.name, ii.quantity, ii.price, i.exchange_rate
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		JOIN customers c ON c.id = i.customer_id
		WHERE i.tenant_id = $1 AND ii.product_id = $2
		ORDER BY i.date, i.number, ii.seq`, tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("list product movements: %w", err)
	}
	defer rows.Close()
	var out []repository.ProductMovement
	for rows.Next() {
		var m repository.ProductMovement
		if err := rows.Scan(&m.InvoiceID, &m.InvoiceNumber, &m.InvoiceType, &m.Date, &m.CustomerID,
			&m.CustomerName, &m.Quantity, &m.Price, &m.ExchangeRate); err != nil {
			return nil, fmt.Errorf("scan product movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
