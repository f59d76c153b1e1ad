package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de reporte en memoria.
type ReportRepo struct {
	do access
}

func (r *ReportRepo) ListProductMovements(_ context.Context, tenantID, productID string) ([]repository.ProductMovement, error) {
	var list []repository.ProductMovement
	err := r.do(func(st *state) error {
		for _, it := range st.items {
			if it.ProductID != productID {
				continue
			}
			inv, ok := st.invoices[it.InvoiceID]
			if !ok || inv.TenantID != tenantID {
				continue
			}
			list = append(list, repository.ProductMovement{
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.Number,
				InvoiceType:   inv.Type,
				Date:          inv.Date,
				CustomerID:    inv.CustomerID,
				CustomerName:  st.customers[inv.CustomerID].Name,
				Quantity:      it.Quantity,
				Price:         it.Price,
				ExchangeRate:  inv.ExchangeRate,
			})
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].InvoiceNumber < list[j].InvoiceNumber
	})
	return list, err
}
