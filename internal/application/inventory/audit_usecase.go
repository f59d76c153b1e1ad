package inventory

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// AuditUseCase consultas del kardex y verificación stock vs. libro.
type AuditUseCase struct {
	tx       repository.TxRunner
	products repository.ProductRepository
	logs     repository.InventoryLogRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(tx repository.TxRunner, products repository.ProductRepository, logs repository.InventoryLogRepository) *AuditUseCase {
	return &AuditUseCase{tx: tx, products: products, logs: logs}
}

// ListLogs kardex del producto en orden cronológico.
func (uc *AuditUseCase) ListLogs(ctx context.Context, tenantID, productID string, limit, offset int) ([]*dto.InventoryLogResponse, error) {
	p, err := uc.products.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.logs.ListByProduct(ctx, tenantID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InventoryLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLogResponse(l))
	}
	return out, nil
}

// VerifyProduct reproduce el kardex desde cero con la fila del producto bloqueada.
func (uc *AuditUseCase) VerifyProduct(ctx context.Context, tenantID, productID string) (*dto.AuditResponse, error) {
	var out *dto.AuditResponse
	err := uc.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		logs, err := repos.Logs.ListByProduct(ctx, tenantID, productID, 0, 0)
		if err != nil {
			return err
		}
		res := ledger.Replay(logs, p.Stock)
		out = &dto.AuditResponse{
			ProductID:   p.ID,
			ProductName: p.Name,
			Replayed:    res.Replayed,
			Current:     res.Current,
			Entries:     res.Entries,
			Consistent:  res.Consistent,
			BrokenAt:    res.BrokenAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyTenant verifica todos los productos del tenant.
func (uc *AuditUseCase) VerifyTenant(ctx context.Context, tenantID string) (*dto.TenantAuditResponse, error) {
	products, err := uc.products.ListByTenant(ctx, tenantID, 0, 0)
	if err != nil {
		return nil, err
	}
	out := &dto.TenantAuditResponse{TenantID: tenantID, Products: make([]dto.AuditResponse, 0, len(products))}
	for _, p := range products {
		res, err := uc.VerifyProduct(ctx, tenantID, p.ID)
		if err != nil {
			return nil, err
		}
		if !res.Consistent {
			out.Inconsistent++
		}
		out.Products = append(out.Products, *res)
	}
	return out, nil
}
