package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Movement cambio de stock a aplicar dentro de una transacción.
type Movement struct {
	ProductID    string
	Change       int64
	Type         string
	ReferenceID  string
	UnitPrice    decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	Note         string
}

// StockKeeper es el único camino para mover stock: bloquea la fila del producto (SELECT FOR UPDATE),
// valida, escribe el stock absoluto y agrega exactamente un InventoryLog con el stock resultante.
type StockKeeper struct {
	allowNegative bool
	now           func() time.Time
}

// NewStockKeeper construye el aplicador de movimientos. allowNegative permite ventas sin stock.
func NewStockKeeper(allowNegative bool) *StockKeeper {
	return &StockKeeper{allowNegative: allowNegative, now: time.Now}
}

// LockProducts bloquea los productos en orden ascendente de ID para que dos transacciones
// que tocan los mismos productos no se bloqueen mutuamente. Cualquier ID ajeno al tenant da ErrNotFound.
func (k *StockKeeper) LockProducts(ctx context.Context, repos repository.TxRepos, tenantID string, ids []string) (map[string]*entity.Product, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	locked := make(map[string]*entity.Product, len(unique))
	for _, id := range unique {
		p, err := repos.Products.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		locked[id] = p
	}
	return locked, nil
}

// ApplyInTx aplica m sobre el producto y registra el movimiento en el kardex.
// Una salida nueva (SALE, ADJUSTMENT) que deja el stock negativo falla con ErrInsufficientStock
// salvo que esté permitido. Las reversiones CANCEL se aplican siempre: deshacen un efecto ya
// registrado y el stock puede quedar negativo si la mercancía comprada ya se vendió.
func (k *StockKeeper) ApplyInTx(ctx context.Context, repos repository.TxRepos, tenantID string, m Movement) (*entity.InventoryLog, error) {
	if m.Change == 0 {
		return nil, fmt.Errorf("movimiento sin cantidad: %w", domain.ErrInvalidInput)
	}
	p, err := repos.Products.GetForUpdate(ctx, tenantID, m.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", m.ProductID, domain.ErrNotFound)
	}
	newStock := p.Stock + m.Change
	if m.Change < 0 && newStock < 0 && m.Type != entity.LogTypeCancel && !k.allowNegative {
		return nil, fmt.Errorf("%s: disponible %d, requerido %d: %w", p.Name, p.Stock, -m.Change, domain.ErrInsufficientStock)
	}
	if err := repos.Products.UpdateStock(ctx, tenantID, p.ID, newStock); err != nil {
		return nil, err
	}
	log := &entity.InventoryLog{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		ProductID:    p.ID,
		Change:       m.Change,
		NewStock:     newStock,
		Type:         m.Type,
		ReferenceID:  m.ReferenceID,
		UnitPrice:    m.UnitPrice,
		Currency:     m.Currency,
		ExchangeRate: m.ExchangeRate,
		Note:         m.Note,
		CreatedAt:    k.now(),
	}
	if err := repos.Logs.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}
