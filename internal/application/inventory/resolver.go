package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ResolutionKind rama tomada al conciliar una línea de compra.
type ResolutionKind string

const (
	// Matched la línea se fusionó con un producto existente.
	Matched ResolutionKind = "MATCHED"
	// Created la línea dio de alta un producto nuevo.
	Created ResolutionKind = "CREATED"
)

// Resolution resultado explícito de Resolve.
type Resolution struct {
	Kind      ResolutionKind
	ProductID string
	Log       *entity.InventoryLog
}

// PurchaseLine línea de compra identificada por nombre libre.
// Price es el precio de venta; BuyPrice el costo unitario facturado por el proveedor.
type PurchaseLine struct {
	ProductName  string
	Quantity     int64
	Price        decimal.Decimal
	BuyPrice     decimal.Decimal
	VATRate      decimal.Decimal
	Unit         string
	Currency     string
	ExchangeRate decimal.Decimal
}

// Resolver concilia líneas de compra contra el catálogo del tenant (nombre exacto sin
// distinguir mayúsculas). Si no existe, crea el producto.
type Resolver struct {
	stock *StockKeeper
	now   func() time.Time
}

// NewResolver construye el resolvedor.
func NewResolver(stock *StockKeeper) *Resolver {
	return &Resolver{stock: stock, now: time.Now}
}

// Resolve concilia line dentro de la transacción de repos. referenceID es la factura de compra.
// Matched: suma la cantidad y sobrescribe price, buyPrice, currency y exchangeRate.
// Created: alta con los datos de la línea y stock = cantidad.
// En ambos casos queda un InventoryLog PURCHASE con el stock resultante.
func (r *Resolver) Resolve(ctx context.Context, repos repository.TxRepos, tenantID string, line PurchaseLine, referenceID string) (Resolution, error) {
	name := strings.TrimSpace(line.ProductName)
	if name == "" || line.Quantity <= 0 {
		return Resolution{}, domain.ErrInvalidInput
	}
	move := Movement{
		Change:       line.Quantity,
		Type:         entity.LogTypePurchase,
		ReferenceID:  referenceID,
		UnitPrice:    line.BuyPrice,
		Currency:     line.Currency,
		ExchangeRate: line.ExchangeRate,
	}

	existing, err := repos.Products.GetByNameForUpdate(ctx, tenantID, name)
	if err != nil {
		return Resolution{}, err
	}
	if existing != nil {
		return r.merge(ctx, repos, tenantID, existing, line, move)
	}

	now := r.now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Name:         name,
		Price:        line.Price,
		BuyPrice:     line.BuyPrice,
		VATRate:      line.VATRate,
		Unit:         line.Unit,
		Currency:     line.Currency,
		ExchangeRate: line.ExchangeRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := repos.Products.CreateIfAbsent(ctx, p)
	if err != nil {
		return Resolution{}, fmt.Errorf("alta de producto %q: %w", name, err)
	}
	if !created {
		// otra compra dio de alta el mismo nombre entre la búsqueda y el insert
		existing, err := repos.Products.GetByNameForUpdate(ctx, tenantID, name)
		if err != nil {
			return Resolution{}, err
		}
		if existing == nil {
			return Resolution{}, fmt.Errorf("alta de producto %q: %w", name, domain.ErrConflict)
		}
		return r.merge(ctx, repos, tenantID, existing, line, move)
	}
	// el stock inicial entra por el kardex para que la reproducción cuadre desde cero
	move.ProductID = p.ID
	move.Note = "compra: alta de " + name
	log, err := r.stock.ApplyInTx(ctx, repos, tenantID, move)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Kind: Created, ProductID: p.ID, Log: log}, nil
}

// merge rama Matched: sobrescribe precios del producto bloqueado y suma la cantidad.
func (r *Resolver) merge(ctx context.Context, repos repository.TxRepos, tenantID string, existing *entity.Product, line PurchaseLine, move Movement) (Resolution, error) {
	existing.Price = line.Price
	existing.BuyPrice = line.BuyPrice
	existing.Currency = line.Currency
	existing.ExchangeRate = line.ExchangeRate
	existing.UpdatedAt = r.now()
	if err := repos.Products.UpdatePricing(ctx, existing); err != nil {
		return Resolution{}, err
	}
	move.ProductID = existing.ID
	move.Note = "compra: " + existing.Name
	log, err := r.stock.ApplyInTx(ctx, repos, tenantID, move)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Kind: Matched, ProductID: existing.ID, Log: log}, nil
}
