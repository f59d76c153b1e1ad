package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ProductUseCase catálogo de productos y ajustes manuales de stock.
type ProductUseCase struct {
	tx           repository.TxRunner
	repo         repository.ProductRepository
	stock        *StockKeeper
	baseCurrency string
	log          zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, repo repository.ProductRepository, stock *StockKeeper, baseCurrency string, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{tx: tx, repo: repo, stock: stock, baseCurrency: baseCurrency, log: log}
}

// Create da de alta un producto. Un stock inicial se registra como ADJUSTMENT en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("nombre requerido: %w", domain.ErrInvalidInput)
	}
	if in.InitialStock < 0 || in.Price.IsNegative() || in.BuyPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if !ledger.ValidVATRate(in.VATRate) {
		return nil, fmt.Errorf("iva fuera de rango 0..100: %w", domain.ErrInvalidInput)
	}
	currency, rate, err := NormalizeCurrency(in.Currency, in.ExchangeRate, uc.baseCurrency)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Name:         name,
		Price:        in.Price,
		BuyPrice:     in.BuyPrice,
		VATRate:      in.VATRate,
		Unit:         in.Unit,
		Currency:     currency,
		ExchangeRate: rate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		_, err := uc.stock.ApplyInTx(ctx, repos, tenantID, Movement{
			ProductID:    p.ID,
			Change:       in.InitialStock,
			Type:         entity.LogTypeAdjustment,
			UnitPrice:    p.BuyPrice,
			Currency:     p.Currency,
			ExchangeRate: p.ExchangeRate,
			Note:         "stock inicial",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	p.Stock = in.InitialStock
	uc.log.Info().Str("tenant_id", tenantID).Str("product_id", p.ID).Int64("stock", p.Stock).Msg("product created")
	return toProductResponse(p), nil
}

// AdjustStock corrección manual de stock; deja un ADJUSTMENT en el kardex.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, tenantID, productID string, in dto.AdjustStockRequest) (*dto.InventoryLogResponse, error) {
	if productID == "" || in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	note := strings.TrimSpace(in.Note)
	if note == "" {
		note = "ajuste manual"
	}
	var log *entity.InventoryLog
	err := uc.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		log, err = uc.stock.ApplyInTx(ctx, repos, tenantID, Movement{
			ProductID:    p.ID,
			Change:       in.Delta,
			Type:         entity.LogTypeAdjustment,
			UnitPrice:    p.BuyPrice,
			Currency:     p.Currency,
			ExchangeRate: p.ExchangeRate,
			Note:         note,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("product_id", productID).Int64("change", in.Delta).Int64("stock", log.NewStock).Msg("stock adjusted")
	return toLogResponse(log), nil
}

// Get obtiene un producto del tenant.
func (uc *ProductUseCase) Get(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// List lista productos del tenant ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, limit, offset int) ([]*dto.ProductResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// NormalizeCurrency aplica la moneda base por defecto. Una moneda extranjera exige tasa > 0;
// la moneda base sin tasa toma 1.
func NormalizeCurrency(currency string, rate decimal.Decimal, base string) (string, decimal.Decimal, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = base
	}
	if rate.IsNegative() {
		return "", decimal.Zero, fmt.Errorf("tasa de cambio negativa: %w", domain.ErrInvalidInput)
	}
	if rate.IsZero() {
		if currency != base {
			return "", decimal.Zero, fmt.Errorf("tasa de cambio requerida para %s: %w", currency, domain.ErrInvalidInput)
		}
		rate = decimal.NewFromInt(1)
	}
	return currency, rate, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		Name:         p.Name,
		Price:        p.Price,
		BuyPrice:     p.BuyPrice,
		Stock:        p.Stock,
		VATRate:      p.VATRate,
		Unit:         p.Unit,
		Currency:     p.Currency,
		ExchangeRate: p.ExchangeRate,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toLogResponse(l *entity.InventoryLog) *dto.InventoryLogResponse {
	return &dto.InventoryLogResponse{
		ID:           l.ID,
		ProductID:    l.ProductID,
		Change:       l.Change,
		NewStock:     l.NewStock,
		Type:         l.Type,
		ReferenceID:  l.ReferenceID,
		UnitPrice:    l.UnitPrice,
		Currency:     l.Currency,
		ExchangeRate: l.ExchangeRate,
		Note:         l.Note,
		CreatedAt:    l.CreatedAt,
	}
}
