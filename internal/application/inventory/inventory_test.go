package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
)

const tenant = "t-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(allowNegative bool) (*memory.Store, *inventory.StockKeeper, *inventory.ProductUseCase, *inventory.AuditUseCase) {
	store := memory.New()
	stock := inventory.NewStockKeeper(allowNegative)
	products := inventory.NewProductUseCase(store, store.Products(), stock, "TRY", zerolog.Nop())
	audit := inventory.NewAuditUseCase(store, store.Products(), store.Logs())
	return store, stock, products, audit
}

func TestProductCreate_StockInicial(t *testing.T) {
	ctx := context.Background()
	store, _, products, _ := setup(false)

	p, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: " Widget ", Price: dec("100"), BuyPrice: dec("60"), VATRate: dec("20"), InitialStock: 7})
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, int64(7), p.Stock)
	assert.Equal(t, "TRY", p.Currency)
	assert.True(t, p.ExchangeRate.Equal(decimal.NewFromInt(1)))

	logs, err := store.Logs().ListByProduct(ctx, tenant, p.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.LogTypeAdjustment, logs[0].Type)
	assert.Equal(t, int64(7), logs[0].NewStock)

	empty, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "Sin stock", Price: dec("1")})
	require.NoError(t, err)
	logs, err = store.Logs().ListByProduct(ctx, tenant, empty.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestProductCreate_Validaciones(t *testing.T) {
	ctx := context.Background()
	_, _, products, _ := setup(false)
	_, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "Widget", Price: dec("1")})
	require.NoError(t, err)

	cases := []struct {
		name string
		in   dto.CreateProductRequest
		want error
	}{
		{"sin nombre", dto.CreateProductRequest{Name: "  "}, domain.ErrInvalidInput},
		{"stock negativo", dto.CreateProductRequest{Name: "A", InitialStock: -1}, domain.ErrInvalidInput},
		{"precio negativo", dto.CreateProductRequest{Name: "A", Price: dec("-1")}, domain.ErrInvalidInput},
		{"iva fuera de rango", dto.CreateProductRequest{Name: "A", VATRate: dec("101")}, domain.ErrInvalidInput},
		{"moneda sin tasa", dto.CreateProductRequest{Name: "A", Currency: "usd"}, domain.ErrInvalidInput},
		{"nombre repetido", dto.CreateProductRequest{Name: "WIDGET"}, domain.ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := products.Create(ctx, tenant, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// otro tenant puede usar el mismo nombre
	_, err = products.Create(ctx, "t-2", dto.CreateProductRequest{Name: "Widget"})
	assert.NoError(t, err)
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	_, _, products, audit := setup(false)
	p, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "Widget", InitialStock: 5})
	require.NoError(t, err)

	log, err := products.AdjustStock(ctx, tenant, p.ID, dto.AdjustStockRequest{Delta: -3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), log.NewStock)
	assert.Equal(t, "ajuste manual", log.Note)

	_, err = products.AdjustStock(ctx, tenant, p.ID, dto.AdjustStockRequest{Delta: -3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = products.AdjustStock(ctx, tenant, p.ID, dto.AdjustStockRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = products.AdjustStock(ctx, "t-2", p.ID, dto.AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := products.Get(ctx, tenant, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Stock)

	res, err := audit.VerifyProduct(ctx, tenant, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Consistent)
	assert.Equal(t, 2, res.Entries)
}

func TestAdjustStock_NegativoPermitido(t *testing.T) {
	ctx := context.Background()
	_, _, products, _ := setup(true)
	p, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "Widget", InitialStock: 1})
	require.NoError(t, err)

	log, err := products.AdjustStock(ctx, tenant, p.ID, dto.AdjustStockRequest{Delta: -4, Note: "merma"})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), log.NewStock)
	assert.Equal(t, "merma", log.Note)
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	store, stock, products, audit := setup(false)
	resolver := inventory.NewResolver(stock)
	existing, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "Çay Bardağı", Price: dec("10"), BuyPrice: dec("4"), InitialStock: 2})
	require.NoError(t, err)

	var matched, created inventory.Resolution
	err = store.RunInTx(ctx, func(repos repository.TxRepos) error {
		var err error
		matched, err = resolver.Resolve(ctx, repos, tenant, inventory.PurchaseLine{
			ProductName: "  çay bardağı ", Quantity: 3, Price: dec("12"), BuyPrice: dec("5"), Currency: "TRY", ExchangeRate: dec("1"),
		}, "inv-1")
		if err != nil {
			return err
		}
		created, err = resolver.Resolve(ctx, repos, tenant, inventory.PurchaseLine{
			ProductName: "Demlik", Quantity: 4, Price: dec("80"), BuyPrice: dec("50"), VATRate: dec("20"), Unit: "adet", Currency: "TRY", ExchangeRate: dec("1"),
		}, "inv-1")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, inventory.Matched, matched.Kind)
	assert.Equal(t, existing.ID, matched.ProductID)
	assert.Equal(t, int64(5), matched.Log.NewStock)
	assert.Equal(t, entity.LogTypePurchase, matched.Log.Type)
	assert.Equal(t, "inv-1", matched.Log.ReferenceID)

	got, err := products.Get(ctx, tenant, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Çay Bardağı", got.Name, "el nombre original se conserva")
	assert.True(t, got.Price.Equal(dec("12")))
	assert.True(t, got.BuyPrice.Equal(dec("5")))

	assert.Equal(t, inventory.Created, created.Kind)
	demlik, err := products.Get(ctx, tenant, created.ProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), demlik.Stock)
	assert.Equal(t, "adet", demlik.Unit)

	res, err := audit.VerifyTenant(ctx, tenant)
	require.NoError(t, err)
	assert.Len(t, res.Products, 2)
	assert.Zero(t, res.Inconsistent)
}

func TestResolver_LineaInvalida(t *testing.T) {
	ctx := context.Background()
	store, stock, _, _ := setup(false)
	resolver := inventory.NewResolver(stock)
	err := store.RunInTx(ctx, func(repos repository.TxRepos) error {
		_, err := resolver.Resolve(ctx, repos, tenant, inventory.PurchaseLine{ProductName: " ", Quantity: 1}, "inv-1")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// lateProducts simula que otra transacción dio de alta el nombre después de la primera búsqueda.
type lateProducts struct {
	repository.ProductRepository
	misses int
}

func (l *lateProducts) GetByNameForUpdate(ctx context.Context, tenantID, name string) (*entity.Product, error) {
	if l.misses > 0 {
		l.misses--
		return nil, nil
	}
	return l.ProductRepository.GetByNameForUpdate(ctx, tenantID, name)
}

func TestResolver_AltaConcurrenteSeFusiona(t *testing.T) {
	ctx := context.Background()
	store, stock, products, audit := setup(false)
	resolver := inventory.NewResolver(stock)
	existing, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "Widget", Price: dec("10"), BuyPrice: dec("4"), InitialStock: 2})
	require.NoError(t, err)

	var res inventory.Resolution
	err = store.RunInTx(ctx, func(repos repository.TxRepos) error {
		repos.Products = &lateProducts{ProductRepository: repos.Products, misses: 1}
		var err error
		res, err = resolver.Resolve(ctx, repos, tenant, inventory.PurchaseLine{
			ProductName: "widget", Quantity: 3, Price: dec("11"), BuyPrice: dec("5"), Currency: "TRY", ExchangeRate: dec("1"),
		}, "inv-1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.Matched, res.Kind)
	assert.Equal(t, existing.ID, res.ProductID)
	assert.Equal(t, int64(5), res.Log.NewStock)

	list, err := products.List(ctx, tenant, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1, "no se crea un duplicado")

	ver, err := audit.VerifyTenant(ctx, tenant)
	require.NoError(t, err)
	assert.Zero(t, ver.Inconsistent)
}

func TestResolver_AltaConflictoSinProducto(t *testing.T) {
	ctx := context.Background()
	store, stock, products, _ := setup(false)
	resolver := inventory.NewResolver(stock)
	_, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "Widget", Price: dec("10")})
	require.NoError(t, err)

	err = store.RunInTx(ctx, func(repos repository.TxRepos) error {
		repos.Products = &lateProducts{ProductRepository: repos.Products, misses: 2}
		_, err := resolver.Resolve(ctx, repos, tenant, inventory.PurchaseLine{ProductName: "Widget", Quantity: 1}, "inv-1")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLockProducts(t *testing.T) {
	ctx := context.Background()
	store, stock, products, _ := setup(false)
	a, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "A"})
	require.NoError(t, err)
	b, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "B"})
	require.NoError(t, err)
	foreign, err := products.Create(ctx, "t-2", dto.CreateProductRequest{Name: "C"})
	require.NoError(t, err)

	err = store.RunInTx(ctx, func(repos repository.TxRepos) error {
		locked, err := stock.LockProducts(ctx, repos, tenant, []string{b.ID, a.ID, b.ID})
		require.NoError(t, err)
		assert.Len(t, locked, 2)
		_, err = stock.LockProducts(ctx, repos, tenant, []string{a.ID, foreign.ID})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAudit_DetectaInconsistencia(t *testing.T) {
	ctx := context.Background()
	store, _, products, audit := setup(false)
	p, err := products.Create(ctx, tenant, dto.CreateProductRequest{Name: "Widget", InitialStock: 5})
	require.NoError(t, err)
	_, err = products.AdjustStock(ctx, tenant, p.ID, dto.AdjustStockRequest{Delta: 2})
	require.NoError(t, err)

	// escritura directa que no pasa por el kardex
	require.NoError(t, store.Products().UpdateStock(ctx, tenant, p.ID, 9))

	res, err := audit.VerifyProduct(ctx, tenant, p.ID)
	require.NoError(t, err)
	assert.False(t, res.Consistent)
	assert.Equal(t, int64(7), res.Replayed)
	assert.Equal(t, int64(9), res.Current)
	assert.Empty(t, res.BrokenAt)

	all, err := audit.VerifyTenant(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, 1, all.Inconsistent)

	logs, err := audit.ListLogs(ctx, tenant, p.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(5), logs[0].NewStock)
}

func TestNormalizeCurrency(t *testing.T) {
	cases := []struct {
		currency string
		rate     string
		wantCur  string
		wantRate string
		wantErr  bool
	}{
		{"", "0", "TRY", "1", false},
		{"try", "0", "TRY", "1", false},
		{" usd ", "32.5", "USD", "32.5", false},
		{"USD", "0", "", "", true},
		{"EUR", "-1", "", "", true},
	}
	for _, tc := range cases {
		cur, rate, err := inventory.NormalizeCurrency(tc.currency, dec(tc.rate), "TRY")
		if tc.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidInput, tc.currency)
			continue
		}
		require.NoError(t, err, tc.currency)
		assert.Equal(t, tc.wantCur, cur)
		assert.True(t, rate.Equal(dec(tc.wantRate)), tc.currency)
	}
}
