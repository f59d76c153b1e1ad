package billing_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/application/quota"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/notify"
)

// fixture arma todos los casos de uso sobre el almacén en memoria.
type fixture struct {
	ctx       context.Context
	store     *memory.Store
	tenants   *quota.TenantUseCase
	engine    *billing.InvoiceEngine
	payments  *billing.PaymentLedger
	customers *billing.CustomerUseCase
	products  *inventory.ProductUseCase
	audit     *inventory.AuditUseCase
	notifier  *notify.Recorder
	tenantID  string
}

func newFixture(t *testing.T, plan string) *fixture {
	t.Helper()
	return newFixtureWith(t, plan, false)
}

func newFixtureWith(t *testing.T, plan string, allowNegative bool) *fixture {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	store := memory.New()

	repos := billing.Repositories{
		Tenants:   store.Tenants(),
		Customers: store.Customers(),
		Products:  store.Products(),
		Invoices:  store.Invoices(),
		Payments:  store.Payments(),
	}
	gate := quota.NewGate(store.Tenants(), store.Invoices(), store.Customers(), quota.DefaultLimits(), log)
	stock := inventory.NewStockKeeper(allowNegative)
	projector := billing.NewProjector(repos, ledger.DefaultEpsilon)
	rec := &notify.Recorder{}
	engine := billing.NewInvoiceEngine(store, repos, gate, stock, inventory.NewResolver(stock), projector, rec, log, "TRY")

	f := &fixture{
		ctx:       ctx,
		store:     store,
		tenants:   quota.NewTenantUseCase(store.Tenants(), "TRY", log),
		engine:    engine,
		payments:  billing.NewPaymentLedger(store, repos, projector, rec, log, ledger.DefaultEpsilon, "TRY"),
		customers: billing.NewCustomerUseCase(store, store.Customers(), gate, engine, log),
		products:  inventory.NewProductUseCase(store, store.Products(), stock, "TRY", log),
		audit:     inventory.NewAuditUseCase(store, store.Products(), store.Logs()),
		notifier:  rec,
	}
	f.tenantID = f.newTenant(t, plan)
	return f
}

func (f *fixture) newTenant(t *testing.T, plan string) string {
	t.Helper()
	resp, err := f.tenants.Create(f.ctx, dto.CreateTenantRequest{Name: "Acme", Plan: plan})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) customer(t *testing.T, tenantID, typ string) string {
	t.Helper()
	resp, err := f.customers.Create(f.ctx, tenantID, dto.CreateCustomerRequest{Name: "Cliente " + typ, Type: typ})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) product(t *testing.T, tenantID, name string, stock int64) string {
	t.Helper()
	resp, err := f.products.Create(f.ctx, tenantID, dto.CreateProductRequest{
		Name:         name,
		Price:        dec("100"),
		BuyPrice:     dec("60"),
		VATRate:      dec("20"),
		InitialStock: stock,
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *fixture) stockOf(t *testing.T, tenantID, productID string) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(f.ctx, tenantID, productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) logsOf(t *testing.T, tenantID, productID string) []*entity.InventoryLog {
	t.Helper()
	logs, err := f.store.Logs().ListByProduct(f.ctx, tenantID, productID, 0, 0)
	require.NoError(t, err)
	return logs
}

func (f *fixture) assertLedgerConsistent(t *testing.T, tenantID string) {
	t.Helper()
	res, err := f.audit.VerifyTenant(f.ctx, tenantID)
	require.NoError(t, err)
	for _, p := range res.Products {
		assert.Truef(t, p.Consistent, "kardex de %s: replay=%d stock=%d", p.ProductName, p.Replayed, p.Current)
	}
	assert.Zero(t, res.Inconsistent)
}

func sale(customerID string, lines ...dto.InvoiceItemRequest) dto.InvoiceRequest {
	return dto.InvoiceRequest{CustomerID: customerID, Items: lines}
}

func line(productID string, qty int64, price, vat string) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{ProductID: productID, Quantity: qty, Price: dec(price), VATRate: dec(vat)}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msgAndArgs)
}
