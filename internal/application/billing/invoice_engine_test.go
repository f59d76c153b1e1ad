package billing_test

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
)

// Un tenant FREE con 5 facturas no puede crear la sexta; el stock no se mueve.
func TestCreate_QuotaExcedida(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 50)
	for i := 0; i < 5; i++ {
		_, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 1, "100", "20")))
		require.NoError(t, err)
	}
	before := f.stockOf(t, f.tenantID, p)

	_, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 2, "100", "20")))
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, before, f.stockOf(t, f.tenantID, p))

	n, err := f.store.Invoices().CountByTenant(f.ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

// Primera factura: número 1, stock -2 y un SALE con el stock resultante.
func TestCreate_PrimeraFactura(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 10)

	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 2, "100", "20")))
	require.NoError(t, err)

	assert.Equal(t, int64(1), inv.Number)
	assert.Equal(t, entity.InvoiceTypeSale, inv.Type)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	assert.Equal(t, "TRY", inv.Currency)
	assertDec(t, "200", inv.NetTotal)
	assertDec(t, "40", inv.TaxTotal)
	assertDec(t, "240", inv.GrandTotal)
	require.Len(t, inv.Items, 1)
	assertDec(t, "40", inv.Items[0].LineTax)

	assert.Equal(t, int64(8), f.stockOf(t, f.tenantID, p))
	logs := f.logsOf(t, f.tenantID, p)
	require.Len(t, logs, 2, "stock inicial + venta")
	last := logs[1]
	assert.Equal(t, entity.LogTypeSale, last.Type)
	assert.Equal(t, int64(-2), last.Change)
	assert.Equal(t, int64(8), last.NewStock)
	assert.Equal(t, inv.ID, last.ReferenceID)
	assertDec(t, "100", last.UnitPrice)
	assert.Equal(t, "TRY", last.Currency)
}

// Ventas simultáneas: cada una descuenta su unidad y recibe un número propio, sin huecos.
func TestCreate_Concurrente(t *testing.T) {
	f := newFixture(t, entity.PlanPro)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 50)

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 1, "100", "20")))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, inv.Number)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, int64(50-n), f.stockOf(t, f.tenantID, p))

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	want := make([]int64, n)
	for i := range want {
		want[i] = int64(i + 1)
	}
	assert.Equal(t, want, numbers)
	assert.Len(t, f.logsOf(t, f.tenantID, p), n+1, "stock inicial + una venta por factura")
	f.assertLedgerConsistent(t, f.tenantID)
}

func TestCreate_StockInsuficiente(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 1)

	_, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 2, "100", "0")))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), f.stockOf(t, f.tenantID, p))

	list, err := f.engine.List(f.ctx, f.tenantID, "", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_StockNegativoPermitido(t *testing.T) {
	f := newFixtureWith(t, entity.PlanFree, true)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 1)

	_, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 3, "100", "0")))
	require.NoError(t, err)
	assert.Equal(t, int64(-2), f.stockOf(t, f.tenantID, p))
	f.assertLedgerConsistent(t, f.tenantID)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 10)

	cases := map[string]struct {
		req  dto.InvoiceRequest
		want error
	}{
		"sin líneas":          {sale(c), domain.ErrInvalidInput},
		"cantidad cero":       {sale(c, line(p, 0, "1", "0")), domain.ErrInvalidInput},
		"cantidad negativa":   {sale(c, line(p, -1, "1", "0")), domain.ErrInvalidInput},
		"precio negativo":     {sale(c, line(p, 1, "-1", "0")), domain.ErrInvalidInput},
		"iva fuera de rango":  {sale(c, line(p, 1, "1", "100.5")), domain.ErrInvalidInput},
		"producto vacío":      {sale(c, line("", 1, "1", "0")), domain.ErrInvalidInput},
		"cliente inexistente": {sale("no-existe", line(p, 1, "1", "0")), domain.ErrNotFound},
		"producto inexistente": {sale(c, line("no-existe", 1, "1", "0")), domain.ErrNotFound},
		"tasa negativa": {dto.InvoiceRequest{CustomerID: c, ExchangeRate: dec("-1"),
			Items: []dto.InvoiceItemRequest{line(p, 1, "1", "0")}}, domain.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.engine.Create(f.ctx, f.tenantID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, int64(10), f.stockOf(t, f.tenantID, p))
}

// Si falla la inserción de la línea N, no queda ni factura, ni líneas, ni deltas de stock de 1..N-1.
func TestCreate_Atomicidad(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p1 := f.product(t, f.tenantID, "Uno", 10)
	p2 := f.product(t, f.tenantID, "Dos", 10)
	p3 := f.product(t, f.tenantID, "Tres", 10)

	f.store.FailAfter("invoice.create_item", 2)
	_, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p1, 1, "1", "0"), line(p2, 2, "1", "0"), line(p3, 3, "1", "0")))
	require.Error(t, err)
	assert.ErrorIs(t, err, memory.ErrInjected)

	for _, p := range []string{p1, p2, p3} {
		assert.Equal(t, int64(10), f.stockOf(t, f.tenantID, p))
		assert.Len(t, f.logsOf(t, f.tenantID, p), 1, "solo el stock inicial")
	}
	n, err := f.store.Invoices().CountByTenant(f.ctx, f.tenantID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// el número reservado en la transacción fallida tampoco se consume
	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p1, 1, "1", "0")))
	require.NoError(t, err)
	assert.Equal(t, int64(1), inv.Number)
}

func TestCreate_AtomicidadEnKardex(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p1 := f.product(t, f.tenantID, "Uno", 10)
	p2 := f.product(t, f.tenantID, "Dos", 10)

	f.store.FailAfter("log.create", 1)
	_, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p1, 4, "1", "0"), line(p2, 4, "1", "0")))
	assert.ErrorIs(t, err, memory.ErrInjected)
	assert.Equal(t, int64(10), f.stockOf(t, f.tenantID, p1))
	assert.Equal(t, int64(10), f.stockOf(t, f.tenantID, p2))
	f.assertLedgerConsistent(t, f.tenantID)
}

// Editar [(P1,3)] a [(P1,1)] deja P1 exactamente 2 unidades por encima.
func TestUpdate_ReversionDeStock(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 10)

	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 3, "100", "20")))
	require.NoError(t, err)
	afterCreate := f.stockOf(t, f.tenantID, p)
	require.Equal(t, int64(7), afterCreate)

	upd, err := f.engine.Update(f.ctx, f.tenantID, inv.ID, sale(c, line(p, 1, "100", "20")))
	require.NoError(t, err)
	assert.Equal(t, afterCreate+2, f.stockOf(t, f.tenantID, p))
	assert.Equal(t, inv.Number, upd.Number, "editar no renumera")
	assertDec(t, "120", upd.GrandTotal)

	logs := f.logsOf(t, f.tenantID, p)
	require.Len(t, logs, 4)
	assert.Equal(t, entity.LogTypeCancel, logs[2].Type)
	assert.Equal(t, int64(3), logs[2].Change)
	assert.Equal(t, int64(10), logs[2].NewStock)
	assert.Equal(t, entity.LogTypeSale, logs[3].Type)
	assert.Equal(t, int64(9), logs[3].NewStock)
	f.assertLedgerConsistent(t, f.tenantID)
}

func TestUpdate_CambioDeProductos(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p1 := f.product(t, f.tenantID, "Uno", 10)
	p2 := f.product(t, f.tenantID, "Dos", 10)

	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p1, 3, "1", "0"), line(p2, 1, "1", "0")))
	require.NoError(t, err)

	_, err = f.engine.Update(f.ctx, f.tenantID, inv.ID, sale(c, line(p2, 4, "1", "0"), line(p2, 2, "1", "0")))
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.stockOf(t, f.tenantID, p1))
	assert.Equal(t, int64(4), f.stockOf(t, f.tenantID, p2))

	got, err := f.engine.Get(f.ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	f.assertLedgerConsistent(t, f.tenantID)
}

// La reversión completa antes de aplicar permite reasignar todo el stock del producto.
func TestUpdate_ReusaStockLiberado(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 5)

	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 5, "1", "0")))
	require.NoError(t, err)
	require.Equal(t, int64(0), f.stockOf(t, f.tenantID, p))

	_, err = f.engine.Update(f.ctx, f.tenantID, inv.ID, sale(c, line(p, 2, "1", "0"), line(p, 3, "1", "0")))
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.stockOf(t, f.tenantID, p))

	_, err = f.engine.Update(f.ctx, f.tenantID, inv.ID, sale(c, line(p, 6, "1", "0")))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), f.stockOf(t, f.tenantID, p), "una edición fallida no deja rastro")
	f.assertLedgerConsistent(t, f.tenantID)
}

func TestDelete_RevierteYNoReutilizaNumero(t *testing.T) {
	f := newFixture(t, entity.PlanPro)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 20)

	var last *dto.InvoiceResponse
	for i := int64(1); i <= 3; i++ {
		inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 2, "10", "0")))
		require.NoError(t, err)
		assert.Equal(t, i, inv.Number)
		last = inv
	}
	_, err := f.payments.Add(f.ctx, f.tenantID, last.ID, dto.AddPaymentRequest{Amount: dec("5")})
	require.NoError(t, err)
	require.Equal(t, int64(14), f.stockOf(t, f.tenantID, p))

	require.NoError(t, f.engine.Delete(f.ctx, f.tenantID, last.ID))
	assert.Equal(t, int64(16), f.stockOf(t, f.tenantID, p))
	_, err = f.engine.Get(f.ctx, f.tenantID, last.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	logs := f.logsOf(t, f.tenantID, p)
	assert.Equal(t, entity.LogTypeCancel, logs[len(logs)-1].Type)

	next, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 1, "10", "0")))
	require.NoError(t, err)
	assert.Equal(t, int64(4), next.Number)
	f.assertLedgerConsistent(t, f.tenantID)

	assert.ErrorIs(t, f.engine.Delete(f.ctx, f.tenantID, last.ID), domain.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 10)
	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 2, "10", "0")))
	require.NoError(t, err)

	steps := []struct{ in, want string }{
		{" paid ", entity.InvoiceStatusPaid},
		{entity.InvoiceStatusPending, entity.InvoiceStatusPending},
		{entity.InvoiceStatusCancelled, entity.InvoiceStatusCancelled},
		{entity.InvoiceStatusPaid, entity.InvoiceStatusPaid},
	}
	for _, step := range steps {
		got, err := f.engine.UpdateStatus(f.ctx, f.tenantID, inv.ID, step.in)
		require.NoError(t, err)
		assert.Equal(t, step.want, got.Status)
	}
	assert.Equal(t, int64(8), f.stockOf(t, f.tenantID, p), "el estado nunca mueve stock")

	_, err = f.engine.UpdateStatus(f.ctx, f.tenantID, inv.ID, "ARCHIVED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAislamientoEntreTenants(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 10)
	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 2, "10", "0")))
	require.NoError(t, err)

	other := f.newTenant(t, entity.PlanFree)
	otherCustomer := f.customer(t, other, entity.CustomerTypeBuyer)

	_, err = f.engine.Get(f.ctx, other, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.engine.Update(f.ctx, other, inv.ID, sale(otherCustomer, line(p, 1, "10", "0")))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.engine.Delete(f.ctx, other, inv.ID), domain.ErrNotFound)
	_, err = f.engine.UpdateStatus(f.ctx, other, inv.ID, entity.InvoiceStatusPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.payments.Add(f.ctx, other, inv.ID, dto.AddPaymentRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.payments.Balance(f.ctx, other, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// el producto de otro tenant tampoco existe para él
	_, err = f.engine.Create(f.ctx, other, sale(otherCustomer, line(p, 1, "10", "0")))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	// ni el cliente
	_, err = f.engine.Create(f.ctx, other, sale(c, line(p, 1, "10", "0")))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(8), f.stockOf(t, f.tenantID, p))
}

func TestMultiMoneda_RequierePlan(t *testing.T) {
	free := newFixture(t, entity.PlanFree)
	c := free.customer(t, free.tenantID, entity.CustomerTypeBuyer)
	p := free.product(t, free.tenantID, "Widget", 10)
	req := dto.InvoiceRequest{CustomerID: c, Currency: "usd", ExchangeRate: dec("32.5"), Items: []dto.InvoiceItemRequest{line(p, 1, "10", "0")}}

	_, err := free.engine.Create(free.ctx, free.tenantID, req)
	assert.ErrorIs(t, err, domain.ErrFeatureDisabled)

	pro := newFixture(t, entity.PlanPro)
	c = pro.customer(t, pro.tenantID, entity.CustomerTypeBuyer)
	p = pro.product(t, pro.tenantID, "Widget", 10)
	req.CustomerID = c
	req.Items = []dto.InvoiceItemRequest{line(p, 1, "10", "0")}
	inv, err := pro.engine.Create(pro.ctx, pro.tenantID, req)
	require.NoError(t, err)
	assert.Equal(t, "USD", inv.Currency)

	// moneda extranjera sin tasa
	req.ExchangeRate = dec("0")
	_, err = pro.engine.Create(pro.ctx, pro.tenantID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Compra de un producto inexistente: se crea con stock = cantidad y un PURCHASE.
func TestCreatePurchase_CreaProducto(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	s := f.customer(t, f.tenantID, entity.CustomerTypeSupplier)

	resp, err := f.engine.CreatePurchase(f.ctx, f.tenantID, dto.PurchaseRequest{
		SupplierID:     s,
		DocumentNumber: "PRV-001",
		Lines:          []dto.PurchaseLineRequest{{ProductName: "Widget", Quantity: 10, Price: dec("5")}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Resolutions, 1)
	assert.Equal(t, "CREATED", resp.Resolutions[0].Kind)
	assert.Equal(t, entity.InvoiceTypePurchase, resp.Invoice.Type)
	assert.Equal(t, "PRV-001", resp.Invoice.DocumentNumber)
	assertDec(t, "50", resp.Invoice.GrandTotal)

	p, err := f.store.Products().GetByName(f.ctx, f.tenantID, "widget")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, resp.Resolutions[0].ProductID, p.ID)
	assert.Equal(t, int64(10), p.Stock)

	logs := f.logsOf(t, f.tenantID, p.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.LogTypePurchase, logs[0].Type)
	assert.Equal(t, int64(10), logs[0].Change)
	assert.Equal(t, int64(10), logs[0].NewStock)
	assert.Equal(t, resp.Invoice.ID, logs[0].ReferenceID)
}

func TestCreatePurchase_FusionaSinDistinguirMayusculas(t *testing.T) {
	f := newFixture(t, entity.PlanPro)
	s := f.customer(t, f.tenantID, entity.CustomerTypeSupplier)
	existing := f.product(t, f.tenantID, "Widget", 3)

	resp, err := f.engine.CreatePurchase(f.ctx, f.tenantID, dto.PurchaseRequest{
		SupplierID:   s,
		Currency:     "USD",
		ExchangeRate: dec("30"),
		Lines: []dto.PurchaseLineRequest{
			{ProductName: "  WIDGET ", Quantity: 5, Price: dec("9"), BuyPrice: dec("6")},
			{ProductName: "Gadget", Quantity: 2, Price: dec("4")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "MATCHED", resp.Resolutions[0].Kind)
	assert.Equal(t, existing, resp.Resolutions[0].ProductID)
	assert.Equal(t, "CREATED", resp.Resolutions[1].Kind)

	p, err := f.store.Products().GetByID(f.ctx, f.tenantID, existing)
	require.NoError(t, err)
	assert.Equal(t, int64(8), p.Stock)
	assert.Equal(t, "Widget", p.Name, "el nombre original se conserva")
	assertDec(t, "9", p.Price)
	assertDec(t, "6", p.BuyPrice)
	assert.Equal(t, "USD", p.Currency)
	assertDec(t, "30", p.ExchangeRate)

	logs := f.logsOf(t, f.tenantID, existing)
	last := logs[len(logs)-1]
	assert.Equal(t, entity.LogTypePurchase, last.Type)
	assert.Equal(t, int64(8), last.NewStock)
	assertDec(t, "6", last.UnitPrice)
	f.assertLedgerConsistent(t, f.tenantID)
}

func TestCreatePurchase_RollbackNoCreaProductos(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	s := f.customer(t, f.tenantID, entity.CustomerTypeSupplier)

	f.store.FailAfter("invoice.create_item", 1)
	_, err := f.engine.CreatePurchase(f.ctx, f.tenantID, dto.PurchaseRequest{
		SupplierID: s,
		Lines: []dto.PurchaseLineRequest{
			{ProductName: "A", Quantity: 1, Price: dec("1")},
			{ProductName: "B", Quantity: 1, Price: dec("1")},
		},
	})
	assert.ErrorIs(t, err, memory.ErrInjected)

	list, err := f.products.List(f.ctx, f.tenantID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEditarYEliminarCompra(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	s := f.customer(t, f.tenantID, entity.CustomerTypeSupplier)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)

	resp, err := f.engine.CreatePurchase(f.ctx, f.tenantID, dto.PurchaseRequest{
		SupplierID: s,
		Lines:      []dto.PurchaseLineRequest{{ProductName: "Widget", Quantity: 10, Price: dec("5")}},
	})
	require.NoError(t, err)
	p := resp.Resolutions[0].ProductID

	_, err = f.engine.Update(f.ctx, f.tenantID, resp.Invoice.ID, sale(s, line(p, 4, "5", "0")))
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.stockOf(t, f.tenantID, p), "una compra editada suma la nueva cantidad")

	_, err = f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 3, "9", "0")))
	require.NoError(t, err)

	require.NoError(t, f.engine.Delete(f.ctx, f.tenantID, resp.Invoice.ID))
	assert.Equal(t, int64(-3), f.stockOf(t, f.tenantID, p), "la reversión completa deja el faltante a la vista")
	f.assertLedgerConsistent(t, f.tenantID)
}

// Eliminar una compra cuya mercancía ya se vendió revierte la cantidad completa con un CANCEL.
func TestDelete_CompraConsumida(t *testing.T) {
	f := newFixture(t, entity.PlanPro)
	s := f.customer(t, f.tenantID, entity.CustomerTypeSupplier)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)

	resp, err := f.engine.CreatePurchase(f.ctx, f.tenantID, dto.PurchaseRequest{
		SupplierID: s,
		Lines:      []dto.PurchaseLineRequest{{ProductName: "Widget", Quantity: 10, Price: dec("5")}},
	})
	require.NoError(t, err)
	p := resp.Resolutions[0].ProductID

	_, err = f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 8, "9", "0")))
	require.NoError(t, err)
	require.Equal(t, int64(2), f.stockOf(t, f.tenantID, p))

	require.NoError(t, f.engine.Delete(f.ctx, f.tenantID, resp.Invoice.ID))
	assert.Equal(t, int64(-8), f.stockOf(t, f.tenantID, p))

	logs := f.logsOf(t, f.tenantID, p)
	last := logs[len(logs)-1]
	assert.Equal(t, entity.LogTypeCancel, last.Type)
	assert.Equal(t, int64(-10), last.Change)
	assert.Equal(t, int64(-8), last.NewStock)

	_, err = f.engine.Get(f.ctx, f.tenantID, resp.Invoice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.assertLedgerConsistent(t, f.tenantID)

	// una venta nueva sigue exigiendo stock
	_, err = f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 1, "9", "0")))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Cualquier secuencia de operaciones deja el kardex cuadrado con el stock.
func TestKardexCuadraConStock(t *testing.T) {
	f := newFixture(t, entity.PlanPro)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	s := f.customer(t, f.tenantID, entity.CustomerTypeSupplier)
	p1 := f.product(t, f.tenantID, "Uno", 30)
	p2 := f.product(t, f.tenantID, "Dos", 30)

	a, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p1, 5, "1", "0"), line(p2, 2, "1", "0")))
	require.NoError(t, err)
	b, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p2, 7, "1", "0")))
	require.NoError(t, err)
	_, err = f.engine.CreatePurchase(f.ctx, f.tenantID, dto.PurchaseRequest{SupplierID: s, Lines: []dto.PurchaseLineRequest{
		{ProductName: "uno", Quantity: 4, Price: dec("1")},
		{ProductName: "Tres", Quantity: 6, Price: dec("1")},
	}})
	require.NoError(t, err)
	_, err = f.engine.Update(f.ctx, f.tenantID, a.ID, sale(c, line(p2, 1, "1", "0"), line(p1, 9, "1", "0")))
	require.NoError(t, err)
	require.NoError(t, f.engine.Delete(f.ctx, f.tenantID, b.ID))
	_, err = f.products.AdjustStock(f.ctx, f.tenantID, p1, dto.AdjustStockRequest{Delta: -2, Note: "merma"})
	require.NoError(t, err)

	assert.Equal(t, int64(30-9+4-2), f.stockOf(t, f.tenantID, p1))
	assert.Equal(t, int64(30-1), f.stockOf(t, f.tenantID, p2))
	f.assertLedgerConsistent(t, f.tenantID)
}

func TestNotifier_RecibeProyeccion(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 10)

	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 2, "100", "20")))
	require.NoError(t, err)

	require.Len(t, f.notifier.Events, 1)
	ev := f.notifier.Events[0]
	assert.Equal(t, billing.EventInvoiceCreated, ev.Name)
	assert.Equal(t, inv.ID, ev.View.ID)
	assert.InDelta(t, 240.0, ev.View.GrandTotal, 1e-9)
	assert.InDelta(t, 240.0, ev.View.Remaining, 1e-9)
	require.Len(t, ev.View.Items, 1)
	assert.Equal(t, "Widget", ev.View.Items[0].ProductName)
	assert.Equal(t, "Cliente BUYER", ev.View.Customer.Name)
}

func TestNotifier_FalloNoRevierte(t *testing.T) {
	f := newFixture(t, entity.PlanFree)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	p := f.product(t, f.tenantID, "Widget", 10)
	f.notifier.Err = errors.New("smtp caído")

	inv, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 1, "100", "20")))
	require.NoError(t, err)
	_, err = f.engine.Get(f.ctx, f.tenantID, inv.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), f.stockOf(t, f.tenantID, p))
}

func TestList_FiltraPorTipoYEstado(t *testing.T) {
	f := newFixture(t, entity.PlanPro)
	c := f.customer(t, f.tenantID, entity.CustomerTypeBuyer)
	s := f.customer(t, f.tenantID, entity.CustomerTypeSupplier)
	p := f.product(t, f.tenantID, "Widget", 10)

	a, err := f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 1, "1", "0")))
	require.NoError(t, err)
	_, err = f.engine.Create(f.ctx, f.tenantID, sale(c, line(p, 1, "1", "0")))
	require.NoError(t, err)
	_, err = f.engine.CreatePurchase(f.ctx, f.tenantID, dto.PurchaseRequest{SupplierID: s, Lines: []dto.PurchaseLineRequest{{ProductName: "Widget", Quantity: 1, Price: dec("1")}}})
	require.NoError(t, err)
	_, err = f.engine.UpdateStatus(f.ctx, f.tenantID, a.ID, entity.InvoiceStatusPaid)
	require.NoError(t, err)

	all, err := f.engine.List(f.ctx, f.tenantID, "", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Number, "más reciente primero")

	sales, err := f.engine.List(f.ctx, f.tenantID, "sale", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	paid, err := f.engine.List(f.ctx, f.tenantID, "", "paid", 0, 0)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, a.ID, paid[0].ID)
	assert.Equal(t, "Cliente BUYER", paid[0].CustomerName)
}

var _ repository.TxRunner = (*memory.Store)(nil)
