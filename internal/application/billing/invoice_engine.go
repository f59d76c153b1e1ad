package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// InvoiceEngine crea, edita y elimina facturas de venta y compra en una sola transacción
// que abarca cabecera, líneas, stock y kardex.
type InvoiceEngine struct {
	tx           repository.TxRunner
	repos        Repositories
	gate         QuotaGate
	stock        *inventory.StockKeeper
	resolver     *inventory.Resolver
	pub          publisher
	log          zerolog.Logger
	baseCurrency string
	now          func() time.Time
}

// NewInvoiceEngine construye el motor. notifier puede ser nil.
// baseCurrency se usa para tenants sin moneda base propia.
func NewInvoiceEngine(
	tx repository.TxRunner,
	repos Repositories,
	gate QuotaGate,
	stock *inventory.StockKeeper,
	resolver *inventory.Resolver,
	projector *Projector,
	notifier Notifier,
	log zerolog.Logger,
	baseCurrency string,
) *InvoiceEngine {
	return &InvoiceEngine{
		tx:           tx,
		repos:        repos,
		gate:         gate,
		stock:        stock,
		resolver:     resolver,
		pub:          publisher{projector: projector, notifier: notifier, log: log},
		log:          log,
		baseCurrency: baseCurrency,
		now:          time.Now,
	}
}

// header campos de cabecera comunes a ventas y compras.
type header struct {
	CustomerID               string
	Date                     time.Time
	DueDate                  *time.Time
	Currency                 string
	ExchangeRate             decimal.Decimal
	DocumentNumber           string
	CustomsDeclarationNumber string
	Note                     string
}

// Create crea una factura de venta: consume cuota, numera, guarda cabecera y líneas,
// descuenta stock y registra un SALE por línea. Todo o nada.
func (e *InvoiceEngine) Create(ctx context.Context, tenantID string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	if err := e.gate.Allow(ctx, tenantID, entity.FeatureInvoices); err != nil {
		return nil, err
	}
	inv, customer, err := e.prepare(ctx, tenantID, headerFromInvoice(in))
	if err != nil {
		return nil, err
	}
	inv.ID = uuid.New().String()
	inv.Type = entity.InvoiceTypeSale
	inv.Status = entity.InvoiceStatusPending
	inv.CreatedAt = inv.UpdatedAt
	items := buildItems(inv.ID, in.Items)
	setTotals(inv, items)

	err = e.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		if _, err := e.stock.LockProducts(ctx, repos, tenantID, productIDs(items)); err != nil {
			return err
		}
		number, err := repos.Invoices.NextNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		inv.Number = number
		if err := repos.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		return e.applyItems(ctx, repos, inv, items)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("tenant_id", tenantID).Str("invoice_id", inv.ID).Int64("number", inv.Number).
		Int("items", len(items)).Msg("invoice created")
	e.pub.publish(ctx, tenantID, inv.ID, EventInvoiceCreated)
	return toInvoiceResponse(inv, customer.Name, items), nil
}

// CreatePurchase registra una factura de compra. Cada línea pasa por el resolvedor de productos
// dentro de la misma transacción; el resultado indica qué rama tomó cada una.
func (e *InvoiceEngine) CreatePurchase(ctx context.Context, tenantID string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}
	if err := e.gate.Allow(ctx, tenantID, entity.FeatureInvoices); err != nil {
		return nil, err
	}
	inv, supplier, err := e.prepare(ctx, tenantID, headerFromPurchase(in))
	if err != nil {
		return nil, err
	}
	inv.ID = uuid.New().String()
	inv.Type = entity.InvoiceTypePurchase
	inv.Status = entity.InvoiceStatusPending
	inv.CreatedAt = inv.UpdatedAt

	lines := make([]inventory.PurchaseLine, len(in.Lines))
	items := make([]*entity.InvoiceItem, len(in.Lines))
	for i, l := range in.Lines {
		cost := l.BuyPrice
		if cost.IsZero() {
			cost = l.Price
		}
		lines[i] = inventory.PurchaseLine{
			ProductName:  strings.TrimSpace(l.ProductName),
			Quantity:     l.Quantity,
			Price:        l.Price,
			BuyPrice:     cost,
			VATRate:      l.VATRate,
			Unit:         l.Unit,
			Currency:     inv.Currency,
			ExchangeRate: inv.ExchangeRate,
		}
		items[i] = &entity.InvoiceItem{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			Quantity:  l.Quantity,
			Price:     cost,
			VATRate:   l.VATRate,
		}
	}
	setTotals(inv, items)

	// orden estable por nombre normalizado: dos compras simultáneas bloquean en el mismo orden
	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ledger.NameKey(lines[order[a]].ProductName) < ledger.NameKey(lines[order[b]].ProductName)
	})

	resolutions := make([]inventory.Resolution, len(lines))
	err = e.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		number, err := repos.Invoices.NextNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		inv.Number = number
		if err := repos.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, i := range order {
			res, err := e.resolver.Resolve(ctx, repos, tenantID, lines[i], inv.ID)
			if err != nil {
				return err
			}
			resolutions[i] = res
			items[i].ProductID = res.ProductID
			if err := repos.Invoices.CreateItem(ctx, items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := 0
	out := &dto.PurchaseResponse{
		Invoice:     *toInvoiceResponse(inv, supplier.Name, items),
		Resolutions: make([]dto.ResolutionResponse, len(lines)),
	}
	for i, res := range resolutions {
		if res.Kind == inventory.Created {
			created++
		}
		out.Resolutions[i] = dto.ResolutionResponse{
			Line:        i,
			ProductName: lines[i].ProductName,
			ProductID:   res.ProductID,
			Kind:        string(res.Kind),
		}
	}
	e.log.Info().Str("tenant_id", tenantID).Str("invoice_id", inv.ID).Int64("number", inv.Number).
		Int("lines", len(lines)).Int("products_created", created).Msg("purchase invoice created")
	e.pub.publish(ctx, tenantID, inv.ID, EventInvoiceCreated)
	return out, nil
}

// Update reemplaza cabecera y líneas. En dos fases: primero revierte por completo el efecto
// de las líneas anteriores (CANCEL), después aplica las nuevas.
func (e *InvoiceEngine) Update(ctx context.Context, tenantID, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	next, customer, err := e.prepare(ctx, tenantID, headerFromInvoice(in))
	if err != nil {
		return nil, err
	}

	var inv *entity.Invoice
	items := buildItems(id, in.Items)
	err = e.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		cur, err := repos.Invoices.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		old, err := repos.Invoices.GetItems(ctx, cur.ID)
		if err != nil {
			return err
		}
		if _, err := e.stock.LockProducts(ctx, repos, tenantID, append(productIDs(old), productIDs(items)...)); err != nil {
			return err
		}

		if err := e.reverseItems(ctx, repos, cur, old, fmt.Sprintf("edición de factura #%d", cur.Number)); err != nil {
			return err
		}
		if err := repos.Invoices.DeleteItems(ctx, cur.ID); err != nil {
			return err
		}

		cur.CustomerID = next.CustomerID
		cur.Date = next.Date
		cur.DueDate = next.DueDate
		cur.Currency = next.Currency
		cur.ExchangeRate = next.ExchangeRate
		cur.DocumentNumber = next.DocumentNumber
		cur.CustomsDeclarationNumber = next.CustomsDeclarationNumber
		cur.Note = next.Note
		cur.UpdatedAt = next.UpdatedAt
		setTotals(cur, items)
		if err := repos.Invoices.UpdateHeader(ctx, cur); err != nil {
			return err
		}

		if err := e.applyItems(ctx, repos, cur, items); err != nil {
			return err
		}
		inv = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("tenant_id", tenantID).Str("invoice_id", inv.ID).Int64("number", inv.Number).
		Int("items", len(items)).Msg("invoice updated")
	e.pub.publish(ctx, tenantID, inv.ID, EventInvoiceUpdated)
	return toInvoiceResponse(inv, customer.Name, items), nil
}

// Delete revierte el stock de todas las líneas, borra líneas, abonos y la factura.
// El número no se reutiliza.
func (e *InvoiceEngine) Delete(ctx context.Context, tenantID, id string) error {
	var inv *entity.Invoice
	err := e.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		var err error
		inv, err = e.deleteInTx(ctx, repos, tenantID, id)
		return err
	})
	if err != nil {
		return err
	}
	e.log.Info().Str("tenant_id", tenantID).Str("invoice_id", inv.ID).Int64("number", inv.Number).Msg("invoice deleted")
	return nil
}

// deleteInTx cuerpo de Delete reutilizable por la baja en cascada de clientes.
func (e *InvoiceEngine) deleteInTx(ctx context.Context, repos repository.TxRepos, tenantID, id string) (*entity.Invoice, error) {
	inv, err := repos.Invoices.GetForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := repos.Invoices.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	if _, err := e.stock.LockProducts(ctx, repos, tenantID, productIDs(items)); err != nil {
		return nil, err
	}
	if err := e.reverseItems(ctx, repos, inv, items, fmt.Sprintf("eliminación de factura #%d", inv.Number)); err != nil {
		return nil, err
	}
	if err := repos.Invoices.DeleteItems(ctx, inv.ID); err != nil {
		return nil, err
	}
	if err := repos.Payments.DeleteByInvoice(ctx, inv.ID); err != nil {
		return nil, err
	}
	if err := repos.Invoices.Delete(ctx, tenantID, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateStatus cambia solo el estado; nunca toca stock ni abonos.
// Se acepta cualquier transición entre PENDING, PAID y CANCELLED.
func (e *InvoiceEngine) UpdateStatus(ctx context.Context, tenantID, id, status string) (*dto.InvoiceResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !entity.IsValidInvoiceStatus(status) {
		return nil, fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}
	if err := e.repos.Invoices.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	e.log.Info().Str("tenant_id", tenantID).Str("invoice_id", id).Str("status", status).Msg("invoice status changed")
	e.pub.publish(ctx, tenantID, id, EventInvoiceStatusChanged)
	return e.Get(ctx, tenantID, id)
}

// Get obtiene una factura del tenant con sus líneas.
func (e *InvoiceEngine) Get(ctx context.Context, tenantID, id string) (*dto.InvoiceResponse, error) {
	inv, err := e.repos.Invoices.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := e.repos.Invoices.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	name := ""
	if c, err := e.repos.Customers.GetByID(ctx, tenantID, inv.CustomerID); err == nil && c != nil {
		name = c.Name
	}
	return toInvoiceResponse(inv, name, items), nil
}

// List lista facturas del tenant (sin líneas), de la más reciente a la más antigua.
func (e *InvoiceEngine) List(ctx context.Context, tenantID, invoiceType, status string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := e.repos.Invoices.List(ctx, repository.InvoiceFilter{
		TenantID: tenantID,
		Type:     strings.ToUpper(invoiceType),
		Status:   strings.ToUpper(status),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		name, ok := names[inv.CustomerID]
		if !ok {
			if c, err := e.repos.Customers.GetByID(ctx, tenantID, inv.CustomerID); err == nil && c != nil {
				name = c.Name
			}
			names[inv.CustomerID] = name
		}
		out = append(out, toInvoiceResponse(inv, name, nil))
	}
	return out, nil
}

// prepare valida la cabecera fuera de la transacción (solo lecturas) y devuelve la factura
// sin ID, número ni tipo.
func (e *InvoiceEngine) prepare(ctx context.Context, tenantID string, h header) (*entity.Invoice, *entity.Customer, error) {
	if h.CustomerID == "" {
		return nil, nil, fmt.Errorf("cliente requerido: %w", domain.ErrInvalidInput)
	}
	customer, err := e.repos.Customers.GetByID(ctx, tenantID, h.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, fmt.Errorf("cliente %s: %w", h.CustomerID, domain.ErrNotFound)
	}

	base, err := e.tenantCurrency(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	currency, rate, err := inventory.NormalizeCurrency(h.Currency, h.ExchangeRate, base)
	if err != nil {
		return nil, nil, err
	}
	if currency != base {
		if err := e.gate.RequireFeature(ctx, tenantID, entity.FeatureMultiCurrency); err != nil {
			return nil, nil, err
		}
	}

	now := e.now()
	date := h.Date
	if date.IsZero() {
		date = now
	}
	if h.DueDate != nil && h.DueDate.Before(date) {
		return nil, nil, fmt.Errorf("vencimiento anterior a la fecha: %w", domain.ErrInvalidInput)
	}
	return &entity.Invoice{
		TenantID:                 tenantID,
		CustomerID:               customer.ID,
		Date:                     date,
		DueDate:                  h.DueDate,
		Currency:                 currency,
		ExchangeRate:             rate,
		DocumentNumber:           strings.TrimSpace(h.DocumentNumber),
		CustomsDeclarationNumber: strings.TrimSpace(h.CustomsDeclarationNumber),
		Note:                     h.Note,
		UpdatedAt:                now,
	}, customer, nil
}

func (e *InvoiceEngine) tenantCurrency(ctx context.Context, tenantID string) (string, error) {
	t, err := e.repos.Tenants.GetByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", domain.ErrNotFound
	}
	if t.BaseCurrency != "" {
		return t.BaseCurrency, nil
	}
	return e.baseCurrency, nil
}

// applyItems inserta cada línea y aplica su efecto de stock (SALE o PURCHASE).
func (e *InvoiceEngine) applyItems(ctx context.Context, repos repository.TxRepos, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	note := fmt.Sprintf("factura #%d", inv.Number)
	for _, it := range items {
		if err := repos.Invoices.CreateItem(ctx, it); err != nil {
			return err
		}
		if _, err := e.stock.ApplyInTx(ctx, repos, inv.TenantID, inventory.Movement{
			ProductID:    it.ProductID,
			Change:       inv.StockSign() * it.Quantity,
			Type:         inv.LogType(),
			ReferenceID:  inv.ID,
			UnitPrice:    it.Price,
			Currency:     inv.Currency,
			ExchangeRate: inv.ExchangeRate,
			Note:         note,
		}); err != nil {
			return err
		}
	}
	return nil
}

// reverseItems deshace el efecto de stock de items y lo deja en el kardex como CANCEL.
func (e *InvoiceEngine) reverseItems(ctx context.Context, repos repository.TxRepos, inv *entity.Invoice, items []*entity.InvoiceItem, note string) error {
	for _, it := range items {
		if _, err := e.stock.ApplyInTx(ctx, repos, inv.TenantID, inventory.Movement{
			ProductID:    it.ProductID,
			Change:       -inv.StockSign() * it.Quantity,
			Type:         entity.LogTypeCancel,
			ReferenceID:  inv.ID,
			UnitPrice:    it.Price,
			Currency:     inv.Currency,
			ExchangeRate: inv.ExchangeRate,
			Note:         note,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateItems(items []dto.InvoiceItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("la factura necesita al menos una línea: %w", domain.ErrInvalidInput)
	}
	for i, it := range items {
		switch {
		case it.ProductID == "":
			return fmt.Errorf("línea %d: producto requerido: %w", i+1, domain.ErrInvalidInput)
		case it.Quantity <= 0:
			return fmt.Errorf("línea %d: cantidad debe ser positiva: %w", i+1, domain.ErrInvalidInput)
		case it.Price.IsNegative():
			return fmt.Errorf("línea %d: precio negativo: %w", i+1, domain.ErrInvalidInput)
		case !ledger.ValidVATRate(it.VATRate):
			return fmt.Errorf("línea %d: iva fuera de rango 0..100: %w", i+1, domain.ErrInvalidInput)
		}
	}
	return nil
}

func validateLines(lines []dto.PurchaseLineRequest) error {
	if len(lines) == 0 {
		return fmt.Errorf("la compra necesita al menos una línea: %w", domain.ErrInvalidInput)
	}
	for i, l := range lines {
		switch {
		case strings.TrimSpace(l.ProductName) == "":
			return fmt.Errorf("línea %d: nombre de producto requerido: %w", i+1, domain.ErrInvalidInput)
		case l.Quantity <= 0:
			return fmt.Errorf("línea %d: cantidad debe ser positiva: %w", i+1, domain.ErrInvalidInput)
		case l.Price.IsNegative() || l.BuyPrice.IsNegative():
			return fmt.Errorf("línea %d: precio negativo: %w", i+1, domain.ErrInvalidInput)
		case !ledger.ValidVATRate(l.VATRate):
			return fmt.Errorf("línea %d: iva fuera de rango 0..100: %w", i+1, domain.ErrInvalidInput)
		}
	}
	return nil
}

func headerFromInvoice(in dto.InvoiceRequest) header {
	return header{
		CustomerID:               in.CustomerID,
		Date:                     in.Date,
		DueDate:                  in.DueDate,
		Currency:                 in.Currency,
		ExchangeRate:             in.ExchangeRate,
		DocumentNumber:           in.DocumentNumber,
		CustomsDeclarationNumber: in.CustomsDeclarationNumber,
		Note:                     in.Note,
	}
}

func headerFromPurchase(in dto.PurchaseRequest) header {
	return header{
		CustomerID:               in.SupplierID,
		Date:                     in.Date,
		DueDate:                  in.DueDate,
		Currency:                 in.Currency,
		ExchangeRate:             in.ExchangeRate,
		DocumentNumber:           in.DocumentNumber,
		CustomsDeclarationNumber: in.CustomsDeclarationNumber,
		Note:                     in.Note,
	}
}

func buildItems(invoiceID string, in []dto.InvoiceItemRequest) []*entity.InvoiceItem {
	items := make([]*entity.InvoiceItem, 0, len(in))
	for _, it := range in {
		items = append(items, &entity.InvoiceItem{
			ID:        uuid.New().String(),
			InvoiceID: invoiceID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			VATRate:   it.VATRate,
		})
	}
	return items
}

func setTotals(inv *entity.Invoice, items []*entity.InvoiceItem) {
	t := ledger.ComputeTotals(items)
	inv.NetTotal = t.Net
	inv.TaxTotal = t.Tax
	inv.GrandTotal = t.Grand
}

func productIDs(items []*entity.InvoiceItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func toInvoiceResponse(inv *entity.Invoice, customerName string, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                       inv.ID,
		TenantID:                 inv.TenantID,
		CustomerID:               inv.CustomerID,
		CustomerName:             customerName,
		Number:                   inv.Number,
		Type:                     inv.Type,
		Status:                   inv.Status,
		Date:                     inv.Date.Format(dateLayout),
		Currency:                 inv.Currency,
		ExchangeRate:             inv.ExchangeRate,
		DocumentNumber:           inv.DocumentNumber,
		CustomsDeclarationNumber: inv.CustomsDeclarationNumber,
		Note:                     inv.Note,
		NetTotal:                 inv.NetTotal,
		TaxTotal:                 inv.TaxTotal,
		GrandTotal:               inv.GrandTotal,
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format(dateLayout)
	}
	for _, it := range items {
		line := ledger.LineTotal(it.Price, it.Quantity)
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			VATRate:   it.VATRate,
			LineTotal: line,
			LineTax:   ledger.LineTax(line, it.VATRate),
		})
	}
	return resp
}
