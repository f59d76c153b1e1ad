package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, tenant_id, customer_id, number, type, status, date, due_date, currency, exchange_rate,
	document_number, customs_declaration_number, note, net_total, tax_total, grand_total, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var docNumber, customs, note *string
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.CustomerID, &inv.Number, &inv.Type, &inv.Status,
		&inv.Date, &inv.DueDate, &inv.Currency, &inv.ExchangeRate, &docNumber, &customs, &note,
		&inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.DocumentNumber, inv.CustomsDeclarationNumber, inv.Note = stringOrEmpty(docNumber), stringOrEmpty(customs), stringOrEmpty(note)
	return &inv, nil
}

// NextNumber incrementa el contador del tenant. El UPSERT deja la fila bloqueada hasta el fin de la
// transacción; si la transacción se revierte, el número vuelve a estar disponible.
func (r *InvoiceRepo) NextNumber(ctx context.Context, tenantID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO tenant_invoice_counters (tenant_id, last_number) VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET last_number = tenant_invoice_counters.last_number + 1
		RETURNING last_number`, tenantID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		inv.ID, inv.TenantID, inv.CustomerID, inv.Number, inv.Type, inv.Status, inv.Date, inv.DueDate,
		inv.Currency, inv.ExchangeRate, nullIfEmpty(inv.DocumentNumber), nullIfEmpty(inv.CustomsDeclarationNumber),
		nullIfEmpty(inv.Note), inv.NetTotal, inv.TaxTotal, inv.GrandTotal, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %d already exists: %w", inv.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoice_items (id, invoice_id, product_id, quantity, price, vat_rate)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.InvoiceID, item.ProductID, item.Quantity, item.Price, item.VATRate,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Invoice, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND tenant_id = $2`, id, tenantID)
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Invoice, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID)
}

func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, quantity, price, vat_rate
		FROM invoice_items WHERE invoice_id = $1 ORDER BY seq`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Quantity, &it.Price, &it.VATRate); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// UpdateHeader reescribe la cabecera editable. number, type, status y created_at no cambian.
func (r *InvoiceRepo) UpdateHeader(ctx context.Context, inv *entity.Invoice) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET customer_id = $3, date = $4, due_date = $5, currency = $6, exchange_rate = $7,
		    document_number = $8, customs_declaration_number = $9, note = $10,
		    net_total = $11, tax_total = $12, grand_total = $13, updated_at = $14
		WHERE id = $1 AND tenant_id = $2`,
		inv.ID, inv.TenantID, inv.CustomerID, inv.Date, inv.DueDate, inv.Currency, inv.ExchangeRate,
		nullIfEmpty(inv.DocumentNumber), nullIfEmpty(inv.CustomsDeclarationNumber), nullIfEmpty(inv.Note),
		inv.NetTotal, inv.TaxTotal, inv.GrandTotal, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, tenantID, id, status string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $3, updated_at = now() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// Delete borra la cabecera; las líneas y abonos deben haberse borrado antes (llaves foráneas).
func (r *InvoiceRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete invoice: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por tipo y estado (vacío = todos), más reciente primero.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE tenant_id = $1 AND ($2 = '' OR type = $2) AND ($3 = '' OR status = $3)
		ORDER BY number DESC LIMIT $4 OFFSET $5`,
		f.TenantID, f.Type, f.Status, limitOrNil(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) ListIDsByCustomer(ctx context.Context, tenantID, customerID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id FROM invoices WHERE tenant_id = $1 AND customer_id = $2 ORDER BY id`, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer invoices: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan invoice id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *InvoiceRepo) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM invoices WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}
