package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// name_key guarda el nombre plegado (ledger.NameKey) y es único por tenant.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, name, price, buy_price, stock, vat_rate, unit, currency, exchange_rate, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var unit *string
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Price, &p.BuyPrice, &p.Stock, &p.VATRate,
		&unit, &p.Currency, &p.ExchangeRate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Unit = stringOrEmpty(unit)
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, tenant_id, name, name_key, price, buy_price, stock, vat_rate, unit, currency, exchange_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		product.ID, product.TenantID, product.Name, ledger.NameKey(product.Name),
		product.Price, product.BuyPrice, product.Stock, product.VATRate, nullIfEmpty(product.Unit),
		product.Currency, product.ExchangeRate, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) CreateIfAbsent(ctx context.Context, product *entity.Product) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO products (id, tenant_id, name, name_key, price, buy_price, stock, vat_rate, unit, currency, exchange_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tenant_id, name_key) DO NOTHING`,
		product.ID, product.TenantID, product.Name, ledger.NameKey(product.Name),
		product.Price, product.BuyPrice, product.Stock, product.VATRate, nullIfEmpty(product.Unit),
		product.Currency, product.ExchangeRate, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert product: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID)
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID)
}

func (r *ProductRepo) GetByName(ctx context.Context, tenantID, name string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND name_key = $2`,
		tenantID, ledger.NameKey(name))
}

func (r *ProductRepo) GetByNameForUpdate(ctx context.Context, tenantID, name string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND name_key = $2 FOR UPDATE`,
		tenantID, ledger.NameKey(name))
}

// UpdateStock escribe el stock absoluto; solo lo llama el aplicador de movimientos con la fila bloqueada.
func (r *ProductRepo) UpdateStock(ctx context.Context, tenantID, id string, stock int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $3, updated_at = now() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, stock)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) UpdatePricing(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET price = $3, buy_price = $4, currency = $5, exchange_rate = $6, updated_at = $7
		WHERE id = $1 AND tenant_id = $2`,
		product.ID, product.TenantID, product.Price, product.BuyPrice, product.Currency, product.ExchangeRate, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product pricing: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista productos por tenant ordenados por nombre. limit <= 0 devuelve todos.
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE tenant_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`,
		tenantID, limitOrNil(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
