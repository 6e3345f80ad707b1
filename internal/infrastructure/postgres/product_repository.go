package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
	"github.com/gestock-saas/gestock-api/pkg/normalize"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
// name_normalized guarda el nombre sin acentos y en minúsculas para que la
// búsqueda sea insensible a ambos sin funciones de servidor.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, sku, name, price, cost, created_at, updated_at`

// Create persiste un producto. SKU duplicado en el tenant -> domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `, name_normalized)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.SKU, p.Name, p.Price, p.Cost, p.CreatedAt, p.UpdatedAt,
		normalize.Text(p.Name),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del tenant, o (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, query, tenantID, id)
}

// GetBySKU obtiene un producto por SKU dentro del tenant.
func (r *ProductRepo) GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND sku = $2`
	return r.getOne(ctx, query, tenantID, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Price, &p.Cost, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza nombre, precio y costo. SKU es inmutable.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $3, name_normalized = $4, price = $5, cost = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		p.TenantID, p.ID, p.Name, normalize.Text(p.Name), p.Price, p.Cost, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Search busca por nombre normalizado; query ya viene normalizado del caller.
func (r *ProductRepo) Search(ctx context.Context, tenantID, query string, limit, offset int) ([]*entity.Product, error) {
	sql := `SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND name_normalized LIKE '%' || $2 || '%'
		ORDER BY name LIMIT $3 OFFSET $4`
	return r.list(ctx, sql, tenantID, query, limit, offset)
}

// ListByTenant lista el catálogo del tenant con paginación.
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	sql := `SELECT ` + productColumns + `
		FROM products WHERE tenant_id = $1
		ORDER BY sku LIMIT $2 OFFSET $3`
	return r.list(ctx, sql, tenantID, limit, offset)
}

func (r *ProductRepo) list(ctx context.Context, sql string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Price, &p.Cost, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina un producto del tenant.
func (r *ProductRepo) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
