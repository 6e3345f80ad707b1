package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

var _ repository.StockLineRepository = (*StockLineRepo)(nil)

// StockLineRepo implementación de StockLineRepository sobre PostgreSQL (usable con pool o tx).
type StockLineRepo struct {
	q Querier
}

// NewStockLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLineRepository(q Querier) *StockLineRepo {
	return &StockLineRepo{q: q}
}

// Get obtiene la línea actual; una clave sin fila equivale a cantidad cero.
func (r *StockLineRepo) Get(ctx context.Context, tenantID, boutiqueID, productID string) (*entity.StockLine, error) {
	query := `
		SELECT tenant_id, boutique_id, product_id, quantity, updated_at
		FROM stock_lines
		WHERE tenant_id = $1 AND boutique_id = $2 AND product_id = $3`
	var l entity.StockLine
	err := r.q.QueryRow(ctx, query, tenantID, boutiqueID, productID).Scan(
		&l.TenantID, &l.BoutiqueID, &l.ProductID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLine{TenantID: tenantID, BoutiqueID: boutiqueID, ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get stock line: %w", err)
	}
	return &l, nil
}

// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
// Una clave sin fila se siembra en cero antes del SELECT: un FOR UPDATE
// sobre una fila inexistente no bloquea nada, y dos primeras escrituras
// concurrentes leerían ambas cero y la segunda pisaría a la primera. Con la
// siembra, el primero que inserta gana y el resto se encola en su fila.
func (r *StockLineRepo) GetForUpdate(ctx context.Context, tenantID, boutiqueID, productID string) (*entity.StockLine, error) {
	seed := `
		INSERT INTO stock_lines (tenant_id, boutique_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (tenant_id, boutique_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, seed, tenantID, boutiqueID, productID); err != nil {
		return nil, fmt.Errorf("seed stock line: %w", err)
	}
	query := `
		SELECT tenant_id, boutique_id, product_id, quantity, updated_at
		FROM stock_lines
		WHERE tenant_id = $1 AND boutique_id = $2 AND product_id = $3
		FOR UPDATE`
	var l entity.StockLine
	err := r.q.QueryRow(ctx, query, tenantID, boutiqueID, productID).Scan(
		&l.TenantID, &l.BoutiqueID, &l.ProductID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock line for update: %w", err)
	}
	return &l, nil
}

// Upsert inserta o actualiza la cantidad de la clave.
func (r *StockLineRepo) Upsert(ctx context.Context, line *entity.StockLine) error {
	query := `
		INSERT INTO stock_lines (tenant_id, boutique_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, boutique_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, line.TenantID, line.BoutiqueID, line.ProductID, line.Quantity, line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock line: %w", err)
	}
	return nil
}

// ListByBoutique instantánea de cantidades por producto de una boutique.
func (r *StockLineRepo) ListByBoutique(ctx context.Context, tenantID, boutiqueID string) ([]*entity.StockLine, error) {
	query := `
		SELECT tenant_id, boutique_id, product_id, quantity, updated_at
		FROM stock_lines
		WHERE tenant_id = $1 AND boutique_id = $2
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, tenantID, boutiqueID)
	if err != nil {
		return nil, fmt.Errorf("list stock lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLine
	for rows.Next() {
		var l entity.StockLine
		if err := rows.Scan(&l.TenantID, &l.BoutiqueID, &l.ProductID, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
