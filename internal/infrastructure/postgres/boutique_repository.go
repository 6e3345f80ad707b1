package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

var _ repository.BoutiqueRepository = (*BoutiqueRepo)(nil)

// BoutiqueRepo implementación de BoutiqueRepository sobre PostgreSQL.
type BoutiqueRepo struct {
	q Querier
}

// NewBoutiqueRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBoutiqueRepository(q Querier) *BoutiqueRepo {
	return &BoutiqueRepo{q: q}
}

// Create persiste una boutique.
func (r *BoutiqueRepo) Create(ctx context.Context, b *entity.Boutique) error {
	query := `
		INSERT INTO boutiques (id, tenant_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, b.ID, b.TenantID, b.Name, b.Address, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert boutique: %w", err)
	}
	return nil
}

// GetByID obtiene una boutique del tenant, o (nil, nil) si no existe.
func (r *BoutiqueRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Boutique, error) {
	query := `
		SELECT id, tenant_id, name, address, created_at, updated_at
		FROM boutiques WHERE tenant_id = $1 AND id = $2`
	var b entity.Boutique
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&b.ID, &b.TenantID, &b.Name, &b.Address, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get boutique: %w", err)
	}
	return &b, nil
}

// Update actualiza nombre y dirección.
func (r *BoutiqueRepo) Update(ctx context.Context, b *entity.Boutique) error {
	query := `
		UPDATE boutiques SET name = $3, address = $4, updated_at = $5
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, b.TenantID, b.ID, b.Name, b.Address, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update boutique: %w", err)
	}
	return nil
}

// ListByTenant lista boutiques del tenant con paginación.
func (r *BoutiqueRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Boutique, error) {
	query := `
		SELECT id, tenant_id, name, address, created_at, updated_at
		FROM boutiques WHERE tenant_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list boutiques: %w", err)
	}
	defer rows.Close()
	var list []*entity.Boutique
	for rows.Next() {
		var b entity.Boutique
		if err := rows.Scan(&b.ID, &b.TenantID, &b.Name, &b.Address, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan boutique: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Delete elimina una boutique del tenant.
func (r *BoutiqueRepo) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM boutiques WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete boutique: %w", err)
	}
	return nil
}
