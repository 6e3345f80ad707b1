package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

var _ repository.InventorySessionRepository = (*InventorySessionRepo)(nil)

// InventorySessionRepo implementación de InventorySessionRepository sobre
// PostgreSQL. Cabecera en inventory_sessions, líneas en
// inventory_session_items; ambas inmutables salvo committed_at.
type InventorySessionRepo struct {
	q Querier
}

// NewInventorySessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventorySessionRepository(q Querier) *InventorySessionRepo {
	return &InventorySessionRepo{q: q}
}

const sessionColumns = `id, tenant_id, boutique_id, total_delta, total_value_delta,
	created_at, created_by, committed_at`

// Create persiste cabecera y líneas de la sesión.
func (r *InventorySessionRepo) Create(ctx context.Context, s *entity.InventorySession) error {
	query := `
		INSERT INTO inventory_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.TenantID, s.BoutiqueID, s.TotalDelta, s.TotalValueDelta,
		s.CreatedAt, s.CreatedBy, s.CommittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory session: %w", err)
	}
	for i, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO inventory_session_items
				(session_id, position, product_id, expected, counted, delta, unit_price, value_delta)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			s.ID, i, it.ProductID, it.Expected, it.Counted, it.Delta, it.UnitPrice, it.ValueDelta,
		)
		if err != nil {
			return fmt.Errorf("insert inventory session item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una sesión del tenant, o (nil, nil) si no existe.
func (r *InventorySessionRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.InventorySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM inventory_sessions WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, query, tenantID, id)
}

// GetByIDForUpdate igual que GetByID con la cabecera bloqueada, para que la
// conciliación ocurra a lo sumo una vez.
func (r *InventorySessionRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.InventorySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM inventory_sessions WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, query, tenantID, id)
}

func (r *InventorySessionRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InventorySession, error) {
	var s entity.InventorySession
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.TenantID, &s.BoutiqueID, &s.TotalDelta, &s.TotalValueDelta,
		&s.CreatedAt, &s.CreatedBy, &s.CommittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory session: %w", err)
	}
	if err := r.loadItems(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *InventorySessionRepo) loadItems(ctx context.Context, s *entity.InventorySession) error {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, expected, counted, delta, unit_price, value_delta
		FROM inventory_session_items WHERE session_id = $1 ORDER BY position`,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("list inventory session items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InventorySessionItem
		if err := rows.Scan(&it.ProductID, &it.Expected, &it.Counted, &it.Delta, &it.UnitPrice, &it.ValueDelta); err != nil {
			return fmt.Errorf("scan inventory session item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return rows.Err()
}

// MarkCommitted persiste la marca de conciliación.
func (r *InventorySessionRepo) MarkCommitted(ctx context.Context, s *entity.InventorySession) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE inventory_sessions SET committed_at = $3 WHERE tenant_id = $1 AND id = $2`,
		s.TenantID, s.ID, s.CommittedAt,
	)
	if err != nil {
		return fmt.Errorf("mark session committed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByBoutique lista sesiones de una boutique, más recientes primero.
func (r *InventorySessionRepo) ListByBoutique(ctx context.Context, tenantID, boutiqueID string, limit, offset int) ([]*entity.InventorySession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM inventory_sessions WHERE tenant_id = $1 AND boutique_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, boutiqueID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventorySession
	for rows.Next() {
		var s entity.InventorySession
		if err := rows.Scan(&s.ID, &s.TenantID, &s.BoutiqueID, &s.TotalDelta, &s.TotalValueDelta,
			&s.CreatedAt, &s.CreatedBy, &s.CommittedAt); err != nil {
			return nil, fmt.Errorf("scan inventory session: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadItems(ctx, s); err != nil {
			return nil, err
		}
	}
	return list, nil
}
