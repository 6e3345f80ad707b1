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

var _ repository.RestockRepository = (*RestockRepo)(nil)

// RestockRepo implementación de RestockRepository sobre PostgreSQL.
type RestockRepo struct {
	q Querier
}

// NewRestockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRestockRepository(q Querier) *RestockRepo {
	return &RestockRepo{q: q}
}

const restockColumns = `id, tenant_id, boutique_id, product_id, quantity, status,
	created_at, created_by, decided_at, decided_by, fulfilled_at`

// Create persiste la solicitud.
func (r *RestockRepo) Create(ctx context.Context, req *entity.RestockRequest) error {
	query := `
		INSERT INTO restock_requests (` + restockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.TenantID, req.BoutiqueID, req.ProductID, req.Quantity, req.Status,
		req.CreatedAt, req.CreatedBy, req.DecidedAt, req.DecidedBy, req.FulfilledAt,
	)
	if err != nil {
		return fmt.Errorf("insert restock request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud del tenant, o (nil, nil) si no existe.
func (r *RestockRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.RestockRequest, error) {
	query := `SELECT ` + restockColumns + ` FROM restock_requests WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, query, tenantID, id)
}

// GetByIDForUpdate igual que GetByID con la fila bloqueada, para que decidir
// y cumplir sean transiciones serializadas.
func (r *RestockRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.RestockRequest, error) {
	query := `SELECT ` + restockColumns + ` FROM restock_requests WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, query, tenantID, id)
}

func (r *RestockRepo) getOne(ctx context.Context, query string, args ...any) (*entity.RestockRequest, error) {
	var req entity.RestockRequest
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&req.ID, &req.TenantID, &req.BoutiqueID, &req.ProductID, &req.Quantity, &req.Status,
		&req.CreatedAt, &req.CreatedBy, &req.DecidedAt, &req.DecidedBy, &req.FulfilledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get restock request: %w", err)
	}
	return &req, nil
}

// Update persiste estado y marcas de decisión/cumplimiento.
func (r *RestockRepo) Update(ctx context.Context, req *entity.RestockRequest) error {
	query := `
		UPDATE restock_requests
		SET status = $3, decided_at = $4, decided_by = $5, fulfilled_at = $6
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		req.TenantID, req.ID, req.Status, req.DecidedAt, req.DecidedBy, req.FulfilledAt,
	)
	if err != nil {
		return fmt.Errorf("update restock request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByBoutique lista solicitudes de una boutique, más recientes primero.
func (r *RestockRepo) ListByBoutique(ctx context.Context, tenantID, boutiqueID string, limit, offset int) ([]*entity.RestockRequest, error) {
	query := `SELECT ` + restockColumns + `
		FROM restock_requests WHERE tenant_id = $1 AND boutique_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, boutiqueID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list restock requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.RestockRequest
	for rows.Next() {
		var req entity.RestockRequest
		if err := rows.Scan(&req.ID, &req.TenantID, &req.BoutiqueID, &req.ProductID, &req.Quantity, &req.Status,
			&req.CreatedAt, &req.CreatedBy, &req.DecidedAt, &req.DecidedBy, &req.FulfilledAt); err != nil {
			return nil, fmt.Errorf("scan restock request: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}
