package postgres

import (
	"context"
	"fmt"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

var _ repository.StockAuditRepository = (*StockAuditRepo)(nil)

// StockAuditRepo implementación del libro de auditoría sobre PostgreSQL.
// La tabla no tiene UPDATE ni DELETE en ningún camino de código.
type StockAuditRepo struct {
	q Querier
}

// NewStockAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAuditRepository(q Querier) *StockAuditRepo {
	return &StockAuditRepo{q: q}
}

// Append agrega una entrada al libro.
func (r *StockAuditRepo) Append(ctx context.Context, e *entity.StockAuditEntry) error {
	query := `
		INSERT INTO stock_audit_entries
			(id, tenant_id, boutique_id, product_id, delta, reason, actor_user_id, ref_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TenantID, e.BoutiqueID, e.ProductID, e.Delta, e.Reason, e.ActorUserID, e.RefID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListByKey entradas más recientes primero.
func (r *StockAuditRepo) ListByKey(ctx context.Context, tenantID, boutiqueID, productID string, limit int) ([]*entity.StockAuditEntry, error) {
	query := `
		SELECT id, tenant_id, boutique_id, product_id, delta, reason, actor_user_id, ref_id, created_at
		FROM stock_audit_entries
		WHERE tenant_id = $1 AND boutique_id = $2 AND product_id = $3
		ORDER BY created_at DESC, id DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, tenantID, boutiqueID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAuditEntry
	for rows.Next() {
		var e entity.StockAuditEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.BoutiqueID, &e.ProductID,
			&e.Delta, &e.Reason, &e.ActorUserID, &e.RefID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumDeltas reconstruye la cantidad de la clave desde el origen del libro.
func (r *StockAuditRepo) SumDeltas(ctx context.Context, tenantID, boutiqueID, productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM stock_audit_entries
		WHERE tenant_id = $1 AND boutique_id = $2 AND product_id = $3`
	var sum int64
	if err := r.q.QueryRow(ctx, query, tenantID, boutiqueID, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum audit deltas: %w", err)
	}
	return sum, nil
}
