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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL.
// Cabecera en transfers, líneas en transfer_items. El índice único
// (tenant_id, token) garantiza la unicidad del token de entrega.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, tenant_id, source_boutique_id, dest_boutique_id, reference, token,
	status, created_at, created_by, sent_at, received_at, cancelled_at`

// Create persiste cabecera y líneas. Colisión de token -> domain.ErrDuplicate.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.SourceBoutiqueID, t.DestBoutiqueID, t.Reference, t.Token,
		t.Status, t.CreatedAt, t.CreatedBy, t.SentAt, t.ReceivedAt, t.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	for i, it := range t.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO transfer_items (transfer_id, position, product_id, quantity) VALUES ($1, $2, $3, $4)`,
			t.ID, i, it.ProductID, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un traslado del tenant, o (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, query, tenantID, id)
}

// GetByIDForUpdate igual que GetByID pero bloquea la cabecera (FOR UPDATE)
// para serializar transiciones de estado concurrentes.
func (r *TransferRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, query, tenantID, id)
}

// GetByTokenForUpdate resuelve el token dentro del tenant, con la cabecera
// bloqueada. Token ajeno o inexistente -> (nil, nil).
func (r *TransferRepo) GetByTokenForUpdate(ctx context.Context, tenantID, token string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE tenant_id = $1 AND token = $2 FOR UPDATE`
	return r.getOne(ctx, query, tenantID, token)
}

func (r *TransferRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Transfer, error) {
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.TenantID, &t.SourceBoutiqueID, &t.DestBoutiqueID, &t.Reference, &t.Token,
		&t.Status, &t.CreatedAt, &t.CreatedBy, &t.SentAt, &t.ReceivedAt, &t.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadItems(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransferRepo) loadItems(ctx context.Context, t *entity.Transfer) error {
	rows, err := r.q.Query(ctx,
		`SELECT product_id, quantity FROM transfer_items WHERE transfer_id = $1 ORDER BY position`,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.TransferItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return fmt.Errorf("scan transfer item: %w", err)
		}
		t.Items = append(t.Items, it)
	}
	return rows.Err()
}

// UpdateStatus persiste estado y marcas de tiempo del ciclo de vida.
// Las líneas son inmutables después de Create.
func (r *TransferRepo) UpdateStatus(ctx context.Context, t *entity.Transfer) error {
	query := `
		UPDATE transfers
		SET status = $3, sent_at = $4, received_at = $5, cancelled_at = $6
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query, t.TenantID, t.ID, t.Status, t.SentAt, t.ReceivedAt, t.CancelledAt)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista traslados del tenant, más recientes primero.
func (r *TransferRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + `
		FROM transfers WHERE tenant_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(&t.ID, &t.TenantID, &t.SourceBoutiqueID, &t.DestBoutiqueID, &t.Reference, &t.Token,
			&t.Status, &t.CreatedAt, &t.CreatedBy, &t.SentAt, &t.ReceivedAt, &t.CancelledAt); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadItems(ctx, t); err != nil {
			return nil, err
		}
	}
	return list, nil
}
