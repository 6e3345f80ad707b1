package repository

import (
	"context"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
)

// StockAuditRepository puerto del libro de auditoría append-only.
// No existen Update ni Delete a propósito: las correcciones son entradas
// nuevas con delta inverso.
type StockAuditRepository interface {
	Append(ctx context.Context, e *entity.StockAuditEntry) error
	// ListByKey entradas más recientes primero (created_at DESC, id DESC).
	ListByKey(ctx context.Context, tenantID, boutiqueID, productID string, limit int) ([]*entity.StockAuditEntry, error)
	// SumDeltas suma todos los deltas de la clave: reconstruye la cantidad
	// desde el origen del libro.
	SumDeltas(ctx context.Context, tenantID, boutiqueID, productID string) (int64, error)
}
