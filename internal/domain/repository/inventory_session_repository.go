package repository

import (
	"context"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
)

// InventorySessionRepository puerto de persistencia para sesiones de conteo.
// Las sesiones son inmutables una vez creadas; lo único que cambia es la
// marca CommittedAt al conciliar.
type InventorySessionRepository interface {
	Create(ctx context.Context, s *entity.InventorySession) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.InventorySession, error)
	// GetByIDForUpdate bloquea la sesión para que la conciliación sea única.
	GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.InventorySession, error)
	MarkCommitted(ctx context.Context, s *entity.InventorySession) error
	ListByBoutique(ctx context.Context, tenantID, boutiqueID string, limit, offset int) ([]*entity.InventorySession, error)
}
