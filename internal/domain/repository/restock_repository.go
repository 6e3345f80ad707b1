package repository

import (
	"context"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
)

// RestockRepository puerto de persistencia para solicitudes de reabastecimiento.
type RestockRepository interface {
	Create(ctx context.Context, r *entity.RestockRequest) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.RestockRequest, error)
	// GetByIDForUpdate bloquea la solicitud para serializar decisiones y
	// fulfillments concurrentes.
	GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.RestockRequest, error)
	Update(ctx context.Context, r *entity.RestockRequest) error
	ListByBoutique(ctx context.Context, tenantID, boutiqueID string, limit, offset int) ([]*entity.RestockRequest, error)
}
