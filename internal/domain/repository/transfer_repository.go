package repository

import (
	"context"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
)

// TransferRepository puerto de persistencia para traslados entre boutiques.
// Todas las búsquedas se acotan por tenant: un token o ID de otro tenant se
// comporta como inexistente (nil, nil), sin filtrar información.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	// GetByIDForUpdate bloquea el registro para serializar transiciones de
	// estado concurrentes (doble send / doble receive).
	GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	// GetByTokenForUpdate resuelve el token de entrega dentro del tenant.
	GetByTokenForUpdate(ctx context.Context, tenantID, token string) (*entity.Transfer, error)
	// UpdateStatus persiste estado y marcas de tiempo del ciclo de vida.
	UpdateStatus(ctx context.Context, t *entity.Transfer) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Transfer, error)
}
