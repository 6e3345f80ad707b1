package repository

import (
	"context"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
)

// BoutiqueRepository puerto de persistencia para boutiques (DIP).
type BoutiqueRepository interface {
	Create(ctx context.Context, b *entity.Boutique) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Boutique, error)
	Update(ctx context.Context, b *entity.Boutique) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Boutique, error)
	Delete(ctx context.Context, tenantID, id string) error
}
