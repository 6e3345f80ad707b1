package repository

import (
	"context"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Search busca por nombre normalizado (sin acentos, case-insensitive).
	Search(ctx context.Context, tenantID, query string, limit, offset int) ([]*entity.Product, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, tenantID, id string) error
}
