package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
	"github.com/gestock-saas/gestock-api/pkg/normalize"
)

// ProductUseCase casos de uso CRUD para el catálogo del tenant.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. SKU único por tenant (ErrDuplicate si ya existe).
func (uc *ProductUseCase) Create(ctx context.Context, p authz.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionProductWrite, authz.Scope{TenantID: p.TenantID}, now); err != nil {
		return nil, err
	}
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	product := &entity.Product{
		ID:        uuid.New().String(),
		TenantID:  p.TenantID,
		SKU:       in.SKU,
		Name:      in.Name,
		Price:     in.Price,
		Cost:      in.Cost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, p authz.Principal, id string) (*dto.ProductResponse, error) {
	if err := authz.Check(p, authz.ActionProductRead, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, p authz.Principal, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := authz.Check(p, authz.ActionProductWrite, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del tenant; con query no vacío busca por nombre
// normalizado (sin acentos, case-insensitive).
func (uc *ProductUseCase) List(ctx context.Context, p authz.Principal, query string, limit, offset int) (*dto.ProductListResponse, error) {
	if err := authz.Check(p, authz.ActionProductRead, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return nil, err
	}
	var list []*entity.Product
	var err error
	if q := normalize.Text(query); q != "" {
		list, err = uc.repo.Search(ctx, p.TenantID, q, limit, offset)
	} else {
		list, err = uc.repo.ListByTenant(ctx, p.TenantID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, pr := range list {
		items = append(items, *toProductResponse(pr))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto del tenant.
func (uc *ProductUseCase) Delete(ctx context.Context, p authz.Principal, id string) error {
	if err := authz.Check(p, authz.ActionProductWrite, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, p.TenantID, id)
}

func toProductResponse(pr *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        pr.ID,
		SKU:       pr.SKU,
		Name:      pr.Name,
		Price:     pr.Price,
		Cost:      pr.Cost,
		CreatedAt: pr.CreatedAt,
		UpdatedAt: pr.UpdatedAt,
	}
}
