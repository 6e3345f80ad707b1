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
)

// BoutiqueUseCase casos de uso CRUD para boutiques del tenant.
type BoutiqueUseCase struct {
	repo repository.BoutiqueRepository
}

// NewBoutiqueUseCase construye el caso de uso.
func NewBoutiqueUseCase(repo repository.BoutiqueRepository) *BoutiqueUseCase {
	return &BoutiqueUseCase{repo: repo}
}

// Create crea una nueva boutique.
func (uc *BoutiqueUseCase) Create(ctx context.Context, p authz.Principal, in dto.CreateBoutiqueRequest) (*dto.BoutiqueResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionBoutiqueWrite, authz.Scope{TenantID: p.TenantID}, now); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	b := &entity.Boutique{
		ID:        uuid.New().String(),
		TenantID:  p.TenantID,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBoutiqueResponse(b), nil
}

// GetByID obtiene una boutique del tenant.
func (uc *BoutiqueUseCase) GetByID(ctx context.Context, p authz.Principal, id string) (*dto.BoutiqueResponse, error) {
	if err := authz.Check(p, authz.ActionBoutiqueRead, authz.Scope{TenantID: p.TenantID, BoutiqueID: id}, time.Now()); err != nil {
		return nil, err
	}
	b, err := uc.repo.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return toBoutiqueResponse(b), nil
}

// Update actualiza los campos presentes.
func (uc *BoutiqueUseCase) Update(ctx context.Context, p authz.Principal, id string, in dto.UpdateBoutiqueRequest) (*dto.BoutiqueResponse, error) {
	if err := authz.Check(p, authz.ActionBoutiqueWrite, authz.Scope{TenantID: p.TenantID, BoutiqueID: id}, time.Now()); err != nil {
		return nil, err
	}
	b, err := uc.repo.GetByID(ctx, p.TenantID, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	b.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBoutiqueResponse(b), nil
}

// List lista boutiques del tenant con paginación.
func (uc *BoutiqueUseCase) List(ctx context.Context, p authz.Principal, limit, offset int) (*dto.BoutiqueListResponse, error) {
	if err := authz.Check(p, authz.ActionBoutiqueRead, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByTenant(ctx, p.TenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BoutiqueResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBoutiqueResponse(b))
	}
	return &dto.BoutiqueListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una boutique del tenant.
func (uc *BoutiqueUseCase) Delete(ctx context.Context, p authz.Principal, id string) error {
	if err := authz.Check(p, authz.ActionBoutiqueWrite, authz.Scope{TenantID: p.TenantID, BoutiqueID: id}, time.Now()); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, p.TenantID, id)
}

func toBoutiqueResponse(b *entity.Boutique) *dto.BoutiqueResponse {
	return &dto.BoutiqueResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
