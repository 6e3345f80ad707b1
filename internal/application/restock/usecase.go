package restock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

// UseCase workflow de reabastecimiento: pending -> approved|rejected ->
// fulfilled. Solo fulfill toca el libro (entrada con motivo stock_entry);
// crear y decidir son puro estado. Toda transición desde un estado que no
// corresponde es ErrInvalidState, lo que bloquea el doble fulfill y el
// re-decidir una solicitud ya decidida.
type UseCase struct {
	txRunner     ledger.TxRunner
	restockRepo  repository.RestockRepository
	boutiqueRepo repository.BoutiqueRepository
	productRepo  repository.ProductRepository
	cache        ledger.SummaryCache // opcional
}

// NewUseCase construye el workflow. cache puede ser nil.
func NewUseCase(
	txRunner ledger.TxRunner,
	restockRepo repository.RestockRepository,
	boutiqueRepo repository.BoutiqueRepository,
	productRepo repository.ProductRepository,
	cache ledger.SummaryCache,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		restockRepo:  restockRepo,
		boutiqueRepo: boutiqueRepo,
		productRepo:  productRepo,
		cache:        cache,
	}
}

// Create registra la solicitud en estado pending. Sin efecto en el libro.
func (uc *UseCase) Create(ctx context.Context, p authz.Principal, in dto.CreateRestockRequest) (*dto.RestockResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionRestockCreate, authz.Scope{TenantID: p.TenantID, BoutiqueID: in.BoutiqueID}, now); err != nil {
		return nil, err
	}
	if in.BoutiqueID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	boutique, err := uc.boutiqueRepo.GetByID(ctx, p.TenantID, in.BoutiqueID)
	if err != nil {
		return nil, err
	}
	if boutique == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, p.TenantID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	r := &entity.RestockRequest{
		ID:         uuid.New().String(),
		TenantID:   p.TenantID,
		BoutiqueID: in.BoutiqueID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		Status:     entity.RestockStatusPending,
		CreatedAt:  now,
		CreatedBy:  p.UserID,
	}
	if err := uc.restockRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	return toResponse(r), nil
}

// Approve transición pending -> approved. Decisión pura, sin efecto en el libro.
func (uc *UseCase) Approve(ctx context.Context, p authz.Principal, requestID string) (*dto.RestockResponse, error) {
	return uc.decide(ctx, p, requestID, entity.RestockStatusApproved)
}

// Reject transición pending -> rejected (terminal).
func (uc *UseCase) Reject(ctx context.Context, p authz.Principal, requestID string) (*dto.RestockResponse, error) {
	return uc.decide(ctx, p, requestID, entity.RestockStatusRejected)
}

func (uc *UseCase) decide(ctx context.Context, p authz.Principal, requestID, status string) (*dto.RestockResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionRestockApprove, authz.Scope{TenantID: p.TenantID}, now); err != nil {
		return nil, err
	}
	if requestID == "" {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.RestockRequest
	err := uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		r, err := tx.Restocks.GetByIDForUpdate(ctx, p.TenantID, requestID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if r.Status != entity.RestockStatusPending {
			return domain.ErrInvalidState
		}
		r.Status = status
		r.DecidedAt = &now
		r.DecidedBy = p.UserID
		if err := tx.Restocks.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(out), nil
}

// Fulfill transición approved -> fulfilled: acredita la cantidad en la
// boutique (motivo stock_entry, ref la solicitud) y marca la solicitud, todo
// en una transacción. Repetir fulfill es ErrInvalidState.
func (uc *UseCase) Fulfill(ctx context.Context, p authz.Principal, requestID string) (*dto.RestockResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionRestockFulfill, authz.Scope{TenantID: p.TenantID}, now); err != nil {
		return nil, err
	}
	if requestID == "" {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.RestockRequest
	err := uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		r, err := tx.Restocks.GetByIDForUpdate(ctx, p.TenantID, requestID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if r.Status != entity.RestockStatusApproved {
			return domain.ErrInvalidState
		}
		_, err = ledger.ApplyLineTx(ctx, tx.Stock, tx.Audit, ledger.LineDelta{
			TenantID:    p.TenantID,
			BoutiqueID:  r.BoutiqueID,
			ProductID:   r.ProductID,
			Delta:       r.Quantity,
			Reason:      entity.ReasonStockEntry,
			ActorUserID: p.UserID,
			RefID:       r.ID,
		}, now)
		if err != nil {
			return err
		}
		r.Status = entity.RestockStatusFulfilled
		r.FulfilledAt = &now
		if err := tx.Restocks.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, p.TenantID, out.BoutiqueID)
	}
	return toResponse(out), nil
}

// Get consulta una solicitud por ID.
func (uc *UseCase) Get(ctx context.Context, p authz.Principal, requestID string) (*dto.RestockResponse, error) {
	if err := authz.Check(p, authz.ActionInventoryRead, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return nil, err
	}
	r, err := uc.restockRepo.GetByID(ctx, p.TenantID, requestID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(r), nil
}

// ListByBoutique lista solicitudes de una boutique con paginación.
func (uc *UseCase) ListByBoutique(ctx context.Context, p authz.Principal, boutiqueID string, limit, offset int) (*dto.RestockListResponse, error) {
	if err := authz.Check(p, authz.ActionInventoryRead, authz.Scope{TenantID: p.TenantID, BoutiqueID: boutiqueID}, time.Now()); err != nil {
		return nil, err
	}
	list, err := uc.restockRepo.ListByBoutique(ctx, p.TenantID, boutiqueID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RestockResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toResponse(r))
	}
	return &dto.RestockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toResponse(r *entity.RestockRequest) *dto.RestockResponse {
	return &dto.RestockResponse{
		ID:          r.ID,
		BoutiqueID:  r.BoutiqueID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		DecidedAt:   r.DecidedAt,
		DecidedBy:   r.DecidedBy,
		FulfilledAt: r.FulfilledAt,
	}
}
