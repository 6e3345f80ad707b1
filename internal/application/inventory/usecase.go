package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

// UseCase sesiones de inventario físico: Compute produce una instantánea
// contado-vs-esperado sin mutar el libro; Commit es la acción posterior,
// explícita y autorizada aparte, que concilia los deltas de la sesión con
// una corrección por línea (motivo inventory_correction).
type UseCase struct {
	txRunner     ledger.TxRunner
	sessionRepo  repository.InventorySessionRepository
	stockRepo    repository.StockLineRepository
	boutiqueRepo repository.BoutiqueRepository
	productRepo  repository.ProductRepository
	cache        ledger.SummaryCache // opcional
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(
	txRunner ledger.TxRunner,
	sessionRepo repository.InventorySessionRepository,
	stockRepo repository.StockLineRepository,
	boutiqueRepo repository.BoutiqueRepository,
	productRepo repository.ProductRepository,
	cache ledger.SummaryCache,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		sessionRepo:  sessionRepo,
		stockRepo:    stockRepo,
		boutiqueRepo: boutiqueRepo,
		productRepo:  productRepo,
		cache:        cache,
	}
}

// Compute calcula la varianza de un conteo físico contra el libro y persiste
// la sesión resultante. Nunca llama a ApplyDelta: es una herramienta de
// reporte. Expected es la cantidad del libro al momento del cómputo; los
// productos no contados no forman parte de la sesión (no hay conteo cero
// implícito). ValueDelta solo existe en líneas con precio; las líneas sin
// precio aportan 0 al total en valor pero sí cuentan en TotalDelta.
func (uc *UseCase) Compute(ctx context.Context, p authz.Principal, in dto.ComputeSessionRequest) (*dto.SessionResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionInventoryWrite, authz.Scope{TenantID: p.TenantID, BoutiqueID: in.BoutiqueID}, now); err != nil {
		return nil, err
	}
	if in.BoutiqueID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Counted < 0 || seen[it.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
	}
	boutique, err := uc.boutiqueRepo.GetByID(ctx, p.TenantID, in.BoutiqueID)
	if err != nil {
		return nil, err
	}
	if boutique == nil {
		return nil, domain.ErrNotFound
	}

	s := &entity.InventorySession{
		ID:              uuid.New().String(),
		TenantID:        p.TenantID,
		BoutiqueID:      in.BoutiqueID,
		Items:           make([]entity.InventorySessionItem, 0, len(in.Items)),
		TotalValueDelta: decimal.Zero,
		CreatedAt:       now,
		CreatedBy:       p.UserID,
	}
	for _, it := range in.Items {
		product, err := uc.productRepo.GetByID(ctx, p.TenantID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		line, err := uc.stockRepo.Get(ctx, p.TenantID, in.BoutiqueID, it.ProductID)
		if err != nil {
			return nil, err
		}
		item := entity.InventorySessionItem{
			ProductID: it.ProductID,
			Expected:  line.Quantity,
			Counted:   it.Counted,
			Delta:     it.Counted - line.Quantity,
			UnitPrice: it.UnitPrice,
		}
		if it.UnitPrice != nil {
			vd := decimal.NewFromInt(item.Delta).Mul(*it.UnitPrice)
			item.ValueDelta = &vd
			s.TotalValueDelta = s.TotalValueDelta.Add(vd)
		}
		s.TotalDelta += item.Delta
		s.Items = append(s.Items, item)
	}

	if err := uc.sessionRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toResponse(s), nil
}

// Commit concilia el libro con los deltas de la sesión: una corrección por
// línea con delta distinto de cero, todas en una misma transacción, con
// RefID la sesión. Una sesión se concilia a lo sumo una vez; si el stock se
// movió desde el cómputo y alguna corrección negativa dejara la cantidad
// bajo cero, la conciliación completa se rechaza.
func (uc *UseCase) Commit(ctx context.Context, p authz.Principal, sessionID string) (*dto.SessionResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionInventoryCommit, authz.Scope{TenantID: p.TenantID}, now); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.InventorySession
	err := uc.txRunner.Run(ctx, func(tx ledger.TxRepos) error {
		s, err := tx.Sessions.GetByIDForUpdate(ctx, p.TenantID, sessionID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.CommittedAt != nil {
			return domain.ErrInvalidState
		}
		lines := make([]ledger.LineDelta, 0, len(s.Items))
		for _, it := range s.Items {
			if it.Delta == 0 {
				continue
			}
			lines = append(lines, ledger.LineDelta{
				TenantID:    p.TenantID,
				BoutiqueID:  s.BoutiqueID,
				ProductID:   it.ProductID,
				Delta:       it.Delta,
				Reason:      entity.ReasonInventoryCorrection,
				ActorUserID: p.UserID,
				RefID:       s.ID,
			})
		}
		if len(lines) > 0 {
			if err := ledger.ApplyLinesTx(ctx, tx.Stock, tx.Audit, lines, now); err != nil {
				return err
			}
		}
		s.CommittedAt = &now
		if err := tx.Sessions.MarkCommitted(ctx, s); err != nil {
			return err
		}
		out = s
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

// Get consulta una sesión por ID.
func (uc *UseCase) Get(ctx context.Context, p authz.Principal, sessionID string) (*dto.SessionResponse, error) {
	if err := authz.Check(p, authz.ActionInventoryRead, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return nil, err
	}
	s, err := uc.sessionRepo.GetByID(ctx, p.TenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(s), nil
}

// ListByBoutique lista sesiones de una boutique con paginación.
func (uc *UseCase) ListByBoutique(ctx context.Context, p authz.Principal, boutiqueID string, limit, offset int) (*dto.SessionListResponse, error) {
	if err := authz.Check(p, authz.ActionInventoryRead, authz.Scope{TenantID: p.TenantID, BoutiqueID: boutiqueID}, time.Now()); err != nil {
		return nil, err
	}
	list, err := uc.sessionRepo.ListByBoutique(ctx, p.TenantID, boutiqueID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toResponse(s))
	}
	return &dto.SessionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toResponse(s *entity.InventorySession) *dto.SessionResponse {
	items := make([]dto.SessionItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SessionItemResponse{
			ProductID:  it.ProductID,
			Expected:   it.Expected,
			Counted:    it.Counted,
			Delta:      it.Delta,
			UnitPrice:  it.UnitPrice,
			ValueDelta: it.ValueDelta,
		})
	}
	return &dto.SessionResponse{
		ID:              s.ID,
		BoutiqueID:      s.BoutiqueID,
		Items:           items,
		TotalDelta:      s.TotalDelta,
		TotalValueDelta: s.TotalValueDelta,
		CreatedAt:       s.CreatedAt,
		CommittedAt:     s.CommittedAt,
	}
}
