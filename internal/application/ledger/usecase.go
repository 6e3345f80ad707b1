package ledger

import (
	"context"
	"time"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

// Límites de paginación para el libro de auditoría.
const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// UseCase operaciones del libro de stock: aplicar deltas, auditar, resumir y
// reconstruir. Toda mutación pasa por la puerta de autorización y ocurre
// dentro de una transacción con la fila de la clave bloqueada.
type UseCase struct {
	txRunner     TxRunner
	stockRepo    repository.StockLineRepository
	auditRepo    repository.StockAuditRepository
	boutiqueRepo repository.BoutiqueRepository
	productRepo  repository.ProductRepository
	cache        SummaryCache // opcional: nil desactiva el caché
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(
	txRunner TxRunner,
	stockRepo repository.StockLineRepository,
	auditRepo repository.StockAuditRepository,
	boutiqueRepo repository.BoutiqueRepository,
	productRepo repository.ProductRepository,
	cache SummaryCache,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		stockRepo:    stockRepo,
		auditRepo:    auditRepo,
		boutiqueRepo: boutiqueRepo,
		productRepo:  productRepo,
		cache:        cache,
	}
}

// ApplyDelta aplica un delta manual sobre una clave del libro.
// Rechazos: ErrUnauthorized antes de cualquier validación, ErrInvalidInput
// por estructura, ErrNotFound si boutique/producto no existen en el tenant,
// ErrInsufficientStock si el delta dejaría la cantidad negativa (sin entrada
// de auditoría ni cambio de cantidad).
func (uc *UseCase) ApplyDelta(ctx context.Context, p authz.Principal, in dto.ApplyDeltaRequest) (*dto.StockLineResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionStockAdjust, authz.Scope{TenantID: p.TenantID, BoutiqueID: in.BoutiqueID}, now); err != nil {
		return nil, err
	}
	if in.BoutiqueID == "" || in.ProductID == "" || in.Delta == 0 || !entity.ValidReason(in.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkMasterData(ctx, p.TenantID, in.BoutiqueID, in.ProductID); err != nil {
		return nil, err
	}

	var newQty int64
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		qty, err := ApplyLineTx(ctx, r.Stock, r.Audit, LineDelta{
			TenantID:    p.TenantID,
			BoutiqueID:  in.BoutiqueID,
			ProductID:   in.ProductID,
			Delta:       in.Delta,
			Reason:      in.Reason,
			ActorUserID: p.UserID,
			RefID:       in.RefID,
		}, now)
		if err != nil {
			return err
		}
		newQty = qty
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateSummary(ctx, p.TenantID, in.BoutiqueID)

	return &dto.StockLineResponse{
		BoutiqueID: in.BoutiqueID,
		ProductID:  in.ProductID,
		Quantity:   newQty,
		UpdatedAt:  now,
	}, nil
}

// Audit devuelve las últimas entradas del libro para una clave, de la más
// reciente a la más antigua. Lectura pura, sin efectos.
func (uc *UseCase) Audit(ctx context.Context, p authz.Principal, boutiqueID, productID string, limit int) ([]dto.AuditEntryResponse, error) {
	if err := authz.Check(p, authz.ActionLedgerRead, authz.Scope{TenantID: p.TenantID, BoutiqueID: boutiqueID}, time.Now()); err != nil {
		return nil, err
	}
	if boutiqueID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	entries, err := uc.auditRepo.ListByKey(ctx, p.TenantID, boutiqueID, productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			ID:          e.ID,
			BoutiqueID:  e.BoutiqueID,
			ProductID:   e.ProductID,
			Delta:       e.Delta,
			Reason:      e.Reason,
			ActorUserID: e.ActorUserID,
			RefID:       e.RefID,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}

// Summary cantidad actual por producto de una boutique. Pasa por el caché de
// lectura cuando está configurado; el libro sigue siendo la fuente de verdad.
func (uc *UseCase) Summary(ctx context.Context, p authz.Principal, boutiqueID string) (*dto.SummaryResponse, error) {
	if err := authz.Check(p, authz.ActionInventoryRead, authz.Scope{TenantID: p.TenantID, BoutiqueID: boutiqueID}, time.Now()); err != nil {
		return nil, err
	}
	if boutiqueID == "" {
		return nil, domain.ErrInvalidInput
	}
	boutique, err := uc.boutiqueRepo.GetByID(ctx, p.TenantID, boutiqueID)
	if err != nil {
		return nil, err
	}
	if boutique == nil {
		return nil, domain.ErrNotFound
	}

	var lines []*entity.StockLine
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, p.TenantID, boutiqueID); err == nil && cached != nil {
			lines = cached
		}
	}
	if lines == nil {
		lines, err = uc.stockRepo.ListByBoutique(ctx, p.TenantID, boutiqueID)
		if err != nil {
			return nil, err
		}
		if lines == nil {
			// Una boutique sin líneas también se cachea: nil serializa a null
			// y se confundiría con un miss en cada lectura.
			lines = []*entity.StockLine{}
		}
		if uc.cache != nil {
			_ = uc.cache.Set(ctx, p.TenantID, boutiqueID, lines) // best-effort
		}
	}

	resp := &dto.SummaryResponse{BoutiqueID: boutiqueID, Lines: make([]dto.StockLineResponse, 0, len(lines))}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.StockLineResponse{
			BoutiqueID: l.BoutiqueID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UpdatedAt:  l.UpdatedAt,
		})
	}
	return resp, nil
}

// Rebuild reproduce todos los deltas de auditoría de una clave y los compara
// con la proyección almacenada. El libro es la fuente de verdad: una
// discrepancia aquí indica corrupción de la proyección.
func (uc *UseCase) Rebuild(ctx context.Context, p authz.Principal, boutiqueID, productID string) (*dto.RebuildResponse, error) {
	if err := authz.Check(p, authz.ActionLedgerRead, authz.Scope{TenantID: p.TenantID, BoutiqueID: boutiqueID}, time.Now()); err != nil {
		return nil, err
	}
	if boutiqueID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	replayed, err := uc.auditRepo.SumDeltas(ctx, p.TenantID, boutiqueID, productID)
	if err != nil {
		return nil, err
	}
	line, err := uc.stockRepo.Get(ctx, p.TenantID, boutiqueID, productID)
	if err != nil {
		return nil, err
	}
	return &dto.RebuildResponse{
		BoutiqueID:       boutiqueID,
		ProductID:        productID,
		StoredQuantity:   line.Quantity,
		ReplayedQuantity: replayed,
		Consistent:       line.Quantity == replayed,
	}, nil
}

// checkMasterData verifica que boutique y producto existan dentro del tenant.
func (uc *UseCase) checkMasterData(ctx context.Context, tenantID, boutiqueID, productID string) error {
	boutique, err := uc.boutiqueRepo.GetByID(ctx, tenantID, boutiqueID)
	if err != nil {
		return err
	}
	if boutique == nil {
		return domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return nil
}

// invalidateSummary invalida el caché de resumen de las boutiques tocadas.
// Best-effort: un fallo del caché no afecta la operación ya confirmada.
func (uc *UseCase) invalidateSummary(ctx context.Context, tenantID string, boutiqueIDs ...string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Invalidate(ctx, tenantID, boutiqueIDs...)
}
