package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

// LineDelta delta a aplicar sobre una clave del libro dentro de una tx.
type LineDelta struct {
	TenantID    string
	BoutiqueID  string
	ProductID   string
	Delta       int64
	Reason      string
	ActorUserID string
	RefID       string
}

// ApplyLineTx aplica un delta con la fila bloqueada (GetForUpdate), valida la
// no-negatividad, actualiza la proyección y agrega la entrada de auditoría.
// Un rechazo por stock insuficiente no escribe nada: ni cantidad ni auditoría.
// Debe invocarse únicamente con repositorios atados a una transacción.
func ApplyLineTx(
	ctx context.Context,
	stocks repository.StockLineRepository,
	audits repository.StockAuditRepository,
	d LineDelta,
	now time.Time,
) (int64, error) {
	line, err := stocks.GetForUpdate(ctx, d.TenantID, d.BoutiqueID, d.ProductID)
	if err != nil {
		return 0, err
	}
	newQty := line.Quantity + d.Delta
	if newQty < 0 {
		return 0, domain.ErrInsufficientStock
	}
	line.Quantity = newQty
	line.UpdatedAt = now
	if err := stocks.Upsert(ctx, line); err != nil {
		return 0, err
	}
	e := &entity.StockAuditEntry{
		ID:          uuid.New().String(),
		TenantID:    d.TenantID,
		BoutiqueID:  d.BoutiqueID,
		ProductID:   d.ProductID,
		Delta:       d.Delta,
		Reason:      d.Reason,
		ActorUserID: d.ActorUserID,
		RefID:       d.RefID,
		CreatedAt:   now,
	}
	if err := audits.Append(ctx, e); err != nil {
		return 0, err
	}
	return newQty, nil
}

// ApplyLinesTx aplica varios deltas como unidad: primero bloquea todas las
// filas en orden ascendente de clave (evita deadlocks entre operaciones que
// se cruzan) y verifica la suficiencia de todas, y solo entonces escribe.
// Si alguna línea fallaría, ninguna queda aplicada (la tx del caller hace
// rollback de cualquier escritura previa de todos modos).
func ApplyLinesTx(
	ctx context.Context,
	stocks repository.StockLineRepository,
	audits repository.StockAuditRepository,
	lines []LineDelta,
	now time.Time,
) error {
	sorted := make([]LineDelta, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].BoutiqueID != sorted[j].BoutiqueID {
			return sorted[i].BoutiqueID < sorted[j].BoutiqueID
		}
		return sorted[i].ProductID < sorted[j].ProductID
	})

	locked := make([]*entity.StockLine, len(sorted))
	for i, d := range sorted {
		line, err := stocks.GetForUpdate(ctx, d.TenantID, d.BoutiqueID, d.ProductID)
		if err != nil {
			return err
		}
		if line.Quantity+d.Delta < 0 {
			return domain.ErrInsufficientStock
		}
		locked[i] = line
	}

	for i, d := range sorted {
		line := locked[i]
		line.Quantity += d.Delta
		line.UpdatedAt = now
		if err := stocks.Upsert(ctx, line); err != nil {
			return err
		}
		e := &entity.StockAuditEntry{
			ID:          uuid.New().String(),
			TenantID:    d.TenantID,
			BoutiqueID:  d.BoutiqueID,
			ProductID:   d.ProductID,
			Delta:       d.Delta,
			Reason:      d.Reason,
			ActorUserID: d.ActorUserID,
			RefID:       d.RefID,
			CreatedAt:   now,
		}
		if err := audits.Append(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
