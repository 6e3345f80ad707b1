package ledger

import (
	"context"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
// Los workflows (traslados, restock, conciliación) reciben el conjunto
// completo y usan los que necesiten dentro de su transacción.
type TxRepos struct {
	Stock     repository.StockLineRepository
	Audit     repository.StockAuditRepository
	Transfers repository.TransferRepository
	Restocks  repository.RestockRepository
	Sessions  repository.InventorySessionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// leer-validar-escribir-auditar es indivisible por clave gracias al bloqueo
// de fila dentro de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// SummaryCache caché opcional de lectura para el resumen por boutique.
// Miss se señala con (nil, nil); el libro sigue siendo la fuente de verdad y
// toda escritura invalida la boutique afectada (best-effort).
type SummaryCache interface {
	Get(ctx context.Context, tenantID, boutiqueID string) ([]*entity.StockLine, error)
	Set(ctx context.Context, tenantID, boutiqueID string, lines []*entity.StockLine) error
	Invalidate(ctx context.Context, tenantID string, boutiqueIDs ...string) error
}
