package repository

import (
	"context"

	"github.com/gestock-saas/gestock-api/internal/domain/entity"
)

// StockLineRepository puerto para la proyección de cantidades por
// (tenant, boutique, producto). Las mutaciones siempre ocurren dentro de una
// transacción (TxRunner) con la fila bloqueada vía GetForUpdate.
type StockLineRepository interface {
	// Get devuelve la línea actual; si no existe, una línea en cero (no error).
	Get(ctx context.Context, tenantID, boutiqueID, productID string) (*entity.StockLine, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	// La unidad de exclusión mutua del libro es exactamente esta clave.
	GetForUpdate(ctx context.Context, tenantID, boutiqueID, productID string) (*entity.StockLine, error)
	Upsert(ctx context.Context, line *entity.StockLine) error
	// ListByBoutique instantánea de cantidades por producto de una boutique.
	ListByBoutique(ctx context.Context, tenantID, boutiqueID string) ([]*entity.StockLine, error)
}
