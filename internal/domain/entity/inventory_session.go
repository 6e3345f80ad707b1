package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySessionItem línea de conteo físico contra el libro.
// Expected es la cantidad del libro al momento del cómputo; Delta = Counted - Expected.
// ValueDelta solo se calcula cuando la línea trae precio unitario.
type InventorySessionItem struct {
	ProductID  string
	Expected   int64
	Counted    int64
	Delta      int64
	UnitPrice  *decimal.Decimal
	ValueDelta *decimal.Decimal
}

// InventorySession instantánea inmutable de varianza contado-vs-esperado.
// Computarla no muta el libro; conciliar sus deltas es una acción posterior
// explícita (commit) que genera una corrección por línea con motivo
// inventory_correction. CommittedAt impide conciliar dos veces.
type InventorySession struct {
	ID              string
	TenantID        string
	BoutiqueID      string
	Items           []InventorySessionItem
	TotalDelta      int64
	TotalValueDelta decimal.Decimal
	CreatedAt       time.Time
	CreatedBy       string
	CommittedAt     *time.Time
}
