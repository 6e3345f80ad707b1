package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountedItemDTO línea de conteo físico. UnitPrice es opcional: sin precio la
// línea no aporta a la varianza en valor, solo a la de cantidades.
type CountedItemDTO struct {
	ProductID string           `json:"product_id"`
	Counted   int64            `json:"counted"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// ComputeSessionRequest body para POST /api/inventory/sessions.
type ComputeSessionRequest struct {
	BoutiqueID string           `json:"boutique_id"`
	Items      []CountedItemDTO `json:"items"`
}

// SessionItemResponse línea de la sesión con varianza calculada.
type SessionItemResponse struct {
	ProductID  string           `json:"product_id"`
	Expected   int64            `json:"expected"`
	Counted    int64            `json:"counted"`
	Delta      int64            `json:"delta"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	ValueDelta *decimal.Decimal `json:"value_delta,omitempty"`
}

// SessionResponse sesión de inventario computada.
type SessionResponse struct {
	ID              string                `json:"id"`
	BoutiqueID      string                `json:"boutique_id"`
	Items           []SessionItemResponse `json:"items"`
	TotalDelta      int64                 `json:"total_delta"`
	TotalValueDelta decimal.Decimal       `json:"total_value_delta"`
	CreatedAt       time.Time             `json:"created_at"`
	CommittedAt     *time.Time            `json:"committed_at,omitempty"`
}

// SessionListResponse página de sesiones.
type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
