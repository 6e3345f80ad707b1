package dto

import "time"

// ApplyDeltaRequest body para POST /api/stock/deltas.
type ApplyDeltaRequest struct {
	BoutiqueID string `json:"boutique_id"`
	ProductID  string `json:"product_id"`
	Delta      int64  `json:"delta"`
	Reason     string `json:"reason"`
	RefID      string `json:"ref_id,omitempty"`
}

// StockLineResponse cantidad actual de una clave del libro.
type StockLineResponse struct {
	BoutiqueID string    `json:"boutique_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AuditEntryResponse entrada del libro de auditoría.
type AuditEntryResponse struct {
	ID          string    `json:"id"`
	BoutiqueID  string    `json:"boutique_id"`
	ProductID   string    `json:"product_id"`
	Delta       int64     `json:"delta"`
	Reason      string    `json:"reason"`
	ActorUserID string    `json:"actor_user_id"`
	RefID       string    `json:"ref_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SummaryResponse instantánea de cantidades por producto de una boutique.
type SummaryResponse struct {
	BoutiqueID string              `json:"boutique_id"`
	Lines      []StockLineResponse `json:"lines"`
}

// RebuildResponse resultado de reconstruir una clave desde la auditoría.
// Consistent indica que la proyección almacenada coincide con el replay.
type RebuildResponse struct {
	BoutiqueID       string `json:"boutique_id"`
	ProductID        string `json:"product_id"`
	StoredQuantity   int64  `json:"stored_quantity"`
	ReplayedQuantity int64  `json:"replayed_quantity"`
	Consistent       bool   `json:"consistent"`
}
