package dto

import "time"

// CreateRestockRequest body para POST /api/restocks.
type CreateRestockRequest struct {
	BoutiqueID string `json:"boutique_id"`
	ProductID  string `json:"product_id"`
	Quantity   int64  `json:"quantity"`
}

// RestockResponse representación de una solicitud de reabastecimiento.
type RestockResponse struct {
	ID          string     `json:"id"`
	BoutiqueID  string     `json:"boutique_id"`
	ProductID   string     `json:"product_id"`
	Quantity    int64      `json:"quantity"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	DecidedBy   string     `json:"decided_by,omitempty"`
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`
}

// RestockListResponse página de solicitudes.
type RestockListResponse struct {
	Items []RestockResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
