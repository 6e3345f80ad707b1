package dto

import "time"

// CreateBoutiqueRequest body para POST /api/boutiques.
type CreateBoutiqueRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// UpdateBoutiqueRequest body para PUT /api/boutiques/:id (campos opcionales).
type UpdateBoutiqueRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}

// BoutiqueResponse representación de una boutique.
type BoutiqueResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoutiqueListResponse página de boutiques.
type BoutiqueListResponse struct {
	Items []BoutiqueResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
