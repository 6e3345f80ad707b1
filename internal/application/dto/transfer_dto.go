package dto

import "time"

// TransferItemDTO línea de un traslado.
type TransferItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceBoutiqueID string            `json:"source_boutique_id"`
	DestBoutiqueID   string            `json:"dest_boutique_id"`
	Items            []TransferItemDTO `json:"items"`
	Reference        string            `json:"reference,omitempty"`
}

// ReceiveByTokenRequest body para POST /api/transfers/receive-by-token.
type ReceiveByTokenRequest struct {
	Token string `json:"token"`
}

// TransferResponse representación de un traslado. El token solo se expone al
// creador (respuesta de create); en listados y consultas viaja vacío.
type TransferResponse struct {
	ID               string            `json:"id"`
	SourceBoutiqueID string            `json:"source_boutique_id"`
	DestBoutiqueID   string            `json:"dest_boutique_id"`
	Items            []TransferItemDTO `json:"items"`
	Reference        string            `json:"reference,omitempty"`
	Token            string            `json:"token,omitempty"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	SentAt           *time.Time        `json:"sent_at,omitempty"`
	ReceivedAt       *time.Time        `json:"received_at,omitempty"`
	CancelledAt      *time.Time        `json:"cancelled_at,omitempty"`
}

// TransferListResponse página de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
