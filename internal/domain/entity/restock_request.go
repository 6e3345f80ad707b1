package entity

import "time"

// Estados de una solicitud de reabastecimiento.
// pending -> approved -> fulfilled; pending -> rejected es terminal.
const (
	RestockStatusPending   = "pending"
	RestockStatusApproved  = "approved"
	RestockStatusRejected  = "rejected"
	RestockStatusFulfilled = "fulfilled"
)

// RestockRequest solicitud de reabastecimiento de un producto en una boutique.
// Solo fulfill toca el libro de stock (entrada con motivo stock_entry).
type RestockRequest struct {
	ID          string
	TenantID    string
	BoutiqueID  string
	ProductID   string
	Quantity    int64
	Status      string
	CreatedAt   time.Time
	CreatedBy   string
	DecidedAt   *time.Time
	DecidedBy   string
	FulfilledAt *time.Time
}
