package entity

import "time"

// Motivos de movimiento del libro de stock.
// Las correcciones nunca editan entradas existentes: se registra una nueva
// entrada con delta inverso y motivo distinto.
const (
	ReasonSale                = "sale"
	ReasonManualAdjust        = "manual_adjust"
	ReasonStockEntry          = "stock_entry"
	ReasonTransferOut         = "transfer_out"
	ReasonTransferIn          = "transfer_in"
	ReasonInventoryCorrection = "inventory_correction"
)

// ValidReason indica si el motivo pertenece al catálogo del libro.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonSale, ReasonManualAdjust, ReasonStockEntry,
		ReasonTransferOut, ReasonTransferIn, ReasonInventoryCorrection:
		return true
	}
	return false
}

// StockAuditEntry es una entrada inmutable del libro de auditoría de stock.
// Append-only: nunca se edita ni se borra. El orden (created_at, id) define
// la secuencia de auditoría. RefID enlaza con el Transfer/RestockRequest/
// InventorySession que originó el movimiento, cuando aplica.
type StockAuditEntry struct {
	ID          string
	TenantID    string
	BoutiqueID  string
	ProductID   string
	Delta       int64
	Reason      string
	ActorUserID string
	RefID       string
	CreatedAt   time.Time
}
