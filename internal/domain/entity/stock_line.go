package entity

import "time"

// StockLine representa la cantidad actual de un producto en una boutique.
// Clave: (tenant_id, boutique_id, product_id). Invariante: Quantity >= 0.
// Es una proyección mantenida del libro de auditoría: la suma de los deltas
// de StockAuditEntry para la clave debe reconstruir Quantity.
type StockLine struct {
	TenantID   string
	BoutiqueID string
	ProductID  string
	Quantity   int64
	UpdatedAt  time.Time
}
