package entity

import "time"

// Boutique representa un punto de venta del tenant (multi-boutique).
type Boutique struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
