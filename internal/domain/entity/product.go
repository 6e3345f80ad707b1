package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo del tenant.
// SKU es único por tenant. Precio y costo son metadatos: el libro de stock
// solo trabaja con cantidades enteras por boutique.
type Product struct {
	ID        string
	TenantID  string
	SKU       string
	Name      string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
