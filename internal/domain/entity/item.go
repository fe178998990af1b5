package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un repuesto del inventario compartido en la LAN.
// El ID es el código de referencia de la pieza: lo asigna el cliente al crear
// el artículo y es inmutable; los upserts posteriores solo sobrescriben el resto
// de campos. Los precios se llevan en doble moneda (USD y bolívares).
type Item struct {
	ID          string
	Name        string
	Description string
	Quantity    int64
	PriceUSD    decimal.Decimal
	PriceBs     decimal.Decimal
	Deleted     bool
	UpdatedAt   time.Time
}
