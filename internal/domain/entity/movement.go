package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeSale   = "SALE"
	MovementTypeReturn = "RETURN"
)

// Movement registra una venta o devolución aplicada al inventario.
// Quantity es el delta con signo: negativo en ventas, positivo en devoluciones.
// El movimiento y la actualización de cantidad del artículo se confirman en la
// misma transacción.
type Movement struct {
	ID        string
	ItemID    string
	Type      string
	Quantity  int64
	CreatedBy string
	CreatedAt time.Time
}
