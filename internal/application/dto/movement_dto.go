package dto

// SellRequest entrada para registrar una venta. Quantity son unidades a descontar.
type SellRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

// ReturnRequest entrada para registrar una devolución. Quantity son unidades a reponer.
type ReturnRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

// MovementResultResponse resultado de una venta o devolución aplicada.
type MovementResultResponse struct {
	OK          bool         `json:"ok"`
	NewQuantity int64        `json:"new_quantity"`
	Item        ItemResponse `json:"item"`
}

// MovementResponse salida de un movimiento del historial.
type MovementResponse struct {
	ID        string `json:"id"`
	ItemID    string `json:"item_id"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// MovementListResponse historial paginado de movimientos.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}
