package dto

import "github.com/shopspring/decimal"

// UpsertItemRequest entrada para crear o sobrescribir un artículo.
// El ID lo elige el cliente (código de referencia del repuesto) y es inmutable:
// repetirlo sobrescribe el resto de campos del mismo artículo.
type UpsertItemRequest struct {
	ID          string          `json:"id" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity" validate:"min=0"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	PriceBs     decimal.Decimal `json:"price_bs"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	PriceBs     decimal.Decimal `json:"price_bs"`
	UpdatedAt   string          `json:"updated_at"`
}

// ItemListResponse inventario completo más los marcadores de sincronización
// que los clientes usan para decidir si refrescan.
type ItemListResponse struct {
	Items      []ItemResponse `json:"items"`
	ServerTime string         `json:"server_time"`
	LastUpdate string         `json:"last_update"`
}

// UpsertItemResponse confirmación de un alta o modificación.
type UpsertItemResponse struct {
	OK   bool         `json:"ok"`
	Item ItemResponse `json:"item"`
}

// PurgeResponse resultado del borrado total del inventario.
type PurgeResponse struct {
	OK      bool  `json:"ok"`
	Removed int64 `json:"removed"`
}
