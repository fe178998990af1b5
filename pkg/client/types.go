package client

import "github.com/shopspring/decimal"

// Tipos del protocolo. Espejan lo que el servidor envía y recibe; los
// timestamps viajan como strings "2006-01-02 15:04:05" en UTC y se comparan
// como valores opacos.

// Item un repuesto del inventario.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	PriceBs     decimal.Decimal `json:"price_bs"`
	UpdatedAt   string          `json:"updated_at"`
}

// ItemInput datos para crear o sobrescribir un artículo.
type ItemInput struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	PriceBs     decimal.Decimal `json:"price_bs"`
}

// ItemList inventario completo con los marcadores de sincronización.
type ItemList struct {
	Items      []Item `json:"items"`
	ServerTime string `json:"server_time"`
	LastUpdate string `json:"last_update"`
}

// MovementResult resultado de una venta o devolución.
type MovementResult struct {
	OK          bool  `json:"ok"`
	NewQuantity int64 `json:"new_quantity"`
	Item        Item  `json:"item"`
}

// Movement una entrada del historial de movimientos.
type Movement struct {
	ID        string `json:"id"`
	ItemID    string `json:"item_id"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// MovementQuery filtros del historial de movimientos.
type MovementQuery struct {
	ItemID string
	Type   string // "SALE" o "RETURN"; vacío trae todos
	Limit  int
	Offset int
}

// MovementList historial paginado.
type MovementList struct {
	Movements []Movement `json:"movements"`
	Page      PageInfo   `json:"page"`
}

// PageInfo metadatos de paginación.
type PageInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// BackupCreated confirmación de un respaldo recién tomado.
type BackupCreated struct {
	OK        bool   `json:"ok"`
	Name      string `json:"name"`
	LocalCopy string `json:"local_copy"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// BackupInfo un respaldo disponible en el servidor.
type BackupInfo struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// RestoreResult resultado de una restauración.
type RestoreResult struct {
	OK         bool   `json:"ok"`
	Restored   string `json:"restored"`
	PreRestore string `json:"pre_restore"`
	LastUpdate string `json:"last_update"`
}

// UnlockResult token de administración emitido por el servidor.
type UnlockResult struct {
	Token     string `json:"token"`
	Operator  string `json:"operator"`
	ExpiresAt string `json:"expires_at"`
}

// Event una entrada de la bitácora del servidor.
type Event struct {
	ID     string `json:"id"`
	At     string `json:"at"`
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Detail string `json:"detail"`
}

// ClientSeen un cliente de la LAN con su último contacto.
type ClientSeen struct {
	ClientID   string `json:"client_id"`
	LastSeen   string `json:"last_seen"`
	SecondsAgo int64  `json:"seconds_ago"`
}

// ServerStatus resumen operativo del servidor.
type ServerStatus struct {
	Status        string `json:"status"`
	Items         int64  `json:"items"`
	LastUpdate    string `json:"last_update"`
	ActiveClients int    `json:"active_clients"`
	Backups       int    `json:"backups"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// PingInfo latido del servidor.
type PingInfo struct {
	OK         bool   `json:"ok"`
	ServerTime string `json:"server_time"`
	LastUpdate string `json:"last_update"`
}

type purgeEnvelope struct {
	OK      bool  `json:"ok"`
	Removed int64 `json:"removed"`
}

type lastUpdateEnvelope struct {
	LastUpdate string `json:"last_update"`
}

type upsertEnvelope struct {
	OK   bool `json:"ok"`
	Item Item `json:"item"`
}

type backupListEnvelope struct {
	Backups []BackupInfo `json:"backups"`
}

type eventListEnvelope struct {
	Events []Event `json:"events"`
}

type clientListEnvelope struct {
	Clients []ClientSeen `json:"clients"`
}
