package entity

import "time"

// Acciones registradas en la bitácora de eventos.
const (
	EventItemUpsert       = "item_upsert"
	EventItemDelete       = "item_delete"
	EventSale             = "sale"
	EventReturn           = "return"
	EventBackup           = "backup"
	EventRestore          = "restore"
	EventPurge            = "purge"
	EventUnlock           = "unlock"
	EventAPIKeyRotated    = "api_key_rotated"
	EventMasterKeyRotated = "master_key_rotated"
)

// Event es una entrada de auditoría: quién hizo qué y cuándo.
// Actor es el ID de cliente o el operador administrativo según el origen.
type Event struct {
	ID     string
	At     time.Time
	Actor  string
	Action string
	Detail string
}
