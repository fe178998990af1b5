package repository

import "github.com/jdrojas/repuestos-lan/internal/domain/entity"

// EventRepository define el puerto de persistencia para la bitácora de eventos.
type EventRepository interface {
	Create(e *entity.Event) error
	ListRecent(limit int) ([]*entity.Event, error)
}
