package repository

import (
	"time"

	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID y List solo ven artículos activos (deleted=0); Upsert revive un
// artículo borrado con el mismo ID.
type ItemRepository interface {
	Upsert(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	List() ([]*entity.Item, error)
	UpdateQuantity(id string, quantity int64, now time.Time) error
	SoftDelete(id string, now time.Time) (bool, error)
	DeleteAll() (int64, error)
	Count() (int64, error)
}
