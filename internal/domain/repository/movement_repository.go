package repository

import "github.com/jdrojas/repuestos-lan/internal/domain/entity"

// MovementFilter filtros para listar movimientos. Los campos vacíos no filtran.
type MovementFilter struct {
	ItemID string
	Type   string
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia para Movement (DIP).
type MovementRepository interface {
	Create(m *entity.Movement) error
	List(filter MovementFilter) ([]*entity.Movement, error)
	DeleteAll() (int64, error)
}
