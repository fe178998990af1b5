package inventory

import (
	"context"
	"time"

	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre el ajuste de stock y el registro del movimiento.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// Notifier publica el instante de la última mutación para que los clientes
// de la LAN sepan cuándo refrescar.
type Notifier interface {
	MarkUpdated(at time.Time)
}

// Auditor registra operaciones en la bitácora del servidor.
type Auditor interface {
	Record(actor, action, detail string)
}
