package backup

import (
	"time"

	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
)

// Store gestiona los archivos de respaldo en disco: instantáneas íntegras de
// la base, listado, restauración y poda de copias viejas.
type Store interface {
	// Snapshot escribe una copia íntegra de la base con el prefijo dado y
	// devuelve sus metadatos.
	Snapshot(prefix string) (*entity.Backup, error)
	// List devuelve los respaldos disponibles, del más reciente al más antiguo.
	List() ([]*entity.Backup, error)
	// Restore reemplaza la base activa por el respaldo indicado. Antes de
	// tocar nada toma una copia de seguridad y devuelve su nombre.
	Restore(name string) (preRestore string, err error)
	// Prune elimina respaldos automáticos viejos dejando como máximo max.
	Prune(max int) (removed int, err error)
	// Resolve devuelve la ruta absoluta de un respaldo existente, validando
	// el nombre contra escapes de directorio.
	Resolve(name string) (string, error)
}

// Notifier publica el instante de la última mutación tras una restauración.
type Notifier interface {
	MarkUpdated(at time.Time)
}

// Auditor registra operaciones en la bitácora del servidor.
type Auditor interface {
	Record(actor, action, detail string)
}
