// Package backup implementa los casos de uso de respaldo y restauración de
// la base de inventario.
package backup

import (
	"time"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
)

// Prefijos de archivo según el origen del respaldo.
const (
	PrefixBackup     = "backup"
	PrefixPreRestore = "pre_restore"
)

// UseCase casos de uso de respaldo: creación manual o programada, listado,
// restauración y resolución de rutas para descarga.
type UseCase struct {
	store        Store
	notifier     Notifier
	auditor      Auditor
	maxSnapshots int
}

// NewUseCase construye el caso de uso. maxSnapshots <= 0 desactiva la poda.
func NewUseCase(store Store, notifier Notifier, auditor Auditor, maxSnapshots int) *UseCase {
	return &UseCase{store: store, notifier: notifier, auditor: auditor, maxSnapshots: maxSnapshots}
}

// Create toma un respaldo de la base y poda copias automáticas viejas.
func (uc *UseCase) Create(actor string) (*dto.BackupResponse, error) {
	b, err := uc.store.Snapshot(PrefixBackup)
	if err != nil {
		return nil, err
	}
	if uc.maxSnapshots > 0 {
		// La poda es best-effort: un fallo no invalida el respaldo recién creado.
		_, _ = uc.store.Prune(uc.maxSnapshots)
	}
	uc.auditor.Record(actor, entity.EventBackup, b.Name)
	return &dto.BackupResponse{
		OK:        true,
		Name:      b.Name,
		LocalCopy: b.Name,
		Size:      b.Size,
		CreatedAt: domain.FormatTime(b.CreatedAt),
	}, nil
}

// List devuelve los respaldos disponibles, el más reciente primero.
func (uc *UseCase) List() (*dto.BackupListResponse, error) {
	list, err := uc.store.List()
	if err != nil {
		return nil, err
	}
	backups := make([]dto.BackupInfo, 0, len(list))
	for _, b := range list {
		backups = append(backups, dto.BackupInfo{
			Name:      b.Name,
			Size:      b.Size,
			CreatedAt: domain.FormatTime(b.CreatedAt),
		})
	}
	return &dto.BackupListResponse{Backups: backups}, nil
}

// Restore reemplaza la base activa por el respaldo indicado. La copia
// pre_restore que toma el Store permite volver atrás si el respaldo elegido
// resulta equivocado. Tras restaurar, el marcador de sincronización avanza
// para que todos los clientes refresquen.
func (uc *UseCase) Restore(in dto.RestoreRequest, actor string) (*dto.RestoreResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	pre, err := uc.store.Restore(in.Name)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	uc.notifier.MarkUpdated(now)
	uc.auditor.Record(actor, entity.EventRestore, in.Name)
	return &dto.RestoreResponse{
		OK:         true,
		Restored:   in.Name,
		PreRestore: pre,
		LastUpdate: domain.FormatTime(now),
	}, nil
}

// Resolve devuelve la ruta absoluta de un respaldo para su descarga.
func (uc *UseCase) Resolve(name string) (string, error) {
	return uc.store.Resolve(name)
}
