package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD del catálogo de repuestos. El ID lo elige el
// cliente (código de referencia) y repetirlo sobrescribe el artículo completo.
type ItemUseCase struct {
	repo     repository.ItemRepository
	txRunner TxRunner
	notifier Notifier
	auditor  Auditor
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, txRunner TxRunner, notifier Notifier, auditor Auditor) *ItemUseCase {
	return &ItemUseCase{repo: repo, txRunner: txRunner, notifier: notifier, auditor: auditor}
}

// Upsert crea o sobrescribe un artículo. Un upsert sobre un ID con borrado
// lógico lo revive con los campos nuevos.
func (uc *ItemUseCase) Upsert(in dto.UpsertItemRequest, actor string) (*dto.ItemResponse, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	if in.ID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PriceUSD.LessThan(decimal.Zero) || in.PriceBs.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	item := &entity.Item{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		PriceUSD:    in.PriceUSD,
		PriceBs:     in.PriceBs,
		UpdatedAt:   now,
	}
	if err := uc.repo.Upsert(item); err != nil {
		return nil, err
	}
	uc.notifier.MarkUpdated(now)
	uc.auditor.Record(actor, entity.EventItemUpsert, item.ID)
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID. Devuelve nil si no existe o está borrado.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// List devuelve el inventario completo visible, ordenado por ID.
func (uc *ItemUseCase) List() ([]dto.ItemResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return items, nil
}

// Delete marca un artículo como borrado. Es idempotente: borrar un ID
// inexistente también termina bien, pero solo un borrado real mueve el
// marcador de sincronización y deja rastro en la bitácora.
func (uc *ItemUseCase) Delete(id string, actor string) error {
	now := time.Now().UTC()
	found, err := uc.repo.SoftDelete(id, now)
	if err != nil {
		return err
	}
	if found {
		uc.notifier.MarkUpdated(now)
		uc.auditor.Record(actor, entity.EventItemDelete, id)
	}
	return nil
}

// Purge vacía el inventario completo, movimientos incluidos, en una sola
// transacción. Devuelve cuántos artículos se eliminaron.
func (uc *ItemUseCase) Purge(ctx context.Context, actor string) (int64, error) {
	var removed int64
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		// Primero los movimientos: referencian a items por clave foránea.
		if _, err := movRepo.DeleteAll(); err != nil {
			return err
		}
		n, err := itemRepo.DeleteAll()
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.notifier.MarkUpdated(time.Now().UTC())
	uc.auditor.Record(actor, entity.EventPurge, fmt.Sprintf("articulos_eliminados=%d", removed))
	return removed, nil
}

// Count devuelve el total de artículos visibles.
func (uc *ItemUseCase) Count() (int64, error) {
	return uc.repo.Count()
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Quantity:    it.Quantity,
		PriceUSD:    it.PriceUSD,
		PriceBs:     it.PriceBs,
		UpdatedAt:   domain.FormatTime(it.UpdatedAt),
	}
}
