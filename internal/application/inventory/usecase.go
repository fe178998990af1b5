package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

// MovementUseCase registra ventas y devoluciones de forma transaccional:
// el ajuste de stock y el movimiento del historial se confirman juntos o
// no se confirman.
type MovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	notifier Notifier
	auditor  Auditor
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	notifier Notifier,
	auditor Auditor,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
		notifier: notifier,
		auditor:  auditor,
	}
}

// Sell descuenta unidades de un artículo. Falla con ErrInsufficientStock si
// la cantidad pedida supera el stock disponible; el stock nunca queda negativo.
func (uc *MovementUseCase) Sell(ctx context.Context, in dto.SellRequest, actor string) (*dto.MovementResultResponse, error) {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()

	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := uc.doSale(itemRepo, movRepo, in, actor, now)
		if err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.MarkUpdated(now)
	uc.auditor.Record(actor, entity.EventSale, fmt.Sprintf("id=%s cantidad=%d", in.ID, in.Quantity))
	return &dto.MovementResultResponse{
		OK:          true,
		NewQuantity: updated.Quantity,
		Item:        *toItemResponse(updated),
	}, nil
}

// Return repone unidades de un artículo vendido.
func (uc *MovementUseCase) Return(ctx context.Context, in dto.ReturnRequest, actor string) (*dto.MovementResultResponse, error) {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()

	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := uc.doReturn(itemRepo, movRepo, in, actor, now)
		if err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.MarkUpdated(now)
	uc.auditor.Record(actor, entity.EventReturn, fmt.Sprintf("id=%s cantidad=%d", in.ID, in.Quantity))
	return &dto.MovementResultResponse{
		OK:          true,
		NewQuantity: updated.Quantity,
		Item:        *toItemResponse(updated),
	}, nil
}

// doSale verifica stock disponible, resta la cantidad y guarda el movimiento
// SALE con cantidad negativa.
func (uc *MovementUseCase) doSale(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	in dto.SellRequest,
	actor string,
	now time.Time,
) (*entity.Item, error) {
	item, err := itemRepo.GetByID(in.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Quantity > item.Quantity {
		return nil, domain.ErrInsufficientStock
	}
	item.Quantity -= in.Quantity
	item.UpdatedAt = now
	if err := itemRepo.UpdateQuantity(item.ID, item.Quantity, now); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ItemID:    item.ID,
		Type:      entity.MovementTypeSale,
		Quantity:  -in.Quantity,
		CreatedBy: actor,
		CreatedAt: now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return item, nil
}

// doReturn suma la cantidad y guarda el movimiento RETURN con cantidad positiva.
func (uc *MovementUseCase) doReturn(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	in dto.ReturnRequest,
	actor string,
	now time.Time,
) (*entity.Item, error) {
	item, err := itemRepo.GetByID(in.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	item.Quantity += in.Quantity
	item.UpdatedAt = now
	if err := itemRepo.UpdateQuantity(item.ID, item.Quantity, now); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ItemID:    item.ID,
		Type:      entity.MovementTypeReturn,
		Quantity:  in.Quantity,
		CreatedBy: actor,
		CreatedAt: now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return item, nil
}

// List devuelve el historial de movimientos, el más reciente primero.
func (uc *MovementUseCase) List(itemID, movType string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	if movType != "" && movType != entity.MovementTypeSale && movType != entity.MovementTypeReturn {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movRepo.List(repository.MovementFilter{
		ItemID: strings.TrimSpace(itemID),
		Type:   movType,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	movs := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		movs = append(movs, dto.MovementResponse{
			ID:        m.ID,
			ItemID:    m.ItemID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			CreatedBy: m.CreatedBy,
			CreatedAt: domain.FormatTime(m.CreatedAt),
		})
	}
	return &dto.MovementListResponse{
		Movements: movs,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
