// Package report genera reportes imprimibles del inventario.
package report

import (
	"time"

	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

// Generator produce el PDF del inventario.
type Generator interface {
	GenerateStockReport(items []*entity.Item, generatedAt time.Time) ([]byte, error)
}

// UseCase casos de uso de reportes.
type UseCase struct {
	itemRepo repository.ItemRepository
	gen      Generator
}

// NewUseCase construye el caso de uso.
func NewUseCase(itemRepo repository.ItemRepository, gen Generator) *UseCase {
	return &UseCase{itemRepo: itemRepo, gen: gen}
}

// InventoryPDF genera el PDF con el inventario visible completo.
func (uc *UseCase) InventoryPDF() ([]byte, error) {
	items, err := uc.itemRepo.List()
	if err != nil {
		return nil, err
	}
	return uc.gen.GenerateStockReport(items, time.Now().UTC())
}
