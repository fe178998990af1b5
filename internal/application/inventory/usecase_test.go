package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/application/inventory"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks y dobles de test
// ──────────────────────────────────────────────────────────────────────────────

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Upsert(item *entity.Item) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(id string) (*entity.Item, error) {
	args := m.Called(id)
	if v := args.Get(0); v != nil {
		return v.(*entity.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemRepository) List() ([]*entity.Item, error) {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.([]*entity.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockItemRepository) UpdateQuantity(id string, quantity int64, now time.Time) error {
	args := m.Called(id, quantity, now)
	return args.Error(0)
}

func (m *MockItemRepository) SoftDelete(id string, now time.Time) (bool, error) {
	args := m.Called(id, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) DeleteAll() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(mov *entity.Movement) error {
	args := m.Called(mov)
	return args.Error(0)
}

func (m *MockMovementRepository) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	args := m.Called(filter)
	if v := args.Get(0); v != nil {
		return v.([]*entity.Movement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMovementRepository) DeleteAll() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// stubTxRunner ejecuta fn directamente con los repos dados, sin transacción real.
type stubTxRunner struct {
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
}

func (s *stubTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	return fn(s.itemRepo, s.movRepo)
}

type spyNotifier struct {
	marks []time.Time
}

func (s *spyNotifier) MarkUpdated(at time.Time) { s.marks = append(s.marks, at) }

type spyAuditor struct {
	actions []string
}

func (s *spyAuditor) Record(_, action, _ string) { s.actions = append(s.actions, action) }

func itemFixture(id string, qty int64) *entity.Item {
	return &entity.Item{
		ID:        id,
		Name:      "Bujia NGK",
		Quantity:  qty,
		PriceUSD:  decimal.NewFromFloat(3.50),
		PriceBs:   decimal.NewFromFloat(120.00),
		UpdatedAt: time.Now().UTC(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ItemUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestItemUseCase_UpsertGuardaYNotifica(t *testing.T) {
	itemRepo := new(MockItemRepository)
	notifier := &spyNotifier{}
	auditor := &spyAuditor{}
	uc := inventory.NewItemUseCase(itemRepo, nil, notifier, auditor)

	itemRepo.On("Upsert", mock.AnythingOfType("*entity.Item")).Return(nil)

	resp, err := uc.Upsert(dto.UpsertItemRequest{
		ID:       "BUJ-NGK-01",
		Name:     "  Bujia NGK  ",
		Quantity: 12,
		PriceUSD: decimal.NewFromFloat(3.50),
		PriceBs:  decimal.NewFromFloat(120.00),
	}, "caja-1")

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "BUJ-NGK-01", resp.ID)
	assert.Equal(t, "Bujia NGK", resp.Name, "el nombre debe guardarse sin espacios sobrantes")
	assert.Equal(t, int64(12), resp.Quantity)
	assert.NotEmpty(t, resp.UpdatedAt)

	assert.Len(t, notifier.marks, 1, "el upsert debe mover el marcador de sincronización")
	assert.Equal(t, []string{entity.EventItemUpsert}, auditor.actions)
	itemRepo.AssertExpectations(t)
}

func TestItemUseCase_UpsertRechazaEntradaInvalida(t *testing.T) {
	itemRepo := new(MockItemRepository)
	uc := inventory.NewItemUseCase(itemRepo, nil, &spyNotifier{}, &spyAuditor{})

	cases := []dto.UpsertItemRequest{
		{ID: "", Name: "Filtro"},
		{ID: "FIL-01", Name: "   "},
		{ID: "FIL-01", Name: "Filtro", Quantity: -1},
		{ID: "FIL-01", Name: "Filtro", PriceUSD: decimal.NewFromInt(-2)},
		{ID: "FIL-01", Name: "Filtro", PriceBs: decimal.NewFromInt(-1)},
	}
	for _, in := range cases {
		_, err := uc.Upsert(in, "caja-1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	itemRepo.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestItemUseCase_GetByIDInexistenteDevuelveNil(t *testing.T) {
	itemRepo := new(MockItemRepository)
	uc := inventory.NewItemUseCase(itemRepo, nil, &spyNotifier{}, &spyAuditor{})

	itemRepo.On("GetByID", "NO-EXISTE").Return(nil, nil)

	resp, err := uc.GetByID("NO-EXISTE")
	require.NoError(t, err)
	assert.Nil(t, resp, "un ID desconocido devuelve nil sin error; el handler decide el 404")
}

func TestItemUseCase_DeleteEsIdempotente(t *testing.T) {
	itemRepo := new(MockItemRepository)
	notifier := &spyNotifier{}
	auditor := &spyAuditor{}
	uc := inventory.NewItemUseCase(itemRepo, nil, notifier, auditor)

	// Primer borrado: la fila existía.
	itemRepo.On("SoftDelete", "BUJ-NGK-01", mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	require.NoError(t, uc.Delete("BUJ-NGK-01", "caja-1"))
	assert.Len(t, notifier.marks, 1)
	assert.Equal(t, []string{entity.EventItemDelete}, auditor.actions)

	// Segundo borrado del mismo ID: ya no existe, igual termina bien pero
	// sin mover el marcador ni duplicar el evento.
	itemRepo.On("SoftDelete", "BUJ-NGK-01", mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	require.NoError(t, uc.Delete("BUJ-NGK-01", "caja-1"))
	assert.Len(t, notifier.marks, 1)
	assert.Len(t, auditor.actions, 1)
	itemRepo.AssertExpectations(t)
}

func TestItemUseCase_PurgeBorraMovimientosPrimero(t *testing.T) {
	itemRepo := new(MockItemRepository)
	movRepo := new(MockMovementRepository)
	notifier := &spyNotifier{}
	auditor := &spyAuditor{}
	runner := &stubTxRunner{itemRepo: itemRepo, movRepo: movRepo}
	uc := inventory.NewItemUseCase(itemRepo, runner, notifier, auditor)

	var order []string
	movRepo.On("DeleteAll").Run(func(mock.Arguments) {
		order = append(order, "movements")
	}).Return(int64(7), nil)
	itemRepo.On("DeleteAll").Run(func(mock.Arguments) {
		order = append(order, "items")
	}).Return(int64(3), nil)

	removed, err := uc.Purge(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Equal(t, []string{"movements", "items"},
		order, "los movimientos deben borrarse antes que los artículos por la clave foránea")
	assert.Len(t, notifier.marks, 1)
	assert.Equal(t, []string{entity.EventPurge}, auditor.actions)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests MovementUseCase — ventas y devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementUseCase_SellDescuentaStock(t *testing.T) {
	itemRepo := new(MockItemRepository)
	movRepo := new(MockMovementRepository)
	notifier := &spyNotifier{}
	auditor := &spyAuditor{}
	runner := &stubTxRunner{itemRepo: itemRepo, movRepo: movRepo}
	uc := inventory.NewMovementUseCase(runner, movRepo, notifier, auditor)

	itemRepo.On("GetByID", "BUJ-NGK-01").Return(itemFixture("BUJ-NGK-01", 10), nil)
	itemRepo.On("UpdateQuantity", "BUJ-NGK-01", int64(7), mock.AnythingOfType("time.Time")).Return(nil)
	movRepo.On("Create", mock.MatchedBy(func(m *entity.Movement) bool {
		return m.Type == entity.MovementTypeSale && m.Quantity == -3 && m.ItemID == "BUJ-NGK-01"
	})).Return(nil)

	resp, err := uc.Sell(context.Background(), dto.SellRequest{ID: "BUJ-NGK-01", Quantity: 3}, "caja-1")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, int64(7), resp.NewQuantity)
	assert.Equal(t, int64(7), resp.Item.Quantity)

	assert.Len(t, notifier.marks, 1)
	assert.Equal(t, []string{entity.EventSale}, auditor.actions)
	itemRepo.AssertExpectations(t)
	movRepo.AssertExpectations(t)
}

func TestMovementUseCase_SellStockInsuficiente(t *testing.T) {
	itemRepo := new(MockItemRepository)
	movRepo := new(MockMovementRepository)
	notifier := &spyNotifier{}
	runner := &stubTxRunner{itemRepo: itemRepo, movRepo: movRepo}
	uc := inventory.NewMovementUseCase(runner, movRepo, notifier, &spyAuditor{})

	itemRepo.On("GetByID", "BUJ-NGK-01").Return(itemFixture("BUJ-NGK-01", 2), nil)

	_, err := uc.Sell(context.Background(), dto.SellRequest{ID: "BUJ-NGK-01", Quantity: 5}, "caja-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	itemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	movRepo.AssertNotCalled(t, "Create", mock.Anything)
	assert.Empty(t, notifier.marks, "una venta rechazada no mueve el marcador")
}

func TestMovementUseCase_SellArticuloInexistente(t *testing.T) {
	itemRepo := new(MockItemRepository)
	movRepo := new(MockMovementRepository)
	runner := &stubTxRunner{itemRepo: itemRepo, movRepo: movRepo}
	uc := inventory.NewMovementUseCase(runner, movRepo, &spyNotifier{}, &spyAuditor{})

	itemRepo.On("GetByID", "NO-EXISTE").Return(nil, nil)

	_, err := uc.Sell(context.Background(), dto.SellRequest{ID: "NO-EXISTE", Quantity: 1}, "caja-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementUseCase_SellRechazaCantidadInvalida(t *testing.T) {
	uc := inventory.NewMovementUseCase(&stubTxRunner{}, new(MockMovementRepository), &spyNotifier{}, &spyAuditor{})

	_, err := uc.Sell(context.Background(), dto.SellRequest{ID: "BUJ-NGK-01", Quantity: 0}, "caja-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Sell(context.Background(), dto.SellRequest{ID: "", Quantity: 3}, "caja-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementUseCase_ReturnSumaStock(t *testing.T) {
	itemRepo := new(MockItemRepository)
	movRepo := new(MockMovementRepository)
	notifier := &spyNotifier{}
	auditor := &spyAuditor{}
	runner := &stubTxRunner{itemRepo: itemRepo, movRepo: movRepo}
	uc := inventory.NewMovementUseCase(runner, movRepo, notifier, auditor)

	itemRepo.On("GetByID", "BUJ-NGK-01").Return(itemFixture("BUJ-NGK-01", 2), nil)
	itemRepo.On("UpdateQuantity", "BUJ-NGK-01", int64(5), mock.AnythingOfType("time.Time")).Return(nil)
	movRepo.On("Create", mock.MatchedBy(func(m *entity.Movement) bool {
		return m.Type == entity.MovementTypeReturn && m.Quantity == 3
	})).Return(nil)

	resp, err := uc.Return(context.Background(), dto.ReturnRequest{ID: "BUJ-NGK-01", Quantity: 3}, "caja-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.NewQuantity)
	assert.Equal(t, []string{entity.EventReturn}, auditor.actions)
	itemRepo.AssertExpectations(t)
	movRepo.AssertExpectations(t)
}

func TestMovementUseCase_ListRechazaTipoDesconocido(t *testing.T) {
	uc := inventory.NewMovementUseCase(&stubTxRunner{}, new(MockMovementRepository), &spyNotifier{}, &spyAuditor{})

	_, err := uc.List("", "TRANSFER", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementUseCase_ListAplicaPaginadoPorDefecto(t *testing.T) {
	movRepo := new(MockMovementRepository)
	uc := inventory.NewMovementUseCase(&stubTxRunner{}, movRepo, &spyNotifier{}, &spyAuditor{})

	movRepo.On("List", repository.MovementFilter{Limit: 50}).Return([]*entity.Movement{
		{ID: "m1", ItemID: "BUJ-NGK-01", Type: entity.MovementTypeSale, Quantity: -2, CreatedAt: time.Now().UTC()},
	}, nil)

	resp, err := uc.List("", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Movements, 1)
	assert.Equal(t, 50, resp.Page.Limit)
	movRepo.AssertExpectations(t)
}
