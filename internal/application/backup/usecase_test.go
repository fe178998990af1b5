package backup_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdrojas/repuestos-lan/internal/application/backup"
	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/internal/domain/entity"
	"github.com/jdrojas/repuestos-lan/pkg/logger"
)

// fakeStore doble de test del almacén de respaldos en disco.
type fakeStore struct {
	mu         sync.Mutex
	snapshots  int
	pruneCalls []int
	listOut    []*entity.Backup
	preRestore string
	restoreErr error
	restored   string
}

func (f *fakeStore) Snapshot(prefix string) (*entity.Backup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots++
	return &entity.Backup{
		Name:      prefix + "_20240101120000.db",
		Size:      4096,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeStore) List() ([]*entity.Backup, error) {
	return f.listOut, nil
}

func (f *fakeStore) Restore(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restoreErr != nil {
		return "", f.restoreErr
	}
	f.restored = name
	return f.preRestore, nil
}

func (f *fakeStore) Prune(max int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneCalls = append(f.pruneCalls, max)
	return 0, nil
}

func (f *fakeStore) Resolve(name string) (string, error) {
	return "/tmp/backups/" + name, nil
}

func (f *fakeStore) snapshotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots
}

type spyNotifier struct {
	marks []time.Time
}

func (s *spyNotifier) MarkUpdated(at time.Time) { s.marks = append(s.marks, at) }

type spyAuditor struct {
	actions []string
	details []string
}

func (s *spyAuditor) Record(_, action, detail string) {
	s.actions = append(s.actions, action)
	s.details = append(s.details, detail)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests UseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestUseCase_CreateRespaldaYPoda(t *testing.T) {
	store := &fakeStore{}
	auditor := &spyAuditor{}
	uc := backup.NewUseCase(store, &spyNotifier{}, auditor, 5)

	resp, err := uc.Create("admin")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "backup_20240101120000.db", resp.Name)
	assert.Equal(t, resp.Name, resp.LocalCopy)
	assert.Equal(t, int64(4096), resp.Size)

	assert.Equal(t, []int{5}, store.pruneCalls, "tras respaldar debe podarse al máximo configurado")
	assert.Equal(t, []string{entity.EventBackup}, auditor.actions)
}

func TestUseCase_CreateSinPodaCuandoMaxEsCero(t *testing.T) {
	store := &fakeStore{}
	uc := backup.NewUseCase(store, &spyNotifier{}, &spyAuditor{}, 0)

	_, err := uc.Create("admin")
	require.NoError(t, err)
	assert.Empty(t, store.pruneCalls)
}

func TestUseCase_ListMapeaMetadatos(t *testing.T) {
	store := &fakeStore{listOut: []*entity.Backup{
		{Name: "backup_20240102080000.db", Size: 8192, CreatedAt: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
		{Name: "backup_20240101120000.db", Size: 4096, CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}}
	uc := backup.NewUseCase(store, &spyNotifier{}, &spyAuditor{}, 0)

	resp, err := uc.List()
	require.NoError(t, err)
	require.Len(t, resp.Backups, 2)
	assert.Equal(t, "backup_20240102080000.db", resp.Backups[0].Name)
	assert.Equal(t, "2024-01-02 08:00:00", resp.Backups[0].CreatedAt)
}

func TestUseCase_RestoreNotificaYAudita(t *testing.T) {
	store := &fakeStore{preRestore: "pre_restore_20240103090000.db"}
	notifier := &spyNotifier{}
	auditor := &spyAuditor{}
	uc := backup.NewUseCase(store, notifier, auditor, 0)

	resp, err := uc.Restore(dto.RestoreRequest{Name: "backup_20240101120000.db"}, "jose")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "backup_20240101120000.db", resp.Restored)
	assert.Equal(t, "pre_restore_20240103090000.db", resp.PreRestore)
	assert.NotEmpty(t, resp.LastUpdate)

	assert.Equal(t, "backup_20240101120000.db", store.restored)
	assert.Len(t, notifier.marks, 1, "restaurar debe forzar el refresco de todos los clientes")
	assert.Equal(t, []string{entity.EventRestore}, auditor.actions)
}

func TestUseCase_RestoreNombreVacio(t *testing.T) {
	uc := backup.NewUseCase(&fakeStore{}, &spyNotifier{}, &spyAuditor{}, 0)

	_, err := uc.Restore(dto.RestoreRequest{}, "jose")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Scheduler
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func TestScheduler_IntervaloCeroNoCorre(t *testing.T) {
	store := &fakeStore{}
	uc := backup.NewUseCase(store, &spyNotifier{}, &spyAuditor{}, 0)
	s := backup.NewScheduler(uc, 0, testLogger())

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run debería retornar de inmediato con intervalo cero")
	}
	assert.Zero(t, store.snapshotCount())
}

func TestScheduler_TomaRespaldoInicialYSeDetiene(t *testing.T) {
	store := &fakeStore{}
	uc := backup.NewUseCase(store, &spyNotifier{}, &spyAuditor{}, 0)
	s := backup.NewScheduler(uc, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// El respaldo inicial ocurre antes del primer tick.
	require.Eventually(t, func() bool { return store.snapshotCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run debería detenerse al cancelar el contexto")
	}
}
