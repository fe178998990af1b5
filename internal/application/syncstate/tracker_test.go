package syncstate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_MarkUpdatedAvanzaElMarcador(t *testing.T) {
	tr := NewTracker()
	base := tr.LastUpdate()

	tr.MarkUpdated(base.Add(5 * time.Second))
	assert.Equal(t, base.Add(5*time.Second), tr.LastUpdate())

	// Un instante anterior no retrocede el marcador.
	tr.MarkUpdated(base.Add(-time.Hour))
	assert.Equal(t, base.Add(5*time.Second), tr.LastUpdate())
}

func TestTracker_PingRegistraClientes(t *testing.T) {
	tr := NewTracker()
	now := time.Now().UTC()

	tr.Ping("caja-1", now)
	tr.Ping("deposito", now.Add(time.Second))
	tr.Ping("", now) // ignorado

	clients := tr.Clients()
	assert.Len(t, clients, 2)
	assert.Equal(t, "caja-1", clients[0].ClientID)
	assert.Equal(t, "deposito", clients[1].ClientID)
}

func TestTracker_PingActualizaUltimaVez(t *testing.T) {
	tr := NewTracker()
	first := time.Now().UTC()
	later := first.Add(30 * time.Second)

	tr.Ping("caja-1", first)
	tr.Ping("caja-1", later)

	clients := tr.Clients()
	assert.Len(t, clients, 1)
	assert.Equal(t, later, clients[0].LastSeen)
}

func TestTracker_AccesoConcurrente(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.MarkUpdated(time.Now().UTC())
		}()
		go func() {
			defer wg.Done()
			tr.Ping("caja-1", time.Now().UTC())
			_ = tr.LastUpdate()
			_ = tr.Clients()
		}()
	}
	wg.Wait()
	assert.Len(t, tr.Clients(), 1)
}
