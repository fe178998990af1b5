// Package syncstate mantiene el estado de sincronización compartido entre el
// servidor y los clientes de la LAN: el marcador global last_update que los
// clientes sondean para decidir cuándo refrescar, y el último ping de cada
// cliente para el panel de administración.
package syncstate

import (
	"sort"
	"sync"
	"time"
)

// ClientSeen último ping registrado de un cliente.
type ClientSeen struct {
	ClientID string
	LastSeen time.Time
}

// Tracker estado de sincronización protegido por mutex. Seguro para uso
// concurrente desde los handlers HTTP.
type Tracker struct {
	mu         sync.RWMutex
	lastUpdate time.Time
	clients    map[string]time.Time
	startedAt  time.Time
}

// NewTracker crea el tracker con last_update inicializado al arranque, igual
// que un servidor recién levantado ya publica un marcador válido.
func NewTracker() *Tracker {
	now := time.Now().UTC()
	return &Tracker{
		lastUpdate: now,
		clients:    make(map[string]time.Time),
		startedAt:  now,
	}
}

// MarkUpdated registra una mutación del inventario en el instante dado.
// Nunca retrocede el marcador.
func (t *Tracker) MarkUpdated(at time.Time) {
	at = at.UTC()
	t.mu.Lock()
	defer t.mu.Unlock()
	if at.After(t.lastUpdate) {
		t.lastUpdate = at
	}
}

// LastUpdate devuelve el instante de la última mutación.
func (t *Tracker) LastUpdate() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastUpdate
}

// Ping registra presencia de un cliente. clientID vacío se ignora.
func (t *Tracker) Ping(clientID string, at time.Time) {
	if clientID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clients[clientID] = at.UTC()
}

// Clients devuelve una instantánea de los clientes vistos, ordenada por ID.
func (t *Tracker) Clients() []ClientSeen {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ClientSeen, 0, len(t.clients))
	for id, seen := range t.clients {
		out = append(out, ClientSeen{ClientID: id, LastSeen: seen})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// StartedAt devuelve el instante de arranque del servidor.
func (t *Tracker) StartedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.startedAt
}
