package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdrojas/repuestos-lan/pkg/client"
)

// ──────────────────────────────────────────────────────────────────────────────
// Cabeceras y errores
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_EnviaCabecerasDeAutenticacion(t *testing.T) {
	var gotKey, gotClientID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(client.HeaderAPIKey)
		gotClientID = r.Header.Get(client.HeaderClientID)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithAPIKey("clave-lan"), client.WithClientID("caja-1"))
	_, err := c.Ping(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "clave-lan", gotKey)
	assert.Equal(t, "caja-1", gotClientID)
}

func TestClient_DecodificaElSobreDeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "UNAUTHORIZED",
			"message": "api_key_invalida_o_faltante",
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.ListItems(context.Background())
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "api_key_invalida_o_faltante", apiErr.Message)
}

func TestClient_ErrorSinSobreConservaElCuerpo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("se rompió todo"))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.ListItems(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP_500", apiErr.Code)
	assert.Equal(t, "se rompió todo", apiErr.Message)
}

func TestClient_GetItemInexistenteEsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "NOT_FOUND", "message": "no encontrado"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.GetItem(context.Background(), "NO-EXISTE")
	assert.True(t, client.IsNotFound(err), "un 404 debe detectarse con IsNotFound")
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_VentaMandaCuerpoYDecodificaResultado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/sell", r.URL.Path)
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "FIL-001", in["id"])
		assert.EqualValues(t, 4, in["quantity"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true, "new_quantity": 6,
			"item": map[string]any{"id": "FIL-001", "quantity": 6},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	out, err := c.Sell(context.Background(), "FIL-001", 4)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.EqualValues(t, 6, out.NewQuantity)
	assert.Equal(t, "FIL-001", out.Item.ID)
}

func TestClient_MovementsArmaLaQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{"movements": []any{}, "page": map[string]int{"limit": 20}})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.Movements(context.Background(), client.MovementQuery{
		ItemID: "FIL-001", Type: "SALE", Limit: 20,
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "item_id=FIL-001")
	assert.Contains(t, gotQuery, "type=SALE")
	assert.Contains(t, gotQuery, "limit=20")
}

func TestClient_DownloadBackupEscribeLosBytes(t *testing.T) {
	payload := []byte("SQLite format 3\x00resto-del-archivo")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/download_backup/backup_20240101120000.db", r.URL.Path)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	var buf bytes.Buffer
	n, err := c.DownloadBackup(context.Background(), "backup_20240101120000.db", &buf)
	require.NoError(t, err)
	assert.EqualValues(t, len(payload), n)
	assert.Equal(t, payload, buf.Bytes())
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión administrativa
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_UnlockGuardaElTokenParaLlamadasSiguientes(t *testing.T) {
	var mu sync.Mutex
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/unlock":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"token": "token-de-prueba", "operator": "jose",
			})
		case "/admin/status":
			mu.Lock()
			gotAuth = r.Header.Get("Authorization")
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
		}
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	out, err := c.Unlock(context.Background(), "clave-maestra", "jose")
	require.NoError(t, err)
	assert.Equal(t, "token-de-prueba", out.Token)
	assert.Equal(t, "token-de-prueba", c.Token())

	_, err = c.Status(context.Background())
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer token-de-prueba", gotAuth,
		"las llamadas administrativas deben llevar el token emitido")
}

func TestClient_RotateAPIKeyAdoptaLaClaveNueva(t *testing.T) {
	var mu sync.Mutex
	var lastKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		lastKey = r.Header.Get(client.HeaderAPIKey)
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithAPIKey("clave-vieja"))
	require.NoError(t, c.RotateAPIKey(context.Background(), "clave-nueva-123"))

	_, err := c.Ping(context.Background())
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "clave-nueva-123", lastKey,
		"tras rotar, el cliente debe presentar la clave nueva")
}

// ──────────────────────────────────────────────────────────────────────────────
// Watcher
// ──────────────────────────────────────────────────────────────────────────────

func TestWatch_EntregaInicialYTrasCadaCambio(t *testing.T) {
	var mu sync.Mutex
	lastUpdate := "2024-01-01 10:00:00"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		lu := lastUpdate
		mu.Unlock()
		switch r.URL.Path {
		case "/last_update":
			_ = json.NewEncoder(w).Encode(map[string]string{"last_update": lu})
		case "/items":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items":       []map[string]any{{"id": "FIL-001", "quantity": 5}},
				"server_time": lu,
				"last_update": lu,
			})
		}
	}))
	defer srv.Close()

	deliveries := make(chan string, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := client.New(srv.URL)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, 10*time.Millisecond, func(items []client.Item, lu string) {
			deliveries <- lu
		})
	}()

	// Entrega inicial sin esperar cambios.
	select {
	case lu := <-deliveries:
		assert.Equal(t, "2024-01-01 10:00:00", lu)
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó la entrega inicial")
	}

	// Un cambio del marcador dispara otra entrega.
	mu.Lock()
	lastUpdate = "2024-01-01 10:05:00"
	mu.Unlock()
	select {
	case lu := <-deliveries:
		assert.Equal(t, "2024-01-01 10:05:00", lu)
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó la entrega tras el cambio")
	}

	// Cancelar corta el bucle.
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch no terminó tras cancelar el contexto")
	}
}
