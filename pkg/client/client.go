// Package client implementa el cliente Go del servidor de inventario en LAN.
//
// Todas las operaciones toman un context.Context y devuelven errores tipados:
// los rechazos del servidor llegan como *APIError con el código y el mensaje
// del cuerpo {code, message}. El cliente presenta la clave compartida en
// X-API-KEY y se identifica con X-CLIENT-ID; las operaciones administrativas
// usan además el token Bearer que emite Unlock.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Cabeceras del protocolo.
const (
	HeaderAPIKey   = "X-API-KEY"
	HeaderClientID = "X-CLIENT-ID"
)

const defaultTimeout = 10 * time.Second

// APIError un rechazo del servidor con su código de error.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("servidor respondió %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reporta si err es un 404 del servidor.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Option configura el cliente.
type Option func(*Client)

// WithAPIKey fija la clave compartida de la LAN.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithClientID fija el identificador con el que el cliente se presenta.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// WithHTTPClient reemplaza el http.Client interno.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout ajusta el timeout por petición del http.Client interno.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// Client habla con un servidor de inventario. Es seguro para uso concurrente.
type Client struct {
	baseURL  string
	clientID string
	http     *http.Client

	mu     sync.RWMutex
	apiKey string
	token  string
}

// New crea un cliente apuntando a baseURL (ej: "http://192.168.1.10:8000").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token devuelve el token de administración vigente, o "" si no hay sesión.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken retoma una sesión administrativa emitida antes.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ── Sincronización ────────────────────────────────────────────────────────────

// Ping verifica que el servidor está vivo y registra la presencia del cliente.
func (c *Client) Ping(ctx context.Context) (*PingInfo, error) {
	var out PingInfo
	if err := c.do(ctx, http.MethodGet, "/ping", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LastUpdate devuelve el marcador de última modificación del inventario.
func (c *Client) LastUpdate(ctx context.Context) (string, error) {
	var out lastUpdateEnvelope
	if err := c.do(ctx, http.MethodGet, "/last_update", nil, &out); err != nil {
		return "", err
	}
	return out.LastUpdate, nil
}

// ── Artículos ─────────────────────────────────────────────────────────────────

// ListItems trae el inventario completo.
func (c *Client) ListItems(ctx context.Context) (*ItemList, error) {
	var out ItemList
	if err := c.do(ctx, http.MethodGet, "/items", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetItem trae un artículo por su código. Un 404 del servidor se puede
// detectar con IsNotFound.
func (c *Client) GetItem(ctx context.Context, id string) (*Item, error) {
	var out Item
	if err := c.do(ctx, http.MethodGet, "/items/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertItem crea o sobrescribe un artículo.
func (c *Client) UpsertItem(ctx context.Context, in ItemInput) (*Item, error) {
	var out upsertEnvelope
	if err := c.do(ctx, http.MethodPost, "/items", in, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// UpdateItem sobrescribe el artículo id; el código de la URL manda sobre el
// del cuerpo.
func (c *Client) UpdateItem(ctx context.Context, id string, in ItemInput) (*Item, error) {
	var out upsertEnvelope
	if err := c.do(ctx, http.MethodPut, "/items/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// DeleteItem borra un artículo. Es idempotente: borrar un código inexistente
// no es un error.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+url.PathEscape(id), nil, nil)
}

// ── Ventas y devoluciones ─────────────────────────────────────────────────────

// Sell descuenta quantity unidades del artículo id.
func (c *Client) Sell(ctx context.Context, id string, quantity int64) (*MovementResult, error) {
	var out MovementResult
	in := map[string]any{"id": id, "quantity": quantity}
	if err := c.do(ctx, http.MethodPost, "/sell", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Return repone quantity unidades al artículo id.
func (c *Client) Return(ctx context.Context, id string, quantity int64) (*MovementResult, error) {
	var out MovementResult
	in := map[string]any{"id": id, "quantity": quantity}
	if err := c.do(ctx, http.MethodPost, "/return", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Movements consulta el historial de movimientos.
func (c *Client) Movements(ctx context.Context, q MovementQuery) (*MovementList, error) {
	vals := url.Values{}
	if q.ItemID != "" {
		vals.Set("item_id", q.ItemID)
	}
	if q.Type != "" {
		vals.Set("type", q.Type)
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		vals.Set("offset", strconv.Itoa(q.Offset))
	}
	path := "/movements"
	if len(vals) > 0 {
		path += "?" + vals.Encode()
	}
	var out MovementList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Respaldos ─────────────────────────────────────────────────────────────────

// CreateBackup pide al servidor tomar un respaldo ahora.
func (c *Client) CreateBackup(ctx context.Context) (*BackupCreated, error) {
	var out BackupCreated
	if err := c.do(ctx, http.MethodPost, "/backup", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBackups lista los respaldos disponibles, el más reciente primero.
func (c *Client) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	var out backupListEnvelope
	if err := c.do(ctx, http.MethodGet, "/list_backups", nil, &out); err != nil {
		return nil, err
	}
	return out.Backups, nil
}

// DownloadBackup descarga el respaldo name y lo escribe en w. Devuelve los
// bytes copiados.
func (c *Client) DownloadBackup(ctx context.Context, name string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download_backup/"+url.PathEscape(name), nil)
	if err != nil {
		return 0, fmt.Errorf("client: armar petición: %w", err)
	}
	c.setAuthHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("client: descargar respaldo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return 0, decodeAPIError(resp)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("client: escribir respaldo: %w", err)
	}
	return n, nil
}

// Restore restaura la base del servidor desde un respaldo. Exige sesión
// administrativa (Unlock).
func (c *Client) Restore(ctx context.Context, name string) (*RestoreResult, error) {
	var out RestoreResult
	in := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/admin/restore", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Reportes ──────────────────────────────────────────────────────────────────

// InventoryReportPDF descarga el reporte PDF del inventario.
func (c *Client) InventoryReportPDF(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reports/inventory.pdf", nil)
	if err != nil {
		return nil, fmt.Errorf("client: armar petición: %w", err)
	}
	c.setAuthHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: descargar reporte: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

// ── Administración ────────────────────────────────────────────────────────────

// Unlock abre una sesión administrativa con la clave maestra. El token queda
// guardado en el cliente y las operaciones administrativas siguientes lo usan.
func (c *Client) Unlock(ctx context.Context, masterKey, operator string) (*UnlockResult, error) {
	var out UnlockResult
	in := map[string]string{"master_key": masterKey, "operator": operator}
	if err := c.do(ctx, http.MethodPost, "/auth/unlock", in, &out); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return &out, nil
}

// RotateAPIKey reemplaza la clave compartida de la LAN. Solo exige la sesión
// administrativa, no la clave vigente; tras el cambio el cliente pasa a usar
// la clave nueva.
func (c *Client) RotateAPIKey(ctx context.Context, newKey string) error {
	in := map[string]string{"new_key": newKey}
	if err := c.do(ctx, http.MethodPut, "/auth/api_key", in, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.apiKey = newKey
	c.mu.Unlock()
	return nil
}

// RotateMasterKey reemplaza la clave maestra. Exige la vigente.
func (c *Client) RotateMasterKey(ctx context.Context, currentKey, newKey string) error {
	in := map[string]string{"current_key": currentKey, "new_key": newKey}
	return c.do(ctx, http.MethodPut, "/auth/master_key", in, nil)
}

// PurgeItems vacía el inventario completo del servidor. Devuelve cuántos
// artículos se eliminaron.
func (c *Client) PurgeItems(ctx context.Context) (int64, error) {
	var out purgeEnvelope
	if err := c.do(ctx, http.MethodDelete, "/admin/items", nil, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

// Events trae la bitácora de operaciones del servidor.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	path := "/admin/events"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out eventListEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// Clients lista los clientes vistos en la LAN.
func (c *Client) Clients(ctx context.Context) ([]ClientSeen, error) {
	var out clientListEnvelope
	if err := c.do(ctx, http.MethodGet, "/admin/clients", nil, &out); err != nil {
		return nil, err
	}
	return out.Clients, nil
}

// Status trae el resumen operativo del servidor.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	var out ServerStatus
	if err := c.do(ctx, http.MethodGet, "/admin/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Plomería ──────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: serializar cuerpo: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: armar petición: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decodificar respuesta de %s: %w", path, err)
	}
	return nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	c.mu.RLock()
	apiKey, token := c.apiKey, c.token
	c.mu.RUnlock()
	if apiKey != "" {
		req.Header.Set(HeaderAPIKey, apiKey)
	}
	if c.clientID != "" {
		req.Header.Set(HeaderClientID, c.clientID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// decodeAPIError interpreta el cuerpo {code, message}; si el cuerpo no es el
// sobre estándar, conserva el texto crudo como mensaje.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Code != "" {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
		return apiErr
	}
	apiErr.Code = "HTTP_" + strconv.Itoa(resp.StatusCode)
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
