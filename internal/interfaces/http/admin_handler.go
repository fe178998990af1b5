package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/backup"
	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/application/events"
	"github.com/jdrojas/repuestos-lan/internal/application/inventory"
	"github.com/jdrojas/repuestos-lan/internal/application/syncstate"
	"github.com/jdrojas/repuestos-lan/internal/domain"
)

// AdminHandler maneja el panel de administración: vaciado del inventario,
// bitácora, clientes conectados y estado general. Todas sus rutas exigen
// el token de administración además de la clave compartida.
type AdminHandler struct {
	itemUC   *inventory.ItemUseCase
	backupUC *backup.UseCase
	events   *events.Recorder
	tracker  *syncstate.Tracker
}

// NewAdminHandler construye el handler.
func NewAdminHandler(itemUC *inventory.ItemUseCase, backupUC *backup.UseCase, events *events.Recorder, tracker *syncstate.Tracker) *AdminHandler {
	return &AdminHandler{itemUC: itemUC, backupUC: backupUC, events: events, tracker: tracker}
}

// PurgeItems godoc
// @Summary      Vaciar el inventario completo
// @Description  Elimina todos los artículos y su historial de movimientos en una sola transacción
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.PurgeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /admin/items [delete]
func (h *AdminHandler) PurgeItems(c *fiber.Ctx) error {
	removed, err := h.itemUC.Purge(c.Context(), GetOperator(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PurgeResponse{OK: true, Removed: removed})
}

// Events godoc
// @Summary      Bitácora de operaciones
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query  int  false  "Máximo de eventos"  default(100)
// @Success      200    {object}  dto.EventListResponse
// @Router       /admin/events [get]
func (h *AdminHandler) Events(c *fiber.Ctx) error {
	list, err := h.events.Recent(c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.EventListResponse{Events: list})
}

// Clients godoc
// @Summary      Clientes vistos en la LAN
// @Description  Cada cliente que envía X-CLIENT-ID queda registrado con su último contacto
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.ClientListResponse
// @Router       /admin/clients [get]
func (h *AdminHandler) Clients(c *fiber.Ctx) error {
	now := time.Now().UTC()
	seen := h.tracker.Clients()
	out := make([]dto.ClientInfo, 0, len(seen))
	for _, s := range seen {
		out = append(out, dto.ClientInfo{
			ClientID:   s.ClientID,
			LastSeen:   domain.FormatTime(s.LastSeen),
			SecondsAgo: int64(now.Sub(s.LastSeen).Seconds()),
		})
	}
	return c.JSON(dto.ClientListResponse{Clients: out})
}

// Status godoc
// @Summary      Estado general del servidor
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /admin/status [get]
func (h *AdminHandler) Status(c *fiber.Ctx) error {
	total, err := h.itemUC.Count()
	if err != nil {
		return respondError(c, err)
	}
	backups, err := h.backupUC.List()
	if err != nil {
		return respondError(c, err)
	}
	now := time.Now().UTC()
	return c.JSON(dto.StatusResponse{
		Status:        "ok",
		Items:         total,
		LastUpdate:    domain.FormatTime(h.tracker.LastUpdate()),
		ActiveClients: len(h.tracker.Clients()),
		Backups:       len(backups.Backups),
		UptimeSeconds: int64(now.Sub(h.tracker.StartedAt()).Seconds()),
	})
}
