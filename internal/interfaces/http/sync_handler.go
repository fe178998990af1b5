package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/application/syncstate"
	"github.com/jdrojas/repuestos-lan/internal/domain"
)

// SyncHandler atiende el latido y el marcador de sincronización.
// Son las rutas más golpeadas: cada cliente de la LAN las consulta en bucle.
type SyncHandler struct {
	tracker *syncstate.Tracker
}

// NewSyncHandler crea una nueva instancia de SyncHandler.
func NewSyncHandler(tracker *syncstate.Tracker) *SyncHandler {
	return &SyncHandler{tracker: tracker}
}

// Ping godoc
// @Summary      Latido del servidor
// @Description  Confirma que el servidor está vivo y devuelve hora y marcador de última actualización
// @Tags         sincronizacion
// @Produce      json
// @Param        X-CLIENT-ID  header    string  false  "Identificador del cliente"
// @Success      200          {object}  dto.PingResponse
// @Router       /ping [get]
func (h *SyncHandler) Ping(c *fiber.Ctx) error {
	now := time.Now().UTC()
	return c.JSON(dto.PingResponse{
		OK:         true,
		ServerTime: domain.FormatTime(now),
		LastUpdate: domain.FormatTime(h.tracker.LastUpdate()),
	})
}

// LastUpdate godoc
// @Summary      Marcador de última actualización
// @Description  Devuelve el instante de la última escritura al inventario; los clientes deciden con él si refrescan
// @Tags         sincronizacion
// @Produce      json
// @Success      200  {object}  dto.LastUpdateResponse
// @Router       /last_update [get]
func (h *SyncHandler) LastUpdate(c *fiber.Ctx) error {
	return c.JSON(dto.LastUpdateResponse{
		LastUpdate: domain.FormatTime(h.tracker.LastUpdate()),
	})
}
