package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/auth"
	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/application/syncstate"
	"github.com/jdrojas/repuestos-lan/internal/domain"
	"github.com/jdrojas/repuestos-lan/pkg/logger"
)

// Cabeceras que presentan los clientes de la LAN.
const (
	HeaderAPIKey   = "X-API-KEY"
	HeaderClientID = "X-CLIENT-ID"
)

// LocalClientID key del identificador de cliente en Fiber.
const LocalClientID = "client_id"

// ClientPresenceMiddleware registra la presencia de cada cliente que se
// identifica con X-CLIENT-ID, incluso en rutas públicas como /ping.
func ClientPresenceMiddleware(tracker *syncstate.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if clientID := strings.TrimSpace(c.Get(HeaderClientID)); clientID != "" {
			c.Locals(LocalClientID, clientID)
			tracker.Ping(clientID, time.Now().UTC())
		}
		return c.Next()
	}
}

// APIKeyMiddleware exige la clave compartida X-API-KEY en cada petición.
// Si el servidor no tiene clave configurada rechaza todo con 403; si la
// clave no coincide, 401. Ambos rechazos quedan en el log con la IP remota.
func APIKeyMiddleware(authUC *auth.UseCase, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := authUC.VerifyAPIKey(c.Get(HeaderAPIKey))
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrNotConfigured):
			log.Warn().Str("ip", c.IP()).Msg("petición rechazada: servidor sin clave configurada")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "server_api_key_no_configurada"})
		case errors.Is(err, domain.ErrUnauthorized):
			log.Warn().Str("ip", c.IP()).Str("client_id", ClientID(c)).Msg("clave compartida inválida")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "api_key_invalida_o_faltante"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
}

// ClientID devuelve el identificador de cliente de la petición, o "" si no
// envió la cabecera.
func ClientID(c *fiber.Ctx) string {
	v := c.Locals(LocalClientID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// clientActor identifica al autor de una mutación para la bitácora: el
// X-CLIENT-ID si vino, o la IP remota como último recurso.
func clientActor(c *fiber.Ctx) string {
	if id := ClientID(c); id != "" {
		return id
	}
	return c.IP()
}
