package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/auth"
	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/domain"
)

// AuthHandler maneja el desbloqueo administrativo y la rotación de claves.
// Unlock es público (la clave maestra es la credencial); las rotaciones exigen
// el token emitido por Unlock, nunca la clave compartida de la LAN.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Unlock godoc
// @Summary      Abrir sesión administrativa
// @Description  Verifica la clave maestra y emite un token de administración para el operador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UnlockRequest  true  "Clave maestra y operador"
// @Success      200   {object}  dto.UnlockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /auth/unlock [post]
func (h *AuthHandler) Unlock(c *fiber.Ctx) error {
	var in dto.UnlockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Unlock(in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "master_key y operator son requeridos"})
		}
		if err == domain.ErrNotConfigured {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "clave maestra no configurada"})
		}
		if err == domain.ErrUnauthorized {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "clave maestra incorrecta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RotateAPIKey godoc
// @Summary      Rotar la clave compartida de la LAN
// @Description  Reemplaza la clave que presentan los clientes; la anterior deja de valer al instante
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RotateAPIKeyRequest  true  "Clave nueva (mínimo 8 caracteres)"
// @Success      200   {object}  dto.OKResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /auth/api_key [put]
func (h *AuthHandler) RotateAPIKey(c *fiber.Ctx) error {
	var in dto.RotateAPIKeyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RotateAPIKey(in, GetOperator(c)); err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "new_key debe tener al menos 8 caracteres"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// RotateMasterKey godoc
// @Summary      Rotar la clave maestra
// @Description  Exige la clave maestra vigente además del token de administración
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RotateMasterKeyRequest  true  "Clave vigente y clave nueva"
// @Success      200   {object}  dto.OKResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /auth/master_key [put]
func (h *AuthHandler) RotateMasterKey(c *fiber.Ctx) error {
	var in dto.RotateMasterKeyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RotateMasterKey(in, GetOperator(c)); err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "new_key debe tener al menos 8 caracteres"})
		}
		if err == domain.ErrUnauthorized {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "clave maestra incorrecta"})
		}
		return respondError(c, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}
