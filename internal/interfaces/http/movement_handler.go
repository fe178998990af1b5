package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/application/inventory"
	"github.com/jdrojas/repuestos-lan/internal/domain"
)

// MovementHandler maneja ventas, devoluciones y el historial de movimientos (protegido).
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Sell godoc
// @Summary      Registrar una venta
// @Description  Descuenta unidades del artículo y deja el movimiento en el historial
// @Tags         movimientos
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SellRequest  true  "Artículo y unidades a descontar"
// @Success      200   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /sell [post]
func (h *MovementHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Sell(c.Context(), in, clientActor(c))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id y quantity (> 0) son requeridos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no encontrado"})
		}
		if err == domain.ErrInsufficientStock {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Registrar una devolución
// @Description  Repone unidades al artículo y deja el movimiento en el historial
// @Tags         movimientos
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnRequest  true  "Artículo y unidades a reponer"
// @Success      200   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /return [post]
func (h *MovementHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Return(c.Context(), in, clientActor(c))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id y quantity (> 0) son requeridos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         movimientos
// @Security     ApiKeyAuth
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por artículo"
// @Param        type     query  string  false  "SALE o RETURN"
// @Param        limit    query  int     false  "Límite"   default(50)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200      {object}  dto.MovementListResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	out, err := h.uc.List(c.Query("item_id"), c.Query("type"), page)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser SALE o RETURN"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
