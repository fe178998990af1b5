package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/dto"
	"github.com/jdrojas/repuestos-lan/internal/application/inventory"
	"github.com/jdrojas/repuestos-lan/internal/application/syncstate"
	"github.com/jdrojas/repuestos-lan/internal/domain"
)

// ItemHandler maneja las peticiones HTTP del catálogo de repuestos (protegido).
type ItemHandler struct {
	uc      *inventory.ItemUseCase
	tracker *syncstate.Tracker
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase, tracker *syncstate.Tracker) *ItemHandler {
	return &ItemHandler{uc: uc, tracker: tracker}
}

// List godoc
// @Summary      Listar inventario completo
// @Description  Devuelve todos los artículos visibles junto con los marcadores de sincronización
// @Tags         items
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  dto.ItemListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	now := time.Now().UTC()
	return c.JSON(dto.ItemListResponse{
		Items:      items,
		ServerTime: domain.FormatTime(now),
		LastUpdate: domain.FormatTime(h.tracker.LastUpdate()),
	})
}

// Create godoc
// @Summary      Crear o sobrescribir un artículo
// @Description  El ID lo elige el cliente; repetirlo sobrescribe el artículo completo
// @Tags         items
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertItemRequest  true  "Datos del artículo"
// @Success      200   {object}  dto.UpsertItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.UpsertItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ID == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id y name son requeridos"})
	}
	out, err := h.uc.Upsert(in, clientActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UpsertItemResponse{OK: true, Item: *out})
}

// GetByID godoc
// @Summary      Obtener un artículo por ID
// @Tags         items
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id   path  string  true  "Código del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no encontrado"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Sobrescribir un artículo por ID
// @Description  El ID de la ruta manda sobre el del cuerpo; crea el artículo si no existe
// @Tags         items
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Código del artículo"
// @Param        body  body  dto.UpsertItemRequest  true  "Datos del artículo"
// @Success      200   {object}  dto.UpsertItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpsertItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.ID = id
	out, err := h.uc.Upsert(in, clientActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UpsertItemResponse{OK: true, Item: *out})
}

// Delete godoc
// @Summary      Borrar un artículo
// @Description  Borrado lógico e idempotente: borrar un ID inexistente también responde ok
// @Tags         items
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id   path  string  true  "Código del artículo"
// @Success      200  {object}  dto.OKResponse
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(id, clientActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}
