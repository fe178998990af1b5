package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/backup"
	"github.com/jdrojas/repuestos-lan/internal/application/dto"
)

// BackupHandler maneja respaldos: creación, listado, descarga y restauración.
// Restore cuelga del grupo de administración; el resto basta con la clave compartida.
type BackupHandler struct {
	uc *backup.UseCase
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *backup.UseCase) *BackupHandler {
	return &BackupHandler{uc: uc}
}

// Create godoc
// @Summary      Crear un respaldo
// @Description  Copia íntegra y consistente de la base; poda los respaldos más viejos si hay tope configurado
// @Tags         respaldos
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  dto.BackupResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /backup [post]
func (h *BackupHandler) Create(c *fiber.Ctx) error {
	out, err := h.uc.Create(clientActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar respaldos disponibles
// @Tags         respaldos
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {object}  dto.BackupListResponse
// @Router       /list_backups [get]
func (h *BackupHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar un respaldo
// @Description  Envía el archivo del respaldo para guardar una copia fuera del servidor
// @Tags         respaldos
// @Security     ApiKeyAuth
// @Produce      application/octet-stream
// @Param        name  path  string  true  "Nombre del respaldo"
// @Success      200   {file}    file
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /download_backup/{name} [get]
func (h *BackupHandler) Download(c *fiber.Ctx) error {
	name := c.Params("name")
	path, err := h.uc.Resolve(name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Download(path, name)
}

// Restore godoc
// @Summary      Restaurar la base desde un respaldo
// @Description  Toma una copia pre_restore de la base actual y la reemplaza por el respaldo indicado
// @Tags         respaldos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestoreRequest  true  "Respaldo a restaurar"
// @Success      200   {object}  dto.RestoreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /admin/restore [post]
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	var in dto.RestoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Restore(in, GetOperator(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
