package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdrojas/repuestos-lan/internal/application/report"
)

// ReportHandler sirve el reporte PDF del inventario (protegido).
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// InventoryPDF godoc
// @Summary      Reporte PDF del inventario
// @Description  Genera un PDF con el inventario completo y sus totales valorizados
// @Tags         reportes
// @Security     ApiKeyAuth
// @Produce      application/pdf
// @Success      200  {file}    file
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /reports/inventory.pdf [get]
func (h *ReportHandler) InventoryPDF(c *fiber.Ctx) error {
	pdf, err := h.uc.InventoryPDF()
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="inventario.pdf"`)
	return c.Send(pdf)
}
