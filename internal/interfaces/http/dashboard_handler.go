package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventorysync-api/internal/application/analytics"
	"github.com/jhoicas/inventorysync-api/internal/application/dto"
)

// DashboardHandler maneja las peticiones HTTP del dashboard (protegido).
type DashboardHandler struct {
	useCase *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(useCase *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{useCase: useCase}
}

// GetStats godoc
// @Summary      Estadísticas generales del inventario
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.useCase.GetStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(stats)
}

// GetTrends godoc
// @Summary      Tendencias de movimientos por día y tipo
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días hacia atrás (máx 90)"  default(7)
// @Success      200  {array}  dto.TrendPointDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/trends [get]
func (h *DashboardHandler) GetTrends(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	points, err := h.useCase.GetTrends(c.Context(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(points)
}

// GetTopSKUs godoc
// @Summary      Productos más vendidos (por salidas)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TopSKUDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/top-skus [get]
func (h *DashboardHandler) GetTopSKUs(c *fiber.Ctx) error {
	skus, err := h.useCase.GetTopSKUs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(skus)
}
