package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusprint/stationery-admin/internal/core/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get loads stats, active orders and active printouts. Any failure fails the
// whole response.
//
// @Summary      Dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	d, err := h.dashboard.Load(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}
