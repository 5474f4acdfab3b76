package handlers

import (
	"context"

	"library-api/internal/core/services"
	"library-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardProvider builds the library overview
type DashboardProvider interface {
	GetDashboard(ctx context.Context) (*services.DashboardData, error)
}

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService DashboardProvider
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService DashboardProvider) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the library overview
// @Summary Library Dashboard
// @Description Catalogue, member and loan counts with this month's activity
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetDashboard(c.Context())
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}
