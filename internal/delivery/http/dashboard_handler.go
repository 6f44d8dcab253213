package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lendguard/internal/service"
)

// DashboardHandler serves the aggregated read-only dashboard view
type DashboardHandler struct {
	dashboard  *service.DashboardService
	demoUserID uuid.UUID
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *service.DashboardService, demoUserID uuid.UUID) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, demoUserID: demoUserID}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	snapshot, err := h.dashboard.Snapshot(c.Request().Context(), h.demoUserID)
	if err != nil {
		zap.L().Error("Dashboard snapshot failed", zap.Error(err))
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, snapshot)
}
