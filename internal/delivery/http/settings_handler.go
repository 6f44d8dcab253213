package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lendguard/internal/delivery/http/dto"
	"lendguard/internal/service"
)

// SettingsHandler serves user settings updates
type SettingsHandler struct {
	settings   *service.SettingsService
	demoUserID uuid.UUID
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *service.SettingsService, demoUserID uuid.UUID) *SettingsHandler {
	return &SettingsHandler{settings: settings, demoUserID: demoUserID}
}

// UpdateSettings handles PATCH /api/settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req dto.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request payload")
	}

	user, err := h.settings.UpdateSettings(c.Request().Context(), h.demoUserID, service.UpdateSettingsParams{
		AutoTopUpEnabled:        req.AutoTopUpEnabled,
		SmsAlertsEnabled:        req.SmsAlertsEnabled,
		LinkedWalletBalanceBtc:  req.LinkedWalletBalanceBtc,
		LinkedWalletBalanceUsdt: req.LinkedWalletBalanceUsdt,
	})
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]interface{}{"user": user})
}
