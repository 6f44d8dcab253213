package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lendguard/internal/delivery/http/dto"
	"lendguard/internal/domain"
	"lendguard/internal/service"
)

// NotificationHandler serves notification reads and the risk trigger
// endpoint that may fire an automatic top-up
type NotificationHandler struct {
	notifications *service.NotificationService
	topUps        *service.TopUpService
	demoUserID    uuid.UUID
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *service.NotificationService, topUps *service.TopUpService, demoUserID uuid.UUID) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		topUps:        topUps,
		demoUserID:    demoUserID,
	}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c echo.Context) error {
	notifications, err := h.notifications.List(c.Request().Context(), h.demoUserID, 20)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, notifications)
}

// MarkRead handles PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "invalid notification id")
	}

	notification, err := h.notifications.MarkRead(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]interface{}{"notification": notification})
}

// Trigger handles POST /api/notifications/trigger. Duplicate triggers for
// the same risk level within the guard window are acknowledged but skipped.
func (h *NotificationHandler) Trigger(c echo.Context) error {
	var req dto.TriggerNotificationRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request payload")
	}

	riskLevel := req.RiskLevel
	if riskLevel == "" {
		riskLevel = domain.RiskLow
	}

	result, err := h.topUps.HandleRiskTrigger(c.Request().Context(), h.demoUserID, riskLevel)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, result)
}
