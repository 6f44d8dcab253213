package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lendguard/internal/delivery/http/dto"
	"lendguard/internal/service"
)

// TopUpHandler serves manual top-ups and the transaction history
type TopUpHandler struct {
	topUps     *service.TopUpService
	demoUserID uuid.UUID
}

// NewTopUpHandler creates a new TopUpHandler
func NewTopUpHandler(topUps *service.TopUpService, demoUserID uuid.UUID) *TopUpHandler {
	return &TopUpHandler{topUps: topUps, demoUserID: demoUserID}
}

// PerformTopUp handles POST /api/topup
func (h *TopUpHandler) PerformTopUp(c echo.Context) error {
	var req dto.TopUpRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request payload")
	}
	if req.LoanPositionID == uuid.Nil {
		return BadRequestResponse(c, "loanPositionId is required")
	}

	txn, err := h.topUps.PerformTopUp(c.Request().Context(), service.TopUpParams{
		UserID:         h.demoUserID,
		LoanPositionID: req.LoanPositionID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		IsAutomatic:    false,
	})
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]interface{}{"transaction": txn})
}

// GetTransactions handles GET /api/transactions
func (h *TopUpHandler) GetTransactions(c echo.Context) error {
	txns, err := h.topUps.RecentTransactions(c.Request().Context(), h.demoUserID, 20)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, map[string]interface{}{"transactions": txns})
}
