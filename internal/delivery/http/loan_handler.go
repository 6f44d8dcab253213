package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lendguard/internal/delivery/http/dto"
	"lendguard/internal/service"
)

// LoanHandler serves loan creation, repayment and deletion
type LoanHandler struct {
	loans      *service.LoanService
	demoUserID uuid.UUID
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loans *service.LoanService, demoUserID uuid.UUID) *LoanHandler {
	return &LoanHandler{loans: loans, demoUserID: demoUserID}
}

// CreateLoan handles POST /api/loans/new
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req dto.CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request payload")
	}

	position, err := h.loans.CreateLoanPosition(
		c.Request().Context(), h.demoUserID, req.PositionName, req.CollateralBtc, req.BorrowedAmount)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return CreatedResponse(c, map[string]interface{}{"loan": position})
}

// RepayLoan handles PATCH /api/loans/:id/repay
func (h *LoanHandler) RepayLoan(c echo.Context) error {
	positionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "invalid loan position id")
	}

	var req dto.RepayLoanRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request payload")
	}

	position, err := h.loans.RepayLoan(
		c.Request().Context(), h.demoUserID, positionID, req.Amount, req.Currency)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]interface{}{"loan": position})
}

// DeleteLoan handles DELETE /api/loans/:id
func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	positionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "invalid loan position id")
	}

	if err := h.loans.DeleteLoanPosition(c.Request().Context(), h.demoUserID, positionID); err != nil {
		return DomainErrorResponse(c, err)
	}

	zap.L().Info("Loan position deleted", zap.String("position_id", positionID.String()))
	return SuccessResponse(c, nil)
}
