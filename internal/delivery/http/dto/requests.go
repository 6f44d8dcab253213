// Package dto defines the request payload shapes for the REST surface.
// Monetary fields bind through decimal.Decimal, which accepts both quoted
// and bare JSON numbers without ever passing through a float.
package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest is the POST /api/loans/new payload
type CreateLoanRequest struct {
	PositionName   string          `json:"positionName"`
	CollateralBtc  decimal.Decimal `json:"collateralBtc"`
	BorrowedAmount decimal.Decimal `json:"borrowedAmount"`
}

// RepayLoanRequest is the PATCH /api/loans/:id/repay payload
type RepayLoanRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// TopUpRequest is the POST /api/topup payload
type TopUpRequest struct {
	LoanPositionID uuid.UUID       `json:"loanPositionId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
}

// UpdateSettingsRequest is the PATCH /api/settings payload; absent fields
// stay untouched
type UpdateSettingsRequest struct {
	AutoTopUpEnabled        *bool            `json:"autoTopUpEnabled"`
	SmsAlertsEnabled        *bool            `json:"smsAlertsEnabled"`
	LinkedWalletBalanceBtc  *decimal.Decimal `json:"linkedWalletBalanceBtc"`
	LinkedWalletBalanceUsdt *decimal.Decimal `json:"linkedWalletBalanceUsdt"`
}

// TriggerNotificationRequest is the POST /api/notifications/trigger payload
type TriggerNotificationRequest struct {
	RiskLevel string `json:"riskLevel"`
}
