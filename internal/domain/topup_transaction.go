package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopUpTransaction is an immutable audit record of one collateral addition
type TopUpTransaction struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	LoanPositionID uuid.UUID       `json:"loanPositionId"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	IsAutomatic    bool            `json:"isAutomatic"`
	TxHash         string          `json:"txHash"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// TopUpTransaction status constants
const (
	TopUpStatusPending   = "pending"
	TopUpStatusCompleted = "completed"
	TopUpStatusFailed    = "failed"
)
