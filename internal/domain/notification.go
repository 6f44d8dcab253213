package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a user-visible alert. Mutated only to flip IsRead.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification type constants
const (
	NotificationTopUpSuccess = "topup_success"
	NotificationTopUpFailed  = "topup_failed"
	NotificationPriceAlert   = "price_alert"
	NotificationRepayment    = "repayment"
)

// RiskSignal is the output of a pluggable risk assessor. The top-up engine
// only depends on this shape, not on how it was produced.
type RiskSignal struct {
	RiskLevel  string  `json:"riskLevel"`
	Confidence float64 `json:"confidence"`
}

// Risk levels reported by assessors and accepted by the trigger endpoint
const (
	RiskLow        = "low"
	RiskMedium     = "medium"
	RiskMediumHigh = "medium-high"
	RiskHigh       = "high"
)

// ElevatedRisk reports whether a risk level should arm auto top-up.
func ElevatedRisk(level string) bool {
	return level == RiskHigh || level == RiskMediumHigh
}
