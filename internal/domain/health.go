package domain

import "github.com/shopspring/decimal"

// HealthFactorInfinite is the sentinel health factor for positions with no
// outstanding debt. Stored instead of dividing by zero.
var HealthFactorInfinite = decimal.RequireFromString("9999.99")

// Health classification thresholds. Policy only; nothing in the system
// liquidates automatically.
var (
	healthSafeThreshold    = decimal.RequireFromString("1.5")
	healthWarningThreshold = decimal.RequireFromString("1.2")
)

// HealthStatus labels a health factor band
type HealthStatus string

const (
	HealthSafe    HealthStatus = "safe"
	HealthWarning HealthStatus = "warning"
	HealthDanger  HealthStatus = "danger"
)

// ComputeHealthFactor returns (collateralBtc*btcPrice + collateralUsdt) / borrowed,
// rounded to 2 decimal places. A position with zero borrowed amount has no
// liquidation risk, so the infinite sentinel is returned.
func ComputeHealthFactor(collateralBtc, collateralUsdt, borrowed, btcPrice decimal.Decimal) decimal.Decimal {
	if borrowed.IsZero() {
		return HealthFactorInfinite
	}
	collateralValue := collateralBtc.Mul(btcPrice).Add(collateralUsdt)
	return collateralValue.DivRound(borrowed, 2)
}

// ClassifyHealth maps a health factor to its risk band.
func ClassifyHealth(healthFactor decimal.Decimal) HealthStatus {
	switch {
	case healthFactor.GreaterThanOrEqual(healthSafeThreshold):
		return HealthSafe
	case healthFactor.GreaterThanOrEqual(healthWarningThreshold):
		return HealthWarning
	default:
		return HealthDanger
	}
}
