package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanPosition represents one borrow/collateral pairing owned by a user
type LoanPosition struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	PositionName     string          `json:"positionName"`
	CollateralBtc    decimal.Decimal `json:"collateralBtc"`
	CollateralUsdt   decimal.Decimal `json:"collateralUsdt"`
	BorrowedAmount   decimal.Decimal `json:"borrowedAmount"`
	Apr              decimal.Decimal `json:"apr"`
	HealthFactor     decimal.Decimal `json:"healthFactor"`
	IsProtected      bool            `json:"isProtected"`
	LiquidationPrice decimal.Decimal `json:"liquidationPrice"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// AddCollateral increments the pledged collateral for the given currency.
func (p *LoanPosition) AddCollateral(currency string, amount decimal.Decimal) {
	if currency == CurrencyBTC {
		p.CollateralBtc = p.CollateralBtc.Add(amount)
		return
	}
	p.CollateralUsdt = p.CollateralUsdt.Add(amount)
}

// CollateralValue returns the USD value of the pledged collateral at the
// given BTC price.
func (p *LoanPosition) CollateralValue(btcPrice decimal.Decimal) decimal.Decimal {
	return p.CollateralBtc.Mul(btcPrice).Add(p.CollateralUsdt)
}

// RecomputeHealth refreshes the stored health factor from current collateral,
// debt and the given BTC price.
func (p *LoanPosition) RecomputeHealth(btcPrice decimal.Decimal) {
	p.HealthFactor = ComputeHealthFactor(p.CollateralBtc, p.CollateralUsdt, p.BorrowedAmount, btcPrice)
}
