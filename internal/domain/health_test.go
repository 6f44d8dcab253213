package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeHealthFactor(t *testing.T) {
	tests := []struct {
		name           string
		collateralBtc  string
		collateralUsdt string
		borrowed       string
		btcPrice       string
		expected       string
	}{
		{
			name:           "btc only collateral",
			collateralBtc:  "0.10",
			collateralUsdt: "0",
			borrowed:       "1000",
			btcPrice:       "30000",
			expected:       "3",
		},
		{
			name:           "mixed collateral",
			collateralBtc:  "0.10",
			collateralUsdt: "500",
			borrowed:       "1000",
			btcPrice:       "30000",
			expected:       "3.5",
		},
		{
			name:           "usdt only collateral",
			collateralBtc:  "0",
			collateralUsdt: "1200",
			borrowed:       "1000",
			btcPrice:       "30000",
			expected:       "1.2",
		},
		{
			name:           "rounds to two decimal places",
			collateralBtc:  "0",
			collateralUsdt: "1000",
			borrowed:       "3000",
			btcPrice:       "30000",
			expected:       "0.33",
		},
		{
			name:           "underwater position",
			collateralBtc:  "0.01",
			collateralUsdt: "0",
			borrowed:       "1000",
			btcPrice:       "30000",
			expected:       "0.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHealthFactor(d(tt.collateralBtc), d(tt.collateralUsdt), d(tt.borrowed), d(tt.btcPrice))
			assert.True(t, d(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestComputeHealthFactorZeroDebt(t *testing.T) {
	got := ComputeHealthFactor(d("1"), d("0"), decimal.Zero, d("30000"))
	assert.True(t, HealthFactorInfinite.Equal(got))
}

func TestComputeHealthFactorDeterministic(t *testing.T) {
	first := ComputeHealthFactor(d("0.37"), d("812.45"), d("4321.99"), d("31247.82"))
	for i := 0; i < 10; i++ {
		again := ComputeHealthFactor(d("0.37"), d("812.45"), d("4321.99"), d("31247.82"))
		assert.True(t, first.Equal(again))
	}
}

func TestClassifyHealth(t *testing.T) {
	tests := []struct {
		factor   string
		expected HealthStatus
	}{
		{"3.00", HealthSafe},
		{"1.50", HealthSafe},
		{"1.49", HealthWarning},
		{"1.20", HealthWarning},
		{"1.19", HealthDanger},
		{"0.30", HealthDanger},
		{"9999.99", HealthSafe},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyHealth(d(tt.factor)), "factor %s", tt.factor)
	}
}

func TestRecomputeHealth(t *testing.T) {
	p := &LoanPosition{
		CollateralBtc:  d("0.10"),
		CollateralUsdt: decimal.Zero,
		BorrowedAmount: d("1000"),
	}

	p.RecomputeHealth(d("30000"))
	assert.True(t, d("3").Equal(p.HealthFactor))

	p.AddCollateral(CurrencyUSDT, d("500"))
	p.RecomputeHealth(d("30000"))
	assert.True(t, d("3.5").Equal(p.HealthFactor))
}

func TestCollateralValue(t *testing.T) {
	p := &LoanPosition{
		CollateralBtc:  d("0.5"),
		CollateralUsdt: d("250"),
	}
	assert.True(t, d("15250").Equal(p.CollateralValue(d("30000"))))
}
