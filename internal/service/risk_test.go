package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendguard/internal/domain"
)

// seedFlatWindow fills the price history with n identical samples, newest last.
func (e *env) seedFlatWindow(n int, price string) {
	for i := n; i > 0; i-- {
		e.seedSample(price, time.Duration(i)*time.Minute, domain.PriceSourceCoinGecko)
	}
}

func TestAssessInsufficientHistory(t *testing.T) {
	e := newEnv()
	e.seedSample("30000", time.Minute, domain.PriceSourceCoinGecko)
	assessor := NewTrendVolatilityAssessor(e.prices, 24)

	signal, err := assessor.Assess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RiskLow, signal.RiskLevel)
	assert.InDelta(t, 0.3, signal.Confidence, 0.001)
}

func TestAssessFlatMarketIsLowRisk(t *testing.T) {
	e := newEnv()
	e.seedFlatWindow(24, "30000")
	assessor := NewTrendVolatilityAssessor(e.prices, 24)

	signal, err := assessor.Assess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RiskLow, signal.RiskLevel)
	// Full window caps confidence at 0.90
	assert.InDelta(t, 0.90, signal.Confidence, 0.001)
}

func TestAssessSharpDowntrendIsHighRisk(t *testing.T) {
	e := newEnv()
	// 30000 down to ~27600, an 8% drop across the window
	for i := 0; i < 24; i++ {
		price := 30000.0 - float64(i)*100
		e.seedSample(fmt.Sprintf("%.2f", price), time.Duration(24-i)*time.Minute, domain.PriceSourceCoinGecko)
	}
	assessor := NewTrendVolatilityAssessor(e.prices, 24)

	signal, err := assessor.Assess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, signal.RiskLevel)
}

func TestAssessMildDowntrendIsMediumHigh(t *testing.T) {
	e := newEnv()
	// 30000 down to ~29310, a 2.3% drop with low volatility
	for i := 0; i < 24; i++ {
		price := 30000.0 - float64(i)*30
		e.seedSample(fmt.Sprintf("%.2f", price), time.Duration(24-i)*time.Minute, domain.PriceSourceCoinGecko)
	}
	assessor := NewTrendVolatilityAssessor(e.prices, 24)

	signal, err := assessor.Assess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RiskMediumHigh, signal.RiskLevel)
}

func TestAssessChoppyMarketIsMedium(t *testing.T) {
	e := newEnv()
	// Upward-ending chop, ~2% relative swing
	for i := 0; i < 24; i++ {
		price := 30000.0
		if i%2 == 1 {
			price = 31200.0
		}
		e.seedSample(fmt.Sprintf("%.2f", price), time.Duration(24-i)*time.Minute, domain.PriceSourceCoinGecko)
	}
	assessor := NewTrendVolatilityAssessor(e.prices, 24)

	signal, err := assessor.Assess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, signal.RiskLevel)
}

func TestAssessConfidenceScalesWithSamples(t *testing.T) {
	e := newEnv()
	e.seedFlatWindow(6, "30000")
	assessor := NewTrendVolatilityAssessor(e.prices, 24)

	signal, err := assessor.Assess(context.Background())
	require.NoError(t, err)
	// 0.5 + 0.4 * 6/24 = 0.6
	assert.InDelta(t, 0.6, signal.Confidence, 0.001)
}
