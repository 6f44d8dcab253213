package service

import (
	"context"
	"math"

	"lendguard/internal/domain"
)

// RiskAssessor produces a risk signal for the top-up engine. The engine only
// depends on this interface; the trend/volatility heuristic below is one
// replaceable implementation, not a forecasting model.
type RiskAssessor interface {
	Assess(ctx context.Context) (*domain.RiskSignal, error)
}

// TrendVolatilityAssessor derives a risk level from a sliding window of
// recent price samples: high relative volatility or a sustained downtrend
// raises the level. Heuristic math runs on floats; these values are signal
// inputs, never money.
type TrendVolatilityAssessor struct {
	priceRepo  domain.PriceHistoryRepository
	windowSize int
}

// NewTrendVolatilityAssessor creates an assessor over the given sample window
func NewTrendVolatilityAssessor(priceRepo domain.PriceHistoryRepository, windowSize int) *TrendVolatilityAssessor {
	if windowSize < 3 {
		windowSize = 24
	}
	return &TrendVolatilityAssessor{priceRepo: priceRepo, windowSize: windowSize}
}

// Assess computes the current risk signal from recent price history
func (a *TrendVolatilityAssessor) Assess(ctx context.Context) (*domain.RiskSignal, error) {
	samples, err := a.priceRepo.Recent(ctx, domain.SymbolBTC, a.windowSize)
	if err != nil {
		return nil, err
	}
	if len(samples) < 3 {
		// Not enough history to say anything
		return &domain.RiskSignal{RiskLevel: domain.RiskLow, Confidence: 0.3}, nil
	}

	// Samples arrive newest-first; walk them oldest-first
	prices := make([]float64, len(samples))
	for i, s := range samples {
		prices[len(samples)-1-i] = s.Price.InexactFloat64()
	}

	trend := (prices[len(prices)-1] - prices[0]) / prices[0]
	volatility := relativeVolatility(prices)

	level := domain.RiskLow
	switch {
	case trend <= -0.05 || volatility >= 0.05:
		level = domain.RiskHigh
	case trend <= -0.02 || volatility >= 0.03:
		level = domain.RiskMediumHigh
	case volatility >= 0.015:
		level = domain.RiskMedium
	}

	confidence := 0.5 + 0.4*float64(len(samples))/float64(a.windowSize)
	if confidence > 0.95 {
		confidence = 0.95
	}

	return &domain.RiskSignal{RiskLevel: level, Confidence: confidence}, nil
}

func relativeVolatility(prices []float64) float64 {
	mean := 0.0
	for _, p := range prices {
		mean += p
	}
	mean /= float64(len(prices))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, p := range prices {
		d := p - mean
		variance += d * d
	}
	variance /= float64(len(prices))

	return math.Sqrt(variance) / mean
}
