package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceSample is one point in the append-only price time series
type PriceSample struct {
	ID        uuid.UUID       `json:"id"`
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
}

// Price sample sources
const (
	PriceSourceCoinGecko = "coingecko"
	PriceSourceFallback  = "fallback"
)

// SymbolBTC is the only symbol the monitor tracks today; the schema is keyed
// by symbol so more can be added.
const SymbolBTC = "BTC"
