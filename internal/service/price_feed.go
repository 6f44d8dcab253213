package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lendguard/internal/domain"
)

// syntheticChangeFactor approximates "price 24h ago" when no sample that old
// exists yet. The reported change is synthetic in that case, not real.
var syntheticChangeFactor = decimal.RequireFromString("1.044")

// PriceQuote is a current price with its 24h delta
type PriceQuote struct {
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}

// PriceSource is the read side of the price feed that mutating services
// depend on.
type PriceSource interface {
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// PriceFeedService polls an external market-data source and maintains the
// append-only price history. Upstream failures are absorbed: the feed
// degrades to the last stored price, or a hardcoded default before any
// sample exists.
type PriceFeedService struct {
	priceRepo     domain.PriceHistoryRepository
	httpClient    *http.Client
	apiURL        string
	fallbackPrice decimal.Decimal
}

// NewPriceFeedService creates a new PriceFeedService
func NewPriceFeedService(priceRepo domain.PriceHistoryRepository, apiURL string, requestTimeout time.Duration, fallbackPrice decimal.Decimal) *PriceFeedService {
	return &PriceFeedService{
		priceRepo: priceRepo,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		apiURL:        apiURL,
		fallbackPrice: fallbackPrice,
	}
}

// Refresh fetches the current BTC price and appends a sample. It never
// returns an error to the poll loop: on upstream failure it records a
// fallback-tagged sample from the last known price instead.
func (s *PriceFeedService) Refresh(ctx context.Context) {
	price, err := s.fetchCoinGeckoPrice(ctx)
	source := domain.PriceSourceCoinGecko
	if err != nil {
		zap.L().Warn("Price fetch failed, falling back to stored price", zap.Error(err))
		price = s.lastKnownPrice(ctx)
		source = domain.PriceSourceFallback
	}

	sample := &domain.PriceSample{
		ID:        uuid.New(),
		Symbol:    domain.SymbolBTC,
		Price:     price,
		Source:    source,
		Timestamp: time.Now(),
	}
	if err := s.priceRepo.Append(ctx, sample); err != nil {
		zap.L().Error("Failed to append price sample", zap.Error(err))
		return
	}

	zap.L().Debug("Price refreshed",
		zap.String("symbol", sample.Symbol),
		zap.String("price", price.String()),
		zap.String("source", source))
}

// CurrentPrice returns the latest sample's price, or the fallback constant
// when no history exists at all. It never fails with a zero price.
func (s *PriceFeedService) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	latest, err := s.priceRepo.Latest(ctx, symbol)
	if err != nil {
		if err != domain.ErrNoSample {
			zap.L().Warn("Failed to read latest price, using fallback", zap.Error(err))
		}
		return s.fallbackPrice, nil
	}
	return latest.Price, nil
}

// PriceChange24h computes the delta between the current price and the
// nearest sample at or before 24h ago. Without a sample that old the
// yesterday price is approximated with a fixed factor.
func (s *PriceFeedService) PriceChange24h(ctx context.Context, symbol string) (*PriceQuote, error) {
	current, err := s.CurrentPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var yesterday decimal.Decimal
	past, err := s.priceRepo.PastSample(ctx, symbol, 24*time.Hour)
	if err != nil {
		if err != domain.ErrNoSample {
			return nil, fmt.Errorf("failed to read past price: %w", err)
		}
		yesterday = current.Mul(syntheticChangeFactor)
	} else {
		yesterday = past.Price
	}

	change := current.Sub(yesterday)
	changePercent := decimal.Zero
	if !yesterday.IsZero() {
		changePercent = change.DivRound(yesterday, 4).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &PriceQuote{
		Price:         current,
		Change:        change,
		ChangePercent: changePercent,
	}, nil
}

// PastPrice returns the most recent sample at or before now-age
func (s *PriceFeedService) PastPrice(ctx context.Context, symbol string, age time.Duration) (*domain.PriceSample, error) {
	return s.priceRepo.PastSample(ctx, symbol, age)
}

func (s *PriceFeedService) lastKnownPrice(ctx context.Context) decimal.Decimal {
	latest, err := s.priceRepo.Latest(ctx, domain.SymbolBTC)
	if err != nil {
		return s.fallbackPrice
	}
	return latest.Price
}

func (s *PriceFeedService) fetchCoinGeckoPrice(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("price API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	// CoinGecko simple-price shape: {"bitcoin": {"usd": 31247.82}}.
	// Decoded through json.Number so the price never passes through a float.
	var payload map[string]map[string]json.Number
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode price response: %w", err)
	}

	usd, ok := payload["bitcoin"]["usd"]
	if !ok {
		return decimal.Zero, fmt.Errorf("price response missing bitcoin.usd field")
	}

	price, err := decimal.NewFromString(usd.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse price %q: %w", usd.String(), err)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("price API returned non-positive price %s", price)
	}

	return price, nil
}
