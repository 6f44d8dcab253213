package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lendguard/internal/domain"
)

// MarketData is the price feed surface the aggregator reads from
type MarketData interface {
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	PriceChange24h(ctx context.Context, symbol string) (*PriceQuote, error)
}

// DashboardStats are the aggregate figures shown at the top of the dashboard
type DashboardStats struct {
	BtcPrice        *PriceQuote     `json:"btcPrice"`
	TotalCollateral decimal.Decimal `json:"totalCollateral"`
	HealthFactor    decimal.Decimal `json:"healthFactor"`
	ActiveLoanCount int             `json:"activeLoanCount"`
	TotalBorrowed   decimal.Decimal `json:"totalBorrowed"`
}

// DashboardSnapshot is the aggregated read-only view for one user
type DashboardSnapshot struct {
	User          *domain.User           `json:"user"`
	Stats         *DashboardStats        `json:"stats"`
	LoanPositions []*domain.LoanPosition `json:"loanPositions"`
}

// WalletBalances is the balance subset pushed over the realtime channel
type WalletBalances struct {
	LinkedWalletBalanceBtc  decimal.Decimal `json:"linkedWalletBalanceBtc"`
	LinkedWalletBalanceUsdt decimal.Decimal `json:"linkedWalletBalanceUsdt"`
}

// RealtimeUpdate is the price_update message payload
type RealtimeUpdate struct {
	BtcPrice      *PriceQuote            `json:"btcPrice"`
	HealthFactor  decimal.Decimal        `json:"healthFactor"`
	LoanPositions []*domain.LoanPosition `json:"loanPositions"`
	User          WalletBalances         `json:"user"`
	Timestamp     time.Time              `json:"timestamp"`
}

// DashboardService assembles read-only snapshots. It never mutates and is
// safe to call concurrently with top-ups; each snapshot reads all inputs in
// one pass.
type DashboardService struct {
	userRepo     domain.UserRepository
	positionRepo domain.LoanPositionRepository
	market       MarketData
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(userRepo domain.UserRepository, positionRepo domain.LoanPositionRepository, market MarketData) *DashboardService {
	return &DashboardService{
		userRepo:     userRepo,
		positionRepo: positionRepo,
		market:       market,
	}
}

// Snapshot gathers the user, their positions, the current price and the
// aggregate collateral/health figures.
func (s *DashboardService) Snapshot(ctx context.Context, userID uuid.UUID) (*DashboardSnapshot, error) {
	user, positions, quote, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalCollateral, totalBorrowed, portfolioHealth := aggregate(user, positions, quote.Price)

	return &DashboardSnapshot{
		User: user,
		Stats: &DashboardStats{
			BtcPrice:        quote,
			TotalCollateral: totalCollateral,
			HealthFactor:    portfolioHealth,
			ActiveLoanCount: len(positions),
			TotalBorrowed:   totalBorrowed,
		},
		LoanPositions: positions,
	}, nil
}

// Realtime builds the periodic price_update payload for the push channel
func (s *DashboardService) Realtime(ctx context.Context, userID uuid.UUID) (*RealtimeUpdate, error) {
	user, positions, quote, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, _, portfolioHealth := aggregate(user, positions, quote.Price)

	return &RealtimeUpdate{
		BtcPrice:      quote,
		HealthFactor:  portfolioHealth,
		LoanPositions: positions,
		User: WalletBalances{
			LinkedWalletBalanceBtc:  user.LinkedWalletBalanceBtc,
			LinkedWalletBalanceUsdt: user.LinkedWalletBalanceUsdt,
		},
		Timestamp: time.Now(),
	}, nil
}

func (s *DashboardService) load(ctx context.Context, userID uuid.UUID) (*domain.User, []*domain.LoanPosition, *PriceQuote, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	positions, err := s.positionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load positions: %w", err)
	}

	quote, err := s.market.PriceChange24h(ctx, domain.SymbolBTC)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load price: %w", err)
	}

	return user, positions, quote, nil
}

// aggregate sums collateral value (positions plus free wallet balances) and
// outstanding debt at the given price. The portfolio health factor guards
// against zero debt by reporting zero, matching the dashboard contract.
func aggregate(user *domain.User, positions []*domain.LoanPosition, price decimal.Decimal) (totalCollateral, totalBorrowed, healthFactor decimal.Decimal) {
	totalCollateral = user.LinkedWalletBalanceBtc.Mul(price).Add(user.LinkedWalletBalanceUsdt)
	totalBorrowed = decimal.Zero

	for _, p := range positions {
		totalCollateral = totalCollateral.Add(p.CollateralValue(price))
		totalBorrowed = totalBorrowed.Add(p.BorrowedAmount)
	}

	healthFactor = decimal.Zero
	if totalBorrowed.GreaterThan(decimal.Zero) {
		healthFactor = totalCollateral.DivRound(totalBorrowed, 2)
	}
	return totalCollateral, totalBorrowed, healthFactor
}
