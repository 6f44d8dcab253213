package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lendguard/internal/domain"
	"lendguard/internal/ratelimit"
)

// TopUpParams describes one collateral addition request
type TopUpParams struct {
	UserID         uuid.UUID
	LoanPositionID uuid.UUID
	Amount         decimal.Decimal
	Currency       string
	IsAutomatic    bool
}

// RiskTriggerResult reports what a risk trigger actually did
type RiskTriggerResult struct {
	Skipped          bool `json:"skipped"`
	AutoTopUpApplied bool `json:"autoTopUpApplied"`
}

// TopUpService is the collateral top-up engine. Every mutation runs inside a
// single database transaction: wallet credit, transaction record, collateral
// bump and health factor update either all apply or none do. Row locks on
// the user and position serialize concurrent top-ups so no update is lost.
type TopUpService struct {
	uow           domain.UnitOfWork
	userRepo      domain.UserRepository
	positionRepo  domain.LoanPositionRepository
	topUpRepo     domain.TopUpTransactionRepository
	prices        PriceSource
	notifications *NotificationService
	guard         *ratelimit.Limiter
	autoAmount    decimal.Decimal
}

// NewTopUpService creates a new TopUpService
func NewTopUpService(
	uow domain.UnitOfWork,
	userRepo domain.UserRepository,
	positionRepo domain.LoanPositionRepository,
	topUpRepo domain.TopUpTransactionRepository,
	prices PriceSource,
	notifications *NotificationService,
	guard *ratelimit.Limiter,
	autoAmount decimal.Decimal,
) *TopUpService {
	return &TopUpService{
		uow:           uow,
		userRepo:      userRepo,
		positionRepo:  positionRepo,
		topUpRepo:     topUpRepo,
		prices:        prices,
		notifications: notifications,
		guard:         guard,
		autoAmount:    autoAmount,
	}
}

// PerformTopUp credits the user's linked wallet, records the transaction,
// adds collateral to the position and recomputes its health factor, all
// atomically. The success notification goes out after commit.
func (s *TopUpService) PerformTopUp(ctx context.Context, params TopUpParams) (*domain.TopUpTransaction, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: top-up amount %s", domain.ErrInvalidAmount, params.Amount)
	}
	if !domain.SupportedCurrency(params.Currency) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, params.Currency)
	}

	price, err := s.prices.CurrentPrice(ctx, domain.SymbolBTC)
	if err != nil {
		return nil, fmt.Errorf("failed to get current price: %w", err)
	}

	var (
		txn      *domain.TopUpTransaction
		position *domain.LoanPosition
	)

	err = s.uow.WithinTx(ctx, func(tx domain.RepositorySet) error {
		user, err := tx.Users().GetForUpdate(ctx, params.UserID)
		if err != nil {
			return err
		}

		position, err = tx.Positions().GetForUpdate(ctx, params.LoanPositionID)
		if err != nil {
			return err
		}
		if position.UserID != user.ID {
			return domain.ErrPositionNotFound
		}

		// Top-up models funds arriving at the linked wallet alongside the
		// collateral addition, so the wallet is credited, not debited.
		user.CreditWallet(params.Currency, params.Amount)
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}

		txn = &domain.TopUpTransaction{
			ID:             uuid.New(),
			UserID:         user.ID,
			LoanPositionID: position.ID,
			Amount:         params.Amount,
			Currency:       params.Currency,
			IsAutomatic:    params.IsAutomatic,
			TxHash:         mockTxHash(),
			Status:         domain.TopUpStatusCompleted,
			CreatedAt:      time.Now(),
		}
		if err := tx.TopUps().Create(ctx, txn); err != nil {
			return err
		}

		position.AddCollateral(params.Currency, params.Amount)
		position.RecomputeHealth(price)
		return tx.Positions().Update(ctx, position)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Top-up applied",
		zap.String("user_id", params.UserID.String()),
		zap.String("position_id", params.LoanPositionID.String()),
		zap.String("amount", params.Amount.String()),
		zap.String("currency", params.Currency),
		zap.Bool("automatic", params.IsAutomatic),
		zap.String("health_factor", position.HealthFactor.String()))

	mode := "Manual"
	if params.IsAutomatic {
		mode = "Auto"
	}
	message := fmt.Sprintf("%s Top-Up Success: Added %s %s collateral to '%s'.",
		mode, params.Amount, params.Currency, position.PositionName)
	if _, err := s.notifications.Notify(ctx, params.UserID, message, domain.NotificationTopUpSuccess); err != nil {
		// State change is already committed; a lost notification is not
		// grounds to fail the top-up.
		zap.L().Warn("Failed to record top-up notification", zap.Error(err))
	}

	return txn, nil
}

// RecentTransactions returns the most recent top-up transactions for a user
func (s *TopUpService) RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.TopUpTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.topUpRepo.GetByUserID(ctx, userID, limit)
}

// HandleRiskTrigger processes one risk signal for a user. Repeated triggers
// for the same risk level inside the guard window are dropped to keep a
// noisy signal from firing auto top-up storms. When auto top-up is enabled
// and the risk is elevated, the position with the worst health factor gets a
// fixed USDT top-up; a failed attempt still surfaces as a notification.
func (s *TopUpService) HandleRiskTrigger(ctx context.Context, userID uuid.UUID, riskLevel string) (*RiskTriggerResult, error) {
	if !s.guard.Allow(riskLevel) {
		zap.L().Info("Duplicate risk trigger suppressed", zap.String("risk_level", riskLevel))
		return &RiskTriggerResult{Skipped: true}, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &RiskTriggerResult{}

	if user.AutoTopUpEnabled && domain.ElevatedRisk(riskLevel) {
		target, err := s.mostAtRiskPosition(ctx, userID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			zap.L().Info("No loan positions eligible for auto top-up", zap.String("user_id", userID.String()))
		} else {
			_, err := s.PerformTopUp(ctx, TopUpParams{
				UserID:         userID,
				LoanPositionID: target.ID,
				Amount:         s.autoAmount,
				Currency:       domain.CurrencyUSDT,
				IsAutomatic:    true,
			})
			if err != nil {
				zap.L().Error("Auto top-up failed",
					zap.String("position", target.PositionName),
					zap.Error(err))
				message := fmt.Sprintf("Auto Top-Up Failed for '%s': %v", target.PositionName, err)
				if _, nErr := s.notifications.Notify(ctx, userID, message, domain.NotificationTopUpFailed); nErr != nil {
					zap.L().Warn("Failed to record auto top-up failure notification", zap.Error(nErr))
				}
			} else {
				result.AutoTopUpApplied = true
			}
		}
	}

	alert := fmt.Sprintf("AI Price Alert: BTC showing %s risk level. Consider adding collateral.", riskLevel)
	if _, err := s.notifications.Notify(ctx, userID, alert, domain.NotificationPriceAlert); err != nil {
		zap.L().Warn("Failed to record price alert notification", zap.Error(err))
	}

	if user.SmsAlertsEnabled {
		// SMS delivery is simulated for the demo
		zap.L().Info("SMS alert dispatched",
			zap.String("user_id", userID.String()),
			zap.String("risk_level", riskLevel))
	}

	return result, nil
}

// mostAtRiskPosition returns the user's position with the lowest health
// factor, or nil when the user has no positions. Positions with no debt
// carry the infinite sentinel and naturally sort last.
func (s *TopUpService) mostAtRiskPosition(ctx context.Context, userID uuid.UUID) (*domain.LoanPosition, error) {
	positions, err := s.positionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, nil
	}

	target := positions[0]
	for _, p := range positions[1:] {
		if p.HealthFactor.LessThan(target.HealthFactor) {
			target = p
		}
	}
	return target, nil
}

// mockTxHash generates a demo settlement reference. There is no real chain
// behind it.
func mockTxHash() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "0x00000000"
	}
	return "0x" + hex.EncodeToString(buf)
}
