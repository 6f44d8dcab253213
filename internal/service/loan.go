package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lendguard/internal/domain"
)

// Defaults assigned to freshly created positions. APR is flat for the demo;
// the liquidation price is informational and never enforced.
var (
	defaultApr              = decimal.RequireFromString("7.5")
	defaultLiquidationPrice = decimal.RequireFromString("25000.00")
)

// LoanService creates, repays and deletes loan positions.
type LoanService struct {
	uow           domain.UnitOfWork
	positionRepo  domain.LoanPositionRepository
	prices        PriceSource
	notifications *NotificationService
}

// NewLoanService creates a new LoanService
func NewLoanService(
	uow domain.UnitOfWork,
	positionRepo domain.LoanPositionRepository,
	prices PriceSource,
	notifications *NotificationService,
) *LoanService {
	return &LoanService{
		uow:           uow,
		positionRepo:  positionRepo,
		prices:        prices,
		notifications: notifications,
	}
}

// CreateLoanPosition validates and persists a new position. Zero-collateral
// loans are rejected; the initial health factor is computed from the current
// price rather than assumed healthy.
func (s *LoanService) CreateLoanPosition(ctx context.Context, userID uuid.UUID, positionName string, collateralBtc, borrowedAmount decimal.Decimal) (*domain.LoanPosition, error) {
	if positionName == "" {
		return nil, domain.ErrMissingPositionName
	}
	if collateralBtc.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: collateral must be positive", domain.ErrInvalidAmount)
	}
	if borrowedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: borrowed amount must be positive", domain.ErrInvalidAmount)
	}

	price, err := s.prices.CurrentPrice(ctx, domain.SymbolBTC)
	if err != nil {
		return nil, fmt.Errorf("failed to get current price: %w", err)
	}

	now := time.Now()
	position := &domain.LoanPosition{
		ID:               uuid.New(),
		UserID:           userID,
		PositionName:     positionName,
		CollateralBtc:    collateralBtc,
		CollateralUsdt:   decimal.Zero,
		BorrowedAmount:   borrowedAmount,
		Apr:              defaultApr,
		HealthFactor:     domain.ComputeHealthFactor(collateralBtc, decimal.Zero, borrowedAmount, price),
		IsProtected:      true,
		LiquidationPrice: defaultLiquidationPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.positionRepo.Create(ctx, position); err != nil {
		return nil, err
	}

	zap.L().Info("Loan position created",
		zap.String("position_id", position.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("collateral_btc", collateralBtc.String()),
		zap.String("borrowed", borrowedAmount.String()),
		zap.String("health_factor", position.HealthFactor.String()))

	return position, nil
}

// RepayLoan pays down principal. The repayment amount is USD-denominated;
// paying in BTC converts it at the current price before the balance check.
// Repayment reduces borrowedAmount and leaves collateral untouched; the
// wallet is debited and the debt shrinks in one transaction.
func (s *LoanService) RepayLoan(ctx context.Context, userID, positionID uuid.UUID, amount decimal.Decimal, currency string) (*domain.LoanPosition, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: repayment amount %s", domain.ErrInvalidAmount, amount)
	}
	if !domain.SupportedCurrency(currency) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, currency)
	}

	price, err := s.prices.CurrentPrice(ctx, domain.SymbolBTC)
	if err != nil {
		return nil, fmt.Errorf("failed to get current price: %w", err)
	}

	var position *domain.LoanPosition

	err = s.uow.WithinTx(ctx, func(tx domain.RepositorySet) error {
		user, err := tx.Users().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		position, err = tx.Positions().GetForUpdate(ctx, positionID)
		if err != nil {
			return err
		}
		if position.UserID != user.ID {
			return domain.ErrPositionNotFound
		}

		if amount.GreaterThan(position.BorrowedAmount) {
			return fmt.Errorf("%w: repaying %s against %s", domain.ErrRepayExceedsDebt, amount, position.BorrowedAmount)
		}

		debit := amount
		if currency == domain.CurrencyBTC {
			debit = amount.DivRound(price, 8)
		}
		if err := user.DebitWallet(currency, debit); err != nil {
			return err
		}
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}

		position.BorrowedAmount = position.BorrowedAmount.Sub(amount)
		position.RecomputeHealth(price)
		return tx.Positions().Update(ctx, position)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Loan repayment applied",
		zap.String("position_id", positionID.String()),
		zap.String("amount", amount.String()),
		zap.String("currency", currency),
		zap.String("remaining_debt", position.BorrowedAmount.String()))

	message := fmt.Sprintf("Repayment Success: %s USD repaid on '%s'.", amount, position.PositionName)
	if _, err := s.notifications.Notify(ctx, userID, message, domain.NotificationRepayment); err != nil {
		zap.L().Warn("Failed to record repayment notification", zap.Error(err))
	}

	return position, nil
}

// DeleteLoanPosition removes a position after an ownership check. Exists for
// parity with the storage contract; primary flows never delete.
func (s *LoanService) DeleteLoanPosition(ctx context.Context, userID, positionID uuid.UUID) error {
	position, err := s.positionRepo.GetByID(ctx, positionID)
	if err != nil {
		return err
	}
	if position.UserID != userID {
		return domain.ErrPositionNotFound
	}
	return s.positionRepo.Delete(ctx, positionID)
}
