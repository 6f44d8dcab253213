package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lendguard/internal/domain"
)

// UpdateSettingsParams carries partial settings updates; nil fields are left
// untouched.
type UpdateSettingsParams struct {
	AutoTopUpEnabled        *bool
	SmsAlertsEnabled        *bool
	LinkedWalletBalanceBtc  *decimal.Decimal
	LinkedWalletBalanceUsdt *decimal.Decimal
}

// SettingsService applies user settings updates.
type SettingsService struct {
	uow domain.UnitOfWork
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(uow domain.UnitOfWork) *SettingsService {
	return &SettingsService{uow: uow}
}

// UpdateSettings applies the non-nil fields to the user. Balance overrides
// run through the same row lock as top-ups so they cannot race a concurrent
// balance mutation.
func (s *SettingsService) UpdateSettings(ctx context.Context, userID uuid.UUID, params UpdateSettingsParams) (*domain.User, error) {
	var updated *domain.User

	err := s.uow.WithinTx(ctx, func(tx domain.RepositorySet) error {
		user, err := tx.Users().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if params.AutoTopUpEnabled != nil {
			user.AutoTopUpEnabled = *params.AutoTopUpEnabled
		}
		if params.SmsAlertsEnabled != nil {
			user.SmsAlertsEnabled = *params.SmsAlertsEnabled
		}
		if params.LinkedWalletBalanceBtc != nil {
			if params.LinkedWalletBalanceBtc.IsNegative() {
				return domain.ErrInvalidAmount
			}
			user.LinkedWalletBalanceBtc = *params.LinkedWalletBalanceBtc
		}
		if params.LinkedWalletBalanceUsdt != nil {
			if params.LinkedWalletBalanceUsdt.IsNegative() {
				return domain.ErrInvalidAmount
			}
			user.LinkedWalletBalanceUsdt = *params.LinkedWalletBalanceUsdt
		}

		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("User settings updated", zap.String("user_id", userID.String()))
	return updated, nil
}
