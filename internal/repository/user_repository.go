package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"lendguard/internal/domain"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Monetary columns are selected as text and parsed through
// decimal.NewFromString so no value ever passes through a float.
const selectUserColumns = `
	SELECT id, username, COALESCE(wallet_address, ''),
	       linked_wallet_balance_btc::text, linked_wallet_balance_usdt::text,
	       auto_top_up_enabled, sms_alerts_enabled, created_at, updated_at
	FROM users
`

// Create creates a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, username, wallet_address,
			linked_wallet_balance_btc, linked_wallet_balance_usdt,
			auto_top_up_enabled, sms_alerts_enabled, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.WalletAddress,
		user.LinkedWalletBalanceBtc.String(),
		user.LinkedWalletBalanceUsdt.String(),
		user.AutoTopUpEnabled,
		user.SmsAlertsEnabled,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, selectUserColumns+` WHERE id = $1`, id))
}

// GetByUsername retrieves a user by username
func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, selectUserColumns+` WHERE username = $1`, username))
}

// GetForUpdate retrieves a user by ID with a row lock
func (r *UserRepositoryImpl) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, selectUserColumns+` WHERE id = $1 FOR UPDATE`, id))
}

// Update persists balances and settings for an existing user
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET linked_wallet_balance_btc = $1, linked_wallet_balance_usdt = $2,
		    auto_top_up_enabled = $3, sms_alerts_enabled = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := r.db.Exec(ctx, query,
		user.LinkedWalletBalanceBtc.String(),
		user.LinkedWalletBalanceUsdt.String(),
		user.AutoTopUpEnabled,
		user.SmsAlertsEnabled,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepositoryImpl) scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	var balanceBtc, balanceUsdt string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.WalletAddress,
		&balanceBtc,
		&balanceUsdt,
		&user.AutoTopUpEnabled,
		&user.SmsAlertsEnabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if user.LinkedWalletBalanceBtc, err = decimal.NewFromString(balanceBtc); err != nil {
		return nil, fmt.Errorf("failed to parse btc balance %q: %w", balanceBtc, err)
	}
	if user.LinkedWalletBalanceUsdt, err = decimal.NewFromString(balanceUsdt); err != nil {
		return nil, fmt.Errorf("failed to parse usdt balance %q: %w", balanceUsdt, err)
	}

	return user, nil
}
