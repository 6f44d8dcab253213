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

// LoanPositionRepositoryImpl implements the LoanPositionRepository interface
type LoanPositionRepositoryImpl struct {
	db DBTX
}

// NewLoanPositionRepository creates a new LoanPositionRepository
func NewLoanPositionRepository(db DBTX) domain.LoanPositionRepository {
	return &LoanPositionRepositoryImpl{db: db}
}

const selectPositionColumns = `
	SELECT id, user_id, position_name,
	       collateral_btc::text, collateral_usdt::text, borrowed_amount::text,
	       apr::text, health_factor::text, is_protected,
	       COALESCE(liquidation_price, 0)::text, created_at, updated_at
	FROM loan_positions
`

// Create persists a new loan position
func (r *LoanPositionRepositoryImpl) Create(ctx context.Context, position *domain.LoanPosition) error {
	query := `
		INSERT INTO loan_positions (
			id, user_id, position_name,
			collateral_btc, collateral_usdt, borrowed_amount,
			apr, health_factor, is_protected, liquidation_price,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := r.db.Exec(ctx, query,
		position.ID,
		position.UserID,
		position.PositionName,
		position.CollateralBtc.String(),
		position.CollateralUsdt.String(),
		position.BorrowedAmount.String(),
		position.Apr.String(),
		position.HealthFactor.String(),
		position.IsProtected,
		position.LiquidationPrice.String(),
		position.CreatedAt,
		position.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create loan position: %w", err)
	}

	return nil
}

// GetByID retrieves a position by ID
func (r *LoanPositionRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanPosition, error) {
	return r.scanPosition(r.db.QueryRow(ctx, selectPositionColumns+` WHERE id = $1`, id))
}

// GetForUpdate retrieves a position by ID with a row lock
func (r *LoanPositionRepositoryImpl) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.LoanPosition, error) {
	return r.scanPosition(r.db.QueryRow(ctx, selectPositionColumns+` WHERE id = $1 FOR UPDATE`, id))
}

// GetByUserID retrieves all positions owned by a user
func (r *LoanPositionRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.LoanPosition, error) {
	rows, err := r.db.Query(ctx, selectPositionColumns+` WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan positions: %w", err)
	}
	defer rows.Close()

	var positions []*domain.LoanPosition
	for rows.Next() {
		position, err := r.scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan positions: %w", err)
	}

	return positions, nil
}

// Update persists collateral, debt and health factor changes
func (r *LoanPositionRepositoryImpl) Update(ctx context.Context, position *domain.LoanPosition) error {
	query := `
		UPDATE loan_positions
		SET collateral_btc = $1, collateral_usdt = $2, borrowed_amount = $3,
		    health_factor = $4, is_protected = $5, updated_at = NOW()
		WHERE id = $6
	`

	tag, err := r.db.Exec(ctx, query,
		position.CollateralBtc.String(),
		position.CollateralUsdt.String(),
		position.BorrowedAmount.String(),
		position.HealthFactor.String(),
		position.IsProtected,
		position.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPositionNotFound
	}

	return nil
}

// Delete removes a position
func (r *LoanPositionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM loan_positions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPositionNotFound
	}

	return nil
}

func (r *LoanPositionRepositoryImpl) scanPosition(row pgx.Row) (*domain.LoanPosition, error) {
	position := &domain.LoanPosition{}
	var collateralBtc, collateralUsdt, borrowed, apr, health, liquidation string

	err := row.Scan(
		&position.ID,
		&position.UserID,
		&position.PositionName,
		&collateralBtc,
		&collateralUsdt,
		&borrowed,
		&apr,
		&health,
		&position.IsProtected,
		&liquidation,
		&position.CreatedAt,
		&position.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPositionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan position: %w", err)
	}

	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&position.CollateralBtc, collateralBtc},
		{&position.CollateralUsdt, collateralUsdt},
		{&position.BorrowedAmount, borrowed},
		{&position.Apr, apr},
		{&position.HealthFactor, health},
		{&position.LiquidationPrice, liquidation},
	}
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return nil, fmt.Errorf("failed to parse position decimal %q: %w", f.src, err)
		}
	}

	return position, nil
}
