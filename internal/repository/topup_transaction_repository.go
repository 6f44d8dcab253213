package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lendguard/internal/domain"
)

// TopUpTransactionRepositoryImpl implements the TopUpTransactionRepository
// interface. Records are append-only; there is no update path.
type TopUpTransactionRepositoryImpl struct {
	db DBTX
}

// NewTopUpTransactionRepository creates a new TopUpTransactionRepository
func NewTopUpTransactionRepository(db DBTX) domain.TopUpTransactionRepository {
	return &TopUpTransactionRepositoryImpl{db: db}
}

// Create appends one transaction record
func (r *TopUpTransactionRepositoryImpl) Create(ctx context.Context, txn *domain.TopUpTransaction) error {
	query := `
		INSERT INTO top_up_transactions (
			id, user_id, loan_position_id, amount, currency,
			is_automatic, tx_hash, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.LoanPositionID,
		txn.Amount.String(),
		txn.Currency,
		txn.IsAutomatic,
		txn.TxHash,
		txn.Status,
		txn.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create top-up transaction: %w", err)
	}

	return nil
}

// GetByUserID retrieves the most recent transactions for a user
func (r *TopUpTransactionRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.TopUpTransaction, error) {
	query := `
		SELECT id, user_id, loan_position_id, amount::text, currency,
		       is_automatic, tx_hash, status, created_at
		FROM top_up_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top-up transactions: %w", err)
	}
	defer rows.Close()

	var txns []*domain.TopUpTransaction
	for rows.Next() {
		txn := &domain.TopUpTransaction{}
		var amount string
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.LoanPositionID,
			&amount,
			&txn.Currency,
			&txn.IsAutomatic,
			&txn.TxHash,
			&txn.Status,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top-up transaction: %w", err)
		}
		if txn.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse transaction amount %q: %w", amount, err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top-up transactions: %w", err)
	}

	return txns, nil
}
