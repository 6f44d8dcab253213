package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetForUpdate retrieves a user by ID with a row lock, serializing
	// concurrent balance mutations. Only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*User, error)

	// Update persists balances and settings for an existing user
	Update(ctx context.Context, user *User) error
}

// LoanPositionRepository defines the interface for loan position operations
type LoanPositionRepository interface {
	// Create persists a new loan position
	Create(ctx context.Context, position *LoanPosition) error

	// GetByID retrieves a position by ID
	GetByID(ctx context.Context, id uuid.UUID) (*LoanPosition, error)

	// GetByUserID retrieves all positions owned by a user
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*LoanPosition, error)

	// GetForUpdate retrieves a position by ID with a row lock
	GetForUpdate(ctx context.Context, id uuid.UUID) (*LoanPosition, error)

	// Update persists collateral, debt and health factor changes
	Update(ctx context.Context, position *LoanPosition) error

	// Delete removes a position. Not exercised by primary flows.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TopUpTransactionRepository defines the interface for the immutable top-up
// audit log
type TopUpTransactionRepository interface {
	// Create appends one transaction record
	Create(ctx context.Context, txn *TopUpTransaction) error

	// GetByUserID retrieves the most recent transactions for a user
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*TopUpTransaction, error)
}

// PriceHistoryRepository defines the interface for the append-only price
// time series
type PriceHistoryRepository interface {
	// Append stores one price sample
	Append(ctx context.Context, sample *PriceSample) error

	// Latest returns the most recent sample for a symbol
	Latest(ctx context.Context, symbol string) (*PriceSample, error)

	// PastSample returns the most recent sample with a timestamp at or
	// before now-age, or ErrNoSample when none exists
	PastSample(ctx context.Context, symbol string, age time.Duration) (*PriceSample, error)

	// Recent returns up to limit samples for a symbol, newest first
	Recent(ctx context.Context, symbol string, limit int) ([]*PriceSample, error)
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create persists a new notification
	Create(ctx context.Context, n *Notification) error

	// GetByUserID retrieves the most recent notifications for a user
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error)

	// MarkRead flips the read flag and returns the updated notification
	MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error)
}

// RepositorySet bundles the repositories that participate in one atomic
// mutation. Inside UnitOfWork.WithinTx all of them run on the same
// database transaction.
type RepositorySet interface {
	Users() UserRepository
	Positions() LoanPositionRepository
	TopUps() TopUpTransactionRepository
}

// UnitOfWork runs fn inside a single transaction. If fn returns an error the
// transaction is rolled back and nothing fn did is visible; otherwise it is
// committed. This is what keeps a multi-step top-up from partially applying.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx RepositorySet) error) error
}
