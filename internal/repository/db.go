package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lendguard/internal/domain"
)

// DBTX is the querier surface the repositories need. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so the same repository code runs standalone or inside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Set bundles transaction-scoped repositories for domain.UnitOfWork.
type Set struct {
	users     domain.UserRepository
	positions domain.LoanPositionRepository
	topUps    domain.TopUpTransactionRepository
}

// NewSet creates a repository set bound to the given querier.
func NewSet(db DBTX) *Set {
	return &Set{
		users:     NewUserRepository(db),
		positions: NewLoanPositionRepository(db),
		topUps:    NewTopUpTransactionRepository(db),
	}
}

func (s *Set) Users() domain.UserRepository              { return s.users }
func (s *Set) Positions() domain.LoanPositionRepository  { return s.positions }
func (s *Set) TopUps() domain.TopUpTransactionRepository { return s.topUps }
