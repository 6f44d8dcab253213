package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"lendguard/internal/domain"
	"lendguard/internal/repository"
)

// PgxUnitOfWork implements domain.UnitOfWork on a pgx connection pool.
// Repositories handed to the closure share one database transaction, so a
// failure anywhere inside fn rolls back every step.
type PgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPgxUnitOfWork creates a new PgxUnitOfWork
func NewPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{pool: pool}
}

// WithinTx runs fn inside a single transaction
func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn func(tx domain.RepositorySet) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			zap.L().Warn("Transaction rollback failed", zap.Error(rbErr))
		}
	}()

	if err := fn(repository.NewSet(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
