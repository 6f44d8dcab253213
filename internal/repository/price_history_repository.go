package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"lendguard/internal/domain"
)

// PriceHistoryRepositoryImpl implements the PriceHistoryRepository interface.
// The table is append-only; the poller never mutates existing rows.
type PriceHistoryRepositoryImpl struct {
	db DBTX
}

// NewPriceHistoryRepository creates a new PriceHistoryRepository
func NewPriceHistoryRepository(db DBTX) domain.PriceHistoryRepository {
	return &PriceHistoryRepositoryImpl{db: db}
}

const selectSampleColumns = `
	SELECT id, symbol, price::text, source, ts
	FROM price_history
`

// Append stores one price sample
func (r *PriceHistoryRepositoryImpl) Append(ctx context.Context, sample *domain.PriceSample) error {
	query := `
		INSERT INTO price_history (id, symbol, price, source, ts)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		sample.ID,
		sample.Symbol,
		sample.Price.String(),
		sample.Source,
		sample.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append price sample: %w", err)
	}

	return nil
}

// Latest returns the most recent sample for a symbol
func (r *PriceHistoryRepositoryImpl) Latest(ctx context.Context, symbol string) (*domain.PriceSample, error) {
	query := selectSampleColumns + ` WHERE symbol = $1 ORDER BY ts DESC LIMIT 1`
	return r.scanSample(r.db.QueryRow(ctx, query, symbol))
}

// PastSample returns the most recent sample at or before now-age
func (r *PriceHistoryRepositoryImpl) PastSample(ctx context.Context, symbol string, age time.Duration) (*domain.PriceSample, error) {
	target := time.Now().Add(-age)
	query := selectSampleColumns + ` WHERE symbol = $1 AND ts <= $2 ORDER BY ts DESC LIMIT 1`
	return r.scanSample(r.db.QueryRow(ctx, query, symbol, target))
}

// Recent returns up to limit samples for a symbol, newest first
func (r *PriceHistoryRepositoryImpl) Recent(ctx context.Context, symbol string, limit int) ([]*domain.PriceSample, error) {
	query := selectSampleColumns + ` WHERE symbol = $1 ORDER BY ts DESC LIMIT $2`

	rows, err := r.db.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var samples []*domain.PriceSample
	for rows.Next() {
		sample, err := r.scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return samples, nil
}

func (r *PriceHistoryRepositoryImpl) scanSample(row pgx.Row) (*domain.PriceSample, error) {
	sample := &domain.PriceSample{}
	var price string

	err := row.Scan(&sample.ID, &sample.Symbol, &price, &sample.Source, &sample.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoSample
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan price sample: %w", err)
	}

	if sample.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("failed to parse sample price %q: %w", price, err)
	}

	return sample, nil
}
