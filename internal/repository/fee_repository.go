package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// feeRepository implements the FeeRepository interface using PostgreSQL.
type feeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewFeeRepository creates a new PostgreSQL-backed service fee repository.
func NewFeeRepository(pool *pgxpool.Pool, logger zerolog.Logger) FeeRepository {
	return &feeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "fee").Logger(),
	}
}

// ServiceFee returns the delivery service fee for a pin code. Pin codes
// without a configured fee are served free of charge.
func (r *feeRepository) ServiceFee(ctx context.Context, pincode string) (float64, error) {
	query := `
		SELECT fee
		FROM pincode_service_fees
		WHERE pincode = $1
	`

	var fee float64
	err := r.pool.QueryRow(ctx, query, pincode).Scan(&fee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("pincode", pincode).Msg("no service fee configured for pincode")
			return 0, nil
		}
		r.logger.Error().Err(err).Str("pincode", pincode).Msg("failed to query service fee")
		return 0, fmt.Errorf("failed to query service fee: %w", err)
	}

	return fee, nil
}

// SetServiceFee upserts the fee for a pin code.
func (r *feeRepository) SetServiceFee(ctx context.Context, pincode string, fee float64) error {
	query := `
		INSERT INTO pincode_service_fees (pincode, fee)
		VALUES ($1, $2)
		ON CONFLICT (pincode) DO UPDATE SET fee = EXCLUDED.fee
	`

	_, err := r.pool.Exec(ctx, query, pincode, fee)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("pincode", pincode).
			Float64("fee", fee).
			Msg("failed to upsert service fee")
		return fmt.Errorf("failed to upsert service fee: %w", err)
	}

	r.logger.Debug().
		Str("pincode", pincode).
		Float64("fee", fee).
		Msg("service fee upserted")

	return nil
}
