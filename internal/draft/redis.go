package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"decokart/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Key layout:
//
//	checkout:draft:<txn>        JSON draft, expires with DraftTTL
//	checkout:order_placed:<txn> created order id, expires with MarkerTTL
//	checkout:poll_attempts:<txn> attempt counter, expires with DraftTTL
type redisStore struct {
	client    *redis.Client
	draftTTL  time.Duration
	markerTTL time.Duration
	logger    zerolog.Logger
}

// Config holds TTLs for the Redis draft store. Drafts are short-lived by
// contract: a stale draft must never be reused for an unrelated checkout.
type Config struct {
	DraftTTL  time.Duration
	MarkerTTL time.Duration
}

// DefaultConfig returns the default TTLs.
func DefaultConfig() Config {
	return Config{
		DraftTTL:  24 * time.Hour,
		MarkerTTL: 7 * 24 * time.Hour,
	}
}

// NewRedisStore creates a Redis-backed draft store.
func NewRedisStore(client *redis.Client, cfg Config, logger zerolog.Logger) Store {
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = DefaultConfig().DraftTTL
	}
	if cfg.MarkerTTL <= 0 {
		cfg.MarkerTTL = DefaultConfig().MarkerTTL
	}
	return &redisStore{
		client:    client,
		draftTTL:  cfg.DraftTTL,
		markerTTL: cfg.MarkerTTL,
		logger:    logger.With().Str("component", "draft-store").Logger(),
	}
}

func draftKey(transactionID string) string {
	return "checkout:draft:" + transactionID
}

func markerKey(transactionID string) string {
	return "checkout:order_placed:" + transactionID
}

func attemptsKey(transactionID string) string {
	return "checkout:poll_attempts:" + transactionID
}

func (s *redisStore) SaveDraft(ctx context.Context, draft *model.CheckoutDraft) error {
	if draft == nil || draft.TransactionID == "" {
		return fmt.Errorf("draft must carry a transaction id")
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.client.Set(ctx, draftKey(draft.TransactionID), data, s.draftTTL).Err(); err != nil {
		s.logger.Error().
			Err(err).
			Str("transaction_id", draft.TransactionID).
			Msg("failed to save draft")
		return fmt.Errorf("failed to save draft: %w", err)
	}

	s.logger.Debug().
		Str("transaction_id", draft.TransactionID).
		Msg("draft saved")

	return nil
}

func (s *redisStore) LoadDraft(ctx context.Context, transactionID string) (*model.CheckoutDraft, error) {
	data, err := s.client.Get(ctx, draftKey(transactionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrDraftNotFound
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("failed to load draft")
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft model.CheckoutDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return &draft, nil
}

func (s *redisStore) DeleteDraft(ctx context.Context, transactionID string) error {
	if err := s.client.Del(ctx, draftKey(transactionID), attemptsKey(transactionID)).Err(); err != nil {
		s.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("failed to delete draft")
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (s *redisStore) MarkOrderPlaced(ctx context.Context, transactionID, orderID string) error {
	if err := s.client.Set(ctx, markerKey(transactionID), orderID, s.markerTTL).Err(); err != nil {
		s.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Str("order_id", orderID).
			Msg("failed to set order-placed marker")
		return fmt.Errorf("failed to set order-placed marker: %w", err)
	}

	s.logger.Debug().
		Str("transaction_id", transactionID).
		Str("order_id", orderID).
		Msg("order-placed marker set")

	return nil
}

func (s *redisStore) OrderPlaced(ctx context.Context, transactionID string) (string, bool, error) {
	orderID, err := s.client.Get(ctx, markerKey(transactionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("failed to read order-placed marker")
		return "", false, fmt.Errorf("failed to read order-placed marker: %w", err)
	}
	return orderID, true, nil
}

func (s *redisStore) IncrementPollAttempts(ctx context.Context, transactionID string) (int, error) {
	key := attemptsKey(transactionID)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment poll attempts: %w", err)
	}

	// First increment sets the expiry so the counter dies with the draft.
	if count == 1 {
		if err := s.client.Expire(ctx, key, s.draftTTL).Err(); err != nil {
			s.logger.Warn().
				Err(err).
				Str("transaction_id", transactionID).
				Msg("failed to set poll-attempts expiry")
		}
	}

	return int(count), nil
}
