package coupon

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"decokart/internal/model"
	"decokart/internal/pricing"

	"github.com/rs/zerolog"
)

// validator implements Validator over catalogues loaded at start-up.
// Catalogues are read-only after initialisation; only redemption counts
// mutate, guarded by a mutex.
type validator struct {
	catalogs []Catalog
	logger   zerolog.Logger

	mu          sync.Mutex
	redemptions map[string]int
}

// ValidatorConfig holds configuration for the coupon validator.
type ValidatorConfig struct {
	// FilePaths is the list of coupon catalogue files to load. Later files
	// take precedence when a code appears more than once.
	FilePaths []string
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		FilePaths: []string{
			"data/coupons/catalog.gz",
		},
	}
}

// NewValidator creates a new coupon validator.
// It loads all catalogue files at initialisation time.
func NewValidator(ctx context.Context, config *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if config == nil {
		config = DefaultValidatorConfig()
	}

	logger = logger.With().Str("component", "coupon-validator").Logger()

	logger.Info().
		Int("file_count", len(config.FilePaths)).
		Msg("initialising coupon validator")

	v := &validator{
		catalogs:    make([]Catalog, 0, len(config.FilePaths)),
		logger:      logger,
		redemptions: make(map[string]int),
	}

	// Load all catalogue files concurrently
	type loadResult struct {
		index   int
		catalog Catalog
		err     error
	}

	resultChan := make(chan loadResult, len(config.FilePaths))
	var wg sync.WaitGroup

	for i, filePath := range config.FilePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			catalog, err := loader.Load(ctx, path)
			resultChan <- loadResult{
				index:   index,
				catalog: catalog,
				err:     err,
			}
		}(i, filePath)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in order so precedence is stable
	results := make([]loadResult, len(config.FilePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	totalCoupons := 0
	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", config.FilePaths[i]).
				Msg("failed to load coupon file")
			return nil, fmt.Errorf("failed to load coupon file %s: %w", config.FilePaths[i], result.err)
		}
		v.catalogs = append(v.catalogs, result.catalog)
		totalCoupons += result.catalog.Size()
	}

	logger.Info().
		Int("total_coupons", totalCoupons).
		Msg("coupon validator initialised successfully")

	return v, nil
}

// Validate checks a coupon code against the cart total and computes the
// discount it grants.
func (v *validator) Validate(ctx context.Context, code string, cartTotal float64) (*model.AppliedCoupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, model.ErrInvalidCoupon
	}

	coupon, found := v.lookup(code)
	if !found {
		v.logger.Debug().Str("coupon_code", code).Msg("coupon code not in catalogue")
		return nil, model.ErrInvalidCoupon
	}

	if cartTotal < coupon.MinCartTotal {
		v.logger.Debug().
			Str("coupon_code", code).
			Float64("cart_total", cartTotal).
			Float64("min_cart_total", coupon.MinCartTotal).
			Msg("cart total below coupon minimum")
		return nil, model.ErrInvalidCoupon
	}

	discount := pricing.Round2(cartTotal * coupon.Percent / 100)
	if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
		discount = coupon.MaxDiscount
	}
	if discount > cartTotal {
		discount = cartTotal
	}

	applied := &model.AppliedCoupon{
		Code:               code,
		DiscountAmount:     discount,
		FinalPrice:         pricing.Round2(cartTotal - discount),
		DiscountPercentage: coupon.Percent,
	}

	v.logger.Debug().
		Str("coupon_code", code).
		Float64("discount", discount).
		Msg("coupon code validated")

	return applied, nil
}

// Apply records a redemption of the code.
func (v *validator) Apply(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, found := v.lookup(code); !found {
		return model.ErrInvalidCoupon
	}

	v.mu.Lock()
	v.redemptions[code]++
	count := v.redemptions[code]
	v.mu.Unlock()

	v.logger.Info().
		Str("coupon_code", code).
		Int("redemptions", count).
		Msg("coupon applied")

	return nil
}

// Close releases resources held by the validator.
func (v *validator) Close() error {
	v.logger.Debug().Msg("closing coupon validator")
	return nil
}

// lookup searches catalogues in reverse order so later files win.
func (v *validator) lookup(code string) (Coupon, bool) {
	for i := len(v.catalogs) - 1; i >= 0; i-- {
		if coupon, found := v.catalogs[i].Lookup(code); found {
			return coupon, true
		}
	}
	return Coupon{}, false
}
