package coupon

import (
	"context"

	"decokart/internal/model"
)

// Coupon is a single catalogue entry loaded from a coupon file.
type Coupon struct {
	Code         string  `json:"code"`
	Percent      float64 `json:"percent"`
	MaxDiscount  float64 `json:"maxDiscount,omitempty"`
	MinCartTotal float64 `json:"minCartTotal,omitempty"`
}

// Validator defines the interface for coupon validation and redemption.
type Validator interface {
	// Validate checks a coupon code against the given cart total and
	// returns the computed discount. The returned AppliedCoupon satisfies
	// finalPrice = cartTotal - discountAmount, discountAmount >= 0.
	Validate(ctx context.Context, code string, cartTotal float64) (*model.AppliedCoupon, error)

	// Apply records a redemption of the code.
	Apply(ctx context.Context, code string) error

	// Close releases resources held by the validator.
	Close() error
}

// Catalog represents a set of coupon definitions for fast lookup.
type Catalog interface {
	// Lookup returns the coupon definition for a code.
	Lookup(code string) (Coupon, bool)

	// Size returns the number of coupons in the catalogue.
	Size() int
}

// Loader defines the interface for loading coupon catalogue files.
type Loader interface {
	// Load reads a gzipped coupon file and returns a Catalog.
	Load(ctx context.Context, filePath string) (Catalog, error)
}
