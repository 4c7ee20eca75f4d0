package service

import (
	"context"

	"decokart/internal/gateway"
	"decokart/internal/model"
	"decokart/internal/pricing"

	"github.com/google/uuid"
)

// OrderService defines operations for order submission and retrieval.
type OrderService interface {
	// CreateOrder accepts a direct submission, recomputes totals
	// server-side, and persists the order exactly once. Only COD orders
	// with nothing paid upfront may enter here: every other payment state
	// must be established by a gateway flow, never by request fields.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// CreateVerifiedOrder persists an order whose payment (full or the COD
	// upfront portion) has already been verified with a gateway. On success
	// any draft tied to the request's transaction id is cleared; on failure
	// the draft stays intact so the customer can retry.
	CreateVerifiedOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with items and add-ons.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// GetByTransactionID retrieves the order recorded for a payment
	// transaction, or nil when none exists.
	GetByTransactionID(ctx context.Context, transactionID string) (*model.OrderResponse, error)
}

// QuoteRequest carries the state needed to price a checkout.
type QuoteRequest struct {
	Items         []model.CartItem    `json:"items"`
	AddOns        []model.AddOn       `json:"addOns,omitempty"`
	CouponCode    *string             `json:"couponCode,omitempty"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Pincode       string              `json:"pincode,omitempty"`
}

// QuoteResponse is the full pricing breakdown plus the coupon actually
// applied to it.
type QuoteResponse struct {
	Quote  pricing.Quote        `json:"quote"`
	Coupon *model.AppliedCoupon `json:"coupon,omitempty"`
}

// InitiateRequest starts a checkout: shipping form, cart, and chosen
// payment method.
type InitiateRequest struct {
	Form          model.CheckoutForm  `json:"form"`
	Items         []model.CartItem    `json:"items"`
	AddOns        []model.AddOn       `json:"addOns,omitempty"`
	CouponCode    *string             `json:"couponCode,omitempty"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
}

// InitiateResponse is what the storefront needs to run the chosen payment
// flow. Exactly one of Intent/Order is set for popup and no-upfront-COD
// flows; redirect flows get just the transaction id and amount.
type InitiateResponse struct {
	TransactionID string          `json:"transactionId"`
	Quote         pricing.Quote   `json:"quote"`
	Intent        *gateway.Intent `json:"intent,omitempty"`

	// Order is set when no online payment step is needed (COD without
	// upfront) and the order was created directly.
	Order *model.OrderResponse `json:"order,omitempty"`
}

// RazorpayCompletion carries the popup flow's signed confirmation back to
// the server.
type RazorpayCompletion struct {
	TransactionID string               `json:"transactionId"`
	Verification  gateway.Verification `json:"verification"`
}

// CheckoutService drives the checkout flow up to the point an order exists.
type CheckoutService interface {
	// Quote prices the cart deterministically.
	Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error)

	// Initiate validates the form, persists the draft, and sets up the
	// selected payment flow.
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResponse, error)

	// CompleteRazorpay verifies the popup flow's signature and creates the
	// order. It is idempotent per transaction id.
	CompleteRazorpay(ctx context.Context, req *RazorpayCompletion) (*model.OrderResponse, error)
}

// ReconcileResult reports the outcome of a redirect-flow reconciliation.
type ReconcileResult struct {
	Status            gateway.Status       `json:"status"`
	Order             *model.OrderResponse `json:"order,omitempty"`
	AlreadyPlaced     bool                 `json:"alreadyPlaced"`
	AttemptsRemaining int                  `json:"attemptsRemaining"`
}

// ReconcileService settles redirect-flow payments after the customer
// returns from the gateway's hosted page.
type ReconcileService interface {
	// Reconcile polls the gateway for the transaction's outcome and, on a
	// confirmed success, creates the order at most once.
	Reconcile(ctx context.Context, transactionID string) (*ReconcileResult, error)
}
