// Package gateway adapts the two payment providers behind common
// capabilities: a popup-based synchronous flow (Razorpay) that creates an
// intent and verifies a signed confirmation, and a redirect-based
// asynchronous flow (PhonePe) whose outcome is reconciled by polling.
package gateway

import "context"

// Status is the normalised terminal state of a redirect-flow payment.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
	StatusUnknown Status = "unknown"
)

// Intent is a gateway-side payment order, created before the customer is
// shown the payment UI. Amount is in paise.
type Intent struct {
	GatewayOrderID string `json:"orderId"`
	KeyID          string `json:"keyId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// Verification carries the signed confirmation returned by a popup flow.
type Verification struct {
	GatewayOrderID string `json:"razorpay_order_id"`
	PaymentID      string `json:"razorpay_payment_id"`
	Signature      string `json:"razorpay_signature"`
}

// IntentGateway is the popup-flow capability: create an intent up front,
// verify the signed result before any order is created.
type IntentGateway interface {
	CreateIntent(ctx context.Context, amount float64, receipt string) (*Intent, error)
	VerifyPayment(ctx context.Context, v Verification) error
}

// RedirectGateway is the redirect-flow capability: the customer pays on a
// hosted page and we poll for the outcome on return.
type RedirectGateway interface {
	Status(ctx context.Context, transactionID string) (Status, error)
}
