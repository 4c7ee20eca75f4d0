package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidCoupon      = "INVALID_COUPON"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidPincode     = "INVALID_PINCODE"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeDraftNotFound      = "DRAFT_NOT_FOUND"
	ErrCodeGatewayFailure     = "GATEWAY_FAILURE"
	ErrCodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
	ErrCodeSignatureMismatch  = "SIGNATURE_MISMATCH"
	ErrCodePaymentFailed      = "PAYMENT_FAILED"
	ErrCodePaymentPending     = "PAYMENT_PENDING"
	ErrCodePaymentNotVerified = "PAYMENT_NOT_VERIFIED"
	ErrCodeRetriesExhausted   = "RETRIES_EXHAUSTED"
	ErrCodeReconcileFailed    = "RECONCILE_FAILED"
	ErrCodeReconcileInFlight  = "RECONCILE_IN_FLIGHT"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidCoupon   = NewDomainError(ErrCodeInvalidCoupon, "Coupon code is not valid for this cart")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPincode  = NewDomainError(ErrCodeInvalidPincode, "Pin code must be a 6-digit number")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")

	// ErrDraftNotFound is fatal for reconciliation: without the persisted
	// draft there is no way to reconstruct the order payload.
	ErrDraftNotFound = NewDomainError(ErrCodeDraftNotFound, "No checkout draft found for this transaction")

	// ErrGatewayUnavailable covers transport-level failures talking to a
	// payment gateway. It must never be conflated with a gateway-reported
	// payment failure.
	ErrGatewayUnavailable = NewDomainError(ErrCodeGatewayUnavailable, "Payment gateway is unreachable, please try again")
	ErrPaymentFailed      = NewDomainError(ErrCodePaymentFailed, "Payment was declined by the gateway")
	ErrPaymentPending     = NewDomainError(ErrCodePaymentPending, "Payment is still pending confirmation")
	ErrRetriesExhausted   = NewDomainError(ErrCodeRetriesExhausted, "Status check retry budget exhausted, please check your orders later")

	// ErrPaymentNotVerified guards the direct submission path: an order may
	// only be tagged as paid (completed or partial) by a flow that actually
	// verified the payment with the gateway.
	ErrPaymentNotVerified = NewDomainError(ErrCodePaymentNotVerified, "Online payments must complete a payment flow before an order is created")
	ErrSignatureMismatch  = NewDomainError(ErrCodeSignatureMismatch, "Payment signature verification failed")

	// ErrReconcileFailed means the payment is confirmed but the order could
	// not be recorded. Retrying automatically risks a double charge, so the
	// caller must surface a contact-support action instead.
	ErrReconcileFailed = NewDomainError(ErrCodeReconcileFailed, "Payment received but order creation failed, please contact support")

	// ErrReconcileInFlight guards against the same transaction being
	// reconciled concurrently, which could create two orders.
	ErrReconcileInFlight = NewDomainError(ErrCodeReconcileInFlight, "Reconciliation already in progress for this transaction")
)
