package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"decokart/internal/model"
	"decokart/internal/pricing"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog"
)

// razorpayGateway implements IntentGateway against the Razorpay Orders API.
type razorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
	logger    zerolog.Logger
}

// NewRazorpayGateway creates a Razorpay-backed intent gateway.
func NewRazorpayGateway(keyID, keySecret string, logger zerolog.Logger) IntentGateway {
	return &razorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logger.With().Str("gateway", "razorpay").Logger(),
	}
}

// CreateIntent creates a gateway order for the given rupee amount. The
// returned intent carries everything the storefront popup needs.
func (g *razorpayGateway) CreateIntent(ctx context.Context, amount float64, receipt string) (*Intent, error) {
	paise := pricing.ToPaise(amount)
	if paise <= 0 {
		return nil, fmt.Errorf("intent amount must be positive, got %.2f", amount)
	}

	data := map[string]interface{}{
		"amount":   paise,
		"currency": "INR",
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("receipt", receipt).
			Int64("amount_paise", paise).
			Msg("failed to create razorpay order")
		return nil, fmt.Errorf("%w: razorpay order create: %v", model.ErrGatewayUnavailable, err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		g.logger.Error().
			Interface("response", body).
			Msg("razorpay order response missing id")
		return nil, fmt.Errorf("%w: razorpay order response missing id", model.ErrGatewayUnavailable)
	}

	g.logger.Info().
		Str("gateway_order_id", orderID).
		Str("receipt", receipt).
		Int64("amount_paise", paise).
		Msg("razorpay order created")

	return &Intent{
		GatewayOrderID: orderID,
		KeyID:          g.keyID,
		Amount:         paise,
		Currency:       "INR",
	}, nil
}

// VerifyPayment checks the HMAC-SHA256 signature Razorpay computes over
// "<order_id>|<payment_id>". A mismatch means the confirmation cannot be
// trusted and no order may be created from it.
func (g *razorpayGateway) VerifyPayment(ctx context.Context, v Verification) error {
	if v.GatewayOrderID == "" || v.PaymentID == "" || v.Signature == "" {
		return model.ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(v.GatewayOrderID + "|" + v.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(v.Signature)) {
		g.logger.Warn().
			Str("gateway_order_id", v.GatewayOrderID).
			Str("payment_id", v.PaymentID).
			Msg("razorpay signature mismatch")
		return model.ErrSignatureMismatch
	}

	g.logger.Info().
		Str("gateway_order_id", v.GatewayOrderID).
		Str("payment_id", v.PaymentID).
		Msg("razorpay payment verified")

	return nil
}
