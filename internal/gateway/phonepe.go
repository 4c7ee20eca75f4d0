package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"decokart/internal/model"

	"github.com/rs/zerolog"
)

// phonePeGateway implements RedirectGateway against the PhonePe status API.
type phonePeGateway struct {
	baseURL    string
	merchantID string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewPhonePeGateway creates a PhonePe-backed redirect gateway.
func NewPhonePeGateway(baseURL, merchantID string, timeout time.Duration, logger zerolog.Logger) RedirectGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &phonePeGateway{
		baseURL:    baseURL,
		merchantID: merchantID,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("gateway", "phonepe").Logger(),
	}
}

// statusResponse is the relevant slice of the PhonePe status payload.
type statusResponse struct {
	Success bool `json:"success"`
	Data    struct {
		State string `json:"state"`
	} `json:"data"`
}

// Status polls the gateway for the outcome of a redirect-flow transaction.
// Transport failures return model.ErrGatewayUnavailable so callers can offer
// a retry; they are never reported as a gateway-declined payment.
func (g *phonePeGateway) Status(ctx context.Context, transactionID string) (Status, error) {
	url := fmt.Sprintf("%s/pg/v1/status/%s/%s", g.baseURL, g.merchantID, transactionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StatusUnknown, fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-MERCHANT-ID", g.merchantID)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("phonepe status request failed")
		return StatusUnknown, fmt.Errorf("%w: phonepe status: %v", model.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		g.logger.Warn().
			Int("status", resp.StatusCode).
			Str("transaction_id", transactionID).
			Msg("phonepe status returned server error")
		return StatusUnknown, fmt.Errorf("%w: phonepe status returned %d", model.ErrGatewayUnavailable, resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		g.logger.Warn().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("failed to decode phonepe status response")
		return StatusUnknown, fmt.Errorf("%w: decode phonepe status: %v", model.ErrGatewayUnavailable, err)
	}

	mapped := mapPhonePeState(body.Data.State)

	g.logger.Info().
		Str("transaction_id", transactionID).
		Str("gateway_state", body.Data.State).
		Str("status", string(mapped)).
		Msg("phonepe status polled")

	return mapped, nil
}

// mapPhonePeState maps gateway states onto the four terminal statuses. An
// unrecognised state is unknown, never a silent success or failure.
func mapPhonePeState(state string) Status {
	switch state {
	case "COMPLETED":
		return StatusSuccess
	case "PENDING":
		return StatusPending
	case "FAILED":
		return StatusFailed
	default:
		return StatusUnknown
	}
}
