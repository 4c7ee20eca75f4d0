package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"decokart/internal/model"
	"decokart/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout-related HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Quote handles POST /api/checkout/quote requests.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req service.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// Initiate handles POST /api/checkout/initiate requests.
func (h *CheckoutHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req service.InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Initiate(r.Context(), &req)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	// An order means the flow finished in one step (COD without upfront).
	if resp.Order != nil {
		writeJSON(w, http.StatusCreated, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeCheckoutError distinguishes field-level validation failures from
// domain and internal errors.
func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "required") ||
		strings.Contains(err.Error(), "unsupported") ||
		strings.Contains(err.Error(), "at least one") {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), h.logger)
		return
	}
	writeServiceError(w, err, h.logger)
}
