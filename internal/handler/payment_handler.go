package handler

import (
	"encoding/json"
	"net/http"

	"decokart/internal/model"
	"decokart/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler handles payment confirmation and reconciliation requests.
type PaymentHandler struct {
	checkout  service.CheckoutService
	reconcile service.ReconcileService
	logger    zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(checkout service.CheckoutService, reconcile service.ReconcileService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		checkout:  checkout,
		reconcile: reconcile,
		logger:    logger.With().Str("handler", "payment").Logger(),
	}
}

// VerifyRazorpay handles POST /api/payments/razorpay/verify requests.
func (h *PaymentHandler) VerifyRazorpay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req service.RazorpayCompletion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "transaction id is required", h.logger)
		return
	}

	order, err := h.checkout.CompleteRazorpay(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// reconcileRequest is the body for POST /api/payments/reconcile.
type reconcileRequest struct {
	TransactionID string `json:"transactionId"`
}

// Reconcile handles POST /api/payments/reconcile requests for redirect-flow
// returns.
func (h *PaymentHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "transaction id is required", h.logger)
		return
	}

	result, err := h.reconcile.Reconcile(r.Context(), req.TransactionID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	// A pending or failed verdict is a valid outcome, not an error; the
	// storefront decides whether to retry from the remaining budget.
	writeJSON(w, http.StatusOK, result)
}
