package handler

import (
	"encoding/json"
	"net/http"

	"decokart/internal/coupon"
	"decokart/internal/model"

	"github.com/rs/zerolog"
)

// CouponHandler handles coupon validation and redemption requests.
type CouponHandler struct {
	validator coupon.Validator
	logger    zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(validator coupon.Validator, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		validator: validator,
		logger:    logger.With().Str("handler", "coupon").Logger(),
	}
}

// couponRequest is the body for coupon validate and apply calls.
type couponRequest struct {
	Code      string  `json:"code"`
	CartTotal float64 `json:"cartTotal"`
}

// Validate handles POST /api/coupons/validate requests.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "coupon code is required", h.logger)
		return
	}

	applied, err := h.validator.Validate(r.Context(), req.Code, req.CartTotal)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, applied)
}

// Apply handles POST /api/coupons/apply requests.
func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "coupon code is required", h.logger)
		return
	}

	if err := h.validator.Apply(r.Context(), req.Code); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}
