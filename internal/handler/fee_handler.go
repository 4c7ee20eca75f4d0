package handler

import (
	"net/http"
	"regexp"

	"decokart/internal/model"
	"decokart/internal/repository"

	"github.com/rs/zerolog"
)

var pincodePathPattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// FeeHandler serves pin-code service fee lookups.
type FeeHandler struct {
	repo   repository.FeeRepository
	logger zerolog.Logger
}

// NewFeeHandler creates a new fee handler.
func NewFeeHandler(repo repository.FeeRepository, logger zerolog.Logger) *FeeHandler {
	return &FeeHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "fee").Logger(),
	}
}

// feeResponse is the body for GET /api/fees/{pincode}.
type feeResponse struct {
	Pincode    string  `json:"pincode"`
	ServiceFee float64 `json:"serviceFee"`
}

// GetByPincode handles GET /api/fees/{pincode} requests.
func (h *FeeHandler) GetByPincode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/fees/{pincode}
	pincode := r.URL.Path[len("/api/fees/"):]
	if !pincodePathPattern.MatchString(pincode) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidPincode, "pin code must be a 6-digit number", h.logger)
		return
	}

	fee, err := h.repo.ServiceFee(r.Context(), pincode)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	// Unknown pin codes carry no fee rather than an error.
	writeJSON(w, http.StatusOK, feeResponse{Pincode: pincode, ServiceFee: fee})
}
