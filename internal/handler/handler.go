package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"decokart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already on the wire; nothing more can be
		// reported to the client.
		return
	}
}

// writeError writes an error response with the given status code, code, and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// statusForCode maps domain error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidCoupon,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidPincode,
		model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField:
		return http.StatusBadRequest
	case model.ErrCodeOrderNotFound, model.ErrCodeDraftNotFound:
		return http.StatusNotFound
	case model.ErrCodeSignatureMismatch:
		return http.StatusUnprocessableEntity
	case model.ErrCodePaymentNotVerified:
		return http.StatusForbidden
	case model.ErrCodePaymentFailed:
		return http.StatusPaymentRequired
	case model.ErrCodePaymentPending:
		return http.StatusAccepted
	case model.ErrCodeGatewayUnavailable:
		return http.StatusBadGateway
	case model.ErrCodeRetriesExhausted:
		return http.StatusTooManyRequests
	case model.ErrCodeReconcileInFlight:
		return http.StatusConflict
	case model.ErrCodeReconcileFailed:
		return http.StatusInternalServerError
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders a service-layer error. Domain errors keep their
// code and message; anything else becomes an opaque internal error.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}
