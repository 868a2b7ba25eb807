// Package handler contains the JSON HTTP handlers for the store API.
// Every response uses the same envelope: {success, message, data}.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/sif/internal/domain"
	"github.com/dukerupert/sif/internal/middleware"
)

// Envelope is the uniform API response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Respond writes a success envelope with the given status.
func Respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondOK writes a 200 success envelope.
func RespondOK(w http.ResponseWriter, message string, data any) {
	Respond(w, http.StatusOK, message, data)
}

// RespondError maps a domain error to its HTTP status and writes a failure
// envelope. Internal details are logged, never echoed to the caller.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// ErrorCodeToHTTPStatus maps a domain error code to an HTTP status code.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID, domain.EOUTOFSTOCK:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes a request body into dst, rejecting unknown shapes with
// a validation error. The request shape is always a single documented
// object; there is no fallback parsing.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("request.decode", "Invalid request payload.")
	}
	return nil
}

// amount converts cents to currency units for JSON serialization.
func amount(cents int64) float64 {
	return float64(cents) / 100
}
