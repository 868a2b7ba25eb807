package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/sif/internal/domain"
)

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EOUTOFSTOCK, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"unknown_code", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := ErrorCodeToHTTPStatus(tt.code); got != tt.expected {
				t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.expected)
			}
		})
	}
}

func TestRespondError_Envelope(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "product not found",
			err:             domain.ErrProductNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Product not found.",
		},
		{
			name:            "invalid quantity",
			err:             domain.ErrInvalidQuantity,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Quantity must be greater than 0.",
		},
		{
			name:            "out of stock",
			err:             domain.OutOfStock("cart.add_item", 6),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Insufficient stock: 6 available.",
		},
		{
			name:            "conflict",
			err:             domain.Conflict("cart.add_item", "The cart was modified concurrently. Please retry."),
			expectedStatus:  http.StatusConflict,
			expectedMessage: "The cart was modified concurrently. Please retry.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()

			RespondError(rec, req, tt.err)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want %q", ct, "application/json")
			}

			var response Envelope
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Success {
				t.Error("success = true, want false")
			}
			if response.Message != tt.expectedMessage {
				t.Errorf("message = %q, want %q", response.Message, tt.expectedMessage)
			}
			if response.Data != nil {
				t.Errorf("data = %v, want nil", response.Data)
			}
		})
	}
}

func TestRespondError_InternalHidesDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	err := domain.Internal(nil, "db.query", "failed to connect to database at 192.168.1.100:5432")
	RespondError(rec, req, err)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var response Envelope
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	expected := "An internal error occurred. Please try again later."
	if response.Message != expected {
		t.Errorf("message = %q, want %q", response.Message, expected)
	}
}

func TestRespondOK_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondOK(rec, "Item added successfully!", map[string]int{"id": 1})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response Envelope
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Success {
		t.Error("success = false, want true")
	}
	if response.Message != "Item added successfully!" {
		t.Errorf("message = %q", response.Message)
	}
}
