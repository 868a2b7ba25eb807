package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/sif/internal/auth"
	"github.com/dukerupert/sif/internal/domain"
)

func TestWithUser_AttachesPrincipal(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "sif-test", time.Hour)
	token, err := tokens.Mint(&domain.User{ID: "42", Email: "shopper@example.com"})
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	var got *domain.User
	handler := WithUser(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = domain.UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("no user attached to context")
	}
	if got.ID != "42" {
		t.Errorf("user.ID = %q, want %q", got.ID, "42")
	}
}

func TestWithUser_IgnoresInvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "sif-test", time.Hour)

	var got *domain.User
	handler := WithUser(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = domain.UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != nil {
		t.Errorf("user = %+v, want nil", got)
	}
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	called := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("handler was called without a principal")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Success {
		t.Error("success = true, want false")
	}
	if response.Message != "Unauthorized" {
		t.Errorf("message = %q, want %q", response.Message, "Unauthorized")
	}
}

func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	called := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	ctx := domain.NewContextWithUser(req.Context(), &domain.User{ID: "42"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if !called {
		t.Error("handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
