package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/sif/internal/auth"
	"github.com/dukerupert/sif/internal/domain"
)

// WithUser extracts the bearer token from the Authorization header and, when
// it verifies, attaches the principal to the request context. The middleware
// is optional by itself: anonymous requests pass through without a user.
func WithUser(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := tokens.Verify(token)
			if err != nil {
				// Invalid token, continue without user
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures a principal is present, answering 401 with the JSON
// envelope when it is not. Every cart operation sits behind this.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondUnauthorized(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// respondUnauthorized writes a 401 with the standard response envelope.
// It mirrors handler.RespondError but is self-contained to avoid a circular
// import (handler imports middleware for GetLogger).
func respondUnauthorized(w http.ResponseWriter, r *http.Request) {
	GetLogger(r.Context()).Info("unauthorized request",
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Unauthorized",
		"data":    nil,
	})
}
