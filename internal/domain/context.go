// Package domain provides core business types and context helpers for Sif.
//
// Context helpers centralize request-scoped data access so the authenticated
// principal flows through one well-known path instead of ad hoc context keys.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores the authenticated user in context.
	userContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// User represents the authenticated principal stored in context.
// This is a minimal struct for context storage - the full user record
// can be fetched from the database if needed.
type User struct {
	// ID is the opaque principal identifier (the token subject).
	// Cart ownership is keyed on this value.
	ID    string
	Email string
}

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user from context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// PrincipalFromContext retrieves the principal id from context.
// Returns empty string if no user is present.
func PrincipalFromContext(ctx context.Context) string {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}

// IsAuthenticated returns true if there is a user in context.
func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
