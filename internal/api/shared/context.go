package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/taskvault/taskvault-api/internal/domain"
)

// ContextKey is the key type for request context values.
type ContextKey string

// Context keys for values attached by middleware.
const (
	// UserContextKey carries the authenticated *domain.User.
	UserContextKey ContextKey = "authUser"

	// TokenContextKey carries the raw bearer token of the current session,
	// so logout can revoke exactly the token that was presented.
	TokenContextKey ContextKey = "authToken"

	// TraceIDKey carries the request trace ID.
	TraceIDKey ContextKey = "traceID"
)

// traceIDLength is the number of random bytes in a trace ID.
const traceIDLength = 16 // 32 hex characters

// WithUser returns a context carrying the authenticated user and the raw
// session token.
func WithUser(ctx context.Context, user *domain.User, token string) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, user)
	return context.WithValue(ctx, TokenContextKey, token)
}

// UserFromRequest extracts the authenticated user from the request context.
// Returns the user and a boolean indicating if it was found.
func UserFromRequest(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*domain.User)
	return user, ok && user != nil
}

// TokenFromRequest extracts the raw session token from the request context.
func TokenFromRequest(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(TokenContextKey).(string)
	return token, ok && token != ""
}

// SetTraceID adds a fresh trace ID to the context for correlating logs and
// error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "" when absent.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID creates a random 32-character hex trace ID.
func generateTraceID() string {
	b := make([]byte, traceIDLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; here an empty
		// trace ID only degrades log correlation.
		slog.Error("failed to generate trace ID", "error", err)
		return ""
	}
	return hex.EncodeToString(b)
}
