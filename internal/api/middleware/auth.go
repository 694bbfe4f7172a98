// Package middleware provides HTTP middleware for the API: bearer-token
// authentication and request trace IDs.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/redact"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

// authFailureMessage is the single response body for every authentication
// failure. Bad signature, unknown user, and revoked token are deliberately
// indistinguishable to the caller.
const authFailureMessage = "Please Authenticate"

// AuthMiddleware gates protected routes behind bearer-token authentication.
type AuthMiddleware struct {
	tokenService auth.TokenService
	userStore    store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		userStore:    userStore,
	}
}

// Authenticate verifies the bearer token from the Authorization header,
// requires it to be live in the owning user's token list, and attaches the
// resolved user and raw token to the request context for downstream
// handlers. Every failure collapses into one 400 response.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.reject(w, r, "missing authorization header", nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			m.reject(w, r, "malformed authorization header", nil)
			return
		}
		token := parts[1]

		claims, err := m.tokenService.VerifyToken(r.Context(), token)
		if err != nil {
			m.reject(w, r, "token verification failed", err)
			return
		}

		// A valid signature is not a live session: the token must still be
		// in the user's token list, or logout would not revoke anything.
		user, err := m.userStore.GetByIDAndToken(r.Context(), claims.UserID, token)
		if err != nil {
			m.reject(w, r, "no matching user/token pair", err)
			return
		}

		ctx := shared.WithUser(r.Context(), user, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, reason string, err error) {
	attrs := []any{
		"reason", reason,
		"path", r.URL.Path,
	}
	if err != nil {
		attrs = append(attrs, "error", redact.Error(err))
	}
	slog.Debug("authentication rejected", attrs...)

	shared.RespondWithError(w, r, http.StatusBadRequest, authFailureMessage)
}
