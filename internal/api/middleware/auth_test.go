package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault-api/internal/api/middleware"
	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/mocks"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

func newAuthedUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Ada", "ada@example.com", "s3curepass", 36)
	require.NoError(t, err)
	return user
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	user := newAuthedUser(t)
	const liveToken = "live-token"

	tokenService := &mocks.MockTokenService{
		VerifyTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			if tokenString == liveToken || tokenString == "revoked-token" {
				return &auth.Claims{UserID: user.ID, Subject: user.ID.String()}, nil
			}
			return nil, auth.ErrInvalidToken
		},
	}
	userStore := &mocks.MockUserStore{
		GetByIDAndTokenFn: func(ctx context.Context, id uuid.UUID, token string) (*domain.User, error) {
			if id == user.ID && token == liveToken {
				return user, nil
			}
			return nil, store.ErrUserNotFound
		},
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService, userStore)

	// The wrapped handler records whether it ran and what it saw in context.
	var gotUser *domain.User
	var gotToken string
	handler := authMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = shared.UserFromRequest(r)
		gotToken, _ = shared.TokenFromRequest(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid live token", "Bearer " + liveToken, http.StatusOK},
		{"missing header", "", http.StatusBadRequest},
		{"not bearer scheme", "Basic " + liveToken, http.StatusBadRequest},
		{"empty bearer value", "Bearer ", http.StatusBadRequest},
		{"garbage token", "Bearer garbage", http.StatusBadRequest},
		{"valid signature but revoked", "Bearer revoked-token", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotUser, gotToken = nil, ""

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				require.NotNil(t, gotUser)
				assert.Equal(t, user.ID, gotUser.ID)
				assert.Equal(t, liveToken, gotToken)
				return
			}

			// Every failure mode must be indistinguishable to the caller.
			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Please Authenticate", body.Error)
			assert.Nil(t, gotUser, "handler must not run on auth failure")
		})
	}
}
