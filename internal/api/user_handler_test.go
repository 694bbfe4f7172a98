package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault-api/internal/api"
	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/mocks"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Ada", "ada@example.com", "s3curepass", 36)
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$fakehash"
	user.Password = ""
	return user
}

// withAuthedUser simulates the auth middleware having run.
func withAuthedUser(req *http.Request, user *domain.User, token string) *http.Request {
	return req.WithContext(shared.WithUser(req.Context(), user, token))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)

	t.Run("successful registration", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockUserService{
			RegisterFn: func(ctx context.Context, name, email, password string, age int) (*domain.User, string, error) {
				assert.Equal(t, "Ada", name)
				assert.Equal(t, "ada@example.com", email)
				assert.Equal(t, 36, age)
				return user, "issued-token", nil
			},
		}
		handler := api.NewUserHandler(svc)

		body := `{"name":"Ada","emailID":"ada@example.com","password":"s3curepass","age":36}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "issued-token", resp.Token)
		assert.Equal(t, "ada@example.com", resp.User.EmailID)

		// Credentials must never leak into the response body.
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "fakehash")
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockUserService{
			RegisterFn: func(ctx context.Context, name, email, password string, age int) (*domain.User, string, error) {
				return nil, "", store.ErrEmailExists
			},
		}
		handler := api.NewUserHandler(svc)

		body := `{"name":"Ada","emailID":"ada@example.com","password":"s3curepass","age":36}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockUserService{
			RegisterFn: func(ctx context.Context, name, email, password string, age int) (*domain.User, string, error) {
				return nil, "", domain.NewValidationError("password", "too short", domain.ErrValidation)
			},
		}
		handler := api.NewUserHandler(svc)

		body := `{"name":"Ada","emailID":"ada@example.com","password":"short","age":36}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		handler := api.NewUserHandler(&mocks.MockUserService{})

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)

	t.Run("successful login", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockUserService{
			LoginFn: func(ctx context.Context, email, password string) (*domain.User, string, error) {
				return user, "issued-token", nil
			},
		}
		handler := api.NewUserHandler(svc)

		body := `{"emailID":"ada@example.com","password":"s3curepass"}`
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "issued-token", resp.Token)
	})

	t.Run("bad credentials use the generic message", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockUserService{
			LoginFn: func(ctx context.Context, email, password string) (*domain.User, string, error) {
				return nil, "", auth.ErrInvalidCredentials
			},
		}
		handler := api.NewUserHandler(svc)

		body := `{"emailID":"ada@example.com","password":"wrongpass"}`
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Unable to login", decodeError(t, rec).Error)
	})
}

func TestUpdateMe(t *testing.T) {
	t.Parallel()

	t.Run("applies allow-listed fields", func(t *testing.T) {
		t.Parallel()
		user := newTestUser(t)
		var updated *domain.User
		svc := &mocks.MockUserService{
			UpdateFn: func(ctx context.Context, u *domain.User) error {
				updated = u
				return nil
			},
		}
		handler := api.NewUserHandler(svc)

		body := `{"name":"Grace","age":40,"emailID":"Grace@Example.com","password":"news3cret"}`
		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(body))
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.UpdateMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, updated)
		assert.Equal(t, "Grace", updated.Name)
		assert.Equal(t, 40, updated.Age)
		assert.Equal(t, "grace@example.com", updated.Email, "email must be normalized")
		assert.Equal(t, "news3cret", updated.Password, "password staged for re-hashing")
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		t.Parallel()
		user := newTestUser(t)
		svc := &mocks.MockUserService{
			UpdateFn: func(ctx context.Context, u *domain.User) error {
				t.Fatal("update must not be called for rejected patches")
				return nil
			},
		}
		handler := api.NewUserHandler(svc)

		body := `{"name":"Grace","_id":"deadbeef"}`
		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(body))
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.UpdateMe(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Updates!", decodeError(t, rec).Error)
	})

	t.Run("rejects empty patch", func(t *testing.T) {
		t.Parallel()
		user := newTestUser(t)
		handler := api.NewUserHandler(&mocks.MockUserService{})

		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(`{}`))
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.UpdateMe(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Updates!", decodeError(t, rec).Error)
	})
}

func TestMe(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)
	handler := api.NewUserHandler(&mocks.MockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req = withAuthedUser(req, user, "tok")
	rec := httptest.NewRecorder()

	handler.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.ID)
	assert.NotContains(t, rec.Body.String(), "fakehash")
}

func TestLogoutEndpoints(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)

	t.Run("logout revokes only the presented token", func(t *testing.T) {
		t.Parallel()
		var revokedToken string
		svc := &mocks.MockUserService{
			LogoutFn: func(ctx context.Context, userID uuid.UUID, token string) error {
				assert.Equal(t, user.ID, userID)
				revokedToken = token
				return nil
			},
		}
		handler := api.NewUserHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
		req = withAuthedUser(req, user, "current-token")
		rec := httptest.NewRecorder()

		handler.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "current-token", revokedToken)
	})

	t.Run("logoutAll revokes every session", func(t *testing.T) {
		t.Parallel()
		called := false
		svc := &mocks.MockUserService{
			LogoutAllFn: func(ctx context.Context, userID uuid.UUID) error {
				assert.Equal(t, user.ID, userID)
				called = true
				return nil
			},
		}
		handler := api.NewUserHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/users/logoutAll", nil)
		req = withAuthedUser(req, user, "current-token")
		rec := httptest.NewRecorder()

		handler.LogoutAll(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}

func TestDeleteMe(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)
	deleted := false
	svc := &mocks.MockUserService{
		DeleteAccountFn: func(ctx context.Context, u *domain.User) error {
			assert.Equal(t, user.ID, u.ID)
			deleted = true
			return nil
		},
	}
	handler := api.NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/users/me", nil)
	req = withAuthedUser(req, user, "tok")
	rec := httptest.NewRecorder()

	handler.DeleteMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, deleted)

	var resp api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.ID)
}

func multipartAvatarBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadAvatar(t *testing.T) {
	t.Parallel()

	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

	t.Run("accepts png", func(t *testing.T) {
		t.Parallel()
		user := newTestUser(t)
		var stored []byte
		svc := &mocks.MockUserService{
			SetAvatarFn: func(ctx context.Context, userID uuid.UUID, avatar []byte) error {
				assert.Equal(t, user.ID, userID)
				stored = avatar
				return nil
			},
		}
		handler := api.NewUserHandler(svc)

		body, contentType := multipartAvatarBody(t, "me.png", pngHeader)
		req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.UploadAvatar(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pngHeader, stored)
	})

	t.Run("rejects disallowed extension", func(t *testing.T) {
		t.Parallel()
		user := newTestUser(t)
		handler := api.NewUserHandler(&mocks.MockUserService{
			SetAvatarFn: func(ctx context.Context, userID uuid.UUID, avatar []byte) error {
				t.Fatal("avatar must not be stored for rejected uploads")
				return nil
			},
		})

		body, contentType := multipartAvatarBody(t, "script.pdf", []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		t.Parallel()
		user := newTestUser(t)
		handler := api.NewUserHandler(&mocks.MockUserService{
			SetAvatarFn: func(ctx context.Context, userID uuid.UUID, avatar []byte) error {
				t.Fatal("avatar must not be stored for rejected uploads")
				return nil
			},
		})

		big := make([]byte, domain.MaxAvatarSize+1)
		body, contentType := multipartAvatarBody(t, "huge.jpg", big)
		req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		t.Parallel()
		user := newTestUser(t)
		handler := api.NewUserHandler(&mocks.MockUserService{})

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("other", "value"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req = withAuthedUser(req, user, "tok")
		rec := httptest.NewRecorder()

		handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAvatar(t *testing.T) {
	t.Parallel()

	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	userID := uuid.New()

	newRequest := func(id string) (*http.Request, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, "/users/"+id+"/avatar", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		return req, httptest.NewRecorder()
	}

	t.Run("serves stored avatar with sniffed type", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockUserService{
			GetAvatarFn: func(ctx context.Context, id uuid.UUID) ([]byte, error) {
				assert.Equal(t, userID, id)
				return pngHeader, nil
			},
		}
		handler := api.NewUserHandler(svc)

		req, rec := newRequest(userID.String())
		handler.GetAvatar(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, pngHeader, rec.Body.Bytes())
	})

	t.Run("missing avatar is 404", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockUserService{
			GetAvatarFn: func(ctx context.Context, id uuid.UUID) ([]byte, error) {
				return nil, store.ErrAvatarNotFound
			},
		}
		handler := api.NewUserHandler(svc)

		req, rec := newRequest(userID.String())
		handler.GetAvatar(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed user id is 404", func(t *testing.T) {
		t.Parallel()
		handler := api.NewUserHandler(&mocks.MockUserService{})

		req, rec := newRequest("not-a-uuid")
		handler.GetAvatar(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteAvatar(t *testing.T) {
	t.Parallel()

	user := newTestUser(t)
	cleared := false
	svc := &mocks.MockUserService{
		ClearAvatarFn: func(ctx context.Context, userID uuid.UUID) error {
			assert.Equal(t, user.ID, userID)
			cleared = true
			return nil
		},
	}
	handler := api.NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/users/me/avatar", nil)
	req = withAuthedUser(req, user, "tok")
	rec := httptest.NewRecorder()

	handler.DeleteAvatar(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cleared)
}
