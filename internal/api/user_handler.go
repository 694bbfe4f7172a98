package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/platform/logger"
	"github.com/taskvault/taskvault-api/internal/service"
)

// avatarFormField is the multipart form field carrying the avatar image.
const avatarFormField = "avatar"

// invalidUpdatesMessage is returned when a profile or task patch contains a
// field outside the allow-list.
const invalidUpdatesMessage = "Invalid Updates!"

// UserHandler handles user account, session, and avatar endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register handles POST /users. On success it responds 201 with the created
// user and an initial session token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Name, req.EmailID, req.Password, req.Age)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Login handles POST /users/login. Wrong email and wrong password produce
// the same response.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unable to login")
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.EmailID, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Logout handles POST /users/logout, revoking only the token used on this
// request. Other sessions stay live.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}
	token, _ := shared.TokenFromRequest(r)

	if err := h.userService.Logout(r.Context(), user.ID, token); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "logged out"})
}

// LogoutAll handles POST /users/logoutAll, revoking every session token the
// user holds.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	if err := h.userService.LogoutAll(r.Context(), user.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "logged out everywhere"})
}

// Me handles GET /users/me, returning the authenticated user's profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// userUpdatableFields is the PATCH allow-list for profile updates.
var userUpdatableFields = map[string]bool{
	"name":     true,
	"age":      true,
	"emailID":  true,
	"password": true,
}

// UpdateMe handles PATCH /users/me. The body is inspected key by key so a
// request naming any field outside the allow-list is rejected whole, before
// anything is applied.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	var updates map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &updates); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(updates) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, invalidUpdatesMessage)
		return
	}
	for field := range updates {
		if !userUpdatableFields[field] {
			shared.RespondWithError(w, r, http.StatusBadRequest, invalidUpdatesMessage)
			return
		}
	}

	if raw, found := updates["name"]; found {
		if err := json.Unmarshal(raw, &user.Name); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid value for name")
			return
		}
	}
	if raw, found := updates["age"]; found {
		if err := json.Unmarshal(raw, &user.Age); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid value for age")
			return
		}
	}
	if raw, found := updates["emailID"]; found {
		var email string
		if err := json.Unmarshal(raw, &email); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid value for emailID")
			return
		}
		user.SetEmail(email)
	}
	if raw, found := updates["password"]; found {
		var password string
		if err := json.Unmarshal(raw, &password); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid value for password")
			return
		}
		user.SetPassword(password)
	}

	if err := h.userService.Update(r.Context(), user); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// DeleteMe handles DELETE /users/me, removing the account and every task it
// owns, then returning the deleted profile.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), user); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// allowedAvatarExtensions mirrors the upload filter: jpg, jpeg, or png only.
var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadAvatar handles POST /users/me/avatar. The image arrives as the
// "avatar" field of a multipart form and must be a jpg/jpeg/png of at most
// 1MB.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxAvatarSize+4096)
	if err := r.ParseMultipartForm(domain.MaxAvatarSize); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please upload an image under 1MB")
		return
	}

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAvatarExtensions[ext] {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please upload an image (jpg, jpeg, or png)")
		return
	}

	// LimitReader caps one past the maximum so an oversized file is
	// detected rather than silently truncated.
	data, err := io.ReadAll(io.LimitReader(file, domain.MaxAvatarSize+1))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error", err)
		return
	}
	if len(data) > domain.MaxAvatarSize {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please upload an image under 1MB")
		return
	}
	if len(data) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "avatar file is empty")
		return
	}

	if err := h.userService.SetAvatar(r.Context(), user.ID, data); err != nil {
		respondServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("avatar uploaded",
		"user_id", user.ID,
		"size_bytes", len(data))
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "avatar uploaded"})
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromRequest(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error",
			errors.New("authenticated route missing user in context"))
		return
	}

	if err := h.userService.ClearAvatar(r.Context(), user.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "avatar removed"})
}

// GetAvatar handles GET /users/{id}/avatar. The route is public; a missing
// user or an account without an avatar both produce 404. The image bytes
// are served with a sniffed Content-Type since the stored blob carries no
// format metadata.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	data, err := h.userService.GetAvatar(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to write avatar response", "error", err)
	}
}
