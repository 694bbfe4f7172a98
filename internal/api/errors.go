package api

import (
	"errors"
	"net/http"

	"github.com/taskvault/taskvault-api/internal/api/shared"
	"github.com/taskvault/taskvault-api/internal/domain"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

// respondServiceError translates a service-layer error into an HTTP response.
// Validation and duplicate-email failures are client errors; credential
// failures use the deliberately vague login message; everything else is a
// 500 with the detail kept out of the body.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unable to login")
	case errors.Is(err, store.ErrEmailExists):
		shared.RespondWithError(w, r, http.StatusBadRequest, "email already in use")
	case errors.Is(err, domain.ErrValidation):
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid ID")
	case store.IsNotFoundError(err):
		respondNotFound(w)
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error", err)
	}
}

// respondNotFound writes a bare 404. Missing and unowned resources answer
// identically, with nothing in the body to distinguish them.
func respondNotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}
