package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/service"
	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body.
func writeError(w http.ResponseWriter, err error) {
	var archived *service.AccountArchivedError
	if errors.As(err, &archived) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     "account is archived and can be reactivated",
			ExpiresAt: archived.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrIncorrectCredential):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "incorrect credentials"})
	case errors.Is(err, domain.ErrArchiveExpired):
		writeJSON(w, http.StatusGone, errorResponse{Error: "reactivation window has expired"})
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAccountBanned):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrContentTooLarge),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrMissingUsername):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
