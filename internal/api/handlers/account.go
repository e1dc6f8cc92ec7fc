package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jot/notes-backend/internal/api/middleware"
	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// AccountHandler exposes the lifecycle engine: delete (archive), the
// reactivation gate, and restore.
type AccountHandler struct {
	authService *service.AuthService
	lifecycle   *service.LifecycleService
}

func NewAccountHandler(authService *service.AuthService, lifecycle *service.LifecycleService) *AccountHandler {
	return &AccountHandler{authService: authService, lifecycle: lifecycle}
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
	Reason   string `json:"reason"`
}

// Delete archives the authenticated account. Password-bearing accounts must
// re-prove the password here; OAuth-only accounts are covered by session
// ownership.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user.HasPassword() {
		if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
			writeError(w, domain.ErrIncorrectCredential)
			return
		}
	}

	archived, err := h.lifecycle.Archive(r.Context(), userID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "archived",
		"expiresAt": archived.ExpiresAt,
	})
}

// ReactivationStatus reports whether an email sits behind the gate. Expired
// archives are purged by the check and report as not found.
func (h *AccountHandler) ReactivationStatus(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email query parameter is required"})
		return
	}

	status, expiresAt, err := h.lifecycle.Check(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	if status == service.GateActive {
		writeJSON(w, http.StatusOK, map[string]any{
			"reactivatable": true,
			"expiresAt":     expiresAt,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reactivatable": false})
}

type ReactivateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Reactivate restores an archived account and signs it in.
func (h *AccountHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	var req ReactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email is required"})
		return
	}

	result, err := h.authService.Reactivate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Nothing to restore; either never archived or already expired.
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no reactivatable account for this email"})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(result))
}
