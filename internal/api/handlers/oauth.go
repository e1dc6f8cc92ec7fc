package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jot/notes-backend/internal/config"
	"github.com/jot/notes-backend/internal/service"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthHandler implements the Google sign-in flow. The provider's identity
// assertion doubles as the credential proof for restoring OAuth-origin
// archived accounts.
type OAuthHandler struct {
	authService *service.AuthService
	oauthConfig *oauth2.Config
}

func NewOAuthHandler(authService *service.AuthService, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// Configured reports whether provider credentials are present; the routes
// stay registered either way and fail closed when they are not.
func (h *OAuthHandler) Configured() bool {
	return h.oauthConfig.ClientID != "" && h.oauthConfig.ClientSecret != ""
}

// Login redirects to the provider's consent screen with a state cookie.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "oauth sign-in is not configured"})
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		writeError(w, err)
		return
	}
	state := base64.RawURLEncoding.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// Callback exchanges the authorization code and signs the user in,
// restoring an archived OAuth account along the way if one is waiting.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "oauth sign-in is not configured"})
		return
	}

	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "oauth state mismatch"})
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.WithError(err).Warn("oauth code exchange failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "oauth exchange failed"})
		return
	}

	info, err := h.fetchUserInfo(r, token)
	if err != nil {
		log.WithError(err).Warn("oauth userinfo fetch failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "oauth userinfo fetch failed"})
		return
	}

	result, err := h.authService.OAuthSignIn(r.Context(), service.OAuthSignInInput{
		Provider:   "google",
		ProviderID: info.ID,
		Email:      info.Email,
		FirstName:  info.GivenName,
		LastName:   info.FamilyName,
		AvatarURL:  info.Picture,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(result))
}

func (h *OAuthHandler) fetchUserInfo(r *http.Request, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
