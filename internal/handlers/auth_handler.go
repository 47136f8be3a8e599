package handlers

import (
	"log/slog"
	"net/http"

	"readingquest/internal/security"
	"readingquest/internal/service"
)

// AuthHandler handles account and session requests
type AuthHandler struct {
	authService          *service.AuthService
	csrf                 *security.CSRFGenerator
	logger               *slog.Logger
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	appBaseURL           string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, logger *slog.Logger, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL, appBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		csrf:                 csrf,
		logger:               logger,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		appBaseURL:           appBaseURL,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Me is the current player as seen by the browser
type Me struct {
	Authenticated bool                `json:"authenticated"`
	UserID        string              `json:"userId,omitempty"`
	Email         string              `json:"email,omitempty"`
	Name          string              `json:"name,omitempty"`
	CSRFToken     string              `json:"csrfToken,omitempty"`
	Providers     []OAuthProviderView `json:"providers"`
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, login *service.Login, status int, msg string) {
	http.SetCookie(w, security.NewCookie(r, security.SessionCookie, login.Token, login.Session.ExpiresAt))
	respondJSON(w, status, Me{
		Authenticated: true,
		UserID:        login.User.ID,
		Email:         login.User.Email,
		Name:          login.User.Name,
		CSRFToken:     h.csrf.Token(login.Session.ID),
		Providers:     h.oauthProviderViews(),
	}, msg)
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		respondWithErr(w, h.logger, err)
		return
	}

	login, err := h.authService.Register(r.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	h.startSession(w, r, login, http.StatusCreated, "account created")
}

// Login signs in with email and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(w, r, &body); err != nil {
		respondWithErr(w, h.logger, err)
		return
	}

	login, err := h.authService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	h.startSession(w, r, login, http.StatusOK, "signed in")
}

// Logout deletes the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id := service.IdentityFromContext(r.Context())
	if id.Authenticated {
		if err := h.authService.Logout(r.Context(), id.SessionID); err != nil {
			h.logger.Warn("logout failed", "err", err)
		}
	}
	http.SetCookie(w, security.DeleteCookie(r, security.SessionCookie))
	respondJSON(w, http.StatusOK, Me{Providers: h.oauthProviderViews()}, "signed out")
}

// Me returns the current identity and, for signed-in players, a CSRF token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := service.IdentityFromContext(r.Context())
	me := Me{Providers: h.oauthProviderViews()}
	if id.Authenticated {
		me.Authenticated = true
		me.UserID = id.UserID
		me.Email = id.Email
		me.Name = id.Name
		me.CSRFToken = h.csrf.Token(id.SessionID)
	}
	respondJSON(w, http.StatusOK, me, "")
}
