package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"readingquest/internal/models"
	"readingquest/internal/security"
	"readingquest/internal/service"
)

type contextKey string

const playIDKey contextKey = "play_id"

// authenticator turns a session token into an identity
type authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	auth   authenticator
	csrf   *security.CSRFGenerator
	logger *slog.Logger
	now    func() time.Time
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(auth authenticator, csrf *security.CSRFGenerator, logger *slog.Logger) *Middleware {
	return &Middleware{auth: auth, csrf: csrf, logger: logger, now: time.Now}
}

// Identify resolves the session cookie into the request identity. Requests
// without a valid session continue as guests.
func (m *Middleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.SessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := m.auth.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, service.ErrSessionNotFound) && !errors.Is(err, service.ErrSessionExpired) {
				m.logger.Error("session lookup failed", "err", err)
			}
			http.SetCookie(w, security.DeleteCookie(r, security.SessionCookie))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(service.WithIdentity(r.Context(), id)))
	})
}

// RequireUser rejects guests with 401
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !service.IdentityFromContext(r.Context()).Authenticated {
			respondWithErr(w, m.logger, service.ErrAuthAbsent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CSRFProtect checks the CSRF header on mutating requests of signed-in
// players. Guests have no session to protect.
func (m *Middleware) CSRFProtect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		id := service.IdentityFromContext(r.Context())
		if id.Authenticated && !m.csrf.Valid(id.SessionID, r.Header.Get(CSRFHeader)) {
			respondWithError(w, m.logger, http.StatusForbidden, "Invalid CSRF token", "csrf check failed", errors.New("missing or invalid token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PlayCookie makes sure the browser has a play id and puts it in the context
func (m *Middleware) PlayCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playID := ""
		if cookie, err := r.Cookie(security.PlayCookie); err == nil && security.ValidPlayID(cookie.Value) {
			playID = cookie.Value
		} else {
			playID = security.NewPlayID()
		}
		// Refresh the expiry on every visit
		http.SetCookie(w, security.NewCookie(r, security.PlayCookie, playID, m.now().Add(playCookieTTL)))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playIDKey, playID)))
	})
}

// PlayIDFromContext returns the play id set by PlayCookie
func PlayIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(playIDKey).(string)
	return id
}

// RateLimit rejects clients that exceed the limiter with 429
func (m *Middleware) RateLimit(limiter *security.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := security.ClientIP(r)
			if !limiter.Allow(ip) {
				m.logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				respondWithError(w, m.logger, http.StatusTooManyRequests, "Too many attempts, please try again later", "", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging logs every request with its status and duration
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		})
	}
}
