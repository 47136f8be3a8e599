package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookie carries the signed session token of a signed-in player
	SessionCookie = "rq_session"
	// PlayCookie identifies a browser's game views, for guests too
	PlayCookie = "rq_play"
	// OAuthStateCookie holds the state value during an OAuth redirect
	OAuthStateCookie = "rq_oauth_state"
)

// NewPlayID returns a fresh play id
func NewPlayID() string {
	return uuid.NewString()
}

// ValidPlayID reports whether id looks like an id from NewPlayID
func ValidPlayID(id string) bool {
	return uuid.Validate(id) == nil
}

// IsSecureRequest determines if the request is over HTTPS, directly or
// behind a proxy that sets X-Forwarded-Proto.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if r.Header.Get("X-Forwarded-Proto") == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// NewCookie creates an HttpOnly cookie. Secure follows the request scheme.
func NewCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// DeleteCookie creates a cookie that clears name
func DeleteCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
