package handlers

import "time"

const (
	// CSRFHeader carries the CSRF token on mutating requests of signed-in players
	CSRFHeader = "X-CSRF-Token"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"

	maxBodyBytes  = 64 << 10
	playCookieTTL = 30 * 24 * time.Hour
	oauthStateTTL = 10 * time.Minute
)
