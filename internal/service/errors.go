package service

import "errors"

var (
	// ErrContentUnavailable blocks game entry: content is missing or ambiguous
	ErrContentUnavailable = errors.New("game content is unavailable")
	// ErrSaveFailed means a progress or score write did not go through
	ErrSaveFailed = errors.New("failed to save game progress")
	// ErrAuthAbsent is returned for save and score calls made as a guest
	ErrAuthAbsent = errors.New("sign in to save your game")
	// ErrNameRejected is returned for player names on the bad words list
	ErrNameRejected = errors.New("please choose a different name")

	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)
