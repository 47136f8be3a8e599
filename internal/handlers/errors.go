package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"readingquest/internal/game/adventure"
	"readingquest/internal/game/sentence"
	"readingquest/internal/models"
	"readingquest/internal/service"
	"readingquest/internal/validation"
	"readingquest/internal/views"
)

// errInvalidBody is returned for request bodies that do not decode
var errInvalidBody = errors.New("invalid request body")

// JSONResponse is the envelope of every API response
type JSONResponse struct {
	Error   bool   `json:"error"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{Data: data, Message: msg})
}

// respondWithError logs err, if any, and writes userMsg in the envelope
func respondWithError(w http.ResponseWriter, logger *slog.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(context.Background(), level, logMsg, "status", status, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{Error: true, Message: userMsg})
}

// respondWithErr maps err to a status and message and writes it
func respondWithErr(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, msg := statusFor(err)
	respondWithError(w, logger, status, msg, "", err)
}

// statusFor maps domain errors to HTTP statuses and user-facing messages
func statusFor(err error) (int, string) {
	var verr validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, ErrInvalidRequestBody
	case errors.Is(err, models.ErrUnknownGameType):
		return http.StatusNotFound, "Unknown game"

	case errors.Is(err, service.ErrContentUnavailable):
		return http.StatusServiceUnavailable, "This game is not available right now. Please return home."
	case errors.Is(err, service.ErrSaveFailed):
		return http.StatusInternalServerError, service.ErrSaveFailed.Error()
	case errors.Is(err, service.ErrAuthAbsent):
		return http.StatusUnauthorized, service.ErrAuthAbsent.Error()
	case errors.Is(err, service.ErrNameRejected):
		return http.StatusBadRequest, service.ErrNameRejected.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "An account with this email already exists"
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		return http.StatusUnauthorized, ErrUnauthorized

	case errors.Is(err, adventure.ErrNotStarted),
		errors.Is(err, adventure.ErrSessionOver),
		errors.Is(err, adventure.ErrMessagePending),
		errors.Is(err, adventure.ErrWrongRound):
		return http.StatusConflict, capitalize(err)
	case errors.Is(err, adventure.ErrNoTransition):
		return http.StatusUnprocessableEntity, "That choice leads nowhere"

	case errors.Is(err, sentence.ErrUnknownWord):
		return http.StatusBadRequest, "Unknown word"
	case errors.Is(err, sentence.ErrNotCheckable),
		errors.Is(err, sentence.ErrAdvancing),
		errors.Is(err, sentence.ErrComplete):
		return http.StatusConflict, capitalize(err)

	case errors.Is(err, views.ErrNoSavedGame):
		return http.StatusNotFound, "There is no saved game"
	case errors.Is(err, views.ErrNotFinished), errors.Is(err, views.ErrAlreadyStarted):
		return http.StatusConflict, capitalize(err)
	case errors.Is(err, views.ErrNameRequired):
		return http.StatusBadRequest, "Enter your name first"
	}
	return http.StatusInternalServerError, ErrInternalServerError
}

func capitalize(err error) string {
	msg := err.Error()
	if msg == "" || msg[0] < 'a' || msg[0] > 'z' {
		return msg
	}
	return string(msg[0]-'a'+'A') + msg[1:]
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}
