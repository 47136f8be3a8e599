package handlers

import (
	"log/slog"
	"net/http"

	"readingquest/internal/views"
)

// PlayHandler routes game actions to the caller's views
type PlayHandler struct {
	registry *views.Registry
	logger   *slog.Logger
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(registry *views.Registry, logger *slog.Logger) *PlayHandler {
	return &PlayHandler{registry: registry, logger: logger}
}

type playerNameRequest struct {
	PlayerName string `json:"playerName"`
}

type choiceRequest struct {
	Round  int `json:"round"`
	Option int `json:"option"`
}

type wordRequest struct {
	WordID string `json:"wordId"`
}

func (h *PlayHandler) adventure(w http.ResponseWriter, r *http.Request) (*views.AdventureView, bool) {
	v, err := h.registry.Adventure(r.Context(), PlayIDFromContext(r.Context()))
	if err != nil {
		respondWithErr(w, h.logger, err)
		return nil, false
	}
	return v, true
}

func (h *PlayHandler) sentence(w http.ResponseWriter, r *http.Request) (*views.SentenceView, bool) {
	v, err := h.registry.Sentence(r.Context(), PlayIDFromContext(r.Context()))
	if err != nil {
		respondWithErr(w, h.logger, err)
		return nil, false
	}
	return v, true
}

// respond writes data, or the error when there is one
func (h *PlayHandler) respond(w http.ResponseWriter, data any, err error) {
	if err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, data, "")
}

// AdventureState returns the caller's adventure, creating it on first use
func (h *PlayHandler) AdventureState(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.adventure(w, r); ok {
		h.respond(w, v.State(r.Context()), nil)
	}
}

func (h *PlayHandler) AdventureStart(w http.ResponseWriter, r *http.Request) {
	var body playerNameRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	if v, ok := h.adventure(w, r); ok {
		result, err := v.Start(r.Context(), body.PlayerName)
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) AdventureChoose(w http.ResponseWriter, r *http.Request) {
	var body choiceRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	if v, ok := h.adventure(w, r); ok {
		result, err := v.Choose(r.Context(), body.Round, body.Option)
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) AdventureSave(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.adventure(w, r); ok {
		result, err := v.Save(r.Context())
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) AdventureContinue(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.adventure(w, r); ok {
		result, err := v.Continue(r.Context())
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) AdventureDiscard(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.adventure(w, r); ok {
		result, err := v.Discard(r.Context())
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) AdventureRestart(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.adventure(w, r); ok {
		h.respond(w, v.Restart(r.Context()), nil)
	}
}

func (h *PlayHandler) AdventureFinish(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.adventure(w, r); ok {
		result, err := v.Finish(r.Context())
		h.respond(w, result, err)
	}
}

// SentenceState returns the caller's sentence builder, creating it on first use
func (h *PlayHandler) SentenceState(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.sentence(w, r); ok {
		h.respond(w, v.State(r.Context()), nil)
	}
}

func (h *PlayHandler) SentenceSelect(w http.ResponseWriter, r *http.Request) {
	var body wordRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	if v, ok := h.sentence(w, r); ok {
		result, err := v.Select(r.Context(), body.WordID)
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) SentenceRemove(w http.ResponseWriter, r *http.Request) {
	var body wordRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	if v, ok := h.sentence(w, r); ok {
		result, err := v.Remove(r.Context(), body.WordID)
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) SentenceCheck(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.sentence(w, r); ok {
		result, err := v.Check(r.Context())
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) SentenceReset(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.sentence(w, r); ok {
		result, err := v.Reset(r.Context())
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) SentenceRestart(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.sentence(w, r); ok {
		h.respond(w, v.Restart(r.Context()), nil)
	}
}

func (h *PlayHandler) SentenceName(w http.ResponseWriter, r *http.Request) {
	var body playerNameRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	if v, ok := h.sentence(w, r); ok {
		result, err := v.SetName(r.Context(), body.PlayerName)
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) SentenceSave(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.sentence(w, r); ok {
		result, err := v.Save(r.Context())
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) SentenceContinue(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.sentence(w, r); ok {
		result, err := v.Continue(r.Context())
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) SentenceDiscard(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.sentence(w, r); ok {
		result, err := v.Discard(r.Context())
		h.respond(w, result, err)
	}
}

func (h *PlayHandler) SentenceFinish(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.sentence(w, r); ok {
		result, err := v.Finish(r.Context())
		h.respond(w, result, err)
	}
}
