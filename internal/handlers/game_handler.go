package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"readingquest/internal/game/adventure"
	"readingquest/internal/game/sentence"
	"readingquest/internal/models"
)

const maxLeaderboardLimit = 100

// contentReader is the read side of the gateway
type contentReader interface {
	FetchContent(ctx context.Context, gameType models.GameType) (*models.GameDefinition, error)
	Leaderboard(ctx context.Context, gameType models.GameType, limit int) ([]models.ScoreRecord, error)
}

// GameHandler serves game content and leaderboards
type GameHandler struct {
	gateway contentReader
	logger  *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gateway contentReader, logger *slog.Logger) *GameHandler {
	return &GameHandler{gateway: gateway, logger: logger}
}

// GameInfo is the public part of a game definition
type GameInfo struct {
	GameType models.GameType `json:"gameType"`
	Title    string          `json:"title"`
	Content  any             `json:"content"`
}

type publicSentence struct {
	ID    int `json:"id"`
	Words int `json:"words"`
}

// publicContent drops the answers. Adventures keep only their rounds and
// sentences only their word counts.
func publicContent(def *models.GameDefinition) (any, error) {
	switch def.GameType {
	case models.GameAdventure:
		story, err := adventure.Decode(def.Content)
		if err != nil {
			return nil, err
		}
		return map[string]any{"rounds": story.Rounds}, nil
	case models.GameSentenceBuilder:
		c, err := sentence.Decode(def.Content)
		if err != nil {
			return nil, err
		}
		sentences := make([]publicSentence, len(c.Sentences))
		for i, s := range c.Sentences {
			sentences[i] = publicSentence{ID: s.ID, Words: len(s.Words)}
		}
		return map[string]any{"sentences": sentences}, nil
	}
	return nil, models.ErrUnknownGameType
}

// GetGame returns the title and public content of a game
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameType, err := models.ParseGameType(chi.URLParam(r, "gameType"))
	if err != nil {
		respondWithErr(w, h.logger, err)
		return
	}

	def, err := h.gateway.FetchContent(r.Context(), gameType)
	if err != nil {
		respondWithErr(w, h.logger, err)
		return
	}
	content, err := publicContent(def)
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "stored content is unreadable", err)
		return
	}

	respondJSON(w, http.StatusOK, GameInfo{GameType: def.GameType, Title: def.Title, Content: content}, "")
}

// Leaderboard returns the best scores of a game
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	gameType, err := models.ParseGameType(chi.URLParam(r, "gameType"))
	if err != nil {
		respondWithErr(w, h.logger, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLeaderboardLimit {
			respondWithError(w, h.logger, http.StatusBadRequest, "limit must be between 1 and 100", "", nil)
			return
		}
	}

	scores, err := h.gateway.Leaderboard(r.Context(), gameType, limit)
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, "Failed to load the leaderboard", "", err)
		return
	}
	if scores == nil {
		scores = []models.ScoreRecord{}
	}
	respondJSON(w, http.StatusOK, scores, "")
}
