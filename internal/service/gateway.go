package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"readingquest/internal/models"
	"readingquest/internal/repository"
	"readingquest/internal/validation"
)

// wordFilter checks free text against the bad words list
type wordFilter interface {
	ContainsBadWord(ctx context.Context, text string) (bool, error)
}

// Gateway is the single way game views reach storage and identity. Every
// call is attempted once; failures are logged and returned.
type Gateway struct {
	content  *repository.ContentRepository
	progress *repository.ProgressRepository
	scores   *repository.ScoreRepository
	filter   wordFilter
	logger   *slog.Logger
	limit    int
}

// NewGateway creates a gateway. filter may be nil to skip name filtering.
// defaultLimit is used when a leaderboard call asks for no limit.
func NewGateway(content *repository.ContentRepository, progress *repository.ProgressRepository, scores *repository.ScoreRepository, filter wordFilter, logger *slog.Logger, defaultLimit int) *Gateway {
	return &Gateway{
		content:  content,
		progress: progress,
		scores:   scores,
		filter:   filter,
		logger:   logger,
		limit:    defaultLimit,
	}
}

// FetchContent returns the definition for a game type. Missing or
// ambiguous content is ErrContentUnavailable.
func (g *Gateway) FetchContent(ctx context.Context, gameType models.GameType) (*models.GameDefinition, error) {
	def, err := g.content.Get(ctx, gameType)
	if err != nil {
		g.logger.Error("content fetch failed", "game_type", gameType, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}
	if def == nil {
		g.logger.Error("content missing", "game_type", gameType)
		return nil, fmt.Errorf("%w: no content for %s", ErrContentUnavailable, gameType)
	}
	return def, nil
}

// CurrentIdentity returns who is playing, a guest when nobody signed in
func (g *Gateway) CurrentIdentity(ctx context.Context) models.Identity {
	return IdentityFromContext(ctx)
}

// LoadProgress returns the saved game or nil
func (g *Gateway) LoadProgress(ctx context.Context, userID string, gameType models.GameType) (*models.ProgressRecord, error) {
	if userID == "" {
		return nil, ErrAuthAbsent
	}
	rec, err := g.progress.Get(ctx, userID, gameType)
	if err != nil {
		g.logger.Warn("progress load failed", "user_id", userID, "game_type", gameType, "err", err)
		return nil, err
	}
	return rec, nil
}

// SaveProgress upserts the snapshot for (userID, snapshot.GameType)
func (g *Gateway) SaveProgress(ctx context.Context, userID string, snapshot *models.ProgressRecord) error {
	if userID == "" {
		return ErrAuthAbsent
	}
	snapshot.UserID = userID
	if err := g.progress.Upsert(ctx, snapshot); err != nil {
		g.logger.Warn("progress save failed", "user_id", userID, "game_type", snapshot.GameType, "err", err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// DeleteProgress removes a saved game
func (g *Gateway) DeleteProgress(ctx context.Context, userID string, gameType models.GameType) error {
	if userID == "" {
		return ErrAuthAbsent
	}
	if err := g.progress.Delete(ctx, userID, gameType); err != nil {
		g.logger.Warn("progress delete failed", "user_id", userID, "game_type", gameType, "err", err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}

// SubmitScore appends a leaderboard entry
func (g *Gateway) SubmitScore(ctx context.Context, userID, playerName string, gameType models.GameType, score int) (*models.ScoreRecord, error) {
	if userID == "" {
		return nil, ErrAuthAbsent
	}
	rec, err := g.scores.Insert(ctx, models.ScoreRecord{
		UserID:     userID,
		GameType:   gameType,
		Score:      score,
		PlayerName: playerName,
	})
	if err != nil {
		g.logger.Warn("score submit failed", "user_id", userID, "game_type", gameType, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	g.logger.Info("score submitted", "user_id", userID, "game_type", gameType, "score", score)
	return rec, nil
}

// Leaderboard returns up to limit scores, best first
func (g *Gateway) Leaderboard(ctx context.Context, gameType models.GameType, limit int) ([]models.ScoreRecord, error) {
	if limit <= 0 {
		limit = g.limit
	}
	scores, err := g.scores.Leaderboard(ctx, gameType, limit)
	if err != nil {
		g.logger.Warn("leaderboard load failed", "game_type", gameType, "err", err)
		return nil, err
	}
	return scores, nil
}

// CheckPlayerName validates a display name and returns it trimmed
func (g *Gateway) CheckPlayerName(ctx context.Context, name string) (string, error) {
	name, err := validation.PlayerName(name)
	if err != nil {
		return "", err
	}
	if g.filter == nil {
		return name, nil
	}
	bad, err := g.filter.ContainsBadWord(ctx, name)
	if err != nil {
		// The filter is best effort; a lookup failure does not block play
		g.logger.Warn("player name check failed", "err", err)
		return name, nil
	}
	if bad {
		return "", ErrNameRejected
	}
	return name, nil
}

// IsValidationError reports whether err came from input validation
func IsValidationError(err error) bool {
	var verr validation.Error
	return errors.As(err, &verr)
}
