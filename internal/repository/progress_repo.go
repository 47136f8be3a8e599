package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"readingquest/internal/database"
	"readingquest/internal/models"
)

// ProgressRepository stores saved games, one row per (user, game type)
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

var progressUpdateColumns = []string{
	"progress", "player_name", "items", "hearts", "stars", "ended", "ending",
	"score", "selected_words", "available_words", "last_updated",
}

func marshalList[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Upsert inserts the record or overwrites the existing row for the same
// user and game type. The last write wins.
func (r *ProgressRepository) Upsert(ctx context.Context, rec *models.ProgressRecord) error {
	items, err := marshalList(rec.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	selected, err := marshalList(rec.SelectedWords)
	if err != nil {
		return fmt.Errorf("failed to encode selected words: %w", err)
	}
	available, err := marshalList(rec.AvailableWords)
	if err != nil {
		return fmt.Errorf("failed to encode available words: %w", err)
	}

	if rec.LastUpdated.IsZero() {
		rec.LastUpdated = time.Now().UTC()
	}

	query := `
		INSERT INTO game_progress (user_id, game_type, progress, player_name, items, hearts, stars,
			ended, ending, score, selected_words, available_words, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)` +
		r.db.Dialect.UpsertClause([]string{"user_id", "game_type"}, progressUpdateColumns)

	_, err = r.db.ExecContext(ctx, query,
		rec.UserID,
		string(rec.GameType),
		rec.Progress,
		rec.PlayerName,
		items,
		rec.Hearts,
		rec.Stars,
		rec.Ended,
		rec.Ending,
		rec.Score,
		selected,
		available,
		rec.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Get returns the saved game, or nil if there is none
func (r *ProgressRepository) Get(ctx context.Context, userID string, gameType models.GameType) (*models.ProgressRecord, error) {
	query := `
		SELECT id, user_id, game_type, progress, player_name, items, hearts, stars,
			ended, ending, score, selected_words, available_words, last_updated
		FROM game_progress
		WHERE user_id = ? AND game_type = ?
	`
	rec := &models.ProgressRecord{}
	var items, selected, available []byte
	err := r.db.QueryRowContext(ctx, query, userID, string(gameType)).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.GameType,
		&rec.Progress,
		&rec.PlayerName,
		&items,
		&rec.Hearts,
		&rec.Stars,
		&rec.Ended,
		&rec.Ending,
		&rec.Score,
		&selected,
		&available,
		&rec.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	if err := json.Unmarshal(selected, &rec.SelectedWords); err != nil {
		return nil, fmt.Errorf("failed to decode selected words: %w", err)
	}
	if err := json.Unmarshal(available, &rec.AvailableWords); err != nil {
		return nil, fmt.Errorf("failed to decode available words: %w", err)
	}
	return rec, nil
}

// Delete removes the saved game for a user and game type
func (r *ProgressRepository) Delete(ctx context.Context, userID string, gameType models.GameType) error {
	query := "DELETE FROM game_progress WHERE user_id = ? AND game_type = ?"
	if _, err := r.db.ExecContext(ctx, query, userID, string(gameType)); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}
