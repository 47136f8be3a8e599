package repository

import (
	"context"
	"fmt"
	"time"

	"readingquest/internal/database"
	"readingquest/internal/models"
)

// ScoreRepository appends and ranks high scores. Rows are never updated.
type ScoreRepository struct {
	db *database.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Insert appends a score and returns it with its id set
func (r *ScoreRepository) Insert(ctx context.Context, rec models.ScoreRecord) (*models.ScoreRecord, error) {
	if rec.AchievedAt.IsZero() {
		rec.AchievedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO high_scores (user_id, game_type, score, player_name, achieved_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, rec.UserID, string(rec.GameType), rec.Score, rec.PlayerName, rec.AchievedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert score: %w", err)
	}
	rec.ID = id
	return &rec, nil
}

// Leaderboard returns the top scores for a game. Equal scores keep
// insertion order.
func (r *ScoreRepository) Leaderboard(ctx context.Context, gameType models.GameType, limit int) ([]models.ScoreRecord, error) {
	query := `
		SELECT id, user_id, game_type, score, player_name, achieved_at
		FROM high_scores
		WHERE game_type = ?
		ORDER BY score DESC, id ASC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, string(gameType), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	scores := []models.ScoreRecord{}
	for rows.Next() {
		var s models.ScoreRecord
		if err := rows.Scan(&s.ID, &s.UserID, &s.GameType, &s.Score, &s.PlayerName, &s.AchievedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return scores, nil
}
