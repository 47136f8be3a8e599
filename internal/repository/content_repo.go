package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readingquest/internal/database"
	"readingquest/internal/models"
)

// ErrDuplicateContent is returned when more than one row exists for a game type
var ErrDuplicateContent = errors.New("multiple content rows for game type")

// ContentRepository reads and replaces the game_data table
type ContentRepository struct {
	db *database.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Get returns the definition for a game type, or nil if none is stored
func (r *ContentRepository) Get(ctx context.Context, gameType models.GameType) (*models.GameDefinition, error) {
	query := `
		SELECT id, game_type, title, content, created_at, updated_at
		FROM game_data
		WHERE game_type = ?
	`
	defs, err := r.query(ctx, query, string(gameType))
	if err != nil {
		return nil, err
	}
	switch len(defs) {
	case 0:
		return nil, nil
	case 1:
		return &defs[0], nil
	default:
		return nil, fmt.Errorf("%w: %s has %d rows", ErrDuplicateContent, gameType, len(defs))
	}
}

// List returns every stored definition ordered by game type
func (r *ContentRepository) List(ctx context.Context) ([]models.GameDefinition, error) {
	return r.query(ctx, `
		SELECT id, game_type, title, content, created_at, updated_at
		FROM game_data
		ORDER BY game_type
	`)
}

func (r *ContentRepository) query(ctx context.Context, query string, args ...any) ([]models.GameDefinition, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query game data: %w", err)
	}
	defer rows.Close()

	var defs []models.GameDefinition
	for rows.Next() {
		var def models.GameDefinition
		var content []byte
		if err := rows.Scan(&def.ID, &def.GameType, &def.Title, &content, &def.CreatedAt, &def.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game data: %w", err)
		}
		def.Content = content
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game data: %w", err)
	}
	return defs, nil
}

// ReplaceAll deletes every stored definition and inserts defs in one
// transaction, so running it twice with the same input is a no-op.
func (r *ContentRepository) ReplaceAll(ctx context.Context, defs []models.GameDefinition) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM game_data"); err != nil {
			return fmt.Errorf("failed to clear game data: %w", err)
		}

		now := time.Now().UTC()
		query := `
			INSERT INTO game_data (game_type, title, content, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`
		for _, def := range defs {
			if _, err := tx.ExecContext(ctx, query, string(def.GameType), def.Title, string(def.Content), now, now); err != nil {
				return fmt.Errorf("failed to insert %s: %w", def.GameType, err)
			}
		}
		return nil
	})
}
