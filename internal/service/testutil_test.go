package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"readingquest/internal/database"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	db, err := database.Initialize(filepath.Join(t.TempDir(), "quest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background()))
	return db
}

const adventureYAML = `gameType: adventure
title: Tiny Forest
content:
  rounds:
    - round: 1
      scene: A fork in the path.
      tip: Look for the light.
      options:
        - id: 1
          text: Walk toward the castle
        - id: 2
          text: Sit and rest
  paths:
    1:
      1:
        message: The king crowns you!
        nextRound: -1
        effect: win
        score: crown
      2:
        message: You feel rested.
        nextRound: 1
        effect: gain
        hearts: 1
        item: pillow
`

const sentenceYAML = `gameType: sentence-builder
title: Sentence Builder
content:
  sentences:
    - id: 1
      words: [cat, The, sat]
      correct: The cat sat
    - id: 2
      words: [runs, dog, The]
      correct: The dog runs
`
