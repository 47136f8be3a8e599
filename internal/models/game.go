package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownGameType is returned for a game type that is not hosted
var ErrUnknownGameType = errors.New("unknown game type")

// GameType identifies one of the hosted games
type GameType string

const (
	GameAdventure       GameType = "adventure"
	GameSentenceBuilder GameType = "sentence-builder"
)

// GameTypes lists every hosted game in display order
var GameTypes = []GameType{GameAdventure, GameSentenceBuilder}

// Valid reports whether g names a hosted game
func (g GameType) Valid() bool {
	return g == GameAdventure || g == GameSentenceBuilder
}

// ParseGameType converts a URL or file value into a GameType
func ParseGameType(s string) (GameType, error) {
	g := GameType(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGameType, s)
	}
	return g, nil
}

// GameDefinition is the content of one game as stored in game_data.
// Content is kept as raw JSON; the game packages decode it.
type GameDefinition struct {
	ID        int64           `json:"-"`
	GameType  GameType        `json:"gameType"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}
