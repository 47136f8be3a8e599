package models

import "time"

// WordTile is a sentence-builder word with an identity independent of its text
type WordTile struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ProgressRecord is a saved game, one per (user, game type). It holds the
// union of both games' fields; Progress is the adventure round or the
// sentence-builder level.
type ProgressRecord struct {
	ID             int64      `json:"-"`
	UserID         string     `json:"userId"`
	GameType       GameType   `json:"gameType"`
	Progress       int        `json:"progress"`
	PlayerName     string     `json:"playerName"`
	Items          []string   `json:"items"`
	Hearts         int        `json:"hearts"`
	Stars          int        `json:"stars"`
	Ended          bool       `json:"ended"`
	Ending         string     `json:"ending,omitempty"`
	Score          int        `json:"score"`
	SelectedWords  []WordTile `json:"selectedWords"`
	AvailableWords []WordTile `json:"availableWords"`
	LastUpdated    time.Time  `json:"lastUpdated"`
}

// ScoreRecord is one leaderboard entry. Rows are never updated.
type ScoreRecord struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	GameType   GameType  `json:"gameType"`
	Score      int       `json:"score"`
	PlayerName string    `json:"playerName"`
	AchievedAt time.Time `json:"achievedAt"`
}
