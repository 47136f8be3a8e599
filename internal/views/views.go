// Package views holds the per-player game views. A view owns one player's
// in-memory session for one game and reaches storage only through the
// gateway. Every method is safe for concurrent use.
package views

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"readingquest/internal/models"
	"readingquest/internal/service"
)

var (
	// ErrNoSavedGame is returned by continue and discard with no saved game on offer
	ErrNoSavedGame = errors.New("there is no saved game")
	// ErrNotFinished is returned by finish before the game has ended
	ErrNotFinished = errors.New("the game is not finished yet")
	// ErrNameRequired is returned when a player name is needed first
	ErrNameRequired = errors.New("enter your name first")
	// ErrAlreadyStarted is returned by start once the adventure is underway
	ErrAlreadyStarted = errors.New("the adventure has already started")
)

const (
	msgSaved      = "Game progress saved!"
	msgSaveFailed = "Failed to save game progress"
)

// Gateway is the storage surface a view uses
type Gateway interface {
	FetchContent(ctx context.Context, gameType models.GameType) (*models.GameDefinition, error)
	LoadProgress(ctx context.Context, userID string, gameType models.GameType) (*models.ProgressRecord, error)
	SaveProgress(ctx context.Context, userID string, snapshot *models.ProgressRecord) error
	DeleteProgress(ctx context.Context, userID string, gameType models.GameType) error
	SubmitScore(ctx context.Context, userID, playerName string, gameType models.GameType, score int) (*models.ScoreRecord, error)
	Leaderboard(ctx context.Context, gameType models.GameType, limit int) ([]models.ScoreRecord, error)
	CheckPlayerName(ctx context.Context, name string) (string, error)
}

// Saver queues background saves
type Saver interface {
	Dispatch(userID string, snapshot models.ProgressRecord) bool
}

// Deps are shared by every view
type Deps struct {
	Gateway Gateway
	Saver   Saver
	Logger  *slog.Logger

	// MessageDisplay is how long a result message is shown before the game
	// moves on. Zero advances immediately.
	MessageDisplay   time.Duration
	LeaderboardLimit int

	Now     func() time.Time
	NewRand func() *rand.Rand
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewRand == nil {
		d.NewRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// SavedGame describes the saved game offered when a signed-in player opens a view
type SavedGame struct {
	PlayerName  string    `json:"playerName"`
	Progress    int       `json:"progress"`
	Score       int       `json:"score"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func savedGameOf(rec *models.ProgressRecord) *SavedGame {
	if rec == nil {
		return nil
	}
	score := rec.Score
	if rec.GameType == models.GameAdventure {
		score = rec.Stars
	}
	return &SavedGame{
		PlayerName:  rec.PlayerName,
		Progress:    rec.Progress,
		Score:       score,
		LastUpdated: rec.LastUpdated,
	}
}

// FinishResult is the submitted score and the leaderboard after it
type FinishResult struct {
	Score       *models.ScoreRecord  `json:"score,omitempty"`
	Leaderboard []models.ScoreRecord `json:"leaderboard"`
}

// notice is a transient message shown until a deadline
type notice struct {
	text  string
	until time.Time
}

func (n notice) active(now time.Time) string {
	if n.text == "" || !now.Before(n.until) {
		return ""
	}
	return n.text
}

// promptState tracks the saved-game prompt for whoever is signed in
type promptState struct {
	checkedFor string
	saved      *models.ProgressRecord
}

// check loads the saved game once per signed-in user. Only a view that has
// not started offers one, and an ended run is never offered.
func (p *promptState) check(ctx context.Context, deps Deps, gameType models.GameType, fresh bool) {
	id := service.IdentityFromContext(ctx)
	if !id.Authenticated {
		p.checkedFor = ""
		p.saved = nil
		return
	}
	if p.checkedFor == id.UserID {
		return
	}
	p.checkedFor = id.UserID
	p.saved = nil
	if !fresh {
		return
	}
	rec, err := deps.Gateway.LoadProgress(ctx, id.UserID, gameType)
	if err != nil {
		deps.Logger.Warn("saved game lookup failed", "game_type", gameType, "err", err)
		return
	}
	if rec != nil && rec.Ended {
		return
	}
	p.saved = rec
}

// take returns the offered saved game for the signed-in player and clears the offer
func (p *promptState) take(ctx context.Context) (*models.ProgressRecord, string, error) {
	id := service.IdentityFromContext(ctx)
	if !id.Authenticated {
		return nil, "", service.ErrAuthAbsent
	}
	if p.saved == nil || p.checkedFor != id.UserID {
		return nil, "", ErrNoSavedGame
	}
	rec := p.saved
	p.saved = nil
	return rec, id.UserID, nil
}

func requireUser(ctx context.Context) (string, error) {
	id := service.IdentityFromContext(ctx)
	if !id.Authenticated || id.UserID == "" {
		return "", service.ErrAuthAbsent
	}
	return id.UserID, nil
}

// clearFinished drops the saved snapshot of a run whose score was submitted
func clearFinished(ctx context.Context, deps Deps, userID string, gameType models.GameType) {
	if err := deps.Gateway.DeleteProgress(ctx, userID, gameType); err != nil {
		deps.Logger.Warn("finished game delete failed", "game_type", gameType, "err", err)
	}
}

// autosave hands a snapshot to the saver when someone is signed in
func autosave(ctx context.Context, deps Deps, snapshot models.ProgressRecord) {
	id := service.IdentityFromContext(ctx)
	if !id.Authenticated || deps.Saver == nil {
		return
	}
	deps.Saver.Dispatch(id.UserID, snapshot)
}
