package views

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"readingquest/internal/game/sentence"
	"readingquest/internal/models"
	"readingquest/internal/service"
)

const (
	msgCorrect   = "Great job! That's correct!"
	msgIncorrect = "Not quite right. Try again!"
	msgHint      = "Hint: Make sure your words are in the right order."
)

// SentenceState is what the player sees
type SentenceState struct {
	Title      string          `json:"title"`
	PlayerName string          `json:"playerName"`
	Level      int             `json:"level"`
	Levels     int             `json:"levels"`
	Score      int             `json:"score"`
	Available  []sentence.Word `json:"available"`
	Selected   []sentence.Word `json:"selected"`
	Checkable  bool            `json:"checkable"`
	// Advancing is set while a correct answer is shown before the next level
	Advancing      bool       `json:"advancing"`
	Completed      bool       `json:"completed"`
	Message        string     `json:"message,omitempty"`
	SavedGame      *SavedGame `json:"savedGame,omitempty"`
	ScoreSubmitted bool       `json:"scoreSubmitted"`
}

// CheckResult is the outcome of checking the built sentence
type CheckResult struct {
	Correct bool          `json:"correct"`
	Message string        `json:"message"`
	Hint    string        `json:"hint,omitempty"`
	State   SentenceState `json:"state"`
}

// SentenceView is one player's sentence builder
type SentenceView struct {
	mu   sync.Mutex
	deps Deps

	title   string
	content *sentence.Content
	rng     *rand.Rand
	session *sentence.Session
	started bool

	playerName string
	notice     notice
	prompt     promptState
	submitted  bool
}

// NewSentenceView loads the sentences once and deals the first level
func NewSentenceView(ctx context.Context, deps Deps) (*SentenceView, error) {
	deps = deps.withDefaults()
	def, err := deps.Gateway.FetchContent(ctx, models.GameSentenceBuilder)
	if err != nil {
		return nil, err
	}
	content, err := sentence.Decode(def.Content)
	if err == nil && content.Levels() == 0 {
		err = errors.New("no sentences")
	}
	if err != nil {
		deps.Logger.Error("sentence content is unreadable", "err", err)
		return nil, fmt.Errorf("%w: %v", service.ErrContentUnavailable, err)
	}
	rng := deps.NewRand()
	return &SentenceView{
		deps:    deps,
		title:   def.Title,
		content: content,
		rng:     rng,
		session: sentence.NewSession(content, rng),
	}, nil
}

// settle moves past a solved level once its message has been shown. A new
// level is saved in the background.
func (v *SentenceView) settle(ctx context.Context) {
	if !v.session.Advancing || v.deps.Now().Before(v.notice.until) {
		return
	}
	if v.session.Settle() {
		autosave(ctx, v.deps, v.snapshot())
	}
}

func (v *SentenceView) refresh(ctx context.Context) {
	v.settle(ctx)
	v.prompt.check(ctx, v.deps, models.GameSentenceBuilder, !v.started)
}

func (v *SentenceView) state() SentenceState {
	s := v.session
	return SentenceState{
		Title:          v.title,
		PlayerName:     v.playerName,
		Level:          s.Level,
		Levels:         v.content.Levels(),
		Score:          s.Score,
		Available:      s.Board.Available(),
		Selected:       s.Board.Selected(),
		Checkable:      s.Board.Checkable() && !s.Advancing && !s.Completed,
		Advancing:      s.Advancing,
		Completed:      s.Completed,
		Message:        v.notice.active(v.deps.Now()),
		SavedGame:      savedGameOf(v.prompt.saved),
		ScoreSubmitted: v.submitted,
	}
}

func (v *SentenceView) snapshot() models.ProgressRecord {
	s := v.session
	return models.ProgressRecord{
		GameType:       models.GameSentenceBuilder,
		Progress:       s.Level,
		PlayerName:     v.playerName,
		Score:          s.Score,
		Ended:          s.Completed,
		AvailableWords: tiles(s.Board.Available()),
		SelectedWords:  tiles(s.Board.Selected()),
	}
}

func tiles(words []sentence.Word) []models.WordTile {
	out := make([]models.WordTile, len(words))
	for i, w := range words {
		out[i] = models.WordTile{ID: w.ID, Text: w.Text}
	}
	return out
}

func words(tiles []models.WordTile) []sentence.Word {
	out := make([]sentence.Word, len(tiles))
	for i, t := range tiles {
		out[i] = sentence.Word{ID: t.ID, Text: t.Text}
	}
	return out
}

func (v *SentenceView) say(text string) {
	v.notice = notice{text: text, until: v.deps.Now().Add(v.deps.MessageDisplay)}
}

// State returns the current view state
func (v *SentenceView) State(ctx context.Context) SentenceState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)
	return v.state()
}

// Select moves a word into the sentence
func (v *SentenceView) Select(ctx context.Context, wordID string) (SentenceState, error) {
	return v.move(ctx, wordID, (*sentence.Session).Select)
}

// Remove moves a word back to the available words
func (v *SentenceView) Remove(ctx context.Context, wordID string) (SentenceState, error) {
	return v.move(ctx, wordID, (*sentence.Session).Remove)
}

func (v *SentenceView) move(ctx context.Context, wordID string, fn func(*sentence.Session, string) error) (SentenceState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	if err := fn(v.session, wordID); err != nil {
		return v.state(), err
	}
	v.started = true
	v.prompt.saved = nil
	return v.state(), nil
}

// Check compares the built sentence with the level's answer
func (v *SentenceView) Check(ctx context.Context) (CheckResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	correct, err := v.session.Check()
	if err != nil {
		return CheckResult{State: v.state()}, err
	}
	v.started = true
	v.prompt.saved = nil

	if !correct {
		v.say(msgIncorrect)
		return CheckResult{Message: msgIncorrect, Hint: msgHint, State: v.state()}, nil
	}
	v.say(msgCorrect)
	if v.deps.MessageDisplay <= 0 {
		v.settle(ctx)
	}
	return CheckResult{Correct: true, Message: msgCorrect, State: v.state()}, nil
}

// Reset deals the current level again
func (v *SentenceView) Reset(ctx context.Context) (SentenceState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	if err := v.session.ResetLevel(); err != nil {
		return v.state(), err
	}
	v.notice = notice{}
	return v.state(), nil
}

// Restart starts over from the first level. The player name is kept.
func (v *SentenceView) Restart(ctx context.Context) SentenceState {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session = sentence.NewSession(v.content, v.rng)
	v.notice = notice{}
	v.submitted = false
	v.refresh(ctx)
	return v.state()
}

// SetName records the name used for the leaderboard
func (v *SentenceView) SetName(ctx context.Context, playerName string) (SentenceState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	name, err := v.deps.Gateway.CheckPlayerName(ctx, playerName)
	if err != nil {
		return v.state(), err
	}
	v.playerName = name
	return v.state(), nil
}

// Save stores the current progress and waits for the result
func (v *SentenceView) Save(ctx context.Context) (SentenceState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	userID, err := requireUser(ctx)
	if err != nil {
		return v.state(), err
	}
	snapshot := v.snapshot()
	if err := v.deps.Gateway.SaveProgress(ctx, userID, &snapshot); err != nil {
		v.say(msgSaveFailed)
		return v.state(), err
	}
	v.say(msgSaved)
	return v.state(), nil
}

// Continue replaces the session with the offered saved game
func (v *SentenceView) Continue(ctx context.Context) (SentenceState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	rec, _, err := v.prompt.take(ctx)
	if err != nil {
		return v.state(), err
	}
	v.session = sentence.RestoreSession(v.content, v.rng, rec.Progress, rec.Score, rec.Ended,
		words(rec.AvailableWords), words(rec.SelectedWords))
	if rec.PlayerName != "" {
		v.playerName = rec.PlayerName
	}
	v.started = true
	v.notice = notice{}
	v.submitted = false
	return v.state(), nil
}

// Discard drops the offered saved game
func (v *SentenceView) Discard(ctx context.Context) (SentenceState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	_, userID, err := v.prompt.take(ctx)
	if err != nil {
		return v.state(), err
	}
	if err := v.deps.Gateway.DeleteProgress(ctx, userID, models.GameSentenceBuilder); err != nil {
		v.deps.Logger.Warn("saved game delete failed", "err", err)
	}
	return v.state(), nil
}

// Finish submits the score of a completed run once and returns the leaderboard
func (v *SentenceView) Finish(ctx context.Context) (FinishResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	if !v.session.Completed {
		return FinishResult{}, ErrNotFinished
	}
	userID, err := requireUser(ctx)
	if err != nil {
		return FinishResult{}, err
	}
	if v.playerName == "" {
		return FinishResult{}, ErrNameRequired
	}

	var result FinishResult
	if !v.submitted {
		rec, err := v.deps.Gateway.SubmitScore(ctx, userID, v.playerName, models.GameSentenceBuilder, v.session.Score)
		if err != nil {
			v.say(msgSaveFailed)
			return FinishResult{}, err
		}
		v.submitted = true
		result.Score = rec
		clearFinished(ctx, v.deps, userID, models.GameSentenceBuilder)
	}

	board, err := v.deps.Gateway.Leaderboard(ctx, models.GameSentenceBuilder, v.deps.LeaderboardLimit)
	if err != nil {
		return result, err
	}
	result.Leaderboard = board
	return result, nil
}
