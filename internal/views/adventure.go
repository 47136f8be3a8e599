package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"readingquest/internal/game/adventure"
	"readingquest/internal/models"
	"readingquest/internal/service"
)

// AdventureState is what the player sees
type AdventureState struct {
	Title      string           `json:"title"`
	Phase      adventure.Phase  `json:"phase"`
	PlayerName string           `json:"playerName"`
	Round      *adventure.Round `json:"round,omitempty"`
	Hearts     int              `json:"hearts"`
	MaxHearts  int              `json:"maxHearts"`
	Stars      int              `json:"stars"`
	Items      []string         `json:"items"`
	Ending     adventure.Ending `json:"ending,omitempty"`
	Won        bool             `json:"won"`
	Message    string           `json:"message,omitempty"`
	// Advancing is set while a choice's message is shown before the next round
	Advancing      bool       `json:"advancing"`
	SavedGame      *SavedGame `json:"savedGame,omitempty"`
	ScoreSubmitted bool       `json:"scoreSubmitted"`
}

// ChoiceResult is the outcome of one choice. Applied is false when the
// choice had no transition and nothing changed.
type ChoiceResult struct {
	Applied bool             `json:"applied"`
	Message string           `json:"message,omitempty"`
	Effect  adventure.Effect `json:"effect,omitempty"`
	Item    string           `json:"item,omitempty"`
	Ended   bool             `json:"ended"`
	State   AdventureState   `json:"state"`
}

// AdventureView is one player's adventure
type AdventureView struct {
	mu   sync.Mutex
	deps Deps

	title   string
	story   *adventure.Story
	session adventure.Session

	playerName string
	notice     notice
	prompt     promptState
	submitted  bool
}

// NewAdventureView loads the story once. A story that is missing or cannot
// be decoded makes the game unavailable.
func NewAdventureView(ctx context.Context, deps Deps) (*AdventureView, error) {
	deps = deps.withDefaults()
	def, err := deps.Gateway.FetchContent(ctx, models.GameAdventure)
	if err != nil {
		return nil, err
	}
	story, err := adventure.Decode(def.Content)
	if err != nil {
		deps.Logger.Error("adventure content is unreadable", "err", err)
		return nil, fmt.Errorf("%w: %v", service.ErrContentUnavailable, err)
	}
	return &AdventureView{
		deps:    deps,
		title:   def.Title,
		story:   story,
		session: adventure.New(),
	}, nil
}

// settle applies a pending round once its message has been shown
func (v *AdventureView) settle() {
	if v.session.PendingRound > 0 && !v.deps.Now().Before(v.notice.until) {
		v.session = v.session.Settle()
	}
}

func (v *AdventureView) refresh(ctx context.Context) {
	v.settle()
	v.prompt.check(ctx, v.deps, models.GameAdventure, v.session.Phase == adventure.PhaseNotStarted)
}

func (v *AdventureView) state() AdventureState {
	s := v.session
	st := AdventureState{
		Title:          v.title,
		Phase:          s.Phase,
		PlayerName:     v.playerName,
		Hearts:         s.Hearts,
		MaxHearts:      adventure.MaxHearts,
		Stars:          s.Stars,
		Items:          append([]string{}, s.Items...),
		Ending:         s.Ending,
		Won:            s.Ending.IsWin(),
		Message:        v.notice.active(v.deps.Now()),
		Advancing:      s.PendingRound > 0,
		SavedGame:      savedGameOf(v.prompt.saved),
		ScoreSubmitted: v.submitted,
	}
	if s.Phase == adventure.PhaseInProgress {
		if r, ok := v.story.Round(s.Round); ok {
			st.Round = &r
		}
	}
	return st
}

func (v *AdventureView) snapshot() models.ProgressRecord {
	s := v.session
	round := s.Round
	if s.PendingRound > 0 {
		round = s.PendingRound
	}
	return models.ProgressRecord{
		GameType:   models.GameAdventure,
		Progress:   round,
		PlayerName: v.playerName,
		Items:      append([]string{}, s.Items...),
		Hearts:     s.Hearts,
		Stars:      s.Stars,
		Ended:      s.Ended(),
		Ending:     string(s.Ending),
	}
}

func (v *AdventureView) say(text string) {
	v.notice = notice{text: text, until: v.deps.Now().Add(v.deps.MessageDisplay)}
}

// State returns the current view state
func (v *AdventureView) State(ctx context.Context) AdventureState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)
	return v.state()
}

// Start begins the adventure under a player name
func (v *AdventureView) Start(ctx context.Context, playerName string) (AdventureState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	if v.session.Phase != adventure.PhaseNotStarted {
		return v.state(), ErrAlreadyStarted
	}
	name, err := v.deps.Gateway.CheckPlayerName(ctx, playerName)
	if err != nil {
		return v.state(), err
	}
	v.playerName = name
	v.session = v.session.Begin()
	v.prompt.saved = nil
	return v.state(), nil
}

// Choose resolves an option of the current round
func (v *AdventureView) Choose(ctx context.Context, round, option int) (ChoiceResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	outcome, err := adventure.Resolve(v.story, v.session, round, option)
	if errors.Is(err, adventure.ErrNoTransition) {
		v.deps.Logger.Warn("adventure content has no transition for choice", "round", round, "option", option)
		return ChoiceResult{State: v.state()}, nil
	}
	if err != nil {
		return ChoiceResult{State: v.state()}, err
	}

	v.session = outcome.Session
	v.say(outcome.Message())
	if v.deps.MessageDisplay <= 0 {
		v.settle()
	}
	autosave(ctx, v.deps, v.snapshot())

	return ChoiceResult{
		Applied: true,
		Message: outcome.Message(),
		Effect:  outcome.Transition.Effect,
		Item:    outcome.Transition.Item,
		Ended:   outcome.Ended(),
		State:   v.state(),
	}, nil
}

// Save stores the current progress and waits for the result
func (v *AdventureView) Save(ctx context.Context) (AdventureState, error) {
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
func (v *AdventureView) Continue(ctx context.Context) (AdventureState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	rec, _, err := v.prompt.take(ctx)
	if err != nil {
		return v.state(), err
	}
	v.session = adventure.Restore(rec.Progress, rec.Hearts, rec.Stars, rec.Items, adventure.Ending(rec.Ending))
	if rec.PlayerName != "" {
		v.playerName = rec.PlayerName
	}
	v.notice = notice{}
	v.submitted = false
	return v.state(), nil
}

// Discard drops the offered saved game so a new game can start
func (v *AdventureView) Discard(ctx context.Context) (AdventureState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	_, userID, err := v.prompt.take(ctx)
	if err != nil {
		return v.state(), err
	}
	if err := v.deps.Gateway.DeleteProgress(ctx, userID, models.GameAdventure); err != nil {
		v.deps.Logger.Warn("saved game delete failed", "err", err)
	}
	return v.state(), nil
}

// Restart returns to the intro with a fresh session
func (v *AdventureView) Restart(ctx context.Context) AdventureState {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.session = adventure.New()
	v.notice = notice{}
	v.submitted = false
	v.refresh(ctx)
	return v.state()
}

// Finish submits the score of an ended adventure once and returns the leaderboard
func (v *AdventureView) Finish(ctx context.Context) (FinishResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh(ctx)

	if !v.session.Ended() {
		return FinishResult{}, ErrNotFinished
	}
	userID, err := requireUser(ctx)
	if err != nil {
		return FinishResult{}, err
	}

	var result FinishResult
	if !v.submitted {
		rec, err := v.deps.Gateway.SubmitScore(ctx, userID, v.playerName, models.GameAdventure, v.session.Stars)
		if err != nil {
			v.say(msgSaveFailed)
			return FinishResult{}, err
		}
		v.submitted = true
		result.Score = rec
		clearFinished(ctx, v.deps, userID, models.GameAdventure)
	}

	board, err := v.deps.Gateway.Leaderboard(ctx, models.GameAdventure, v.deps.LeaderboardLimit)
	if err != nil {
		return result, err
	}
	result.Leaderboard = board
	return result, nil
}
