package adventure

import (
	"errors"
	"slices"
)

var (
	ErrNotStarted     = errors.New("adventure has not started")
	ErrSessionOver    = errors.New("adventure is over")
	ErrMessagePending = errors.New("previous choice is still being shown")
	ErrWrongRound     = errors.New("choice is not for the current round")
	ErrNoTransition   = errors.New("no transition for choice")
)

// Outcome is the result of resolving one choice
type Outcome struct {
	Round      int        `json:"round"`
	Option     int        `json:"option"`
	Transition Transition `json:"transition"`
	Session    Session    `json:"session"`
}

// Message is the text to show the player
func (o Outcome) Message() string {
	return o.Transition.Message
}

// Ended reports whether the choice finished the adventure
func (o Outcome) Ended() bool {
	return o.Session.Ended()
}

// Resolve applies the transition for (round, option) to s. It does not touch
// s; the next state is in the returned Outcome. When the story has no
// transition for the pair, ErrNoTransition is returned and the caller keeps s.
func Resolve(story *Story, s Session, round, option int) (Outcome, error) {
	switch {
	case s.Phase == PhaseNotStarted:
		return Outcome{}, ErrNotStarted
	case s.Phase == PhaseTerminal:
		return Outcome{}, ErrSessionOver
	case s.PendingRound > 0:
		return Outcome{}, ErrMessagePending
	case round != s.Round:
		return Outcome{}, ErrWrongRound
	}

	t, ok := story.Transition(round, option)
	if !ok {
		return Outcome{}, ErrNoTransition
	}

	next := s
	next.Items = slices.Clone(s.Items)

	switch t.Effect {
	case EffectGain:
		next.Hearts = clampHearts(next.Hearts + t.Hearts)
		if t.Item != "" && !next.HasItem(t.Item) {
			next.Items = append(next.Items, t.Item)
		}
	case EffectLose:
		next.Hearts = clampHearts(next.Hearts - t.Hearts)
	case EffectWin:
		next.Phase = PhaseTerminal
		next.Ending = t.Score
	}

	next.Stars++

	if next.Hearts == 0 {
		next.Phase = PhaseTerminal
		next.Ending = EndingLost
	}

	if next.Phase != PhaseTerminal && t.NextRound > 0 {
		next.PendingRound = t.NextRound
	}

	return Outcome{Round: round, Option: option, Transition: t, Session: next}, nil
}
