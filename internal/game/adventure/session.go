package adventure

import "slices"

// Phase is where a session is in its lifecycle
type Phase string

const (
	PhaseNotStarted Phase = "not-started"
	PhaseInProgress Phase = "in-progress"
	PhaseTerminal   Phase = "terminal"
)

// Session is one player's run through the story. It is a value; every
// operation returns a new Session and leaves the receiver untouched.
type Session struct {
	Phase  Phase    `json:"phase"`
	Round  int      `json:"round"`
	Hearts int      `json:"hearts"`
	Stars  int      `json:"stars"`
	Items  []string `json:"items"`
	Ending Ending   `json:"ending,omitempty"`

	// PendingRound is the round to move to once the current message has
	// been shown. Zero means nothing is pending.
	PendingRound int `json:"pendingRound,omitempty"`
}

// New returns a session that has not started yet, at round 1 with full hearts
func New() Session {
	return Session{
		Phase:  PhaseNotStarted,
		Round:  1,
		Hearts: MaxHearts,
		Items:  []string{},
	}
}

// Begin moves a fresh session into play. Other phases are returned unchanged.
func (s Session) Begin() Session {
	if s.Phase == PhaseNotStarted {
		s.Phase = PhaseInProgress
	}
	return s
}

// Settle applies a pending advancement
func (s Session) Settle() Session {
	if s.PendingRound > 0 && s.Phase == PhaseInProgress {
		s.Round = s.PendingRound
	}
	s.PendingRound = 0
	return s
}

// Ended reports whether the session reached an ending
func (s Session) Ended() bool {
	return s.Phase == PhaseTerminal
}

// HasItem reports whether item is in the inventory
func (s Session) HasItem(item string) bool {
	return slices.Contains(s.Items, item)
}

// Restore rebuilds a session from saved values. Out of range values are
// clamped, and an unfinished save with no hearts left starts with full hearts.
func Restore(round, hearts, stars int, items []string, ending Ending) Session {
	s := Session{
		Phase:  PhaseInProgress,
		Round:  max(round, 1),
		Hearts: clampHearts(hearts),
		Stars:  max(stars, 0),
		Items:  dedupe(items),
		Ending: ending,
	}
	if ending != "" {
		s.Phase = PhaseTerminal
	} else if s.Hearts == 0 {
		s.Hearts = MaxHearts
	}
	return s
}

func clampHearts(h int) int {
	return min(max(h, 0), MaxHearts)
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}
