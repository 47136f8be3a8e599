// Package adventure holds the branching story model and the rules for
// resolving a player's choice against it.
package adventure

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Effect is what a transition does to the player's stats
type Effect string

const (
	EffectGain Effect = "gain"
	EffectLose Effect = "lose"
	EffectWin  Effect = "win"
	EffectNone Effect = "none"
)

// Ending is how a finished adventure ended
type Ending string

const (
	EndingCrown  Ending = "crown"
	EndingWisdom Ending = "wisdom"
	EndingHome   Ending = "home"
	// EndingLost is the defeat ending, reached when hearts run out
	EndingLost Ending = "lost"
)

// IsWin reports whether e is one of the endings a win transition may award
func (e Ending) IsWin() bool {
	return e == EndingCrown || e == EndingWisdom || e == EndingHome
}

const (
	// MaxHearts is both the starting and the maximum number of hearts
	MaxHearts = 5
	// TerminalRound marks a transition that does not lead to another round
	TerminalRound = -1
)

// Option is one choice offered in a round
type Option struct {
	ID   int    `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Round is a single scene of the story
type Round struct {
	Round   int      `json:"round" yaml:"round"`
	Scene   string   `json:"scene" yaml:"scene"`
	Tip     string   `json:"tip" yaml:"tip"`
	Options []Option `json:"options" yaml:"options"`
}

// Transition is the result of choosing an option in a round
type Transition struct {
	Message   string `json:"message" yaml:"message"`
	NextRound int    `json:"nextRound" yaml:"nextRound"`
	Effect    Effect `json:"effect" yaml:"effect"`
	Hearts    int    `json:"hearts,omitempty" yaml:"hearts,omitempty"`
	Item      string `json:"item,omitempty" yaml:"item,omitempty"`
	Score     Ending `json:"score,omitempty" yaml:"score,omitempty"`
}

// Story is the full adventure content. Paths is keyed by round, then option.
type Story struct {
	Rounds []Round                    `json:"rounds" yaml:"rounds"`
	Paths  map[int]map[int]Transition `json:"paths" yaml:"paths"`
}

// ErrInvalidStory wraps every content validation failure
var ErrInvalidStory = errors.New("invalid adventure content")

// Decode parses stored JSON content into a Story
func Decode(content []byte) (*Story, error) {
	var story Story
	if err := json.Unmarshal(content, &story); err != nil {
		return nil, fmt.Errorf("decode adventure content: %w", err)
	}
	return &story, nil
}

// Transition looks up the transition for an option. ok is false when the
// content has no entry for the pair.
func (s *Story) Transition(round, option int) (Transition, bool) {
	options, ok := s.Paths[round]
	if !ok {
		return Transition{}, false
	}
	t, ok := options[option]
	return t, ok
}

// Round returns the round with the given number
func (s *Story) Round(n int) (Round, bool) {
	for _, r := range s.Rounds {
		if r.Round == n {
			return r, true
		}
	}
	return Round{}, false
}

// FirstRound is the lowest round number, where every adventure starts
func (s *Story) FirstRound() int {
	first := 0
	for _, r := range s.Rounds {
		if first == 0 || r.Round < first {
			first = r.Round
		}
	}
	return first
}

// Validate checks that every option has a transition, that every transition
// belongs to an option, and that terminal markers and endings are consistent.
func (s *Story) Validate() error {
	if len(s.Rounds) == 0 {
		return fmt.Errorf("%w: no rounds", ErrInvalidStory)
	}

	options := make(map[int]map[int]bool, len(s.Rounds))
	for _, r := range s.Rounds {
		if r.Round < 1 {
			return fmt.Errorf("%w: round number %d must be at least 1", ErrInvalidStory, r.Round)
		}
		if _, dup := options[r.Round]; dup {
			return fmt.Errorf("%w: round %d defined twice", ErrInvalidStory, r.Round)
		}
		if len(r.Options) == 0 {
			return fmt.Errorf("%w: round %d has no options", ErrInvalidStory, r.Round)
		}
		ids := make(map[int]bool, len(r.Options))
		for _, o := range r.Options {
			if ids[o.ID] {
				return fmt.Errorf("%w: round %d option %d defined twice", ErrInvalidStory, r.Round, o.ID)
			}
			ids[o.ID] = true
			if _, ok := s.Transition(r.Round, o.ID); !ok {
				return fmt.Errorf("%w: round %d option %d has no transition", ErrInvalidStory, r.Round, o.ID)
			}
		}
		options[r.Round] = ids
	}

	rounds := make([]int, 0, len(s.Paths))
	for round := range s.Paths {
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)

	for _, round := range rounds {
		for option, t := range s.Paths[round] {
			if !options[round][option] {
				return fmt.Errorf("%w: transition %d-%d has no matching option", ErrInvalidStory, round, option)
			}
			if err := s.validateTransition(t, options); err != nil {
				return fmt.Errorf("%w: transition %d-%d: %v", ErrInvalidStory, round, option, err)
			}
		}
	}
	return nil
}

func (s *Story) validateTransition(t Transition, rounds map[int]map[int]bool) error {
	switch t.Effect {
	case EffectGain, EffectLose, EffectNone:
		if t.Score != "" {
			return fmt.Errorf("score %q set on a %s effect", t.Score, t.Effect)
		}
	case EffectWin:
		if !t.Score.IsWin() {
			return fmt.Errorf("win needs a score of crown, wisdom or home, got %q", t.Score)
		}
		if t.NextRound != TerminalRound {
			return fmt.Errorf("win must use nextRound %d", TerminalRound)
		}
	default:
		return fmt.Errorf("unknown effect %q", t.Effect)
	}

	if t.Hearts < 0 {
		return fmt.Errorf("hearts must not be negative")
	}

	switch {
	case t.NextRound == TerminalRound:
		if t.Effect != EffectWin && t.Effect != EffectLose {
			return fmt.Errorf("nextRound %d is only allowed on win or lose", TerminalRound)
		}
	case t.NextRound < 1:
		return fmt.Errorf("nextRound %d is not a round", t.NextRound)
	default:
		if _, ok := rounds[t.NextRound]; !ok {
			return fmt.Errorf("nextRound %d does not exist", t.NextRound)
		}
	}
	return nil
}
