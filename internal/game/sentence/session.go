package sentence

import (
	"errors"
	"math/rand/v2"
	"slices"
)

var (
	ErrNotCheckable = errors.New("sentence is not complete")
	ErrAdvancing    = errors.New("level is already solved")
	ErrComplete     = errors.New("all sentences are complete")
)

// Session is one player's run through the levels. It is not safe for
// concurrent use; the owning view serializes access.
type Session struct {
	content *Content
	rng     *rand.Rand

	Level int
	Score int
	Board *Board

	// Advancing is set between a correct check and Settle
	Advancing bool
	Completed bool
}

// NewSession starts at level 0 with a freshly dealt board
func NewSession(content *Content, rng *rand.Rand) *Session {
	s := &Session{content: content, rng: rng}
	s.deal()
	return s
}

// RestoreSession rebuilds a saved session. When the saved trays do not hold
// exactly the level's words the level is dealt again.
func RestoreSession(content *Content, rng *rand.Rand, level, score int, completed bool, available, selected []Word) *Session {
	s := &Session{
		content:   content,
		rng:       rng,
		Level:     min(max(level, 0), content.Levels()-1),
		Score:     max(score, 0),
		Completed: completed,
	}
	if s.Level == level && boardMatches(content.Sentences[s.Level].Words, available, selected) {
		s.Board = RestoreBoard(available, selected)
	} else {
		s.deal()
	}
	return s
}

func boardMatches(words []string, available, selected []Word) bool {
	tiles := append(slices.Clone(available), selected...)
	if len(tiles) != len(words) {
		return false
	}
	seen := make(map[string]bool, len(tiles))
	texts := make([]string, len(tiles))
	for i, w := range tiles {
		if w.ID == "" || seen[w.ID] {
			return false
		}
		seen[w.ID] = true
		texts[i] = w.Text
	}
	want := slices.Clone(words)
	slices.Sort(want)
	slices.Sort(texts)
	return slices.Equal(want, texts)
}

func (s *Session) deal() {
	s.Board = NewBoard(Deal(s.content.Sentences[s.Level].Words, s.rng))
}

// Current returns the level being played
func (s *Session) Current() SentenceSet {
	return s.content.Sentences[s.Level]
}

// IsLastLevel reports whether the current level is the final one
func (s *Session) IsLastLevel() bool {
	return s.Level == s.content.Levels()-1
}

func (s *Session) writable() error {
	switch {
	case s.Completed:
		return ErrComplete
	case s.Advancing:
		return ErrAdvancing
	}
	return nil
}

func (s *Session) Select(id string) error {
	if err := s.writable(); err != nil {
		return err
	}
	return s.Board.Select(id)
}

func (s *Session) Remove(id string) error {
	if err := s.writable(); err != nil {
		return err
	}
	return s.Board.Remove(id)
}

// Check compares the built sentence with the level's correct sentence.
// A match scores and marks the level as advancing; a mismatch changes nothing.
func (s *Session) Check() (bool, error) {
	if err := s.writable(); err != nil {
		return false, err
	}
	if !s.Board.Checkable() {
		return false, ErrNotCheckable
	}
	if s.Board.Sentence() != s.Current().Correct {
		return false, nil
	}
	s.Score += PointsPerSentence
	s.Advancing = true
	return true, nil
}

// Settle moves past a solved level: to the next level with a new deal, or
// to completion after the last one. It reports whether the level changed.
func (s *Session) Settle() bool {
	if !s.Advancing {
		return false
	}
	s.Advancing = false
	if s.IsLastLevel() {
		s.Completed = true
		return false
	}
	s.Level++
	s.deal()
	return true
}

// ResetLevel deals the current level again
func (s *Session) ResetLevel() error {
	if err := s.writable(); err != nil {
		return err
	}
	s.deal()
	return nil
}
