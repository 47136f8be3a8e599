// Package sentence implements the sentence builder: a shuffled set of word
// tiles that the player moves into order.
package sentence

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// PointsPerSentence is awarded for every correctly built sentence
const PointsPerSentence = 20

// SentenceSet is one level: the words to arrange and the expected sentence
type SentenceSet struct {
	ID      int      `json:"id" yaml:"id"`
	Words   []string `json:"words" yaml:"words"`
	Correct string   `json:"correct" yaml:"correct"`
}

// Content is the ordered list of levels
type Content struct {
	Sentences []SentenceSet `json:"sentences" yaml:"sentences"`
}

// ErrInvalidContent wraps every content validation failure
var ErrInvalidContent = errors.New("invalid sentence content")

// Decode parses stored JSON content
func Decode(data []byte) (*Content, error) {
	var c Content
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode sentence content: %w", err)
	}
	return &c, nil
}

// Levels is the number of sentences
func (c *Content) Levels() int {
	return len(c.Sentences)
}

// Validate checks that every level's correct sentence uses exactly its words
func (c *Content) Validate() error {
	if len(c.Sentences) == 0 {
		return fmt.Errorf("%w: no sentences", ErrInvalidContent)
	}
	for i, set := range c.Sentences {
		if len(set.Words) == 0 {
			return fmt.Errorf("%w: level %d has no words", ErrInvalidContent, i)
		}
		for _, w := range set.Words {
			if w == "" || strings.ContainsAny(w, " \t\n") {
				return fmt.Errorf("%w: level %d has a blank or multi-word tile %q", ErrInvalidContent, i, w)
			}
		}
		want := slices.Clone(set.Words)
		got := strings.Split(set.Correct, " ")
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			return fmt.Errorf("%w: level %d correct sentence does not use exactly its words", ErrInvalidContent, i)
		}
	}
	return nil
}
