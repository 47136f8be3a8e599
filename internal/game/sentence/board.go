package sentence

import (
	"container/list"
	"errors"
	"strings"
)

// ErrUnknownWord is returned when a word id is not in the tray it is moved from
var ErrUnknownWord = errors.New("unknown word")

// Word is a tile. ID stays the same wherever the tile moves.
type Word struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// tray is an ordered set of words with constant time removal by id
type tray struct {
	order *list.List
	index map[string]*list.Element
}

func newTray() *tray {
	return &tray{order: list.New(), index: make(map[string]*list.Element)}
}

func (t *tray) push(w Word) {
	t.index[w.ID] = t.order.PushBack(w)
}

func (t *tray) take(id string) (Word, bool) {
	el, ok := t.index[id]
	if !ok {
		return Word{}, false
	}
	delete(t.index, id)
	return t.order.Remove(el).(Word), true
}

func (t *tray) words() []Word {
	out := make([]Word, 0, t.order.Len())
	for el := t.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(Word))
	}
	return out
}

func (t *tray) len() int {
	return t.order.Len()
}

// Board holds the two disjoint trays for one level
type Board struct {
	available *tray
	selected  *tray
}

// NewBoard puts every word in the available tray, in order
func NewBoard(words []Word) *Board {
	b := &Board{available: newTray(), selected: newTray()}
	for _, w := range words {
		b.available.push(w)
	}
	return b
}

// RestoreBoard rebuilds a board from saved trays
func RestoreBoard(available, selected []Word) *Board {
	b := NewBoard(available)
	for _, w := range selected {
		b.selected.push(w)
	}
	return b
}

// Select moves a word from available to the end of selected
func (b *Board) Select(id string) error {
	w, ok := b.available.take(id)
	if !ok {
		return ErrUnknownWord
	}
	b.selected.push(w)
	return nil
}

// Remove moves a word from selected back to the end of available
func (b *Board) Remove(id string) error {
	w, ok := b.selected.take(id)
	if !ok {
		return ErrUnknownWord
	}
	b.available.push(w)
	return nil
}

func (b *Board) Available() []Word {
	return b.available.words()
}

func (b *Board) Selected() []Word {
	return b.selected.words()
}

// Checkable reports whether every word has been placed
func (b *Board) Checkable() bool {
	return b.available.len() == 0 && b.selected.len() > 0
}

// Sentence joins the selected words with single spaces
func (b *Board) Sentence() string {
	words := b.selected.words()
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return strings.Join(texts, " ")
}
