package views

import (
	"context"
	"sync"
	"time"
)

type playEntry struct {
	adventure *AdventureView
	sentence  *SentenceView
	lastSeen  time.Time
}

// Registry keeps the views of every player, keyed by play id. Views that
// have not been used for the idle timeout are dropped.
type Registry struct {
	mu      sync.Mutex
	deps    Deps
	idle    time.Duration
	entries map[string]*playEntry
}

// NewRegistry creates an empty registry
func NewRegistry(deps Deps, idle time.Duration) *Registry {
	return &Registry{
		deps:    deps.withDefaults(),
		idle:    idle,
		entries: make(map[string]*playEntry),
	}
}

func (r *Registry) touch(playID string) *playEntry {
	e, ok := r.entries[playID]
	if !ok {
		e = &playEntry{}
		r.entries[playID] = e
	}
	e.lastSeen = r.deps.Now()
	return e
}

// Adventure returns the player's adventure view, creating it on first use.
// Content is loaded outside the lock; if two requests race, the first
// stored view wins.
func (r *Registry) Adventure(ctx context.Context, playID string) (*AdventureView, error) {
	r.mu.Lock()
	if v := r.touch(playID).adventure; v != nil {
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	v, err := NewAdventureView(ctx, r.deps)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.touch(playID)
	if e.adventure == nil {
		e.adventure = v
	}
	return e.adventure, nil
}

// Sentence returns the player's sentence builder view, creating it on first use
func (r *Registry) Sentence(ctx context.Context, playID string) (*SentenceView, error) {
	r.mu.Lock()
	if v := r.touch(playID).sentence; v != nil {
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	v, err := NewSentenceView(ctx, r.deps)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.touch(playID)
	if e.sentence == nil {
		e.sentence = v
	}
	return e.sentence, nil
}

// Forget drops every view of a player
func (r *Registry) Forget(playID string) {
	r.mu.Lock()
	delete(r.entries, playID)
	r.mu.Unlock()
}

// Len is the number of players with views
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict drops players idle for longer than the timeout and reports how many
func (r *Registry) Evict() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.deps.Now().Add(-r.idle)
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run evicts idle views every interval until ctx is done
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				r.deps.Logger.Debug("idle game views evicted", "count", n)
			}
		}
	}
}
