package views

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"readingquest/internal/game/adventure"
	"readingquest/internal/game/sentence"
	"readingquest/internal/models"
	"readingquest/internal/service"
	"readingquest/internal/validation"
)

type fakeGateway struct {
	mu       sync.Mutex
	defs     map[models.GameType]*models.GameDefinition
	progress map[string]models.ProgressRecord
	scores   []models.ScoreRecord
	deleted  int
	saveErr  error
	fetches  int
}

func progressKey(userID string, gameType models.GameType) string {
	return userID + "|" + string(gameType)
}

func (g *fakeGateway) FetchContent(_ context.Context, gameType models.GameType) (*models.GameDefinition, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetches++
	def, ok := g.defs[gameType]
	if !ok {
		return nil, service.ErrContentUnavailable
	}
	return def, nil
}

func (g *fakeGateway) LoadProgress(_ context.Context, userID string, gameType models.GameType) (*models.ProgressRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.progress[progressKey(userID, gameType)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (g *fakeGateway) SaveProgress(_ context.Context, userID string, snapshot *models.ProgressRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return g.saveErr
	}
	snapshot.UserID = userID
	g.progress[progressKey(userID, snapshot.GameType)] = *snapshot
	return nil
}

func (g *fakeGateway) DeleteProgress(_ context.Context, userID string, gameType models.GameType) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.progress, progressKey(userID, gameType))
	g.deleted++
	return nil
}

func (g *fakeGateway) SubmitScore(_ context.Context, userID, playerName string, gameType models.GameType, score int) (*models.ScoreRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return nil, g.saveErr
	}
	rec := models.ScoreRecord{ID: int64(len(g.scores) + 1), UserID: userID, PlayerName: playerName, GameType: gameType, Score: score}
	g.scores = append(g.scores, rec)
	return &rec, nil
}

func (g *fakeGateway) Leaderboard(_ context.Context, gameType models.GameType, _ int) ([]models.ScoreRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []models.ScoreRecord
	for _, s := range g.scores {
		if s.GameType == gameType {
			out = append(out, s)
		}
	}
	return out, nil
}

func (g *fakeGateway) CheckPlayerName(_ context.Context, name string) (string, error) {
	name, err := validation.PlayerName(name)
	if err != nil {
		return "", err
	}
	if name == "Meanie" {
		return "", service.ErrNameRejected
	}
	return name, nil
}

type fakeSaver struct {
	mu    sync.Mutex
	saves []models.ProgressRecord
}

func (s *fakeSaver) Dispatch(userID string, snapshot models.ProgressRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.UserID = userID
	s.saves = append(s.saves, snapshot)
	return true
}

func (s *fakeSaver) last() (models.ProgressRecord, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return models.ProgressRecord{}, 0
	}
	return s.saves[len(s.saves)-1], len(s.saves)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testStoryContent(t *testing.T) json.RawMessage {
	t.Helper()
	story := adventure.Story{
		Rounds: []adventure.Round{
			{Round: 1, Scene: "A fork in the path.", Options: []adventure.Option{{ID: 1, Text: "Left"}, {ID: 2, Text: "Right"}}},
			{Round: 2, Scene: "The castle gate.", Options: []adventure.Option{{ID: 1, Text: "Knock"}, {ID: 2, Text: "Wait"}}},
		},
		Paths: map[int]map[int]adventure.Transition{
			1: {
				1: {Message: "You found a compass!", NextRound: 2, Effect: adventure.EffectGain, Item: "compass"},
				2: {Message: "A troll!", NextRound: adventure.TerminalRound, Effect: adventure.EffectLose, Hearts: 5},
			},
			2: {
				1: {Message: "The king crowns you!", NextRound: adventure.TerminalRound, Effect: adventure.EffectWin, Score: adventure.EndingCrown},
			},
		},
	}
	data, err := json.Marshal(story)
	require.NoError(t, err)
	return data
}

func testSentenceContent(t *testing.T) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(sentence.Content{Sentences: []sentence.SentenceSet{
		{ID: 1, Words: []string{"cat", "The", "sat"}, Correct: "The cat sat"},
		{ID: 2, Words: []string{"ran", "dog", "A"}, Correct: "A dog ran"},
	}})
	require.NoError(t, err)
	return data
}

type harness struct {
	gw    *fakeGateway
	saver *fakeSaver
	clock *fakeClock
	deps  Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		gw: &fakeGateway{
			defs: map[models.GameType]*models.GameDefinition{
				models.GameAdventure:       {GameType: models.GameAdventure, Title: "Tiny Forest", Content: testStoryContent(t)},
				models.GameSentenceBuilder: {GameType: models.GameSentenceBuilder, Title: "Sentence Builder", Content: testSentenceContent(t)},
			},
			progress: make(map[string]models.ProgressRecord),
		},
		saver: &fakeSaver{},
		clock: &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.deps = Deps{
		Gateway:          h.gw,
		Saver:            h.saver,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		MessageDisplay:   2 * time.Second,
		LeaderboardLimit: 10,
		Now:              h.clock.Now,
		NewRand:          func() *rand.Rand { return rand.New(rand.NewPCG(3, 5)) },
	}
	return h
}

func signedIn(userID string) context.Context {
	return service.WithIdentity(context.Background(), models.Identity{
		UserID:        userID,
		SessionID:     "session-" + userID,
		Authenticated: true,
	})
}
