package views

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readingquest/internal/game/sentence"
	"readingquest/internal/models"
	"readingquest/internal/service"
)

// build selects the available words in the order of want
func build(t *testing.T, ctx context.Context, v *SentenceView, want string) SentenceState {
	t.Helper()
	var st SentenceState
	for _, text := range strings.Fields(want) {
		st = v.State(ctx)
		id := ""
		for _, w := range st.Available {
			if w.Text == text {
				id = w.ID
				break
			}
		}
		require.NotEmpty(t, id, "word %q not available", text)
		var err error
		st, err = v.Select(ctx, id)
		require.NoError(t, err)
	}
	return st
}

func TestSentenceViewCheck(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	v, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)

	st := v.State(ctx)
	assert.Equal(t, 0, st.Level)
	assert.Equal(t, 2, st.Levels)
	assert.Len(t, st.Available, 3)
	assert.False(t, st.Checkable)

	_, err = v.Check(ctx)
	assert.ErrorIs(t, err, sentence.ErrNotCheckable)

	st = build(t, ctx, v, "sat cat The")
	assert.True(t, st.Checkable)
	res, err := v.Check(ctx)
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, msgIncorrect, res.Message)
	assert.NotEmpty(t, res.Hint)
	assert.Zero(t, res.State.Score)
	assert.Len(t, res.State.Selected, 3, "a wrong answer changes nothing")

	st, err = v.Reset(ctx)
	require.NoError(t, err)
	assert.Len(t, st.Available, 3)
	assert.Empty(t, st.Selected)

	build(t, ctx, v, "The cat sat")
	res, err = v.Check(ctx)
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 20, res.State.Score)
	assert.True(t, res.State.Advancing)

	_, err = v.Select(ctx, res.State.Selected[0].ID)
	assert.ErrorIs(t, err, sentence.ErrAdvancing)

	h.clock.Advance(2 * time.Second)
	st = v.State(ctx)
	assert.Equal(t, 1, st.Level)
	assert.False(t, st.Advancing)
	assert.Len(t, st.Available, 3)
}

func TestSentenceViewUnknownWord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	v, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)

	_, err = v.Select(ctx, "word-99")
	assert.ErrorIs(t, err, sentence.ErrUnknownWord)
	_, err = v.Remove(ctx, v.State(ctx).Available[0].ID)
	assert.ErrorIs(t, err, sentence.ErrUnknownWord)
}

func TestSentenceViewRemoveKeepsIdentity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	v, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)

	word := v.State(ctx).Available[0]
	st, err := v.Select(ctx, word.ID)
	require.NoError(t, err)
	assert.Equal(t, []sentence.Word{word}, st.Selected)

	st, err = v.Remove(ctx, word.ID)
	require.NoError(t, err)
	assert.Empty(t, st.Selected)
	assert.Equal(t, word, st.Available[len(st.Available)-1])
}

func TestSentenceViewCompleteAndFinish(t *testing.T) {
	h := newHarness(t)
	h.deps.MessageDisplay = 0
	ctx := signedIn("user-1")
	v, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)

	build(t, ctx, v, "The cat sat")
	res, err := v.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.Level)

	snap, n := h.saver.last()
	require.Equal(t, 1, n, "advancing a level saves")
	assert.Equal(t, 1, snap.Progress)
	assert.Equal(t, 20, snap.Score)
	assert.Len(t, snap.AvailableWords, 3)

	_, err = v.Finish(ctx)
	assert.ErrorIs(t, err, ErrNotFinished)

	build(t, ctx, v, "A dog ran")
	res, err = v.Check(ctx)
	require.NoError(t, err)
	assert.True(t, res.State.Completed)
	assert.Equal(t, 40, res.State.Score)

	_, err = v.Check(ctx)
	assert.ErrorIs(t, err, sentence.ErrComplete)

	_, err = v.Finish(ctx)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = v.SetName(ctx, "Meanie")
	assert.ErrorIs(t, err, service.ErrNameRejected)
	_, err = v.SetName(ctx, "Robin")
	require.NoError(t, err)

	fin, err := v.Finish(ctx)
	require.NoError(t, err)
	require.NotNil(t, fin.Score)
	assert.Equal(t, 40, fin.Score.Score)

	again, err := v.Finish(ctx)
	require.NoError(t, err)
	assert.Nil(t, again.Score)
	assert.Len(t, h.gw.scores, 1)

	st := v.Restart(ctx)
	assert.Equal(t, 0, st.Level)
	assert.Zero(t, st.Score)
	assert.False(t, st.Completed)
	assert.Equal(t, "Robin", st.PlayerName)
}

func TestSentenceViewContinueRestoresBoard(t *testing.T) {
	h := newHarness(t)
	h.gw.progress[progressKey("user-1", models.GameSentenceBuilder)] = models.ProgressRecord{
		GameType:       models.GameSentenceBuilder,
		Progress:       1,
		PlayerName:     "Robin",
		Score:          20,
		AvailableWords: []models.WordTile{{ID: "word-0", Text: "ran"}, {ID: "word-2", Text: "dog"}},
		SelectedWords:  []models.WordTile{{ID: "word-1", Text: "A"}},
	}
	ctx := signedIn("user-1")
	v, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)

	st := v.State(ctx)
	require.NotNil(t, st.SavedGame)
	assert.Equal(t, 20, st.SavedGame.Score)

	st, err = v.Continue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Level)
	assert.Equal(t, 20, st.Score)
	assert.Equal(t, []sentence.Word{{ID: "word-1", Text: "A"}}, st.Selected)
	assert.Equal(t, []sentence.Word{{ID: "word-0", Text: "ran"}, {ID: "word-2", Text: "dog"}}, st.Available)
}

func TestSentenceViewContinueInconsistentBoard(t *testing.T) {
	h := newHarness(t)
	h.gw.progress[progressKey("user-1", models.GameSentenceBuilder)] = models.ProgressRecord{
		GameType:       models.GameSentenceBuilder,
		Progress:       1,
		AvailableWords: []models.WordTile{{ID: "word-0", Text: "cat"}},
	}
	ctx := signedIn("user-1")
	v, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)

	st, err := v.Continue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Level)
	assert.Len(t, st.Available, 3)
	assert.Empty(t, st.Selected)
}

func TestSentenceViewPlayingHidesPrompt(t *testing.T) {
	h := newHarness(t)
	h.gw.progress[progressKey("user-1", models.GameSentenceBuilder)] = models.ProgressRecord{GameType: models.GameSentenceBuilder}
	ctx := signedIn("user-1")
	v, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)
	require.NotNil(t, v.State(ctx).SavedGame)

	st, err := v.Select(ctx, v.State(ctx).Available[0].ID)
	require.NoError(t, err)
	assert.Nil(t, st.SavedGame)

	_, err = v.Discard(ctx)
	assert.ErrorIs(t, err, ErrNoSavedGame)
}

func TestSentenceViewFinishedRunIsNotOfferedAgain(t *testing.T) {
	h := newHarness(t)
	h.deps.MessageDisplay = 0
	ctx := signedIn("user-1")
	v, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)

	for _, want := range []string{"The cat sat", "A dog ran"} {
		build(t, ctx, v, want)
		_, err = v.Check(ctx)
		require.NoError(t, err)
	}
	_, err = v.SetName(ctx, "Robin")
	require.NoError(t, err)
	_, err = v.Save(ctx)
	require.NoError(t, err)
	require.True(t, h.gw.progress[progressKey("user-1", models.GameSentenceBuilder)].Ended)

	_, err = v.Finish(ctx)
	require.NoError(t, err)
	assert.NotContains(t, h.gw.progress, progressKey("user-1", models.GameSentenceBuilder))

	next, err := NewSentenceView(ctx, h.deps)
	require.NoError(t, err)
	assert.Nil(t, next.State(ctx).SavedGame)
	_, err = next.Continue(ctx)
	assert.ErrorIs(t, err, ErrNoSavedGame)
	assert.Len(t, h.gw.scores, 1)
}
