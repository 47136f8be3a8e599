package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readingquest/internal/models"
	"readingquest/internal/repository"
	"readingquest/internal/validation"
)

type stubFilter struct {
	bad map[string]bool
	err error
}

func (f stubFilter) ContainsBadWord(_ context.Context, text string) (bool, error) {
	return f.bad[text], f.err
}

func newTestGateway(t *testing.T, filter wordFilter) (*Gateway, *models.User) {
	t.Helper()
	db := setupTestDB(t)
	user, err := repository.NewUserRepository(db).CreateUser(context.Background(), "player@example.com", "hash", "Player")
	require.NoError(t, err)
	gw := NewGateway(
		repository.NewContentRepository(db),
		repository.NewProgressRepository(db),
		repository.NewScoreRepository(db),
		filter,
		discardLogger(),
		3,
	)
	return gw, user
}

func TestGatewayFetchContent(t *testing.T) {
	gw, _ := newTestGateway(t, nil)
	ctx := context.Background()

	_, err := gw.FetchContent(ctx, models.GameAdventure)
	assert.ErrorIs(t, err, ErrContentUnavailable)

	def, err := ParseContentFile([]byte(adventureYAML))
	require.NoError(t, err)
	require.NoError(t, gw.content.ReplaceAll(ctx, []models.GameDefinition{def}))

	got, err := gw.FetchContent(ctx, models.GameAdventure)
	require.NoError(t, err)
	assert.Equal(t, "Tiny Forest", got.Title)
}

func TestGatewayGuestCannotSave(t *testing.T) {
	gw, _ := newTestGateway(t, nil)
	ctx := context.Background()

	err := gw.SaveProgress(ctx, "", &models.ProgressRecord{GameType: models.GameAdventure})
	assert.ErrorIs(t, err, ErrAuthAbsent)

	_, err = gw.SubmitScore(ctx, "", "Guest", models.GameAdventure, 3)
	assert.ErrorIs(t, err, ErrAuthAbsent)

	_, err = gw.LoadProgress(ctx, "", models.GameAdventure)
	assert.ErrorIs(t, err, ErrAuthAbsent)

	assert.Equal(t, models.Guest, gw.CurrentIdentity(ctx))
}

func TestGatewayProgressLifecycle(t *testing.T) {
	gw, user := newTestGateway(t, nil)
	ctx := context.Background()

	rec, err := gw.LoadProgress(ctx, user.ID, models.GameAdventure)
	require.NoError(t, err)
	assert.Nil(t, rec)

	snapshot := &models.ProgressRecord{
		GameType:   models.GameAdventure,
		Progress:   2,
		PlayerName: "Robin",
		Items:      []string{"compass"},
		Hearts:     5,
		Stars:      1,
	}
	require.NoError(t, gw.SaveProgress(ctx, user.ID, snapshot))
	snapshot.Progress = 5
	snapshot.Stars = 2
	require.NoError(t, gw.SaveProgress(ctx, user.ID, snapshot))

	rec, err = gw.LoadProgress(ctx, user.ID, models.GameAdventure)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 5, rec.Progress)
	assert.Equal(t, 2, rec.Stars)
	assert.Equal(t, []string{"compass"}, rec.Items)

	require.NoError(t, gw.DeleteProgress(ctx, user.ID, models.GameAdventure))
	rec, err = gw.LoadProgress(ctx, user.ID, models.GameAdventure)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGatewayLeaderboardDefaultLimit(t *testing.T) {
	gw, user := newTestGateway(t, nil)
	ctx := context.Background()

	for _, score := range []int{10, 40, 20, 30, 50} {
		_, err := gw.SubmitScore(ctx, user.ID, "Robin", models.GameSentenceBuilder, score)
		require.NoError(t, err)
	}

	board, err := gw.Leaderboard(ctx, models.GameSentenceBuilder, 0)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, []int{50, 40, 30}, []int{board[0].Score, board[1].Score, board[2].Score})

	board, err = gw.Leaderboard(ctx, models.GameSentenceBuilder, 10)
	require.NoError(t, err)
	assert.Len(t, board, 5)
}

func TestGatewayCheckPlayerName(t *testing.T) {
	tests := []struct {
		name    string
		filter  wordFilter
		input   string
		want    string
		wantErr error
	}{
		{name: "trimmed", input: "  Robin  ", want: "Robin"},
		{name: "blocked", filter: stubFilter{bad: map[string]bool{"Meanie": true}}, input: "Meanie", wantErr: ErrNameRejected},
		{name: "filter failure allows", filter: stubFilter{err: errors.New("db down")}, input: "Robin", want: "Robin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &Gateway{filter: tt.filter, logger: discardLogger()}
			got, err := gw.CheckPlayerName(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	gw := &Gateway{logger: discardLogger()}
	_, err := gw.CheckPlayerName(context.Background(), "   ")
	var verr validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.True(t, IsValidationError(err))
}
