package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readingquest/internal/game/adventure"
	"readingquest/internal/game/sentence"
	"readingquest/internal/models"
	"readingquest/internal/repository"
)

func TestParseContentFile(t *testing.T) {
	def, err := ParseContentFile([]byte(adventureYAML))
	require.NoError(t, err)
	assert.Equal(t, models.GameAdventure, def.GameType)
	assert.Equal(t, "Tiny Forest", def.Title)

	story, err := adventure.Decode(def.Content)
	require.NoError(t, err)
	tr, ok := story.Transition(1, 2)
	require.True(t, ok)
	assert.Equal(t, "pillow", tr.Item)
	assert.Equal(t, adventure.EffectGain, tr.Effect)

	def, err = ParseContentFile([]byte(sentenceYAML))
	require.NoError(t, err)
	content, err := sentence.Decode(def.Content)
	require.NoError(t, err)
	assert.Equal(t, 2, content.Levels())
}

func TestParseContentFileRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "gameType: [adventure"},
		{name: "unknown game type", yaml: "gameType: chess\ntitle: x\ncontent: {}\n"},
		{name: "missing title", yaml: strings.Replace(sentenceYAML, "title: Sentence Builder", "title: ''", 1)},
		{name: "missing content", yaml: "gameType: adventure\ntitle: x\n"},
		{name: "dead option", yaml: strings.Replace(adventureYAML, "        - id: 2\n          text: Sit and rest\n", "        - id: 2\n          text: Sit and rest\n        - id: 3\n          text: Sing\n", 1)},
		{name: "wrong words", yaml: strings.Replace(sentenceYAML, "correct: The cat sat", "correct: The cat sat down", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContentFile([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidContentFile)
		})
	}
}

func TestMarshalContentFileRoundTrip(t *testing.T) {
	def, err := ParseContentFile([]byte(adventureYAML))
	require.NoError(t, err)

	out, err := MarshalContentFile(def)
	require.NoError(t, err)

	again, err := ParseContentFile(out)
	require.NoError(t, err)
	assert.Equal(t, def.Title, again.Title)
	assert.JSONEq(t, string(def.Content), string(again.Content))
}

func TestContentServiceValidateDuplicates(t *testing.T) {
	svc := NewContentService(nil, discardLogger())

	_, err := svc.Validate(map[string][]byte{
		"a.yaml": []byte(sentenceYAML),
		"b.yaml": []byte(sentenceYAML),
	})
	assert.ErrorIs(t, err, ErrInvalidContentFile)

	_, err = svc.Validate(map[string][]byte{})
	assert.ErrorIs(t, err, ErrInvalidContentFile)
}

func TestContentServiceImportExport(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := repository.NewContentRepository(db)
	svc := NewContentService(repo, discardLogger())

	files := map[string][]byte{
		"adventure.yaml": []byte(adventureYAML),
		"sentence.yaml":  []byte(sentenceYAML),
	}
	defs, err := svc.Import(ctx, files)
	require.NoError(t, err)
	assert.Len(t, defs, 2)

	// Importing again replaces rather than duplicates
	_, err = svc.Import(ctx, files)
	require.NoError(t, err)
	stored, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	exported, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Contains(t, exported, models.GameSentenceBuilder)
	def, err := ParseContentFile(exported[models.GameSentenceBuilder])
	require.NoError(t, err)
	assert.Equal(t, "Sentence Builder", def.Title)
}

func TestContentServiceImportInvalidKeepsExisting(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := repository.NewContentRepository(db)
	svc := NewContentService(repo, discardLogger())

	_, err := svc.Import(ctx, map[string][]byte{"sentence.yaml": []byte(sentenceYAML)})
	require.NoError(t, err)

	_, err = svc.Import(ctx, map[string][]byte{
		"adventure.yaml": []byte("gameType: adventure\ntitle: x\n"),
	})
	require.Error(t, err)

	def, err := repo.Get(ctx, models.GameSentenceBuilder)
	require.NoError(t, err)
	assert.NotNil(t, def)
}
