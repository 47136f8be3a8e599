package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readingquest/internal/game/adventure"
	"readingquest/internal/game/sentence"
	"readingquest/internal/models"
	"readingquest/internal/service"
)

func TestEmbeddedDefinitionsAreValid(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)
	require.Len(t, files, 2)

	found := map[models.GameType]models.GameDefinition{}
	for name, data := range files {
		def, err := service.ParseContentFile(data)
		require.NoError(t, err, name)
		found[def.GameType] = def
	}

	adv, ok := found[models.GameAdventure]
	require.True(t, ok)
	assert.Equal(t, "The Enchanted Forest Adventure", adv.Title)
	story, err := adventure.Decode(adv.Content)
	require.NoError(t, err)
	assert.Len(t, story.Rounds, 8)
	paths := 0
	for _, options := range story.Paths {
		paths += len(options)
	}
	assert.Equal(t, 24, paths)

	sb, ok := found[models.GameSentenceBuilder]
	require.True(t, ok)
	assert.Equal(t, "Sentence Builder", sb.Title)
	c, err := sentence.Decode(sb.Content)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Levels())
	assert.Equal(t, []string{"The", "cat", "sleeps", "on", "the", "mat"}, c.Sentences[0].Words)
}
