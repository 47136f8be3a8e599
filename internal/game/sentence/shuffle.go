package sentence

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// shuffleAttempts bounds the retries when a shuffle reproduces the input order
const shuffleAttempts = 8

// Deal shuffles words into tiles. Ids are assigned after shuffling, so
// "word-0" is the first tile shown. A nil rng uses the global source.
func Deal(words []string, rng *rand.Rand) []Word {
	shuffled := slices.Clone(words)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}

	for range shuffleAttempts {
		shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if !slices.Equal(shuffled, words) {
			break
		}
	}

	tiles := make([]Word, len(shuffled))
	for i, text := range shuffled {
		tiles[i] = Word{ID: fmt.Sprintf("word-%d", i), Text: text}
	}
	return tiles
}
