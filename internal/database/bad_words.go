package database

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SeedBadWords downloads a newline separated word list into bad_words.
// An empty url disables seeding; an already populated table is left alone.
func (db *DB) SeedBadWords(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bad_words").Scan(&count); err != nil {
		return fmt.Errorf("failed to check bad words count: %w", err)
	}
	if count > 0 {
		slog.Debug("bad words filter already populated", "count", count)
		return nil
	}

	slog.Info("downloading bad words list", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build bad words request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download bad words list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from bad words URL: %d", resp.StatusCode)
	}

	var words []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if word := strings.TrimSpace(strings.ToLower(scanner.Text())); word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading bad words: %w", err)
	}

	added, err := db.InsertBadWords(ctx, words)
	if err != nil {
		return err
	}
	slog.Info("bad words filter populated", "count", added)
	return nil
}

// InsertBadWords stores words in one transaction, skipping duplicates.
func (db *DB) InsertBadWords(ctx context.Context, words []string) (int, error) {
	added := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		query := "INSERT INTO bad_words (word) VALUES (?)" + db.Dialect.UpsertClause([]string{"word"}, []string{"word"})
		for _, word := range words {
			if _, err := tx.ExecContext(ctx, query, strings.ToLower(word)); err != nil {
				return fmt.Errorf("failed to insert bad word: %w", err)
			}
			added++
		}
		return nil
	})
	return added, err
}

// ContainsBadWord reports whether any whitespace separated token in text
// is on the bad words list.
func (db *DB) ContainsBadWord(ctx context.Context, text string) (bool, error) {
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:'\"-_")
		if token == "" {
			continue
		}
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bad_words WHERE word = ?", token).Scan(&count); err != nil {
			return false, fmt.Errorf("failed to check bad word: %w", err)
		}
		if count > 0 {
			slog.Debug("bad word detected in text")
			return true, nil
		}
	}
	return false, nil
}
