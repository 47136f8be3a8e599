package database

import (
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "sqlite3" {
			t.Errorf("DriverName() = %v, want sqlite3", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT * FROM users WHERE id = ?"
		if got := dialect.RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %v, want unchanged", got)
		}
	})

	t.Run("DSN", func(t *testing.T) {
		tests := []struct {
			path string
			want string
		}{
			{"quest.db", "quest.db?" + sqliteParams},
			{"file:quest.db?cache=shared", "file:quest.db?cache=shared&" + sqliteParams},
		}
		for _, tt := range tests {
			if got := dialect.DSN(DialectConfig{Path: tt.path}); got != tt.want {
				t.Errorf("DSN(%q) = %v, want %v", tt.path, got, tt.want)
			}
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "sqlite" {
			t.Errorf("MigrationsSubdir() = %v, want sqlite", got)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "postgres" {
			t.Errorf("DriverName() = %v, want postgres", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "postgres" {
			t.Errorf("MigrationsSubdir() = %v, want postgres", got)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "mysql" {
			t.Errorf("DriverName() = %v, want mysql", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("DSN enables parseTime", func(t *testing.T) {
		dsn := dialect.DSN(DialectConfig{URL: "quest:secret@tcp(localhost:3306)/readingquest"})
		if !strings.Contains(dsn, "parseTime=true") {
			t.Errorf("DSN() = %v, want parseTime=true", dsn)
		}
	})
}

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single placeholder",
			input:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = $1",
		},
		{
			name:     "multiple placeholders",
			input:    "INSERT INTO game_progress (user_id, game_type, progress) VALUES (?, ?, ?)",
			expected: "INSERT INTO game_progress (user_id, game_type, progress) VALUES ($1, $2, $3)",
		},
		{
			name:     "no placeholders",
			input:    "SELECT COUNT(*) FROM high_scores",
			expected: "SELECT COUNT(*) FROM high_scores",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.input); got != tt.expected {
				t.Errorf("rewritePlaceholdersToNumbered() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUpsertClause(t *testing.T) {
	conflict := []string{"user_id", "game_type"}
	update := []string{"progress", "hearts"}

	tests := []struct {
		name    string
		dialect Dialect
		want    string
	}{
		{
			name:    "sqlite",
			dialect: NewSQLiteDialect(),
			want:    " ON CONFLICT (user_id, game_type) DO UPDATE SET progress = excluded.progress, hearts = excluded.hearts",
		},
		{
			name:    "postgres",
			dialect: NewPostgresDialect(),
			want:    " ON CONFLICT (user_id, game_type) DO UPDATE SET progress = excluded.progress, hearts = excluded.hearts",
		},
		{
			name:    "mysql",
			dialect: NewMySQLDialect(),
			want:    " ON DUPLICATE KEY UPDATE progress = VALUES(progress), hearts = VALUES(hearts)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.UpsertClause(conflict, update); got != tt.want {
				t.Errorf("UpsertClause() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	content := `-- comment
CREATE TABLE a (id INTEGER);

CREATE INDEX idx_a ON a(id);
`
	stmts := splitStatements(content)
	if len(stmts) != 2 {
		t.Fatalf("splitStatements() returned %d statements, want 2: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (id INTEGER)" {
		t.Errorf("first statement = %q", stmts[0])
	}
}
