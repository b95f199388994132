package sqlite

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-push-relay/internal/config"
	_ "modernc.org/sqlite"
)

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens (or creates) the SQLite database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(path string, tables config.Tables) (*sql.DB, error) {
	for _, name := range []string{tables.Stories, tables.Profiles, tables.Replies} {
		if !identRE.MatchString(name) {
			return nil, fmt.Errorf("invalid table name %q", name)
		}
	}
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := initSchema(db, tables); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(db *sql.DB, tables config.Tables) error {
	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS %[2]s (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL DEFAULT '',
    fcm_token TEXT
);

CREATE TABLE IF NOT EXISTS %[3]s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    story_id TEXT NOT NULL REFERENCES %[1]s(id),
    user_id TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`, tables.Stories, tables.Profiles, tables.Replies)
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}
