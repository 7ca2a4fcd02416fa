package index

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// LoadFromDB reads (word, score) rows from a SQLite word list and
// feeds them through the same pipeline as the text loader. The
// database needs a table:
//
//	CREATE TABLE words (word TEXT NOT NULL, score INTEGER NOT NULL);
//
// The index stays memory-resident; the database is only a source and
// is closed before this returns. Rows are read in rowid order so the
// resulting trie order is deterministic.
func (idx *Index) LoadFromDB(path string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("index: open word database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("index: connect word database: %w", err)
	}

	idx.state.Store(int32(Loading))

	rows, err := db.Query("SELECT word, score FROM words ORDER BY rowid")
	if err != nil {
		idx.failLoad()
		return fmt.Errorf("index: query word database: %w", err)
	}
	defer rows.Close()

	added := 0
	for rows.Next() {
		var raw string
		var score int
		if err := rows.Scan(&raw, &score); err != nil {
			idx.failLoad()
			return fmt.Errorf("index: scan word row: %w", err)
		}
		word := grid.ParseWord(strings.ToUpper(strings.TrimSpace(raw)))
		if word.Len() == 0 || !word.IsComplete() || score < 0 {
			continue
		}
		idx.addEntryLocked(word, score)
		added++
	}
	if err := rows.Err(); err != nil {
		idx.failLoad()
		return fmt.Errorf("index: read word rows: %w", err)
	}

	idx.finalizeLocked()
	slog.Info("word database loaded", "path", path, "entries", added)
	return nil
}
