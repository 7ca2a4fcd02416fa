package index

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// parseLine splits one dictionary line of the form "WORD SCORE".
// Returns ok=false for blank or malformed lines.
func parseLine(line string) (grid.Word, int, bool) {
	line = strings.TrimSpace(norm.NFC.String(line))
	if line == "" {
		return "", 0, false
	}
	raw, scoreText, found := strings.Cut(line, " ")
	if !found {
		return "", 0, false
	}
	score, err := strconv.Atoi(strings.TrimSpace(scoreText))
	if err != nil || score < 0 {
		return "", 0, false
	}
	word := grid.ParseWord(strings.ToUpper(raw))
	if word.Len() == 0 || !word.IsComplete() {
		return "", 0, false
	}
	return word, score, true
}

// LoadFromFile reads a whitespace-separated word list, one "WORD
// SCORE" entry per line, then normalizes and sorts every store.
// Malformed lines are skipped with a diagnostic; words at or beyond
// grid.MaxDim are dropped silently. On open failure the index is left
// untouched.
func (idx *Index) LoadFromFile(path string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.loadFromFileLocked(path)
}

func (idx *Index) loadFromFileLocked(path string) error {
	f, err := os.Open(path)
	if err != nil {
		idx.failLoad()
		return fmt.Errorf("index: open word list: %w", err)
	}
	defer f.Close()

	idx.state.Store(int32(Loading))

	added, skipped := 0, 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word, score, ok := parseLine(scanner.Text())
		if !ok {
			if strings.TrimSpace(scanner.Text()) != "" {
				skipped++
			}
			continue
		}
		idx.addEntryLocked(word, score)
		added++
	}
	if err := scanner.Err(); err != nil {
		idx.failLoad()
		return fmt.Errorf("index: read word list: %w", err)
	}

	idx.finalizeLocked()
	slog.Info("word list loaded", "path", path, "entries", added, "skipped", skipped)
	return nil
}

// LoadDeferred starts LoadFromFile on its own goroutine. The writer
// lock is taken before this returns and held for the duration of the
// load, so a WaitForLoad issued any time afterwards blocks until the
// load finishes. Load failures are logged, leaving the index empty.
func (idx *Index) LoadDeferred(path string) {
	idx.state.Store(int32(Loading))
	idx.mu.Lock()
	go func() {
		defer idx.mu.Unlock()
		if err := idx.loadFromFileLocked(path); err != nil {
			slog.Error("deferred word list load failed", "path", path, "error", err)
		}
	}()
}
