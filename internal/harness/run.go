package harness

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/gridsmith/gridsmith/internal/engine"
	"github.com/gridsmith/gridsmith/internal/grid"
	"github.com/gridsmith/gridsmith/internal/index"
)

// BuildEngine constructs the scenario's starting engine: dictionary
// loaded in listed order, grid rows applied, content writes pushed
// through the log.
func BuildEngine(s *Scenario) (*engine.Engine, error) {
	idx := index.New()
	for _, line := range s.Dictionary {
		word, scoreText, found := strings.Cut(line, " ")
		if !found {
			return nil, fmt.Errorf("harness: bad dictionary line %q", line)
		}
		score, err := strconv.Atoi(strings.TrimSpace(scoreText))
		if err != nil {
			return nil, fmt.Errorf("harness: bad dictionary score in %q: %w", line, err)
		}
		idx.AddEntry(grid.ParseWord(word), score)
	}
	idx.Finalize()

	e := engine.New(idx, engine.WithSeed(1))
	if err := e.SetDimensions(len(s.Grid), len(s.Grid[0])); err != nil {
		return nil, err
	}
	for r, row := range s.Grid {
		for c := 0; c < len(row); c++ {
			coord := grid.Coord{Row: r, Col: c}
			switch ch := row[c]; ch {
			case '-', '#':
				e.SetBarrier(coord, true, false)
			case '.', ' ':
			default:
				e.Set(coord, grid.AtomOf(ch))
			}
		}
	}
	return e, nil
}

func parseDirection(text string) (engine.Direction, error) {
	switch strings.ToLower(text) {
	case "across":
		return engine.Across, nil
	case "down":
		return engine.Down, nil
	}
	return 0, fmt.Errorf("harness: bad direction %q", text)
}

func findSlot(e *engine.Engine, ref SlotRef) (*engine.Slot, error) {
	direction, err := parseDirection(ref.Direction)
	if err != nil {
		return nil, err
	}
	slots := e.SlotsStartingAt(grid.Coord{Row: ref.Row, Col: ref.Col})
	for i := range slots {
		if slots[i].Direction == direction {
			return &slots[i], nil
		}
	}
	return nil, fmt.Errorf("harness: no %s slot starts at (%d, %d)", ref.Direction, ref.Row, ref.Col)
}

// applyStep executes one step against the engine.
func applyStep(e *engine.Engine, st Step) error {
	switch {
	case st.Set != nil:
		var atom grid.Atom
		if st.Set.Letter != "" && st.Set.Letter != " " {
			atom = grid.AtomOf(st.Set.Letter[0])
		}
		e.Set(grid.Coord{Row: st.Set.Row, Col: st.Set.Col}, atom)
	case st.SetSlot != nil:
		slot, err := findSlot(e, st.SetSlot.SlotRef)
		if err != nil {
			return err
		}
		e.SetSlot(slot, grid.ParseWord(st.SetSlot.Word))
	case st.ClearSlot != nil:
		slot, err := findSlot(e, *st.ClearSlot)
		if err != nil {
			return err
		}
		e.ClearSlot(slot)
	case st.Barrier != nil:
		e.SetBarrier(grid.Coord{Row: st.Barrier.Row, Col: st.Barrier.Col}, st.Barrier.Value, st.Barrier.Symmetry)
	case st.Lock != nil:
		e.LockCell(grid.Coord{Row: st.Lock.Row, Col: st.Lock.Col}, st.Lock.Value)
	case st.Undo > 0:
		for i := 0; i < st.Undo; i++ {
			if !e.Undo() {
				return fmt.Errorf("harness: undo %d of %d had empty history", i+1, st.Undo)
			}
		}
	case st.Redo > 0:
		for i := 0; i < st.Redo; i++ {
			if !e.Redo() {
				return fmt.Errorf("harness: redo %d of %d had empty tail", i+1, st.Redo)
			}
		}
	case st.ClearAll:
		e.ClearAll()
	}
	return nil
}

// Run executes the scenario, checks its expectations, and compares
// the final grid rendering against testdata/golden/<name>.golden.
func Run(t *testing.T, s *Scenario) {
	t.Helper()

	e, err := BuildEngine(s)
	require.NoError(t, err)

	for i, step := range s.Steps {
		require.NoError(t, applyStep(e, step), "step %d", i)
	}

	checkExpect(t, e, s.Expect)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, s.Name, []byte(e.Render()))
}

func checkExpect(t *testing.T, e *engine.Engine, expect Expect) {
	t.Helper()

	if expect.ValidPattern != nil {
		require.Equal(t, *expect.ValidPattern, e.IsValidPattern(), "valid pattern")
	}
	if expect.Solvability != "" {
		require.Equal(t, expect.Solvability, e.Classify(1).String(), "solvability")
	}
	if expect.Solved != nil {
		require.Equal(t, *expect.Solved, e.IsSolved(), "solved")
	}
	if expect.HistorySize != nil {
		require.Equal(t, *expect.HistorySize, e.HistorySize(), "history size")
	}
	for key, want := range expect.Numbers {
		coord, err := parseCoordKey(key)
		require.NoError(t, err)
		require.Equal(t, want, e.ClueNumber(coord), "clue number at %v", coord)
	}
}

func parseCoordKey(key string) (grid.Coord, error) {
	rowText, colText, found := strings.Cut(key, ",")
	if !found {
		return grid.Coord{}, fmt.Errorf("harness: bad coordinate key %q", key)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil {
		return grid.Coord{}, fmt.Errorf("harness: bad row in %q: %w", key, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colText))
	if err != nil {
		return grid.Coord{}, fmt.Errorf("harness: bad col in %q: %w", key, err)
	}
	return grid.Coord{Row: row, Col: col}, nil
}
