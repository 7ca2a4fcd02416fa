package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsmith/gridsmith/internal/grid"
	"github.com/gridsmith/gridsmith/internal/index"
)

func quickParams() AutofillParams {
	p := DefaultAutofillParams()
	p.SecondsLimit = 5
	p.Entropy = 0
	p.EntropyDecay = 0
	p.ScoreMin = 1
	p.ScoreMinDecay = 0
	return p
}

// requireSolvedGrid asserts that every slot is filled with a
// dictionary word and no word repeated.
func requireSolvedGrid(t *testing.T, e *Engine) {
	t.Helper()
	require.True(t, e.IsSolved())
	seen := map[grid.Word]bool{}
	for _, s := range e.Slots() {
		w := s.Word()
		assert.True(t, w.IsComplete())
		assert.True(t, e.Contains(w), "slot word %q not in dictionary", w.String())
		assert.False(t, seen[w], "word %q repeated", w.String())
		seen[w] = true
	}
}

func TestAutofill_HappyPath(t *testing.T) {
	// A solvable grid, generous budget, no entropy.
	e := newTestEngine(t, dict3x3)
	require.NoError(t, e.SetDimensions(3, 3))

	result, err := e.Autofill(quickParams())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSolved, result.Outcome)
	assert.Positive(t, result.Nodes)
	requireSolvedGrid(t, e)
}

func TestAutofill_RespectsPrefill(t *testing.T) {
	e := newTestEngine(t, dict3x3)
	require.NoError(t, e.SetDimensions(3, 3))
	e.Set(grid.Coord{Row: 0, Col: 0}, grid.AtomOf('C'))

	result, err := e.Autofill(quickParams())
	require.NoError(t, err)
	require.Equal(t, OutcomeSolved, result.Outcome)
	requireSolvedGrid(t, e)
	assert.Equal(t, grid.AtomOf('C'), atomAt(e, 0, 0))
	// The preamble lock was released on exit.
	assert.False(t, e.IsLocked(grid.Coord{Row: 0, Col: 0}))
}

func TestAutofill_Preconditions(t *testing.T) {
	t.Run("index not loaded", func(t *testing.T) {
		e := New(index.New(), WithSeed(1))
		_, err := e.Autofill(quickParams())
		assert.ErrorIs(t, err, ErrIndexNotLoaded)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		e := newTestEngine(t, dict3x3)
		e.SetBarrier(grid.Coord{Row: 0, Col: 2}, true, false) // length-2 run in row 0
		_, err := e.Autofill(quickParams())
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("unsolvable start", func(t *testing.T) {
		e := newTestEngine(t, dict3x3)
		require.NoError(t, e.SetDimensions(3, 3))
		fillRow(e, 0, "XYZ")
		_, err := e.Autofill(quickParams())
		assert.ErrorIs(t, err, ErrNotSolvable)
	})
}

func TestAutofill_ParamValidation(t *testing.T) {
	e := newTestEngine(t, dict3x3)
	for name, mutate := range map[string]func(*AutofillParams){
		"zero seconds":      func(p *AutofillParams) { p.SecondsLimit = 0 },
		"zero branching":    func(p *AutofillParams) { p.BranchingFactorLimit = 0 },
		"entropy over 100":  func(p *AutofillParams) { p.Entropy = 101 },
		"negative entropy":  func(p *AutofillParams) { p.Entropy = -1 },
		"decay over 1":      func(p *AutofillParams) { p.EntropyDecay = 1.5 },
		"zero score min":    func(p *AutofillParams) { p.ScoreMin = 0 },
		"score min decay":   func(p *AutofillParams) { p.ScoreMinDecay = -0.1 },
		"score min too big": func(p *AutofillParams) { p.ScoreMin = 101 },
	} {
		t.Run(name, func(t *testing.T) {
			p := quickParams()
			mutate(&p)
			_, err := e.Autofill(p)
			assert.Error(t, err)
		})
	}
}

func TestAutofill_BranchingLimit(t *testing.T) {
	e := newTestEngine(t, dict3x3)
	require.NoError(t, e.SetDimensions(3, 3))

	p := quickParams()
	p.BranchingFactorLimit = 1
	result, err := e.Autofill(p)
	require.NoError(t, err)
	// With one candidate per expansion the search may or may not
	// reach a solution, but it must terminate normally either way.
	assert.Contains(t, []Outcome{OutcomeSolved, OutcomeExhausted}, result.Outcome)
}

func TestAutofill_Exhausted(t *testing.T) {
	// Rows can always be filled but no column ever completes, so the
	// whole tree is searched and rejected at every score floor.
	e := newTestEngine(t, nil)
	idx := e.Index()
	for _, a := range "ABC" {
		for _, b := range "ABC" {
			for _, c := range "ABC" {
				for _, d := range "ABC" {
					idx.AddEntry(grid.ParseWord(fmt.Sprintf("%c%c%c%c", a, b, c, d)), 50)
				}
			}
		}
	}
	idx.AddEntry(grid.ParseWord("XYZ"), 50)
	idx.Finalize()
	require.NoError(t, e.SetDimensions(3, 4))

	p := quickParams()
	result, err := e.Autofill(p)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, result.Outcome)
	// Rollback left the grid blank.
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			assert.True(t, atomAt(e, r, c).IsEmpty())
		}
	}
}

// newSlowSearchEngine builds a 3x4 grid whose across slots have tens
// of thousands of fills but whose only completable down fill forces
// four duplicated columns. Every word scores 50, so floors above 50
// fail at the root; at each floor of 50 or below the search grinds
// through the whole tree without ever accepting.
func newSlowSearchEngine(t *testing.T) *Engine {
	t.Helper()
	idx := index.New()
	letters := "ABCDEFGHIJKL"
	for _, a := range letters {
		for _, b := range letters {
			for _, c := range letters {
				for _, d := range letters {
					idx.AddEntry(grid.ParseWord(fmt.Sprintf("%c%c%c%c", a, b, c, d)), 50)
				}
			}
		}
	}
	idx.AddEntry(grid.ParseWord("ABC"), 50)
	idx.Finalize()

	e := New(idx, WithSeed(7))
	require.NoError(t, e.SetDimensions(3, 4))
	return e
}

func TestAutofill_Cancellation(t *testing.T) {
	// Stop shortly after starting; the search exits within a
	// bounded grace window and rollback restores the initial state.
	e := newSlowSearchEngine(t)
	e.Set(grid.Coord{Row: 0, Col: 0}, grid.AtomOf('A'))
	before := e.Render()

	type outcome struct {
		result FillResult
		err    error
	}
	resultCh := make(chan outcome, 1)
	p := quickParams()
	p.SecondsLimit = 100
	p.ScoreMin = 100
	p.ScoreMinDecay = 0.98
	go func() {
		result, err := e.Autofill(p)
		resultCh <- outcome{result, err}
	}()

	for !e.IsSearching() {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	e.StopAutofill()

	select {
	case got := <-resultCh:
		require.NoError(t, got.err)
		assert.Equal(t, OutcomeCancelled, got.result.Outcome)
	case <-time.After(10 * time.Second):
		t.Fatal("search did not honor cancellation")
	}

	assert.Equal(t, before, e.Render())
	assert.False(t, e.IsSearching())
	// The preamble lock on the pre-filled cell was released.
	assert.False(t, e.IsLocked(grid.Coord{Row: 0, Col: 0}))
}

func TestAutofill_Deadline(t *testing.T) {
	e := newSlowSearchEngine(t)

	p := quickParams()
	p.SecondsLimit = 1
	p.ScoreMin = 100
	p.ScoreMinDecay = 0.98

	start := time.Now()
	result, err := e.Autofill(p)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeadline, result.Outcome)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAutofill_RejectsConcurrentRun(t *testing.T) {
	e := newSlowSearchEngine(t)

	p := quickParams()
	p.SecondsLimit = 100
	p.ScoreMin = 100
	p.ScoreMinDecay = 0.98
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Autofill(p)
	}()
	for !e.IsSearching() {
		time.Sleep(time.Millisecond)
	}

	_, err := e.Autofill(quickParams())
	assert.ErrorIs(t, err, ErrSearchRunning)

	e.StopAutofill()
	<-done
}

func TestAutofill_DeterministicWithSeed(t *testing.T) {
	build := func() *Engine {
		idx := index.New()
		// Ordered insertion keeps trie order identical across runs.
		for _, w := range []string{"CAT", "ORE", "WED", "COW", "ARE", "TED", "BAT", "BET", "TAB"} {
			idx.AddEntry(grid.ParseWord(w), 50)
		}
		idx.Finalize()
		e := New(idx, WithSeed(42))
		if err := e.SetDimensions(3, 3); err != nil {
			t.Fatal(err)
		}
		return e
	}

	p := quickParams()
	p.Entropy = 100
	p.EntropyDecay = 0.9

	first, err := build().Autofill(p)
	require.NoError(t, err)
	second, err := build().Autofill(p)
	require.NoError(t, err)
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Nodes, second.Nodes)
}

func TestWordFills_OneSlotPerExpansion(t *testing.T) {
	e := newTestEngine(t, dict3x3)
	require.NoError(t, e.SetDimensions(3, 3))

	fills := e.wordFills(0, NoLimit)
	// Six length-3 words in the dictionary, all fitting the first
	// unfilled slot (0,0)-across.
	assert.Len(t, fills, 6)

	// Applying any candidate fills the upper-left across slot.
	e.applyAction(fills[0])
	var row0 *Slot
	for _, s := range e.Slots() {
		if s.Direction == Across && s.Start.Row == 0 {
			row0 = &s
			break
		}
	}
	require.NotNil(t, row0)
	assert.True(t, row0.IsFilled())
}

func TestWordFills_CapAndOrder(t *testing.T) {
	e := newTestEngine(t, dict3x3)
	require.NoError(t, e.SetDimensions(3, 3))

	assert.Len(t, e.wordFills(0, 2), 2)
	assert.Len(t, e.wordFills(0, 1), 1)

	// No unfilled slot: no candidates.
	fillRow(e, 0, "CAT")
	fillRow(e, 1, "ORE")
	fillRow(e, 2, "WED")
	assert.Empty(t, e.wordFills(0, NoLimit))
}
