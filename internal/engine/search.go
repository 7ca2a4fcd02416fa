package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// NoLimit disables the branching factor cap.
const NoLimit = -1

// AutofillParams tunes the iterative-relaxation fill search. The
// score minimum and entropy decay multiplicatively between
// iterations, so the search first hunts for high-quality fills and
// relaxes toward "any fill" as iterations fail.
type AutofillParams struct {
	// SecondsLimit is the wall-clock budget across all iterations.
	SecondsLimit int `yaml:"seconds_limit"`
	// BranchingFactorLimit caps candidates per expansion; NoLimit
	// leaves the list uncapped.
	BranchingFactorLimit int `yaml:"branching_factor_limit"`
	// Entropy is the percentage of each candidate list to shuffle.
	Entropy int `yaml:"entropy"`
	// EntropyDecay multiplies Entropy between iterations.
	EntropyDecay float64 `yaml:"entropy_decay"`
	// ScoreMin is the minimum acceptable frequency score for fills.
	ScoreMin int `yaml:"score_min"`
	// ScoreMinDecay multiplies ScoreMin between iterations.
	ScoreMinDecay float64 `yaml:"score_min_decay"`
	// Rollback undoes an iteration's fills when it fails.
	Rollback bool `yaml:"rollback"`
}

// DefaultAutofillParams mirrors the defaults of the interactive tool:
// start demanding (top scores, full shuffle) and relax by 10% per
// iteration.
func DefaultAutofillParams() AutofillParams {
	return AutofillParams{
		SecondsLimit:         100,
		BranchingFactorLimit: NoLimit,
		Entropy:              100,
		EntropyDecay:         0.9,
		ScoreMin:             100,
		ScoreMinDecay:        0.9,
		Rollback:             true,
	}
}

func (p AutofillParams) validate() error {
	switch {
	case p.SecondsLimit <= 0:
		return fmt.Errorf("engine: seconds limit %d must be positive", p.SecondsLimit)
	case p.BranchingFactorLimit != NoLimit && p.BranchingFactorLimit < 1:
		return fmt.Errorf("engine: branching factor limit %d must be >= 1 or NoLimit", p.BranchingFactorLimit)
	case p.Entropy < 0 || p.Entropy > 100:
		return fmt.Errorf("engine: entropy %d outside [0, 100]", p.Entropy)
	case p.EntropyDecay < 0 || p.EntropyDecay > 1:
		return fmt.Errorf("engine: entropy decay %g outside [0, 1]", p.EntropyDecay)
	case p.ScoreMin < 1 || p.ScoreMin > 100:
		return fmt.Errorf("engine: score minimum %d outside [1, 100]", p.ScoreMin)
	case p.ScoreMinDecay < 0 || p.ScoreMinDecay > 1:
		return fmt.Errorf("engine: score minimum decay %g outside [0, 1]", p.ScoreMinDecay)
	}
	return nil
}

// Outcome is the terminal state of an autofill run. All four are
// normal results, not errors.
type Outcome int

const (
	// OutcomeSolved means a complete valid fill was found and left on
	// the grid.
	OutcomeSolved Outcome = iota
	// OutcomeExhausted means every relaxation iteration completed
	// without a solution.
	OutcomeExhausted
	// OutcomeCancelled means StopAutofill interrupted the search.
	OutcomeCancelled
	// OutcomeDeadline means the wall-clock budget expired.
	OutcomeDeadline
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSolved:
		return "solved"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeDeadline:
		return "deadline"
	}
	return "unknown"
}

// FillResult reports what a finished autofill run did.
type FillResult struct {
	Outcome    Outcome
	Nodes      int
	Iterations int
	Elapsed    time.Duration
}

// Autofill precondition errors.
var (
	ErrIndexNotLoaded = errors.New("engine: word index not loaded")
	ErrInvalidPattern = errors.New("engine: barrier pattern is invalid")
	ErrNotSolvable    = errors.New("engine: grid is not solvable at score minimum 1")
	ErrSearchRunning  = errors.New("engine: a search is already running")
)

// dfsNode pairs a pending fill action with the log depth it must be
// applied at. Rolling the log back to depth-1 before applying makes
// every node's grid state reproducible regardless of pop order.
type dfsNode struct {
	action Action
	depth  int
}

// Autofill runs the depth-first fill search until it solves the grid,
// exhausts every relaxation iteration, hits the wall-clock budget, or
// is cancelled. It blocks; run it on its own goroutine when the
// embedder needs a live UI, and serialize edits against it.
func (e *Engine) Autofill(params AutofillParams) (FillResult, error) {
	if err := params.validate(); err != nil {
		return FillResult{}, err
	}
	if !e.searching.CompareAndSwap(false, true) {
		return FillResult{}, ErrSearchRunning
	}
	defer e.searching.Store(false)

	if !e.index.IsLoaded() {
		return FillResult{}, ErrIndexNotLoaded
	}
	if !e.IsValidPattern() {
		return FillResult{}, ErrInvalidPattern
	}
	e.refresh()
	if class := e.classify(e.clues.slots, 1); class != Solvable {
		return FillResult{}, fmt.Errorf("%w: %s", ErrNotSolvable, class)
	}

	runID := uuid.Must(uuid.NewV7()).String()
	logger := slog.With("run", runID)
	logger.Info("autofill starting",
		"seconds_limit", params.SecondsLimit,
		"score_min", params.ScoreMin,
		"entropy", params.Entropy)

	e.stop.Store(false)
	e.done.Store(false)
	e.deadline.Store(false)

	watchdogDone := make(chan struct{})
	go e.watchdog(time.Duration(params.SecondsLimit)*time.Second, watchdogDone)
	defer func() {
		e.done.Store(true)
		close(watchdogDone)
	}()

	// Lock every filled cell so the search cannot overwrite the
	// constructor's entries; remember which ones we locked so they can
	// be released on the way out.
	var preambleLocked []grid.Coord
	for r := 0; r < e.grid.Height(); r++ {
		for c := 0; c < e.grid.Width(); c++ {
			coord := grid.Coord{Row: r, Col: c}
			if e.grid.IsFilled(coord) {
				if !e.grid.IsLocked(coord) {
					preambleLocked = append(preambleLocked, coord)
				}
				e.LockCell(coord, true)
			}
		}
	}
	defer func() {
		for _, coord := range preambleLocked {
			e.LockCell(coord, false)
		}
	}()

	scoreMin := params.ScoreMin
	entropy := params.Entropy
	initialDepth := e.log.size()

	start := time.Now()
	found := false
	completeSearch := true
	nodes := 0
	iterations := 0

	for !found && !e.stop.Load() && scoreMin > 0 {
		iterations++
		logger.Info("search iteration", "score_min", scoreMin, "entropy", entropy)

		// The solvability memo ignores the score minimum, so it must
		// not survive into an iteration with a different one.
		e.index.FlushCaches()

		stack := []dfsNode{{action: &groupAction{}, depth: initialDepth + 1}}
		completeSearch = true

		for len(stack) > 0 {
			if e.stop.Load() {
				completeSearch = false
				break
			}

			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			// Replay the log to the node's parent state, then apply.
			for e.log.size() > node.depth-1 {
				e.Undo()
			}
			e.applyAction(node.action)
			nodes++

			if e.classify(e.clues.slots, scoreMin) != Solvable {
				continue
			}
			if e.isSolved(e.clues.slots) {
				logger.Info("solution found", "nodes", nodes)
				found = true
				break
			}

			candidates := e.wordFills(entropy, params.BranchingFactorLimit)
			// Reverse so the best candidate ends up on top.
			for i := len(candidates) - 1; i >= 0; i-- {
				stack = append(stack, dfsNode{action: candidates[i], depth: node.depth + 1})
			}
		}

		if !found {
			if completeSearch {
				logger.Info("iteration exhausted, relaxing constraints")
			}
			if params.Rollback {
				for e.log.size() > initialDepth {
					e.Undo()
				}
			}
		}

		scoreMin = int(float64(scoreMin) * params.ScoreMinDecay)
		entropy = int(float64(entropy) * params.EntropyDecay)
	}

	elapsed := time.Since(start)
	if nodes > 2 && elapsed > 0 {
		logger.Info("search finished",
			"nodes", nodes,
			"nodes_per_sec", int(float64(nodes)/elapsed.Seconds()))
	}

	result := FillResult{Nodes: nodes, Iterations: iterations, Elapsed: elapsed}
	switch {
	case found:
		result.Outcome = OutcomeSolved
	case e.deadline.Load():
		result.Outcome = OutcomeDeadline
	case e.stop.Load():
		result.Outcome = OutcomeCancelled
	default:
		result.Outcome = OutcomeExhausted
	}
	logger.Info("autofill done", "outcome", result.Outcome, "elapsed", elapsed)
	return result, nil
}

// StopAutofill requests cancellation of an in-flight search. Safe to
// call at any time, from any goroutine, repeatedly.
func (e *Engine) StopAutofill() {
	e.stop.Store(true)
}

// IsSearching reports whether an autofill run is in flight.
func (e *Engine) IsSearching() bool {
	return e.searching.Load()
}

// watchdog sets the stop flag when the wall-clock budget expires,
// unless the search finishes first.
func (e *Engine) watchdog(budget time.Duration, done <-chan struct{}) {
	select {
	case <-time.After(budget):
		if !e.done.Load() {
			e.deadline.Store(true)
			e.stop.Store(true)
		}
	case <-done:
	}
}

// wordFills generates the candidate actions for the next expansion:
// every dictionary word fitting the first unfilled slot in
// upper-left-first order, entropy-shuffled and capped.
//
// Expanding exactly one slot per node keeps every fill reachable
// while holding the branching factor to the candidate list length.
func (e *Engine) wordFills(entropy, limit int) []Action {
	e.refresh()
	slots := e.clues.slots

	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := &slots[order[i]], &slots[order[j]]
		da := a.Start.Row + a.Start.Col
		db := b.Start.Row + b.Start.Col
		if da != db {
			return da < db
		}
		if a.Start.Row != b.Start.Row {
			return a.Start.Row < b.Start.Row
		}
		return a.Direction == Across && b.Direction == Down
	})

	for _, i := range order {
		slot := &slots[i]
		if slot.IsFilled() {
			continue
		}

		sols := e.index.Solutions(slot.Word())

		// Shuffle the leading entropy% of the list with a fresh PRNG
		// drawn from the engine's seed source.
		k := int(math.Min(1., float64(entropy)/100.) * float64(len(sols)))
		if k > 1 {
			rng := rand.New(rand.NewSource(e.nextSeed()))
			rng.Shuffle(k, func(a, b int) {
				sols[a], sols[b] = sols[b], sols[a]
			})
		}

		actions := make([]Action, 0, len(sols))
		for _, word := range sols {
			actions = append(actions, newFillGroup(e, slot, word))
			if limit != NoLimit && len(actions) >= limit {
				break
			}
		}
		// One slot per expansion: the first unfilled slot is the node's
		// entire branching surface.
		return actions
	}
	return nil
}
