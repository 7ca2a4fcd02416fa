package engine

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gridsmith/gridsmith/internal/grid"
	"github.com/gridsmith/gridsmith/internal/index"
)

// Engine is the crossword construction façade. It owns the grid, the
// action log, the derived slot structure, per-slot hint text, and a
// reference to the word index; the grid, log, slot structure, and
// hints share the engine's lifetime.
//
// Mutating methods must not be called concurrently with each other or
// with a running Autofill; see the package comment for the
// single-writer model.
type Engine struct {
	grid  *grid.Grid
	log   actionLog
	clues clueStructure
	index *index.Index

	// hints stores clue text per start cell and direction. Hints are
	// not written by the puzzle serializer (known gap).
	hints [grid.MaxDim][grid.MaxDim][2]string

	// stop and done are the only state shared with the watchdog and
	// observers during a search.
	stop      atomic.Bool
	done      atomic.Bool
	searching atomic.Bool
	deadline  atomic.Bool

	seedMu sync.Mutex
	seeds  *rand.Rand
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithSeed fixes the process-wide entropy source that seeds each
// candidate shuffle, making searches reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seeds = rand.New(rand.NewSource(seed))
	}
}

// New creates an engine over an empty default-sized grid backed by
// the given word index.
func New(idx *index.Index, opts ...Option) *Engine {
	e := &Engine{
		grid:  grid.New(),
		index: idx,
		seeds: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	e.clues.dirty = true
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// nextSeed draws one shuffle seed from the process-wide source.
func (e *Engine) nextSeed() int64 {
	e.seedMu.Lock()
	defer e.seedMu.Unlock()
	return e.seeds.Int63()
}

// Index returns the word index backing this engine.
func (e *Engine) Index() *index.Index {
	return e.index
}

// refresh rebuilds the slot structure if a barrier or dimension edit
// dirtied it. Every slot-structure read funnels through here.
func (e *Engine) refresh() {
	if e.clues.dirty {
		e.clues.rebuild(e.grid)
	}
}

// setRaw assigns a cell and patches the mirrored constraints of the
// slots covering it. It never touches the log; actions call this.
func (e *Engine) setRaw(coord grid.Coord, val grid.Atom) {
	e.grid.SetContents(coord, val)
	e.clues.patchCell(e.grid, coord, val)
}

// applyAction executes the action and pushes it onto the log,
// discarding any redo tail.
func (e *Engine) applyAction(a Action) {
	a.apply(e)
	e.log.push(a)
}

// Set assigns one open cell through the log.
func (e *Engine) Set(coord grid.Coord, val grid.Atom) {
	e.applyAction(&setCellAction{coord: coord, newVal: val, oldVal: e.grid.Get(coord).Contents()})
}

// SetSlot writes word into the slot as a single undoable group,
// touching only the currently blank positions. The word must fit the
// slot's constraints.
func (e *Engine) SetSlot(slot *Slot, word grid.Word) {
	e.applyAction(newFillGroup(e, slot, word))
}

// ClearSlot blanks every cell of the slot as a single undoable group.
func (e *Engine) ClearSlot(slot *Slot) {
	group := &groupAction{}
	for _, coord := range slot.Coords {
		group.add(&setCellAction{coord: coord, newVal: grid.Empty, oldVal: e.grid.Get(coord).Contents()})
	}
	e.applyAction(group)
}

// ClearAll blanks every open cell as a single undoable group,
// leaving barriers and locks alone.
func (e *Engine) ClearAll() {
	group := &groupAction{}
	for r := 0; r < e.grid.Height(); r++ {
		for c := 0; c < e.grid.Width(); c++ {
			coord := grid.Coord{Row: r, Col: c}
			if !e.grid.Get(coord).IsBarrier() {
				group.add(&setCellAction{coord: coord, newVal: grid.Empty, oldVal: e.grid.Get(coord).Contents()})
			}
		}
	}
	e.applyAction(group)
}

// Undo reverts the most recent applied action. Returns false when the
// history is empty.
func (e *Engine) Undo() bool {
	if e.log.index == 0 {
		return false
	}
	e.log.index--
	e.log.stack[e.log.index].invert(e)
	return true
}

// Redo re-applies the next action past the head. Returns false when
// there is nothing to redo.
func (e *Engine) Redo() bool {
	if e.log.index == len(e.log.stack) {
		return false
	}
	e.log.stack[e.log.index].apply(e)
	e.log.index++
	return true
}

// HistorySize returns the number of applied actions.
func (e *Engine) HistorySize() int {
	return e.log.size()
}

// SetBarrier sets the barrier bit at coord (and, with symmetry, at
// its rotational pair). Barrier edits bypass the log and dirty the
// slot structure.
func (e *Engine) SetBarrier(coord grid.Coord, val bool, enforceSymmetry bool) {
	e.grid.SetBarrier(coord, val, enforceSymmetry)
	e.clues.dirty = true
}

// ToggleBarrier flips the barrier bit at coord.
func (e *Engine) ToggleBarrier(coord grid.Coord, enforceSymmetry bool) {
	e.SetBarrier(coord, !e.grid.Get(coord).IsBarrier(), enforceSymmetry)
}

// SetDimensions resizes the grid. Dimension edits bypass the log and
// dirty the slot structure.
func (e *Engine) SetDimensions(height, width int) error {
	if err := e.grid.SetDimensions(height, width); err != nil {
		return err
	}
	e.clues.dirty = true
	return nil
}

// LockCell sets the lock flag of one cell. Lock edits bypass the log.
func (e *Engine) LockCell(coord grid.Coord, val bool) {
	e.grid.Lock(coord, val)
	e.clues.patchLock(e.grid, coord)
}

// ToggleLock flips the lock flag of one cell.
func (e *Engine) ToggleLock(coord grid.Coord) {
	e.LockCell(coord, !e.grid.IsLocked(coord))
}

// Get returns a copy of the cell at coord.
func (e *Engine) Get(coord grid.Coord) grid.Cell {
	return e.grid.Get(coord)
}

// InBounds reports whether coord lies inside the live grid.
func (e *Engine) InBounds(coord grid.Coord) bool {
	return e.grid.InBounds(coord)
}

// IsFilled reports whether the cell at coord holds a letter.
func (e *Engine) IsFilled(coord grid.Coord) bool {
	return e.grid.IsFilled(coord)
}

// IsLocked reports whether the cell at coord is locked.
func (e *Engine) IsLocked(coord grid.Coord) bool {
	return e.grid.IsLocked(coord)
}

// Height returns the live grid height.
func (e *Engine) Height() int { return e.grid.Height() }

// Width returns the live grid width.
func (e *Engine) Width() int { return e.grid.Width() }

// IsValidPattern reports whether no run of open cells has length
// exactly two. Length-one runs are tolerated; they simply belong to
// no slot.
func (e *Engine) IsValidPattern() bool {
	for _, direction := range []Direction{Across, Down} {
		for _, r := range scanRuns(e.grid, direction) {
			if len(r.coords) == 2 {
				return false
			}
		}
	}
	return true
}

// Slots returns a snapshot of every slot, across group first.
func (e *Engine) Slots() []Slot {
	e.refresh()
	out := make([]Slot, len(e.clues.slots))
	for i := range e.clues.slots {
		out[i] = e.clues.slots[i].clone()
	}
	return out
}

// SlotsStartingAt returns snapshots of the slots beginning at coord:
// zero, one, or two entries (at most one per direction).
func (e *Engine) SlotsStartingAt(coord grid.Coord) []Slot {
	e.refresh()
	var out []Slot
	for _, i := range e.clues.startsAt[coord.Row][coord.Col] {
		out = append(out, e.clues.slots[i].clone())
	}
	return out
}

// ClueNumber returns the number of the clue(s) starting at coord, or
// NoNumber if coord starts no slot.
func (e *Engine) ClueNumber(coord grid.Coord) int {
	e.refresh()
	return e.clues.numbers[coord.Row][coord.Col]
}

// Render returns the debug rendering of the grid.
func (e *Engine) Render() string {
	return e.grid.Render()
}

// AddEntry inserts a word into the index with a raw frequency score;
// the letter score is derived at insertion. Scores stay raw until the
// index is finalized.
func (e *Engine) AddEntry(w grid.Word, freqScore int) {
	e.index.AddEntry(w, freqScore)
}

// Contains reports whether the word is in the index.
func (e *Engine) Contains(w grid.Word) bool {
	return e.index.Contains(w)
}

// FreqScore returns the frequency score of an indexed word.
func (e *Engine) FreqScore(w grid.Word) (int, bool) {
	return e.index.FreqScore(w)
}

// GetSolutions returns every indexed word fitting the slot's current
// constraints, in trie order. Ranking is the caller's business: sort
// by FreqScore when presenting choices. Weak words are not filtered
// here; the oracle prunes them during search.
func (e *Engine) GetSolutions(slot *Slot) []grid.Word {
	return e.index.Solutions(slot.Word())
}

// HasSolution reports whether the slot can be completed by a word at
// or above scoreMin.
func (e *Engine) HasSolution(slot *Slot, scoreMin int) bool {
	return e.index.HasSolution(slot.Word(), scoreMin)
}

// LoadDictionary loads the word list synchronously.
func (e *Engine) LoadDictionary(path string) error {
	return e.index.LoadFromFile(path)
}

// LoadDictionaryDeferred loads the word list on its own goroutine.
func (e *Engine) LoadDictionaryDeferred(path string) {
	e.index.LoadDeferred(path)
}

// WaitForLoad blocks until any in-flight dictionary load finishes.
func (e *Engine) WaitForLoad() {
	e.index.WaitForLoad()
}

// IsLoaded reports whether the dictionary is loaded.
func (e *Engine) IsLoaded() bool {
	return e.index.IsLoaded()
}

// FlushCaches clears the index's solvability memos.
func (e *Engine) FlushCaches() {
	e.index.FlushCaches()
}
