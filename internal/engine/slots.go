package engine

import (
	"fmt"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// Direction distinguishes across from down slots.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "across"
}

// NoNumber is the clue number of a cell that starts no slot.
const NoNumber = 0

// minSlotLen is the shortest run of open cells that forms a slot.
// Runs of exactly two cells make the barrier pattern invalid; single
// open cells belong to no slot.
const minSlotLen = 3

// Slot is a maximal run of at least three open cells in one
// direction. The constraint slice mirrors the current contents of the
// slot's cells and is patched in place on every content edit.
type Slot struct {
	Direction Direction
	Start     grid.Coord
	Length    int
	Coords    []grid.Coord
	Number    int
	Locked    bool

	constraints []grid.Atom
}

// Word returns the slot's current constraints as a word of the same
// length; empty atoms mark unfilled positions.
func (s *Slot) Word() grid.Word {
	return grid.WordOf(s.constraints...)
}

// ConstraintAt returns the mirrored atom at position i.
func (s *Slot) ConstraintAt(i int) grid.Atom {
	return s.constraints[i]
}

// IsFilled reports whether every position holds a letter.
func (s *Slot) IsFilled() bool {
	if s.Length == 0 {
		return false
	}
	for _, a := range s.constraints {
		if a.IsEmpty() {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no position holds a letter.
func (s *Slot) IsEmpty() bool {
	return s.OpenSpots() == s.Length
}

// OpenSpots returns the number of unfilled positions.
func (s *Slot) OpenSpots() int {
	n := 0
	for _, a := range s.constraints {
		if a.IsEmpty() {
			n++
		}
	}
	return n
}

// Fits reports whether word agrees with every filled position.
func (s *Slot) Fits(word grid.Word) bool {
	return s.Word().Matches(word)
}

// SameCoords reports whether two slots cover identical cells. Slot
// values handed out by the façade are snapshots, so this is the
// meaningful identity test across refreshes.
func (s *Slot) SameCoords(other *Slot) bool {
	if s.Length != other.Length {
		return false
	}
	for i := range s.Coords {
		if s.Coords[i] != other.Coords[i] {
			return false
		}
	}
	return true
}

// String returns a debug form like `Slot{3-across (0, 2) len=4 "CA  "}`.
func (s *Slot) String() string {
	return fmt.Sprintf("Slot{%d-%s %v len=%d %q}", s.Number, s.Direction, s.Start, s.Length, s.Word().String())
}

// clone returns an independent snapshot safe to hand to callers.
func (s *Slot) clone() Slot {
	out := *s
	out.Coords = append([]grid.Coord(nil), s.Coords...)
	out.constraints = append([]grid.Atom(nil), s.constraints...)
	return out
}

// slotRef locates one cell of one slot: the slot's index in the slot
// slice and the cell's position within it.
type slotRef struct {
	slot int
	pos  int
}

// clueStructure is the derived view of the grid: the slot list
// (across group first, then down), clue numbering, and the per-cell
// lookup tables. It is rebuilt lazily whenever dirty.
type clueStructure struct {
	slots    []Slot
	numbers  [grid.MaxDim][grid.MaxDim]int
	startsAt [grid.MaxDim][grid.MaxDim][]int
	covering [grid.MaxDim][grid.MaxDim][]slotRef
	dirty    bool
}

// run is a maximal horizontal or vertical stretch of open cells, of
// any length. Pattern validity is judged on runs before the length
// filter drops the short ones.
type run struct {
	direction   Direction
	start       grid.Coord
	coords      []grid.Coord
	constraints []grid.Atom
}

// scanRuns walks every row (Across) or column (Down) and emits each
// maximal run of open cells, in scan order.
func scanRuns(g *grid.Grid, direction Direction) []run {
	var runs []run
	outer, inner := g.Height(), g.Width()
	if direction == Down {
		outer, inner = g.Width(), g.Height()
	}
	for i := 0; i < outer; i++ {
		var current *run
		for k := 0; k <= inner; k++ {
			coord := grid.Coord{Row: i, Col: k}
			if direction == Down {
				coord = grid.Coord{Row: k, Col: i}
			}
			if k == inner || g.Get(coord).IsBarrier() {
				if current != nil {
					runs = append(runs, *current)
					current = nil
				}
				continue
			}
			if current == nil {
				current = &run{direction: direction, start: coord}
			}
			current.coords = append(current.coords, coord)
			current.constraints = append(current.constraints, g.Get(coord).Contents())
		}
	}
	return runs
}

// rebuild recomputes the slot list and lookup tables from the grid.
func (cs *clueStructure) rebuild(g *grid.Grid) {
	cs.slots = cs.slots[:0]
	for r := 0; r < grid.MaxDim; r++ {
		for c := 0; c < grid.MaxDim; c++ {
			cs.numbers[r][c] = NoNumber
			cs.startsAt[r][c] = nil
			cs.covering[r][c] = nil
		}
	}

	for _, direction := range []Direction{Across, Down} {
		for _, r := range scanRuns(g, direction) {
			if len(r.coords) < minSlotLen {
				continue
			}
			cs.slots = append(cs.slots, Slot{
				Direction:   r.direction,
				Start:       r.start,
				Length:      len(r.coords),
				Coords:      r.coords,
				constraints: r.constraints,
			})
		}
	}

	for i := range cs.slots {
		s := &cs.slots[i]
		cs.startsAt[s.Start.Row][s.Start.Col] = append(cs.startsAt[s.Start.Row][s.Start.Col], i)
		for pos, coord := range s.Coords {
			cs.covering[coord.Row][coord.Col] = append(cs.covering[coord.Row][coord.Col], slotRef{slot: i, pos: pos})
		}
		cs.refreshLocked(g, s)
	}

	number := 1
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			starts := cs.startsAt[r][c]
			if len(starts) == 0 {
				continue
			}
			for _, i := range starts {
				cs.slots[i].Number = number
			}
			cs.numbers[r][c] = number
			number++
		}
	}

	cs.dirty = false
}

// refreshLocked recomputes one slot's locked flag: locked iff every
// cell is locked and holds a letter.
func (cs *clueStructure) refreshLocked(g *grid.Grid, s *Slot) {
	locked := true
	for _, coord := range s.Coords {
		if !g.IsLocked(coord) || g.Get(coord).Contents().IsEmpty() {
			locked = false
			break
		}
	}
	s.Locked = locked
}

// patchCell updates the mirrored constraint atom of every slot
// covering coord after a content edit, along with those slots' locked
// flags. No-op while dirty; the next rebuild reads the grid directly.
func (cs *clueStructure) patchCell(g *grid.Grid, coord grid.Coord, val grid.Atom) {
	if cs.dirty {
		return
	}
	for _, ref := range cs.covering[coord.Row][coord.Col] {
		s := &cs.slots[ref.slot]
		s.constraints[ref.pos] = val
		cs.refreshLocked(g, s)
	}
}

// patchLock re-derives the locked flag of every slot covering coord
// after a lock edit.
func (cs *clueStructure) patchLock(g *grid.Grid, coord grid.Coord) {
	if cs.dirty {
		return
	}
	for _, ref := range cs.covering[coord.Row][coord.Col] {
		cs.refreshLocked(g, &cs.slots[ref.slot])
	}
}
