package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsmith/gridsmith/internal/grid"
)

func TestSlots_EmptyGrid(t *testing.T) {
	e := newTestEngine(t, nil)
	slots := e.Slots()
	// 5 across + 5 down, across group first.
	require.Len(t, slots, 10)
	for i := 0; i < 5; i++ {
		assert.Equal(t, Across, slots[i].Direction)
		assert.Equal(t, grid.Coord{Row: i, Col: 0}, slots[i].Start)
		assert.Equal(t, 5, slots[i].Length)
	}
	for i := 5; i < 10; i++ {
		assert.Equal(t, Down, slots[i].Direction)
		assert.Equal(t, grid.Coord{Row: 0, Col: i - 5}, slots[i].Start)
	}
}

func TestSlots_BarriersSplitRuns(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.SetDimensions(3, 7))
	// Row 0: xxx-xxx -> two across slots of length 3.
	e.SetBarrier(grid.Coord{Row: 0, Col: 3}, true, false)

	var across []Slot
	for _, s := range e.Slots() {
		if s.Direction == Across && s.Start.Row == 0 {
			across = append(across, s)
		}
	}
	require.Len(t, across, 2)
	assert.Equal(t, grid.Coord{Row: 0, Col: 0}, across[0].Start)
	assert.Equal(t, 3, across[0].Length)
	assert.Equal(t, grid.Coord{Row: 0, Col: 4}, across[1].Start)
	assert.Equal(t, 3, across[1].Length)
}

func TestSlots_ShortRunsIgnored(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.SetDimensions(3, 5))
	// Row 1: x-x-x -> three runs of 1, no slots, pattern still valid.
	e.SetBarrier(grid.Coord{Row: 1, Col: 1}, true, false)
	e.SetBarrier(grid.Coord{Row: 1, Col: 3}, true, false)

	for _, s := range e.Slots() {
		if s.Direction == Across {
			assert.NotEqual(t, 1, s.Start.Row, "row 1 must produce no across slot")
		}
	}
	assert.True(t, e.IsValidPattern())
}

func TestIsValidPattern_LengthTwoRun(t *testing.T) {
	e := newTestEngine(t, nil)
	// Row 0: xx-xx -> two runs of exactly 2.
	e.SetBarrier(grid.Coord{Row: 0, Col: 2}, true, false)
	assert.False(t, e.IsValidPattern())

	e.SetBarrier(grid.Coord{Row: 0, Col: 2}, false, false)
	assert.True(t, e.IsValidPattern())
}

func TestIsValidPattern_AllBarriers(t *testing.T) {
	e := newTestEngine(t, nil)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			e.SetBarrier(grid.Coord{Row: r, Col: c}, true, false)
		}
	}
	assert.Empty(t, e.Slots())
	assert.True(t, e.IsValidPattern())
}

func TestNumbering(t *testing.T) {
	e := newTestEngine(t, nil)
	// Empty 5x5: (0,0) starts across+down -> 1; (0,1)..(0,4) start
	// down only -> 2..5; (1,0)..(4,0) start across only -> 6..9.
	assert.Equal(t, 1, e.ClueNumber(grid.Coord{Row: 0, Col: 0}))
	assert.Equal(t, 2, e.ClueNumber(grid.Coord{Row: 0, Col: 1}))
	assert.Equal(t, 5, e.ClueNumber(grid.Coord{Row: 0, Col: 4}))
	assert.Equal(t, 6, e.ClueNumber(grid.Coord{Row: 1, Col: 0}))
	assert.Equal(t, 9, e.ClueNumber(grid.Coord{Row: 4, Col: 0}))
	assert.Equal(t, NoNumber, e.ClueNumber(grid.Coord{Row: 1, Col: 1}))

	// Shared start cell shares the number across directions.
	starts := e.SlotsStartingAt(grid.Coord{Row: 0, Col: 0})
	require.Len(t, starts, 2)
	assert.Equal(t, starts[0].Number, starts[1].Number)
	assert.Equal(t, 1, starts[0].Number)
}

func TestNumbering_MonotonicInScanOrder(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.SetDimensions(7, 7))
	e.SetBarrier(grid.Coord{Row: 0, Col: 3}, true, true)
	e.SetBarrier(grid.Coord{Row: 2, Col: 1}, true, true)

	last := 0
	for r := 0; r < e.Height(); r++ {
		for c := 0; c < e.Width(); c++ {
			n := e.ClueNumber(grid.Coord{Row: r, Col: c})
			if n == NoNumber {
				continue
			}
			assert.Greater(t, n, last, "numbering must increase in row-major order")
			last = n
		}
	}
}

func TestSlotCoverage(t *testing.T) {
	// Across slot cells are exactly the open cells lying
	// in a horizontal run of length >= 3.
	e := newTestEngine(t, nil)
	require.NoError(t, e.SetDimensions(5, 5))
	e.SetBarrier(grid.Coord{Row: 0, Col: 3}, true, false)
	e.SetBarrier(grid.Coord{Row: 2, Col: 2}, true, false)

	covered := map[grid.Coord]bool{}
	for _, s := range e.Slots() {
		if s.Direction != Across {
			continue
		}
		for _, c := range s.Coords {
			assert.False(t, covered[c], "across slots must not overlap")
			covered[c] = true
		}
	}

	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			coord := grid.Coord{Row: r, Col: c}
			if e.Get(coord).IsBarrier() {
				assert.False(t, covered[coord])
				continue
			}
			// Measure the horizontal run containing this cell.
			runLen := 0
			for cc := c; cc >= 0 && !e.Get(grid.Coord{Row: r, Col: cc}).IsBarrier(); cc-- {
				runLen++
			}
			for cc := c + 1; cc < 5 && !e.Get(grid.Coord{Row: r, Col: cc}).IsBarrier(); cc++ {
				runLen++
			}
			assert.Equal(t, runLen >= 3, covered[coord], "cell %v", coord)
		}
	}
}

func TestConstraintsMirrorEdits(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Set(grid.Coord{Row: 0, Col: 2}, grid.AtomOf('T'))

	for _, s := range e.Slots() {
		switch {
		case s.Direction == Across && s.Start.Row == 0:
			assert.Equal(t, "  T  ", s.Word().String())
		case s.Direction == Down && s.Start.Col == 2:
			assert.Equal(t, "T    ", s.Word().String())
		default:
			assert.True(t, s.IsEmpty())
		}
	}

	e.Undo()
	for _, s := range e.Slots() {
		assert.True(t, s.IsEmpty())
	}
}

func TestSlotLockedFlag(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.SetDimensions(3, 3))

	fill := "CAT"
	for c := 0; c < 3; c++ {
		e.Set(grid.Coord{Row: 0, Col: c}, grid.AtomOf(fill[c]))
	}
	row0 := func() Slot {
		for _, s := range e.Slots() {
			if s.Direction == Across && s.Start.Row == 0 {
				return s
			}
		}
		t.Fatal("row 0 slot missing")
		return Slot{}
	}

	assert.False(t, row0().Locked)
	for c := 0; c < 3; c++ {
		e.LockCell(grid.Coord{Row: 0, Col: c}, true)
	}
	assert.True(t, row0().Locked)

	// Locked requires non-empty everywhere: blank one cell.
	e.LockCell(grid.Coord{Row: 0, Col: 1}, false)
	assert.False(t, row0().Locked)
	e.LockCell(grid.Coord{Row: 0, Col: 1}, true)
	e.Set(grid.Coord{Row: 0, Col: 1}, grid.Empty)
	assert.False(t, row0().Locked)
}

func TestDirtyRebuildOnBarrierChange(t *testing.T) {
	e := newTestEngine(t, nil)
	require.Len(t, e.Slots(), 10)
	e.SetBarrier(grid.Coord{Row: 0, Col: 0}, true, true)
	// (0,0) and (4,4) became barriers: row 0, row 4, col 0, col 4
	// shrink to length 4; still 10 slots but new shapes.
	slots := e.Slots()
	require.Len(t, slots, 10)
	assert.Equal(t, grid.Coord{Row: 0, Col: 1}, slots[0].Start)
	assert.Equal(t, 4, slots[0].Length)
}
