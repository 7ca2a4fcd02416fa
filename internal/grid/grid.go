package grid

import (
	"fmt"
	"strings"
)

// MaxDim is the maximum width or height of a puzzle grid.
const MaxDim = 35

// Default dimensions for a freshly constructed grid.
const (
	StartHeight = 5
	StartWidth  = 5
)

// Coord addresses a cell as (row, col). The upper-left cell is (0, 0).
type Coord struct {
	Row int
	Col int
}

// String returns the debug form "(r, c)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Cell is one square of the grid. A barrier cell holds no contents;
// reading or writing the contents of a barrier is a programmer error
// and panics.
type Cell struct {
	barrier  bool
	locked   bool
	contents Atom
}

// IsBarrier reports whether the cell is blacked out.
func (c Cell) IsBarrier() bool {
	return c.barrier
}

// IsLocked reports whether the cell is locked against search edits.
func (c Cell) IsLocked() bool {
	return c.locked
}

// Contents returns the cell's atom. Panics on a barrier cell.
func (c Cell) Contents() Atom {
	if c.barrier {
		panic("grid: contents of barrier cell")
	}
	return c.contents
}

// Grid is a dense H×W array of cells. The backing array is always
// MaxDim×MaxDim; only the height×width prefix is live. Cells outside
// the live rectangle keep their previous values but are unreachable
// through the bounds-checked accessors.
type Grid struct {
	cells  [MaxDim][MaxDim]Cell
	height int
	width  int
}

// New returns an empty grid at the default dimensions.
func New() *Grid {
	return &Grid{height: StartHeight, width: StartWidth}
}

// NewSized returns an empty grid of the given dimensions.
func NewSized(height, width int) (*Grid, error) {
	g := New()
	if err := g.SetDimensions(height, width); err != nil {
		return nil, err
	}
	return g, nil
}

// Height returns the live height of the grid.
func (g *Grid) Height() int { return g.height }

// Width returns the live width of the grid.
func (g *Grid) Width() int { return g.width }

// InBounds reports whether the coordinate lies in the live rectangle.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.height && c.Col >= 0 && c.Col < g.width
}

func (g *Grid) mustInBounds(c Coord) {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("grid: coordinate %v out of bounds for %dx%d grid", c, g.height, g.width))
	}
}

// Get returns a copy of the cell at c. Panics if out of bounds.
func (g *Grid) Get(c Coord) Cell {
	g.mustInBounds(c)
	return g.cells[c.Row][c.Col]
}

// SetContents assigns the contents of an open cell. Panics if c is out
// of bounds or a barrier. Does not touch the action log; callers that
// want undo go through the engine.
func (g *Grid) SetContents(c Coord, a Atom) {
	g.mustInBounds(c)
	if g.cells[c.Row][c.Col].barrier {
		panic(fmt.Sprintf("grid: set contents of barrier cell %v", c))
	}
	g.cells[c.Row][c.Col].contents = a
}

// SetBarrier sets the barrier bit at c to val and, when symmetry is
// requested, at the rotational pair of c as well (unless c is its own
// pair).
func (g *Grid) SetBarrier(c Coord, val bool, enforceSymmetry bool) {
	g.mustInBounds(c)
	g.cells[c.Row][c.Col].barrier = val
	if enforceSymmetry {
		if pair := g.RotationalPair(c); pair != c {
			g.cells[pair.Row][pair.Col].barrier = val
		}
	}
}

// Lock sets the lock flag on the cell at c.
func (g *Grid) Lock(c Coord, val bool) {
	g.mustInBounds(c)
	g.cells[c.Row][c.Col].locked = val
}

// IsLocked reports whether the cell at c is locked.
func (g *Grid) IsLocked(c Coord) bool {
	g.mustInBounds(c)
	return g.cells[c.Row][c.Col].locked
}

// IsFilled reports whether the cell at c is an open cell holding a
// letter.
func (g *Grid) IsFilled(c Coord) bool {
	cell := g.Get(c)
	return !cell.IsBarrier() && !cell.contents.IsEmpty()
}

// RotationalPair returns the 180-degree rotational partner of c.
func (g *Grid) RotationalPair(c Coord) Coord {
	return Coord{Row: g.height - 1 - c.Row, Col: g.width - 1 - c.Col}
}

// SetDimensions resizes the live rectangle. Both dimensions must lie
// in [3, MaxDim].
func (g *Grid) SetDimensions(height, width int) error {
	if height < 3 || height > MaxDim || width < 3 || width > MaxDim {
		return fmt.Errorf("grid: dimensions %dx%d outside [3, %d]", height, width, MaxDim)
	}
	g.height = height
	g.width = width
	return nil
}

// Render writes out the live rectangle row by row, one cell per "|"
// separated column, with "=" for barriers and " " for blanks.
func (g *Grid) Render() string {
	var b strings.Builder
	for r := 0; r < g.height; r++ {
		b.WriteByte('|')
		for c := 0; c < g.width; c++ {
			cell := g.cells[r][c]
			switch {
			case cell.barrier:
				b.WriteByte('=')
			case cell.contents.IsEmpty():
				b.WriteByte(' ')
			default:
				b.WriteString(cell.contents.String())
			}
			b.WriteByte('|')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
