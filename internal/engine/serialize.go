package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// Puzzle file cell tokens.
const (
	tokenBarrier = "-"
	tokenBlank   = " "
	tokenDelim   = ","
)

// Serialize renders the puzzle in its line-oriented text form:
// width, height, then one line per row with every cell followed by a
// comma. Hints are not serialized (known gap).
func (e *Engine) Serialize() []string {
	lines := make([]string, 0, e.grid.Height()+2)
	lines = append(lines, strconv.Itoa(e.grid.Width()))
	lines = append(lines, strconv.Itoa(e.grid.Height()))
	for r := 0; r < e.grid.Height(); r++ {
		var b strings.Builder
		for c := 0; c < e.grid.Width(); c++ {
			cell := e.grid.Get(grid.Coord{Row: r, Col: c})
			switch {
			case cell.IsBarrier():
				b.WriteString(tokenBarrier)
			case cell.Contents().IsEmpty():
				b.WriteString(tokenBlank)
			default:
				b.WriteString(cell.Contents().String())
			}
			b.WriteString(tokenDelim)
		}
		lines = append(lines, b.String())
	}
	return lines
}

// SaveFile writes the serialized puzzle to path.
func (e *Engine) SaveFile(path string) error {
	data := strings.Join(e.Serialize(), "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("engine: write puzzle: %w", err)
	}
	return nil
}

// parsedPuzzle is a fully validated puzzle file, ready to apply.
type parsedPuzzle struct {
	width, height int
	cells         [][]byte // '-', ' ', or 'A'..'Z'
}

func parsePuzzle(lines []string) (*parsedPuzzle, error) {
	if len(lines) < 2 {
		return nil, fmt.Errorf("engine: puzzle file needs width and height lines, got %d lines", len(lines))
	}
	width, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, fmt.Errorf("engine: bad width line %q: %w", lines[0], err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return nil, fmt.Errorf("engine: bad height line %q: %w", lines[1], err)
	}
	if height < 3 || height > grid.MaxDim || width < 3 || width > grid.MaxDim {
		return nil, fmt.Errorf("engine: puzzle dimensions %dx%d outside [3, %d]", height, width, grid.MaxDim)
	}
	if len(lines) < 2+height {
		return nil, fmt.Errorf("engine: puzzle file has %d rows, want %d", len(lines)-2, height)
	}

	p := &parsedPuzzle{width: width, height: height}
	for r := 0; r < height; r++ {
		line := lines[2+r]
		tokens := strings.Split(line, tokenDelim)
		if len(tokens) > 0 && tokens[len(tokens)-1] == "" {
			tokens = tokens[:len(tokens)-1] // trailing delimiter
		}
		if len(tokens) != width {
			return nil, fmt.Errorf("engine: row %d has %d cells, want %d", r, len(tokens), width)
		}
		row := make([]byte, width)
		for c, tok := range tokens {
			switch {
			case tok == tokenBarrier:
				row[c] = '-'
			case tok == tokenBlank || tok == "":
				row[c] = ' '
			case len(tok) == 1 && tok[0] >= 'A' && tok[0] <= 'Z':
				row[c] = tok[0]
			default:
				return nil, fmt.Errorf("engine: row %d cell %d: bad token %q", r, c, tok)
			}
		}
		p.cells = append(p.cells, row)
	}
	return p, nil
}

// Deserialize replaces the puzzle state with the one described by
// lines. The file is validated up front; on error the engine is left
// untouched. Content writes flow through the action log, so a load is
// undoable cell by cell like any other edit.
func (e *Engine) Deserialize(lines []string) error {
	p, err := parsePuzzle(lines)
	if err != nil {
		return err
	}

	for r := 0; r < e.grid.Height(); r++ {
		for c := 0; c < e.grid.Width(); c++ {
			e.SetBarrier(grid.Coord{Row: r, Col: c}, false, false)
		}
	}
	e.ClearAll()
	if err := e.SetDimensions(p.height, p.width); err != nil {
		return err
	}

	for r := 0; r < p.height; r++ {
		for c := 0; c < p.width; c++ {
			coord := grid.Coord{Row: r, Col: c}
			switch tok := p.cells[r][c]; tok {
			case '-':
				e.SetBarrier(coord, true, false)
			case ' ':
			default:
				e.Set(coord, grid.AtomOf(tok))
			}
		}
	}
	return nil
}

// LoadFile reads and applies a puzzle file.
func (e *Engine) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("engine: read puzzle: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return e.Deserialize(strings.Split(text, "\n"))
}
