package engine

import "github.com/gridsmith/gridsmith/internal/grid"

// Hint text lives per start cell and direction, so it survives content
// edits and renumbering. Hints are not persisted by the puzzle
// serializer; that gap is documented rather than papered over.

// Hint returns the hint text for the slot starting at coord in the
// given direction.
func (e *Engine) Hint(coord grid.Coord, direction Direction) string {
	return e.hints[coord.Row][coord.Col][direction]
}

// SetHint stores hint text for the slot starting at coord in the
// given direction.
func (e *Engine) SetHint(coord grid.Coord, direction Direction, hint string) {
	e.hints[coord.Row][coord.Col][direction] = hint
}

// HintByNumber returns the hint for the numbered clue in the given
// direction, and whether such a clue exists.
func (e *Engine) HintByNumber(number int, direction Direction) (string, bool) {
	if slot := e.slotByNumber(number, direction); slot != nil {
		return e.Hint(slot.Start, direction), true
	}
	return "", false
}

// SetHintByNumber stores the hint for the numbered clue in the given
// direction. Returns false if no such clue exists.
func (e *Engine) SetHintByNumber(number int, direction Direction, hint string) bool {
	if slot := e.slotByNumber(number, direction); slot != nil {
		e.SetHint(slot.Start, direction, hint)
		return true
	}
	return false
}

// HintForSlot returns the hint for a slot snapshot, matching by cell
// coverage.
func (e *Engine) HintForSlot(slot *Slot) (string, bool) {
	e.refresh()
	for i := range e.clues.slots {
		if e.clues.slots[i].SameCoords(slot) {
			return e.Hint(slot.Start, slot.Direction), true
		}
	}
	return "", false
}

func (e *Engine) slotByNumber(number int, direction Direction) *Slot {
	e.refresh()
	for i := range e.clues.slots {
		s := &e.clues.slots[i]
		if s.Number == number && s.Direction == direction {
			return s
		}
	}
	return nil
}
