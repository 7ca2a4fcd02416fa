package engine

import "github.com/gridsmith/gridsmith/internal/grid"

// Solvability classifies a partial grid against the word index.
type Solvability int

const (
	// Solvable means every slot can still be completed.
	Solvable Solvability = iota
	// Overdetermined means some unfilled slot has no candidate left.
	Overdetermined
	// Invalid means some filled, unlocked slot is not a dictionary word.
	Invalid
	// Duplicate means the same word appears in two filled slots.
	Duplicate
	// Weak means some filled word scores below the minimum in effect.
	Weak
)

func (s Solvability) String() string {
	switch s {
	case Solvable:
		return "solvable"
	case Overdetermined:
		return "overdetermined"
	case Invalid:
		return "invalid"
	case Duplicate:
		return "duplicate"
	case Weak:
		return "weak"
	}
	return "unknown"
}

// classify is the reject test of the backtracking search: it decides
// whether the current partial state can still reach a solution whose
// words all score at or above scoreMin.
//
// Filled, locked slots are exempt from every check; they are the
// constructor's own entries and stand as given. The duplicate sweep
// runs after the per-slot checks, over filled slots only.
func (e *Engine) classify(slots []Slot, scoreMin int) Solvability {
	for i := range slots {
		s := &slots[i]
		if s.IsFilled() {
			if s.Locked {
				continue
			}
			word := s.Word()
			score, ok := e.index.FreqScore(word)
			if !ok {
				return Invalid
			}
			if score < scoreMin {
				return Weak
			}
			continue
		}
		if !e.index.HasSolution(s.Word(), scoreMin) {
			return Overdetermined
		}
	}

	seen := make(map[grid.Word]struct{}, len(slots))
	for i := range slots {
		s := &slots[i]
		if !s.IsFilled() {
			continue
		}
		word := s.Word()
		if _, dup := seen[word]; dup {
			return Duplicate
		}
		seen[word] = struct{}{}
	}

	return Solvable
}

// Classify runs the solvability oracle over the current slot set.
func (e *Engine) Classify(scoreMin int) Solvability {
	e.refresh()
	return e.classify(e.clues.slots, scoreMin)
}

// isSolved is the accept test: every slot filled with a dictionary
// word.
func (e *Engine) isSolved(slots []Slot) bool {
	for i := range slots {
		s := &slots[i]
		if !s.IsFilled() || !e.index.Contains(s.Word()) {
			return false
		}
	}
	return true
}

// IsSolved reports whether the puzzle is completely and validly
// filled.
func (e *Engine) IsSolved() bool {
	e.refresh()
	return e.isSolved(e.clues.slots)
}
