package engine

import (
	"fmt"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// Action is one invertible edit of the grid. For every reachable grid
// state s, invert(apply(s)) = s must hold. The two variants are a
// single-cell assignment and an ordered group; nothing else dispatches
// through this interface.
type Action interface {
	apply(e *Engine)
	invert(e *Engine)
}

// setCellAction assigns one cell, remembering the value it replaced.
// The old value is captured at construction from the live grid.
type setCellAction struct {
	coord  grid.Coord
	newVal grid.Atom
	oldVal grid.Atom
}

func (a *setCellAction) apply(e *Engine)  { e.setRaw(a.coord, a.newVal) }
func (a *setCellAction) invert(e *Engine) { e.setRaw(a.coord, a.oldVal) }

// groupAction applies its members in order and inverts them in
// reverse. An empty group is a usable no-op.
type groupAction struct {
	actions []Action
}

func (g *groupAction) apply(e *Engine) {
	for _, a := range g.actions {
		a.apply(e)
	}
}

func (g *groupAction) invert(e *Engine) {
	for i := len(g.actions) - 1; i >= 0; i-- {
		g.actions[i].invert(e)
	}
}

func (g *groupAction) add(a Action) {
	g.actions = append(g.actions, a)
}

// newFillGroup builds the group that writes word into slot, skipping
// positions already holding a letter. The word must be the slot's
// length and must fit its current constraints; violating that is a
// caller bug.
func newFillGroup(e *Engine, slot *Slot, word grid.Word) *groupAction {
	if slot.Length != word.Len() {
		panic(fmt.Sprintf("engine: fill word %q has length %d, slot wants %d", word, word.Len(), slot.Length))
	}
	if !slot.Fits(word) {
		panic(fmt.Sprintf("engine: fill word %q does not fit slot constraints %q", word, slot.Word()))
	}
	group := &groupAction{actions: make([]Action, 0, slot.Length)}
	for i := 0; i < word.Len(); i++ {
		coord := slot.Coords[i]
		old := e.grid.Get(coord).Contents()
		if old.IsEmpty() {
			group.add(&setCellAction{coord: coord, newVal: word.At(i), oldVal: old})
		}
	}
	return group
}

// actionLog is a linear history with a redo tail. index points one
// past the last applied action; pushing below the top truncates the
// tail first.
type actionLog struct {
	stack []Action
	index int
}

func (l *actionLog) push(a Action) {
	if l.index < len(l.stack) {
		l.stack = l.stack[:l.index]
	}
	l.stack = append(l.stack, a)
	l.index++
}

// size returns the number of applied actions.
func (l *actionLog) size() int {
	return l.index
}
