// Package engine implements the crossword construction engine: the
// undoable edit log, the derived slot structure, the solvability
// oracle, and the depth-first autofill search, aggregated behind the
// Engine façade.
//
// # Single-writer model
//
// At most one mutating task (an edit or a running search) may operate
// on an Engine at a time; embedders serialize edits against an
// in-flight search or cancel it first. During a search three tasks
// run concurrently:
//
//   - the search itself, which mutates the grid, the log, and the
//     slot structure
//   - a deadline watchdog, which only writes the stop flag
//   - any UI refresh, which only reads
//
// The stop and done flags are the only cross-task shared mutable
// state and are atomic.
//
// # Edit history
//
// Every content edit flows through the action log, whose order is the
// serial history of the grid. Undo and redo move the head index and
// replay inverses or originals; they never reorder. Barrier,
// dimension, and lock edits deliberately stay outside the log.
//
// # Derived slots
//
// Slots, numbering, and the per-cell lookup tables are derived from
// the grid and rebuilt lazily: barrier or dimension changes mark the
// structure dirty, and the next read rebuilds it. Content edits do
// not dirty the structure - they patch the mirrored constraint atoms
// of the slots covering the edited cell in place.
package engine
