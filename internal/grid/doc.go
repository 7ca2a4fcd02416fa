// Package grid holds the primitive value types of the crossword
// engine: the 27-symbol atom alphabet, words over that alphabet, and
// the dense cell grid with barrier, content, and lock state.
//
// The grid itself is deliberately dumb. It knows nothing about slots,
// numbering, or the undo log; those are derived and managed by the
// engine package. The one structural service it does provide is
// rotational pairing, since symmetric barrier placement is a property
// of the rectangle alone.
//
// Words are stored as strings of atom codes rather than letters so
// that they compare by value and can key maps directly.
package grid
