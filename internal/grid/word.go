package grid

import "strings"

// Word is an ordered sequence of atoms stored as a string of atom
// codes. Storing codes rather than letters keeps Word comparable (it
// is usable as a map key), makes equality the same as string equality,
// and makes the byte-wise ordering of equal-length words agree with
// atom-code ordering.
//
// A word containing one or more Empty atoms is partial; an Empty atom
// acts as a wildcard in index queries.
type Word string

// ParseWord builds a word from a human-readable string, one atom per
// byte. Letters a-z and A-Z map to their atom; every other byte
// (conventionally ' ' or '.') maps to Empty.
func ParseWord(s string) Word {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(byte(AtomOf(c)))
	}
	return Word(b.String())
}

// WordOf builds a word from individual atoms.
func WordOf(atoms ...Atom) Word {
	b := make([]byte, len(atoms))
	for i, a := range atoms {
		b[i] = byte(a)
	}
	return Word(b)
}

// Len returns the number of atoms in the word, counting empties.
func (w Word) Len() int {
	return len(w)
}

// At returns the atom at position i.
func (w Word) At(i int) Atom {
	return Atom(w[i])
}

// IsComplete reports whether the word contains no empty atoms.
func (w Word) IsComplete() bool {
	return strings.IndexByte(string(w), byte(Empty)) < 0
}

// Less orders words first by length, then by atom code.
func (w Word) Less(other Word) bool {
	if len(w) != len(other) {
		return len(w) < len(other)
	}
	return w < other
}

// Matches treats w as a pattern and reports whether it accepts other.
// Empty atoms in w match anything; non-empty atoms must agree. The
// words must be the same length.
func (w Word) Matches(other Word) bool {
	if len(w) != len(other) {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] != byte(Empty) && w[i] != other[i] {
			return false
		}
	}
	return true
}

// DistinctLetters returns the number of distinct non-empty atoms.
func (w Word) DistinctLetters() int {
	var seen [AtomCount]bool
	n := 0
	for i := 0; i < len(w); i++ {
		a := Atom(w[i])
		if a.IsEmpty() || seen[a] {
			continue
		}
		seen[a] = true
		n++
	}
	return n
}

// String renders the word with ' ' standing in for empty atoms.
func (w Word) String() string {
	var b strings.Builder
	b.Grow(len(w))
	for i := 0; i < len(w); i++ {
		a := Atom(w[i])
		if a.IsEmpty() {
			b.WriteByte(' ')
		} else {
			b.WriteByte(byte('A' + a - 1))
		}
	}
	return b.String()
}
