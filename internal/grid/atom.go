package grid

// AtomCount is the number of distinct cell values: the empty value
// plus the 26 uppercase letters.
const AtomCount = 27

// Atom is a single cell value. The zero value is Empty; codes 1..26
// map to 'A'..'Z'. Atoms are ordered by code.
type Atom uint8

// Empty is the atom representing a blank cell.
const Empty Atom = 0

// AtomOf returns the atom for an uppercase letter byte 'A'..'Z'.
// Any other byte maps to Empty.
func AtomOf(b byte) Atom {
	if b < 'A' || b > 'Z' {
		return Empty
	}
	return Atom(b-'A') + 1
}

// Code returns the stable integer code of the atom, 0..26.
func (a Atom) Code() int {
	return int(a)
}

// IsEmpty reports whether the atom is the empty value.
func (a Atom) IsEmpty() bool {
	return a == Empty
}

// String renders the atom as "A".."Z", or "" for Empty.
func (a Atom) String() string {
	if a.IsEmpty() {
		return ""
	}
	return string(rune('A' + a - 1))
}
