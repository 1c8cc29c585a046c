// Package input provides the character source a grammar is matched against.
package input

import (
	"fmt"
	"strconv"
)

// EOI is the character reported for every read at or past the end of input.
const EOI rune = '\uFFFF'

// Location identifies a point in the input.
//
// Locations are values. Advancing a location or inserting virtual input
// produces a new Location; the receiver never changes, so a saved Location
// can always be used to backtrack.
//
// A Location may carry virtual characters: synthetic input that is read
// before the character at Index. Virtual characters exist only in the
// Location, the Buffer never sees them.
type Location struct {
	Index   int
	virtual []rune
}

// At returns the location of the real character at index.
func At(index int) Location {
	return Location{Index: index}
}

// IsVirtual reports whether the next character read from l is synthetic.
func (l Location) IsVirtual() bool {
	return len(l.virtual) > 0
}

// Virtual returns the pending synthetic characters.
func (l Location) Virtual() string {
	return string(l.virtual)
}

// InsertVirtual returns a location that reads text before the characters
// l would have read.
func (l Location) InsertVirtual(text string) Location {
	if text == "" {
		return l
	}
	rs := []rune(text)
	v := make([]rune, 0, len(rs)+len(l.virtual))
	v = append(v, rs...)
	v = append(v, l.virtual...)
	return Location{Index: l.Index, virtual: v}
}

// InsertVirtualChar is InsertVirtual for a single character.
func (l Location) InsertVirtualChar(c rune) Location {
	return l.InsertVirtual(string(c))
}

// Before reports whether l comes strictly before o in reading order.
// At the same index, a location with more pending virtual characters
// comes first.
func (l Location) Before(o Location) bool {
	if l.Index != o.Index {
		return l.Index < o.Index
	}
	return len(l.virtual) > len(o.virtual)
}

// Equal reports whether l and o read the same characters from the same index.
func (l Location) Equal(o Location) bool {
	if l.Index != o.Index || len(l.virtual) != len(o.virtual) {
		return false
	}
	for i := range l.virtual {
		if l.virtual[i] != o.virtual[i] {
			return false
		}
	}
	return true
}

func (l Location) String() string {
	if len(l.virtual) == 0 {
		return strconv.Itoa(l.Index)
	}
	return fmt.Sprintf("%d+%q", l.Index, string(l.virtual))
}

// advanceVirtual consumes a pending virtual character, if any.
func (l Location) advanceVirtual() (Location, bool) {
	if len(l.virtual) == 0 {
		return l, false
	}
	rest := l.virtual[1:]
	if len(rest) == 0 {
		rest = nil
	}
	return Location{Index: l.Index, virtual: rest}, true
}
