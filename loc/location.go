/*
Package loc implements locations, stable identifiers for positions in the
logical structure of a document.

A location is derived from the structural path of a node (the indices of the
children leading to it from the root) and a sub-index, which disambiguates
several events at the same structural position. Locations are values: they
may be compared with == and used as map keys. They never point into layout
state, so the same tree yields the same locations in every layout pass.

Locations are totally ordered by document order. An ancestor comes before all
of its descendants, siblings are ordered by their child index, and events at
the same node are ordered by their sub-index:

	0  <  0#1  <  0.0  <  0.0.4  <  0.1  <  0.1#2

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package loc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// segment is the width of one path segment in the encoded path.
const segment = 4

// Location is a position in document order. The zero value lies before every
// other location.
type Location struct {
	path string // big-endian uint32 per segment; byte order equals document order
	sub  uint32
}

// Root returns the location of a document's root node.
func Root() Location {
	return Location{}.Child(0)
}

// Child returns the location of the i-th child of the node at l.
func (l Location) Child(i int) Location {
	assertThat(i >= 0, "negative child index %d", i)
	var b [segment]byte
	binary.BigEndian.PutUint32(b[:], uint32(i))
	return Location{path: l.path + string(b[:])}
}

// Sub returns the location of the n-th event at the structural position of l.
func (l Location) Sub(n int) Location {
	assertThat(n >= 0, "negative sub-index %d", n)
	return Location{path: l.path, sub: uint32(n)}
}

// SubIndex returns the sub-index of l.
func (l Location) SubIndex() int {
	return int(l.sub)
}

// Parent returns the location of the enclosing node. For the root and for the
// zero location it returns false.
func (l Location) Parent() (Location, bool) {
	if len(l.path) <= segment {
		return Location{}, false
	}
	return Location{path: l.path[:len(l.path)-segment]}, true
}

// Path returns the child indices leading from the root to l. The first entry
// is the index of the root itself (always 0 for locations derived from Root).
func (l Location) Path() []int {
	p := make([]int, 0, l.Depth())
	for i := 0; i+segment <= len(l.path); i += segment {
		p = append(p, int(binary.BigEndian.Uint32([]byte(l.path[i:i+segment]))))
	}
	return p
}

// Depth returns the number of path segments.
func (l Location) Depth() int {
	return len(l.path) / segment
}

// IsZero is true for the zero location.
func (l Location) IsZero() bool {
	return l.path == "" && l.sub == 0
}

// Encloses is true if l is a proper ancestor of other.
func (l Location) Encloses(other Location) bool {
	return len(l.path) < len(other.path) && strings.HasPrefix(other.path, l.path)
}

// Compare returns -1, 0 or +1, depending on whether l is before, equal to, or
// after other in document order.
func (l Location) Compare(other Location) int {
	if c := strings.Compare(l.path, other.path); c != 0 {
		return c
	}
	switch {
	case l.sub < other.sub:
		return -1
	case l.sub > other.sub:
		return 1
	}
	return 0
}

// Less is true if l comes before other in document order.
func (l Location) Less(other Location) bool {
	return l.Compare(other) < 0
}

// ID returns a UUID (version 5) derived from l. Equal locations have equal
// IDs, in every layout pass and in every process.
func (l Location) ID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("fold/loc:"+l.String()))
}

// String returns l in the notation "0.3.1#2". The sub-index is omitted when
// it is 0.
func (l Location) String() string {
	if l.path == "" {
		if l.sub == 0 {
			return "-"
		}
		return "-#" + strconv.Itoa(int(l.sub))
	}
	var sb strings.Builder
	for i, n := range l.Path() {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(n))
	}
	if l.sub > 0 {
		sb.WriteByte('#')
		sb.WriteString(strconv.Itoa(int(l.sub)))
	}
	return sb.String()
}

// ErrFormat is returned by Parse for malformed location strings.
var ErrFormat = errors.New("malformed location")

// Parse reads a location in the notation of String.
func Parse(s string) (Location, error) {
	var l Location
	if s == "" {
		return l, fmt.Errorf("%w: empty string", ErrFormat)
	}
	p, sub, hasSub := strings.Cut(s, "#")
	if hasSub {
		n, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return l, fmt.Errorf("%w: %q", ErrFormat, s)
		}
		l.sub = uint32(n)
	}
	if p == "-" {
		return l, nil
	}
	for _, seg := range strings.Split(p, ".") {
		n, err := strconv.ParseUint(seg, 10, 32)
		if err != nil {
			return Location{}, fmt.Errorf("%w: %q", ErrFormat, s)
		}
		l = Location{path: l.Child(int(n)).path, sub: l.sub}
	}
	return l, nil
}

// MustParse is like Parse, but panics on errors.
func MustParse(s string) Location {
	l, err := Parse(s)
	assertThat(err == nil, "%v", err)
	return l
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("loc: "+msg, msgargs...)
		panic(msg)
	}
}
