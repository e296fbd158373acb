/*
Package state implements location-dependent document state, e.g. counters.

A Slot is a named cell with an initial value and a log of updates, each tagged
with the Location it occurs at. The value of a slot at a location is the fold
of all updates at locations up to and including it, replayed in document order
from the initial value. The order in which updates are recorded does not
matter; the log is kept sorted by location.

Layout may run several passes over a document. Queries for locations the
layout has not yet reached (forward references) are answered from the
complete log of the previous pass and validated when the pass ends. A document
is stable when no query answered during a pass differs from the value the
complete log of that pass yields.

	eng := state.NewEngine()
	c, _ := eng.Declare("c", style.Int(0))
	eng.Update(c, state.Set(style.Int(1)), loc.Root().Child(0))
	v, _ := eng.Query(c, loc.Root().Child(1))   // 1

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package state

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fold.state'.
func tracer() tracing.Trace {
	return tracing.Select("fold.state")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("state: "+msg, msgargs...)
		panic(msg)
	}
}

// ErrAmbiguousLocation is returned if two updates are recorded for the same
// location within one pass. Locations of updates at one structural position
// have to be disambiguated by a sub-index.
var ErrAmbiguousLocation = errors.New("ambiguous location for state update")

// ErrUnknownSlot is returned for slot names never declared and for slots of
// a different engine.
var ErrUnknownSlot = errors.New("unknown state slot")

// ErrOp is returned if an update operation cannot be applied to a value.
var ErrOp = errors.New("state update failed")
