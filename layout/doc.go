/*
Package layout drives the passes over a document which resolve styles and
document state.

Every pass walks the document tree depth-first, assigning each node the
location derived from its position. Scope nodes push their style directives
onto a style chain, text runs record the chain in effect, and state updates
are recorded at their location. Locate callbacks are not called during the
walk: they are queued and called afterwards in document order, when every
update in front of them is known. The content a callback returns is walked
in place of the locate node and may contain further updates and callbacks.

Callbacks may look ahead, e.g. ask for the final value of a counter. Such
queries are answered with values from the previous pass, so layout repeats
passes until every answer given during a pass is confirmed by that pass.
If this does not happen within a bounded number of passes, layout fails
with a NonConvergentError.

# Configuration

OptionsFrom reads the following keys from a schuko configuration:

	fold.max-passes    maximum number of layout passes (default 5)

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/fold/state"
	"github.com/npillmayer/schuko/tracing"
	"go.uber.org/multierr"
)

// tracer traces with key 'fold.layout'.
func tracer() tracing.Trace {
	return tracing.Select("fold.layout")
}

// ErrNonConvergent is the error NonConvergentError matches with errors.Is.
var ErrNonConvergent = errors.New("layout does not converge")

// NonConvergentError is returned if layout is still not stable after the
// maximum number of passes. It lists every query which changed its answer
// in the last pass.
type NonConvergentError struct {
	Passes      int
	Divergences []state.Divergence
	errs        error
}

func nonConvergent(passes int, diffs []state.Divergence) *NonConvergentError {
	e := &NonConvergentError{Passes: passes, Divergences: diffs}
	for _, d := range diffs {
		e.errs = multierr.Append(e.errs, fmt.Errorf("%w: %s", ErrNonConvergent, d))
	}
	return e
}

func (e *NonConvergentError) Error() string {
	parts := make([]string, len(e.Divergences))
	for i, d := range e.Divergences {
		parts[i] = d.String()
	}
	return fmt.Sprintf("layout does not converge after %d passes: %s", e.Passes,
		strings.Join(parts, "; "))
}

// Is makes NonConvergentError match ErrNonConvergent.
func (e *NonConvergentError) Is(target error) bool {
	return target == ErrNonConvergent
}

// Unwrap returns one error per divergent query.
func (e *NonConvergentError) Unwrap() []error {
	return multierr.Errors(e.errs)
}
