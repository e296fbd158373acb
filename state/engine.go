package state

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/npillmayer/fold/loc"
	"github.com/npillmayer/fold/style"
)

// Record is an update of a slot at a location.
type Record struct {
	At loc.Location
	Op Op
}

func (r Record) String() string {
	return r.At.String() + ":" + r.Op.String()
}

// Slot is a named state cell, e.g. a counter.
type Slot struct {
	engine  *Engine
	name    string
	initial style.Value
	log     []Record // sorted by location
	frozen  []Record // complete log of the previous pass
}

// Name returns the name of the slot.
func (s *Slot) Name() string {
	return s.name
}

// Initial returns the value of the slot before any update.
func (s *Slot) Initial() style.Value {
	return s.initial
}

func (s *Slot) String() string {
	return fmt.Sprintf("slot %q(%s, #%d)", s.name, s.initial, len(s.log))
}

// findSlot returns the position of the first record with a location after at.
func findSlot(log []Record, at loc.Location) int {
	return sort.Search(len(log), func(i int) bool {
		return at.Less(log[i].At)
	})
}

// replay folds the records of log up to and including location at, starting
// with the initial value. If all is set, every record is replayed.
func (s *Slot) replay(log []Record, at loc.Location, all bool) (style.Value, error) {
	n := len(log)
	if !all {
		n = findSlot(log, at)
	}
	v := s.initial
	for _, r := range log[:n] {
		next, err := r.Op.Apply(v)
		if err != nil {
			return nil, fmt.Errorf("slot %q at %s: %w", s.name, r.At, err)
		}
		if next == nil || next.Kind() != s.initial.Kind() {
			return nil, fmt.Errorf("slot %q at %s: %w: %s yields %v", s.name, r.At,
				style.ErrTypeMismatch, r.Op, next)
		}
		v = next
	}
	return v, nil
}

// Divergence is a query whose answer during a pass differs from the value the
// complete update log of the pass yields.
type Divergence struct {
	Slot   string
	At     loc.Location // zero for final-value queries
	Before style.Value  // answer given during the pass
	After  style.Value  // value from the complete log; nil if replay failed
	Err    error
}

func (d Divergence) String() string {
	where := d.At.String()
	if d.At.IsZero() {
		where = "end"
	}
	if d.Err != nil {
		return fmt.Sprintf("slot %q at %s: %v", d.Slot, where, d.Err)
	}
	return fmt.Sprintf("slot %q at %s: %s → %s", d.Slot, where, d.Before, d.After)
}

type answered struct {
	slot  *Slot
	at    loc.Location
	final bool
	value style.Value
}

// Engine owns the state slots of one document compilation. An Engine is not
// safe for concurrent use; layout drives it from a single traversal.
type Engine struct {
	slots   map[string]*Slot
	order   []*Slot
	pass    int
	open    bool                    // a pass is running
	cursor  loc.Location            // location layout has reached
	taken   map[loc.Location]string // update locations of the current pass
	queries []answered
}

// NewEngine creates an engine without any slots.
func NewEngine() *Engine {
	return &Engine{
		slots: make(map[string]*Slot),
		taken: make(map[loc.Location]string),
	}
}

// Declare returns the slot for name, creating it with an initial value if
// it does not exist yet. A nil initial value declares an integer counter
// starting at 0. Re-declaring a slot with an initial value of different kind
// fails.
func (e *Engine) Declare(name string, initial style.Value) (*Slot, error) {
	if initial == nil {
		initial = style.Int(0)
	}
	if s, ok := e.slots[name]; ok {
		if s.initial.Kind() != initial.Kind() {
			return nil, fmt.Errorf("slot %q: %w: declared as %s, re-declared as %s", name,
				style.ErrTypeMismatch, s.initial.Kind(), initial.Kind())
		}
		return s, nil
	}
	s := &Slot{engine: e, name: name, initial: initial}
	e.slots[name] = s
	e.order = append(e.order, s)
	tracer().Debugf("declared %s", s)
	return s, nil
}

// Lookup finds a declared slot.
func (e *Engine) Lookup(name string) (*Slot, error) {
	if s, ok := e.slots[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
}

// Slots returns all slots in order of declaration.
func (e *Engine) Slots() []*Slot {
	r := make([]*Slot, len(e.order))
	copy(r, e.order)
	return r
}

// Pass returns the number of the current (or last) pass, starting at 1.
func (e *Engine) Pass() int {
	return e.pass
}

// BeginPass starts a new layout pass. The update logs of the previous pass
// are kept for answering forward references and then rebuilt from scratch.
func (e *Engine) BeginPass() {
	e.pass++
	e.open = true
	e.cursor = loc.Location{}
	e.taken = make(map[loc.Location]string, len(e.taken))
	e.queries = e.queries[:0]
	for _, s := range e.order {
		s.frozen, s.log = s.log, nil
	}
	tracer().Debugf("begin state pass %d", e.pass)
}

// EndPass finishes the current pass and checks every query answered during
// the pass against the complete update log. The pass is stable if no answer
// differs.
func (e *Engine) EndPass() (bool, []Divergence) {
	e.ensurePass()
	var diffs []Divergence
	for _, q := range e.queries {
		after, err := q.slot.replay(q.slot.log, q.at, q.final)
		if err != nil || !reflect.DeepEqual(after, q.value) {
			d := Divergence{Slot: q.slot.name, Before: q.value, After: after, Err: err}
			if !q.final {
				d.At = q.at
			}
			diffs = append(diffs, d)
		}
	}
	e.open = false
	tracer().Infof("state pass %d: %d queries, %d divergent", e.pass, len(e.queries), len(diffs))
	return len(diffs) == 0, diffs
}

// Enter moves the layout cursor to at. Queries for locations up to the cursor
// are exact. The cursor never moves backwards within a pass.
func (e *Engine) Enter(at loc.Location) {
	e.ensurePass()
	assertThat(!at.Less(e.cursor), "cursor moves backwards from %s to %s", e.cursor, at)
	e.cursor = at
}

// Update records an update of slot s at location at. Updates may be recorded
// in any order. Recording two updates for the same location within a pass
// fails with ErrAmbiguousLocation.
func (e *Engine) Update(s *Slot, op Op, at loc.Location) error {
	if err := e.owns(s); err != nil {
		return err
	}
	e.ensurePass()
	if set, ok := op.(setOp); ok {
		if set.value == nil || set.value.Kind() != s.initial.Kind() {
			return fmt.Errorf("slot %q: %w: cannot set %v", s.name, style.ErrTypeMismatch, set.value)
		}
	}
	if other, exists := e.taken[at]; exists {
		return fmt.Errorf("%w: %s (slots %q and %q)", ErrAmbiguousLocation, at, other, s.name)
	}
	e.taken[at] = s.name
	i := findSlot(s.log, at)
	s.log = append(s.log, Record{})
	copy(s.log[i+1:], s.log[i:])
	s.log[i] = Record{At: at, Op: op}
	if at.Less(e.cursor) {
		tracer().Debugf("slot %q: update %s behind cursor %s", s.name, at, e.cursor)
	}
	return nil
}

// Query returns the value of slot s at location at. If at lies behind the
// layout cursor, the value is computed from the current pass. Otherwise it
// is computed from the complete log of the previous pass, if there is one.
func (e *Engine) Query(s *Slot, at loc.Location) (style.Value, error) {
	if err := e.owns(s); err != nil {
		return nil, err
	}
	if !e.open {
		return s.replay(s.log, at, false)
	}
	log := s.log
	if e.cursor.Less(at) && e.pass > 1 {
		log = s.frozen
	}
	v, err := s.replay(log, at, false)
	if err != nil {
		return nil, err
	}
	e.queries = append(e.queries, answered{slot: s, at: at, value: v})
	return v, nil
}

// Final returns the value of slot s after all of its updates. During a pass
// this is a forward reference.
func (e *Engine) Final(s *Slot) (style.Value, error) {
	if err := e.owns(s); err != nil {
		return nil, err
	}
	if !e.open {
		return s.replay(s.log, loc.Location{}, true)
	}
	log := s.log
	if e.pass > 1 {
		log = s.frozen
	}
	v, err := s.replay(log, loc.Location{}, true)
	if err != nil {
		return nil, err
	}
	e.queries = append(e.queries, answered{slot: s, final: true, value: v})
	return v, nil
}

// Log returns the updates of s recorded in the current pass, in document order.
func (e *Engine) Log(s *Slot) []Record {
	r := make([]Record, len(s.log))
	copy(r, s.log)
	return r
}

func (e *Engine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "state engine pass %d\n", e.pass)
	for _, s := range e.order {
		fmt.Fprintf(&sb, "  %s:", s)
		for _, r := range s.log {
			sb.WriteString(" " + r.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (e *Engine) ensurePass() {
	if e.pass == 0 {
		e.BeginPass()
	}
}

func (e *Engine) owns(s *Slot) error {
	if s == nil || s.engine != e {
		return fmt.Errorf("%w: %v", ErrUnknownSlot, s)
	}
	return nil
}
