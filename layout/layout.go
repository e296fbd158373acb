package layout

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/npillmayer/fold/doc"
	"github.com/npillmayer/fold/loc"
	"github.com/npillmayer/fold/state"
	"github.com/npillmayer/fold/style"
)

// Span is a run of text together with the style chain in effect for it.
type Span struct {
	At    loc.Location
	Text  string
	Chain *style.Chain
}

// Resolve returns the effective value of a style property for the span.
func (s Span) Resolve(key string) (style.Value, error) {
	return s.Chain.Resolve(key)
}

// ID returns a stable identifier for the span, equal in every layout of the
// same document. Exporters may use it as an anchor.
func (s Span) ID() uuid.UUID {
	return s.At.ID()
}

func (s Span) String() string {
	return fmt.Sprintf("%s %q", s.At, s.Text)
}

// Result is the outcome of a converged layout.
type Result struct {
	Spans  []Span                       // text runs in document order
	Values map[loc.Location]style.Value // values displayed by locate content
	Passes int                          // number of passes needed
	State  *state.Engine                // document state after the last pass
}

// Run lays out a document, repeating passes until all locate callbacks see
// stable state. The root node is located at loc.Root().
func Run(root *doc.Node, reg *style.Registry, opts Options) (*Result, error) {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	eng := state.NewEngine()
	names := make([]string, 0, len(opts.Slots))
	for name := range opts.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := eng.Declare(name, opts.Slots[name]); err != nil {
			return nil, err
		}
	}
	for n := 1; ; n++ {
		eng.BeginPass()
		p := &pass{eng: eng, opts: opts, values: make(map[loc.Location]style.Value)}
		if err := p.run(root, style.NewChain(reg)); err != nil {
			return nil, fmt.Errorf("layout pass %d: %w", n, err)
		}
		stable, diffs := eng.EndPass()
		if stable {
			tracer().Infof("layout converged after %d pass(es)", n)
			sort.SliceStable(p.spans, func(i, j int) bool {
				return p.spans[i].At.Less(p.spans[j].At)
			})
			return &Result{Spans: p.spans, Values: p.values, Passes: n, State: eng}, nil
		}
		for _, d := range diffs {
			tracer().Debugf("pass %d: %s", n, d)
		}
		if n >= opts.MaxPasses {
			return nil, nonConvergent(n, diffs)
		}
	}
}

// --- Passes ----------------------------------------------------------------

type pass struct {
	eng    *state.Engine
	opts   Options
	spans  []Span
	values map[loc.Location]style.Value
	work   worklist
}

func (p *pass) run(root *doc.Node, chain *style.Chain) error {
	if err := p.walk(root, loc.Root(), chain); err != nil {
		return err
	}
	for p.work.Len() > 0 {
		item := heap.Pop(&p.work).(deferred)
		p.eng.Enter(item.at)
		tracer().Debugf("locate %s [%s]", item.at, item.at.ID())
		content, err := item.node.Func()(&locateContext{pass: p, at: item.at, chain: item.chain})
		if err != nil {
			return fmt.Errorf("locate at %s: %w", item.at, err)
		}
		if content != nil {
			if err = p.walk(content, item.at.Child(0), item.chain); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pass) walk(node *doc.Node, at loc.Location, chain *style.Chain) error {
	switch node.Kind() {
	case doc.ScopeNode:
		if m := node.Styles(); m != nil && m.Registry() != chain.Registry() {
			return fmt.Errorf("scope at %s: %w", at, style.ErrForeignRegistry)
		}
		chain = chain.Push(node.Styles())
		fallthrough
	case doc.SeqNode:
		for i, ch := range node.Children() {
			if err := p.walk(ch, at.Child(i), chain); err != nil {
				return err
			}
		}
	case doc.TextNode:
		p.spans = append(p.spans, Span{At: at, Text: node.Text(), Chain: chain})
	case doc.ValueNode:
		p.spans = append(p.spans, Span{At: at, Text: node.Text(), Chain: chain})
		p.values[at] = node.Value()
	case doc.UpdateNode:
		slot, err := p.slot(node.Slot())
		if err != nil {
			return err
		}
		for i, op := range node.Ops() {
			if err = p.eng.Update(slot, op, at.Sub(i)); err != nil {
				return err
			}
		}
	case doc.LocateNode:
		heap.Push(&p.work, deferred{at: at, node: node, chain: chain})
	}
	return nil
}

// slot finds or declares a slot. Slots without a configured initial value
// are integer counters.
func (p *pass) slot(name string) (*state.Slot, error) {
	return p.eng.Declare(name, p.opts.Slots[name])
}

// --- Locate callbacks --------------------------------------------------------

type locateContext struct {
	pass  *pass
	at    loc.Location
	chain *style.Chain
}

var _ doc.Context = (*locateContext)(nil)

func (ctx *locateContext) Here() loc.Location {
	return ctx.at
}

func (ctx *locateContext) Query(slot string) (style.Value, error) {
	return ctx.QueryAt(slot, ctx.at)
}

func (ctx *locateContext) QueryAt(slot string, at loc.Location) (style.Value, error) {
	s, err := ctx.pass.slot(slot)
	if err != nil {
		return nil, err
	}
	return ctx.pass.eng.Query(s, at)
}

func (ctx *locateContext) Final(slot string) (style.Value, error) {
	s, err := ctx.pass.slot(slot)
	if err != nil {
		return nil, err
	}
	return ctx.pass.eng.Final(s)
}

func (ctx *locateContext) Resolve(key string) (style.Value, error) {
	return ctx.chain.Resolve(key)
}

// deferred is a locate callback waiting to be called.
type deferred struct {
	at    loc.Location
	node  *doc.Node
	chain *style.Chain
}

// worklist is a priority queue of deferred callbacks in document order.
type worklist []deferred

func (w worklist) Len() int           { return len(w) }
func (w worklist) Less(i, j int) bool { return w[i].at.Less(w[j].at) }
func (w worklist) Swap(i, j int)      { w[i], w[j] = w[j], w[i] }

func (w *worklist) Push(x any) {
	*w = append(*w, x.(deferred))
}

func (w *worklist) Pop() any {
	old := *w
	n := len(old)
	item := old[n-1]
	*w = old[:n-1]
	return item
}
