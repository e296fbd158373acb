package style

import (
	"fmt"
	"sync"

	"github.com/npillmayer/fold"
	tp "github.com/xlab/treeprint"
)

// Chain is a persistent sequence of nested scopes. Each chain node references
// its parent; pushing a map creates a new node and never copies ancestor data,
// so sibling scopes share their common ancestors.
//
// Chains are read-only once created and may be shared between traversal
// branches. Resolved values are memoized per node, which makes resolving a
// property on a chain extending an already resolved chain cost only the
// folding of the differing suffix.
type Chain struct {
	reg    *Registry
	parent *Chain
	styles *Map
	depth  int
	memo   sync.Map // property key → Value
}

// NewChain creates an empty root chain. Resolving any property on it yields
// the property's default.
func NewChain(reg *Registry) *Chain {
	assertThat(reg != nil, "chain needs a registry")
	return &Chain{reg: reg}
}

// Push returns a new chain with m as its innermost scope. m is sealed and may
// not be modified afterwards. Pushing nil creates a scope without directives.
func (c *Chain) Push(m *Map) *Chain {
	assertThat(m == nil || m.reg == c.reg, "cannot push style map of foreign registry")
	m.seal()
	return &Chain{reg: c.reg, parent: c, styles: m, depth: c.depth + 1}
}

// Parent returns the enclosing chain, or nil for the root.
func (c *Chain) Parent() *Chain {
	return c.parent
}

// Styles returns the directives of the innermost scope.
func (c *Chain) Styles() *Map {
	return c.styles
}

// Depth returns the number of scopes pushed onto the root.
func (c *Chain) Depth() int {
	return c.depth
}

// Registry returns the registry of the chain.
func (c *Chain) Registry() *Registry {
	return c.reg
}

// Resolve returns the effective value of a property: the fold of all entries for
// the property, from the outermost scope to the innermost one. Folding starts
// with the outermost entry and stops at the innermost override entry. If no
// scope sets the property, its default is returned.
//
// Resolving an unregistered key fails with ErrUnknownProperty.
func (c *Chain) Resolve(key string) (Value, error) {
	prop, err := c.reg.Lookup(key)
	if err != nil {
		return nil, err
	}
	if r := c.resolve(prop); r.found {
		return r.value, nil
	}
	return prop.Default, nil
}

// MustResolve is like Resolve, but panics for unknown properties.
func (c *Chain) MustResolve(key string) Value {
	v, err := c.Resolve(key)
	if err != nil {
		panic(err)
	}
	return v
}

// resolved is a memoized fold result. found is false if no scope up to the
// chain node sets the property.
type resolved struct {
	value Value
	found bool
}

func (c *Chain) resolve(p *Property) resolved {
	if r, ok := c.memo.Load(p.Key); ok {
		return r.(resolved)
	}
	local, isSet := c.styles.Get(p.Key)
	var r resolved
	switch {
	case isSet && p.Strategy == Override:
		r = resolved{value: local, found: true} // terminal entry
	case c.parent == nil:
		r = resolved{value: local, found: isSet}
	default:
		r = c.parent.resolve(p)
		if isSet && r.found {
			r.value = p.Fold(r.value, local)
		} else if isSet {
			r = resolved{value: local, found: true}
		}
	}
	c.memo.Store(p.Key, r)
	return r
}

// Collect returns all entries for a property in walk order, innermost first.
// The walk stops after the first override entry.
func (c *Chain) Collect(key string) ([]Entry, error) {
	prop, err := c.reg.Lookup(key)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for n := c; n != nil; n = n.parent {
		if v, ok := n.styles.Get(key); ok {
			entries = append(entries, Entry{Property: prop, Value: v, Scope: n.styles.Scope()})
			if prop.Strategy == Override {
				break
			}
		}
	}
	return entries, nil
}

// Fold resolves a property from collected entries without using memoized
// results. It is the reference algorithm Resolve is equivalent to.
func (c *Chain) Fold(key string) (Value, error) {
	entries, err := c.Collect(key)
	if err != nil {
		return nil, err
	}
	prop, _ := c.reg.Lookup(key)
	if len(entries) == 0 {
		return prop.Default, nil
	}
	values := make([]Value, len(entries)) // outermost first
	for i, e := range entries {
		values[len(entries)-1-i] = e.Value
	}
	return fold.FoldL[Value](prop.Fold, values[0], values[1:]...), nil
}

// Get resolves a property and asserts the Go type of its value.
func Get[T Value](c *Chain, key string) (T, error) {
	var zero T
	v, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %s", ErrTypeMismatch, key, describe(v))
	}
	return t, nil
}

func (c *Chain) String() string {
	header := fmt.Sprintf("Chain(depth=%d)\n", c.depth)
	root := tp.New()
	branch := root
	for n := c; n != nil; n = n.parent { // innermost scope is printed first
		branch = branch.AddBranch(fmt.Sprintf("scope %d #%d", n.depth, n.styles.Scope()))
		for _, e := range n.styles.Entries() {
			branch.AddNode(e.String())
		}
	}
	return header + root.String()
}
