package style

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// ScopeID identifies the scope a style map has been created for.
type ScopeID uint64

var scopeIDs atomic.Uint64

// Entry is a single style directive of a scope. Entries are immutable.
type Entry struct {
	Property *Property
	Value    Value
	Scope    ScopeID
}

func (e Entry) String() string {
	return fmt.Sprintf("%s = %s", e.Property.Key, e.Value)
}

// Map holds the style directives of one scope, at most one entry per property.
// Setting a property twice folds the new value into the existing entry, using
// the same rule as folding across scopes.
//
// A map is mutable until it is pushed onto a Chain; afterwards it is sealed.
// nil is a legal (empty) map.
type Map struct {
	reg     *Registry
	scope   ScopeID
	entries []Entry
	index   map[string]int
	sealed  atomic.Bool
}

// NewMap returns a new empty style map for a fresh scope.
func NewMap(reg *Registry) *Map {
	assertThat(reg != nil, "style map needs a registry")
	return &Map{
		reg:   reg,
		scope: ScopeID(scopeIDs.Add(1)),
		index: make(map[string]int),
	}
}

// MapOf creates a style map from a sequence of settings, in order.
func MapOf(reg *Registry, settings ...KeyValue) (*Map, error) {
	m := NewMap(reg)
	for _, kv := range settings {
		if err := m.Set(kv.Key, kv.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Set adds a directive. The value has to match the kind of the property,
// otherwise ErrTypeMismatch is returned.
func (m *Map) Set(key string, v Value) error {
	if m.sealed.Load() {
		return fmt.Errorf("%w: cannot set %s", ErrSealed, key)
	}
	prop, err := m.reg.Lookup(key)
	if err != nil {
		return err
	}
	if err = prop.Check(v); err != nil {
		return err
	}
	if i, exists := m.index[key]; exists {
		folded := prop.Fold(m.entries[i].Value, v)
		tracer().Debugf("scope %d: fold %s: %s with %s => %s", m.scope, key,
			m.entries[i].Value, v, folded)
		m.entries[i] = Entry{Property: prop, Value: folded, Scope: m.scope}
		return nil
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Property: prop, Value: v, Scope: m.scope})
	return nil
}

// Get returns the value set for key in this scope, without any folding with
// other scopes.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	if i, ok := m.index[key]; ok {
		return m.entries[i].Value, true
	}
	return nil, false
}

// Scope returns the ID of the scope of m.
func (m *Map) Scope() ScopeID {
	if m == nil {
		return 0
	}
	return m.scope
}

// Len returns the number of directives.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the directives in order of first occurrence.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	r := make([]Entry, len(m.entries))
	copy(r, m.entries)
	return r
}

// Registry returns the registry the map validates against.
func (m *Map) Registry() *Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Map) seal() {
	if m != nil {
		m.sealed.Store(true)
	}
}

func (m *Map) String() string {
	if m == nil {
		return "{}"
	}
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}
