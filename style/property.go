package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fold"
)

// Strategy is the fold strategy of a property.
type Strategy uint8

const (
	Override Strategy = iota // innermost value wins
	Concat                   // vectors concatenate in the property's direction
	Merge                    // maps merge by key, inner keys win
	Sum                      // numbers add up
)

func (s Strategy) String() string {
	return [...]string{"override", "concat", "merge", "sum"}[s]
}

// StrategyFromString returns the strategy for a name as used in registry files.
func StrategyFromString(s string) (Strategy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "override":
		return Override, true
	case "concat", "concatenate":
		return Concat, true
	case "merge", "merge-by-key":
		return Merge, true
	case "sum", "numeric":
		return Sum, true
	}
	return Override, false
}

// Property is a named, typed style attribute with a declared fold strategy.
// Properties are created by registering them with a Registry and are immutable
// afterwards.
type Property struct {
	Key       string
	Kind      Kind
	Strategy  Strategy
	Direction fold.Direction // only relevant for Concat
	Default   Value
}

func (p *Property) String() string {
	s := fmt.Sprintf("%s: %s [%s", p.Key, p.Kind, p.Strategy)
	if p.Strategy == Concat {
		s += " " + p.Direction.String()
	}
	return s + "] = " + p.Default.String()
}

// Fold combines an outer value with an inner value of p.
// Both values must have the kind of p; this is checked when values enter a Map.
func (p *Property) Fold(outer, inner Value) Value {
	switch p.Strategy {
	case Concat:
		if p.Direction == fold.InnerFirst {
			return inner.(Concatenable).Concat(outer)
		}
		return outer.(Concatenable).Concat(inner)
	case Merge:
		return outer.(Mergeable).Merge(inner)
	case Sum:
		return outer.(Summable).Add(inner)
	}
	return fold.Override(outer, inner)
}

// Check validates v as a value for p.
func (p *Property) Check(v Value) error {
	if err := mustKind(v, p.Kind); err != nil {
		return fmt.Errorf("property %s: %w", p.Key, err)
	}
	return nil
}

func (p *Property) validate() error {
	if p.Key == "" {
		return fmt.Errorf("%w: property without key", ErrSyntax)
	}
	if zeroValue(p.Kind) == nil {
		return fmt.Errorf("property %s: %w: %s", p.Key, ErrTypeMismatch, p.Kind)
	}
	if !supports(p.Kind, p.Strategy) {
		return fmt.Errorf("property %s: %w: %s for %s", p.Key, ErrStrategyMismatch,
			p.Strategy, p.Kind)
	}
	if p.Default == nil {
		p.Default = zeroValue(p.Kind)
	}
	return p.Check(p.Default)
}

// KeyValue is a container for a style property setting.
type KeyValue struct {
	Key   string
	Value Value
}

// KV is a shortcut to create a KeyValue.
func KV(key string, v Value) KeyValue {
	return KeyValue{Key: key, Value: v}
}
