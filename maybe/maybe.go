/*
Package maybe implements optional values.

Optional values are the building blocks of partially specified style values: a
stroke may set its thickness but leave its paint open. Folding two optionals of
nested scopes keeps the inner one if it is set and falls back to the outer one
otherwise (see Or).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package maybe

import "fmt"

// Maybe is an optional value of type T. The zero value is unset.
type Maybe[T any] struct {
	value T
	set   bool
}

// Just wraps x.
func Just[T any](x T) Maybe[T] {
	return Maybe[T]{value: x, set: true}
}

// IsJust is true if m carries a value.
func (m Maybe[T]) IsJust() bool {
	return m.set
}

// Get returns the wrapped value together with an indicator if it is set.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.set
}

// Or folds an outer optional with m as the inner one: m if it is set, outer otherwise.
func (m Maybe[T]) Or(outer Maybe[T]) Maybe[T] {
	if m.set {
		return m
	}
	return outer
}

func (m Maybe[T]) String() string {
	if m.set {
		return fmt.Sprintf("%v", m.value)
	}
	return "auto"
}
