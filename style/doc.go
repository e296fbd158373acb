/*
Package style implements style properties, their values, and the resolution of
effective styles along a chain of nested scopes.

# Overview

Every style property is declared once in a Registry, together with its value
kind and its fold strategy. The strategy decides how a value set in an outer
scope combines with a value set in an inner scope:

	override   inner wins (most scalar properties)
	concat     vectors are concatenated in a fixed direction (decorations)
	merge      maps are merged by key, structs field by field (features, strokes)
	sum        numbers add up (baseline shifts)

A Map collects the directives of one scope. Maps are pushed onto a Chain,
a persistent linked list of scopes sharing their ancestors. Resolving a
property on a chain folds all entries for the property from the outermost
scope to the innermost one.

	reg := style.Default()
	m, _ := style.ParseDeclarations(reg, "text-deco: underline 4pt aqua")
	chain := style.NewChain(reg).Push(m)
	deco, _ := chain.Resolve("text-deco")

Properties of the default registry are declared in registry.yaml.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fold.style'.
func tracer() tracing.Trace {
	return tracing.Select("fold.style")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("style: "+msg, msgargs...)
		panic(msg)
	}
}

// ErrUnknownProperty is returned for property keys never registered. This is a
// programming or configuration error.
var ErrUnknownProperty = errors.New("unknown style property")

// ErrTypeMismatch is returned if a value does not have the kind declared for a property.
var ErrTypeMismatch = errors.New("style value has wrong kind for property")

// ErrStrategyMismatch is returned if a property declares a fold strategy its
// value kind cannot carry.
var ErrStrategyMismatch = errors.New("fold strategy not supported by value kind")

// ErrDuplicateProperty is returned if a property key is registered twice.
var ErrDuplicateProperty = errors.New("style property already registered")

// ErrSealed is returned when setting a value on a map already pushed onto a chain.
var ErrSealed = errors.New("style map is sealed")

// ErrSyntax is returned for malformed style literals and declarations.
var ErrSyntax = errors.New("style syntax error")

// ErrForeignRegistry is returned if a style map validated against one registry
// is used with a chain of another registry.
var ErrForeignRegistry = errors.New("style map of foreign registry")
