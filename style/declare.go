package style

import (
	"errors"
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/multierr"
)

// ParseDeclarations reads a list of style declarations into a new map for one
// scope:
//
//	text-features: liga 1; text-features: liga 0; text-deco: underline 4pt aqua
//
// Declarations for the same property fold within the scope, in textual order.
// All erroneous declarations are reported; the returned map contains the
// correct ones.
func ParseDeclarations(reg *Registry, src string) (*Map, error) {
	m := NewMap(reg)
	p := css.NewParser(parse.NewInputString(src), true)
	var errs error
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				errs = multierr.Append(errs, fmt.Errorf("%w: %v", ErrSyntax, err))
			}
			return m, errs
		case css.DeclarationGrammar:
			key := string(data)
			prop, err := reg.Lookup(key)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			v, err := valueFromTokens(prop.Kind, significant(p.Values()))
			if err == nil {
				err = m.Set(key, v)
			}
			errs = multierr.Append(errs, err)
		default:
			tracer().Debugf("ignoring style grammar element %s %q", gt, data)
		}
	}
}

// MustParseDeclarations is like ParseDeclarations, but panics on errors.
// It is meant for built-in and test styles.
func MustParseDeclarations(reg *Registry, src string) *Map {
	m, err := ParseDeclarations(reg, src)
	assertThat(err == nil, "%v", err)
	return m
}
