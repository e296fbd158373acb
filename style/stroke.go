package style

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fold/maybe"
)

// LineCap is the shape at the end of open stroked lines.
type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

func (c LineCap) String() string {
	return [...]string{"butt", "round", "square"}[c]
}

// LineJoin is the shape at corners of stroked lines.
type LineJoin uint8

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

func (j LineJoin) String() string {
	return [...]string{"miter", "round", "bevel"}[j]
}

// Dash is a dash pattern. An empty array denotes a solid line.
type Dash struct {
	Array []Length
	Phase Length
}

func (d Dash) String() string {
	if len(d.Array) == 0 {
		return "solid"
	}
	parts := make([]string, len(d.Array))
	for i, l := range d.Array {
		parts[i] = l.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Stroke describes how lines are drawn. Every field is optional; unset fields
// are taken from an enclosing scope or, finally, from the defaults.
type Stroke struct {
	Paint      maybe.Maybe[Paint]
	Thickness  maybe.Maybe[Length]
	Cap        maybe.Maybe[LineCap]
	Join       maybe.Maybe[LineJoin]
	Dash       maybe.Maybe[Dash]
	MiterLimit maybe.Maybe[Float]
}

// DefaultStroke is the fully specified fallback stroke.
var DefaultStroke = Stroke{
	Paint:      maybe.Just(Black),
	Thickness:  maybe.Just(Pt(1)),
	Cap:        maybe.Just(CapButt),
	Join:       maybe.Just(JoinMiter),
	Dash:       maybe.Just(Dash{}),
	MiterLimit: maybe.Just(Float(4)),
}

func (s Stroke) Kind() Kind { return KindStroke }

func (s Stroke) String() string {
	var parts []string
	parts = appendSet(parts, s.Thickness)
	parts = appendSet(parts, s.Paint)
	parts = appendSet(parts, s.Cap)
	parts = appendSet(parts, s.Join)
	parts = appendSet(parts, s.Dash)
	parts = appendSet(parts, s.MiterLimit)
	if len(parts) == 0 {
		return "auto"
	}
	return strings.Join(parts, " + ")
}

func appendSet[T fmt.Stringer](parts []string, m maybe.Maybe[T]) []string {
	if v, ok := m.Get(); ok {
		return append(parts, v.String())
	}
	return parts
}

// IsAuto is true if no field of s is set.
func (s Stroke) IsAuto() bool {
	return !(s.Paint.IsJust() || s.Thickness.IsJust() || s.Cap.IsJust() ||
		s.Join.IsJust() || s.Dash.IsJust() || s.MiterLimit.IsJust())
}

// Merge is part of interface Mergeable: fields set on inner win.
func (s Stroke) Merge(inner Value) Value {
	return inner.(Stroke).over(s)
}

// WithDefaults fills unset fields of s from d.
func (s Stroke) WithDefaults(d Stroke) Stroke {
	return s.over(d)
}

func (s Stroke) over(outer Stroke) Stroke {
	return Stroke{
		Paint:      s.Paint.Or(outer.Paint),
		Thickness:  s.Thickness.Or(outer.Thickness),
		Cap:        s.Cap.Or(outer.Cap),
		Join:       s.Join.Or(outer.Join),
		Dash:       s.Dash.Or(outer.Dash),
		MiterLimit: s.MiterLimit.Or(outer.MiterLimit),
	}
}
