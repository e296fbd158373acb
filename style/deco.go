package style

import (
	"strings"

	"github.com/npillmayer/fold"
)

// Line is the kind of a text decoration line.
type Line uint8

const (
	Underline Line = iota
	Overline
	Strikethrough
)

func (l Line) String() string {
	return [...]string{"underline", "overline", "strike"}[l]
}

// LineFromString returns the decoration line for a name.
func LineFromString(s string) (Line, bool) {
	switch strings.ToLower(s) {
	case "underline":
		return Underline, true
	case "overline":
		return Overline, true
	case "strike", "strikethrough":
		return Strikethrough, true
	}
	return Underline, false
}

// Decoration is a line drawn along text.
type Decoration struct {
	Line   Line
	Stroke Stroke // auto stroke takes paint and thickness from the text
}

func (d Decoration) String() string {
	if d.Stroke.IsAuto() {
		return d.Line.String()
	}
	return d.Line.String() + "(" + d.Stroke.String() + ")"
}

// Decorations is the vector of decorations applied to text. Nested decorations
// concatenate.
type Decorations []Decoration

func (ds Decorations) Kind() Kind { return KindDecorations }

func (ds Decorations) String() string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Concat is part of interface Concatenable.
func (ds Decorations) Concat(other Value) Value {
	return Decorations(fold.Concat[Decoration](fold.OuterFirst)(ds, other.(Decorations)))
}
