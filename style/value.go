package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/fold"
	"github.com/npillmayer/tyse/core/dimen"
)

// Kind is the type of a style value.
type Kind uint8

// Value kinds. A property declares exactly one kind.
const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindLength
	KindBool
	KindString
	KindPaint
	KindStroke
	KindFeatures
	KindDecorations
)

var kindNames = [...]string{"none", "int", "float", "length", "bool", "string",
	"paint", "stroke", "features", "decorations"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// KindFromString returns the kind for a kind name as used in registry files.
func KindFromString(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s && i > 0 {
			return Kind(i), true
		}
	}
	return KindNone, false
}

// Value is a style value. Values are immutable.
type Value interface {
	Kind() Kind
	String() string
}

// Concatenable values support the concat strategy. Concat returns the
// receiver followed by other.
type Concatenable interface {
	Value
	Concat(other Value) Value
}

// Mergeable values support the merge strategy. Merge combines the receiver as
// the outer value with an inner value.
type Mergeable interface {
	Value
	Merge(inner Value) Value
}

// Summable values support the sum strategy.
type Summable interface {
	Value
	Add(other Value) Value
}

// --- Scalars ---------------------------------------------------------------

// Int is an integer style value, also used for counters.
type Int int64

func (n Int) Kind() Kind     { return KindInt }
func (n Int) String() string { return strconv.FormatInt(int64(n), 10) }

// Add is part of interface Summable.
func (n Int) Add(other Value) Value {
	return fold.Sum(n, other.(Int))
}

// Float is a floating point style value.
type Float float64

func (x Float) Kind() Kind     { return KindFloat }
func (x Float) String() string { return strconv.FormatFloat(float64(x), 'g', -1, 64) }

// Add is part of interface Summable.
func (x Float) Add(other Value) Value {
	return fold.Sum(x, other.(Float))
}

// Length is an absolute length in design units.
type Length dimen.DU

// Pt creates a length of x printer's points, rounded to the nearest design unit.
func Pt(x float64) Length {
	return Length(math.Round(x * float64(dimen.PT)))
}

func (l Length) Kind() Kind { return KindLength }

func (l Length) String() string {
	return strconv.FormatFloat(l.Points(), 'f', -1, 64) + "pt"
}

// Points returns l in printer's points.
func (l Length) Points() float64 {
	return float64(l) / float64(dimen.PT)
}

// Add is part of interface Summable.
func (l Length) Add(other Value) Value {
	return fold.Sum(l, other.(Length))
}

// Bool is a flag value.
type Bool bool

func (b Bool) Kind() Kind     { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// String is a string value, e.g. a language tag.
type String string

func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return strconv.Quote(string(s)) }

// --- Features --------------------------------------------------------------

// Features is a set of font feature settings, e.g. (liga:0, smcp:1).
// Features fold by key.
type Features struct {
	dict fold.Dict[string, uint32]
}

// FeaturesOf creates a feature set. For duplicate tags the later setting wins.
func FeaturesOf(settings ...fold.Pair[string, uint32]) Features {
	return Features{dict: fold.DictOf(settings...)}
}

// Feature is a shortcut for a feature setting.
func Feature(tag string, value uint32) fold.Pair[string, uint32] {
	return fold.P(tag, value)
}

func (f Features) Kind() Kind     { return KindFeatures }
func (f Features) String() string { return f.dict.String() }

// Get returns the setting for a feature tag.
func (f Features) Get(tag string) (uint32, bool) {
	return f.dict.Get(tag)
}

// Len returns the number of feature settings.
func (f Features) Len() int {
	return f.dict.Len()
}

// Settings returns the feature settings in order.
func (f Features) Settings() []fold.Pair[string, uint32] {
	return f.dict.Pairs()
}

// Merge is part of interface Mergeable.
func (f Features) Merge(inner Value) Value {
	return Features{dict: fold.MergeByKey(f.dict, inner.(Features).dict)}
}

// ---------------------------------------------------------------------------

// zeroValue returns the neutral value of a kind, used for empty literals.
func zeroValue(k Kind) Value {
	switch k {
	case KindInt:
		return Int(0)
	case KindFloat:
		return Float(0)
	case KindLength:
		return Length(0)
	case KindBool:
		return Bool(false)
	case KindString:
		return String("")
	case KindPaint:
		return Black
	case KindStroke:
		return Stroke{}
	case KindFeatures:
		return Features{}
	case KindDecorations:
		return Decorations{}
	}
	return nil
}

// supports checks if values of kind k can be folded with strategy s.
func supports(k Kind, s Strategy) bool {
	if s == Override {
		return true
	}
	v := zeroValue(k)
	switch s {
	case Concat:
		_, ok := v.(Concatenable)
		return ok
	case Merge:
		_, ok := v.(Mergeable)
		return ok
	case Sum:
		_, ok := v.(Summable)
		return ok
	}
	return false
}

func mustKind(v Value, k Kind) error {
	if v == nil || v.Kind() != k {
		return fmt.Errorf("%w: expected %s, have %v", ErrTypeMismatch, k, describe(v))
	}
	return nil
}

func describe(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String() + " " + v.String()
}
