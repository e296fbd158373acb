package style

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/fold"
	"github.com/npillmayer/fold/maybe"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	reg := Default()
	deco, err := reg.Lookup("text-deco")
	require.NoError(t, err)
	assert.Equal(t, Concat, deco.Strategy)
	assert.Equal(t, fold.OuterFirst, deco.Direction)
	assert.Equal(t, Decorations{}, deco.Default)
	size, err := reg.Lookup("text-size")
	require.NoError(t, err)
	assert.Equal(t, Pt(11), size.Default)
	assert.Contains(t, reg.Keys(), "text-features")
	_, err = reg.Lookup("no-such-thing")
	assert.True(t, errors.Is(err, ErrUnknownProperty))
}

func TestLoadRegistryReportsAllErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	src := `
properties:
  - key: a
    kind: colour
  - key: b
    kind: paint
    fold: sum
  - key: c
    kind: int
    default: 7
`
	_, err := LoadRegistry(strings.NewReader(src))
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 2)
	assert.True(t, errors.Is(errs[0], ErrSyntax))
	assert.True(t, errors.Is(errs[1], ErrStrategyMismatch))
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Register(Property{Key: "x", Kind: KindInt})
	require.NoError(t, err)
	_, err = reg.Register(Property{Key: "x", Kind: KindInt})
	assert.True(t, errors.Is(err, ErrDuplicateProperty))
	_, err = reg.Register(Property{Key: "y", Kind: KindInt, Default: Bool(true)})
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestParseValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	aqua, ok := PaintNamed("aqua")
	require.True(t, ok)
	cases := []struct {
		kind    Kind
		literal string
		expect  Value
	}{
		{KindInt, "42", Int(42)},
		{KindLength, "4pt", Pt(4)},
		{KindLength, "0", Length(0)},
		{KindBool, "true", Bool(true)},
		{KindString, "de", String("de")},
		{KindPaint, "aqua", aqua},
		{KindFeatures, "liga 0, smcp", FeaturesOf(Feature("liga", 0), Feature("smcp", 1))},
		{KindStroke, "4pt aqua", Stroke{Thickness: maybe.Just(Pt(4)), Paint: maybe.Just(aqua)}},
		{KindStroke, "round round-join", Stroke{Cap: maybe.Just(CapRound), Join: maybe.Just(JoinRound)}},
		{KindStroke, "round-cap bevel", Stroke{Cap: maybe.Just(CapRound), Join: maybe.Just(JoinBevel)}},
		{KindDecorations, "", Decorations{}},
		{KindDecorations, "underline 4pt aqua, overline", Decorations{
			{Line: Underline, Stroke: Stroke{Thickness: maybe.Just(Pt(4)), Paint: maybe.Just(aqua)}},
			{Line: Overline},
		}},
	}
	for _, c := range cases {
		v, err := ParseValue(c.kind, c.literal)
		require.NoError(t, err, c.literal)
		assert.Equal(t, c.expect, v, c.literal)
	}
	_, err := ParseValue(KindLength, "4furlong")
	assert.True(t, errors.Is(err, ErrSyntax))
	_, err = ParseValue(KindDecorations, "wiggle")
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestPaintHex(t *testing.T) {
	p, err := PaintHex("#336699")
	require.NoError(t, err)
	assert.Equal(t, "#336699", p.String())
	p, err = PaintHex("#fff")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), p.Color.G)
	_, err = PaintHex("#12")
	assert.Error(t, err)
}

func TestMapFoldsWithinScope(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	reg := Default()
	m := MustParseDeclarations(reg, "text-features: liga 1; text-features: liga 0")
	assert.Equal(t, 1, m.Len())
	v, ok := m.Get("text-features")
	require.True(t, ok)
	liga, _ := v.(Features).Get("liga")
	assert.Equal(t, uint32(0), liga)
	//
	m = MustParseDeclarations(reg, "text-fill: red; text-fill: blue")
	v, _ = m.Get("text-fill")
	assert.Equal(t, "blue", v.String())
}

func TestMapRejectsWrongKind(t *testing.T) {
	m := NewMap(Default())
	err := m.Set("text-size", Int(12))
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	err = m.Set("text-sise", Pt(12))
	assert.True(t, errors.Is(err, ErrUnknownProperty))
	assert.Equal(t, 0, m.Len())
}

func TestParseDeclarationsCollectsErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	m, err := ParseDeclarations(Default(), "text-size: 12pt; text-colour: red; text-weight: bold")
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, 1, m.Len())
}

func TestMapSealedAfterPush(t *testing.T) {
	reg := Default()
	m := NewMap(reg)
	require.NoError(t, m.Set("text-size", Pt(12)))
	NewChain(reg).Push(m)
	assert.True(t, errors.Is(m.Set("text-size", Pt(10)), ErrSealed))
}

func TestChainOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	reg := Default()
	root := NewChain(reg)
	assert.Equal(t, Pt(11), root.MustResolve("text-size"))
	outer := root.Push(MustParseDeclarations(reg, "text-size: 14pt; text-lang: de"))
	inner := outer.Push(MustParseDeclarations(reg, "text-size: 9pt"))
	assert.Equal(t, Pt(9), inner.MustResolve("text-size"))
	assert.Equal(t, String("de"), inner.MustResolve("text-lang"))
	assert.Equal(t, Pt(14), outer.MustResolve("text-size"))
	t.Log(inner)
}

func TestChainConcatOuterFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	reg := Default()
	chain := NewChain(reg).
		Push(MustParseDeclarations(reg, "text-deco: underline 4pt aqua")).
		Push(MustParseDeclarations(reg, "text-deco: underline"))
	decos, err := Get[Decorations](chain, "text-deco")
	require.NoError(t, err)
	require.Len(t, decos, 2)
	assert.Equal(t, "[underline(4pt + aqua), underline]", decos.String())
	assert.True(t, decos[1].Stroke.IsAuto())
}

func TestChainConcatInnerFirst(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Register(Property{Key: "marks", Kind: KindDecorations, Strategy: Concat,
		Direction: fold.InnerFirst})
	require.NoError(t, err)
	chain := NewChain(reg).
		Push(MustParseDeclarations(reg, "marks: overline")).
		Push(MustParseDeclarations(reg, "marks: underline"))
	assert.Equal(t, "[underline, overline]", chain.MustResolve("marks").String())
}

func TestChainMergeFeatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	reg := Default()
	chain := NewChain(reg).
		Push(MustParseDeclarations(reg, "text-features: liga 1, kern 1")).
		Push(MustParseDeclarations(reg, "text-features: smcp, liga 0"))
	f, err := Get[Features](chain, "text-features")
	require.NoError(t, err)
	assert.Equal(t, "(liga:0, kern:1, smcp:1)", f.String())
}

func TestChainMergeStroke(t *testing.T) {
	reg := Default()
	chain := NewChain(reg).
		Push(MustParseDeclarations(reg, "text-stroke: 2pt red round")).
		Push(MustParseDeclarations(reg, "text-stroke: blue"))
	s, err := Get[Stroke](chain, "text-stroke")
	require.NoError(t, err)
	assert.Equal(t, "2pt + blue + round", s.String())
	full := s.WithDefaults(DefaultStroke)
	assert.Equal(t, maybe.Just(JoinMiter), full.Join)
	assert.Equal(t, maybe.Just(CapRound), full.Cap)
}

func TestChainSum(t *testing.T) {
	reg := Default()
	chain := NewChain(reg).
		Push(MustParseDeclarations(reg, "text-baseline: 3pt")).
		Push(nil).
		Push(MustParseDeclarations(reg, "text-baseline: -1pt"))
	assert.Equal(t, Pt(2), chain.MustResolve("text-baseline"))
	chain = chain.Push(MustParseDeclarations(reg, "text-baseline: 0.25pt; text-baseline: -0.5pt"))
	assert.Equal(t, Pt(2)+Pt(0.25)+Pt(-0.5), chain.MustResolve("text-baseline"))
	assert.InDelta(t, 1.75, chain.MustResolve("text-baseline").(Length).Points(), 1e-4)
}

func TestLengthRounding(t *testing.T) {
	unit := float64(Pt(1))
	for _, x := range []float64{0.5, 1.5, 0.1, 2.75, 100.3} {
		l := Pt(x)
		assert.InDelta(t, x*unit, float64(l), 0.5, "%gpt", x)
		assert.Equal(t, -l, Pt(-x), "%gpt", x)
	}
	for literal, points := range map[string]float64{"1.5pt": 1.5, "-0.5pt": -0.5, "25.4mm": 72.27,
		"1in": 72.27, "72bp": 72.27, "2.54cm": 72.27} {
		v, err := ParseValue(KindLength, literal)
		require.NoError(t, err, literal)
		assert.InDelta(t, points, v.(Length).Points(), 1e-4, literal)
	}
}

func TestResolveStartsWithOutermostEntry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.style")
	defer teardown()
	//
	reg := NewRegistry()
	_, err := reg.Register(Property{Key: "shift", Kind: KindLength, Strategy: Sum, Default: Pt(3)})
	require.NoError(t, err)
	_, err = reg.Register(Property{Key: "marks", Kind: KindDecorations, Strategy: Concat,
		Default: Decorations{{Line: Overline}}})
	require.NoError(t, err)
	root := NewChain(reg)
	assert.Equal(t, Pt(3), root.MustResolve("shift"))
	assert.Equal(t, "[overline]", root.MustResolve("marks").String())
	//
	one := root.Push(nil).Push(MustParseDeclarations(reg, "shift: 2pt; marks: underline"))
	assert.Equal(t, Pt(2), one.MustResolve("shift"))
	assert.Equal(t, "[underline]", one.MustResolve("marks").String())
	two := one.Push(MustParseDeclarations(reg, "shift: 1pt; marks: strike"))
	assert.Equal(t, Pt(3), two.MustResolve("shift"))
	assert.Equal(t, "[underline, strike]", two.MustResolve("marks").String())
	for _, c := range []*Chain{root, one, two} {
		for _, key := range []string{"shift", "marks"} {
			reference, err := c.Fold(key)
			require.NoError(t, err)
			assert.Equal(t, reference, c.MustResolve(key), key)
		}
	}
}

func TestChainUnknownProperty(t *testing.T) {
	chain := NewChain(Default())
	_, err := chain.Resolve("text-colour")
	assert.True(t, errors.Is(err, ErrUnknownProperty))
	assert.Panics(t, func() { chain.MustResolve("text-colour") })
}

func TestChainResolveIsPure(t *testing.T) {
	reg := Default()
	parent := NewChain(reg).Push(MustParseDeclarations(reg, "text-deco: overline; text-features: liga 0"))
	left := parent.Push(MustParseDeclarations(reg, "text-deco: underline"))
	right := parent.Push(MustParseDeclarations(reg, "text-deco: strike"))
	for _, key := range reg.Keys() {
		for _, c := range []*Chain{left, right, parent} {
			first := c.MustResolve(key)
			assert.Equal(t, first, c.MustResolve(key), key)
			reference, err := c.Fold(key)
			require.NoError(t, err)
			assert.Equal(t, reference, first, key)
		}
	}
	assert.Equal(t, "[overline, underline]", left.MustResolve("text-deco").String())
	assert.Equal(t, "[overline, strike]", right.MustResolve("text-deco").String())
	assert.Same(t, left.Parent(), right.Parent())
}

func TestCollectStopsAtOverride(t *testing.T) {
	reg := Default()
	chain := NewChain(reg).
		Push(MustParseDeclarations(reg, "text-fill: red")).
		Push(MustParseDeclarations(reg, "text-fill: green")).
		Push(nil)
	entries, err := chain.Collect("text-fill")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "green", entries[0].Value.String())
}
