package state

import (
	"errors"
	"testing"

	"github.com/npillmayer/fold/loc"
	"github.com/npillmayer/fold/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) loc.Location {
	return loc.MustParse(s)
}

func TestDeclareIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.state")
	defer teardown()
	//
	eng := NewEngine()
	c1, err := eng.Declare("c", nil)
	require.NoError(t, err)
	c2, err := eng.Declare("c", style.Int(5))
	require.NoError(t, err)
	assert.Same(t, c1, c2)
	assert.Equal(t, style.Int(0), c2.Initial())
	_, err = eng.Declare("c", style.Bool(true))
	assert.True(t, errors.Is(err, style.ErrTypeMismatch))
	_, err = eng.Lookup("d")
	assert.True(t, errors.Is(err, ErrUnknownSlot))
}

func TestQueryWithoutUpdates(t *testing.T) {
	eng := NewEngine()
	c, _ := eng.Declare("heading", style.Int(3))
	v, err := eng.Query(c, at("0.7.1"))
	require.NoError(t, err)
	assert.Equal(t, style.Int(3), v)
	v, err = eng.Final(c)
	require.NoError(t, err)
	assert.Equal(t, style.Int(3), v)
}

func TestQueryReplaysInDocumentOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.state")
	defer teardown()
	//
	eng := NewEngine()
	c, _ := eng.Declare("c", nil)
	// recorded out of document order
	require.NoError(t, eng.Update(c, MustExpr("value * 10"), at("0.4")))
	require.NoError(t, eng.Update(c, Set(style.Int(1)), at("0.1")))
	require.NoError(t, eng.Update(c, Step(2), at("0.2.5")))
	require.NoError(t, eng.Update(c, Step(1), at("0.2#1")))
	var locs []string
	for _, r := range eng.Log(c) {
		locs = append(locs, r.String())
	}
	assert.Equal(t, []string{"0.1:set(1)", "0.2#1:step(1)", "0.2.5:step(2)", "0.4:expr(value * 10)"}, locs)
	cases := map[string]style.Int{
		"0":     0,
		"0.1":   1,
		"0.2":   1,
		"0.2#1": 2,
		"0.2.6": 4,
		"0.4":   40,
		"0.9":   40,
	}
	for l, expect := range cases {
		v, err := eng.Query(c, at(l))
		require.NoError(t, err)
		assert.Equal(t, expect, v, l)
	}
	t.Log(eng)
}

func TestQueryAtLastEqualsFoldOfLog(t *testing.T) {
	eng := NewEngine()
	c, _ := eng.Declare("c", nil)
	var last loc.Location
	fold := style.Int(0)
	for i := 0; i < 20; i++ {
		last = loc.Root().Child(i)
		if i%3 == 0 {
			require.NoError(t, eng.Update(c, Set(style.Int(i)), last))
			fold = style.Int(i)
		} else {
			require.NoError(t, eng.Update(c, Step(i), last))
			fold += style.Int(i)
		}
	}
	v, err := eng.Query(c, last)
	require.NoError(t, err)
	assert.Equal(t, fold, v)
	v, err = eng.Final(c)
	require.NoError(t, err)
	assert.Equal(t, fold, v)
}

func TestAmbiguousLocation(t *testing.T) {
	eng := NewEngine()
	c, _ := eng.Declare("c", nil)
	d, _ := eng.Declare("d", nil)
	require.NoError(t, eng.Update(c, Step(1), at("0.1")))
	err := eng.Update(d, Step(1), at("0.1"))
	assert.True(t, errors.Is(err, ErrAmbiguousLocation))
	require.NoError(t, eng.Update(d, Step(1), at("0.1#1")))
	eng.BeginPass()
	assert.NoError(t, eng.Update(c, Step(1), at("0.1")), "new pass starts with a fresh log")
}

func TestUpdateTypeChecks(t *testing.T) {
	eng := NewEngine()
	lang, _ := eng.Declare("lang", style.String("en"))
	err := eng.Update(lang, Set(style.Int(1)), at("0.1"))
	assert.True(t, errors.Is(err, style.ErrTypeMismatch))
	require.NoError(t, eng.Update(lang, Step(1), at("0.2")))
	_, err = eng.Query(lang, at("0.3"))
	assert.True(t, errors.Is(err, ErrOp))
	other := NewEngine()
	_, err = other.Query(lang, at("0.3"))
	assert.True(t, errors.Is(err, ErrUnknownSlot))
}

func TestExprOps(t *testing.T) {
	eng := NewEngine()
	lead, _ := eng.Declare("lead", style.Pt(2))
	flag, _ := eng.Declare("flag", style.Bool(false))
	require.NoError(t, eng.Update(lead, MustExpr("value * 1.5"), at("0.1")))
	require.NoError(t, eng.Update(flag, MustExpr("!value"), at("0.2")))
	v, err := eng.Query(lead, at("0.3"))
	require.NoError(t, err)
	assert.Equal(t, style.Pt(3), v)
	v, err = eng.Query(flag, at("0.3"))
	require.NoError(t, err)
	assert.Equal(t, style.Bool(true), v)
	_, err = Expr("value +")
	assert.True(t, errors.Is(err, ErrOp))
	require.NoError(t, eng.Update(flag, MustExpr(`"yes"`), at("0.4")))
	_, err = eng.Final(flag)
	assert.True(t, errors.Is(err, style.ErrTypeMismatch))
}

func TestForwardQueryUsesPreviousPass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fold.state")
	defer teardown()
	//
	eng := NewEngine()
	c, _ := eng.Declare("c", nil)
	layout := func() (style.Value, style.Value) {
		eng.BeginPass()
		require.NoError(t, eng.Update(c, Step(1), at("0.0")))
		eng.Enter(at("0.1"))
		here, err := eng.Query(c, at("0.1"))
		require.NoError(t, err)
		total, err := eng.Final(c)
		require.NoError(t, err)
		// content produced after the queries
		require.NoError(t, eng.Update(c, Step(1), at("0.1.0")))
		require.NoError(t, eng.Update(c, Step(1), at("0.2")))
		return here, total
	}
	here, total := layout()
	assert.Equal(t, style.Int(1), here)
	assert.Equal(t, style.Int(1), total)
	stable, diffs := eng.EndPass()
	assert.False(t, stable)
	require.Len(t, diffs, 1)
	assert.Equal(t, style.Int(3), diffs[0].After)
	assert.True(t, diffs[0].At.IsZero())
	t.Log(diffs[0])
	//
	here, total = layout()
	assert.Equal(t, style.Int(1), here)
	assert.Equal(t, style.Int(3), total)
	stable, diffs = eng.EndPass()
	assert.True(t, stable)
	assert.Empty(t, diffs)
	assert.Equal(t, 2, eng.Pass())
}

func TestUpdateBehindCursorIsDivergence(t *testing.T) {
	eng := NewEngine()
	c, _ := eng.Declare("c", nil)
	eng.BeginPass()
	eng.Enter(at("0.5"))
	v, err := eng.Query(c, at("0.5"))
	require.NoError(t, err)
	assert.Equal(t, style.Int(0), v)
	require.NoError(t, eng.Update(c, Set(style.Int(7)), at("0.3")))
	stable, diffs := eng.EndPass()
	assert.False(t, stable)
	require.Len(t, diffs, 1)
	assert.Equal(t, at("0.5"), diffs[0].At)
	assert.Equal(t, style.Int(7), diffs[0].After)
	assert.Panics(t, func() {
		eng.BeginPass()
		eng.Enter(at("0.5"))
		eng.Enter(at("0.4"))
	})
}
