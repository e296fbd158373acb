package maybe_test

import (
	"testing"

	. "github.com/npillmayer/fold/maybe"
)

func TestMaybeGet(t *testing.T) {
	if xx, ok := Just(7).Get(); !ok || xx != 7 {
		t.Errorf("expected Just(7) to have value 7, has %d", xx)
	}
	var zero Maybe[int]
	if zero.IsJust() {
		t.Error("expected zero value to be unset")
	}
	if _, ok := zero.Get(); ok {
		t.Error("expected Get of zero value to report unset")
	}
	if s := zero.String(); s != "auto" {
		t.Errorf("expected unset value to print as auto, is %q", s)
	}
}

func TestMaybeOr(t *testing.T) {
	var unset Maybe[int]
	outer, inner := Just(1), unset
	if v, _ := inner.Or(outer).Get(); v != 1 {
		t.Errorf("expected unset inner to fall back to outer 1, is %d", v)
	}
	inner = Just(2)
	if v, _ := inner.Or(outer).Get(); v != 2 {
		t.Errorf("expected set inner 2 to win, is %d", v)
	}
	if unset.Or(unset).IsJust() {
		t.Error("expected unset | unset to be unset")
	}
}
