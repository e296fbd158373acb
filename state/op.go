package state

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/npillmayer/fold/style"
)

// Op is an update operation of a slot. Ops are pure: they compute a new value
// from the current one.
type Op interface {
	Apply(v style.Value) (style.Value, error)
	String() string
}

// Set replaces the current value.
func Set(v style.Value) Op {
	return setOp{value: v}
}

type setOp struct {
	value style.Value
}

func (op setOp) Apply(style.Value) (style.Value, error) {
	return op.value, nil
}

func (op setOp) String() string {
	return "set(" + op.value.String() + ")"
}

// Func computes the new value with a function. The name is used for
// diagnostics only.
func Func(name string, fn func(style.Value) style.Value) Op {
	assertThat(fn != nil, "update function for %q is nil", name)
	return funcOp{name: name, fn: fn}
}

type funcOp struct {
	name string
	fn   func(style.Value) style.Value
}

func (op funcOp) Apply(v style.Value) (style.Value, error) {
	return op.fn(v), nil
}

func (op funcOp) String() string {
	return "update(" + op.name + ")"
}

// Step adds n to an integer counter.
func Step(n int) Op {
	return stepOp(n)
}

type stepOp int

func (op stepOp) Apply(v style.Value) (style.Value, error) {
	i, ok := v.(style.Int)
	if !ok {
		return nil, fmt.Errorf("%w: cannot step %s value %s", ErrOp, v.Kind(), v)
	}
	return i + style.Int(op), nil
}

func (op stepOp) String() string {
	return fmt.Sprintf("step(%d)", int(op))
}

// Expr compiles an expression computing the new value. The current value is
// bound to the variable `value`:
//
//	value * 2 + 1
//
// Integer, float, bool and string values are handed to the expression as
// Go values; lengths as float points.
func Expr(src string) (Op, error) {
	program, err := expr.Compile(src,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: expression %q: %v", ErrOp, src, err)
	}
	return exprOp{src: src, program: program}, nil
}

// MustExpr is like Expr, but panics on compile errors.
func MustExpr(src string) Op {
	op, err := Expr(src)
	assertThat(err == nil, "%v", err)
	return op
}

type exprOp struct {
	src     string
	program *vm.Program
}

func (op exprOp) Apply(v style.Value) (style.Value, error) {
	in, err := native(v)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(op.program, map[string]any{"value": in})
	if err != nil {
		return nil, fmt.Errorf("%w: expression %q: %v", ErrOp, op.src, err)
	}
	r, err := fromNative(v.Kind(), out)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", op.src, err)
	}
	return r, nil
}

func (op exprOp) String() string {
	return "expr(" + op.src + ")"
}

func native(v style.Value) (any, error) {
	switch x := v.(type) {
	case style.Int:
		return int(x), nil
	case style.Float:
		return float64(x), nil
	case style.Bool:
		return bool(x), nil
	case style.String:
		return string(x), nil
	case style.Length:
		return x.Points(), nil
	}
	return nil, fmt.Errorf("%w: %s values are not supported in expressions", ErrOp, v.Kind())
}

func fromNative(k style.Kind, x any) (style.Value, error) {
	switch k {
	case style.KindInt:
		switch n := x.(type) {
		case int:
			return style.Int(n), nil
		case int64:
			return style.Int(n), nil
		case float64:
			if n == math.Trunc(n) {
				return style.Int(n), nil
			}
		}
	case style.KindFloat, style.KindLength:
		var f float64
		switch n := x.(type) {
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		case float64:
			f = n
		default:
			return nil, fmt.Errorf("%w: expression yields %T for %s", style.ErrTypeMismatch, x, k)
		}
		if k == style.KindLength {
			return style.Pt(f), nil
		}
		return style.Float(f), nil
	case style.KindBool:
		if b, ok := x.(bool); ok {
			return style.Bool(b), nil
		}
	case style.KindString:
		if s, ok := x.(string); ok {
			return style.String(s), nil
		}
	}
	return nil, fmt.Errorf("%w: expression yields %T for %s", style.ErrTypeMismatch, x, k)
}
