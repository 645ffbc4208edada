package stdlib

import (
	"math"

	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/rnumber"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// RegisterMath binds the `math` library's extra functions beyond the
// core Binary/Unary operators — no third-party numerics library appears
// anywhere in the pack, so this module is stdlib math by necessity
// rather than preference (spec.md DOMAIN STACK table).
func RegisterMath(reg *extern.Registry) {
	reg.Register("math", "sqrt", mathUnary(math.Sqrt, "math_sqrt"))
	reg.Register("math", "floor", mathUnary(math.Floor, "math_floor"))
	reg.Register("math", "ceil", mathUnary(math.Ceil, "math_ceil"))
	reg.Register("math", "abs", mathUnary(math.Abs, "math_abs"))
	reg.Register("math", "sin", mathUnary(math.Sin, "math_sin"))
	reg.Register("math", "cos", mathUnary(math.Cos, "math_cos"))
	reg.Register("math", "log", mathUnary(math.Log, "math_log"))
	reg.Register("math", "pow", mathPow)
}

func mathUnary(f func(float64) float64, name string) extern.Callback {
	return func(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
		x, err := argNumber(args, 0, name)
		if err != nil {
			return value.Nil, err
		}
		return value.Num(rnumber.Float(f(x))), nil
	}
}

func mathPow(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	base, err := argNumber(args, 0, "math_pow")
	if err != nil {
		return value.Nil, err
	}
	exp, err := argNumber(args, 1, "math_pow")
	if err != nil {
		return value.Nil, err
	}
	return value.Num(rnumber.Float(math.Pow(base, exp))), nil
}
