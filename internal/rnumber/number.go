// Package rnumber is the numeric kernel: a dual-representation number that
// is either a 64-bit signed integer or a 64-bit double, with automatic
// demotion of integer-valued doubles back to the integer tag after every
// arithmetic operation.
package rnumber

import (
	"math"
	"strconv"
	"strings"
)

// Number is either an integer or a double. IsInt reports which.
type Number struct {
	i     int64
	f     float64
	isInt bool
}

// Int builds an integer Number.
func Int(i int64) Number { return Number{i: i, isInt: true} }

// Float builds a double Number, immediately re-normalizing it to integer
// if it is exactly representable as one (invariant 1 in spec.md §8.1).
func Float(f float64) Number { return normalize(Number{f: f, isInt: false}) }

// IsInt reports whether n currently carries the integer tag.
func (n Number) IsInt() bool { return n.isInt }

// Int64 returns n truncated to an int64, regardless of tag.
func (n Number) Int64() int64 {
	if n.isInt {
		return n.i
	}
	return int64(n.f)
}

// Float64 returns n widened to a float64, regardless of tag.
func (n Number) Float64() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

// normalize re-tags a double-valued Number as integer when it is exactly
// representable as its integer truncation (spec.md §3.1, §4.1, §8.1-1).
func normalize(n Number) Number {
	if n.isInt {
		return n
	}
	if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
		return n
	}
	if n.f == math.Trunc(n.f) && n.f >= math.MinInt64 && n.f <= math.MaxInt64 {
		return Number{i: int64(n.f), isInt: true}
	}
	return n
}

// Add, Sub, Mul implement the dual-representation arithmetic: integer
// operands stay integer (with overflow silently falling back to double
// per spec.md §8.3), anything touching a double re-normalizes on exit.
func Add(a, b Number) Number {
	if a.isInt && b.isInt {
		sum := a.i + b.i
		if overflowsAdd(a.i, b.i, sum) {
			return normalize(Float(float64(a.i) + float64(b.i)))
		}
		return Int(sum)
	}
	return normalize(Float(a.Float64() + b.Float64()))
}

func Sub(a, b Number) Number {
	if a.isInt && b.isInt {
		diff := a.i - b.i
		if overflowsSub(a.i, b.i, diff) {
			return normalize(Float(float64(a.i) - float64(b.i)))
		}
		return Int(diff)
	}
	return normalize(Float(a.Float64() - b.Float64()))
}

func Mul(a, b Number) Number {
	if a.isInt && b.isInt {
		prod := a.i * b.i
		if overflowsMul(a.i, b.i, prod) {
			return normalize(Float(float64(a.i) * float64(b.i)))
		}
		return Int(prod)
	}
	return normalize(Float(a.Float64() * b.Float64()))
}

// Div divides two numbers: integer÷integer yields an integer when the
// divisor evenly divides, otherwise a double; divisor 0 yields +Inf
// (spec.md §3.1, §4.1, §8.3).
func Div(a, b Number) Number {
	if a.isInt && b.isInt {
		if b.i == 0 {
			return normalize(Float(math.Inf(1)))
		}
		if a.i%b.i == 0 {
			return Int(a.i / b.i)
		}
		return normalize(Float(float64(a.i) / float64(b.i)))
	}
	bf := b.Float64()
	if bf == 0 {
		return normalize(Float(math.Inf(1)))
	}
	return normalize(Float(a.Float64() / bf))
}

// Mod computes the remainder. Follows Go's integer %; double operands use
// math.Mod.
func Mod(a, b Number) Number {
	if a.isInt && b.isInt {
		if b.i == 0 {
			return normalize(Float(math.NaN()))
		}
		return Int(a.i % b.i)
	}
	return normalize(Float(math.Mod(a.Float64(), b.Float64())))
}

// Pow computes a**b.
func Pow(a, b Number) Number {
	return normalize(Float(math.Pow(a.Float64(), b.Float64())))
}

func bitwise(a, b Number, f func(x, y int64) int64) Number {
	return Int(f(a.Int64(), b.Int64()))
}

func And(a, b Number) Number      { return bitwise(a, b, func(x, y int64) int64 { return x & y }) }
func Or(a, b Number) Number       { return bitwise(a, b, func(x, y int64) int64 { return x | y }) }
func Xor(a, b Number) Number      { return bitwise(a, b, func(x, y int64) int64 { return x ^ y }) }
func Shl(a, b Number) Number      { return bitwise(a, b, func(x, y int64) int64 { return x << uint64(y) }) }
func Shr(a, b Number) Number      { return bitwise(a, b, func(x, y int64) int64 { return x >> uint64(y) }) }
func Not(a Number) Number         { return Int(^a.Int64()) }
func Neg(a Number) Number {
	if a.isInt {
		return Int(-a.i)
	}
	return normalize(Float(-a.f))
}

// Cmp returns -1, 0, or 1 comparing a and b numerically, irrespective of
// tag (spec.md §3.1: "Comparison is numeric, not tag-aware").
func Cmp(a, b Number) int {
	af, bf := a.Float64(), b.Float64()
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

// Equal is tag-aware: spec.md §3.1 requires equality to require the same
// tag, unlike ordering.
func Equal(a, b Number) bool {
	if a.isInt != b.isInt {
		return false
	}
	if a.isInt {
		return a.i == b.i
	}
	return a.f == b.f
}

// String formats n. Doubles use maximum decimal precision, then strip
// trailing zeros and a trailing decimal point (spec.md §4.1).
func (n Number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}
	if math.IsInf(n.f, 1) {
		return "inf"
	}
	if math.IsInf(n.f, -1) {
		return "-inf"
	}
	if math.IsNaN(n.f) {
		return "nan"
	}
	s := strconv.FormatFloat(n.f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// Parse parses a numeric literal per the coercion table in spec.md §4.6:
// decimal integer/double, 0b binary, 0x hex, or the inf/nan keywords.
func Parse(s string) (Number, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "inf":
		return Float(math.Inf(1)), true
	case "-inf":
		return Float(math.Inf(-1)), true
	case "nan":
		return Float(math.NaN()), true
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0b"):
		if i, err := strconv.ParseInt(s[2:], 2, 64); err == nil {
			return Int(i), true
		}
		return Number{}, false
	case strings.HasPrefix(lower, "0x"):
		if i, err := strconv.ParseInt(s[2:], 16, 64); err == nil {
			return Int(i), true
		}
		return Number{}, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return normalize(Float(f)), true
	}
	return Number{}, false
}

func overflowsAdd(a, b, sum int64) bool {
	return ((a ^ sum) & (b ^ sum)) < 0
}

func overflowsSub(a, b, diff int64) bool {
	return ((a ^ b) & (a ^ diff)) < 0
}

func overflowsMul(a, b, prod int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	return prod/b != a
}
