package compare

import (
	"math"
	"strconv"
)

// Value is the result of a metric computation. The zero Value is not
// computable.
type Value struct {
	v  float64
	ok bool
}

// Computed wraps a successfully computed statistic.
func Computed(v float64) Value {
	return Value{v: v, ok: true}
}

// NotComputable returns the marker used when a statistic is undefined
// (insufficient data, zero variance predictor, empty join).
func NotComputable() Value {
	return Value{}
}

// Get returns the value and whether it was computable.
func (v Value) Get() (float64, bool) {
	return v.v, v.ok
}

// OK reports whether the value was computable.
func (v Value) OK() bool { return v.ok }

// Float64 returns the value, or NaN when not computable.
func (v Value) Float64() float64 {
	if !v.ok {
		return math.NaN()
	}
	return v.v
}

// Round returns v rounded to the given number of decimal places, half away
// from zero. Not-computable values stay not computable.
func (v Value) Round(places int) Value {
	if !v.ok {
		return v
	}
	return Computed(round(v.v, places))
}

// String formats the value for tabular output. Not-computable values render
// as the empty string.
func (v Value) String() string {
	if !v.ok {
		return ""
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

func round(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	r := math.Round(x*scale) / scale
	if r == 0 {
		// Drop the sign of -0 so equal summaries print identically.
		return 0
	}
	return r
}
