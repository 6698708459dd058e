package compare

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrLengthMismatch is returned by paired metrics when the two input slices
// are not the same length. Paired inputs must come from Align.
var ErrLengthMismatch = errors.New("compare: paired inputs differ in length")

// Minimum finite points required before a statistic is defined.
const (
	minVariancePoints = 2
	minSlopePoints    = 2
	minRankPoints     = 3
)

// limitsZ is the normal quantile used for Bland-Altman limits of agreement.
const limitsZ = 1.96

// finite reports whether x is neither NaN nor ±Inf.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// finiteValues returns the finite elements of x in order.
func finiteValues(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if finite(v) {
			out = append(out, v)
		}
	}
	return out
}

// finitePairs returns the positions where both a and b are finite.
func finitePairs(name string, a, b []float64) ([]float64, []float64, error) {
	if len(a) != len(b) {
		return nil, nil, fmt.Errorf("%s: %w (%d vs %d)", name, ErrLengthMismatch, len(a), len(b))
	}
	xa := make([]float64, 0, len(a))
	xb := make([]float64, 0, len(b))
	for i := range a {
		if finite(a[i]) && finite(b[i]) {
			xa = append(xa, a[i])
			xb = append(xb, b[i])
		}
	}
	return xa, xb, nil
}

func mean(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// PairedMeanAbsDiff returns the mean of |a_i - b_i| over positions where both
// values are finite. Not computable when no such position exists.
func PairedMeanAbsDiff(a, b []float64) (Value, error) {
	xa, xb, err := finitePairs("mean abs diff", a, b)
	if err != nil {
		return NotComputable(), err
	}
	if len(xa) == 0 {
		return NotComputable(), nil
	}
	var sum float64
	for i := range xa {
		sum += math.Abs(xa[i] - xb[i])
	}
	return Computed(sum / float64(len(xa))), nil
}

// SampleVariance returns the unbiased (n-1) variance of the finite values
// of x. Not computable with fewer than two finite values.
func SampleVariance(x []float64) Value {
	return sampleVariance(finiteValues(x))
}

// sampleVariance expects x to be finite already.
func sampleVariance(x []float64) Value {
	if len(x) < minVariancePoints {
		return NotComputable()
	}
	m := mean(x)
	var ss float64
	for _, v := range x {
		d := v - m
		ss += d * d
	}
	return Computed(ss / float64(len(x)-1))
}

// RegressionSlope returns the ordinary least-squares slope of y on x:
//
//	Σ(x-x̄)(y-ȳ) / Σ(x-x̄)²
//
// over positions where both are finite. Not computable with fewer than two
// points or when x has no variation.
func RegressionSlope(x, y []float64) (Value, error) {
	xs, ys, err := finitePairs("regression slope", x, y)
	if err != nil {
		return NotComputable(), err
	}
	if len(xs) < minSlopePoints {
		return NotComputable(), nil
	}
	mx, my := mean(xs), mean(ys)
	var num, den float64
	for i := range xs {
		dx := xs[i] - mx
		num += dx * (ys[i] - my)
		den += dx * dx
	}
	if den == 0 {
		return NotComputable(), nil
	}
	return Computed(num / den), nil
}

// RankCorrelation returns Spearman's rho between a and b computed from rank
// differences, ρ = 1 − 6Σd²/(n(n²−1)).
//
// Positions where either value is non-finite are dropped first. When
// maxSamples > 0 and more pairs remain, only the first maxSamples pairs are
// used; this is a prefix, not a random sample, so ordered inputs bias it.
//
// Ranks are ordinal: ties are broken by original position rather than
// averaged. Under heavy ties the result differs from the textbook
// fractional-rank Spearman coefficient.
//
// Not computable with fewer than three pairs.
func RankCorrelation(a, b []float64, maxSamples int) (Value, error) {
	xa, xb, err := finitePairs("rank correlation", a, b)
	if err != nil {
		return NotComputable(), err
	}
	if maxSamples > 0 && len(xa) > maxSamples {
		xa, xb = xa[:maxSamples], xb[:maxSamples]
	}
	n := len(xa)
	if n < minRankPoints {
		return NotComputable(), nil
	}
	ra, rb := ordinalRanks(xa), ordinalRanks(xb)
	var d2 float64
	for i := range ra {
		d := float64(ra[i] - rb[i])
		d2 += d * d
	}
	nf := float64(n)
	return Computed(1 - (6*d2)/(nf*(nf*nf-1))), nil
}

// ordinalRanks returns the 0-based rank of each element of x. Equal values
// keep their original relative order.
func ordinalRanks(x []float64) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })
	ranks := make([]int, len(x))
	for r, i := range idx {
		ranks[i] = r
	}
	return ranks
}

// Agreement is the Bland-Altman summary of the differences b − a.
type Agreement struct {
	Bias  Value // mean difference
	SD    Value // sample standard deviation of the differences
	Lower Value // Bias − 1.96·SD
	Upper Value // Bias + 1.96·SD
	N     int   // jointly finite pairs used
}

// BlandAltman computes the mean difference (b − a) and the 95% limits of
// agreement over jointly finite pairs. Bias needs one pair; SD and the
// limits need two.
func BlandAltman(a, b []float64) (Agreement, error) {
	xa, xb, err := finitePairs("bland-altman", a, b)
	if err != nil {
		return Agreement{}, err
	}
	out := Agreement{N: len(xa)}
	if len(xa) == 0 {
		return out, nil
	}
	diff := make([]float64, len(xa))
	for i := range xa {
		diff[i] = xb[i] - xa[i]
	}
	bias := mean(diff)
	out.Bias = Computed(bias)

	variance := sampleVariance(diff)
	if v, ok := variance.Get(); ok {
		sd := math.Sqrt(v)
		out.SD = Computed(sd)
		out.Lower = Computed(bias - limitsZ*sd)
		out.Upper = Computed(bias + limitsZ*sd)
	}
	return out, nil
}
