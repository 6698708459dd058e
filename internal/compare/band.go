package compare

import (
	"fmt"

	"github.com/dmtarl/abcompare/pkg/types"
)

// BandHalfWidth is the half-width of every grade boundary band.
const BandHalfWidth = 0.25

// minBandMembers is the smallest band population with a reported variance.
const minBandMembers = 3

// Band is a closed window [Center-HalfWidth, Center+HalfWidth] of inferred
// grades. Bands closer than 2·HalfWidth overlap; a grade may fall in several.
type Band struct {
	Center    float64
	HalfWidth float64
}

// DefaultBands returns the grade boundary bands G3..G6.
func DefaultBands() []Band {
	return []Band{
		{Center: 3, HalfWidth: BandHalfWidth},
		{Center: 4, HalfWidth: BandHalfWidth},
		{Center: 5, HalfWidth: BandHalfWidth},
		{Center: 6, HalfWidth: BandHalfWidth},
	}
}

// Label returns the short name used in summary field names, e.g. "G4".
func (b Band) Label() string {
	return fmt.Sprintf("G%g", b.Center)
}

// Contains reports whether g lies within the closed window.
func (b Band) Contains(g float64) bool {
	return g >= b.Center-b.HalfWidth && g <= b.Center+b.HalfWidth
}

// BandResult is the variance of one set's grades within one band.
type BandResult struct {
	Band     Band
	Members  int
	Variance Value
}

// BandPair holds the static and dynamic variance for one band.
type BandPair struct {
	Band    Band
	Static  BandResult
	Dynamic BandResult
}

// BandVariance returns the sample variance of the finite grades inside b.
// Not computable when fewer than three grades fall in the band.
func BandVariance(grades []float64, b Band) Value {
	return bandResult(grades, b).Variance
}

func bandResult(grades []float64, b Band) BandResult {
	members := make([]float64, 0)
	for _, g := range grades {
		if finite(g) && b.Contains(g) {
			members = append(members, g)
		}
	}
	res := BandResult{Band: b, Members: len(members)}
	if len(members) < minBandMembers {
		res.Variance = NotComputable()
		return res
	}
	res.Variance = sampleVariance(members)
	return res
}

// BandVariances evaluates every band against one result set's grades.
func BandVariances(set types.ResultSet, bands []Band) []BandResult {
	grades := set.Grades()
	out := make([]BandResult, len(bands))
	for i, b := range bands {
		out[i] = bandResult(grades, b)
	}
	return out
}

// CompareBands evaluates every band independently for both sets.
func CompareBands(static, dynamic types.ResultSet, bands []Band) []BandPair {
	rs := BandVariances(static, bands)
	rd := BandVariances(dynamic, bands)
	out := make([]BandPair, len(bands))
	for i, b := range bands {
		out[i] = BandPair{Band: b, Static: rs[i], Dynamic: rd[i]}
	}
	return out
}
