package compare

import (
	"sort"

	"github.com/dmtarl/abcompare/pkg/types"
)

// PairedSample is the inner join of a static (A) and dynamic (B) result set
// on id. All slices are parallel and sorted by id ascending.
type PairedSample struct {
	IDs []int64

	GradeA, GradeB           []float64
	ConfidenceA, ConfidenceB []float64
	CoverageA, CoverageB     []float64
}

// Len returns the number of shared ids.
func (p PairedSample) Len() int { return len(p.IDs) }

// Align joins static and dynamic on id. Ids present in only one set are
// dropped. The output is ordered by id, so it does not depend on the order
// of either input. If a set contains duplicate ids, its first occurrence wins.
func Align(static, dynamic types.ResultSet) PairedSample {
	byID := index(dynamic)

	seen := make(map[int64]struct{}, len(static.Records))
	pairs := make([][2]types.Record, 0, min(len(static.Records), len(byID)))
	for _, a := range static.Records {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		if b, ok := byID[a.ID]; ok {
			pairs = append(pairs, [2]types.Record{a, b})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0].ID < pairs[j][0].ID })

	n := len(pairs)
	out := PairedSample{
		IDs:         make([]int64, n),
		GradeA:      make([]float64, n),
		GradeB:      make([]float64, n),
		ConfidenceA: make([]float64, n),
		ConfidenceB: make([]float64, n),
		CoverageA:   make([]float64, n),
		CoverageB:   make([]float64, n),
	}
	for i, p := range pairs {
		a, b := p[0], p[1]
		out.IDs[i] = a.ID
		out.GradeA[i], out.GradeB[i] = a.InferredGrade, b.InferredGrade
		out.ConfidenceA[i], out.ConfidenceB[i] = a.Confidence, b.Confidence
		out.CoverageA[i], out.CoverageB[i] = a.CoverageMean, b.CoverageMean
	}
	return out
}

// index maps id to the first record carrying it.
func index(set types.ResultSet) map[int64]types.Record {
	m := make(map[int64]types.Record, len(set.Records))
	for _, r := range set.Records {
		if _, ok := m[r.ID]; !ok {
			m[r.ID] = r
		}
	}
	return m
}
