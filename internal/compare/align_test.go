package compare

import (
	"reflect"
	"testing"

	"github.com/dmtarl/abcompare/pkg/types"
)

// rec builds a Record with the given id and grade; confidence and coverage
// are fixed.
func rec(id int64, grade float64) types.Record {
	return types.Record{ID: id, InferredGrade: grade, Confidence: 0.5, CoverageMean: 0.5}
}

func set(name string, records ...types.Record) types.ResultSet {
	return types.ResultSet{Name: name, Records: records}
}

func TestAlign_IntersectionSize(t *testing.T) {
	tests := []struct {
		name            string
		static, dynamic types.ResultSet
		wantIDs         []int64
	}{
		{
			name:    "full overlap",
			static:  set("static", rec(1, 4), rec(2, 5)),
			dynamic: set("dynamic", rec(1, 4.2), rec(2, 4.8)),
			wantIDs: []int64{1, 2},
		},
		{
			name:    "partial overlap, differing sizes",
			static:  set("static", rec(1, 4), rec(2, 5), rec(3, 3)),
			dynamic: set("dynamic", rec(3, 3.1), rec(4, 2)),
			wantIDs: []int64{3},
		},
		{
			name:    "no overlap",
			static:  set("static", rec(1, 4), rec(2, 5)),
			dynamic: set("dynamic", rec(7, 4), rec(8, 5)),
			wantIDs: []int64{},
		},
		{
			name:    "empty static",
			static:  set("static"),
			dynamic: set("dynamic", rec(1, 4)),
			wantIDs: []int64{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Align(tc.static, tc.dynamic)
			if p.Len() != len(tc.wantIDs) {
				t.Fatalf("Len = %d, want %d", p.Len(), len(tc.wantIDs))
			}
			if !reflect.DeepEqual(p.IDs, tc.wantIDs) {
				t.Errorf("IDs = %v, want %v", p.IDs, tc.wantIDs)
			}
			if len(p.GradeA) != p.Len() || len(p.GradeB) != p.Len() ||
				len(p.ConfidenceA) != p.Len() || len(p.CoverageB) != p.Len() {
				t.Error("paired slices must all have Len() elements")
			}
		})
	}
}

func TestAlign_OrderIndependent(t *testing.T) {
	s1 := set("static", rec(1, 4), rec(2, 5), rec(3, 3), rec(9, 6))
	d1 := set("dynamic", rec(2, 4.5), rec(3, 3.5), rec(1, 4.1))

	s2 := set("static", rec(9, 6), rec(3, 3), rec(1, 4), rec(2, 5))
	d2 := set("dynamic", rec(1, 4.1), rec(3, 3.5), rec(2, 4.5))

	p1, p2 := Align(s1, d1), Align(s2, d2)
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("alignment depends on input order:\n%+v\n%+v", p1, p2)
	}
	want := []float64{4.1, 4.5, 3.5}
	if !reflect.DeepEqual(p1.GradeB, want) {
		t.Errorf("GradeB = %v, want %v (sorted by id)", p1.GradeB, want)
	}
}

func TestAlign_CarriesAllFields(t *testing.T) {
	s := set("static", types.Record{ID: 5, InferredGrade: 4, Confidence: 0.7, CoverageMean: 0.6})
	d := set("dynamic", types.Record{ID: 5, InferredGrade: 4.5, Confidence: 0.8, CoverageMean: 0.9})
	p := Align(s, d)
	if p.Len() != 1 {
		t.Fatalf("Len = %d, want 1", p.Len())
	}
	if p.GradeA[0] != 4 || p.GradeB[0] != 4.5 {
		t.Errorf("grades = %v/%v", p.GradeA[0], p.GradeB[0])
	}
	if p.ConfidenceA[0] != 0.7 || p.ConfidenceB[0] != 0.8 {
		t.Errorf("confidences = %v/%v", p.ConfidenceA[0], p.ConfidenceB[0])
	}
	if p.CoverageA[0] != 0.6 || p.CoverageB[0] != 0.9 {
		t.Errorf("coverages = %v/%v", p.CoverageA[0], p.CoverageB[0])
	}
}

func TestAlign_DuplicateFirstWins(t *testing.T) {
	s := set("static", rec(1, 4), rec(1, 2))
	d := set("dynamic", rec(1, 5), rec(1, 6))
	p := Align(s, d)
	if p.Len() != 1 {
		t.Fatalf("Len = %d, want 1", p.Len())
	}
	if p.GradeA[0] != 4 || p.GradeB[0] != 5 {
		t.Errorf("got %v/%v, want first occurrences 4/5", p.GradeA[0], p.GradeB[0])
	}
}
