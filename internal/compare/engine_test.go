package compare

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/dmtarl/abcompare/pkg/types"
)

var wantHeader = []string{
	"mean_abs_grade_diff",
	"var_grade_static",
	"var_grade_dynamic",
	"slope_conf_cov_static",
	"slope_conf_cov_dynamic",
	"spearman_rho",
	"var_band_G3_static",
	"var_band_G3_dynamic",
	"var_band_G4_static",
	"var_band_G4_dynamic",
	"var_band_G5_static",
	"var_band_G5_dynamic",
	"var_band_G6_static",
	"var_band_G6_dynamic",
	"static_path",
	"dynamic_path",
}

// --- End-to-end scenarios ---

func TestEngine_TwoMatchingRecords(t *testing.T) {
	static := set("static",
		types.Record{ID: 1, InferredGrade: 4.0, Confidence: 0.5, CoverageMean: 0.5},
		types.Record{ID: 2, InferredGrade: 5.0, Confidence: 0.6, CoverageMean: 0.6},
	)
	dynamic := set("dynamic",
		types.Record{ID: 1, InferredGrade: 4.2, Confidence: 0.5, CoverageMean: 0.5},
		types.Record{ID: 2, InferredGrade: 4.8, Confidence: 0.6, CoverageMean: 0.6},
	)

	res, err := NewEngine(Options{MaxRankSamples: DefaultMaxRankSamples}).Run(static, dynamic, "s.csv", "d.csv")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Metrics.Pairs != 2 {
		t.Errorf("Pairs = %d, want 2", res.Metrics.Pairs)
	}

	s := res.Summary
	if got := mustValue(t, s.MeanAbsGradeDiff); got != 0.2 {
		t.Errorf("mean_abs_grade_diff = %v, want 0.2", got)
	}
	if got := mustValue(t, s.VarGradeStatic); got != 0.5 {
		t.Errorf("var_grade_static = %v, want 0.5", got)
	}
	if got := mustValue(t, s.VarGradeDynamic); got != 0.18 {
		t.Errorf("var_grade_dynamic = %v, want 0.18", got)
	}
	if got := mustValue(t, s.SlopeConfCovStatic); got != 1 {
		t.Errorf("slope_conf_cov_static = %v, want 1", got)
	}
	if s.SpearmanRho.OK() {
		t.Error("spearman_rho needs three pairs, want not computable")
	}
	for _, bp := range s.Bands {
		if bp.Static.Variance.OK() || bp.Dynamic.Variance.OK() {
			t.Errorf("band %s should not be computable with two records", bp.Band.Label())
		}
	}

	row := s.Row()
	if row[0] != "0.2" {
		t.Errorf("row[0] = %q, want 0.2", row[0])
	}
	if row[5] != "" {
		t.Errorf("spearman cell = %q, want empty", row[5])
	}
	if row[14] != "s.csv" || row[15] != "d.csv" {
		t.Errorf("paths = %q, %q", row[14], row[15])
	}
}

func TestEngine_NoOverlap(t *testing.T) {
	static := set("static",
		types.Record{ID: 1, InferredGrade: 3.0, Confidence: 0.4, CoverageMean: 0.5},
		types.Record{ID: 2, InferredGrade: 4.0, Confidence: 0.6, CoverageMean: 0.7},
		types.Record{ID: 3, InferredGrade: 5.0, Confidence: 0.8, CoverageMean: 0.9},
	)
	dynamic := set("dynamic",
		types.Record{ID: 4, InferredGrade: 3.5, Confidence: 0.5, CoverageMean: 0.6},
		types.Record{ID: 5, InferredGrade: 4.5, Confidence: 0.7, CoverageMean: 0.8},
		types.Record{ID: 6, InferredGrade: 5.5, Confidence: 0.7, CoverageMean: 0.8},
	)

	m, err := NewEngine(Options{}).Compare(static, dynamic)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if m.Pairs != 0 {
		t.Errorf("Pairs = %d, want 0", m.Pairs)
	}
	if m.MeanAbsGradeDiff.OK() || m.SpearmanRho.OK() || m.Agreement.Bias.OK() {
		t.Error("paired metrics should be not computable without shared ids")
	}
	if !m.VarGradeStatic.OK() || !m.VarGradeDynamic.OK() {
		t.Error("single-set variance should stay computable")
	}
	if !m.SlopeConfCovStatic.OK() || !m.SlopeConfCovDynamic.OK() {
		t.Error("single-set slope should stay computable")
	}

	// The record shape is complete even when fields are unrepresentable.
	s := Assemble(m, "a", "b")
	if got := s.Header(); !reflect.DeepEqual(got, wantHeader) {
		t.Errorf("Header = %v, want %v", got, wantHeader)
	}
	if got := len(s.Row()); got != len(wantHeader) {
		t.Errorf("Row has %d cells, want %d", got, len(wantHeader))
	}
}

// --- Summary shape ---

func TestSummary_FieldOrder(t *testing.T) {
	s := Assemble(&Metrics{Bands: CompareBands(set("s"), set("d"), DefaultBands())}, "", "")
	if got := s.Header(); !reflect.DeepEqual(got, wantHeader) {
		t.Errorf("Header =\n%v\nwant\n%v", got, wantHeader)
	}
}

func TestAssemble_Rounding(t *testing.T) {
	m := &Metrics{
		MeanAbsGradeDiff: Computed(0.123456),
		SpearmanRho:      Computed(0.98765),
		Bands: []BandPair{{
			Band:    DefaultBands()[0],
			Static:  BandResult{Variance: Computed(0.0123456)},
			Dynamic: BandResult{Variance: NotComputable()},
		}},
	}
	s := Assemble(m, "", "")
	if got := mustValue(t, s.MeanAbsGradeDiff); got != 0.123 {
		t.Errorf("3dp rounding: got %v", got)
	}
	if got := mustValue(t, s.SpearmanRho); got != 0.988 {
		t.Errorf("3dp rounding: got %v", got)
	}
	if got := mustValue(t, s.Bands[0].Static.Variance); got != 0.0123 {
		t.Errorf("4dp rounding: got %v", got)
	}
	if s.Bands[0].Dynamic.Variance.OK() {
		t.Error("sentinel should survive rounding")
	}
	// The unrounded metrics are left untouched.
	if got := mustValue(t, m.MeanAbsGradeDiff); got != 0.123456 {
		t.Errorf("Assemble mutated metrics: %v", got)
	}
}

// --- Determinism ---

// randomSets builds two overlapping result sets from a fixed seed.
func randomSets(n int) (types.ResultSet, types.ResultSet) {
	rng := rand.New(rand.NewSource(11))
	static := types.ResultSet{Name: "static"}
	dynamic := types.ResultSet{Name: "dynamic"}
	for i := 0; i < n; i++ {
		g := 1 + rng.Float64()*5
		cov := 0.5 + rng.Float64()/2
		static.Records = append(static.Records, types.Record{
			ID: int64(i), InferredGrade: g, Confidence: rng.Float64(), CoverageMean: cov,
		})
		if i%10 == 0 {
			continue
		}
		dynamic.Records = append(dynamic.Records, types.Record{
			ID: int64(i), InferredGrade: g + rng.NormFloat64()*0.3, Confidence: rng.Float64(), CoverageMean: cov,
		})
	}
	rng.Shuffle(len(dynamic.Records), func(i, j int) {
		dynamic.Records[i], dynamic.Records[j] = dynamic.Records[j], dynamic.Records[i]
	})
	return static, dynamic
}

func TestEngine_Idempotent(t *testing.T) {
	static, dynamic := randomSets(2000)
	e := NewEngine(Options{MaxRankSamples: DefaultMaxRankSamples})

	r1, err := e.Run(static, dynamic, "s", "d")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r2, err := e.Run(static, dynamic, "s", "d")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(r1.Summary, r2.Summary) {
		t.Errorf("summaries differ between identical runs:\n%v\n%v", r1.Summary.Row(), r2.Summary.Row())
	}
	if r1.Metrics.Pairs != 1800 {
		t.Errorf("Pairs = %d, want 1800", r1.Metrics.Pairs)
	}
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	static, dynamic := randomSets(1500)

	seq, err := NewEngine(Options{MaxRankSamples: 500}).Compare(static, dynamic)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := NewEngine(Options{MaxRankSamples: 500, Parallel: true}).Compare(static, dynamic)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel metrics differ from sequential metrics")
	}
	if !seq.SpearmanRho.OK() || mustValue(t, seq.SpearmanRho) <= 0.5 {
		t.Errorf("rho = %v, want strong positive agreement", seq.SpearmanRho.Float64())
	}
}
