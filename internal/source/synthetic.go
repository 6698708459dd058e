package source

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"

	"github.com/dmtarl/abcompare/internal/dataset"
	"github.com/dmtarl/abcompare/pkg/types"
)

// Generator parameters of the demo pair.
const (
	demoGradeMean   = 4.3
	demoGradeSD     = 1.0
	demoDriftSD     = 0.35 // dynamic grade = static grade + N(0, drift)
	demoConfBase    = 0.35
	demoConfSpread  = 0.65
	demoConfDriftSD = 0.02
	demoCovBase     = 0.5
	demoCovSpread   = 0.5
	minGrade        = 1.0
	maxGrade        = 6.0
)

// SyntheticSource generates a clearly labeled demo pair. The same Seed and
// Size always produce the same records.
type SyntheticSource struct {
	Size int
	Seed uint64

	// WriteDir, when set, receives static_results.csv and
	// dynamic_results.csv and those paths become the pair identifiers.
	WriteDir string
}

// Load implements Source.
func (s *SyntheticSource) Load(ctx context.Context) (*Pair, error) {
	if s.Size <= 0 {
		return nil, fmt.Errorf("source: synthetic size must be positive, got %d", s.Size)
	}
	static, dynamic := s.generate()

	p := &Pair{
		Static:      static,
		Dynamic:     dynamic,
		StaticPath:  fmt.Sprintf("synthetic:static?seed=%d&n=%d", s.Seed, s.Size),
		DynamicPath: fmt.Sprintf("synthetic:dynamic?seed=%d&n=%d", s.Seed, s.Size),
	}

	if s.WriteDir != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.StaticPath = filepath.Join(s.WriteDir, "static_results.csv")
		p.DynamicPath = filepath.Join(s.WriteDir, "dynamic_results.csv")
		if err := dataset.WriteFile(p.StaticPath, static); err != nil {
			return nil, fmt.Errorf("source: write synthetic static: %w", err)
		}
		if err := dataset.WriteFile(p.DynamicPath, dynamic); err != nil {
			return nil, fmt.Errorf("source: write synthetic dynamic: %w", err)
		}
	}

	slog.Warn("source: using SYNTHETIC demo data",
		"size", s.Size, "seed", s.Seed, "static", p.StaticPath, "dynamic", p.DynamicPath)
	return p, nil
}

// generate draws both runs. Dynamic grades drift from the static ones,
// confidences jitter slightly and coverage is shared between runs.
func (s *SyntheticSource) generate() (types.ResultSet, types.ResultSet) {
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))

	static := types.ResultSet{Name: "static", Records: make([]types.Record, s.Size)}
	dynamic := types.ResultSet{Name: "dynamic", Records: make([]types.Record, s.Size)}
	for i := 0; i < s.Size; i++ {
		gradeA := clip(demoGradeMean+rng.NormFloat64()*demoGradeSD, minGrade, maxGrade)
		gradeB := clip(gradeA+rng.NormFloat64()*demoDriftSD, minGrade, maxGrade)
		confA := clip(demoConfBase+demoConfSpread*rng.Float64(), 0, 1)
		confB := clip(confA+rng.NormFloat64()*demoConfDriftSD, 0, 1)
		cov := clip(demoCovBase+demoCovSpread*rng.Float64(), 0, 1)

		id := int64(i + 1)
		static.Records[i] = types.Record{ID: id, InferredGrade: gradeA, Confidence: confA, CoverageMean: cov}
		dynamic.Records[i] = types.Record{ID: id, InferredGrade: gradeB, Confidence: confB, CoverageMean: cov}
	}
	return static, dynamic
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
