package compare

import (
	"golang.org/x/sync/errgroup"

	"github.com/dmtarl/abcompare/pkg/types"
)

// DefaultMaxRankSamples caps the number of pairs used for rank correlation.
const DefaultMaxRankSamples = 100000

// Options configures an Engine.
type Options struct {
	// MaxRankSamples truncates the rank correlation input to its first N
	// pairs. Zero or negative disables truncation.
	MaxRankSamples int

	// Parallel evaluates independent metric groups concurrently. The result
	// is identical to a sequential run.
	Parallel bool
}

// Metrics holds every unrounded statistic of one comparison.
type Metrics struct {
	StaticN  int
	DynamicN int
	Pairs    int

	MeanAbsGradeDiff    Value
	VarGradeStatic      Value
	VarGradeDynamic     Value
	SlopeConfCovStatic  Value
	SlopeConfCovDynamic Value
	SpearmanRho         Value

	Bands     []BandPair
	Agreement Agreement
}

// Result bundles the raw metrics with the assembled summary record.
type Result struct {
	Metrics *Metrics
	Summary Summary
}

// Engine runs the align → compute pass over two result sets. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	opts  Options
	bands []Band
}

// NewEngine returns an Engine evaluating the default grade boundary bands.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts, bands: DefaultBands()}
}

// Run compares static and dynamic and assembles the summary record tagged
// with the two source identifiers.
func (e *Engine) Run(static, dynamic types.ResultSet, staticPath, dynamicPath string) (*Result, error) {
	m, err := e.Compare(static, dynamic)
	if err != nil {
		return nil, err
	}
	return &Result{Metrics: m, Summary: Assemble(m, staticPath, dynamicPath)}, nil
}

// Compare aligns the two sets and computes all metrics. Single-set metrics
// (variance, slope, band variance) use every record of their own set; paired
// metrics use only the shared ids.
func (e *Engine) Compare(static, dynamic types.ResultSet) (*Metrics, error) {
	paired := Align(static, dynamic)
	m := &Metrics{
		StaticN:  static.Len(),
		DynamicN: dynamic.Len(),
		Pairs:    paired.Len(),
	}

	// Each task writes only its own fields of m.
	tasks := []func() error{
		func() (err error) {
			m.MeanAbsGradeDiff, err = PairedMeanAbsDiff(paired.GradeA, paired.GradeB)
			return err
		},
		func() error {
			m.VarGradeStatic = SampleVariance(static.Grades())
			m.VarGradeDynamic = SampleVariance(dynamic.Grades())
			return nil
		},
		func() (err error) {
			m.SlopeConfCovStatic, err = RegressionSlope(static.Coverages(), static.Confidences())
			return err
		},
		func() (err error) {
			m.SlopeConfCovDynamic, err = RegressionSlope(dynamic.Coverages(), dynamic.Confidences())
			return err
		},
		func() (err error) {
			m.SpearmanRho, err = RankCorrelation(paired.GradeA, paired.GradeB, e.opts.MaxRankSamples)
			return err
		},
		func() error {
			m.Bands = CompareBands(static, dynamic, e.bands)
			return nil
		},
		func() (err error) {
			m.Agreement, err = BlandAltman(paired.GradeA, paired.GradeB)
			return err
		},
	}

	if !e.opts.Parallel {
		for _, task := range tasks {
			if err := task(); err != nil {
				return nil, err
			}
		}
		return m, nil
	}

	var g errgroup.Group
	for _, task := range tasks {
		g.Go(task)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
