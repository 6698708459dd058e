// Package compare is the statistical comparison engine for two parallel
// grading runs (static A vs dynamic B).
//
// value.go defines Value, the tagged result returned by every metric: either
// a computed float64 or the "not computable" marker. Callers must unwrap it
// explicitly, so an undefined statistic is never mistaken for zero.
//
// stats.go holds the pure metric functions: PairedMeanAbsDiff, SampleVariance,
// RegressionSlope, RankCorrelation and BlandAltman. Non-finite inputs (NaN,
// ±Inf) are excluded, never treated as zero. Paired functions return
// ErrLengthMismatch when handed slices of different length.
//
// align.go joins two result sets on id (inner join, sorted by id) into a
// PairedSample. band.go computes per-band variance of inferred grades around
// the grade boundaries {3,4,5,6} with a ±0.25 closed window.
//
// summary.go assembles the fixed, ordered summary record (3 dp for
// whole-distribution metrics, 4 dp for band variances). engine.go runs the
// whole pass, optionally evaluating independent metric groups in parallel.
package compare
