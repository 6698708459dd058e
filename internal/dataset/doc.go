// Package dataset reads and writes grading result CSV files.
//
// Header names are normalized once through an explicit synonym table
// (case-insensitive): id; inferredGrade ← grade, g_hat, ĝ, g;
// confidence ← conf; coverageMean ← coverage_mean, coverage. The per-axis
// score columns and the "mode" column written by the simulator are known and
// ignored. Any other column is rejected with ErrUnknownColumn.
//
// Numeric cells that are empty or unparseable become NaN; the comparison
// core excludes them. Rows whose id cannot be parsed as an integer are
// skipped and counted in Stats.
//
// Duplicate ids within one file follow the configured DuplicatePolicy:
// reject (default), keep-first or keep-last.
package dataset
