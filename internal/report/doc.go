// Package report persists the comparison summary.
//
// WriteSummary writes the one-row summary CSV (header + row, fields in their
// fixed order, not-computable values as empty cells). In append mode an
// existing file with the same header gains one row per run; a different
// header is refused with ErrHeaderMismatch.
//
// WriteTextfile renders the same result as Prometheus text exposition
// (gauges with NaN for not-computable values) for a node_exporter textfile
// collector. The file is written to a temp name and renamed into place.
package report
