// Package history keeps an append-only SQLite log of comparison runs.
//
// Each call to Store.Record inserts one row keyed by a fresh UUID. The
// row carries the two source identifiers, the record counts, and every
// summary field in output order as a JSON object; not-computable fields
// are stored as JSON null so they stay distinguishable from zero.
//
// The store uses the pure-Go modernc.org/sqlite driver in WAL mode, so it
// needs no cgo and tolerates a reader running alongside the writer.
package history
