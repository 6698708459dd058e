// Package types defines the canonical in-memory representation of grading
// results shared by ingestion, the comparison core and the writers. These
// types are separate from any on-disk format (CSV column names, synonyms).
package types
