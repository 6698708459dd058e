package dataset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Canonical column names.
const (
	ColumnID            = "id"
	ColumnInferredGrade = "inferredGrade"
	ColumnConfidence    = "confidence"
	ColumnCoverageMean  = "coverageMean"
)

// Header lists the canonical columns in the order they are written.
var Header = []string{ColumnID, ColumnInferredGrade, ColumnConfidence, ColumnCoverageMean}

var (
	// ErrUnknownColumn is returned for a header that is neither a canonical
	// name, a known synonym nor a known ignored column.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrMissingColumn is returned when a canonical column is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrAmbiguousColumn is returned when two headers map to the same
	// canonical column.
	ErrAmbiguousColumn = errors.New("ambiguous column")
)

// synonyms maps folded header names to canonical column names.
var synonyms = map[string]string{
	"id":            ColumnID,
	"inferredgrade": ColumnInferredGrade,
	"grade":         ColumnInferredGrade,
	"g_hat":         ColumnInferredGrade,
	"ĝ":             ColumnInferredGrade,
	"g":             ColumnInferredGrade,
	"confidence":    ColumnConfidence,
	"conf":          ColumnConfidence,
	"coveragemean":  ColumnCoverageMean,
	"coverage_mean": ColumnCoverageMean,
	"coverage":      ColumnCoverageMean,
}

// ignored holds folded names of columns the simulator emits alongside the
// canonical ones. They carry no information the comparison uses.
var ignored = map[string]struct{}{
	"mode":                {},
	"arithmetic_fluency":  {},
	"number_sense":        {},
	"sequential_thinking": {},
	"comparison_skill":    {},
	"visual_matching":     {},
	"audio_recognition":   {},
}

// Canonical returns the canonical column for a raw header name. ok is false
// for ignored columns; err is non-nil for unknown ones.
func Canonical(header string) (name string, ok bool, err error) {
	key := cases.Fold().String(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	if c, found := synonyms[key]; found {
		return c, true, nil
	}
	if _, skip := ignored[key]; skip {
		return "", false, nil
	}
	return "", false, fmt.Errorf("%w %q", ErrUnknownColumn, header)
}

// columnIndex maps each canonical column to its position in a CSV row.
type columnIndex map[string]int

// mapHeader normalizes a header row. Every canonical column must be present
// exactly once.
func mapHeader(headers []string) (columnIndex, error) {
	idx := make(columnIndex, len(Header))
	for i, h := range headers {
		name, ok, err := Canonical(h)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if prev, dup := idx[name]; dup {
			return nil, fmt.Errorf("%w: %q and %q both map to %s", ErrAmbiguousColumn, headers[prev], h, name)
		}
		idx[name] = i
	}
	for _, name := range Header {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w %s", ErrMissingColumn, name)
		}
	}
	return idx, nil
}
