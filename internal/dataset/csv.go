package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmtarl/abcompare/pkg/types"
)

// ErrDuplicateID is returned under DuplicateReject when an id repeats.
var ErrDuplicateID = errors.New("duplicate id")

// DuplicatePolicy selects how repeated ids within one file are handled.
type DuplicatePolicy string

const (
	DuplicateReject    DuplicatePolicy = "reject"
	DuplicateKeepFirst DuplicatePolicy = "keep-first"
	DuplicateKeepLast  DuplicatePolicy = "keep-last"
)

// ParseDuplicatePolicy validates a policy name. The empty string selects
// DuplicateReject.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(s); p {
	case "":
		return DuplicateReject, nil
	case DuplicateReject, DuplicateKeepFirst, DuplicateKeepLast:
		return p, nil
	default:
		return "", fmt.Errorf("dataset: unknown duplicate policy %q", s)
	}
}

// Options controls how a result file is read.
type Options struct {
	// Name labels the resulting set ("static", "dynamic").
	Name string

	// Duplicates is the policy for repeated ids. Empty means reject.
	Duplicates DuplicatePolicy
}

// Stats describes what happened while reading one file.
type Stats struct {
	Rows       int // data rows read
	Kept       int // records in the result set
	BadIDs     int // rows skipped because the id was not an integer
	ShortRows  int // rows skipped because they lack a mapped column
	Duplicates int // rows dropped or overwritten by the duplicate policy
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opts Options) (types.ResultSet, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ResultSet{}, Stats{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	set, st, err := Read(f, opts)
	if err != nil {
		return types.ResultSet{}, st, fmt.Errorf("%s: %w", path, err)
	}
	return set, st, nil
}

// Read parses a result CSV. The first row is the header.
func Read(r io.Reader, opts Options) (types.ResultSet, Stats, error) {
	var st Stats
	policy, err := ParseDuplicatePolicy(string(opts.Duplicates))
	if err != nil {
		return types.ResultSet{}, st, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return types.ResultSet{}, st, fmt.Errorf("dataset: read header: %w", err)
	}
	idx, err := mapHeader(headers)
	if err != nil {
		return types.ResultSet{}, st, fmt.Errorf("dataset: %w", err)
	}
	width := 0
	for _, i := range idx {
		width = max(width, i+1)
	}

	set := types.ResultSet{Name: opts.Name}
	pos := make(map[int64]int)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.ResultSet{}, st, fmt.Errorf("dataset: read row: %w", err)
		}
		st.Rows++
		if len(row) < width {
			st.ShortRows++
			continue
		}

		id, ok := parseID(row[idx[ColumnID]])
		if !ok {
			st.BadIDs++
			continue
		}
		rec := types.Record{
			ID:            id,
			InferredGrade: parseFloat(row[idx[ColumnInferredGrade]]),
			Confidence:    parseFloat(row[idx[ColumnConfidence]]),
			CoverageMean:  parseFloat(row[idx[ColumnCoverageMean]]),
		}

		if p, dup := pos[id]; dup {
			st.Duplicates++
			switch policy {
			case DuplicateReject:
				return types.ResultSet{}, st, fmt.Errorf("dataset: %w %d (row %d)", ErrDuplicateID, id, st.Rows)
			case DuplicateKeepLast:
				set.Records[p] = rec
			}
			continue
		}
		pos[id] = len(set.Records)
		set.Records = append(set.Records, rec)
	}
	st.Kept = len(set.Records)
	return set, st, nil
}

// parseID accepts integer ids, including integral floats such as "12.0".
func parseID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// parseFloat returns NaN for empty or unparseable cells.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// WriteFile writes set to path in canonical form, creating parent
// directories as needed.
func WriteFile(path string, set types.ResultSet) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("dataset: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	if err := Write(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write emits set as CSV with the canonical header. NaN cells are empty.
func Write(w io.Writer, set types.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}
	for _, r := range set.Records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			formatFloat(r.InferredGrade),
			formatFloat(r.Confidence),
			formatFloat(r.CoverageMean),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("dataset: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("dataset: flush: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
