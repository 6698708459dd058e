package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmtarl/abcompare/internal/compare"
)

// ErrHeaderMismatch is returned when appending to a summary file whose
// header differs from the current field set.
var ErrHeaderMismatch = errors.New("report: existing summary header differs")

// WriteSummary writes s to path. With appendRow, an existing non-empty file
// gains one row; otherwise the file is replaced.
func WriteSummary(path string, s compare.Summary, appendRow bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: create dir: %w", err)
	}

	header := s.Header()
	writeHeader := true
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC

	if appendRow {
		existing, err := readHeader(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return err
		case existing == nil:
			// Empty file: write the header.
		case !slices.Equal(existing, header):
			return fmt.Errorf("%w: %s", ErrHeaderMismatch, path)
		default:
			writeHeader = false
			flags = os.O_WRONLY | os.O_APPEND
		}
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			f.Close()
			return fmt.Errorf("report: write header: %w", err)
		}
	}
	if err := w.Write(s.Row()); err != nil {
		f.Close()
		return fmt.Errorf("report: write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("report: flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: close: %w", err)
	}

	slog.Info("report: summary written", "path", path, "appended", !writeHeader)
	return nil
}

// readHeader returns the first CSV record of path, or nil for an empty file.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("report: read existing header: %w", err)
	}
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	rec, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, fmt.Errorf("report: read existing header: %w", err)
	}
	return rec, nil
}
