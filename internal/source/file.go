package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmtarl/abcompare/internal/dataset"
)

// ErrNoInput is returned when no candidate pair has both files present.
var ErrNoInput = errors.New("source: no input pair found")

// PathPair is one static/dynamic file pair.
type PathPair struct {
	Static  string
	Dynamic string
}

// FileSource reads the first existing candidate pair from disk.
type FileSource struct {
	Candidates []PathPair
	Duplicates dataset.DuplicatePolicy
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (*Pair, error) {
	pp, ok := s.pick()
	if !ok {
		return nil, fmt.Errorf("%w (tried %d candidates)", ErrNoInput, len(s.Candidates))
	}

	static, st, err := dataset.ReadFile(pp.Static, dataset.Options{Name: "static", Duplicates: s.Duplicates})
	if err != nil {
		return nil, fmt.Errorf("source: static: %w", err)
	}
	logStats(pp.Static, st)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dynamic, dt, err := dataset.ReadFile(pp.Dynamic, dataset.Options{Name: "dynamic", Duplicates: s.Duplicates})
	if err != nil {
		return nil, fmt.Errorf("source: dynamic: %w", err)
	}
	logStats(pp.Dynamic, dt)

	return &Pair{
		Static:      static,
		Dynamic:     dynamic,
		StaticPath:  pp.Static,
		DynamicPath: pp.Dynamic,
	}, nil
}

// pick returns the first candidate whose two files both exist.
func (s *FileSource) pick() (PathPair, bool) {
	for _, c := range s.Candidates {
		if exists(c.Static) && exists(c.Dynamic) {
			return c, true
		}
		slog.Debug("source: candidate pair incomplete", "static", c.Static, "dynamic", c.Dynamic)
	}
	return PathPair{}, false
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func logStats(path string, st dataset.Stats) {
	slog.Info("source: loaded result set",
		"path", path, "rows", st.Rows, "kept", st.Kept,
		"bad_ids", st.BadIDs, "short_rows", st.ShortRows, "duplicates", st.Duplicates)
}
