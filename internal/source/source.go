package source

import (
	"context"
	"fmt"

	"github.com/dmtarl/abcompare/internal/config"
	"github.com/dmtarl/abcompare/internal/dataset"
	"github.com/dmtarl/abcompare/pkg/types"
)

// Pair is the static and dynamic result sets of one comparison together
// with the identifiers (paths or labels) they were loaded from.
type Pair struct {
	Static      types.ResultSet
	Dynamic     types.ResultSet
	StaticPath  string
	DynamicPath string
}

// Source supplies a Pair.
type Source interface {
	Load(ctx context.Context) (*Pair, error)
}

// New returns the Source selected by cfg.Mode.
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Mode {
	case config.ModeFiles, "":
		policy, err := dataset.ParseDuplicatePolicy(cfg.Duplicates)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		pairs := make([]PathPair, 0, len(cfg.Pairs()))
		for _, p := range cfg.Pairs() {
			pairs = append(pairs, PathPair{Static: p.Static, Dynamic: p.Dynamic})
		}
		return &FileSource{Candidates: pairs, Duplicates: policy}, nil
	case config.ModeSynthetic:
		return &SyntheticSource{
			Size:     cfg.Synthetic.Size,
			Seed:     cfg.Synthetic.Seed,
			WriteDir: cfg.Synthetic.WriteDir,
		}, nil
	default:
		return nil, fmt.Errorf("source: unsupported mode %q", cfg.Mode)
	}
}
