package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmtarl/abcompare/internal/compare"
	"github.com/dmtarl/abcompare/internal/config"
	"github.com/dmtarl/abcompare/internal/history"
	"github.com/dmtarl/abcompare/internal/report"
	"github.com/dmtarl/abcompare/internal/source"
)

// flags holds command-line overrides layered over the config file.
type flags struct {
	config  string
	static  string
	dynamic string
	demo    bool
	out     string
	watch   bool
}

// apply writes the non-empty overrides into cfg.
func (f flags) apply(cfg *config.Config) {
	if f.static != "" {
		cfg.Source.StaticPath = f.static
	}
	if f.dynamic != "" {
		cfg.Source.DynamicPath = f.dynamic
	}
	if f.static != "" || f.dynamic != "" {
		// Explicit inputs replace the fallback list.
		cfg.Source.Candidates = nil
	}
	if f.demo {
		cfg.Source.Mode = config.ModeSynthetic
	}
	if f.out != "" {
		cfg.Output.Dir = f.out
	}
}

// adjust applies the overrides to a reloaded config and re-validates it.
func (f flags) adjust(cfg *config.Config) error {
	f.apply(cfg)
	return cfg.Validate()
}

func loadConfig(f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}
	if err := f.adjust(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseLevel maps the -log-level flag to a slog level. On error the
// returned level is info.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: want debug, info, warn or error", s)
	}
	return level, nil
}

// outcome is what one comparison produced.
type outcome struct {
	result      *compare.Result
	summaryPath string
	runID       string
}

// run performs one full comparison: load, compare, write, record.
func run(ctx context.Context, cfg *config.Config) (*outcome, error) {
	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, err
	}
	pair, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	engine := compare.NewEngine(compare.Options{
		MaxRankSamples: cfg.Compare.MaxRankSamples,
		Parallel:       cfg.Compare.Parallel,
	})
	res, err := engine.Run(pair.Static, pair.Dynamic, pair.StaticPath, pair.DynamicPath)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	m := res.Metrics
	slog.Info("comparison complete",
		"static_n", m.StaticN,
		"dynamic_n", m.DynamicN,
		"pairs", m.Pairs,
		"mean_abs_grade_diff", res.Summary.MeanAbsGradeDiff.String(),
		"spearman_rho", res.Summary.SpearmanRho.String(),
	)
	slog.Info("agreement",
		"bias", m.Agreement.Bias.String(),
		"sd", m.Agreement.SD.String(),
		"lower", m.Agreement.Lower.String(),
		"upper", m.Agreement.Upper.String(),
		"n", m.Agreement.N,
	)

	out := &outcome{result: res, summaryPath: cfg.Output.SummaryPath()}

	if err := report.WriteSummary(out.summaryPath, res.Summary, cfg.Output.Append); err != nil {
		return nil, err
	}

	if cfg.Output.Textfile != "" {
		if err := report.WriteTextfile(cfg.Output.Textfile, res); err != nil {
			return nil, err
		}
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		if out.runID, err = store.Record(ctx, res); err != nil {
			return nil, err
		}
		slog.Info("run recorded", "run_id", out.runID, "db", cfg.History.Path, "pairs", m.Pairs)
	}

	return out, nil
}
