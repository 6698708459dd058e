package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultStaticPath     = "static/results.csv"
	DefaultDynamicPath    = "dynamic/results.csv"
	DefaultDuplicates     = "reject"
	DefaultSyntheticSize  = 5000
	DefaultSyntheticSeed  = 7
	DefaultMaxRankSamples = 100000
	DefaultOutputDir      = "ab/figures"
	DefaultSummaryFile    = "ab_metrics_overlay.csv"
)

// Source modes.
const (
	ModeFiles     = "files"
	ModeSynthetic = "synthetic"
)

// Config is the top-level configuration. Fields map 1:1 to config.example.yaml.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Compare CompareConfig `yaml:"compare"`
	Output  OutputConfig  `yaml:"output"`
	History HistoryConfig `yaml:"history"`
}

// SourceConfig selects where the two result sets come from.
type SourceConfig struct {
	// Mode is files or synthetic. Synthetic data is never used unless
	// selected here or with the -demo flag.
	Mode string `yaml:"mode"`

	// StaticPath and DynamicPath are the primary input pair.
	StaticPath  string `yaml:"static_path"`
	DynamicPath string `yaml:"dynamic_path"`

	// Candidates are fallback pairs tried in order after the primary pair
	// when its files do not exist.
	Candidates []PathPair `yaml:"candidates"`

	// Duplicates is the repeated-id policy: reject | keep-first | keep-last.
	Duplicates string `yaml:"duplicates"`

	Synthetic SyntheticConfig `yaml:"synthetic"`
}

// PathPair is one static/dynamic input pair.
type PathPair struct {
	Static  string `yaml:"static"`
	Dynamic string `yaml:"dynamic"`
}

// Pairs returns the primary pair followed by the candidates.
func (s SourceConfig) Pairs() []PathPair {
	out := make([]PathPair, 0, 1+len(s.Candidates))
	if s.StaticPath != "" || s.DynamicPath != "" {
		out = append(out, PathPair{Static: s.StaticPath, Dynamic: s.DynamicPath})
	}
	return append(out, s.Candidates...)
}

// SyntheticConfig controls the demo data generator.
type SyntheticConfig struct {
	// Size is the number of subjects per run.
	Size int `yaml:"size"`

	// Seed makes generation reproducible.
	Seed uint64 `yaml:"seed"`

	// WriteDir, when set, receives static_results.csv and dynamic_results.csv.
	WriteDir string `yaml:"write_dir"`
}

// CompareConfig tunes the comparison engine.
type CompareConfig struct {
	// MaxRankSamples truncates rank correlation input to its first N pairs.
	// Zero disables truncation.
	MaxRankSamples int `yaml:"max_rank_samples"`

	// Parallel evaluates independent metrics concurrently.
	Parallel bool `yaml:"parallel"`
}

// OutputConfig controls where the summary record is written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	SummaryFile string `yaml:"summary_file"`

	// Append adds a row to an existing summary file instead of replacing it.
	Append bool `yaml:"append"`

	// Textfile is an optional Prometheus text exposition output path.
	Textfile string `yaml:"textfile"`
}

// SummaryPath returns the full path of the summary CSV.
func (o OutputConfig) SummaryPath() string {
	return filepath.Join(o.Dir, o.SummaryFile)
}

// HistoryConfig configures the optional SQLite run log.
type HistoryConfig struct {
	// Path is the database file. Empty disables history.
	Path string `yaml:"path"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Mode:        ModeFiles,
			StaticPath:  DefaultStaticPath,
			DynamicPath: DefaultDynamicPath,
			Duplicates:  DefaultDuplicates,
			Synthetic: SyntheticConfig{
				Size: DefaultSyntheticSize,
				Seed: DefaultSyntheticSeed,
			},
		},
		Compare: CompareConfig{
			MaxRankSamples: DefaultMaxRankSamples,
		},
		Output: OutputConfig{
			Dir:         DefaultOutputDir,
			SummaryFile: DefaultSummaryFile,
		},
	}
}

// Validate checks required fields and enums. It is exported so callers can
// re-check after applying command-line overrides.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	switch cfg.Source.Mode {
	case ModeFiles:
		pairs := cfg.Source.Pairs()
		if len(pairs) == 0 {
			return fmt.Errorf("source: static_path and dynamic_path are required in files mode")
		}
		for i, p := range pairs {
			if p.Static == "" || p.Dynamic == "" {
				return fmt.Errorf("source: pair %d needs both static and dynamic paths", i)
			}
		}
	case ModeSynthetic:
		if cfg.Source.Synthetic.Size <= 0 {
			return fmt.Errorf("source.synthetic.size must be positive")
		}
	default:
		return fmt.Errorf("source.mode: unknown mode %q", cfg.Source.Mode)
	}

	switch cfg.Source.Duplicates {
	case "reject", "keep-first", "keep-last", "":
	default:
		return fmt.Errorf("source.duplicates: unknown policy %q", cfg.Source.Duplicates)
	}

	if cfg.Compare.MaxRankSamples < 0 {
		return fmt.Errorf("compare.max_rank_samples must not be negative")
	}
	if cfg.Output.SummaryFile == "" {
		return fmt.Errorf("output.summary_file is required")
	}
	return nil
}
