// Package config loads and watches the comparison configuration (YAML).
//
// Top-level types:
//   - Config{Source, Compare, Output, History}: full tree parsed from YAML
//   - SourceConfig: mode (files|synthetic), static_path, dynamic_path,
//     optional candidates [] tried in order, duplicates policy, synthetic
//     generator settings
//   - CompareConfig: max_rank_samples, parallel
//   - OutputConfig: dir, summary_file, append, textfile
//   - HistoryConfig: path of the optional SQLite run log
//
// Load(path) reads the YAML file, applies defaults (files mode,
// static/results.csv vs dynamic/results.csv, 100000 rank samples, output to
// ab/figures/ab_metrics_overlay.csv), then validates enums and ranges.
// Default() returns the same defaults without reading a file.
//
// Watch(ctx, path, extra, onChange) uses fsnotify to detect writes to the
// config file or any extra path (the input CSVs) and calls onChange with the
// reloaded Config. Files are re-added after every event so editors that save
// by rename keep being watched.
package config
