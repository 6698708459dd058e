package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// InputPaths returns every input file the config may read: both files of
// the primary pair and of each candidate. Synthetic mode reads none.
func (c *Config) InputPaths() []string {
	if c.Source.Mode == ModeSynthetic {
		return nil
	}
	var out []string
	for _, p := range c.Source.Pairs() {
		out = append(out, p.Static, p.Dynamic)
	}
	return out
}

// Watch monitors the config file at path and the input files of the active
// config, and calls onChange with the reloaded Config each time one of them
// is written or created. With an empty path the defaults are reloaded.
// It runs until ctx is cancelled.
//
// The parent directories are watched rather than the files themselves, so
// files that do not exist yet and files replaced by rename are still seen.
// After each reload the watch set is rebuilt from the new config.
//
// adjust, when non-nil, is applied to every reloaded config before the watch
// set is built (command-line overrides). If a reload or adjust fails, the
// error is logged and the previous config remains active; onChange is not
// called.
func Watch(ctx context.Context, path string, current *Config, adjust func(*Config) error, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	ws := &watchSet{watcher: watcher, dirs: map[string]bool{}}
	ws.update(path, current)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !ws.files[cleanPath(event.Name)] {
				continue
			}

			cfg, err := reload(path)
			if err == nil && adjust != nil {
				err = adjust(cfg)
			}
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", path, "trigger", event.Name, "err", err)
				continue
			}

			slog.Info("config: change detected", "trigger", event.Name)
			ws.update(path, cfg)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// watchSet tracks the files of interest and the directories holding them.
type watchSet struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool
}

// update points the watcher at the config file and the inputs of cfg.
// Directories no longer needed are released.
func (ws *watchSet) update(path string, cfg *Config) {
	var paths []string
	if path != "" {
		paths = append(paths, path)
	}
	if cfg != nil {
		paths = append(paths, cfg.InputPaths()...)
	}

	files := make(map[string]bool, len(paths))
	want := make(map[string]bool)
	for _, p := range paths {
		f := cleanPath(p)
		files[f] = true
		want[filepath.Dir(f)] = true
	}

	for dir := range ws.dirs {
		if !want[dir] {
			_ = ws.watcher.Remove(dir)
			delete(ws.dirs, dir)
		}
	}
	for dir := range want {
		if ws.dirs[dir] {
			continue
		}
		if err := ws.watcher.Add(dir); err != nil {
			slog.Warn("config: cannot watch directory", "dir", dir, "err", err)
			continue
		}
		ws.dirs[dir] = true
	}
	ws.files = files

	slog.Info("config: watching for changes", "files", len(files), "dirs", len(ws.dirs))
}

func cleanPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func reload(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
