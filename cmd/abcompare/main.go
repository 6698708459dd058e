package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmtarl/abcompare/internal/config"
)

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "path to config file (defaults apply when empty)")
	flag.StringVar(&f.static, "static", "", "static results CSV (overrides config)")
	flag.StringVar(&f.dynamic, "dynamic", "", "dynamic results CSV (overrides config)")
	flag.BoolVar(&f.demo, "demo", false, "compare synthetic demo data instead of files")
	flag.StringVar(&f.out, "out", "", "output directory (overrides config)")
	flag.BoolVar(&f.watch, "watch", false, "re-run whenever the config or an input file changes")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	level, levelErr := parseLevel(*logLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if levelErr != nil {
		slog.Error("invalid flag", "flag", "log-level", "err", levelErr)
		os.Exit(1)
	}

	slog.Info("abcompare starting", "config", f.config, "watch", f.watch)

	cfg, err := loadConfig(f)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := run(ctx, cfg); err != nil {
		slog.Error("comparison failed", "err", err)
		if !f.watch {
			os.Exit(1)
		}
	}
	if !f.watch {
		return
	}

	// A failed first run still watches: the inputs may not exist yet.
	err = config.Watch(ctx, f.config, cfg, f.adjust, func(updated *config.Config) {
		if _, err := run(ctx, updated); err != nil {
			slog.Error("comparison failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("watcher stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("abcompare shutting down")
}
