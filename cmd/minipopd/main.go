// Package main is the entry point for the minipopd overlay daemon.
package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/minipop/minipop/internal/config"
	"github.com/minipop/minipop/internal/daemon"
	"github.com/minipop/minipop/internal/display"
	"github.com/minipop/minipop/internal/ingress"
	"github.com/minipop/minipop/internal/notice"
	"github.com/minipop/minipop/internal/overlay"
	"github.com/minipop/minipop/internal/settings"
)

// Build-time variables (set via ldflags)
var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/minipop/minipopd.toml)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("minipopd version", version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)
	logger.Info("starting minipopd", "version", version)

	settingsDir, err := cfg.SettingsDir()
	if err != nil {
		logger.Error("failed to resolve settings directory", "error", err)
		os.Exit(1)
	}
	store, err := settings.Open(settingsDir, logger)
	if err != nil {
		logger.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}
	logger.Info("settings store opened", "dir", settingsDir)

	surface := display.NewTerminalSurface(os.Stdout, cfg.Display.Columns, cfg.Display.ScrollFPS, logger)
	navigator := ingress.NewDesktopNavigator(logger)
	notifier := setupNotifier(cfg, logger)

	engine := overlay.NewEngine(surface, navigator, notifier, logger)
	if err := engine.Start(); err != nil {
		logger.Error("failed to start overlay engine", "error", err)
		os.Exit(1)
	}

	var sources []ingress.Source
	if cfg.Ingress.DBus {
		sources = append(sources, ingress.NewDBusMonitor(logger))
	}
	if cfg.Ingress.Stdin {
		sources = append(sources, ingress.NewStdinSource(logger))
	}

	d := daemon.New(store, engine, sources, logger)
	if err := d.Start(); err != nil {
		logger.Error("failed to start daemon", "error", err)
		engine.Stop()
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	d.Stop()
	engine.Stop()
}

func loadConfig(path string) (*config.DaemonConfig, error) {
	if path != "" {
		return config.LoadDaemonConfigFrom(path)
	}
	return config.LoadDaemonConfig()
}

// setupLogger builds the daemon logger: stderr by default, a size-rotated
// file when one is configured.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// setupNotifier wires failure notices to the session bus through a rate
// limiter. Without a bus the daemon runs with notices disabled.
func setupNotifier(cfg *config.DaemonConfig, logger *slog.Logger) overlay.Notifier {
	sender, err := notice.NewSender()
	if err != nil {
		logger.Warn("failure notices disabled, no session bus", "error", err)
		return nil
	}

	return notice.NewRateLimited(func(summary, body string) error {
		_, err := sender.Send(notice.Options{
			Source: "minipopd",
			Title:  summary,
			Body:   body,
		})
		return err
	}, cfg.Notices.MinInterval.Duration(), logger)
}
