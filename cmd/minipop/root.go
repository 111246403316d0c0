// Package main provides the CLI entrypoint for minipop.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/minipop/minipop/internal/config"
	"github.com/minipop/minipop/internal/settings"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	globalOpts struct {
		verbose     bool
		settingsDir string
		configPath  string
	}
	logger *slog.Logger
	store  *settings.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "minipop",
	Short: "Control the minipop overlay daemon",
	Long: `minipop controls the minipopd overlay daemon.

The daemon shows one compact popup at a time for notifications from
allow-listed applications. This CLI manages the allow list, active hours,
and overlay appearance, and can post test notifications.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		dir := globalOpts.settingsDir
		if dir == "" {
			cfg, err := loadDaemonConfig()
			if err != nil {
				return fmt.Errorf("failed to load daemon config: %w", err)
			}
			dir, err = cfg.SettingsDir()
			if err != nil {
				return fmt.Errorf("failed to resolve settings directory: %w", err)
			}
		}

		var err error
		store, err = settings.Open(dir, logger)
		if err != nil {
			return fmt.Errorf("failed to open settings store: %w", err)
		}

		return nil
	},
}

func loadDaemonConfig() (*config.DaemonConfig, error) {
	if globalOpts.configPath != "" {
		return config.LoadDaemonConfigFrom(globalOpts.configPath)
	}
	return config.LoadDaemonConfig()
}

func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.settingsDir, "settings-dir", "", "Settings store directory (default: from daemon config)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "", "Daemon config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
