package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/wordevent/internal/config"
)

var (
	configPath string
	logLevel   string
	logFile    string

	logger   = slog.New(slog.DiscardHandler)
	levelVar = new(slog.LevelVar)
	logSink  io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wordevent",
	Short: "Run actions when words are typed",
	Long: `wordevent listens to the keyboard, groups characters typed in quick
succession into words, and runs the action bound to each completed word.

A word ends after a pause of the configured digit interval (500ms by default).
Bindings match exact words, regular expressions or glob patterns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := config.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", logLevel)
		}
		levelVar.Set(level)

		var out io.Writer
		switch {
		case logFile != "":
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			logSink = f
			out = f
		case cmd.Name() == "run":
			// The terminal owns stdout and stderr while running.
			return nil
		default:
			out = cmd.ErrOrStderr()
		}

		logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: levelVar}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logSink != nil {
			_ = logSink.Close()
			logSink = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configured file and applies its log level unless
// --log-level was given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") {
		levelVar.Set(cfg.LogLevel())
	}
	logger.Debug("config loaded", "path", configPath, "bindings", len(cfg.Words))
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (.toml, .yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
}
