package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhcgn/mail-triage/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mail-triage [message file]",
	Short: "Classify e-mail urgency with a local language model",
	Long: `mail-triage reads a single raw e-mail message from a file, asks a locally
hosted language model for a 0-100 care score and prints exactly one of the
tokens "red", "blue" or "none" on stdout. The calling mail automation matches
that token verbatim, so all diagnostics go to a log file instead.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(cmd.Context(), args[0])
	},
}

// Execute runs the CLI. Classification failures inside the pipeline never
// reach this error path; only usage errors and invalid config do.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json (default ~/.mail-triage/config.json)")
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
	}
	return config.Load(path)
}

// setupLogger opens a per-run log file. With toStderr set, log lines are
// mirrored to stderr for interactive commands; stdout is never written to.
// If the log directory cannot be prepared the logger degrades to a discard
// handler so a classification still completes.
func setupLogger(toStderr bool) (*slog.Logger, func() error) {
	cleanup := func() error { return nil }

	logDir, err := config.LogDir()
	if err != nil {
		return slog.New(slog.DiscardHandler), cleanup
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return slog.New(slog.DiscardHandler), cleanup
	}

	logFilePath := filepath.Join(logDir, fmt.Sprintf("mail-triage-%s.log", time.Now().Format("20060102")))
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.DiscardHandler), cleanup
	}

	var w io.Writer = file
	if toStderr {
		w = io.MultiWriter(os.Stderr, file)
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	cleanup = func() error {
		return file.Close()
	}
	return slog.New(slog.NewTextHandler(w, opts)), cleanup
}
