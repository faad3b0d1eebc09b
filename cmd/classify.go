package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhcgn/mail-triage/classify"
	"github.com/dhcgn/mail-triage/config"
	"github.com/dhcgn/mail-triage/history"
	"github.com/dhcgn/mail-triage/ollama"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [message file]",
	Short: "Classify a single message file (same as the bare invocation)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// runClassify is the core operation. Stdout receives exactly one line with
// the classification token; anything else would break the caller's string
// match.
func runClassify(ctx context.Context, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, cleanup := setupLogger(false)
	defer func() {
		_ = cleanup()
	}()

	client := ollama.NewClient(cfg.Ollama.Endpoint, cfg.Ollama.Model, cfg.Timeout())
	classifier := classify.New(cfg, client, logger)

	result, err := classifier.Classify(ctx, path)
	if err != nil {
		return err
	}

	recordHistory(logger, result, path)

	fmt.Println(result.Classification)
	return nil
}

func recordHistory(logger *slog.Logger, result classify.Result, path string) {
	dir, err := config.Dir()
	if err != nil {
		logger.Warn("history disabled", "err", err)
		return
	}

	log, err := history.Open(dir)
	if err != nil {
		logger.Warn("history disabled", "err", err)
		return
	}
	defer func() {
		if err := log.Close(); err != nil {
			logger.Warn("close history", "err", err)
		}
	}()

	entry := history.Entry{
		Time:           time.Now(),
		Path:           path,
		Sender:         result.Sender,
		Subject:        result.Subject,
		Score:          result.Score,
		Classification: result.Classification.String(),
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}

	if err := log.Append(entry); err != nil {
		logger.Warn("append history", "err", err)
	}
}
