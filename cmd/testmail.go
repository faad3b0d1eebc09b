package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhcgn/mail-triage/classify"
	"github.com/dhcgn/mail-triage/model"
	"github.com/dhcgn/mail-triage/ollama"
)

const sampleMessage = `From: boss@company.com
To: user@company.com
Subject: URGENT: Board Meeting Tomorrow - Your Presentation Required

Hi,

The board meeting has been moved to tomorrow at 9 AM. We need your quarterly
presentation ready by 8 AM sharp. This is critical for our Q4 numbers and the
CEO will be attending.

Please confirm you can deliver this ASAP.

Thanks,
Sarah (your manager)
`

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Classify a built-in high-urgency sample message end to end",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, cleanup := setupLogger(true)
		defer func() {
			_ = cleanup()
		}()

		tmp, err := os.CreateTemp("", "mail-triage-test-*.eml")
		if err != nil {
			return fmt.Errorf("create temp message: %w", err)
		}
		defer os.Remove(tmp.Name())

		if _, err := tmp.WriteString(sampleMessage); err != nil {
			tmp.Close()
			return fmt.Errorf("write temp message: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close temp message: %w", err)
		}

		client := ollama.NewClient(cfg.Ollama.Endpoint, cfg.Ollama.Model, cfg.Timeout())
		classifier := classify.New(cfg, client, logger)

		result, err := classifier.Classify(cmd.Context(), tmp.Name())
		if err != nil {
			return err
		}

		if result.Err != nil {
			pterm.Warning.Printf("Classification fell back to %s: %v\n", result.Classification, result.Err)
			return nil
		}

		pterm.Success.Printf("Sample classified: score %d -> %s\n", result.Score, result.Classification)
		if result.Classification == model.ClassificationNone {
			pterm.Warning.Println("Expected the sample to score urgent; check your thresholds and instructions")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
