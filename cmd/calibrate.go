package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhcgn/mail-triage/config"
	"github.com/dhcgn/mail-triage/extract"
	"github.com/dhcgn/mail-triage/filter"
	"github.com/dhcgn/mail-triage/mbox"
	"github.com/dhcgn/mail-triage/model"
	"github.com/dhcgn/mail-triage/ollama"
	"github.com/dhcgn/mail-triage/progress"
	"github.com/dhcgn/mail-triage/prompt"
	"github.com/dhcgn/mail-triage/score"
	"github.com/dhcgn/mail-triage/stats"
)

var (
	calibrateLimit   int
	calibrateOutput  string
	calibrateInclude []string
	calibrateExclude []string
)

var errSweepLimit = errors.New("sweep limit reached")

var calibrateCmd = &cobra.Command{
	Use:   "calibrate [mbox file]",
	Short: "Score every message in an mbox archive to tune the thresholds",
	Long: `calibrate runs the extraction and scoring stages over an existing mbox
archive and shows how the configured red/blue thresholds would split it.
Nothing is flagged and nothing is written to the history; this is an offline
analysis sweep against the same model the classifier uses.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, cleanup := setupLogger(false)
		defer func() {
			_ = cleanup()
		}()

		return runCalibrate(cmd.Context(), cfg, args[0], logger)
	},
}

func init() {
	calibrateCmd.Flags().IntVar(&calibrateLimit, "limit", 0, "Stop after scoring this many messages (0 = all)")
	calibrateCmd.Flags().StringVarP(&calibrateOutput, "output", "o", "", "Write per-message scores to this CSV file")
	calibrateCmd.Flags().StringArrayVar(&calibrateInclude, "include", nil, "Regex allow-list applied to sender, subject and body (mutually exclusive with --exclude)")
	calibrateCmd.Flags().StringArrayVar(&calibrateExclude, "exclude", nil, "Regex block-list applied to sender, subject and body (mutually exclusive with --include)")
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(ctx context.Context, cfg config.Config, mboxPath string, logger *slog.Logger) error {
	f, err := filter.New(filter.Options{Include: calibrateInclude, Exclude: calibrateExclude})
	if err != nil {
		return err
	}

	total, err := mbox.Count(mboxPath)
	if err != nil {
		return err
	}
	pterm.Info.Printf("Messages in archive: %d\n", total)

	var csvWriter *csv.Writer
	if calibrateOutput != "" {
		file, err := os.Create(calibrateOutput)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer file.Close()

		csvWriter = csv.NewWriter(file)
		defer csvWriter.Flush()
		if err := csvWriter.Write([]string{"Index", "Sender", "Subject", "Score", "Classification"}); err != nil {
			return fmt.Errorf("write report header: %w", err)
		}
	}

	client := ollama.NewClient(cfg.Ollama.Endpoint, cfg.Ollama.Model, cfg.Timeout())
	dist := stats.NewDistribution(cfg.Scoring.RedMin, cfg.Scoring.BlueMin)
	bar := progress.New(total, true)

	scored := 0
	err = mbox.Read(mboxPath, func(m mbox.Message) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := extract.Message(m.Raw, cfg.MaxBytes)
		bar.Step(msg.Subject)

		if !f.Allows(msg) {
			return nil
		}

		reply, err := client.Generate(ctx, prompt.Build(msg, cfg))
		if err != nil {
			dist.AddFailure()
			bar.Fail(err)
			logger.Error("sweep inference failed", "index", m.Index, "subject", msg.Subject, "err", err)
			return nil
		}

		s, err := score.Parse(reply)
		if err != nil {
			dist.AddFailure()
			bar.Fail(err)
			logger.Error("sweep score invalid", "index", m.Index, "subject", msg.Subject, "err", err)
			return nil
		}

		cls := dist.Add(s)
		if csvWriter != nil {
			record := []string{
				strconv.Itoa(m.Index),
				msg.Sender,
				msg.Subject,
				strconv.Itoa(s),
				cls.String(),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("write report record: %w", err)
			}
		}

		scored++
		if calibrateLimit > 0 && scored >= calibrateLimit {
			return errSweepLimit
		}
		return nil
	})
	bar.Stop()

	if err != nil && !errors.Is(err, errSweepLimit) {
		return err
	}

	summary := dist.Summary()
	logger.Info("calibration sweep finished", summary.LogAttrs()...)
	printSummary(summary, cfg)

	if calibrateOutput != "" {
		pterm.Info.Printf("Report written to %s\n", calibrateOutput)
	}

	return nil
}

func printSummary(summary stats.Summary, cfg config.Config) {
	pterm.Println()
	pterm.DefaultSection.Println("Score Distribution")

	if summary.Count == 0 {
		pterm.Warning.Println("No messages scored")
		if summary.Failures > 0 {
			pterm.Error.Printf("Failures: %d\n", summary.Failures)
		}
		return
	}

	bars := make(pterm.Bars, 0, stats.BucketCount)
	for i, count := range summary.Buckets {
		hi := i*10 + 9
		if i == stats.BucketCount-1 {
			hi = 100
		}
		bars = append(bars, pterm.Bar{
			Label: fmt.Sprintf("%d-%d", i*10, hi),
			Value: count,
		})
	}
	if err := pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Render(); err != nil {
		pterm.Error.Printf("render histogram: %v\n", err)
	}

	pterm.Info.Printf("Scored: %d (min %d, max %d, mean %.1f, median %d)\n",
		summary.Count, summary.Min, summary.Max, summary.Mean, summary.Median)
	pterm.Info.Printf("With red_min=%d, blue_min=%d this mailbox splits into:\n",
		cfg.Scoring.RedMin, cfg.Scoring.BlueMin)
	pterm.Info.Printf("  %s: %d  %s: %d  %s: %d\n",
		model.ClassificationRed, summary.Red,
		model.ClassificationBlue, summary.Blue,
		model.ClassificationNone, summary.None)
	if summary.Failures > 0 {
		pterm.Error.Printf("Failures (no usable score): %d\n", summary.Failures)
	}
}
