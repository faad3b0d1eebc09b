// Package classify wires the extraction, prompt, inference and scoring
// stages into the single-message pipeline.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dhcgn/mail-triage/config"
	"github.com/dhcgn/mail-triage/extract"
	"github.com/dhcgn/mail-triage/model"
	"github.com/dhcgn/mail-triage/prompt"
	"github.com/dhcgn/mail-triage/score"
)

// Inference is the single call the pipeline makes against the model.
type Inference interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of one classification. When a stage failed, Err holds
// the diagnostic and Classification is already collapsed to none; the failure
// never reaches stdout.
type Result struct {
	Classification model.Classification
	Score          int
	Sender         string
	Subject        string
	Truncated      bool
	Err            error
}

// Classifier runs the pipeline for one message at a time. It holds no mutable
// state between runs.
type Classifier struct {
	cfg    config.Config
	llm    Inference
	logger *slog.Logger
}

func New(cfg config.Config, llm Inference, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Classifier{cfg: cfg, llm: llm, logger: logger}
}

// Classify reads the message file at path and classifies it. An unreadable
// file is a usage error returned to the caller; everything past reading the
// file resolves to a Result.
func (c *Classifier) Classify(ctx context.Context, path string) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read message file: %w", err)
	}

	c.logger.Info("classifying message", "path", path, "size", len(raw))
	return c.ClassifyRaw(ctx, raw), nil
}

// ClassifyRaw classifies raw message bytes. It never returns an error:
// inference or parse failures are logged and collapse to none.
func (c *Classifier) ClassifyRaw(ctx context.Context, raw []byte) Result {
	msg := extract.Message(raw, c.cfg.MaxBytes)
	c.logger.Debug("extracted message",
		"sender", msg.Sender,
		"subject", msg.Subject,
		"bodyBytes", len(msg.Body),
		"truncated", msg.Truncated,
	)

	result := Result{
		Classification: model.ClassificationNone,
		Sender:         msg.Sender,
		Subject:        msg.Subject,
		Truncated:      msg.Truncated,
	}

	reply, err := c.llm.Generate(ctx, prompt.Build(msg, c.cfg))
	if err != nil {
		c.logger.Error("inference failed", "sender", msg.Sender, "subject", msg.Subject, "err", err)
		result.Err = err
		return result
	}

	s, err := score.Parse(reply)
	if err != nil {
		c.logger.Error("invalid score in model reply", "sender", msg.Sender, "subject", msg.Subject, "err", err)
		result.Err = err
		return result
	}

	result.Score = s
	result.Classification = score.Map(s, c.cfg.Scoring.RedMin, c.cfg.Scoring.BlueMin)

	c.logger.Info("message classified",
		"sender", msg.Sender,
		"subject", msg.Subject,
		"score", s,
		"classification", result.Classification,
	)

	return result
}
