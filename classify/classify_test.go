package classify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhcgn/mail-triage/config"
	"github.com/dhcgn/mail-triage/model"
	"github.com/dhcgn/mail-triage/ollama"
	"github.com/dhcgn/mail-triage/score"
)

const urgentMessage = "From: boss@example.com\r\n" +
	"To: user@example.com\r\n" +
	"Subject: URGENT: server down\r\n" +
	"\r\n" +
	"need this now\r\n"

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func writeMessage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "message.eml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write message: %v", err)
	}
	return path
}

func TestClassify_UrgentEndToEnd(t *testing.T) {
	llm := &fakeLLM{reply: "92 - this seems urgent"}
	c := New(config.Default(), llm, nil)

	result, err := c.Classify(context.Background(), writeMessage(t, urgentMessage))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if result.Classification != model.ClassificationRed {
		t.Errorf("classification = %s, want red", result.Classification)
	}
	if result.Score != 92 {
		t.Errorf("score = %d, want 92", result.Score)
	}
	if result.Err != nil {
		t.Errorf("unexpected diagnostic: %v", result.Err)
	}

	if len(llm.prompts) != 1 {
		t.Fatalf("inference called %d times, want 1", len(llm.prompts))
	}
	p := llm.prompts[0]
	if !strings.Contains(p, "URGENT: server down") || !strings.Contains(p, "need this now") {
		t.Error("prompt is missing subject or body")
	}
}

func TestClassify_InvalidReplyFailsSafe(t *testing.T) {
	llm := &fakeLLM{reply: "I think around maybe forty"}
	c := New(config.Default(), llm, nil)

	result, err := c.Classify(context.Background(), writeMessage(t, urgentMessage))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if result.Classification != model.ClassificationNone {
		t.Errorf("classification = %s, want none on an unparseable reply", result.Classification)
	}
	if !errors.Is(result.Err, score.ErrInvalidScore) {
		t.Errorf("diagnostic = %v, want ErrInvalidScore", result.Err)
	}
}

func TestClassify_InferenceUnavailableFailsSafe(t *testing.T) {
	llm := &fakeLLM{err: ollama.ErrUnavailable}
	c := New(config.Default(), llm, nil)

	result, err := c.Classify(context.Background(), writeMessage(t, urgentMessage))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if result.Classification != model.ClassificationNone {
		t.Errorf("classification = %s, want none when inference is down", result.Classification)
	}
	if !errors.Is(result.Err, ollama.ErrUnavailable) {
		t.Errorf("diagnostic = %v, want ErrUnavailable", result.Err)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	llm := &fakeLLM{reply: "75"}
	c := New(config.Default(), llm, nil)
	path := writeMessage(t, urgentMessage)

	first, err := c.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("first Classify() error = %v", err)
	}
	second, err := c.Classify(context.Background(), path)
	if err != nil {
		t.Fatalf("second Classify() error = %v", err)
	}

	if first.Classification != second.Classification || first.Score != second.Score {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if first.Classification != model.ClassificationBlue {
		t.Errorf("classification = %s, want blue for score 75", first.Classification)
	}
}

func TestClassify_MissingFileIsUsageError(t *testing.T) {
	llm := &fakeLLM{reply: "50"}
	c := New(config.Default(), llm, nil)

	_, err := c.Classify(context.Background(), filepath.Join(t.TempDir(), "gone.eml"))
	if err == nil {
		t.Fatal("Classify() succeeded on a missing file")
	}
	if len(llm.prompts) != 0 {
		t.Error("inference was called for a missing file")
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.RedMin = 50
	cfg.Scoring.BlueMin = 20

	llm := &fakeLLM{reply: "35"}
	c := New(cfg, llm, nil)

	result := c.ClassifyRaw(context.Background(), []byte(urgentMessage))
	if result.Classification != model.ClassificationBlue {
		t.Errorf("classification = %s, want blue for 35 with thresholds (50, 20)", result.Classification)
	}
}
