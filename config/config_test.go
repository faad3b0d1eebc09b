package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scoring.RedMin != 80 || cfg.Scoring.BlueMin != 60 {
		t.Errorf("default thresholds = (%d, %d), want (80, 60)", cfg.Scoring.RedMin, cfg.Scoring.BlueMin)
	}
	if cfg.Ollama.Model != "llama3" {
		t.Errorf("default model = %q, want llama3", cfg.Ollama.Model)
	}
	if cfg.Ollama.Endpoint != "http://localhost:11434" {
		t.Errorf("default endpoint = %q", cfg.Ollama.Endpoint)
	}
	if cfg.MaxBytes != 2048 {
		t.Errorf("default max_bytes = %d, want 2048", cfg.MaxBytes)
	}
}

func TestLoad_MissingFieldsTakeDefaults(t *testing.T) {
	path := writeConfig(t, `{"name": "Alice", "scoring": {"red_min": 90}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Name != "Alice" {
		t.Errorf("name = %q, want Alice", cfg.Name)
	}
	if cfg.Scoring.RedMin != 90 {
		t.Errorf("red_min = %d, want 90", cfg.Scoring.RedMin)
	}
	if cfg.Scoring.BlueMin != 60 {
		t.Errorf("blue_min = %d, want default 60", cfg.Scoring.BlueMin)
	}
	if cfg.Ollama.Timeout != 60 {
		t.Errorf("timeout = %d, want default 60", cfg.Ollama.Timeout)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"name": `},
		{name: "blue above red", content: `{"scoring": {"red_min": 60, "blue_min": 80}}`},
		{name: "red out of range", content: `{"scoring": {"red_min": 140}}`},
		{name: "negative blue", content: `{"scoring": {"blue_min": -1, "red_min": 80}}`},
		{name: "zero timeout", content: `{"ollama": {"timeout": 0}}`},
		{name: "empty model", content: `{"ollama": {"model": ""}}`},
		{name: "bad endpoint", content: `{"ollama": {"endpoint": "not a url"}}`},
		{name: "zero max_bytes", content: `{"max_bytes": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load() succeeded, want ErrInvalid")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad_EqualThresholdsAllowed(t *testing.T) {
	path := writeConfig(t, `{"scoring": {"red_min": 70, "blue_min": 70}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scoring.RedMin != 70 || cfg.Scoring.BlueMin != 70 {
		t.Errorf("thresholds = (%d, %d), want (70, 70)", cfg.Scoring.RedMin, cfg.Scoring.BlueMin)
	}
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	created, err := WriteTemplate(path)
	if err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}
	if !created {
		t.Fatal("WriteTemplate() reported not created for a fresh path")
	}

	// The template must load cleanly.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(template) error = %v", err)
	}
	if cfg.Scoring.RedMin != 80 || cfg.Scoring.BlueMin != 60 {
		t.Errorf("template thresholds = (%d, %d), want (80, 60)", cfg.Scoring.RedMin, cfg.Scoring.BlueMin)
	}

	// Second run must not overwrite.
	created, err = WriteTemplate(path)
	if err != nil {
		t.Fatalf("WriteTemplate() second run error = %v", err)
	}
	if created {
		t.Error("WriteTemplate() overwrote an existing config")
	}
}
