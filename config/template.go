package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Template returns the starter configuration written by the setup command.
// The instructions are an example the user is expected to replace.
func Template() Config {
	cfg := Default()
	cfg.Name = "Your Name"
	cfg.LLMInstructions = "Prioritize emails from my family and anything related to active project deadlines. " +
		"Deprioritize social media notifications and promotional content. " +
		"Emails from my manager are always high priority, unless it's a weekly digest."
	return cfg
}

// WriteTemplate creates the data directory and writes the starter config to
// path. An existing file is left untouched.
func WriteTemplate(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(Template(), "", "  ")
	if err != nil {
		return false, fmt.Errorf("encode config template: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}

	return true, nil
}
