package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid marks configuration that is present but unusable. It is the only
// error class that aborts a classification run instead of degrading to "none".
var ErrInvalid = errors.New("invalid configuration")

const (
	defaultModel    = "llama3"
	defaultEndpoint = "http://localhost:11434"
	defaultTimeout  = 60
	defaultRedMin   = 80
	defaultBlueMin  = 60
	defaultMaxBytes = 2048
)

// Ollama holds the settings for the local inference endpoint.
type Ollama struct {
	Model    string `mapstructure:"model" json:"model"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// Timeout is the request deadline in seconds.
	Timeout int `mapstructure:"timeout" json:"timeout"`
}

// Scoring holds the care-score thresholds. A score of at least RedMin flags
// red, at least BlueMin flags blue, anything below stays unflagged.
type Scoring struct {
	RedMin  int `mapstructure:"red_min" json:"red_min"`
	BlueMin int `mapstructure:"blue_min" json:"blue_min"`
}

// Config captures all user settings for a classification run. It is loaded
// once per invocation and read-only afterwards.
type Config struct {
	Name            string  `mapstructure:"name" json:"name"`
	LLMInstructions string  `mapstructure:"llm_instructions" json:"llm_instructions"`
	Ollama          Ollama  `mapstructure:"ollama" json:"ollama"`
	Scoring         Scoring `mapstructure:"scoring" json:"scoring"`
	MaxBytes        int     `mapstructure:"max_bytes" json:"max_bytes"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Name:            "User",
		LLMInstructions: "Prioritize work and family emails, deprioritize newsletters and promotions.",
		Ollama: Ollama{
			Model:    defaultModel,
			Endpoint: defaultEndpoint,
			Timeout:  defaultTimeout,
		},
		Scoring: Scoring{
			RedMin:  defaultRedMin,
			BlueMin: defaultBlueMin,
		},
		MaxBytes: defaultMaxBytes,
	}
}

// Dir returns the per-user data directory (~/.mail-triage).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mail-triage"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogDir returns the directory for per-run log files.
func LogDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// Load reads the config file at path. A missing file yields the defaults;
// missing fields in an existing file take their default values. A file that
// cannot be parsed, or that fails validation, returns ErrInvalid.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("name", "User")
	v.SetDefault("llm_instructions", Default().LLMInstructions)
	v.SetDefault("ollama.model", defaultModel)
	v.SetDefault("ollama.endpoint", defaultEndpoint)
	v.SetDefault("ollama.timeout", defaultTimeout)
	v.SetDefault("scoring.red_min", defaultRedMin)
	v.SetDefault("scoring.blue_min", defaultBlueMin)
	v.SetDefault("max_bytes", defaultMaxBytes)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Timeout returns the inference deadline as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Ollama.Timeout) * time.Second
}

func validate(cfg Config) error {
	if cfg.Scoring.RedMin < 0 || cfg.Scoring.RedMin > 100 {
		return fmt.Errorf("%w: scoring.red_min must be between 0 and 100, got %d", ErrInvalid, cfg.Scoring.RedMin)
	}
	if cfg.Scoring.BlueMin < 0 || cfg.Scoring.BlueMin > 100 {
		return fmt.Errorf("%w: scoring.blue_min must be between 0 and 100, got %d", ErrInvalid, cfg.Scoring.BlueMin)
	}
	if cfg.Scoring.BlueMin > cfg.Scoring.RedMin {
		return fmt.Errorf("%w: scoring.blue_min (%d) must not exceed scoring.red_min (%d)", ErrInvalid, cfg.Scoring.BlueMin, cfg.Scoring.RedMin)
	}
	if cfg.Ollama.Model == "" {
		return fmt.Errorf("%w: ollama.model is empty", ErrInvalid)
	}
	if cfg.Ollama.Timeout <= 0 {
		return fmt.Errorf("%w: ollama.timeout must be positive, got %d", ErrInvalid, cfg.Ollama.Timeout)
	}
	if cfg.MaxBytes <= 0 {
		return fmt.Errorf("%w: max_bytes must be positive, got %d", ErrInvalid, cfg.MaxBytes)
	}

	u, err := url.Parse(cfg.Ollama.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: ollama.endpoint %q is not a valid http(s) URL", ErrInvalid, cfg.Ollama.Endpoint)
	}

	return nil
}
