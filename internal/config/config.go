// Package config resolves codebench runtime configuration from defaults, an
// optional YAML file and CODEBENCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CODEBENCH_"

// Config controls runtime behavior for the CLI and the TUI.
type Config struct {
	DBPath       string `yaml:"db_path" env:"DB"`
	ProblemsDir  string `yaml:"problems_dir" env:"PROBLEMS"`
	DownloadsDir string `yaml:"downloads_dir" env:"DOWNLOADS"`
	LogPath      string `yaml:"log_path" env:"LOG_PATH"`
	LogLevel     string `yaml:"log_level" env:"LOG_LEVEL"`

	Runner RunnerConfig `yaml:"runner" envPrefix:"RUNNER_"`
	Auth   AuthConfig   `yaml:"auth" envPrefix:"AUTH_"`
}

// RunnerConfig selects and tunes the code runner used by judges.
type RunnerConfig struct {
	Kind           string `yaml:"kind" env:"KIND"`   // auto, process, docker
	Image          string `yaml:"image" env:"IMAGE"` // overrides the per-language image
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	MemoryMB       int    `yaml:"memory_mb" env:"MEMORY_MB"`
	MaxConcurrent  int    `yaml:"max_concurrent" env:"MAX_CONCURRENT"`
}

// AuthConfig holds the optional signed-in token and its verification secret.
type AuthConfig struct {
	Token  string `yaml:"-" env:"TOKEN"`
	Secret string `yaml:"secret" env:"SECRET"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Runner: RunnerConfig{
			Kind:           "auto",
			TimeoutSeconds: 10,
			MemoryMB:       256,
			MaxConcurrent:  2,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/codebench/config.yaml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	cfgHome := os.Getenv("XDG_CONFIG_HOME")
	if cfgHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		cfgHome = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgHome, "codebench", "config.yaml"), nil
}

// Load builds a Config from defaults, the YAML file at path (skipped when it
// does not exist) and the environment, then validates it. An empty path
// skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate normalizes empty values to defaults and rejects invalid ones.
func (c *Config) Validate() error {
	def := Default()

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "":
		c.LogLevel = def.LogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	switch c.Runner.Kind {
	case "":
		c.Runner.Kind = def.Runner.Kind
	case "auto", "process", "docker":
	default:
		return fmt.Errorf("invalid runner kind %q", c.Runner.Kind)
	}
	if c.Runner.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid runner timeout %d", c.Runner.TimeoutSeconds)
	}
	if c.Runner.TimeoutSeconds == 0 {
		c.Runner.TimeoutSeconds = def.Runner.TimeoutSeconds
	}
	if c.Runner.MemoryMB <= 0 {
		c.Runner.MemoryMB = def.Runner.MemoryMB
	}
	if c.Runner.MaxConcurrent <= 0 {
		c.Runner.MaxConcurrent = def.Runner.MaxConcurrent
	}

	if c.DownloadsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DownloadsDir = filepath.Join(home, "Downloads")
	}
	return nil
}
