package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CODEBENCH_DB", "CODEBENCH_PROBLEMS", "CODEBENCH_DOWNLOADS", "CODEBENCH_LOG_PATH",
		"CODEBENCH_LOG_LEVEL", "CODEBENCH_RUNNER_KIND", "CODEBENCH_RUNNER_IMAGE",
		"CODEBENCH_RUNNER_TIMEOUT_SECONDS", "CODEBENCH_RUNNER_MEMORY_MB",
		"CODEBENCH_RUNNER_MAX_CONCURRENT", "CODEBENCH_AUTH_TOKEN", "CODEBENCH_AUTH_SECRET",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.Runner.Kind)
	assert.Equal(t, 10, cfg.Runner.TimeoutSeconds)
	assert.Equal(t, 256, cfg.Runner.MemoryMB)
	assert.Equal(t, 2, cfg.Runner.MaxConcurrent)
	assert.NotEmpty(t, cfg.DownloadsDir)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
db_path: /tmp/from-file.db
log_level: debug
runner:
  kind: docker
  image: custom:1
  timeout_seconds: 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("CODEBENCH_DB", "/tmp/from-env.db")
	t.Setenv("CODEBENCH_RUNNER_MAX_CONCURRENT", "7")
	t.Setenv("CODEBENCH_AUTH_TOKEN", "tok")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-env.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "docker", cfg.Runner.Kind)
	assert.Equal(t, "custom:1", cfg.Runner.Image)
	assert.Equal(t, 3, cfg.Runner.TimeoutSeconds)
	assert.Equal(t, 7, cfg.Runner.MaxConcurrent)
	assert.Equal(t, "tok", cfg.Auth.Token)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runner: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad runner", func(c *Config) { c.Runner.Kind = "k8s" }, true},
		{"negative timeout", func(c *Config) { c.Runner.TimeoutSeconds = -1 }, true},
		{"empty runner normalized", func(c *Config) { c.Runner = RunnerConfig{} }, false},
		{"upper-case level normalized", func(c *Config) { c.LogLevel = " WARN " }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.DownloadsDir = "/tmp"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, []string{"debug", "info", "warn", "error"}, cfg.LogLevel)
			assert.NotEmpty(t, cfg.Runner.Kind)
			assert.Positive(t, cfg.Runner.TimeoutSeconds)
		})
	}
}

func TestDefaultPathUsesXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "codebench", "config.yaml"), p)
}
