package judge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/codebench/internal/logging"
)

// ProcessRunner runs programs with the local toolchains in a temp directory.
type ProcessRunner struct {
	languages map[string]LanguageConfig
	timeout   time.Duration
	logger    *slog.Logger
}

// NewProcessRunner returns a runner using langs (DefaultLanguages when nil)
// and a per-execution timeout.
func NewProcessRunner(langs map[string]LanguageConfig, timeout time.Duration, logger *slog.Logger) *ProcessRunner {
	if langs == nil {
		langs = DefaultLanguages()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProcessRunner{languages: langs, timeout: timeout, logger: logging.OrDiscard(logger)}
}

// Available reports whether the toolchain for language is on PATH.
func (r *ProcessRunner) Available(language string) bool {
	cfg, err := lookupLanguage(r.languages, language)
	if err != nil {
		return false
	}
	for _, argv := range [][]string{cfg.Build, cfg.Run} {
		if len(argv) == 0 || strings.HasPrefix(argv[0], "./") {
			continue
		}
		if _, err := exec.LookPath(argv[0]); err != nil {
			return false
		}
	}
	return true
}

func (r *ProcessRunner) Run(ctx context.Context, p Program, inputs []string) (Report, error) {
	cfg, err := lookupLanguage(r.languages, p.Language)
	if err != nil {
		return Report{}, err
	}

	dir, err := os.MkdirTemp("", "codebench-run-*")
	if err != nil {
		return Report{}, &RunError{Stage: "setup", Err: err}
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, cfg.FileName), []byte(p.Source), 0o644); err != nil {
		return Report{}, &RunError{Stage: "setup", Err: err}
	}

	report := Report{Build: Build{OK: true}}
	if len(cfg.Build) > 0 {
		buildCtx, cancel := context.WithTimeout(ctx, r.timeout*3)
		cmd := exec.CommandContext(buildCtx, cfg.Build[0], cfg.Build[1:]...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		cancel()
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return Report{}, &RunError{Stage: "build", Err: err}
			}
			report.Build = Build{OK: false, Output: string(out)}
			return report, nil
		}
		report.Build.Output = string(out)
	}

	for i, input := range inputs {
		exe, err := r.execute(ctx, dir, cfg.Run, input)
		if err != nil {
			return Report{}, &RunError{Stage: "run", Err: fmt.Errorf("input %d: %w", i, err)}
		}
		report.Executions = append(report.Executions, exe)
	}
	return report, nil
}

func (r *ProcessRunner) execute(ctx context.Context, dir string, argv []string, input string) (Execution, error) {
	if err := ctx.Err(); err != nil {
		return Execution{}, err
	}
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name := argv[0]
	if strings.HasPrefix(name, "./") {
		name = filepath.Join(dir, name)
	}
	cmd := exec.CommandContext(runCtx, name, argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	exe := Execution{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctx.Err() != nil {
		return Execution{}, ctx.Err()
	}
	if runCtx.Err() == context.DeadlineExceeded {
		exe.TimedOut = true
		exe.ExitCode = -1
		r.logger.Debug("execution timed out", "timeout", r.timeout)
		return exe, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exe.ExitCode = exitErr.ExitCode()
			return exe, nil
		}
		return Execution{}, err
	}
	return exe, nil
}
