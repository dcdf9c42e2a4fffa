package judge

import (
	"context"
	"fmt"
	"strings"
)

// Cases judges a program by running it on each test case's input and
// comparing its standard output with the expected output.
type Cases struct {
	runner   Runner
	language string
	cases    []TestCase
}

// NewCases returns a Judge for cases in language.
func NewCases(runner Runner, language string, cases []TestCase) *Cases {
	return &Cases{runner: runner, language: language, cases: cases}
}

func (c *Cases) Judge(ctx context.Context, code string) ([]TestResult, error) {
	inputs := make([]string, len(c.cases))
	for i, tc := range c.cases {
		inputs[i] = tc.Input
	}

	report, err := c.runner.Run(ctx, Program{Language: c.language, Source: code}, inputs)
	if err != nil {
		return nil, fmt.Errorf("judge: %w", err)
	}

	results := make([]TestResult, len(c.cases))
	for i, tc := range c.cases {
		res := TestResult{Input: tc.Input, Expected: tc.ExpectedOutput}
		switch {
		case !report.Build.OK:
			res.Error = "compilation failed:\n" + strings.TrimSpace(report.Build.Output)
		case i >= len(report.Executions):
			res.Error = "not executed"
		default:
			exe := report.Executions[i]
			res.Actual = exe.Stdout
			res.Duration = exe.Duration
			switch {
			case exe.TimedOut:
				res.Error = "time limit exceeded"
			case exe.ExitCode != 0:
				res.Error = fmt.Sprintf("exited with status %d", exe.ExitCode)
				if s := strings.TrimSpace(exe.Stderr); s != "" {
					res.Error += ": " + s
				}
			default:
				res.Passed = OutputsMatch(exe.Stdout, tc.ExpectedOutput)
			}
		}
		results[i] = res
	}
	return results, nil
}

// OutputsMatch compares program output with an expected answer, ignoring
// trailing whitespace on each line and trailing blank lines.
func OutputsMatch(actual, expected string) bool {
	return normalizeOutput(actual) == normalizeOutput(expected)
}

func normalizeOutput(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
