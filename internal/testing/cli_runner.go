package testing

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ExecuteFunc runs the command line in-process and returns its exit code.
type ExecuteFunc func(args []string, stdout, stderr io.Writer) int

// CLITestRunner runs CLI invocations against an ExecuteFunc.
type CLITestRunner struct {
	t       *testing.T
	execute ExecuteFunc
	prefix  []string
}

// NewCLITestRunner creates a new CLI test runner.
func NewCLITestRunner(t *testing.T, execute ExecuteFunc) *CLITestRunner {
	return &CLITestRunner{t: t, execute: execute}
}

// WithConfig passes --config path ahead of every invocation.
func (r *CLITestRunner) WithConfig(path string) *CLITestRunner {
	r.prefix = []string{"--config", path}
	return r
}

// CLIResult represents the result of a CLI command execution.
type CLIResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Run executes a CLI command and returns the result.
func (r *CLITestRunner) Run(args ...string) *CLIResult {
	r.t.Helper()

	full := append(append([]string{}, r.prefix...), args...)
	var stdout, stderr bytes.Buffer
	start := time.Now()
	code := r.execute(full, &stdout, &stderr)

	return &CLIResult{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
}

// AssertExitCode validates the exit code.
func (result *CLIResult) AssertExitCode(t *testing.T, expected int) *CLIResult {
	t.Helper()
	assert.Equal(t, expected, result.ExitCode, "exit code\nstdout: %s\nstderr: %s", result.Stdout, result.Stderr)
	return result
}

// AssertSuccess validates that the command exited with 0.
func (result *CLIResult) AssertSuccess(t *testing.T) *CLIResult {
	t.Helper()
	return result.AssertExitCode(t, 0)
}

// AssertOutputContains validates that stdout contains expected text.
func (result *CLIResult) AssertOutputContains(t *testing.T, expected string) *CLIResult {
	t.Helper()
	assert.Contains(t, result.Stdout, expected, "stdout")
	return result
}

// AssertErrorContains validates that stderr contains expected text.
func (result *CLIResult) AssertErrorContains(t *testing.T, expected string) *CLIResult {
	t.Helper()
	assert.Contains(t, result.Stderr, expected, "stderr")
	return result
}
