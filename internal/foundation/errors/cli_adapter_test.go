package errors

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad variant").Build(), expected: 2},
		{name: "read", err: ReadError("missing fragment").Build(), expected: 3},
		{name: "write", err: WriteError("readonly dir").Build(), expected: 4},
		{name: "minify", err: MinifyError("rejected").Build(), expected: 6},
		{name: "config", err: ConfigError("bad yaml").Build(), expected: 7},
		{name: "git", err: GitError("no repo").Build(), expected: 8},
		{name: "internal", err: InternalError("bug").Build(), expected: 10},
		{name: "wrapped minify", err: fmt.Errorf("build: %w", MinifyError("rejected").Build()), expected: 6},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := errors.New("open src/a.js: no such file or directory")
	readErr := WrapError(cause, CategoryRead, "read fragment").
		WithContext("stage", "assemble").
		WithContext("path", "src/a.js").
		Build()

	tests := []struct {
		name     string
		verbose  bool
		err      error
		contains []string
		excludes []string
	}{
		{
			name:     "classified error names stage and path",
			err:      readErr,
			contains: []string{"read failure: read fragment", "path=src/a.js", "stage=assemble"},
			excludes: []string{"no such file"},
		},
		{
			name:     "verbose adds the cause",
			verbose:  true,
			err:      readErr,
			contains: []string{"read failure", "no such file or directory"},
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "unknown error"},
			contains: []string{"Error: unknown error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewCLIErrorAdapter(tt.verbose, slog.New(slog.NewTextHandler(io.Discard, nil)))
			got := adapter.FormatError(tt.err)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, want to contain %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("FormatError() = %q, must not contain %q", got, unwanted)
				}
			}
		})
	}

	if got := NewCLIErrorAdapter(false, nil).FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty string", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	var logs bytes.Buffer
	code := -1

	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(MinifyError("minify output").WithContext("target", "full").Build())

	if code != 6 {
		t.Errorf("exit code = %d, want 6", code)
	}
	if !strings.Contains(out.String(), "minify failure: minify output (target=full)") {
		t.Errorf("unexpected stderr message %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=minify") {
		t.Errorf("expected fatal error to be logged, got %q", logs.String())
	}

	code = -1
	adapter.HandleError(nil)
	if code != -1 {
		t.Error("HandleError(nil) must not exit")
	}
}

// customError is a test helper for unclassified errors
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
