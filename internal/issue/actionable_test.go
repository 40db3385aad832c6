// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "compile module"},
			expected: "failed to compile module",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "compile module", Resource: "src/Main.elm"},
			expected: "failed to compile module: src/Main.elm",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "elmforge.cue",
				Cause:     errors.New("unexpected token"),
			},
			expected: "failed to load configuration: elmforge.cue: unexpected token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("read manifest").
		Wrap(fs.ErrNotExist).
		BuildError()

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should see through ActionableError")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 1")
	err := NewErrorContext().
		WithOperation("compile module").
		WithResource("src/Main.elm").
		WithSuggestion("Fix the reported problems").
		WithSuggestion("Run with --verbose").
		Wrap(cause).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "• Fix the reported problems") || !strings.Contains(short, "• Run with --verbose") {
		t.Errorf("Format(false) misses suggestions:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain:\n  1. exit status 1") {
		t.Errorf("Format(true) misses the error chain:\n%s", long)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation should return a nil interface, got %#v", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}

	cause := errors.New("boom")
	err := WrapWithContext(cause, "walk dependencies", "src/Main.elm")
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ActionableError, got %T", err)
	}
	if ae.Resource != "src/Main.elm" || !errors.Is(err, cause) {
		t.Errorf("unexpected error: %v", err)
	}
	if ae.HasSuggestions() {
		t.Error("WrapWithContext should not add suggestions")
	}
}
