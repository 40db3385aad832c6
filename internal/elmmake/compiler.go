// SPDX-License-Identifier: MPL-2.0

package elmmake

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

	"github.com/elmforge/elmforge/internal/config"
	"github.com/elmforge/elmforge/internal/issue"

	"github.com/joho/godotenv"
	"mvdan.cc/sh/v3/shell"
)

// DefaultExecutable is run when CompilerOptions.PathToElm is empty.
const DefaultExecutable = "elm"

type (
	// Compiler runs `elm make` for one file at a time. It holds no mutable
	// state, so a single Compiler may serve concurrent calls.
	Compiler struct {
		logger *slog.Logger
	}

	// Option configures a Compiler.
	Option func(*Compiler)

	// CompileError reports a failed `elm make` run. Output holds everything
	// the compiler printed, which is the Elm error report.
	CompileError struct {
		Path     string
		Output   string
		ExitCode int
		Err      error
	}
)

// WithLogger sets the logger used to trace compiler invocations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (e *CompileError) Error() string {
	report := strings.TrimSpace(e.Output)
	if report == "" {
		return fmt.Sprintf("elm make %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("elm make %s: %v\n%s", e.Path, e.Err, report)
}

func (e *CompileError) Unwrap() error { return e.Err }

// CompileToString compiles path and returns the generated JavaScript.
func (c *Compiler) CompileToString(ctx context.Context, path string, opts config.CompilerOptions) (string, error) {
	exe, err := resolveExecutable(opts.PathToElm)
	if err != nil {
		return "", err
	}

	env, err := buildEnv(opts)
	if err != nil {
		return "", err
	}

	out, err := os.CreateTemp("", "elmforge-*.js")
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	outPath := out.Name()
	if closeErr := out.Close(); closeErr != nil {
		return "", fmt.Errorf("close output file: %w", closeErr)
	}
	defer func() {
		if rmErr := os.Remove(outPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			c.logger.Warn("failed to remove compiler output", "path", outPath, "error", rmErr)
		}
	}()

	args := Args(path, outPath, opts)
	if opts.Verbose {
		c.logger.Info("running elm make", "command", exe+" "+strings.Join(args, " "), "cwd", opts.Cwd)
	} else {
		c.logger.Debug("running elm make", "exe", exe, "args", args, "cwd", opts.Cwd)
	}

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = opts.Cwd
	cmd.Env = env

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		compileErr := &CompileError{Path: path, Output: output.String(), ExitCode: -1, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			compileErr.ExitCode = exitErr.ExitCode()
		}
		return "", compileErr
	}

	js, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read compiler output for %s: %w", path, err)
	}
	return string(js), nil
}

// Args returns the `elm make` arguments for compiling path into output.
func Args(path, output string, opts config.CompilerOptions) []string {
	args := []string{"make", path, "--output=" + output}
	if opts.Debug {
		args = append(args, "--debug")
	}
	if opts.Optimize {
		args = append(args, "--optimize")
	}
	if opts.Report == config.ReportJSON {
		args = append(args, "--report=json")
	}
	return args
}

// resolveExecutable expands shell parameters in pathToElm ("$HOME/bin/elm")
// and looks the result up on PATH.
func resolveExecutable(pathToElm string) (string, error) {
	name := DefaultExecutable
	if pathToElm != "" {
		expanded, err := shell.Expand(pathToElm, nil)
		if err != nil {
			return "", issue.NewErrorContext().
				WithOperation("expand pathToElm").
				WithResource(pathToElm).
				WithSuggestion("Use a plain path or simple $VAR references").
				Wrap(err).
				BuildError()
		}
		name = expanded
	}

	exe, err := exec.LookPath(name)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("locate the Elm compiler").
			WithResource(name).
			WithSuggestion("Install Elm and make sure `elm` is on your PATH").
			WithSuggestion("Or set plugins.elm.compilerOptions.pathToElm").
			Wrap(err).
			BuildError()
	}
	return exe, nil
}

// buildEnv returns the process environment extended with the variables of
// opts.EnvFile. A path ending in "?" is optional. Relative paths resolve
// against opts.Cwd.
func buildEnv(opts config.CompilerOptions) ([]string, error) {
	env := os.Environ()
	if opts.EnvFile == "" {
		return env, nil
	}

	path := opts.EnvFile
	optional := strings.HasSuffix(path, "?")
	path = strings.TrimSuffix(path, "?")
	if !filepath.IsAbs(path) && opts.Cwd != "" {
		path = filepath.Join(opts.Cwd, path)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return env, nil
		}
		return nil, issue.NewErrorContext().
			WithOperation("read compiler env file").
			WithResource(path).
			WithSuggestion("Append '?' to envFile to make it optional").
			Wrap(err).
			BuildError()
	}

	for key, value := range vars {
		env = append(env, key+"="+value)
	}
	return env, nil
}
