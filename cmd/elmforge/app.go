// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/elmforge/elmforge/internal/config"
	"github.com/elmforge/elmforge/internal/deps"
	"github.com/elmforge/elmforge/internal/elmmake"
	"github.com/elmforge/elmforge/internal/issue"
	"github.com/elmforge/elmforge/internal/plugin"
)

type (
	// App is the composition root of the CLI. Command handlers receive it and
	// build a Plugin per invocation from the effective configuration.
	App struct {
		Config   config.Provider
		Compiler plugin.Compiler
		Walker   plugin.DependencyWalker
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config   config.Provider
		Compiler plugin.Compiler
		Walker   plugin.DependencyWalker
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// globalOptions are the persistent root flags.
	globalOptions struct {
		configPath   string
		manifestPath string
		verbose      bool
		// baseDir is the project directory; empty means the working
		// directory. Only watch sets it.
		baseDir string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(d Dependencies) (*App, error) {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Config == nil {
		d.Config = config.NewProvider()
	}
	if d.Compiler == nil {
		d.Compiler = elmmake.New()
	}
	if d.Walker == nil {
		w, err := deps.New()
		if err != nil {
			return nil, err
		}
		d.Walker = w
	}

	return &App{
		Config:   d.Config,
		Compiler: d.Compiler,
		Walker:   d.Walker,
		stdout:   d.Stdout,
		stderr:   d.Stderr,
	}, nil
}

func (o *globalOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: o.configPath,
		ManifestPath:   o.manifestPath,
		BaseDir:        o.baseDir,
	}
}

// effectiveConfig loads the configuration, printing the troubleshooting
// issue when the caller's config file is broken.
func (a *App) effectiveConfig(ctx context.Context, opts *globalOptions) (config.Config, error) {
	cfg, err := config.Effective(ctx, a.Config, opts.loadOptions())
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId)
		return config.Config{}, err
	}
	return cfg, nil
}

// newPlugin builds the adapter over the effective configuration.
func (a *App) newPlugin(ctx context.Context, opts *globalOptions) (*plugin.Plugin, error) {
	cfg, err := a.effectiveConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(cfg.SourceDirectories) == 0 {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: no source directories configured"))
		a.renderIssue(issue.ManifestNotFoundId)
	}
	if opts.baseDir != "" {
		// Source paths are project-relative, so the compiler runs there too.
		switch cwd := cfg.CompilerOptions.Cwd; {
		case cwd == "":
			cfg.CompilerOptions.Cwd = opts.baseDir
		case !filepath.IsAbs(cwd):
			cfg.CompilerOptions.Cwd = filepath.Join(opts.baseDir, cwd)
		}
	}
	return plugin.New(cfg, a.Compiler, a.Walker), nil
}

func (a *App) renderIssue(id issue.Id) {
	rendered, err := issue.Get(id).Render("dark")
	if err != nil {
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// formatErrorForDisplay uses the actionable format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
