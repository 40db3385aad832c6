// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/elmforge/elmforge/internal/config"
	"github.com/elmforge/elmforge/internal/elmmake"
	"github.com/elmforge/elmforge/internal/issue"
	"github.com/elmforge/elmforge/internal/module"
	"github.com/elmforge/elmforge/internal/plugin"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type (
	compileRequest struct {
		Files  []string
		OutDir string
		Jobs   int
	}

	compileResult struct {
		path   string
		module module.Name
		out    *plugin.File
		err    error
	}
)

func newCompileCommand(app *App, opts *globalOptions) *cobra.Command {
	req := compileRequest{}

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile exposed Elm modules to JavaScript",
		Long: `Compile Elm files whose module is listed in exposed-modules.

Without arguments every .elm file under the configured source directories
is considered. Files of non-exposed modules are skipped. Output goes to
--out-dir/<Module>.js, or to stdout when no output directory is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Files = args
			return runCompile(cmd.Context(), app, opts, req)
		},
	}

	cmd.Flags().StringVarP(&req.OutDir, "out-dir", "o", "", "write <Module>.js files to this directory")
	cmd.Flags().IntVarP(&req.Jobs, "jobs", "j", runtime.NumCPU(), "number of concurrent compilations")

	return cmd
}

func runCompile(ctx context.Context, app *App, opts *globalOptions, req compileRequest) error {
	p, err := app.newPlugin(ctx, opts)
	if err != nil {
		return err
	}

	files := req.Files
	if len(files) == 0 {
		files, err = findSources(".", p.Config().SourceDirectories)
		if err != nil {
			return err
		}
	}

	results := compileAll(ctx, p, files, req.Jobs)
	return app.report(results, p.Config(), req.OutDir, opts.verbose)
}

// compileAll compiles files with at most jobs concurrent compiler runs.
// Results keep the order of files.
func compileAll(ctx context.Context, p *plugin.Plugin, files []string, jobs int) []compileResult {
	results := make([]compileResult, len(files))

	g := new(errgroup.Group)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range files {
		g.Go(func() error {
			file := &plugin.File{Path: path}
			name, _ := p.Module(file)
			out, err := p.Compile(ctx, file)
			results[i] = compileResult{path: path, module: name, out: out, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// report writes compiled output and prints one status line per file.
func (a *App) report(results []compileResult, cfg config.Config, outDir string, verbose bool) error {
	var failed int
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			a.reportFailure(r, cfg, verbose)
		case r.out == nil:
			fmt.Fprintf(a.stderr, "%s %s\n", WarningStyle.Render("skipped"), r.path)
		default:
			if err := a.writeOutput(r, outDir); err != nil {
				failed++
				fmt.Fprintln(a.stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, verbose))
				continue
			}
			fmt.Fprintf(a.stderr, "%s %s %s\n", SuccessStyle.Render("✓"), r.path, KeyStyle.Render(string(r.module)))
		}
	}

	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d files failed to compile", failed, len(results))}
	}
	return nil
}

func (a *App) reportFailure(r compileResult, cfg config.Config, verbose bool) {
	if errors.Is(r.err, exec.ErrNotFound) {
		a.renderIssue(issue.ElmNotFoundId)
	}

	var compileErr *elmmake.CompileError
	if cfg.RenderErrors && errors.As(r.err, &compileErr) {
		rendered, err := issue.RenderCompileFailure(r.path, compileErr.Output, "dark")
		if err == nil {
			fmt.Fprint(a.stderr, rendered)
			return
		}
	}

	fmt.Fprintf(a.stderr, "%s %s\n%s\n", ErrorStyle.Render("✗"), r.path, formatErrorForDisplay(r.err, verbose))
}

func (a *App) writeOutput(r compileResult, outDir string) error {
	if outDir == "" {
		_, err := fmt.Fprint(a.stdout, r.out.Data)
		return err
	}

	target := filepath.Join(outDir, filepath.FromSlash(string(r.module))+".js")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return issue.WrapWithContext(err, "create output directory", filepath.Dir(target))
	}
	if err := os.WriteFile(target, []byte(r.out.Data), 0o644); err != nil {
		return issue.WrapWithContext(err, "write compiled module", target)
	}
	return nil
}

// findSources lists the .elm files under each source directory, in
// configured order, joined the same way the directory was written so module
// resolution sees the configured prefix. Relative directories are looked up
// under base.
func findSources(base string, dirs []config.SourceDirectory) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	for _, dir := range dirs {
		root := string(dir)
		fsRoot := root
		if !filepath.IsAbs(fsRoot) {
			fsRoot = filepath.Join(base, fsRoot)
		}
		matches, err := doublestar.Glob(os.DirFS(fsRoot), "**/*.elm", doublestar.WithFilesOnly())
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, issue.WrapWithContext(err, "list Elm sources", root)
		}
		for _, m := range matches {
			path := strings.TrimSuffix(root, "/") + "/" + m
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}
	return files, nil
}
