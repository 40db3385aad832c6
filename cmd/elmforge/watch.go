// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/elmforge/elmforge/internal/plugin"
	"github.com/elmforge/elmforge/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App, opts *globalOptions) *cobra.Command {
	var (
		outDir   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recompile exposed modules when Elm files change",
		Long: `Watch a project directory and recompile on change.

A changed .elm file is recompiled when its module is exposed. A change to
elm.json or elmforge.cue reloads the configuration and recompiles every
exposed module. elm-stuff is never watched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runWatch(cmd.Context(), app, opts, root, outDir, debounce)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "write <Module>.js files to this directory")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a rebuild")

	return cmd
}

func runWatch(ctx context.Context, app *App, opts *globalOptions, root, outDir string, debounce time.Duration) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve watch root: %w", err)
	}
	projectOpts := *opts
	projectOpts.baseDir = absRoot

	var (
		mu sync.Mutex
		p  *plugin.Plugin
	)

	current := func(reload bool) (*plugin.Plugin, error) {
		mu.Lock()
		defer mu.Unlock()
		if p == nil || reload {
			next, err := app.newPlugin(ctx, &projectOpts)
			if err != nil {
				return nil, err
			}
			p = next
		}
		return p, nil
	}

	if _, err := current(false); err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Root:     absRoot,
		Debounce: debounce,
		OnChange: func(ctx context.Context, batch watch.Batch) error {
			pl, err := current(batch.ConfigChanged)
			if err != nil {
				return err
			}

			var files []string
			if batch.ConfigChanged {
				files, err = findSources(absRoot, pl.Config().SourceDirectories)
				if err != nil {
					return err
				}
			} else {
				files = relativeTo(absRoot, batch.Sources)
			}

			results := compileAll(ctx, pl, files, runtime.NumCPU())
			// Failures are already printed; keep watching.
			_ = app.report(results, pl.Config(), outDir, opts.verbose)
			return nil
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stderr, "%s %s\n", TitleStyle.Render("watching"), w.Root())
	return w.Run(ctx)
}

// relativeTo rewrites absolute watcher paths relative to the project dir so
// they match relative source-directories. Paths outside dir stay absolute.
func relativeTo(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(dir, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			out = append(out, p)
			continue
		}
		out = append(out, rel)
	}
	return out
}
