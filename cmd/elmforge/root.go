// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the elmforge CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree over app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "elmforge",
		Short: "Compile exposed Elm modules for a build pipeline",
		Long: TitleStyle.Render("elmforge") + SubtitleStyle.Render(" - Elm modules as pipeline assets") + `

elmforge maps Elm files to module names using the source-directories of
elm.json, compiles the modules listed in exposed-modules with 'elm make',
and reports the files each module depends on.

Plugin options are read from the plugins.elm section of elmforge.cue.

` + SubtitleStyle.Render("Examples:") + `
  elmforge compile src/Main.elm      Compile one file to stdout
  elmforge compile --out-dir dist    Compile every exposed module
  elmforge module src/Page/Home.elm  Show the module name and exposure
  elmforge deps src/Main.elm         List the files Main imports
  elmforge watch                     Recompile on change`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(app.stderr, opts.verbose))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "caller config file (default is ./elmforge.cue)")
	rootCmd.PersistentFlags().StringVar(&opts.manifestPath, "manifest", "", "elm.json location (default is ./elm.json)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newCompileCommand(app, opts),
		newDepsCommand(app, opts),
		newModuleCommand(app, opts),
		newConfigCommand(app, opts),
		newWatchCommand(app, opts),
	)

	return rootCmd
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the resulting status. Called by
// main.main.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
