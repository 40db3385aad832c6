// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/elmforge/elmforge/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App, opts *globalOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective plugin configuration",
		Long: `Inspect the effective plugin configuration.

The configuration is layered: built-in defaults, then source-directories
from elm.json, then the plugins.elm section of elmforge.cue. Each key set in
elmforge.cue replaces the lower layer entirely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.effectiveConfig(cmd.Context(), opts)
			if err != nil {
				return err
			}
			app.showConfig(cfg)
			return nil
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as cue, json, yaml or toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.effectiveConfig(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out, err := config.Encode(cfg, config.Format(format))
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(out)
			return err
		},
	}
	dumpCmd.Flags().StringVarP(&format, "format", "f", string(config.FormatCUE), "output format (cue, json, yaml, toml)")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func (a *App) showConfig(cfg config.Config) {
	w := a.stdout
	fmt.Fprintln(w, TitleStyle.Render("Effective Configuration"))
	fmt.Fprintln(w)

	opts := cfg.CompilerOptions
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("compilerOptions"))
	fmt.Fprintf(w, "  debug: %s\n", SuccessStyle.Render(fmt.Sprint(opts.Debug)))
	fmt.Fprintf(w, "  optimize: %s\n", SuccessStyle.Render(fmt.Sprint(opts.Optimize)))
	fmt.Fprintf(w, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprint(opts.Verbose)))
	fmt.Fprintf(w, "  pathToElm: %s\n", valueOrDefault(opts.PathToElm, "elm"))
	fmt.Fprintf(w, "  cwd: %s\n", valueOrDefault(opts.Cwd, "(working directory)"))
	fmt.Fprintf(w, "  report: %s\n", valueOrDefault(string(opts.Report), "(human readable)"))
	fmt.Fprintf(w, "  envFile: %s\n", valueOrDefault(opts.EnvFile, "(none)"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("renderErrors"), SuccessStyle.Render(fmt.Sprint(cfg.RenderErrors)))
	fmt.Fprintln(w)

	writeList(a, "exposed-modules", cfg.ExposedModules)
	fmt.Fprintln(w)
	writeList(a, "source-directories", cfg.SourceDirectories)
}

func writeList[S ~string](a *App, label string, items []S) {
	fmt.Fprintf(a.stdout, "%s:\n", KeyStyle.Render(label))
	if len(items) == 0 {
		fmt.Fprintf(a.stdout, "  %s\n", SubtitleStyle.Render("(none)"))
		return
	}
	for _, item := range items {
		fmt.Fprintf(a.stdout, "  - %s\n", SuccessStyle.Render(string(item)))
	}
}

func valueOrDefault(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return SubtitleStyle.Render(placeholder)
	}
	return SuccessStyle.Render(v)
}
