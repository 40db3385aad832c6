// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/elmforge/elmforge/internal/issue"
	"github.com/elmforge/elmforge/internal/plugin"

	"github.com/spf13/cobra"
)

func newModuleCommand(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "module <file>...",
		Short: "Show the module name and exposure of Elm files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.newPlugin(cmd.Context(), opts)
			if err != nil {
				return err
			}

			hint := false
			for _, path := range args {
				file := &plugin.File{Path: path}
				name, ok := p.Module(file)
				switch {
				case !ok:
					fmt.Fprintf(app.stdout, "%s\t%s\n", path, SubtitleStyle.Render("(no matching source directory)"))
				case p.Exposed(file):
					fmt.Fprintf(app.stdout, "%s\t%s\t%s\n", path, KeyStyle.Render(string(name)), SuccessStyle.Render("exposed"))
				default:
					hint = true
					fmt.Fprintf(app.stdout, "%s\t%s\t%s\n", path, KeyStyle.Render(string(name)), WarningStyle.Render("not exposed"))
				}
			}

			if hint && opts.verbose {
				app.renderIssue(issue.ModuleNotExposedId)
			}
			return nil
		},
	}
}
