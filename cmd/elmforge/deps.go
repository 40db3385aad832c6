// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/elmforge/elmforge/internal/plugin"

	"github.com/spf13/cobra"
)

func newDepsCommand(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deps <file>",
		Short: "List the local files an Elm file imports",
		Long: `List every local Elm file the given file imports, directly or
transitively, one absolute path per line. Works for any file, exposed or not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.newPlugin(ctx, opts)
			if err != nil {
				return err
			}

			paths, err := p.GetDependenciesAsync(ctx, &plugin.File{Path: args[0]}).Await(ctx)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Fprintln(app.stdout, path)
			}
			return nil
		},
	}
}
