package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiscoverCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "List every plugin name the sources know about",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			defer app.close()

			names := app.manager.Discover()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plugins found.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Discovered plugins:"))
			for _, name := range names {
				marker := dimStyle.Render("not loaded")
				if rec, ok := app.manager.Get(name); ok {
					marker = renderState(rec.State())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  [%s]\n", name, marker)
			}
			return nil
		},
	}
}
