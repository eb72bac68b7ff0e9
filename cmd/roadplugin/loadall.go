package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad/roadplugin/plugin"
)

func newLoadAllCmd(flags *rootFlags) *cobra.Command {
	var enable bool

	cmd := &cobra.Command{
		Use:   "load-all",
		Short: "Discover and load every known plugin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			defer app.close()

			count := app.manager.LoadAll(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d plugin(s).\n", count)

			if enable {
				app.autoEnable(cmd.Context())
				enabled := len(app.manager.ListByState(plugin.StateEnabled))
				fmt.Fprintf(cmd.OutOrStdout(), "Enabled %d plugin(s) from config.\n", enabled)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&enable, "enable", false, "Also enable plugins marked enabled in config")

	return cmd
}
