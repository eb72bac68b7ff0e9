package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configs []string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "roadplugin",
		Short:         "roadplugin manages plugins and their extension points",
		Long:          "roadplugin discovers, loads, enables, disables, and reloads plugins,\nand dispatches their hooks in priority order.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVarP(&flags.configs, "config", "c", nil, "Config file (repeatable, later files win)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newDiscoverCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newLoadCmd(flags))
	cmd.AddCommand(newEnableCmd(flags))
	cmd.AddCommand(newDisableCmd(flags))
	cmd.AddCommand(newUnloadCmd(flags))
	cmd.AddCommand(newReloadCmd(flags))
	cmd.AddCommand(newInfoCmd(flags))
	cmd.AddCommand(newHooksCmd(flags))
	cmd.AddCommand(newLoadAllCmd(flags))
	cmd.AddCommand(newStatusCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
