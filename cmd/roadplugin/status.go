package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blackroad/roadplugin/json"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show aggregate plugin and hook status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			defer app.close()

			status := app.manager.Status()
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Plugin status"))
			fmt.Fprintf(cmd.OutOrStdout(), "  Plugins:  %d\n", status.Plugins)
			fmt.Fprintf(cmd.OutOrStdout(), "  Handlers: %d across %d hook(s)\n", status.Handlers, len(status.Hooks))

			if len(status.States) > 0 {
				states := make([]string, 0, len(status.States))
				for state := range status.States {
					states = append(states, state)
				}
				sort.Strings(states)
				fmt.Fprintln(cmd.OutOrStdout(), "  States:")
				for _, state := range states {
					fmt.Fprintf(cmd.OutOrStdout(), "    %-10s %d\n", state, status.States[state])
				}
			}

			if counters := status.Metrics.Describe(); len(counters) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("  Counters:"))
				for _, line := range counters {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", dimStyle.Render(line))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
