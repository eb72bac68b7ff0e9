package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blackroad/roadplugin/json"
	"github.com/blackroad/roadplugin/plugin"
)

type listOptions struct {
	jsonOutput bool
	state      string
}

func newListCmd(flags *rootFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded plugins and their states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			defer app.close()
			return runList(cmd, app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&opts.state, "state", "", "Only show plugins in this state")

	return cmd
}

func runList(cmd *cobra.Command, app *appContext, opts *listOptions) error {
	records := app.manager.List()
	if opts.state != "" {
		state, err := plugin.ParseState(opts.state)
		if err != nil {
			return err
		}
		records = app.manager.ListByState(state)
	}

	if opts.jsonOutput {
		type entry struct {
			Name    string `json:"name"`
			Version string `json:"version"`
			State   string `json:"state"`
			Hooks   int    `json:"hooks"`
		}
		out := make([]entry, 0, len(records))
		for _, rec := range records {
			out = append(out, entry{
				Name:    rec.Name(),
				Version: rec.Descriptor().Version,
				State:   rec.State().String(),
				Hooks:   app.manager.OwnerHookCount(rec.Name()),
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plugins loaded.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'roadplugin discover' to see what is available.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tVERSION\tSTATE\tHOOKS\tDESCRIPTION")
	for _, rec := range records {
		desc := rec.Descriptor()
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\n",
			desc.Name,
			desc.Version,
			renderState(rec.State()),
			app.manager.OwnerHookCount(desc.Name),
			desc.Description,
		)
	}
	return writer.Flush()
}
