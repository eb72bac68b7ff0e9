package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackroad/roadplugin/json"
	"github.com/blackroad/roadplugin/utils"
)

func newInfoCmd(flags *rootFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show a plugin's descriptor and live state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			defer app.close()

			name := args[0]
			rec, ok := app.manager.Get(name)
			if !ok {
				// Not live; fall back to what the source can resolve.
				typ, err := app.manager.Resolve(name)
				if err != nil {
					return err
				}
				desc := typ.Descriptor
				if jsonOutput {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(desc)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", headerStyle.Render(utils.TitleWords(desc.Name)))
				fmt.Fprintf(cmd.OutOrStdout(), "  Version:      %s\n", desc.Version)
				fmt.Fprintf(cmd.OutOrStdout(), "  State:        %s\n", dimStyle.Render("not loaded"))
				printDescriptorDetails(cmd, desc.Description, desc.Author, desc.Dependencies, desc.Hooks)
				return nil
			}

			desc := rec.Descriptor()
			if jsonOutput {
				out := map[string]any{
					"descriptor": desc,
					"state":      rec.State().String(),
					"hooks":      app.manager.OwnerHookCount(name),
					"path":       rec.Path,
					"loaded_at":  rec.LoadedAt,
					"settings":   rec.Context.Config().Map(),
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", headerStyle.Render(utils.TitleWords(desc.Name)))
			fmt.Fprintf(cmd.OutOrStdout(), "  Version:      %s\n", desc.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  State:        %s\n", renderState(rec.State()))
			printDescriptorDetails(cmd, desc.Description, desc.Author, desc.Dependencies, desc.Hooks)
			fmt.Fprintf(cmd.OutOrStdout(), "  Registered:   %d hook handler(s)\n", app.manager.OwnerHookCount(name))
			if rec.Path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  Path:         %s\n", rec.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Loaded at:    %s\n", rec.LoadedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func printDescriptorDetails(cmd *cobra.Command, description, author string, dependencies, hooks []string) {
	if description != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Description:  %s\n", description)
	}
	if author != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Author:       %s\n", author)
	}
	if len(dependencies) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  Depends on:   %s\n", strings.Join(dependencies, ", "))
	}
	if len(hooks) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  Declares:     %s\n", strings.Join(hooks, ", "))
	}
}
