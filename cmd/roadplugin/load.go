package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackroad/roadplugin/runtime"
)

func newLoadCmd(flags *rootFlags) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Load a plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			defer app.close()

			var opts []runtime.LoadOption
			if path != "" {
				opts = append(opts, runtime.WithPath(path))
			}

			rec, err := app.manager.Load(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s %s [%s]\n",
				rec.Name(), rec.Descriptor().Version, renderState(rec.State()))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Explicit manifest path to resolve from")

	return cmd
}
