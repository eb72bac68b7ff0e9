package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newTransitionCmd builds the enable/disable/unload family: one positional
// plugin name, one manager call, one confirmation line.
func newTransitionCmd(flags *rootFlags, use, short, done string, op func(*appContext, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			defer app.close()

			if err := op(app, cmd.Context(), args[0]); err != nil {
				return err
			}

			if rec, ok := app.manager.Get(args[0]); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s [%s]\n", done, args[0], renderState(rec.State()))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, args[0])
			}
			return nil
		},
	}
}

func newEnableCmd(flags *rootFlags) *cobra.Command {
	return newTransitionCmd(flags, "enable", "Enable a loaded plugin", "Enabled",
		func(app *appContext, ctx context.Context, name string) error {
			return app.manager.Enable(ctx, name)
		})
}

func newDisableCmd(flags *rootFlags) *cobra.Command {
	return newTransitionCmd(flags, "disable", "Disable an enabled plugin", "Disabled",
		func(app *appContext, ctx context.Context, name string) error {
			return app.manager.Disable(ctx, name)
		})
}

func newUnloadCmd(flags *rootFlags) *cobra.Command {
	return newTransitionCmd(flags, "unload", "Unload a plugin and remove its hooks", "Unloaded",
		func(app *appContext, ctx context.Context, name string) error {
			return app.manager.Unload(ctx, name)
		})
}

func newReloadCmd(flags *rootFlags) *cobra.Command {
	return newTransitionCmd(flags, "reload", "Unload and load a plugin again", "Reloaded",
		func(app *appContext, ctx context.Context, name string) error {
			_, err := app.manager.Reload(ctx, name)
			return err
		})
}
