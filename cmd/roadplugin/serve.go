package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackroad/roadplugin/config"
	"github.com/blackroad/roadplugin/http/api"
	"github.com/blackroad/roadplugin/utils"
)

// shutdownGrace bounds how long serve waits for in-flight requests.
const shutdownGrace = 10 * time.Second

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load all plugins and serve the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.watchLifecycle()
			count := app.manager.LoadAll(ctx)
			app.autoEnable(ctx)
			app.logger.Info("plugins ready", zap.Int("loaded", count))

			// Config edits apply to the next load of each plugin.
			if len(app.loader.Files()) > 0 {
				err := app.loader.Watch(func(cfg config.Config) {
					app.logger.Info("configuration reloaded")
					app.applyPluginConfigs(cfg)
				})
				if err != nil {
					app.logger.Warn("config watch unavailable", zap.Error(err))
				}
			}

			apiCfg := app.cfg.API
			if addr != "" {
				apiCfg.Addr = addr
			}
			server := api.NewServer(app.manager, apiCfg, app.logger.Named("api"))
			for _, route := range utils.Routes(server.Router()) {
				app.logger.Debug("route registered", zap.String("route", route))
			}

			errCh := make(chan error, 1)
			go func() { errCh <- server.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides api.addr from config")

	return cmd
}
