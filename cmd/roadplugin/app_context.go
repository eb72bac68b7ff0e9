package main

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blackroad/roadplugin/config"
	"github.com/blackroad/roadplugin/logging"
	"github.com/blackroad/roadplugin/metrics"
	"github.com/blackroad/roadplugin/runtime"
	"github.com/blackroad/roadplugin/source"
)

// appContext is the process-scoped state every command runs against,
// constructed once per invocation: merged config, logger, and a manager
// layered over the plugin directories and the compiled-in factories.
type appContext struct {
	cfg     config.Config
	loader  *config.Loader
	logger  logging.Logger
	manager *runtime.Manager
	bus     *runtime.Bus
}

// eventBufferSize is the lifecycle bus depth for the serve command.
const eventBufferSize = 64

func newAppContext(flags *rootFlags) (*appContext, error) {
	loader, err := config.NewLoader(flags.configs...)
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Config()
	if err != nil {
		return nil, err
	}

	if flags.verbose {
		cfg.Logging.Level = "debug"
	}
	logging.Init(cfg.Logging)

	// Every error-level record anywhere in the process lands in the
	// collector, so status surfaces it without scraping logs.
	collector := metrics.NewCollector()
	logger := logging.WithHooks(logging.Global(), func(entry zapcore.Entry) error {
		if entry.Level >= zapcore.ErrorLevel {
			collector.IncCounter("log_errors_total", nil)
		}
		return nil
	})
	logging.SetGlobal(logger)

	src := source.NewMulti(
		source.NewDirSource(cfg.PluginDirs, logger.Zap().Named("source.dir")),
		source.NewFactorySource(logger.Zap().Named("source.factory")),
	)
	bus := runtime.NewBus(eventBufferSize, logger.Zap().Named("events"))
	manager := runtime.NewManager(
		runtime.WithSource(src),
		runtime.WithLogger(logger.Zap().Named("runtime")),
		runtime.WithMetrics(collector),
		runtime.WithEvents(bus),
	)

	app := &appContext{
		cfg:     cfg,
		loader:  loader,
		logger:  logger,
		manager: manager,
		bus:     bus,
	}
	app.applyPluginConfigs(cfg)
	return app, nil
}

// applyPluginConfigs hands every configured settings stanza to the
// manager. Live instances pick the change up on their next load.
func (a *appContext) applyPluginConfigs(cfg config.Config) {
	for name, pc := range cfg.Plugins {
		if pc.Settings != nil {
			a.manager.SetConfig(name, pc.Settings)
		}
	}
}

// watchLifecycle mirrors every lifecycle event into the debug log so a
// serve process leaves a trace of what changed and when.
func (a *appContext) watchLifecycle() {
	a.bus.SubscribeAll(func(_ context.Context, ev runtime.Event) error {
		fields := []zap.Field{
			zap.String("event", ev.Name),
			zap.String("plugin", ev.Plugin),
		}
		if ev.Err != "" {
			fields = append(fields, zap.String("error", ev.Err))
		}
		a.logger.Debug("lifecycle event", fields...)
		return nil
	})
}

// autoEnable enables every plugin the config marks enabled, after a
// load-all. Failures are logged and do not stop the pass.
func (a *appContext) autoEnable(ctx context.Context) {
	for _, name := range a.cfg.EnabledPlugins() {
		if _, ok := a.manager.Get(name); !ok {
			continue
		}
		if err := a.manager.Enable(ctx, name); err != nil {
			a.logger.Warn("auto-enable failed",
				zap.String("plugin", name), zap.Error(err))
		}
	}
}

// close releases the app's background resources.
func (a *appContext) close() {
	_ = a.bus.Close()
	_ = a.loader.Close()
}
