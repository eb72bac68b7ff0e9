// Package audit observes a configured set of hooks. For every watched hook
// it registers a lowest-priority observer that logs the firing and counts
// it, so the observer runs after every real handler and never changes a
// filter chain's outcome.
package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/blackroad/roadplugin/hook"
	"github.com/blackroad/roadplugin/logging"
	"github.com/blackroad/roadplugin/plugin"
	"github.com/blackroad/roadplugin/source"
)

// HookReport returns the plugin's firing counts as a map[string]uint64.
const HookReport = "audit.report"

func init() {
	source.MustRegister(Type())
}

// Type returns the loadable audit plugin type.
func Type() plugin.Type {
	return plugin.Type{
		Descriptor: plugin.Descriptor{
			Name:        "audit",
			Version:     "1.0.0",
			Description: "Counts and logs firings of configured hooks",
			Author:      "roadplugin",
			Hooks:       []string{HookReport},
			ConfigSchema: map[string]any{
				"hooks": "list of hook names to observe",
			},
		},
		New: func(pctx *plugin.Context) (plugin.Instance, error) {
			return &auditPlugin{
				pctx:   pctx,
				logger: logging.Named("plugin.audit"),
				counts: make(map[string]uint64),
			}, nil
		},
	}
}

type auditPlugin struct {
	pctx   *plugin.Context
	logger logging.Logger

	mu     sync.Mutex
	counts map[string]uint64
}

func (p *auditPlugin) Descriptor() plugin.Descriptor { return Type().Descriptor }

func (p *auditPlugin) OnLoad(context.Context) error {
	for _, name := range p.watchedHooks() {
		hookName := name
		p.pctx.RegisterHook(hookName, func(_ context.Context, args ...any) (any, error) {
			count := p.record(hookName)
			p.logger.Info("hook observed",
				zap.String("hook", hookName),
				zap.Uint64("count", count),
				zap.Int("args", len(args)),
			)
			// Pass the value through untouched when running in a
			// filter chain.
			if len(args) > 0 {
				return args[0], nil
			}
			return nil, nil
		}, plugin.WithPriority(hook.Lowest))
	}

	p.pctx.RegisterHook(HookReport, func(context.Context, ...any) (any, error) {
		return p.Report(), nil
	})
	return nil
}

func (p *auditPlugin) OnEnable(context.Context) error  { return nil }
func (p *auditPlugin) OnDisable(context.Context) error { return nil }

func (p *auditPlugin) OnUnload(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts = make(map[string]uint64)
	return nil
}

// Report returns a copy of the per-hook firing counts.
func (p *auditPlugin) Report() map[string]uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]uint64, len(p.counts))
	for k, v := range p.counts {
		out[k] = v
	}
	return out
}

func (p *auditPlugin) record(hookName string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[hookName]++
	return p.counts[hookName]
}

// watchedHooks reads the "hooks" setting. YAML and JSON decoders deliver
// the list as []any; a missing or empty setting watches nothing.
func (p *auditPlugin) watchedHooks() []string {
	raw, ok := p.pctx.Config().Get("hooks")
	if !ok {
		return nil
	}

	var names []string
	switch v := raw.(type) {
	case []string:
		names = append(names, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
	}
	return names
}
