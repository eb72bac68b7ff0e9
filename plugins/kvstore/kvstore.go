// Package kvstore exposes a Redis-backed key/value store to the hook
// surface: actions for get/set/delete and a filter that fills a map from
// stored values. The connection comes from the plugin's settings and lives
// from OnLoad to OnUnload.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"

	"github.com/blackroad/roadplugin/plugin"
	"github.com/blackroad/roadplugin/redis_client"
	"github.com/blackroad/roadplugin/source"
)

// Hook names the plugin serves.
const (
	// HookGet reads a key: Execute(ctx, kvstore.HookGet, "key"). A missing
	// key yields a nil result, not an error.
	HookGet = "kv.get"
	// HookSet writes a key: Execute(ctx, kvstore.HookSet, "key", value).
	HookSet = "kv.set"
	// HookDelete removes keys and returns how many existed.
	HookDelete = "kv.delete"
	// HookFill is a filter over a map[string]any: every key present in the
	// store has its value replaced by the stored one.
	HookFill = "kv.fill"
)

func init() {
	source.MustRegister(Type())
}

// settings is the shape of the plugin's configuration stanza. The ttl
// setting is read separately, as a duration string.
type settings struct {
	redis_client.Config
	Prefix string `json:"prefix"`
}

// Type returns the loadable kvstore plugin type.
func Type() plugin.Type {
	return plugin.Type{
		Descriptor: plugin.Descriptor{
			Name:        "kvstore",
			Version:     "1.0.0",
			Description: "Redis-backed key/value hooks",
			Author:      "roadplugin",
			Hooks:       []string{HookGet, HookSet, HookDelete, HookFill},
			ConfigSchema: map[string]any{
				"host":     "redis host, default 127.0.0.1",
				"port":     "redis port, default 6379",
				"password": "redis password",
				"db":       "redis database number",
				"prefix":   "string prepended to every key",
				"ttl":      "duration after which written keys expire, e.g. 10m",
			},
		},
		New: func(pctx *plugin.Context) (plugin.Instance, error) {
			return &kvPlugin{pctx: pctx}, nil
		},
	}
}

type kvPlugin struct {
	pctx   *plugin.Context
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (p *kvPlugin) Descriptor() plugin.Descriptor { return Type().Descriptor }

func (p *kvPlugin) OnLoad(context.Context) error {
	var cfg settings
	if err := p.pctx.Config().Bind(&cfg); err != nil {
		return fmt.Errorf("kvstore: bad settings: %w", err)
	}

	client, err := redis_client.New(cfg.Config, nil)
	if err != nil {
		return err
	}
	p.client = client
	p.prefix = cfg.Prefix
	p.ttl = p.pctx.Config().GetDuration("ttl", 0)

	p.pctx.RegisterHook(HookGet, p.get)
	p.pctx.RegisterHook(HookSet, p.set)
	p.pctx.RegisterHook(HookDelete, p.delete)
	p.pctx.RegisterHook(HookFill, p.fill)
	return nil
}

func (p *kvPlugin) OnEnable(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *kvPlugin) OnDisable(context.Context) error { return nil }

func (p *kvPlugin) OnUnload(context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *kvPlugin) key(k string) string { return p.prefix + k }

func (p *kvPlugin) get(ctx context.Context, args ...any) (any, error) {
	key, err := stringArg(args, 0, "key")
	if err != nil {
		return nil, err
	}

	val, err := p.client.Get(ctx, p.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return val, nil
}

func (p *kvPlugin) set(ctx context.Context, args ...any) (any, error) {
	key, err := stringArg(args, 0, "key")
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("kvstore: set %q: missing value", key)
	}

	if err := p.client.Set(ctx, p.key(key), fmt.Sprint(args[1]), p.ttl).Err(); err != nil {
		return nil, fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	return true, nil
}

func (p *kvPlugin) delete(ctx context.Context, args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("kvstore: delete: missing keys")
	}

	keys := make([]string, 0, len(args))
	for i := range args {
		key, err := stringArg(args, i, "key")
		if err != nil {
			return nil, err
		}
		keys = append(keys, p.key(key))
	}

	removed, err := p.client.Del(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("kvstore: delete: %w", err)
	}
	return removed, nil
}

// fill is the HookFill filter body. The chain value must be a
// map[string]any; keys present in the store get their values overwritten,
// the rest keep their defaults. Anything else passes through untouched.
func (p *kvPlugin) fill(ctx context.Context, args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	values, ok := args[0].(map[string]any)
	if !ok {
		return args[0], nil
	}

	out := make(map[string]any, len(values))
	for k, def := range values {
		out[k] = def
		val, err := p.client.Get(ctx, p.key(k)).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("kvstore: fill %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

func stringArg(args []any, i int, what string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("kvstore: missing %s argument", what)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("kvstore: %s must be a string, got %T", what, args[i])
	}
	return s, nil
}
