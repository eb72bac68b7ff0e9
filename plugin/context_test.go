package plugin

import (
	"context"
	"testing"
	"time"

	"github.com/blackroad/roadplugin/hook"
)

func TestConfig_TypedGetters(t *testing.T) {
	cfg := NewConfig(map[string]any{
		"host":    "localhost",
		"port":    float64(6379), // decoders deliver JSON numbers as float64
		"retries": 4,
		"debug":   true,
		"timeout": "30s",
	})

	if got := cfg.GetString("host", "none"); got != "localhost" {
		t.Errorf("GetString(host) = %q", got)
	}
	if got := cfg.GetString("missing", "fallback"); got != "fallback" {
		t.Errorf("GetString(missing) = %q, want fallback", got)
	}
	if got := cfg.GetInt("port", 0); got != 6379 {
		t.Errorf("GetInt(port) = %d, want 6379", got)
	}
	if got := cfg.GetInt("retries", 0); got != 4 {
		t.Errorf("GetInt(retries) = %d, want 4", got)
	}
	if got := cfg.GetInt("host", 7); got != 7 {
		t.Errorf("GetInt on mistyped value = %d, want default 7", got)
	}
	if got := cfg.GetBool("debug", false); !got {
		t.Error("GetBool(debug) = false, want true")
	}
	if got := cfg.GetDuration("timeout", time.Second); got != 30*time.Second {
		t.Errorf("GetDuration(timeout) = %v, want 30s", got)
	}
	if got := cfg.GetDuration("missing", time.Second); got != time.Second {
		t.Errorf("GetDuration(missing) = %v, want 1s", got)
	}
}

func TestConfig_Bind(t *testing.T) {
	type settings struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}

	cfg := NewConfig(map[string]any{"host": "redis", "port": 6379})

	var s settings
	if err := cfg.Bind(&s); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if s.Host != "redis" || s.Port != 6379 {
		t.Errorf("Bind = %+v", s)
	}
}

func TestConfig_CopiesInput(t *testing.T) {
	raw := map[string]any{"key": "before"}
	cfg := NewConfig(raw)
	raw["key"] = "after"

	if got := cfg.GetString("key", ""); got != "before" {
		t.Errorf("Config observed caller mutation: %q", got)
	}
}

func TestContext_Data(t *testing.T) {
	pctx := NewContext("demo", nil)

	if _, ok := pctx.Get("missing"); ok {
		t.Error("Get on empty data reported a value")
	}

	pctx.Set("counter", 10)
	if v, ok := pctx.Get("counter"); !ok || v != 10 {
		t.Errorf("Get(counter) = %v, %v", v, ok)
	}

	pctx.Delete("counter")
	if _, ok := pctx.Get("counter"); ok {
		t.Error("Delete did not remove the value")
	}
}

func TestContext_RegisterHookBuffersInOrder(t *testing.T) {
	pctx := NewContext("demo", nil)
	noop := func(ctx context.Context, args ...any) (any, error) { return nil, nil }

	pctx.RegisterHook("first", noop)
	pctx.RegisterHook("second", noop, WithPriority(hook.High))

	hooks := pctx.Hooks()
	if len(hooks) != 2 {
		t.Fatalf("buffered %d hooks, want 2", len(hooks))
	}
	if hooks[0].Hook != "first" || hooks[1].Hook != "second" {
		t.Errorf("buffer order = %q, %q", hooks[0].Hook, hooks[1].Hook)
	}
	if hooks[0].Owner != "demo" || hooks[1].Owner != "demo" {
		t.Errorf("owner not auto-filled: %q, %q", hooks[0].Owner, hooks[1].Owner)
	}
	if hooks[0].Priority != hook.Normal {
		t.Errorf("default priority = %v, want normal", hooks[0].Priority)
	}
	if hooks[1].Priority != hook.High {
		t.Errorf("WithPriority ignored: %v", hooks[1].Priority)
	}
	if hooks[0].ID == "" || hooks[0].ID == hooks[1].ID {
		t.Error("registrations should carry distinct non-empty IDs")
	}
}

func TestContext_HooksReturnsCopy(t *testing.T) {
	pctx := NewContext("demo", nil)
	pctx.RegisterHook("x", func(ctx context.Context, args ...any) (any, error) { return nil, nil })

	first := pctx.Hooks()
	first[0].Hook = "tampered"

	if got := pctx.Hooks()[0].Hook; got != "x" {
		t.Errorf("buffer mutated through returned copy: %q", got)
	}
}

func TestContext_ClearHooks(t *testing.T) {
	pctx := NewContext("demo", nil)
	pctx.RegisterHook("x", func(ctx context.Context, args ...any) (any, error) { return nil, nil })

	pctx.ClearHooks()
	if got := pctx.Hooks(); len(got) != 0 {
		t.Fatalf("buffer not cleared: %v", got)
	}

	pctx.RegisterHook("y", func(ctx context.Context, args ...any) (any, error) { return nil, nil })
	if got := pctx.Hooks(); len(got) != 1 || got[0].Hook != "y" {
		t.Fatalf("buffer unusable after clear: %v", got)
	}
}
