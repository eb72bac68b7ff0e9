package audit

import (
	"context"
	"testing"

	"github.com/blackroad/roadplugin/hook"
	"github.com/blackroad/roadplugin/plugin"
)

func loadAudit(t *testing.T, settings map[string]any) (*auditPlugin, *plugin.Context) {
	t.Helper()

	typ := Type()
	pctx := plugin.NewContext(typ.Descriptor.Name, settings)
	inst, err := typ.New(pctx)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if err := inst.OnLoad(context.Background()); err != nil {
		t.Fatalf("OnLoad: %v", err)
	}
	return inst.(*auditPlugin), pctx
}

func TestObserversRegisteredAtLowestPriority(t *testing.T) {
	_, pctx := loadAudit(t, map[string]any{
		"hooks": []any{"greet.message", "kv.set"},
	})

	regs := pctx.Hooks()
	// two observers plus the report hook
	if len(regs) != 3 {
		t.Fatalf("expected 3 registrations, got %d", len(regs))
	}

	for _, reg := range regs {
		if reg.Hook == HookReport {
			continue
		}
		if reg.Priority != hook.Lowest {
			t.Errorf("observer for %s has priority %s, want lowest", reg.Hook, reg.Priority)
		}
	}
}

func TestObserverCountsAndPassesValueThrough(t *testing.T) {
	p, pctx := loadAudit(t, map[string]any{"hooks": []string{"transform"}})

	var observer hook.Handler
	for _, reg := range pctx.Hooks() {
		if reg.Hook == "transform" {
			observer = reg.Handler
		}
	}
	if observer == nil {
		t.Fatal("no observer registered for transform")
	}

	out, err := observer(context.Background(), 42)
	if err != nil {
		t.Fatalf("observer failed: %v", err)
	}
	if out != 42 {
		t.Errorf("observer changed the filter value: got %v, want 42", out)
	}
	if _, err := observer(context.Background()); err != nil {
		t.Fatalf("observer failed without args: %v", err)
	}

	counts := p.Report()
	if counts["transform"] != 2 {
		t.Errorf("count = %d, want 2", counts["transform"])
	}
}

func TestReportHook(t *testing.T) {
	p, pctx := loadAudit(t, map[string]any{"hooks": []string{"x"}})

	var observer, report hook.Handler
	for _, reg := range pctx.Hooks() {
		switch reg.Hook {
		case "x":
			observer = reg.Handler
		case HookReport:
			report = reg.Handler
		}
	}

	_, _ = observer(context.Background())
	out, err := report(context.Background())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	counts, ok := out.(map[string]uint64)
	if !ok || counts["x"] != 1 {
		t.Errorf("report = %v, want map with x=1", out)
	}

	// Unload resets the counts.
	if err := p.OnUnload(context.Background()); err != nil {
		t.Fatalf("OnUnload: %v", err)
	}
	if len(p.Report()) != 0 {
		t.Error("counts should be empty after unload")
	}
}

func TestNoSettingsWatchesNothing(t *testing.T) {
	_, pctx := loadAudit(t, nil)

	regs := pctx.Hooks()
	if len(regs) != 1 || regs[0].Hook != HookReport {
		t.Fatalf("expected only the report hook, got %d registrations", len(regs))
	}
}
