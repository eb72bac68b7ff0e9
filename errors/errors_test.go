package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/blackroad/roadplugin/runtime"
	"github.com/blackroad/roadplugin/source"
)

func TestNewFillsCodeTable(t *testing.T) {
	err := New(KindInvalidState, "cannot disable a loaded plugin")

	if err.Code != "INVALID_STATE" {
		t.Errorf("Code = %q", err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("HTTPStatus = %d", err.HTTPStatus)
	}
	if err.Error() != "cannot disable a loaded plugin" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestAppErrorIsMatchesByKind(t *testing.T) {
	a := New(KindNotFound, "hello is not loaded")
	b := New(KindNotFound, "other")

	if !errors.Is(a, b) {
		t.Error("two not_found errors should match")
	}
	if errors.Is(a, New(KindInternal, "x")) {
		t.Error("different kinds should not match")
	}
}

func TestFromErrorPassesThroughAppError(t *testing.T) {
	orig := New(KindValidation, "bad manifest")
	wrapped := fmt.Errorf("loading hello: %w", orig)

	if got := FromError(wrapped); got != orig {
		t.Errorf("FromError returned %v, want the original", got)
	}
}

func TestWithDetailAccumulates(t *testing.T) {
	err := New(KindNotFound, "gone").
		WithDetail("plugin", "hello").
		WithDetails(map[string]any{"source": "dir"})

	if err.Details["plugin"] != "hello" || err.Details["source"] != "dir" {
		t.Errorf("Details = %v", err.Details)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{
			name:     "missing plugin",
			err:      fmt.Errorf("enable %q: %w", "ghost", runtime.ErrPluginNotFound),
			expected: KindNotFound,
		},
		{
			name:     "unresolvable name",
			err:      fmt.Errorf("no manifest: %w", source.ErrNotFound),
			expected: KindNotFound,
		},
		{
			name:     "illegal transition",
			err:      fmt.Errorf("disable from loaded: %w", runtime.ErrInvalidState),
			expected: KindInvalidState,
		},
		{
			name:     "broken manifest",
			err:      fmt.Errorf("manifest plugin.json: %w: unexpected end", source.ErrBadManifest),
			expected: KindValidation,
		},
		{
			name:     "unregistered entry type",
			err:      fmt.Errorf("entry %q: %w", "ghost", source.ErrNoType),
			expected: KindResolution,
		},
		{
			name:     "on_load failure",
			err:      &runtime.CallbackError{Op: "on_load", Plugin: "hello", Err: errors.New("boom")},
			expected: KindInstantiation,
		},
		{
			name:     "factory failure",
			err:      &runtime.CallbackError{Op: "instantiate", Plugin: "hello", Err: errors.New("boom")},
			expected: KindInstantiation,
		},
		{
			name:     "on_enable failure",
			err:      &runtime.CallbackError{Op: "on_enable", Plugin: "hello", Err: errors.New("boom")},
			expected: KindTransition,
		},
		{
			name:     "wrapped app error keeps its kind",
			err:      fmt.Errorf("api: %w", New(KindValidation, "bad args")),
			expected: KindValidation,
		},
		{
			name:     "plain error",
			err:      errors.New("something else"),
			expected: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got.Kind != tt.expected {
				t.Errorf("Classify(%v).Kind = %v, want %v", tt.err, got.Kind, tt.expected)
			}
		})
	}
}

func TestClassifyStatusMapping(t *testing.T) {
	if got := Classify(runtime.ErrPluginNotFound).HTTPStatus; got != http.StatusNotFound {
		t.Errorf("not found status = %d", got)
	}
	if got := Classify(runtime.ErrInvalidState).HTTPStatus; got != http.StatusConflict {
		t.Errorf("invalid state status = %d", got)
	}
}

func TestFromErrorClassifiesSentinels(t *testing.T) {
	err := FromError(fmt.Errorf("unload: %w", runtime.ErrPluginNotFound))

	if err.Kind != KindNotFound {
		t.Errorf("Kind = %v", err.Kind)
	}
	if !errors.Is(err, runtime.ErrPluginNotFound) {
		t.Error("wrapped sentinel should stay reachable")
	}
}
