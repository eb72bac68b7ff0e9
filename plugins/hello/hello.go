// Package hello is the smallest useful plugin: a greeting filter and a
// spoken-greeting action. It doubles as the reference for writing plugins
// declaratively with plugin.NewType.
package hello

import (
	"context"
	"fmt"

	"github.com/blackroad/roadplugin/hook"
	"github.com/blackroad/roadplugin/plugin"
	"github.com/blackroad/roadplugin/source"
)

// Hook names the plugin participates in.
const (
	// HookMessage is a filter over a greeting subject: "world" becomes
	// "Hello, world!".
	HookMessage = "greet.message"
	// HookSpoken fans a spoken greeting out to whoever listens.
	HookSpoken = "greet.spoken"
)

// DefaultGreeting is used when the plugin's settings carry none.
const DefaultGreeting = "Hello"

func init() {
	source.MustRegister(Type())
}

// Type returns the loadable hello plugin type.
func Type() plugin.Type {
	return plugin.NewType(plugin.Descriptor{
		Name:        "hello",
		Version:     "1.0.0",
		Description: "Greets through the greet.message filter",
		Author:      "roadplugin",
		Hooks:       []string{HookMessage, HookSpoken},
		ConfigSchema: map[string]any{
			"greeting": "string, the salutation prefix",
		},
	}, plugin.Funcs{
		OnLoad: onLoad,
	})
}

func onLoad(_ context.Context, pctx *plugin.Context) error {
	greeting := pctx.Config().GetString("greeting", DefaultGreeting)

	pctx.RegisterHook(HookMessage, func(_ context.Context, args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("hello: %s needs a subject", HookMessage)
		}
		return fmt.Sprintf("%s, %v!", greeting, args[0]), nil
	})

	pctx.RegisterHook(HookSpoken, func(_ context.Context, args ...any) (any, error) {
		subject := "there"
		if len(args) > 0 {
			subject = fmt.Sprint(args[0])
		}
		message := fmt.Sprintf("%s, %s!", greeting, subject)
		pctx.Set("last_spoken", message)
		return message, nil
	}, plugin.WithPriority(hook.High))

	return nil
}
