package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blackroad/roadplugin/json"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "roadplugin")
}

func TestDiscoverListsBuiltins(t *testing.T) {
	out, err := runCommand(t, "discover")
	require.NoError(t, err)

	for _, name := range []string{"hello", "audit", "kvstore"} {
		require.Contains(t, out, name)
	}
}

func TestListEmpty(t *testing.T) {
	out, err := runCommand(t, "list")
	require.NoError(t, err)
	require.Contains(t, out, "No plugins loaded.")
}

func TestHooksJSONEmpty(t *testing.T) {
	out, err := runCommand(t, "hooks", "--json")
	require.NoError(t, err)

	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	require.Empty(t, counts)
}

func TestInfoResolvesWithoutLoading(t *testing.T) {
	out, err := runCommand(t, "info", "hello", "--json")
	require.NoError(t, err)

	var desc struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	require.Equal(t, "hello", desc.Name)
	require.Equal(t, "1.0.0", desc.Version)
}

func TestInfoUnknownPlugin(t *testing.T) {
	_, err := runCommand(t, "info", "no-such-plugin")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "not found"))
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := runCommand(t, "list", "--config", "/does/not/exist.yaml")
	require.Error(t, err)
}
