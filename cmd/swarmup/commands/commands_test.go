package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersCommands(t *testing.T) {
	root := Root()
	require.NotNil(t, root)
	assert.Equal(t, "swarmup", root.Use)

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{
		"setup", "cleanup", "validate",
		"status", "logs", "url", "port-forward",
		"version", "completion",
	} {
		assert.Contains(t, names, expected)
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := Setup()
	require.NotNil(t, cmd.RunE)

	for flag, def := range map[string]string{
		"config":    "",
		"tag":       "",
		"context":   ".",
		"skip-helm": "false",
		"timeout":   "300",
	} {
		f := cmd.Flags().Lookup(flag)
		require.NotNil(t, f, "flag %s should exist", flag)
		assert.Equal(t, def, f.DefValue, "flag %s default", flag)
	}
}

func TestCleanupFlags(t *testing.T) {
	cmd := Cleanup()
	require.NotNil(t, cmd.RunE)

	force := cmd.Flags().Lookup("force")
	require.NotNil(t, force)
	assert.Equal(t, "f", force.Shorthand)
	assert.Equal(t, "false", force.DefValue)
}

func TestStatusFlags(t *testing.T) {
	cmd := Status()

	detailed := cmd.Flags().Lookup("detailed")
	require.NotNil(t, detailed)
	assert.Equal(t, "false", detailed.DefValue)

	namespace := cmd.Flags().Lookup("namespace")
	require.NotNil(t, namespace)
	assert.Equal(t, "n", namespace.Shorthand)
}

func TestLogsFlags(t *testing.T) {
	cmd := Logs()

	component := cmd.Flags().Lookup("component")
	require.NotNil(t, component)
	assert.Equal(t, "master", component.DefValue)

	follow := cmd.Flags().Lookup("follow")
	require.NotNil(t, follow)
	assert.Equal(t, "f", follow.Shorthand)

	namespace := cmd.Flags().Lookup("namespace")
	require.NotNil(t, namespace)
	assert.Equal(t, "n", namespace.Shorthand)
}

func TestPortForwardFlags(t *testing.T) {
	cmd := PortForward()

	port := cmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "8089", port.DefValue)

	component := cmd.Flags().Lookup("component")
	require.NotNil(t, component)
	assert.Equal(t, "master", component.DefValue)
}

func TestVersionOutput(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	cmd := Version()
	require.NotNil(t, cmd.Run)
	assert.Equal(t, "version", cmd.Use)
}

func TestCompletionArgs(t *testing.T) {
	cmd := Completion()
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
}
