package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "kubeprox", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range []string{"init", "plan", "render", "template", "apply", "kubeconfig", "version"} {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
	assert.Len(t, cmd.Commands(), 7)
}

func TestRoot_PersistentFlags(t *testing.T) {
	cmd := Root()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("log-format")
	require.NotNil(t, format)
	assert.Equal(t, "console", format.DefValue)
}

func TestRoot_RejectsUnknownLogFormat(t *testing.T) {
	cmd := Root()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-format", "xml", "version"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log format "xml"`)
}

func TestRunCommands_ShareFlags(t *testing.T) {
	for _, cmd := range []func() *cobra.Command{Render, Apply} {
		c := cmd()
		for _, name := range []string{"config", "parallel", "metrics-file", "allow-partial", "offline"} {
			assert.NotNil(t, c.Flags().Lookup(name), "%s: missing --%s", c.Name(), name)
		}
		assert.Equal(t, "c", c.Flags().Lookup("config").Shorthand)
		assert.Equal(t, "1", c.Flags().Lookup("parallel").DefValue)
	}
}

func TestInit_Flags(t *testing.T) {
	cmd := Init()

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, "kubeprox.yaml", output.DefValue)

	assert.NotNil(t, cmd.Flags().Lookup("advanced"))
	assert.NotNil(t, cmd.Flags().Lookup("non-interactive"))
}

func TestTemplateAndKubeconfig_Flags(t *testing.T) {
	tmpl := Template()
	assert.NotNil(t, tmpl.Flags().Lookup("apply"))
	assert.NotNil(t, tmpl.Flags().Lookup("offline"))

	kc := Kubeconfig()
	assert.NotNil(t, kc.Flags().Lookup("host"))
	assert.Equal(t, "22", kc.Flags().Lookup("port").DefValue)
	assert.Equal(t, "o", kc.Flags().Lookup("output").Shorthand)
}
