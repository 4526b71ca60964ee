package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"extract", "compare", "quotes", "serve", "migrate"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "documine", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestExtractCommand_Flags(t *testing.T) {
	flag := extractCmd.Flags().Lookup("save")
	require.NotNil(t, flag, "extract command should have --save flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestCompareCommand_Flags(t *testing.T) {
	for _, name := range []string{"id", "format", "output", "save"} {
		require.NotNil(t, compareCmd.Flags().Lookup(name), "compare command should have --%s flag", name)
	}
	assert.Equal(t, "json", compareCmd.Flags().Lookup("format").DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestQuotesCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range quotesCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "delete"} {
		assert.True(t, names[name], "expected quotes subcommand %q not found", name)
	}
}
