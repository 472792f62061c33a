package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bloominghealth/internal/config"
)

// testConfig loads defaults from an empty working directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	c, err := config.Load()
	require.NoError(t, err)
	return c
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "zones", "data", "check"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bloominghealth", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestZonesCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range zonesCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "classify", "layout", "forecast"} {
		assert.True(t, names[name], "zones should have subcommand %q", name)
	}
}

func TestZonesLayoutCommand_Flags(t *testing.T) {
	for _, name := range []string{"year", "selected", "step", "strategy"} {
		assert.NotNil(t, zonesLayoutCmd.Flags().Lookup(name), "zones layout should have --%s flag", name)
	}
	assert.Equal(t, "radial", zonesLayoutCmd.Flags().Lookup("strategy").DefValue)
}

func TestDataCommand_HasAudit(t *testing.T) {
	require.Len(t, dataCmd.Commands(), 1)
	assert.Equal(t, "audit", dataCmd.Commands()[0].Name())
}
