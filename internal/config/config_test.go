package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/layout"
	"github.com/sells-group/bloominghealth/internal/probe"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ReadHeaderTimeoutSecs)
	assert.Zero(t, cfg.Server.RateLimitRPS)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Empty(t, cfg.Frontend.Dir)
	assert.Empty(t, cfg.Frontend.ProxyURL)
	assert.InDelta(t, 140.0, cfg.Layout.Radius, 0.001)
	assert.InDelta(t, 0.4, cfg.Layout.SelectedFillOpacity, 0.001)
	assert.InDelta(t, 0.15, cfg.Layout.UnselectedFillOpacity, 0.001)
	assert.InDelta(t, 0.8, cfg.Layout.SelectedStrokeOpacity, 0.001)
	assert.InDelta(t, 0.5, cfg.Layout.UnselectedStrokeOpacity, 0.001)
	assert.Equal(t, "tailwind", cfg.Display.Palette)
	assert.Equal(t, "en", cfg.Display.Locale)
	assert.Equal(t, 256, cfg.Cache.MaxEntries)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout())
	assert.Equal(t, probe.DefaultTargets, cfg.Probe.Targets)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
server:
  port: 9090
  rate_limit_rps: 50
layout:
  radius: 200
display:
  palette: hex
  locale: es
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 50.0, cfg.Server.RateLimitRPS, 0.001)
	assert.InDelta(t, 200.0, cfg.Layout.Radius, 0.001)
	assert.Equal(t, "hex", cfg.Display.Palette)
	assert.Equal(t, "es", cfg.Display.Locale)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 256, cfg.Cache.MaxEntries)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
display:
  palette: hex
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("BLOOM_DISPLAY_PALETTE", "tailwind")
	t.Setenv("BLOOM_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tailwind", cfg.Display.Palette)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BLOOM_FRONTEND_PROXY_URL=http://localhost:3001\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("BLOOM_FRONTEND_PROXY_URL") }) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001", cfg.Frontend.ProxyURL)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("BLOOM_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestEngine(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Layout.CenterX = 200
	cfg.Layout.CenterY = 200
	cfg.Display.Palette = "hex"

	e := cfg.Engine()
	assert.Equal(t, layout.Point{X: 200, Y: 200}, e.Center)
	assert.InDelta(t, layout.DefaultRadius, e.Radius, 0.001)
	assert.Equal(t, layout.DefaultOpacity(), e.Opacity)
	assert.Equal(t, intensity.Hex.Name, e.Palette.Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "negative radius", mutate: func(c *Config) { c.Layout.Radius = -1 }, wantErr: "layout.radius"},
		{name: "opacity above one", mutate: func(c *Config) { c.Layout.SelectedFillOpacity = 1.5 }, wantErr: "layout.selected_fill_opacity"},
		{name: "relative proxy url", mutate: func(c *Config) { c.Frontend.ProxyURL = "localhost:3001" }, wantErr: "frontend.proxy_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{Port: 4000},
				Layout: LayoutConfig{
					Radius:                  140,
					SelectedFillOpacity:     0.4,
					UnselectedFillOpacity:   0.15,
					SelectedStrokeOpacity:   0.8,
					UnselectedStrokeOpacity: 0.5,
				},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
