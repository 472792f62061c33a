package config

import (
	"errors"
	"io/fs"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/layout"
	"github.com/sells-group/bloominghealth/internal/probe"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Frontend FrontendConfig `yaml:"frontend" mapstructure:"frontend"`
	Layout   LayoutConfig   `yaml:"layout" mapstructure:"layout"`
	Display  DisplayConfig  `yaml:"display" mapstructure:"display"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Probe    ProbeConfig    `yaml:"probe" mapstructure:"probe"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port                  int      `yaml:"port" mapstructure:"port"`
	ReadHeaderTimeoutSecs int      `yaml:"read_header_timeout_secs" mapstructure:"read_header_timeout_secs"`
	ShutdownTimeoutSecs   int      `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
	RateLimitRPS          float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst        int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins           []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// FrontendConfig selects how non-API paths are served. ProxyURL wins over Dir.
type FrontendConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	ProxyURL string `yaml:"proxy_url" mapstructure:"proxy_url"`
}

// LayoutConfig configures the map layout engine.
type LayoutConfig struct {
	Radius                  float64 `yaml:"radius" mapstructure:"radius"`
	CenterX                 float64 `yaml:"center_x" mapstructure:"center_x"`
	CenterY                 float64 `yaml:"center_y" mapstructure:"center_y"`
	SelectedFillOpacity     float64 `yaml:"selected_fill_opacity" mapstructure:"selected_fill_opacity"`
	UnselectedFillOpacity   float64 `yaml:"unselected_fill_opacity" mapstructure:"unselected_fill_opacity"`
	SelectedStrokeOpacity   float64 `yaml:"selected_stroke_opacity" mapstructure:"selected_stroke_opacity"`
	UnselectedStrokeOpacity float64 `yaml:"unselected_stroke_opacity" mapstructure:"unselected_stroke_opacity"`
}

// DisplayConfig holds presentation defaults.
type DisplayConfig struct {
	Palette string `yaml:"palette" mapstructure:"palette"`
	Locale  string `yaml:"locale" mapstructure:"locale"`
}

// CacheConfig configures the HTTP response cache. Zero entries disables it.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// ProbeConfig configures the endpoint check command.
type ProbeConfig struct {
	TimeoutMs int      `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	Targets   []string `yaml:"targets" mapstructure:"targets"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Engine builds a layout engine from the layout and display settings.
func (c *Config) Engine() *layout.Engine {
	return &layout.Engine{
		Center: layout.Point{X: c.Layout.CenterX, Y: c.Layout.CenterY},
		Radius: c.Layout.Radius,
		Opacity: layout.OpacityPolicy{
			SelectedFill:     c.Layout.SelectedFillOpacity,
			UnselectedFill:   c.Layout.UnselectedFillOpacity,
			SelectedStroke:   c.Layout.SelectedStrokeOpacity,
			UnselectedStroke: c.Layout.UnselectedStrokeOpacity,
		},
		Palette: intensity.PaletteByName(c.Display.Palette),
	}
}

// ProbeTimeout returns the per-request probe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutMs) * time.Millisecond
}

// Validate checks settings that would otherwise fail late at serve time.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if c.Layout.Radius < 0 {
		errs = append(errs, "layout.radius must not be negative")
	}
	for name, v := range map[string]float64{
		"layout.selected_fill_opacity":     c.Layout.SelectedFillOpacity,
		"layout.unselected_fill_opacity":   c.Layout.UnselectedFillOpacity,
		"layout.selected_stroke_opacity":   c.Layout.SelectedStrokeOpacity,
		"layout.unselected_stroke_opacity": c.Layout.UnselectedStrokeOpacity,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, name+" must be between 0 and 1")
		}
	}
	if c.Frontend.ProxyURL != "" {
		u, err := url.Parse(c.Frontend.ProxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, "frontend.proxy_url must be an absolute URL")
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return eris.Errorf("config: invalid settings: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from .env, config.yaml, and the environment.
func Load() (*Config, error) {
	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.read_header_timeout_secs", 10)
	v.SetDefault("server.shutdown_timeout_secs", 10)
	v.SetDefault("server.rate_limit_rps", 0)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("frontend.dir", "")
	v.SetDefault("frontend.proxy_url", "")
	v.SetDefault("layout.radius", layout.DefaultRadius)
	v.SetDefault("layout.center_x", 0.0)
	v.SetDefault("layout.center_y", 0.0)
	v.SetDefault("layout.selected_fill_opacity", 0.4)
	v.SetDefault("layout.unselected_fill_opacity", 0.15)
	v.SetDefault("layout.selected_stroke_opacity", 0.8)
	v.SetDefault("layout.unselected_stroke_opacity", 0.5)
	v.SetDefault("display.palette", "tailwind")
	v.SetDefault("display.locale", "en")
	v.SetDefault("cache.max_entries", 256)
	v.SetDefault("probe.timeout_ms", probe.DefaultTimeout.Milliseconds())
	v.SetDefault("probe.targets", probe.DefaultTargets)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
