package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bloominghealth/internal/config"
	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/metrics"
	"github.com/sells-group/bloominghealth/internal/provider"
	"github.com/sells-group/bloominghealth/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := buildServer(cfg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		err = server.ListenAndServe(ctx, fmt.Sprintf(":%d", port), srv,
			time.Duration(cfg.Server.ReadHeaderTimeoutSecs)*time.Second,
			time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second,
		)

		stats := srv.CacheStats()
		zap.L().Info("server stopped",
			zap.Int("cache_entries", stats.Entries),
			zap.Int64("cache_hits", stats.Hits),
			zap.Int64("cache_misses", stats.Misses),
		)
		return err
	},
}

// buildServer wires the provider, layout engine, cache, and frontend from cfg.
func buildServer(cfg *config.Config) (*server.Server, error) {
	data, err := provider.Load()
	if err != nil {
		return nil, err
	}

	frontend, err := server.Frontend(cfg.Frontend.Dir, cfg.Frontend.ProxyURL)
	if err != nil {
		return nil, err
	}

	return server.New(data, server.Options{
		Engine:         cfg.Engine(),
		Palette:        intensity.PaletteByName(cfg.Display.Palette),
		Locale:         cfg.Display.Locale,
		Cache:          server.NewResponseCache(cfg.Cache.MaxEntries),
		Metrics:        metrics.New(),
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Frontend:       frontend,
	}), nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
