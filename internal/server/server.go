// Package server exposes the zone data, classifier, and layout engine over
// a JSON HTTP API and fronts the dashboard's web build.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/layout"
	"github.com/sells-group/bloominghealth/internal/metrics"
	"github.com/sells-group/bloominghealth/internal/provider"
)

// Data is the read-only data the server renders.
type Data interface {
	provider.Provider
	provider.Catalog
	LatestYear() (int, bool)
	PreviousYear(year int) (int, bool)
}

// Options configures a Server. Zero values select the defaults noted on
// each field.
type Options struct {
	// Engine lays out map views. Nil uses layout.NewEngine.
	Engine *layout.Engine
	// Palette renders color tokens when a request names none.
	Palette intensity.Palette
	// Locale is the fallback legend language. Empty means English.
	Locale string
	// Cache holds encoded responses. Nil disables caching.
	Cache *ResponseCache
	// Metrics receives request and classification counts. Nil uses a fresh set.
	Metrics *metrics.Metrics
	// CORSOrigins lists allowed origins. Empty allows all.
	CORSOrigins []string
	// RateLimitRPS caps requests per second. Non-positive disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	// Frontend handles paths the API does not own. Nil answers 404.
	Frontend http.Handler
}

// Server serves the JSON API.
type Server struct {
	data     Data
	engine   *layout.Engine
	palette  intensity.Palette
	locale   string
	cache    *ResponseCache
	metrics  *metrics.Metrics
	frontend http.Handler
	router   chi.Router
}

// New builds a Server and its routes.
func New(data Data, opts Options) *Server {
	if opts.Engine == nil {
		opts.Engine = layout.NewEngine()
	}
	if opts.Palette.Name == "" {
		opts.Palette = intensity.Tailwind
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		data:     data,
		engine:   opts.Engine,
		palette:  opts.Palette,
		locale:   opts.Locale,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		frontend: opts.Frontend,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(instrument(s.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.RateLimitRPS > 0 {
		r.Use(rateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/hello", s.handleHello)
		r.Get("/years", s.serveJSON(s.years, false))
		r.Get("/bloom-zones", s.serveJSON(s.bloomZones, true))
		r.Get("/health-alerts", s.serveJSON(s.healthAlerts, false))
		r.Get("/flowers", s.serveJSON(s.flowers, false))
		r.Get("/zones", s.serveJSON(s.zones, true))
		r.Get("/legend", s.serveJSON(s.legend, false))
		r.Get("/dashboard", s.serveJSON(s.dashboard, true))
		r.Get("/forecast", s.serveJSON(s.forecast, true))
		r.Route("/map", func(r chi.Router) {
			r.Get("/radial", s.serveJSON(s.radial, true))
			r.Get("/anchors", s.serveJSON(s.anchors, true))
			r.Get("/geojson", s.serveJSON(s.geoJSON, true))
		})
		r.NotFound(s.handleNotFound)
	})

	r.Get("/bloom-zones", s.serveJSON(s.bloomZones, true))
	r.Get("/health-alerts", s.serveJSON(s.healthAlerts, false))
	r.Get("/flowers", s.serveJSON(s.flowers, false))

	r.NotFound(s.handleFallback)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// CacheStats returns response cache statistics, zero when caching is off.
func (s *Server) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{}
	}
	return s.cache.Stats()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, allowing in-flight requests up to shutdownTimeout.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, readHeaderTimeout, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return eris.Wrapf(err, "server: listen %s", addr)
	}
	return Serve(ctx, ln, h, readHeaderTimeout, shutdownTimeout)
}

// Serve is ListenAndServe on an existing listener.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, readHeaderTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	zap.L().Info("server: listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "server: serve")
	case <-ctx.Done():
	}

	zap.L().Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: serve")
	}
	return nil
}
