package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/config"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/routes"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// HTTPServer serves the aura API.
type HTTPServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger

	mu     sync.RWMutex
	checks map[string]ReadinessCheck
}

// New builds the engine with the middleware chain, the probe endpoints and the v1 API.
func New(cfg *config.Config, log zerolog.Logger, routeProvider *routes.Provider) *HTTPServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		cfg:    cfg,
		engine: gin.New(),
		log:    log.With().Str("component", "http-server").Logger(),
		checks: make(map[string]ReadinessCheck),
	}

	s.engine.Use(
		gin.Recovery(),
		middlewares.RequestID(),
		middlewares.Tracing(cfg.ServiceName),
		middlewares.Metrics(),
		middlewares.CORS(cfg.CORSAllowedOrigins),
		middlewares.RequestLoggerWithLogger(log),
	)

	s.registerProbeRoutes()
	routeProvider.Register(s.engine)
	return s
}

// AddReadinessCheck registers a named check consulted by /readyz.
func (s *HTTPServer) AddReadinessCheck(name string, check ReadinessCheck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Handler exposes the engine for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down within the configured timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.log.Error().Err(err).Msg("HTTP server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *HTTPServer) registerProbeRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     s.cfg.ServiceName,
			"environment": s.cfg.Environment,
			"status":      "ok",
		})
	})

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	s.engine.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		failing := s.runChecks(ctx)
		if len(failing) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failing": failing})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// runChecks returns the sorted names of the checks that failed.
func (s *HTTPServer) runChecks(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	failing := make([]string, 0)
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.log.Warn().Err(err).Str("check", name).Msg("readiness check failed")
			failing = append(failing, name)
		}
	}
	sort.Strings(failing)
	return failing
}
