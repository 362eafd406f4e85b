package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/aura-server/internal/config"
	"github.com/janhq/aura-server/internal/domain"
	"github.com/janhq/aura-server/internal/domain/advisory"
	"github.com/janhq/aura-server/internal/domain/session"
	"github.com/janhq/aura-server/internal/infrastructure/kvstore"
	"github.com/janhq/aura-server/internal/infrastructure/logger"
	"github.com/janhq/aura-server/internal/infrastructure/observability"
	"github.com/janhq/aura-server/internal/interfaces"
	"github.com/janhq/aura-server/internal/interfaces/httpserver"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/routes"
)

// Application holds the main application components.
type Application struct {
	cfg        *config.Config
	httpServer *httpserver.HTTPServer
	sessions   session.Service
	auditor    *advisory.Auditor
	log        zerolog.Logger
}

// NewApplication creates a new application instance. /readyz reports the document store.
func NewApplication(
	cfg *config.Config,
	httpServer *httpserver.HTTPServer,
	backend *kvstore.Backend,
	sessions session.Service,
	auditor *advisory.Auditor,
	log zerolog.Logger,
) *Application {
	httpServer.AddReadinessCheck("store", func(ctx context.Context) error {
		return kvstore.Probe(ctx, backend.Store)
	})
	return &Application{
		cfg:        cfg,
		httpServer: httpServer,
		sessions:   sessions,
		auditor:    auditor,
		log:        log,
	}
}

// Start hydrates the session machine, then serves until ctx is cancelled and
// pending message audits have drained.
func (a *Application) Start(ctx context.Context) error {
	snap, err := a.sessions.Boot(ctx)
	if err != nil {
		return fmt.Errorf("boot session: %w", err)
	}
	a.log.Info().Str("state", string(snap.State)).Msg("session restored")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.httpServer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), a.cfg.AuditDrainTimeout)
		defer cancel()
		if err := a.auditor.Drain(drainCtx); err != nil {
			a.log.Warn().Err(err).Msg("pending message audits abandoned")
		}
		return nil
	})
	return g.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	app, cleanup, err := buildApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}
	defer cleanup()

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("store", cfg.StoreBackend).
		Str("camera", cfg.CameraSource).
		Bool("advisory", cfg.AdvisoryEnabled()).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// buildApplication wires the object graph by hand, mirroring CreateApplication in wire.go.
func buildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	backend, cleanup, err := ProvideKVBackend(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	data, err := ProvideSeed(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	ids, err := ProvideIDGenerator(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	device := ProvideCameraDevice(cfg, log)
	advisor := domain.ProvideAdvisor(ProvideAdvisoryProvider(cfg, log), cfg, log)
	auditor := domain.ProvideAuditor(advisor, log)
	lease := domain.ProvideCameraLease(device, log)
	directory := domain.ProvideDirectory(data)

	sessions := domain.ProvideSessionService(ProvideProfileStore(backend, log), advisor, lease, ids, data, log)
	chats := domain.ProvideChatService(
		ProvideChatStore(backend, data, log),
		domain.ProvideChatOwner(sessions),
		ProvideLocker(backend),
		auditor,
		ids,
		log,
	)

	handlerProvider := handlers.NewProvider(
		handlers.NewSessionHandler(sessions, interfaces.ProvideFrameSink(device)),
		handlers.NewProfileHandler(sessions),
		handlers.NewChatHandler(chats),
		handlers.NewDirectoryHandler(directory),
	)
	httpServer := httpserver.New(cfg, log, routes.NewProvider(handlerProvider))

	return NewApplication(cfg, httpServer, backend, sessions, auditor, log), cleanup, nil
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
