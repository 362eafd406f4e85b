package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/config"
	"github.com/janhq/aura-server/internal/domain/advisory"
	domaincamera "github.com/janhq/aura-server/internal/domain/camera"
	"github.com/janhq/aura-server/internal/domain/chat"
	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/infrastructure/camera"
	"github.com/janhq/aura-server/internal/infrastructure/kvstore"
	"github.com/janhq/aura-server/internal/infrastructure/llmprovider"
	"github.com/janhq/aura-server/internal/infrastructure/store"
	"github.com/janhq/aura-server/internal/seed"
	"github.com/janhq/aura-server/internal/utils/idgen"
)

// ProvideKVBackend opens the configured document store. The cleanup closes it.
func ProvideKVBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*kvstore.Backend, func(), error) {
	backend, err := kvstore.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := backend.Store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}
	return backend, cleanup, nil
}

// ProvideSeed loads the seed document.
func ProvideSeed(cfg *config.Config) (*seed.Data, error) {
	return seed.Load(cfg.SeedFile)
}

// ProvideProfileStore provides the profile repository.
func ProvideProfileStore(backend *kvstore.Backend, log zerolog.Logger) profile.Store {
	return store.NewProfileStore(backend.Store, log)
}

// ProvideChatStore provides the chat-sessions repository.
func ProvideChatStore(backend *kvstore.Backend, data *seed.Data, log zerolog.Logger) chat.Store {
	return store.NewChatStore(backend.Store, data, nil, log)
}

// ProvideLocker provides the lock guarding writes that span both documents.
func ProvideLocker(backend *kvstore.Backend) chat.Locker {
	return backend.Locker
}

// ProvideIDGenerator provides the configured id strategy.
func ProvideIDGenerator(cfg *config.Config) (idgen.Generator, error) {
	return idgen.New(cfg.IDStrategy)
}

// ProvideAdvisoryProvider selects the hosted model, or the disabled provider when no key is set.
func ProvideAdvisoryProvider(cfg *config.Config, log zerolog.Logger) advisory.Provider {
	if !cfg.AdvisoryEnabled() {
		log.Warn().Msg("ADVISORY_API_KEY not set, advisory checks fall back to defaults")
		return advisory.DisabledProvider{}
	}
	return llmprovider.NewClient(cfg.AdvisoryBaseURL, cfg.AdvisoryAPIKey, cfg.AdvisoryModel)
}

// ProvideCameraDevice selects the camera source.
func ProvideCameraDevice(cfg *config.Config, log zerolog.Logger) domaincamera.Device {
	switch cfg.CameraSource {
	case config.CameraFile:
		return camera.NewFileDevice(cfg.CameraFilePath)
	case config.CameraNone:
		return camera.Unavailable{}
	default:
		return camera.NewRelayDevice(log)
	}
}
