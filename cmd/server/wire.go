//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/config"
	"github.com/janhq/aura-server/internal/domain"
	"github.com/janhq/aura-server/internal/interfaces"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideKVBackend,
	ProvideSeed,
	ProvideProfileStore,
	ProvideChatStore,
	ProvideLocker,
	ProvideIDGenerator,
	ProvideAdvisoryProvider,
	ProvideCameraDevice,

	// Domain providers
	domain.ServiceProvider,

	// Interface providers
	interfaces.InterfacesProvider,

	// Application
	NewApplication,
)

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (*Application, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
