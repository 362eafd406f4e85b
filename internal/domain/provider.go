package domain

import (
	"time"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/config"
	"github.com/janhq/aura-server/internal/domain/advisory"
	"github.com/janhq/aura-server/internal/domain/camera"
	"github.com/janhq/aura-server/internal/domain/chat"
	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/domain/session"
	"github.com/janhq/aura-server/internal/seed"
	"github.com/janhq/aura-server/internal/utils/idgen"
)

// ProvideAdvisor wraps the advisory provider with the configured timeout.
func ProvideAdvisor(provider advisory.Provider, cfg *config.Config, log zerolog.Logger) *advisory.Advisor {
	return advisory.NewAdvisor(provider, cfg.AdvisoryTimeout, log)
}

// ProvideAuditor provides the background message auditor.
func ProvideAuditor(advisor *advisory.Advisor, log zerolog.Logger) *advisory.Auditor {
	return advisory.NewAuditor(advisor, log)
}

// ProvideCameraLease provides the scoped camera holder used by the emotion scan.
func ProvideCameraLease(device camera.Device, log zerolog.Logger) *camera.Lease {
	return camera.NewLease(device, log)
}

// ProvideDirectory provides the searchable identity directory.
func ProvideDirectory(data *seed.Data) *profile.Directory {
	return profile.NewDirectory(data.Directory)
}

// ProvideSessionService provides the session state machine.
func ProvideSessionService(
	store profile.Store,
	advisor *advisory.Advisor,
	lease *camera.Lease,
	ids idgen.Generator,
	data *seed.Data,
	log zerolog.Logger,
) session.Service {
	return session.NewService(store, advisor, lease, ids, session.Options{
		KnownHandles:      data.KnownHandles,
		DefaultWorkspaces: data.DefaultWorkspaces,
	}, log)
}

// ProvideChatOwner exposes the session machine as the owner of the active profile.
func ProvideChatOwner(sessions session.Service) chat.Owner {
	return sessions
}

// ProvideChatService provides the workspace/chat filter model.
func ProvideChatService(
	store chat.Store,
	owner chat.Owner,
	locker chat.Locker,
	auditor *advisory.Auditor,
	ids idgen.Generator,
	log zerolog.Logger,
) chat.Service {
	return chat.NewService(store, owner, locker, auditor, ids, time.Now, log)
}

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	ProvideAdvisor,
	ProvideAuditor,
	ProvideCameraLease,
	ProvideDirectory,
	ProvideSessionService,
	ProvideChatOwner,
	ProvideChatService,
)
