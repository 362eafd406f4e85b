package chat

import (
	"context"

	"github.com/janhq/aura-server/internal/domain/profile"
)

// Store persists the chat-sessions document.
type Store interface {
	// Load returns the persisted sessions, or the seed sessions when none are stored.
	Load(ctx context.Context) ([]Session, error)

	// Save overwrites the persisted sessions.
	Save(ctx context.Context, sessions []Session) error
}

// Owner grants access to the signed-in user's profile, which holds the workspaces.
type Owner interface {
	// CurrentProfile returns a copy of the active user's profile.
	CurrentProfile(ctx context.Context) (*profile.User, error)

	// MutateProfile applies fn to the active user's profile and persists the result.
	MutateProfile(ctx context.Context, fn func(*profile.User) error) (*profile.User, error)
}

// Locker serializes writes that span both persisted documents.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// Auditor receives sent messages for a background security scan.
type Auditor interface {
	Submit(chatID, text string)
}
