package profile

import "context"

// Store persists the single profile document.
type Store interface {
	// Load returns the persisted profile, or nil when none exists.
	Load(ctx context.Context) (*User, error)

	// Save overwrites the persisted profile.
	Save(ctx context.Context, user *User) error

	// Clear removes the persisted profile.
	Clear(ctx context.Context) error
}
