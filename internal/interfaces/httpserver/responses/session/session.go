// Package session contains response DTOs for the session and profile endpoints.
package session

import (
	"github.com/janhq/aura-server/internal/domain/profile"
	domainsession "github.com/janhq/aura-server/internal/domain/session"
)

// SnapshotResponse is the current screen of the session machine.
type SnapshotResponse struct {
	Object string `json:"object"`
	domainsession.Snapshot
}

func NewSnapshotResponse(snap domainsession.Snapshot) SnapshotResponse {
	return SnapshotResponse{Object: "session", Snapshot: snap}
}

// ProfileResponse is the active user's profile.
type ProfileResponse struct {
	Object     string             `json:"object"`
	User       *profile.User      `json:"user"`
	Privacy    profile.Privacy    `json:"privacy"`
	AIFeatures profile.AIFeatures `json:"aiFeatures"`
}

func NewProfileResponse(user *profile.User, privacy profile.Privacy) ProfileResponse {
	return ProfileResponse{
		Object:     "profile",
		User:       user,
		Privacy:    privacy,
		AIFeatures: user.Features(),
	}
}

// PrivacyResponse echoes the privacy toggles after a change.
type PrivacyResponse struct {
	Object string `json:"object"`
	profile.Privacy
}

func NewPrivacyResponse(p profile.Privacy) PrivacyResponse {
	return PrivacyResponse{Object: "privacy", Privacy: p}
}
