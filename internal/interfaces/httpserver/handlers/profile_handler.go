package handlers

import (
	"context"

	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/domain/session"
)

// ProfileHandler handles profile HTTP requests for the active user.
type ProfileHandler struct {
	service session.Service
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(service session.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get returns the active profile with its privacy toggles.
func (h *ProfileHandler) Get(ctx context.Context) (*profile.User, profile.Privacy, error) {
	user, err := h.service.CurrentProfile(ctx)
	if err != nil {
		return nil, profile.Privacy{}, err
	}
	snap := h.service.Snapshot()
	privacy := profile.DefaultPrivacy(user)
	if snap.Privacy != nil {
		privacy = *snap.Privacy
	}
	return user, privacy, nil
}

func (h *ProfileHandler) Update(ctx context.Context, edit profile.ProfileEdit) (*profile.User, error) {
	return h.service.UpdateProfile(ctx, edit)
}

func (h *ProfileHandler) UpdatePrivacy(ctx context.Context, patch profile.PrivacyPatch) (profile.Privacy, error) {
	return h.service.UpdatePrivacy(ctx, patch)
}

func (h *ProfileHandler) ToggleAIFeature(ctx context.Context, feature profile.Feature) (*profile.User, error) {
	return h.service.ToggleAIFeature(ctx, feature)
}
