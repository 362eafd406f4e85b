package handlers

import (
	"context"
	"errors"

	"github.com/janhq/aura-server/internal/domain/camera"
	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/domain/session"
	"github.com/janhq/aura-server/internal/utils/platformerrors"
)

// FrameSink accepts camera frames pushed by the client.
type FrameSink interface {
	Push(data []byte) error
}

// SessionHandler handles session lifecycle HTTP requests.
type SessionHandler struct {
	service session.Service
	frames  FrameSink
}

// NewSessionHandler creates a new session handler. frames may be nil when the
// camera is not relayed from the client.
func NewSessionHandler(service session.Service, frames FrameSink) *SessionHandler {
	return &SessionHandler{service: service, frames: frames}
}

func (h *SessionHandler) Snapshot() session.Snapshot {
	return h.service.Snapshot()
}

func (h *SessionHandler) WaitIdle(ctx context.Context) (session.Snapshot, error) {
	return h.service.WaitIdle(ctx)
}

func (h *SessionHandler) StartSignup(ctx context.Context) (session.Snapshot, error) {
	return h.service.StartSignup(ctx)
}

func (h *SessionHandler) StartLogin(ctx context.Context) (session.Snapshot, error) {
	return h.service.StartLogin(ctx)
}

func (h *SessionHandler) Back(ctx context.Context) (session.Snapshot, error) {
	return h.service.Back(ctx)
}

// SubmitSignupStep advances the signup wizard. With wait set it also waits for the
// username check the step may have started.
func (h *SessionHandler) SubmitSignupStep(ctx context.Context, in session.SignupInput, wait bool) (session.Snapshot, error) {
	snap, err := h.service.SubmitSignupStep(ctx, in)
	if err != nil || !wait {
		return snap, err
	}
	return h.service.WaitIdle(ctx)
}

func (h *SessionHandler) SubmitLoginStep(ctx context.Context, in session.LoginInput) (session.Snapshot, error) {
	return h.service.SubmitLoginStep(ctx, in)
}

func (h *SessionHandler) CompleteSetup(ctx context.Context, choices profile.AIFeaturesPatch) (session.Snapshot, error) {
	return h.service.CompleteSetup(ctx, choices)
}

func (h *SessionHandler) BeginScan(ctx context.Context) (session.Snapshot, error) {
	return h.service.BeginScan(ctx)
}

func (h *SessionHandler) RetryScan(ctx context.Context) (session.Snapshot, error) {
	return h.service.RetryScan(ctx)
}

// CaptureScan starts a capture. With wait set it returns once the emotion has been classified.
func (h *SessionHandler) CaptureScan(ctx context.Context, wait bool) (session.Snapshot, error) {
	snap, err := h.service.CaptureScan(ctx)
	if err != nil || !wait {
		return snap, err
	}
	return h.service.WaitIdle(ctx)
}

func (h *SessionHandler) SkipScan(ctx context.Context) (session.Snapshot, error) {
	return h.service.SkipScan(ctx)
}

// ReportCameraError records a client-side camera failure.
func (h *SessionHandler) ReportCameraError(ctx context.Context, reason camera.Reason) (session.Snapshot, error) {
	cause := camera.ErrNoDevice
	if reason == camera.ReasonPermissionDenied {
		cause = camera.ErrPermissionDenied
	}
	return h.service.CameraFailed(ctx, cause)
}

// PushFrame forwards a client frame to the relayed camera.
func (h *SessionHandler) PushFrame(ctx context.Context, data []byte) error {
	if h.frames == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeNotImplemented,
			"camera frames are not relayed by this server", nil, "")
	}
	err := h.frames.Push(data)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, camera.ErrNotOpen):
		return platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeConflict,
			"no emotion scan is waiting for frames", err, "")
	default:
		return platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			err.Error(), err, "")
	}
}

func (h *SessionHandler) Logout(ctx context.Context) (session.Snapshot, error) {
	return h.service.Logout(ctx)
}
