package session

import (
	"context"
	"errors"

	"github.com/janhq/aura-server/internal/domain/advisory"
	"github.com/janhq/aura-server/internal/domain/camera"
	"github.com/janhq/aura-server/internal/domain/profile"
)

// State is the screen the session machine currently drives.
type State string

const (
	// StateLanding means no user is loaded.
	StateLanding State = "landing"
	// StateLogin is the two-step login wizard.
	StateLogin State = "login"
	// StateSignup is the five-step signup wizard.
	StateSignup State = "signup"
	// StateNeedsSetup waits for the AI feature wizard.
	StateNeedsSetup State = "needs_setup"
	// StateNeedsEmotionScan waits for a biometric scan or a skip.
	StateNeedsEmotionScan State = "needs_emotion_scan"
	// StateActive is normal use.
	StateActive State = "active"
)

// ScanStatus is the camera side of the emotion scan screen.
type ScanStatus string

const (
	ScanIdle        ScanStatus = "idle"
	ScanReady       ScanStatus = "ready"
	ScanCapturing   ScanStatus = "capturing"
	ScanUnavailable ScanStatus = "unavailable"
)

const (
	SignupSteps = 5
	LoginSteps  = 2

	// RecoveredUserID is the id given to every restored login session.
	RecoveredUserID = "user_rec"
	// RecoveredDisplayName is the display name of a restored login session.
	RecoveredDisplayName = "Aura Member"
)

var (
	ErrInvalidTransition = errors.New("operation not allowed in the current session state")
	ErrBusy              = errors.New("an advisory check is still pending")
	ErrNotActive         = errors.New("no active session")
)

// Advisor is the part of the advisory client the session machine calls.
type Advisor interface {
	ScoreUsernameRisk(ctx context.Context, candidate string, knownHandles []string) advisory.UsernameRisk
	ClassifyEmotion(ctx context.Context, image []byte) string
}

// SignupInput carries the fields of the current signup step; other fields are ignored.
type SignupInput struct {
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Code        string `json:"code,omitempty"`
	Username    string `json:"username,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// LoginInput carries the fields of the current login step.
type LoginInput struct {
	Identifier string `json:"identifier,omitempty"`
	Code       string `json:"code,omitempty"`
}

// WizardView describes the login or signup wizard.
type WizardView struct {
	Mode       State                  `json:"mode"`
	Step       int                    `json:"step"`
	TotalSteps int                    `json:"totalSteps"`
	Busy       bool                   `json:"busy"`
	Risk       *advisory.UsernameRisk `json:"risk,omitempty"`
	Blocked    bool                   `json:"blocked"`
}

// ScanView describes the emotion scan screen.
type ScanView struct {
	Status  ScanStatus    `json:"status"`
	Reason  camera.Reason `json:"reason,omitempty"`
	Message string        `json:"message,omitempty"`
	Busy    bool          `json:"busy"`
}

// Snapshot is everything the presentation layer needs to render the current screen.
type Snapshot struct {
	State   State            `json:"state"`
	Wizard  *WizardView      `json:"wizard,omitempty"`
	Scan    *ScanView        `json:"scan,omitempty"`
	User    *profile.User    `json:"user,omitempty"`
	Privacy *profile.Privacy `json:"privacy,omitempty"`
}

// Options are the fixed inputs of the machine.
type Options struct {
	// KnownHandles are the verified usernames checked for impersonation.
	KnownHandles []string
	// DefaultWorkspaces are given to users who complete auth without any.
	DefaultWorkspaces []profile.Workspace
}
