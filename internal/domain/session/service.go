package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/domain/advisory"
	"github.com/janhq/aura-server/internal/domain/camera"
	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/infrastructure/metrics"
	"github.com/janhq/aura-server/internal/infrastructure/observability"
	"github.com/janhq/aura-server/internal/utils/idgen"
	"github.com/janhq/aura-server/internal/utils/platformerrors"
)

// captureTimeout bounds the wait for a camera frame during a scan.
const captureTimeout = 10 * time.Second

// Service is the session state machine. It also owns the active profile.
type Service interface {
	Boot(ctx context.Context) (Snapshot, error)
	Snapshot() Snapshot
	WaitIdle(ctx context.Context) (Snapshot, error)

	StartSignup(ctx context.Context) (Snapshot, error)
	StartLogin(ctx context.Context) (Snapshot, error)
	Back(ctx context.Context) (Snapshot, error)
	SubmitSignupStep(ctx context.Context, in SignupInput) (Snapshot, error)
	SubmitLoginStep(ctx context.Context, in LoginInput) (Snapshot, error)
	CompleteSetup(ctx context.Context, choices profile.AIFeaturesPatch) (Snapshot, error)

	BeginScan(ctx context.Context) (Snapshot, error)
	RetryScan(ctx context.Context) (Snapshot, error)
	CaptureScan(ctx context.Context) (Snapshot, error)
	SkipScan(ctx context.Context) (Snapshot, error)
	CameraFailed(ctx context.Context, cause error) (Snapshot, error)

	Logout(ctx context.Context) (Snapshot, error)

	UpdateProfile(ctx context.Context, edit profile.ProfileEdit) (*profile.User, error)
	UpdatePrivacy(ctx context.Context, patch profile.PrivacyPatch) (profile.Privacy, error)
	ToggleAIFeature(ctx context.Context, feature profile.Feature) (*profile.User, error)

	CurrentProfile(ctx context.Context) (*profile.User, error)
	MutateProfile(ctx context.Context, fn func(*profile.User) error) (*profile.User, error)
}

type signupForm struct {
	phone    string
	email    string
	username string
	avatar   string
}

type service struct {
	store   profile.Store
	advisor Advisor
	camera  *camera.Lease
	ids     idgen.Generator
	known   []string
	seedWS  []profile.Workspace
	log     zerolog.Logger

	mu      sync.Mutex
	state   State
	user    *profile.User
	privacy profile.Privacy

	// generation changes whenever a pending advisory result would land on a torn-down view.
	generation uint64
	pending    <-chan struct{}

	step       int
	signup     signupForm
	identifier string
	risk       *advisory.UsernameRisk
	scan       ScanView
}

// NewService creates a session machine in the landing state. Call Boot to hydrate it.
func NewService(
	store profile.Store,
	advisor Advisor,
	lease *camera.Lease,
	ids idgen.Generator,
	opts Options,
	log zerolog.Logger,
) Service {
	return &service{
		store:   store,
		advisor: advisor,
		camera:  lease,
		ids:     ids,
		known:   append([]string(nil), opts.KnownHandles...),
		seedWS:  append([]profile.Workspace(nil), opts.DefaultWorkspaces...),
		log:     log.With().Str("component", "session-service").Logger(),
		state:   StateLanding,
	}
}

// Boot loads the persisted profile. A returning user always re-enters the emotion scan,
// even when a previous session already completed one.
func (s *service) Boot(ctx context.Context) (Snapshot, error) {
	user, err := s.store.Load(ctx)
	if err != nil {
		return Snapshot{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load profile")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	if user == nil {
		s.enterLocked(ctx, StateLanding)
	} else {
		s.privacy = profile.DefaultPrivacy(user)
		s.enterLocked(ctx, StateNeedsEmotionScan)
	}
	return s.snapshotLocked(), nil
}

func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// WaitIdle blocks until the pending advisory task, if any, has been applied.
func (s *service) WaitIdle(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()

	if pending != nil {
		select {
		case <-pending:
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		}
	}
	return s.Snapshot(), nil
}

func (s *service) StartSignup(ctx context.Context) (Snapshot, error) {
	return s.startWizard(ctx, StateSignup)
}

func (s *service) StartLogin(ctx context.Context) (Snapshot, error) {
	return s.startWizard(ctx, StateLogin)
}

func (s *service) startWizard(ctx context.Context, mode State) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateLanding); err != nil {
		return Snapshot{}, err
	}
	s.enterLocked(ctx, mode)
	return s.snapshotLocked(), nil
}

// Back moves one wizard step back, or to landing from the first step.
// A pending username check is abandoned.
func (s *service) Back(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateSignup, StateLogin); err != nil {
		return Snapshot{}, err
	}

	if s.step <= 1 {
		s.enterLocked(ctx, StateLanding)
		return s.snapshotLocked(), nil
	}

	s.discardPendingLocked()
	s.step--
	s.risk = nil
	return s.snapshotLocked(), nil
}

func (s *service) SubmitSignupStep(ctx context.Context, in SignupInput) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateSignup); err != nil {
		return Snapshot{}, err
	}
	if s.busyLocked() {
		return Snapshot{}, busyError(ctx)
	}

	switch s.step {
	case 1:
		phone := strings.TrimSpace(in.Phone)
		if phone == "" {
			return Snapshot{}, validationError(ctx, "recovery phone is required")
		}
		s.signup.phone = phone
		s.step = 2
	case 2:
		email := strings.TrimSpace(in.Email)
		if email == "" {
			return Snapshot{}, validationError(ctx, "email is required")
		}
		s.signup.email = email
		s.step = 3
	case 3:
		// Verification codes are placeholders; any code is accepted.
		s.step = 4
	case 4:
		username := profile.NormalizeUsername(in.Username)
		if username == "" {
			return Snapshot{}, validationError(ctx, "username is required")
		}
		s.signup.username = username
		s.signup.avatar = in.Avatar
		s.risk = nil
		s.startRiskCheckLocked(ctx, username)
	case 5:
		displayName := strings.TrimSpace(in.DisplayName)
		if displayName == "" {
			displayName = s.signup.username
		}
		user := &profile.User{
			ID:          s.ids.NewID("user"),
			Username:    s.signup.username,
			DisplayName: displayName,
			Avatar:      s.signup.avatar,
			IsPrivate:   true,
			Bio:         strings.TrimSpace(in.Bio),
			Email:       s.signup.email,
			Phone:       s.signup.phone,
		}
		s.completeAuthLocked(ctx, user)
	}

	return s.snapshotLocked(), nil
}

func (s *service) startRiskCheckLocked(ctx context.Context, username string) {
	generation := s.generation
	known := append([]string(nil), s.known...)

	task := advisory.Go(ctx, advisory.DefaultUsernameRisk(),
		func(ctx context.Context) (advisory.UsernameRisk, error) {
			return s.advisor.ScoreUsernameRisk(ctx, username, known), nil
		},
		func(risk advisory.UsernameRisk, _ error) {
			s.applyRisk(generation, username, risk)
		},
	)
	s.pending = task.Done()
	s.log.Debug().Str("username", username).Msg("username risk check started")
}

func (s *service) applyRisk(generation uint64, username string, risk advisory.UsernameRisk) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateSignup || s.step != 4 {
		s.log.Debug().Str("username", username).Msg("discarding late username risk result")
		return
	}

	s.pending = nil
	s.risk = &risk
	if risk.Blocks() {
		s.log.Warn().
			Str("username", username).
			Int("risk_score", risk.RiskScore).
			Str("similar_to", risk.SimilarTo).
			Msg("username held for impersonation risk")
		return
	}
	s.step = 5
}

func (s *service) SubmitLoginStep(ctx context.Context, in LoginInput) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateLogin); err != nil {
		return Snapshot{}, err
	}

	switch s.step {
	case 1:
		identifier := strings.TrimSpace(in.Identifier)
		if identifier == "" {
			return Snapshot{}, validationError(ctx, "username or phone is required")
		}
		s.identifier = identifier
		s.step = 2
	default:
		username := s.identifier
		if !strings.Contains(username, "@") {
			username = "@" + username
		}
		s.completeAuthLocked(ctx, &profile.User{
			ID:          RecoveredUserID,
			Username:    username,
			DisplayName: RecoveredDisplayName,
			IsPrivate:   true,
		})
	}

	return s.snapshotLocked(), nil
}

// completeAuthLocked hands a freshly established identity to the post-auth states.
// The profile is written once setup completes, so an unfinished setup never survives a restart.
func (s *service) completeAuthLocked(ctx context.Context, user *profile.User) {
	if len(user.Workspaces) == 0 {
		user.Workspaces = append([]profile.Workspace(nil), s.seedWS...)
	}
	s.user = user
	s.privacy = profile.DefaultPrivacy(user)

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("identity established")

	switch {
	case user.AIFeatures == nil:
		s.enterLocked(ctx, StateNeedsSetup)
	case user.AIFeatures.FaceEmotionDetection:
		s.enterLocked(ctx, StateNeedsEmotionScan)
	default:
		s.enterLocked(ctx, StateActive)
	}
}

// CompleteSetup applies the wizard choices over the current configuration, or over the
// all-on default, and persists the profile.
func (s *service) CompleteSetup(ctx context.Context, choices profile.AIFeaturesPatch) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateNeedsSetup); err != nil {
		return Snapshot{}, err
	}

	updated := s.user.Clone()
	features := choices.Apply(updated.Features())
	updated.AIFeatures = &features
	if err := s.saveLocked(ctx, updated); err != nil {
		return Snapshot{}, err
	}

	if features.FaceEmotionDetection {
		s.enterLocked(ctx, StateNeedsEmotionScan)
	} else {
		s.enterLocked(ctx, StateActive)
	}
	return s.snapshotLocked(), nil
}

// BeginScan opens the front camera. A failure is reported through the scan status,
// not as an error, so the screen can offer retry and bypass.
func (s *service) BeginScan(ctx context.Context) (Snapshot, error) {
	return s.openCamera(ctx, "begin")
}

func (s *service) RetryScan(ctx context.Context) (Snapshot, error) {
	return s.openCamera(ctx, "retry")
}

func (s *service) openCamera(ctx context.Context, action string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateNeedsEmotionScan); err != nil {
		return Snapshot{}, err
	}
	if s.busyLocked() {
		return Snapshot{}, busyError(ctx)
	}

	if err := s.camera.Acquire(ctx, camera.ScanConstraints()); err != nil {
		s.markUnavailableLocked(err)
		return s.snapshotLocked(), nil
	}

	s.scan = ScanView{Status: ScanReady}
	s.log.Debug().Str("action", action).Msg("emotion scan camera ready")
	return s.snapshotLocked(), nil
}

// CaptureScan grabs one frame and classifies it in the background. The machine reports
// busy until the result lands.
func (s *service) CaptureScan(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateNeedsEmotionScan); err != nil {
		return Snapshot{}, err
	}
	if s.busyLocked() {
		return Snapshot{}, busyError(ctx)
	}
	if s.scan.Status != ScanReady {
		return Snapshot{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"camera is not ready", ErrInvalidTransition, "")
	}

	generation := s.generation
	s.scan = ScanView{Status: ScanCapturing}

	// The result is saved after the request that started the capture may have returned.
	saveCtx := context.WithoutCancel(ctx)
	task := advisory.Go(ctx, profile.EmotionUndefined,
		func(ctx context.Context) (string, error) {
			captureCtx, cancel := context.WithTimeout(ctx, captureTimeout)
			frame, err := s.camera.Capture(captureCtx)
			cancel()
			if err != nil {
				return "", err
			}
			return s.advisor.ClassifyEmotion(ctx, frame.Data), nil
		},
		func(label string, err error) {
			s.applyEmotion(saveCtx, generation, label, err)
		},
	)
	s.pending = task.Done()
	return s.snapshotLocked(), nil
}

func (s *service) applyEmotion(ctx context.Context, generation uint64, label string, captureErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateNeedsEmotionScan {
		s.log.Debug().Str("emotion", label).Msg("discarding late emotion result")
		return
	}
	s.pending = nil

	if captureErr != nil {
		s.camera.Release()
		s.markUnavailableLocked(captureErr)
		return
	}

	if err := s.finishScanLocked(ctx, label); err != nil {
		s.log.Error().Err(err).Msg("failed to persist scanned emotion")
		s.scan = ScanView{Status: ScanReady}
	}
}

// SkipScan covers both the plain skip and the bypass offered when the camera is unavailable.
// Either way the emotion becomes Undefined.
func (s *service) SkipScan(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateNeedsEmotionScan); err != nil {
		return Snapshot{}, err
	}

	if s.scan.Status == ScanUnavailable {
		s.log.Info().Str("reason", string(s.scan.Reason)).Msg("emotion scan bypassed")
	} else {
		s.log.Info().Msg("emotion scan skipped")
	}

	if err := s.finishScanLocked(ctx, profile.EmotionUndefined); err != nil {
		return Snapshot{}, err
	}
	return s.snapshotLocked(), nil
}

// CameraFailed records a device failure reported by the capture side.
func (s *service) CameraFailed(ctx context.Context, cause error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateNeedsEmotionScan); err != nil {
		return Snapshot{}, err
	}

	s.discardPendingLocked()
	s.camera.Release()
	s.markUnavailableLocked(cause)
	return s.snapshotLocked(), nil
}

func (s *service) finishScanLocked(ctx context.Context, emotion string) error {
	updated := s.user.Clone()
	updated.Emotion = emotion
	if err := s.saveLocked(ctx, updated); err != nil {
		return err
	}
	s.log.Info().Str("emotion", emotion).Msg("emotion recorded")
	s.enterLocked(ctx, StateActive)
	return nil
}

func (s *service) markUnavailableLocked(cause error) {
	reason := camera.ReasonFor(cause)
	s.scan = ScanView{Status: ScanUnavailable, Reason: reason, Message: reason.Message()}
	s.log.Warn().Err(cause).Str("reason", string(reason)).Msg("emotion scan unavailable")
}

// Logout clears the persisted profile and returns to landing. In-flight results are dropped.
func (s *service) Logout(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(ctx, StateNeedsSetup, StateNeedsEmotionScan, StateActive); err != nil {
		return Snapshot{}, err
	}

	if err := s.store.Clear(ctx); err != nil {
		return Snapshot{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to clear profile")
	}

	userID := s.user.ID
	s.user = nil
	s.privacy = profile.Privacy{}
	s.enterLocked(ctx, StateLanding)

	s.log.Info().Str("user_id", userID).Msg("logged out")
	return s.snapshotLocked(), nil
}

func (s *service) UpdateProfile(ctx context.Context, edit profile.ProfileEdit) (*profile.User, error) {
	return s.MutateProfile(ctx, func(u *profile.User) error {
		edit.Apply(u)
		return nil
	})
}

// UpdatePrivacy changes the privacy toggles. Only private mode is part of the persisted profile.
func (s *service) UpdatePrivacy(ctx context.Context, patch profile.PrivacyPatch) (profile.Privacy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(ctx); err != nil {
		return profile.Privacy{}, err
	}

	next := patch.Apply(s.privacy)
	if next.PrivateMode != s.user.IsPrivate {
		updated := s.user.Clone()
		updated.IsPrivate = next.PrivateMode
		if err := s.saveLocked(ctx, updated); err != nil {
			return profile.Privacy{}, err
		}
	}
	s.privacy = next
	return s.privacy, nil
}

// ToggleAIFeature flips one feature, starting from the all-on default when none is configured.
func (s *service) ToggleAIFeature(ctx context.Context, feature profile.Feature) (*profile.User, error) {
	return s.MutateProfile(ctx, func(u *profile.User) error {
		features := u.Features()
		if !features.Toggle(feature) {
			return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"unknown AI feature", nil, "", map[string]any{"feature": string(feature)})
		}
		u.AIFeatures = &features
		return nil
	})
}

func (s *service) CurrentProfile(ctx context.Context) (*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(ctx); err != nil {
		return nil, err
	}
	return s.user.Clone(), nil
}

// MutateProfile applies fn to a copy of the active profile, persists it, then commits it.
// Nothing changes when fn or the write fails.
func (s *service) MutateProfile(ctx context.Context, fn func(*profile.User) error) (*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(ctx); err != nil {
		return nil, err
	}

	updated := s.user.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	if err := s.saveLocked(ctx, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (s *service) saveLocked(ctx context.Context, updated *profile.User) error {
	if err := s.store.Save(ctx, updated); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist profile")
	}
	s.user = updated
	return nil
}

// enterLocked moves to a new state. Leaving the scan screen always releases the camera.
func (s *service) enterLocked(ctx context.Context, to State) {
	from := s.state
	if from == StateNeedsEmotionScan {
		s.camera.Release()
	}

	s.discardPendingLocked()
	s.state = to
	s.step = 0
	s.risk = nil
	s.scan = ScanView{}

	switch to {
	case StateSignup, StateLogin:
		s.step = 1
		s.signup = signupForm{}
		s.identifier = ""
	case StateNeedsEmotionScan:
		s.scan = ScanView{Status: ScanIdle}
	}

	if from != to {
		metrics.RecordStateTransition(string(from), string(to))
		observability.AddStatusTransition(ctx, string(from), string(to))
		s.log.Info().Str("from", string(from)).Str("to", string(to)).Msg("session transition")
	}
}

func (s *service) discardPendingLocked() {
	s.generation++
	s.pending = nil
}

func (s *service) busyLocked() bool {
	if s.pending == nil {
		return false
	}
	select {
	case <-s.pending:
		return false
	default:
		return true
	}
}

func (s *service) requireLocked(ctx context.Context, allowed ...State) error {
	for _, state := range allowed {
		if s.state == state {
			return nil
		}
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
		"operation not allowed in the current session state", ErrInvalidTransition, "",
		map[string]any{"state": string(s.state)})
}

func (s *service) requireActiveLocked(ctx context.Context) error {
	if s.state != StateActive || s.user == nil {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"session is not active", ErrNotActive, "", map[string]any{"state": string(s.state)})
	}
	return nil
}

func (s *service) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state}

	switch s.state {
	case StateSignup, StateLogin:
		total := SignupSteps
		if s.state == StateLogin {
			total = LoginSteps
		}
		view := &WizardView{Mode: s.state, Step: s.step, TotalSteps: total, Busy: s.busyLocked()}
		if s.risk != nil {
			risk := *s.risk
			view.Risk = &risk
			view.Blocked = risk.Blocks()
		}
		snap.Wizard = view
	case StateNeedsEmotionScan:
		scan := s.scan
		scan.Busy = s.busyLocked()
		snap.Scan = &scan
	case StateActive:
		privacy := s.privacy
		snap.Privacy = &privacy
	}

	if s.state != StateSignup && s.state != StateLogin && s.user != nil {
		snap.User = s.user.Clone()
	}
	return snap
}

func busyError(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
		"an advisory check is still pending", ErrBusy, "")
}

func validationError(ctx context.Context, message string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, message, nil, "")
}
