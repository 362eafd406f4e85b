package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/aura-server/internal/domain/advisory"
	"github.com/janhq/aura-server/internal/domain/camera"
	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/utils/idgen"
	"github.com/janhq/aura-server/internal/utils/platformerrors"
)

type memoryProfileStore struct {
	mu      sync.Mutex
	user    *profile.User
	saves   int
	saveErr error
	// honorCancel makes Save fail on a cancelled context, as a network backend would.
	honorCancel bool
}

func (s *memoryProfileStore) Load(context.Context) (*profile.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone(), nil
}

func (s *memoryProfileStore) Save(ctx context.Context, user *profile.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.honorCancel && ctx.Err() != nil {
		return ctx.Err()
	}
	s.user = user.Clone()
	s.saves++
	return nil
}

func (s *memoryProfileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

func (s *memoryProfileStore) stored() *profile.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

type fakeAdvisor struct {
	mu      sync.Mutex
	risks   []advisory.UsernameRisk
	emotion string
	gate    chan struct{}
}

func (a *fakeAdvisor) ScoreUsernameRisk(context.Context, string, []string) advisory.UsernameRisk {
	if a.gate != nil {
		<-a.gate
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.risks) == 0 {
		return advisory.DefaultUsernameRisk()
	}
	risk := a.risks[0]
	a.risks = a.risks[1:]
	return risk
}

func (a *fakeAdvisor) ClassifyEmotion(context.Context, []byte) string {
	if a.gate != nil {
		<-a.gate
	}
	if a.emotion == "" {
		return advisory.EmotionUndefined
	}
	return a.emotion
}

type fakeDevice struct {
	openErr error
	opened  atomic.Int32
	closed  atomic.Int32
}

func (d *fakeDevice) Open(context.Context, camera.Constraints) (camera.Stream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opened.Add(1)
	return &fakeStream{device: d}, nil
}

func (d *fakeDevice) leaked() int32 {
	return d.opened.Load() - d.closed.Load()
}

type fakeStream struct {
	device *fakeDevice
}

func (s *fakeStream) Capture(context.Context) (camera.Frame, error) {
	return camera.Frame{Data: []byte{0xff, 0xd8, 0xff}, MimeType: "image/jpeg"}, nil
}

func (s *fakeStream) Close() error {
	s.device.closed.Add(1)
	return nil
}

type fixture struct {
	store   *memoryProfileStore
	advisor *fakeAdvisor
	device  *fakeDevice
	svc     Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:   &memoryProfileStore{},
		advisor: &fakeAdvisor{},
		device:  &fakeDevice{},
	}
	f.svc = NewService(
		f.store,
		f.advisor,
		camera.NewLease(f.device, zerolog.Nop()),
		idgen.NewSequence(),
		Options{
			KnownHandles: []string{"trushar.dev", "aura_dev"},
			DefaultWorkspaces: []profile.Workspace{
				{ID: "ws_home", Name: "Home", Icon: "HomeIcon", Color: "#3b82f6"},
				{ID: "ws_work", Name: "Work", Icon: "BriefcaseIcon", Color: "#10b981"},
			},
		},
		zerolog.Nop(),
	)
	return f
}

func (f *fixture) signupTo(t *testing.T, step int) {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.StartSignup(ctx)
	require.NoError(t, err)

	inputs := []SignupInput{
		{Phone: "+1 555 0100"},
		{Email: "new@aura.test"},
		{Code: "123456"},
	}
	for i := 0; i < step-1 && i < len(inputs); i++ {
		_, err := f.svc.SubmitSignupStep(ctx, inputs[i])
		require.NoError(t, err)
	}
}

func (f *fixture) activeUser(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	f.signupTo(t, 4)
	_, err := f.svc.SubmitSignupStep(ctx, SignupInput{Username: "newcomer"})
	require.NoError(t, err)
	_, err = f.svc.WaitIdle(ctx)
	require.NoError(t, err)
	_, err = f.svc.SubmitSignupStep(ctx, SignupInput{})
	require.NoError(t, err)

	off := false
	snap, err := f.svc.CompleteSetup(ctx, profile.AIFeaturesPatch{FaceEmotionDetection: &off})
	require.NoError(t, err)
	require.Equal(t, StateActive, snap.State)
}

func TestBootWithoutProfileLands(t *testing.T) {
	f := newFixture(t)

	snap, err := f.svc.Boot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateLanding, snap.State)
	assert.Nil(t, snap.User)
}

// A returning user is asked to scan again on every cold start, even after a completed scan.
// This holds with emotion detection switched off as well.
func TestBootWithProfileAlwaysRescans(t *testing.T) {
	detectionOff := profile.DefaultAIFeatures()
	detectionOff.FaceEmotionDetection = false

	tests := []struct {
		name     string
		features profile.AIFeatures
	}{
		{name: "all features on", features: profile.DefaultAIFeatures()},
		{name: "emotion detection off", features: detectionOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			features := tt.features
			f.store.user = &profile.User{ID: "u1", Username: "returning", Emotion: "Calm", AIFeatures: &features}

			snap, err := f.svc.Boot(context.Background())
			require.NoError(t, err)

			assert.Equal(t, StateNeedsEmotionScan, snap.State)
			require.NotNil(t, snap.Scan)
			assert.Equal(t, ScanIdle, snap.Scan.Status)
			assert.Equal(t, "Calm", snap.User.Emotion)
		})
	}
}

func TestSignupBlankStepsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.StartSignup(ctx)
	require.NoError(t, err)

	_, err = f.svc.SubmitSignupStep(ctx, SignupInput{Phone: "   "})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Equal(t, 1, f.svc.Snapshot().Wizard.Step)
}

func TestSignupImpersonationScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.advisor.risks = []advisory.UsernameRisk{
		{RiskScore: 80, Warning: "Looks like trushar.dev", SimilarTo: "trushar.dev"},
		{RiskScore: 10},
	}
	f.signupTo(t, 4)

	_, err := f.svc.SubmitSignupStep(ctx, SignupInput{Username: "Trushar Dev"})
	require.NoError(t, err)
	snap, err := f.svc.WaitIdle(ctx)
	require.NoError(t, err)

	require.NotNil(t, snap.Wizard)
	assert.Equal(t, 4, snap.Wizard.Step)
	assert.True(t, snap.Wizard.Blocked)
	assert.Equal(t, "Looks like trushar.dev", snap.Wizard.Risk.Warning)
	assert.Equal(t, "trushar.dev", snap.Wizard.Risk.SimilarTo)

	_, err = f.svc.SubmitSignupStep(ctx, SignupInput{Username: "trushar_fan"})
	require.NoError(t, err)
	snap, err = f.svc.WaitIdle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Wizard.Step)
	assert.False(t, snap.Wizard.Blocked)

	snap, err = f.svc.SubmitSignupStep(ctx, SignupInput{Bio: "hello"})
	require.NoError(t, err)

	assert.Equal(t, StateNeedsSetup, snap.State)
	assert.Equal(t, "trushar_fan", snap.User.Username)
	assert.Equal(t, "trushar_fan", snap.User.DisplayName)
	assert.Equal(t, "user_1", snap.User.ID)
	assert.True(t, snap.User.IsPrivate)
	assert.Equal(t, "+1 555 0100", snap.User.Phone)
	assert.Len(t, snap.User.Workspaces, 2)
	assert.Nil(t, f.store.stored(), "profile is written when setup completes")
}

func TestRiskCheckCompletesAfterRequestEnds(t *testing.T) {
	f := newFixture(t)
	f.store.honorCancel = true
	f.advisor.risks = []advisory.UsernameRisk{{RiskScore: 80, Warning: "Looks like trushar.dev", SimilarTo: "trushar.dev"}}
	f.signupTo(t, 4)

	f.advisor.gate = make(chan struct{})
	reqCtx, cancel := context.WithCancel(context.Background())
	_, err := f.svc.SubmitSignupStep(reqCtx, SignupInput{Username: "Trushar Dev"})
	require.NoError(t, err)
	cancel()
	close(f.advisor.gate)

	snap, err := f.svc.WaitIdle(context.Background())
	require.NoError(t, err)

	require.NotNil(t, snap.Wizard)
	assert.Equal(t, 4, snap.Wizard.Step)
	assert.True(t, snap.Wizard.Blocked)
	require.NotNil(t, snap.Wizard.Risk)
	assert.Equal(t, "Looks like trushar.dev", snap.Wizard.Risk.Warning)
}

func TestSignupRejectsSubmitWhileChecking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.advisor.gate = make(chan struct{})
	f.signupTo(t, 4)

	snap, err := f.svc.SubmitSignupStep(ctx, SignupInput{Username: "someone"})
	require.NoError(t, err)
	assert.True(t, snap.Wizard.Busy)

	_, err = f.svc.SubmitSignupStep(ctx, SignupInput{Username: "someone"})
	assert.ErrorIs(t, err, ErrBusy)

	close(f.advisor.gate)
	snap, err = f.svc.WaitIdle(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Wizard.Busy)
	assert.Equal(t, 5, snap.Wizard.Step)
}

func TestBackDiscardsLateRiskResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.advisor.gate = make(chan struct{})
	f.signupTo(t, 4)

	_, err := f.svc.SubmitSignupStep(ctx, SignupInput{Username: "someone"})
	require.NoError(t, err)

	snap, err := f.svc.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Wizard.Step)
	assert.False(t, snap.Wizard.Busy)

	close(f.advisor.gate)
	snap, err = f.svc.WaitIdle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Wizard.Step)
}

func TestBackFromFirstStepLands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.StartLogin(ctx)
	require.NoError(t, err)

	snap, err := f.svc.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateLanding, snap.State)
}

func TestLoginRestoresMember(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"ghost", "@ghost"},
		{"@ghost", "@ghost"},
		{"me@aura.test", "me@aura.test"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			_, err := f.svc.StartLogin(ctx)
			require.NoError(t, err)

			_, err = f.svc.SubmitLoginStep(ctx, LoginInput{Identifier: tt.identifier})
			require.NoError(t, err)
			snap, err := f.svc.SubmitLoginStep(ctx, LoginInput{Code: "000000"})
			require.NoError(t, err)

			assert.Equal(t, StateNeedsSetup, snap.State)
			assert.Equal(t, RecoveredUserID, snap.User.ID)
			assert.Equal(t, tt.want, snap.User.Username)
			assert.Equal(t, RecoveredDisplayName, snap.User.DisplayName)
		})
	}
}

func TestSetupHappensExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signupTo(t, 4)
	_, err := f.svc.SubmitSignupStep(ctx, SignupInput{Username: "newcomer"})
	require.NoError(t, err)
	_, err = f.svc.WaitIdle(ctx)
	require.NoError(t, err)
	_, err = f.svc.SubmitSignupStep(ctx, SignupInput{})
	require.NoError(t, err)

	snap, err := f.svc.CompleteSetup(ctx, profile.AIFeaturesPatch{})
	require.NoError(t, err)
	assert.Equal(t, StateNeedsEmotionScan, snap.State)
	require.NotNil(t, f.store.stored().AIFeatures)
	assert.True(t, f.store.stored().AIFeatures.FaceEmotionDetection)

	_, err = f.svc.CompleteSetup(ctx, profile.AIFeaturesPatch{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetupWithoutEmotionDetectionGoesActive(t *testing.T) {
	f := newFixture(t)
	f.activeUser(t)

	stored := f.store.stored()
	require.NotNil(t, stored)
	assert.False(t, stored.AIFeatures.FaceEmotionDetection)
	assert.True(t, stored.AIFeatures.ToxicClassifier)
}

func bootIntoScan(t *testing.T, f *fixture) {
	t.Helper()
	features := profile.DefaultAIFeatures()
	f.store.user = &profile.User{ID: "u1", Username: "returning", AIFeatures: &features}
	_, err := f.svc.Boot(context.Background())
	require.NoError(t, err)
}

func TestScanCaptureSetsEmotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.advisor.emotion = "Joyful"
	bootIntoScan(t, f)

	snap, err := f.svc.BeginScan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScanReady, snap.Scan.Status)

	_, err = f.svc.CaptureScan(ctx)
	require.NoError(t, err)
	snap, err = f.svc.WaitIdle(ctx)
	require.NoError(t, err)

	assert.Equal(t, StateActive, snap.State)
	assert.Equal(t, "Joyful", snap.User.Emotion)
	assert.Equal(t, "Joyful", f.store.stored().Emotion)
	assert.Zero(t, f.device.leaked())
}

func TestScanCaptureCompletesAfterRequestEnds(t *testing.T) {
	f := newFixture(t)
	f.store.honorCancel = true
	f.advisor.emotion = "Joyful"
	bootIntoScan(t, f)

	_, err := f.svc.BeginScan(context.Background())
	require.NoError(t, err)

	f.advisor.gate = make(chan struct{})
	reqCtx, cancel := context.WithCancel(context.Background())
	_, err = f.svc.CaptureScan(reqCtx)
	require.NoError(t, err)
	cancel()
	close(f.advisor.gate)

	snap, err := f.svc.WaitIdle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateActive, snap.State)
	assert.Equal(t, "Joyful", snap.User.Emotion)
	assert.Equal(t, "Joyful", f.store.stored().Emotion)
	assert.Zero(t, f.device.leaked())
}

func TestScanSkipAndBypassSetUndefined(t *testing.T) {
	tests := []struct {
		name    string
		openErr error
		reason  camera.Reason
	}{
		{name: "skip with camera open"},
		{name: "bypass after denial", openErr: camera.ErrPermissionDenied, reason: camera.ReasonPermissionDenied},
		{name: "bypass without device", openErr: camera.ErrNoDevice, reason: camera.ReasonHardware},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.device.openErr = tt.openErr
			bootIntoScan(t, f)

			snap, err := f.svc.BeginScan(ctx)
			require.NoError(t, err)
			if tt.openErr != nil {
				assert.Equal(t, ScanUnavailable, snap.Scan.Status)
				assert.Equal(t, tt.reason, snap.Scan.Reason)
				assert.NotEmpty(t, snap.Scan.Message)
			}

			snap, err = f.svc.SkipScan(ctx)
			require.NoError(t, err)

			assert.Equal(t, StateActive, snap.State)
			assert.Equal(t, profile.EmotionUndefined, snap.User.Emotion)
			assert.Equal(t, profile.EmotionUndefined, f.store.stored().Emotion)
			assert.Zero(t, f.device.leaked())
		})
	}
}

func TestRetryScanReopensCamera(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bootIntoScan(t, f)

	_, err := f.svc.BeginScan(ctx)
	require.NoError(t, err)
	snap, err := f.svc.RetryScan(ctx)
	require.NoError(t, err)

	assert.Equal(t, ScanReady, snap.Scan.Status)
	assert.Equal(t, int32(2), f.device.opened.Load())
	assert.Equal(t, int32(1), f.device.leaked())
}

func TestCameraFailedMarksUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bootIntoScan(t, f)
	_, err := f.svc.BeginScan(ctx)
	require.NoError(t, err)

	snap, err := f.svc.CameraFailed(ctx, camera.ErrPermissionDenied)
	require.NoError(t, err)

	assert.Equal(t, ScanUnavailable, snap.Scan.Status)
	assert.Equal(t, camera.ReasonPermissionDenied, snap.Scan.Reason)
	assert.Zero(t, f.device.leaked())
}

func TestLogoutReleasesCameraAndClearsProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bootIntoScan(t, f)
	_, err := f.svc.BeginScan(ctx)
	require.NoError(t, err)

	snap, err := f.svc.Logout(ctx)
	require.NoError(t, err)

	assert.Equal(t, StateLanding, snap.State)
	assert.Nil(t, snap.User)
	assert.Nil(t, f.store.stored())
	assert.Zero(t, f.device.leaked())

	_, err = f.svc.Logout(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLogoutDropsPendingEmotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.advisor.gate = make(chan struct{})
	f.advisor.emotion = "Tense"
	bootIntoScan(t, f)
	_, err := f.svc.BeginScan(ctx)
	require.NoError(t, err)
	_, err = f.svc.CaptureScan(ctx)
	require.NoError(t, err)

	_, err = f.svc.Logout(ctx)
	require.NoError(t, err)
	close(f.advisor.gate)

	snap, err := f.svc.WaitIdle(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateLanding, snap.State)
	assert.Nil(t, f.store.stored())
}

func TestOwnerRequiresActiveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CurrentProfile(ctx)
	assert.ErrorIs(t, err, ErrNotActive)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	f.activeUser(t)
	user, err := f.svc.CurrentProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newcomer", user.Username)
}

func TestMutateProfileIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.activeUser(t)

	_, err := f.svc.MutateProfile(ctx, func(u *profile.User) error {
		u.DisplayName = "changed"
		return errors.New("abort")
	})
	require.Error(t, err)

	user, err := f.svc.CurrentProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newcomer", user.DisplayName)

	f.store.saveErr = errors.New("disk full")
	_, err = f.svc.UpdateProfile(ctx, profile.ProfileEdit{DisplayName: ptr("other")})
	require.Error(t, err)

	user, err = f.svc.CurrentProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newcomer", user.DisplayName)
}

func TestToggleAIFeature(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.activeUser(t)

	user, err := f.svc.ToggleAIFeature(ctx, profile.FeatureOracleVoice)
	require.NoError(t, err)
	assert.False(t, user.AIFeatures.OracleVoice)
	assert.False(t, f.store.stored().AIFeatures.OracleVoice)

	_, err = f.svc.ToggleAIFeature(ctx, profile.Feature("telepathy"))
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestUpdatePrivacyPersistsPrivateModeOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.activeUser(t)
	saves := f.store.saves

	privacy, err := f.svc.UpdatePrivacy(ctx, profile.PrivacyPatch{StealthMode: ptr(true)})
	require.NoError(t, err)
	assert.True(t, privacy.StealthMode)
	assert.Equal(t, saves, f.store.saves)

	privacy, err = f.svc.UpdatePrivacy(ctx, profile.PrivacyPatch{PrivateMode: ptr(false)})
	require.NoError(t, err)
	assert.False(t, privacy.PrivateMode)
	assert.True(t, privacy.StealthMode)
	assert.False(t, f.store.stored().IsPrivate)
}

func ptr[T any](v T) *T {
	return &v
}
