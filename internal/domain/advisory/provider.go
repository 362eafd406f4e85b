package advisory

import (
	"context"
	"errors"
)

// ErrDisabled is returned by DisabledProvider for every call.
var ErrDisabled = errors.New("advisory service is not configured")

// Provider performs the raw advisory exchanges. Implementations return errors freely;
// Advisor turns every failure into the documented default.
type Provider interface {
	ScoreUsernameRisk(ctx context.Context, candidate string, knownHandles []string) (UsernameRisk, error)
	ClassifyEmotion(ctx context.Context, image []byte) (string, error)
	AuditMessage(ctx context.Context, text string) (SecurityReport, error)
}

// DisabledProvider stands in when no credential is configured.
type DisabledProvider struct{}

func (DisabledProvider) ScoreUsernameRisk(context.Context, string, []string) (UsernameRisk, error) {
	return UsernameRisk{}, ErrDisabled
}

func (DisabledProvider) ClassifyEmotion(context.Context, []byte) (string, error) {
	return "", ErrDisabled
}

func (DisabledProvider) AuditMessage(context.Context, string) (SecurityReport, error) {
	return SecurityReport{}, ErrDisabled
}
