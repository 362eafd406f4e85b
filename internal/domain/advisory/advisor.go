package advisory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/infrastructure/metrics"
	"github.com/janhq/aura-server/internal/infrastructure/observability"
)

const (
	OpScoreUsernameRisk = "score_username_risk"
	OpClassifyEmotion   = "classify_emotion"
	OpAuditMessage      = "audit_message"
)

// Advisor applies the fail-soft contract on top of a Provider: every transport error,
// decode failure, panic or timeout resolves to the documented default and is only logged.
type Advisor struct {
	provider Provider
	timeout  time.Duration
	log      zerolog.Logger
}

// NewAdvisor creates an Advisor. A non-positive timeout disables the deadline.
func NewAdvisor(provider Provider, timeout time.Duration, log zerolog.Logger) *Advisor {
	if provider == nil {
		provider = DisabledProvider{}
	}
	return &Advisor{
		provider: provider,
		timeout:  timeout,
		log:      log.With().Str("component", "advisor").Logger(),
	}
}

// ScoreUsernameRisk never fails; the default is {riskScore:0, warning:""}.
func (a *Advisor) ScoreUsernameRisk(ctx context.Context, candidate string, knownHandles []string) UsernameRisk {
	risk, err := invoke(ctx, a, OpScoreUsernameRisk, func(ctx context.Context) (UsernameRisk, error) {
		return a.provider.ScoreUsernameRisk(ctx, candidate, knownHandles)
	})
	if err != nil {
		return DefaultUsernameRisk()
	}
	risk.RiskScore = ClampScore(float64(risk.RiskScore))
	return risk
}

// ClassifyEmotion never fails; the default is EmotionUndefined.
func (a *Advisor) ClassifyEmotion(ctx context.Context, image []byte) string {
	if len(image) == 0 {
		return EmotionUndefined
	}
	label, err := invoke(ctx, a, OpClassifyEmotion, func(ctx context.Context) (string, error) {
		return a.provider.ClassifyEmotion(ctx, image)
	})
	if err != nil {
		return EmotionUndefined
	}
	return NormalizeEmotion(label)
}

// AuditMessage never fails; the default is an all-clear report.
func (a *Advisor) AuditMessage(ctx context.Context, text string) SecurityReport {
	report, err := invoke(ctx, a, OpAuditMessage, func(ctx context.Context) (SecurityReport, error) {
		return a.provider.AuditMessage(ctx, text)
	})
	if err != nil {
		return DefaultSecurityReport()
	}

	report.OverallRiskScore = ClampScore(float64(report.OverallRiskScore))
	links := make([]SuspiciousLink, 0, len(report.SuspiciousLinks))
	for _, link := range report.SuspiciousLinks {
		link.Risk = NormalizeLinkRisk(string(link.Risk))
		links = append(links, link)
	}
	report.SuspiciousLinks = links
	return report
}

// invoke runs fn under the advisor deadline. The provider runs on its own goroutine so a
// call that ignores its context still resolves to the default once the deadline passes.
func invoke[T any](ctx context.Context, a *Advisor, op string, fn func(context.Context) (T, error)) (T, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	ctx, span := observability.StartAdvisorySpan(ctx, op)
	defer span.End()

	type outcome struct {
		value T
		err   error
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("provider panicked: %v", r)}
			}
		}()
		value, err := fn(ctx)
		done <- outcome{value: value, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}

	elapsed := time.Since(start)
	if out.err != nil {
		observability.RecordError(span, out.err)
		metrics.RecordAdvisoryCall(op, metrics.OutcomeFallback, elapsed)
		observability.RecordAdvisoryDuration(ctx, op, metrics.OutcomeFallback, elapsed)
		a.log.Warn().Err(out.err).Str("operation", op).Dur("elapsed", elapsed).Msg("advisory call failed, using default")
		var zero T
		return zero, out.err
	}

	metrics.RecordAdvisoryCall(op, metrics.OutcomeOK, elapsed)
	observability.RecordAdvisoryDuration(ctx, op, metrics.OutcomeOK, elapsed)
	a.log.Debug().Str("operation", op).Dur("elapsed", elapsed).Msg("advisory call completed")
	return out.value, nil
}
