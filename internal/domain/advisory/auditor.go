package advisory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/infrastructure/metrics"
)

// Auditor runs passive message audits in the background. Reports are logged and
// counted; nothing user-visible depends on them.
type Auditor struct {
	advisor *Advisor
	log     zerolog.Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewAuditor creates a background auditor.
func NewAuditor(advisor *Advisor, log zerolog.Logger) *Auditor {
	return &Auditor{
		advisor: advisor,
		log:     log.With().Str("component", "message-auditor").Logger(),
	}
}

// Submit schedules an audit of text. Submissions after Drain has started are dropped.
func (a *Auditor) Submit(chatID, text string) {
	if a.closed.Load() {
		a.log.Debug().Str("chat_id", chatID).Msg("auditor draining, audit dropped")
		return
	}

	a.wg.Add(1)
	Go(context.Background(), DefaultSecurityReport(), func(ctx context.Context) (SecurityReport, error) {
		return a.advisor.AuditMessage(ctx, text), nil
	}, func(report SecurityReport, _ error) {
		defer a.wg.Done()
		metrics.RecordMessageAudit(report.Flagged())

		event := a.log.Debug()
		if report.Flagged() {
			event = a.log.Info()
		}
		event.
			Str("chat_id", chatID).
			Bool("toxic", report.IsToxic).
			Bool("phishing", report.IsPhishing).
			Bool("fake_news", report.IsFakeNews).
			Int("suspicious_links", len(report.SuspiciousLinks)).
			Int("risk_score", report.OverallRiskScore).
			Msg("message audited")
	})
}

// Drain stops accepting audits and waits for pending ones until ctx ends.
func (a *Auditor) Drain(ctx context.Context) error {
	a.closed.Store(true)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		a.log.Warn().Msg("audit drain timed out")
		return ctx.Err()
	}
}
