package advisory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	risk     UsernameRisk
	emotion  string
	report   SecurityReport
	err      error
	block    chan struct{}
	panicMsg string
}

func (f *fakeProvider) wait() {
	if f.block != nil {
		<-f.block
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
}

func (f *fakeProvider) ScoreUsernameRisk(context.Context, string, []string) (UsernameRisk, error) {
	f.wait()
	return f.risk, f.err
}

func (f *fakeProvider) ClassifyEmotion(context.Context, []byte) (string, error) {
	f.wait()
	return f.emotion, f.err
}

func (f *fakeProvider) AuditMessage(context.Context, string) (SecurityReport, error) {
	f.wait()
	return f.report, f.err
}

func TestAdvisorFailSoft(t *testing.T) {
	failures := map[string]*fakeProvider{
		"transport error": {err: errors.New("connection refused")},
		"panic":           {panicMsg: "decoder exploded"},
	}

	for name, provider := range failures {
		t.Run(name, func(t *testing.T) {
			advisor := NewAdvisor(provider, time.Second, zerolog.Nop())
			ctx := context.Background()

			assert.Equal(t, DefaultUsernameRisk(), advisor.ScoreUsernameRisk(ctx, "trushar_dev", []string{"trushar.dev"}))
			assert.Equal(t, EmotionUndefined, advisor.ClassifyEmotion(ctx, []byte{0xff, 0xd8}))
			assert.Equal(t, DefaultSecurityReport(), advisor.AuditMessage(ctx, "hello"))
		})
	}
}

func TestAdvisorTimeoutResolvesToDefault(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	advisor := NewAdvisor(&fakeProvider{block: block, risk: UsernameRisk{RiskScore: 90}}, 20*time.Millisecond, zerolog.Nop())

	start := time.Now()
	risk := advisor.ScoreUsernameRisk(context.Background(), "trushar_dev", nil)

	assert.Equal(t, DefaultUsernameRisk(), risk)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAdvisorDisabledProvider(t *testing.T) {
	advisor := NewAdvisor(nil, time.Second, zerolog.Nop())

	assert.Equal(t, 0, advisor.ScoreUsernameRisk(context.Background(), "anyone", nil).RiskScore)
}

func TestAdvisorSanitizesResults(t *testing.T) {
	provider := &fakeProvider{
		risk:    UsernameRisk{RiskScore: 180, Warning: "looks like trushar.dev", SimilarTo: "trushar.dev"},
		emotion: "  joyful, clearly\n",
		report: SecurityReport{
			IsPhishing:       true,
			OverallRiskScore: -4,
			SuspiciousLinks:  []SuspiciousLink{{URL: "http://x.test", Risk: "CRITICAL"}},
		},
	}
	advisor := NewAdvisor(provider, time.Second, zerolog.Nop())
	ctx := context.Background()

	risk := advisor.ScoreUsernameRisk(ctx, "trushar_dev", nil)
	assert.Equal(t, 100, risk.RiskScore)
	assert.True(t, risk.Blocks())

	assert.Equal(t, "Joyful", advisor.ClassifyEmotion(ctx, []byte{1}))

	report := advisor.AuditMessage(ctx, "click http://x.test")
	assert.Equal(t, 0, report.OverallRiskScore)
	assert.Equal(t, LinkRiskLow, report.SuspiciousLinks[0].Risk)
	assert.True(t, report.Flagged())
}

func TestAdvisorEmptyImageSkipsProvider(t *testing.T) {
	advisor := NewAdvisor(&fakeProvider{emotion: "Calm"}, time.Second, zerolog.Nop())

	assert.Equal(t, EmotionUndefined, advisor.ClassifyEmotion(context.Background(), nil))
}
