package advisory

import (
	"math"
	"strings"
	"unicode"

	"github.com/janhq/aura-server/internal/domain/profile"
)

// RiskBlockThreshold is the username risk score at which signup holds.
const RiskBlockThreshold = 50

// EmotionUndefined is the sentinel label used when no determination is possible.
const EmotionUndefined = profile.EmotionUndefined

// Emotions is the vocabulary the emotion classifier is asked to choose from.
var Emotions = []string{"Neutral", "Joyful", "Tense", "Calm", "Melancholy", "Focused"}

// UsernameRisk is the impersonation assessment of a candidate handle.
type UsernameRisk struct {
	RiskScore int    `json:"riskScore" jsonschema:"minimum=0,maximum=100,description=Impersonation risk from 0 to 100"`
	Warning   string `json:"warning" jsonschema:"description=Brief warning when the risk is above 30"`
	SimilarTo string `json:"similarTo,omitempty" jsonschema:"description=Verified handle the candidate resembles"`
}

// Blocks reports whether the score is high enough to hold the signup wizard.
func (r UsernameRisk) Blocks() bool {
	return r.RiskScore >= RiskBlockThreshold
}

// DefaultUsernameRisk is the safe result used whenever the advisory call fails.
func DefaultUsernameRisk() UsernameRisk {
	return UsernameRisk{RiskScore: 0, Warning: ""}
}

// LinkRisk grades a suspicious link.
type LinkRisk string

const (
	LinkRiskLow    LinkRisk = "low"
	LinkRiskMedium LinkRisk = "medium"
	LinkRiskHigh   LinkRisk = "high"
)

// SuspiciousLink is one flagged URL in an audited message.
type SuspiciousLink struct {
	URL    string   `json:"url"`
	Risk   LinkRisk `json:"risk" jsonschema:"enum=low,enum=medium,enum=high"`
	Reason string   `json:"reason"`
}

// SecurityReport is the outcome of a message audit.
type SecurityReport struct {
	IsToxic          bool             `json:"isToxic"`
	ToxicityReason   string           `json:"toxicityReason,omitempty"`
	IsPhishing       bool             `json:"isPhishing"`
	PhishingReason   string           `json:"phishingReason,omitempty"`
	IsFakeNews       bool             `json:"isFakeNews"`
	FakeNewsReason   string           `json:"fakeNewsReason,omitempty"`
	SuspiciousLinks  []SuspiciousLink `json:"suspiciousLinks"`
	OverallRiskScore int              `json:"overallRiskScore" jsonschema:"minimum=0,maximum=100"`
}

// DefaultSecurityReport is the all-clear report used whenever the audit fails.
func DefaultSecurityReport() SecurityReport {
	return SecurityReport{SuspiciousLinks: []SuspiciousLink{}}
}

// Flagged reports whether any category was raised.
func (r SecurityReport) Flagged() bool {
	return r.IsToxic || r.IsPhishing || r.IsFakeNews || len(r.SuspiciousLinks) > 0
}

// ClampScore bounds a provider score to 0..100.
func ClampScore(score float64) int {
	switch {
	case math.IsNaN(score):
		return 0
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return int(score + 0.5)
	}
}

// NormalizeLinkRisk maps unknown grades to low.
func NormalizeLinkRisk(raw string) LinkRisk {
	switch LinkRisk(strings.ToLower(strings.TrimSpace(raw))) {
	case LinkRiskMedium:
		return LinkRiskMedium
	case LinkRiskHigh:
		return LinkRiskHigh
	default:
		return LinkRiskLow
	}
}

// NormalizeEmotion reduces a free-form answer to one label. A single word is title-cased.
// A longer answer yields the first vocabulary word it contains, or EmotionUndefined.
func NormalizeEmotion(raw string) string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	switch len(fields) {
	case 0:
		return EmotionUndefined
	case 1:
		return titleCase(fields[0])
	}
	for _, field := range fields {
		for _, emotion := range Emotions {
			if strings.EqualFold(field, emotion) {
				return emotion
			}
		}
	}
	return EmotionUndefined
}

func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
