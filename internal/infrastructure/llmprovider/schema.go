package llmprovider

import (
	"github.com/invopop/jsonschema"
	"github.com/sashabaranov/go-openai"

	"github.com/janhq/aura-server/internal/domain/advisory"
)

// usernameRiskResult is the wire shape of the username check. Scores arrive as JSON numbers
// that may carry a fraction.
type usernameRiskResult struct {
	RiskScore float64 `json:"riskScore" jsonschema:"description=Impersonation risk from 0 to 100"`
	Warning   string  `json:"warning,omitempty" jsonschema:"description=Brief warning when the risk is above 30"`
	SimilarTo string  `json:"similarTo,omitempty" jsonschema:"description=Verified handle the target resembles"`
}

type suspiciousLinkResult struct {
	URL    string `json:"url"`
	Risk   string `json:"risk" jsonschema:"enum=low,enum=medium,enum=high"`
	Reason string `json:"reason"`
}

type securityReportResult struct {
	IsToxic          bool                   `json:"isToxic"`
	ToxicityReason   string                 `json:"toxicityReason,omitempty"`
	IsPhishing       bool                   `json:"isPhishing"`
	PhishingReason   string                 `json:"phishingReason,omitempty"`
	IsFakeNews       bool                   `json:"isFakeNews"`
	FakeNewsReason   string                 `json:"fakeNewsReason,omitempty"`
	SuspiciousLinks  []suspiciousLinkResult `json:"suspiciousLinks"`
	OverallRiskScore float64                `json:"overallRiskScore"`
}

func (r securityReportResult) toReport() advisory.SecurityReport {
	report := advisory.SecurityReport{
		IsToxic:          r.IsToxic,
		ToxicityReason:   r.ToxicityReason,
		IsPhishing:       r.IsPhishing,
		PhishingReason:   r.PhishingReason,
		IsFakeNews:       r.IsFakeNews,
		FakeNewsReason:   r.FakeNewsReason,
		SuspiciousLinks:  make([]advisory.SuspiciousLink, 0, len(r.SuspiciousLinks)),
		OverallRiskScore: advisory.ClampScore(r.OverallRiskScore),
	}
	for _, link := range r.SuspiciousLinks {
		report.SuspiciousLinks = append(report.SuspiciousLinks, advisory.SuspiciousLink{
			URL:    link.URL,
			Risk:   advisory.LinkRisk(link.Risk),
			Reason: link.Reason,
		})
	}
	return report
}

var (
	usernameRiskSchema   = reflectSchema(&usernameRiskResult{})
	securityReportSchema = reflectSchema(&securityReportResult{})
)

func reflectSchema(v any) *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	schema := reflector.Reflect(v)
	// Completion endpoints reject the meta-schema keywords.
	schema.Version = ""
	schema.ID = ""
	return schema
}

func jsonSchemaFormat(name string, schema *jsonschema.Schema) *openai.ChatCompletionResponseFormat {
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   name,
			Schema: schema,
		},
	}
}
