// Package llmprovider talks to the hosted model behind the advisory operations.
package llmprovider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/janhq/aura-server/internal/domain/advisory"
)

const (
	emotionMaxTokens   = 10
	emotionTemperature = 0.1
)

// Client implements advisory.Provider against an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient *resty.Client
	model      string
}

// NewClient creates a Resty-backed client. Per-call deadlines come from the context.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(apiKey).
			SetTimeout(60 * time.Second),
		model: model,
	}
}

// ScoreUsernameRisk asks whether candidate looks like an impersonation of a known handle.
func (c *Client) ScoreUsernameRisk(ctx context.Context, candidate string, knownHandles []string) (advisory.UsernameRisk, error) {
	prompt := fmt.Sprintf(
		"Compare the target username %q against this list of verified users: [%s].\n"+
			"Assess if this username looks like an attempt to impersonate someone.\n"+
			"Provide a risk score from 0 to 100 and a brief warning if risk > 30.",
		candidate, strings.Join(knownHandles, ", "),
	)

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: jsonSchemaFormat("username_risk", usernameRiskSchema),
	}

	var out usernameRiskResult
	if err := c.completeJSON(ctx, req, &out); err != nil {
		return advisory.UsernameRisk{}, err
	}
	return advisory.UsernameRisk{
		RiskScore: advisory.ClampScore(out.RiskScore),
		Warning:   out.Warning,
		SimilarTo: out.SimilarTo,
	}, nil
}

// ClassifyEmotion sends a captured frame and returns the single-word label the model answers with.
func (c *Client) ClassifyEmotion(ctx context.Context, image []byte) (string, error) {
	prompt := fmt.Sprintf(
		"Analyze the facial expression of the person in this image. Return exactly one word describing "+
			"their current emotion (e.g., %s). If you can't see a face clearly, return '%s'.",
		strings.Join(advisory.Emotions, ", "), advisory.EmotionUndefined,
	)

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   emotionMaxTokens,
		Temperature: emotionTemperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    "data:" + imageMimeType(image) + ";base64," + base64.StdEncoding.EncodeToString(image),
							Detail: openai.ImageURLDetailLow,
						},
					},
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
				},
			},
		},
	}

	return c.complete(ctx, req)
}

// AuditMessage requests a structured security report for a sent message.
func (c *Client) AuditMessage(ctx context.Context, text string) (advisory.SecurityReport, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Audit message security: %q. Structured JSON output required.", text)},
		},
		ResponseFormat: jsonSchemaFormat("security_report", securityReportSchema),
	}

	var out securityReportResult
	if err := c.completeJSON(ctx, req, &out); err != nil {
		return advisory.SecurityReport{}, err
	}
	return out.toReport(), nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	var completion openai.ChatCompletionResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("advisory request: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("advisory response has no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (c *Client) completeJSON(ctx context.Context, req openai.ChatCompletionRequest, out any) error {
	content, err := c.complete(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), out); err != nil {
		return fmt.Errorf("decode advisory result: %w", err)
	}
	return nil
}

// imageMimeType labels the data URL with the detected type, defaulting to JPEG.
func imageMimeType(image []byte) string {
	mtype := mimetype.Detect(image)
	if mtype.Is("image/png") {
		return "image/png"
	}
	return "image/jpeg"
}

// stripCodeFence removes a markdown fence some models wrap JSON answers in.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// APIError is a non-2xx answer from the completions endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("advisory api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

var _ advisory.Provider = (*Client)(nil)
