package llmprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/aura-server/internal/domain/advisory"
)

func completionServer(t *testing.T, content string, inspect func(openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if inspect != nil {
			inspect(req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScoreUsernameRisk(t *testing.T) {
	srv := completionServer(t, `{"riskScore": 80.4, "warning": "Looks like trushar.dev", "similarTo": "trushar.dev"}`,
		func(req openai.ChatCompletionRequest) {
			assert.Equal(t, "test-model", req.Model)
			require.Len(t, req.Messages, 1)
			assert.Contains(t, req.Messages[0].Content, `"trushar_dev"`)
			assert.Contains(t, req.Messages[0].Content, "[trushar.dev, alice]")
			require.NotNil(t, req.ResponseFormat)
			assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONSchema, req.ResponseFormat.Type)
			assert.Equal(t, "username_risk", req.ResponseFormat.JSONSchema.Name)
		})

	risk, err := NewClient(srv.URL, "test-key", "test-model").
		ScoreUsernameRisk(context.Background(), "trushar_dev", []string{"trushar.dev", "alice"})
	require.NoError(t, err)
	assert.Equal(t, 80, risk.RiskScore)
	assert.Equal(t, "trushar.dev", risk.SimilarTo)
	assert.True(t, risk.Blocks())
}

func TestClassifyEmotionSendsImage(t *testing.T) {
	srv := completionServer(t, " Joyful \n", func(req openai.ChatCompletionRequest) {
		assert.Equal(t, emotionMaxTokens, req.MaxTokens)
		assert.InDelta(t, emotionTemperature, req.Temperature, 0.0001)
		require.Len(t, req.Messages, 1)
		parts := req.Messages[0].MultiContent
		require.Len(t, parts, 2)
		require.NotNil(t, parts[0].ImageURL)
		assert.True(t, strings.HasPrefix(parts[0].ImageURL.URL, "data:image/jpeg;base64,"))
		assert.Contains(t, parts[1].Text, "Undefined")
	})

	label, err := NewClient(srv.URL, "test-key", "test-model").ClassifyEmotion(context.Background(), []byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "Joyful", label)
}

func TestAuditMessage(t *testing.T) {
	content := "```json\n" + `{"isToxic":false,"isPhishing":true,"phishingReason":"credential lure","isFakeNews":false,` +
		`"suspiciousLinks":[{"url":"http://aura.test","risk":"high","reason":"lookalike"}],"overallRiskScore":140}` + "\n```"
	srv := completionServer(t, content, nil)

	report, err := NewClient(srv.URL, "test-key", "test-model").AuditMessage(context.Background(), "check http://aura.test")
	require.NoError(t, err)
	assert.True(t, report.IsPhishing)
	assert.Equal(t, 100, report.OverallRiskScore)
	require.Len(t, report.SuspiciousLinks, 1)
	assert.Equal(t, advisory.LinkRiskHigh, report.SuspiciousLinks[0].Risk)
}

func TestMalformedResultIsAnError(t *testing.T) {
	srv := completionServer(t, "not json", nil)

	_, err := NewClient(srv.URL, "test-key", "test-model").ScoreUsernameRisk(context.Background(), "x", nil)
	assert.Error(t, err)
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "test-key", "test-model").AuditMessage(context.Background(), "hi")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestSchemasAreInline(t *testing.T) {
	raw, err := json.Marshal(securityReportSchema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.NotContains(t, doc, "$defs")
	assert.NotContains(t, doc, "$schema")

	required, ok := doc["required"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"isToxic", "isPhishing", "isFakeNews", "suspiciousLinks", "overallRiskScore"}, required)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
}
