// Package azure implements the ai.Provider interface against the Azure
// OpenAI chat completions API.
package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stonefield-io/brickscan/internal/ai"
	"github.com/stonefield-io/brickscan/internal/ai/prompt"
	"github.com/stonefield-io/brickscan/internal/domain"
	"github.com/stonefield-io/brickscan/internal/metrics"
)

const (
	// APIVersion is the Azure OpenAI API version.
	APIVersion = "2024-04-01-preview"

	// Token budgets: multi-image analysis has a larger expected output
	// surface than a single image.
	maxTokensSingleImage = 2000
	maxTokensMultiImage  = 3000

	// analysisTemperature biases toward deterministic, conservative output.
	analysisTemperature = 0.3

	healthCheckMaxTokens = 10
)

// Config contains configuration for the Azure OpenAI provider.
type Config struct {
	Endpoint       string // Resource endpoint, e.g. https://myresource.openai.azure.com
	APIKey         string
	Deployment     string // Deployment name selecting the underlying model
	RequestTimeout time.Duration
}

// Provider implements ai.Provider using Azure OpenAI chat completions.
type Provider struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a new Azure OpenAI provider. A missing endpoint, API key, or
// deployment is a configuration error reported here, at construction, never
// at call time.
func New(config Config, logger *slog.Logger) (*Provider, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("azure openai endpoint is required")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("azure openai API key is required")
	}
	if config.Deployment == "" {
		return nil, fmt.Errorf("azure openai deployment name is required")
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 120 * time.Second
	}
	config.Endpoint = strings.TrimSuffix(config.Endpoint, "/")

	return &Provider{
		config: config,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		logger: logger,
	}, nil
}

// AnalyzeBuilding sends the building images to the deployed model and decodes
// the risk assessment from its reply. Unparseable replies degrade to the
// fallback assessment; only transport and provider failures return an error,
// always wrapped with the analysis operation and carrying the cause.
func (p *Provider) AnalyzeBuilding(ctx context.Context, params ai.AnalyzeParams) (*domain.RiskAssessment, error) {
	imageCount := len(params.Images)

	body := chatRequest{
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: prompt.SystemPrompt(imageCount),
			},
			{
				Role:    "user",
				Content: buildUserContent(params.Images),
			},
		},
		MaxTokens:   maxTokensForCount(imageCount),
		Temperature: analysisTemperature,
	}

	resp, err := p.send(ctx, body)
	if err != nil {
		metrics.AIAPICalls.WithLabelValues("error").Inc()
		return nil, ai.WrapError("analyze building", err)
	}

	content, err := p.responseText(resp)
	if err != nil {
		metrics.AIAPICalls.WithLabelValues("error").Inc()
		return nil, ai.WrapError("analyze building", err)
	}

	metrics.AIAPICalls.WithLabelValues("success").Inc()
	metrics.AITokensTotal.WithLabelValues("input").Add(float64(resp.Usage.PromptTokens))
	metrics.AITokensTotal.WithLabelValues("output").Add(float64(resp.Usage.CompletionTokens))

	result := ai.DecodeAssessment(content, imageCount)
	if result.IsFallback() {
		metrics.FallbackResponses.Inc()
		p.logger.Warn("model reply was not parseable JSON, returning fallback assessment",
			"assessment_id", params.AssessmentID,
			"reply_length", len(content),
		)
	}

	return result, nil
}

// HealthCheck sends a minimal fixed conversation and reports whether the
// model echoed OK. It never returns an error: any failure degrades to false.
func (p *Provider) HealthCheck(ctx context.Context) bool {
	body := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: "Hello, please respond with 'OK' to confirm connectivity."},
		},
		MaxTokens:   healthCheckMaxTokens,
		Temperature: 0,
	}

	resp, err := p.send(ctx, body)
	if err != nil {
		p.logger.Warn("azure openai health check failed", "error", err)
		return false
	}

	content, err := p.responseText(resp)
	if err != nil {
		p.logger.Warn("azure openai health check returned no content", "error", err)
		return false
	}

	return strings.Contains(content, "OK")
}

// =============================================================================
// Request Execution
// =============================================================================

// completionsURL builds the deployment-scoped chat completions URL.
func (p *Provider) completionsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.config.Endpoint, url.PathEscape(p.config.Deployment), APIVersion)
}

// send executes a single chat completions call. No retries are performed:
// transport and provider errors surface immediately.
func (p *Provider) send(ctx context.Context, body chatRequest) (*chatResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.completionsURL(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ai.EAIUnavailable, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, p.mapHTTPError(resp.StatusCode, respBytes)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &chatResp, nil
}

// responseText extracts the text content from a successful API response,
// mapping an explicit error field or empty content to the provider errors.
func (p *Provider) responseText(resp *chatResponse) (string, error) {
	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s", ai.EAIProvider, resp.Error.Message)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ai.EAIEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// mapHTTPError maps HTTP status codes to provider errors.
func (p *Provider) mapHTTPError(statusCode int, body []byte) error {
	var errResp chatResponse
	_ = json.Unmarshal(body, &errResp)

	message := ""
	if errResp.Error != nil {
		message = errResp.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ai.EAIUnauthorized
	case http.StatusTooManyRequests:
		return ai.EAIRateLimit
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return ai.EAIUnavailable
	default:
		return fmt.Errorf("%w: status %d: %s", ai.EAIProvider, statusCode, message)
	}
}

// =============================================================================
// Payload Construction
// =============================================================================

func maxTokensForCount(imageCount int) int {
	if imageCount > 1 {
		return maxTokensMultiImage
	}
	return maxTokensSingleImage
}

// buildUserContent assembles the user turn: the prompt text followed by one
// image block per input, in upload order, each tagged for high-detail
// analysis.
func buildUserContent(images []domain.ImageInput) []contentPart {
	parts := make([]contentPart, 0, len(images)+1)
	parts = append(parts, contentPart{
		Type: "text",
		Text: prompt.UserPrompt(len(images)),
	})

	for _, img := range images {
		parts = append(parts, contentPart{
			Type: "image_url",
			ImageURL: &imageURL{
				URL:    fmt.Sprintf("data:%s;base64,%s", img.ContentType, base64.StdEncoding.EncodeToString(img.Data)),
				Detail: "high",
			},
		})
	}

	return parts
}

// =============================================================================
// API request/response types
// =============================================================================

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatMessage carries either plain text (system turn) or a list of
// contentPart blocks (multimodal user turn) as its content.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Index        int             `json:"index"`
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type responseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
