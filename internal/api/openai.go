package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apierrors "github.com/mhdinshadk/Chat-Bot/internal/errors"
	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

// DefaultOpenAIModel is used when the configured model is a Gemini name
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient sends single prompts to an OpenAI-compatible chat completions endpoint
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ Completer = (*OpenAIClient)(nil)

// NewOpenAIClient creates a new OpenAIClient. An empty baseURL uses the public API.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, apierrors.ErrNoAPIKey
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	if model == "" || strings.HasPrefix(model, "gemini") {
		model = DefaultOpenAIModel
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Model returns the model name sent with each request
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete implements Completer. Only the prompt is sent, no history.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apierrors.ErrEmptyPrompt
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, classifyOpenAIError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return nil, apierrors.NewParseError("no choices found", "choices")
	}

	candidates := make([]models.Candidate, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		candidates = append(candidates, models.Candidate{
			Text:         choice.Message.Content,
			FinishReason: string(choice.FinishReason),
		})
	}

	output := &models.ModelOutput{
		Candidates:   candidates,
		ModelVersion: resp.Model,
		Usage: models.Usage{
			PromptTokens:    int64(resp.Usage.PromptTokens),
			CandidateTokens: int64(resp.Usage.CompletionTokens),
			TotalTokens:     int64(resp.Usage.TotalTokens),
		},
	}

	if output.Text() == "" {
		if output.FinishReason() == string(openai.FinishReasonContentFilter) {
			return nil, apierrors.NewBlockedError("reply withheld: content_filter")
		}
		return nil, apierrors.NewParseError("reply text missing", "choices.0.message.content")
	}

	return output, nil
}

func classifyOpenAIError(ctx context.Context, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatusMessage(apiErr.HTTPStatusCode, "chat/completions", apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatusMessage(reqErr.HTTPStatusCode, "chat/completions", reqErr.Error())
	}

	return classifyTransportError(ctx, "chat/completions", err)
}

// classifyStatusMessage maps a status and message to the same typed errors as the Gemini client
func classifyStatusMessage(status int, endpoint, message string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apierrors.NewAuthError(message)
	case status == http.StatusTooManyRequests:
		return apierrors.NewUsageLimitError(message)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return apierrors.NewTimeoutError(message)
	default:
		return apierrors.NewAPIError(status, endpoint, message)
	}
}
