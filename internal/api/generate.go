package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/mhdinshadk/Chat-Bot/internal/errors"
	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

type textPart struct {
	Text string `json:"text"`
}

type content struct {
	Parts []textPart `json:"parts"`
}

// generateRequest is the generateContent envelope: one content, one text part
type generateRequest struct {
	Contents []content `json:"contents"`
}

// Complete implements Completer
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	return c.GenerateContent(ctx, prompt)
}

// GenerateContent sends a prompt and returns the parsed response.
// No conversation history is sent.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apierrors.ErrEmptyPrompt
	}

	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	payload, err := buildPayload(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := c.Endpoint()
	query := url.Values{}
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+query.Encode(), strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, endpoint, redactKey(err, c.apiKey))
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, classifyStatus(resp.StatusCode, endpoint, errorBody)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read response", endpoint, err)
	}

	return parseResponse(body)
}

// buildPayload creates the JSON body for a generateContent request
func buildPayload(prompt string) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []textPart{{Text: prompt}}}},
	}
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseResponse extracts candidates from a generateContent response.
// A missing reply path is a ParseError, never a panic.
func parseResponse(body []byte) (*models.ModelOutput, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	if reason := parsed.Get(PathBlockReason); reason.Exists() {
		return nil, apierrors.NewBlockedError(reason.String())
	}

	candidateList := parsed.Get(PathCandidates)
	if !candidateList.IsArray() || len(candidateList.Array()) == 0 {
		return nil, apierrors.NewParseError("no candidates found", PathCandidates)
	}

	var candidates []models.Candidate
	candidateList.ForEach(func(_, cand gjson.Result) bool {
		candidates = append(candidates, models.Candidate{
			Text:         cand.Get(PathCandText).String(),
			FinishReason: cand.Get(PathCandFinishReason).String(),
		})
		return true
	})

	output := &models.ModelOutput{
		Candidates:   candidates,
		Chosen:       0,
		ModelVersion: parsed.Get(PathModelVersion).String(),
		Usage: models.Usage{
			PromptTokens:    parsed.Get(PathUsagePrompt).Int(),
			CandidateTokens: parsed.Get(PathUsageCandidates).Int(),
			TotalTokens:     parsed.Get(PathUsageTotal).Int(),
		},
	}

	if output.Text() == "" {
		if output.FinishReason() == "SAFETY" {
			return nil, apierrors.NewBlockedError("reply withheld: SAFETY")
		}
		return nil, apierrors.NewParseError("reply text missing", PathReplyText)
	}

	return output, nil
}

// classifyStatus converts a non-2xx response to a typed error
func classifyStatus(status int, endpoint string, body []byte) error {
	message := http.StatusText(status)
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, PathErrorMessage); m.Exists() {
			message = m.String()
		}
	}

	if status == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "api key") {
		return apierrors.NewAuthError(message)
	}

	err := classifyStatusMessage(status, endpoint, message)
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		apiErr.Body = string(body)
	}
	return err
}

// classifyTransportError distinguishes timeouts from other transport failures
func classifyTransportError(ctx context.Context, endpoint string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || apierrors.IsTimeoutError(err) {
		return apierrors.NewTimeoutError(err.Error())
	}
	return apierrors.NewNetworkErrorWithEndpoint("generate content", endpoint, err)
}

// redactedError hides the API key that transport errors echo back via the URL
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}
