package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	apierrors "github.com/mhdinshadk/Chat-Bot/internal/errors"
	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

const okResponse = `{
  "candidates": [
    {
      "content": {"parts": [{"text": "Hi there"}], "role": "model"},
      "finishReason": "STOP"
    }
  ],
  "usageMetadata": {"promptTokenCount": 2, "candidatesTokenCount": 3, "totalTokenCount": 5},
  "modelVersion": "gemini-1.5-flash-002"
}`

// TestBuildPayload tests the buildPayload function
func TestBuildPayload(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
	}{
		{"simple prompt", "Hello, Gemini!"},
		{"quotes and newlines", "line one\n\"quoted\""},
		{"unicode", "olá 👋"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildPayload(tt.prompt)
			if err != nil {
				t.Fatalf("buildPayload() unexpected error: %v", err)
			}
			if !gjson.Valid(got) {
				t.Fatalf("buildPayload() returned invalid JSON: %s", got)
			}
			if text := gjson.Get(got, "contents.0.parts.0.text").String(); text != tt.prompt {
				t.Errorf("prompt text = %q, want %q", text, tt.prompt)
			}
			if n := len(gjson.Get(got, "contents").Array()); n != 1 {
				t.Errorf("expected exactly one content, got %d", n)
			}
		})
	}
}

// TestParseResponse tests the parseResponse function with various scenarios
func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr func(error) bool
		check   func(*testing.T, *models.ModelOutput)
	}{
		{
			name: "valid response",
			body: okResponse,
			check: func(t *testing.T, out *models.ModelOutput) {
				if out.Text() != "Hi there" {
					t.Errorf("Text() = %q", out.Text())
				}
				if out.Usage.TotalTokens != 5 || out.Usage.PromptTokens != 2 {
					t.Errorf("Usage = %+v", out.Usage)
				}
				if out.ModelVersion != "gemini-1.5-flash-002" {
					t.Errorf("ModelVersion = %q", out.ModelVersion)
				}
			},
		},
		{
			name:    "garbage body",
			body:    "<html>oops</html>",
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "no candidates",
			body:    `{"usageMetadata":{}}`,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "empty candidates",
			body:    `{"candidates":[]}`,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "missing content",
			body:    `{"candidates":[{"finishReason":"STOP"}]}`,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "missing parts",
			body:    `{"candidates":[{"content":{"role":"model"}}]}`,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "empty text",
			body:    `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "prompt blocked",
			body:    `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantErr: apierrors.IsBlockedError,
		},
		{
			name:    "reply withheld by safety",
			body:    `{"candidates":[{"finishReason":"SAFETY"}]}`,
			wantErr: apierrors.IsBlockedError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := parseResponse([]byte(tt.body))
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error, got output %+v", out)
				}
				if !tt.wantErr(err) {
					t.Errorf("unexpected error type: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, out)
		})
	}
}

func TestGenerateContent_Success(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client, err := NewClient("secret-key", WithHTTPClient(mock), WithBaseURL("http://stub.local"))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	out, err := client.GenerateContent(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("GenerateContent() error: %v", err)
	}
	if out.Text() != "Hi there" {
		t.Errorf("Text() = %q", out.Text())
	}

	req := mock.LastRequest
	if req == nil {
		t.Fatal("no request recorded")
	}
	if req.Method != "POST" {
		t.Errorf("Method = %s, want POST", req.Method)
	}
	if req.URL.Path != "/v1beta/models/gemini-1.5-flash-latest:generateContent" {
		t.Errorf("Path = %s", req.URL.Path)
	}
	if req.URL.Query().Get("key") != "secret-key" {
		t.Errorf("key query param = %q", req.URL.Query().Get("key"))
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}

	var body map[string]interface{}
	if err := json.Unmarshal([]byte(mock.LastBody), &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if gjson.Get(mock.LastBody, "contents.0.parts.0.text").String() != "Hello" {
		t.Errorf("request body = %s", mock.LastBody)
	}
}

func TestGenerateContent_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mock    *MockHttpClient
		wantErr func(error) bool
		status  int
	}{
		{
			name:    "transport failure",
			mock:    NewMockHttpClientWithError(errors.New("dial tcp: connection refused")),
			wantErr: apierrors.IsNetworkError,
		},
		{
			name:    "deadline exceeded",
			mock:    NewMockHttpClientWithError(context.DeadlineExceeded),
			wantErr: apierrors.IsTimeoutError,
		},
		{
			name:    "server error",
			mock:    NewMockHttpClient([]byte(`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`), 500),
			wantErr: func(err error) bool { return apierrors.GetHTTPStatus(err) == 500 },
		},
		{
			name:    "invalid key",
			mock:    NewMockHttpClient([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`), 400),
			wantErr: apierrors.IsAuthError,
		},
		{
			name:    "forbidden",
			mock:    NewMockHttpClient([]byte(`{}`), 403),
			wantErr: apierrors.IsAuthError,
		},
		{
			name:    "rate limited",
			mock:    NewMockHttpClient([]byte(`{"error":{"message":"Resource has been exhausted"}}`), 429),
			wantErr: apierrors.IsRateLimitError,
		},
		{
			name:    "malformed success body",
			mock:    NewMockHttpClient([]byte(`not json`), 200),
			wantErr: apierrors.IsParseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient("k", WithHTTPClient(tt.mock))
			if err != nil {
				t.Fatal(err)
			}
			_, err = client.GenerateContent(context.Background(), "Hello")
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr(err) {
				t.Errorf("unexpected error: %v (kind %s)", err, apierrors.Kind(err))
			}
		})
	}
}

func TestGenerateContent_RedactsKey(t *testing.T) {
	mock := NewMockHttpClientWithError(errors.New(`Post "https://x/v1beta/models/m:generateContent?key=topsecret": EOF`))
	client, _ := NewClient("topsecret", WithHTTPClient(mock))

	_, err := client.GenerateContent(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "topsecret") {
		t.Errorf("error leaks API key: %v", err)
	}
}

func TestGenerateContent_EmptyPrompt(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client, _ := NewClient("k", WithHTTPClient(mock))

	_, err := client.GenerateContent(context.Background(), "   ")
	if !errors.Is(err, apierrors.ErrEmptyPrompt) {
		t.Errorf("expected ErrEmptyPrompt, got %v", err)
	}
	if mock.Calls != 0 {
		t.Errorf("empty prompt should not reach the network, got %d calls", mock.Calls)
	}
}
