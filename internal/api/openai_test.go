package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "github.com/mhdinshadk/Chat-Bot/internal/errors"
)

func newOpenAIStub(t *testing.T, status int, body string, seen *map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if seen != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Complete(t *testing.T) {
	var seen map[string]interface{}
	srv := newOpenAIStub(t, 200, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-mini-2024",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hi there"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5}
	}`, &seen)

	client, err := NewOpenAIClient("sk-test", srv.URL, "", time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIClient() error: %v", err)
	}
	if client.Model() != DefaultOpenAIModel {
		t.Errorf("Model() = %s", client.Model())
	}

	out, err := client.Complete(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if out.Text() != "Hi there" {
		t.Errorf("Text() = %q", out.Text())
	}
	if out.Usage.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d", out.Usage.TotalTokens)
	}

	messages, ok := seen["messages"].([]interface{})
	if !ok || len(messages) != 1 {
		t.Fatalf("expected a single message, got %v", seen["messages"])
	}
	msg := messages[0].(map[string]interface{})
	if msg["role"] != "user" || msg["content"] != "Hello" {
		t.Errorf("message = %v", msg)
	}
}

func TestOpenAIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr func(error) bool
	}{
		{
			name:    "unauthorized",
			status:  401,
			body:    `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			wantErr: apierrors.IsAuthError,
		},
		{
			name:    "rate limited",
			status:  429,
			body:    `{"error":{"message":"Rate limit reached","type":"requests"}}`,
			wantErr: apierrors.IsRateLimitError,
		},
		{
			name:    "no choices",
			status:  200,
			body:    `{"id":"x","choices":[]}`,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "empty content",
			status:  200,
			body:    `{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"stop"}]}`,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "content filter",
			status:  200,
			body:    `{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"content_filter"}]}`,
			wantErr: apierrors.IsBlockedError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenAIStub(t, tt.status, tt.body, nil)
			client, err := NewOpenAIClient("sk-test", srv.URL, "gpt-test", time.Second)
			if err != nil {
				t.Fatal(err)
			}
			_, err = client.Complete(context.Background(), "Hello")
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr(err) {
				t.Errorf("unexpected error: %v (kind %s)", err, apierrors.Kind(err))
			}
		})
	}
}

func TestOpenAIClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, _ := NewOpenAIClient("sk-test", url, "gpt-test", time.Second)
	_, err := client.Complete(context.Background(), "Hello")
	if !apierrors.IsNetworkError(err) && !apierrors.IsTimeoutError(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", "", "", 0)
	if !errors.Is(err, apierrors.ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}
