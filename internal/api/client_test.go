package api

import (
	"context"
	"errors"
	"testing"
	"time"

	apierrors "github.com/mhdinshadk/Chat-Bot/internal/errors"
	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

func TestNewClient(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewClient("")
		if !errors.Is(err, apierrors.ErrNoAPIKey) {
			t.Errorf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient("k", WithHTTPClient(&MockHttpClient{}))
		if err != nil {
			t.Fatal(err)
		}
		if client.GetModel().Name != models.DefaultModel.Name {
			t.Errorf("model = %s", client.GetModel().Name)
		}
		if client.timeout != 300*time.Second {
			t.Errorf("timeout = %v", client.timeout)
		}
		if client.Endpoint() != "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent" {
			t.Errorf("Endpoint() = %s", client.Endpoint())
		}
	})

	t.Run("options", func(t *testing.T) {
		client, err := NewClient("k",
			WithHTTPClient(&MockHttpClient{}),
			WithModel(models.Model25Flash),
			WithBaseURL("http://localhost:9999"),
			WithTimeout(5*time.Second),
		)
		if err != nil {
			t.Fatal(err)
		}
		if client.Endpoint() != "http://localhost:9999/v1beta/models/gemini-2.5-flash:generateContent" {
			t.Errorf("Endpoint() = %s", client.Endpoint())
		}
		if client.timeout != 5*time.Second {
			t.Errorf("timeout = %v", client.timeout)
		}
	})

	t.Run("real transport", func(t *testing.T) {
		client, err := NewClient("k", WithTimeout(time.Second))
		if err != nil {
			t.Fatalf("NewClient() error: %v", err)
		}
		defer client.Close()
		if client.httpClient == nil {
			t.Error("expected tls client to be created")
		}
	})
}

func TestClientClose(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client, _ := NewClient("k", WithHTTPClient(mock))

	client.Close()
	client.Close() // idempotent

	if !client.IsClosed() {
		t.Error("expected client to be closed")
	}
	if mock.IdleClosed != 1 {
		t.Errorf("CloseIdleConnections called %d times, want 1", mock.IdleClosed)
	}
	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Error("expected error from closed client")
	}
}

func TestSetModel(t *testing.T) {
	client, _ := NewClient("k", WithHTTPClient(&MockHttpClient{}))
	client.SetModel(models.Model20Flash)
	if client.GetModel() != models.Model20Flash {
		t.Errorf("GetModel() = %+v", client.GetModel())
	}
}
