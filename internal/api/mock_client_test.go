package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

func TestMockCompleter(t *testing.T) {
	t.Run("echo by default", func(t *testing.T) {
		m := &MockCompleter{}
		out, err := m.Complete(context.Background(), "ping")
		if err != nil || out.Text() != "ping" {
			t.Errorf("Complete() = %v, %v", out, err)
		}
		if calls := m.Calls(); len(calls) != 1 || calls[0] != "ping" {
			t.Errorf("Calls() = %v", calls)
		}
	})

	t.Run("scripted error", func(t *testing.T) {
		boom := errors.New("boom")
		m := &MockCompleter{Reply: func(string) (*models.ModelOutput, error) { return nil, boom }}
		if _, err := m.Complete(context.Background(), "x"); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("gate blocks until released", func(t *testing.T) {
		gate := make(chan struct{})
		m := &MockCompleter{Gate: gate}
		done := make(chan struct{})
		go func() {
			_, _ = m.Complete(context.Background(), "x")
			close(done)
		}()

		select {
		case <-done:
			t.Fatal("Complete returned before gate opened")
		case <-time.After(20 * time.Millisecond):
		}

		close(gate)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Complete did not return after gate opened")
		}
	})

	t.Run("delay honors cancellation", func(t *testing.T) {
		m := NewEchoCompleter(time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := m.Complete(ctx, "x"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
