package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

// MockCompleter is a scripted Completer for tests and offline runs
type MockCompleter struct {
	// Reply produces the result for a prompt. Nil echoes the prompt back.
	Reply func(prompt string) (*models.ModelOutput, error)
	// Delay is applied before replying, honoring ctx cancellation
	Delay time.Duration
	// Gate, when non-nil, blocks every call until it receives or is closed
	Gate chan struct{}

	mu    sync.Mutex
	calls []string
}

var _ Completer = (*MockCompleter)(nil)

// NewEchoCompleter returns a MockCompleter that answers with the prompt quoted back
func NewEchoCompleter(delay time.Duration) *MockCompleter {
	return &MockCompleter{
		Delay: delay,
		Reply: func(prompt string) (*models.ModelOutput, error) {
			return TextOutput(fmt.Sprintf("You said:\n\n> %s", prompt)), nil
		},
	}
}

// TextOutput wraps text in a single-candidate ModelOutput
func TextOutput(text string) *models.ModelOutput {
	return &models.ModelOutput{
		Candidates: []models.Candidate{{Text: text, FinishReason: "STOP"}},
	}
}

// Complete implements Completer
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Reply == nil {
		return TextOutput(prompt), nil
	}
	return m.Reply(prompt)
}

// Calls returns the prompts received so far
func (m *MockCompleter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
