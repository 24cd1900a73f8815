package commands

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer written by the spinner goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	out := &syncBuffer{}
	s := newSpinner(out, "Generating")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.stopWithSuccess("done")

	got := out.String()
	if !strings.Contains(got, "Generating") {
		t.Errorf("spinner never rendered its message: %q", got)
	}
	if !strings.Contains(got, "done") {
		t.Errorf("missing success message: %q", got)
	}
	if !strings.Contains(got, "\033[?25h") {
		t.Error("cursor was not restored")
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	out := &syncBuffer{}
	s := newSpinner(out, "Generating")
	s.start()
	time.Sleep(30 * time.Millisecond)
	s.stopWithError()

	if strings.Contains(out.String(), "✓") {
		t.Error("error stop should not print a checkmark")
	}
}

func TestSpinner_StopTwice(t *testing.T) {
	s := newSpinner(&syncBuffer{}, "x")
	s.start()
	s.stopWithError()
	// a second stop must not panic on the closed channel
	s.stopOnce()
}
