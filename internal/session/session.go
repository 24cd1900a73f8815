// Package session holds the chat session state machine: an append-only
// transcript, the pending flag and the draft, and the single request cycle
// that turns a submitted prompt into an assistant reply.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/mhdinshadk/Chat-Bot/internal/api"
	apierrors "github.com/mhdinshadk/Chat-Bot/internal/errors"
	"github.com/mhdinshadk/Chat-Bot/internal/models"
)

// ErrPending is returned by Submit while a reply is still being generated
var ErrPending = errors.New("a reply is still being generated")

// Controller owns one conversation. All methods are safe for concurrent use.
type Controller struct {
	id        string
	completer api.Completer
	ids       *IDGenerator
	now       func() time.Time
	log       zerolog.Logger

	mu          sync.RWMutex
	transcript  []models.Message
	pending     bool
	draft       string
	subscribers []func(models.State)
	// inflight tracks the current request cycle; one WaitGroup per cycle
	inflight *conc.WaitGroup

	// notifyMu orders snapshot delivery. It is taken before mu is released,
	// so subscribers see snapshots in mutation order.
	notifyMu sync.Mutex
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used for session events
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithClock overrides the clock used for timestamps and message IDs
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Controller that sends prompts to completer
func New(completer api.Completer, opts ...Option) *Controller {
	c := &Controller{
		id:        uuid.NewString(),
		completer: completer,
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ids = NewIDGenerator(c.now)
	c.log = c.log.With().Str("session", c.id).Logger()
	return c
}

// ID returns the session identifier used to correlate log lines
func (c *Controller) ID() string {
	return c.id
}

// Submit appends text as a user message and starts one completion request.
// Whitespace-only text is ignored and returns a nil channel. While a request
// is in flight Submit returns ErrPending and changes nothing.
//
// The returned channel receives the assistant message (the reply or the
// fallback text) once pending has been cleared, then is closed. The request
// is not cancelled when ctx is; it runs until the transport gives up.
func (c *Controller) Submit(ctx context.Context, text string) (<-chan models.Message, error) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		c.log.Debug().Msg("empty submit ignored")
		return nil, nil
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		c.log.Debug().Msg("submit rejected: request in flight")
		return nil, ErrPending
	}
	question := c.appendLocked(models.SenderUser, prompt)
	c.draft = ""
	c.pending = true

	out := make(chan models.Message, 1)
	reqCtx := context.WithoutCancel(ctx)
	c.inflight = conc.NewWaitGroup()
	c.inflight.Go(func() {
		c.resolve(reqCtx, question, out)
	})

	c.log.Info().
		Int64("message_id", question.ID).
		Int("prompt_chars", len(prompt)).
		Msg("submit accepted")
	c.publishLocked()
	return out, nil
}

// Send submits text and waits for the assistant message. Unlike Submit,
// empty input is reported as ErrEmptyPrompt. If ctx ends first the request
// keeps running and its reply still lands in the transcript.
func (c *Controller) Send(ctx context.Context, text string) (models.Message, error) {
	replies, err := c.Submit(ctx, text)
	if err != nil {
		return models.Message{}, err
	}
	if replies == nil {
		return models.Message{}, apierrors.ErrEmptyPrompt
	}

	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return models.Message{}, ctx.Err()
	}
}

// resolve is the single join point of a request cycle: whatever happens,
// exactly one assistant message is appended and pending is cleared.
func (c *Controller) resolve(ctx context.Context, question models.Message, out chan<- models.Message) {
	start := c.now()

	var (
		output *models.ModelOutput
		err    error
	)
	var pc panics.Catcher
	pc.Try(func() {
		output, err = c.completer.Complete(ctx, question.Text)
	})
	if r := pc.Recovered(); r != nil {
		err = r.AsError()
	}

	text := models.FallbackText
	switch {
	case err != nil:
		c.logFailure(question, err, start)
	case output == nil || output.Text() == "":
		c.logFailure(question, apierrors.NewParseError("reply text missing", api.PathReplyText), start)
	default:
		text = output.Text()
		c.log.Info().
			Int64("message_id", question.ID).
			Dur("duration", c.now().Sub(start)).
			Str("model_version", output.ModelVersion).
			Str("finish_reason", output.FinishReason()).
			Int64("prompt_tokens", output.Usage.PromptTokens).
			Int64("reply_tokens", output.Usage.CandidateTokens).
			Msg("completion ok")
	}

	c.mu.Lock()
	reply := c.appendLocked(models.SenderAssistant, text)
	c.pending = false
	c.publishLocked()

	out <- reply
	close(out)
}

func (c *Controller) logFailure(question models.Message, err error, start time.Time) {
	event := c.log.Warn().
		Err(err).
		Int64("message_id", question.ID).
		Dur("duration", c.now().Sub(start)).
		Str("error_kind", apierrors.Kind(err))
	if status := apierrors.GetHTTPStatus(err); status != 0 {
		event = event.Int("http_status", status)
	}
	event.Msg("completion failed")
}

// appendLocked must be called with mu held
func (c *Controller) appendLocked(sender models.Sender, text string) models.Message {
	msg := models.Message{
		ID:        c.ids.Next(),
		Text:      text,
		Sender:    sender,
		CreatedAt: c.now(),
	}
	c.transcript = append(c.transcript, msg)
	return msg
}

func (c *Controller) stateLocked() models.State {
	transcript := make([]models.Message, len(c.transcript))
	copy(transcript, c.transcript)
	return models.State{
		Transcript: transcript,
		Pending:    c.pending,
		Draft:      c.draft,
	}
}

// Transcript returns a copy of the messages in display order
func (c *Controller) Transcript() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked().Transcript
}

// Pending reports whether a request is in flight
func (c *Controller) Pending() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending
}

// Draft returns the unsubmitted input text
func (c *Controller) Draft() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.draft
}

// SetDraft replaces the unsubmitted input text
func (c *Controller) SetDraft(s string) {
	c.mu.Lock()
	if c.draft == s {
		c.mu.Unlock()
		return
	}
	c.draft = s
	c.publishLocked()
}

// State returns a consistent snapshot of the session
func (c *Controller) State() models.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked()
}

// Subscribe registers fn to be called with a snapshot after every state
// change. Snapshots arrive in mutation order. fn runs on the goroutine that
// made the change and must not call back into the Controller or block.
func (c *Controller) Subscribe(fn func(models.State)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.subscribers = append(c.subscribers, fn)
	c.mu.Unlock()
}

// publishLocked must be called with mu held; it releases mu and delivers
// the current snapshot to subscribers.
func (c *Controller) publishLocked() {
	state := c.stateLocked()
	subscribers := make([]func(models.State), len(c.subscribers))
	copy(subscribers, c.subscribers)

	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

// Wait blocks until the request in flight when Wait is called, if any,
// has resolved. It is safe to call while other goroutines Submit.
func (c *Controller) Wait() {
	c.mu.RLock()
	inflight := c.inflight
	c.mu.RUnlock()

	if inflight != nil {
		inflight.Wait()
	}
}
