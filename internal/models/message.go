package models

import "time"

// Sender identifies who authored a message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Label returns the short display label for the sender
func (s Sender) Label() string {
	if s == SenderUser {
		return "You"
	}
	return "AI"
}

// Message is one immutable entry of a transcript
type Message struct {
	ID        int64
	Text      string
	Sender    Sender
	CreatedAt time.Time
}

// IsUser reports whether the message was authored by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsFallback reports whether the message is the failure placeholder
func (m Message) IsFallback() bool {
	return m.Sender == SenderAssistant && m.Text == FallbackText
}

// State is a read-only snapshot of a chat session
type State struct {
	Transcript []Message
	Pending    bool
	Draft      string
}

// LastAssistant returns the most recent assistant message, if any
func (s State) LastAssistant() (Message, bool) {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Sender == SenderAssistant {
			return s.Transcript[i], true
		}
	}
	return Message{}, false
}
