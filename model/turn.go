package model

import (
	"time"

	"github.com/jlord31/autonomous-agents/internal/clock"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single, immutable conversation entry. Turns are appended to
// session logs and never mutated in place.
type Turn struct {
	Role    Role      `json:"role" yaml:"role"`
	Text    string    `json:"text" yaml:"text"`
	Created time.Time `json:"created,omitempty" yaml:"created,omitempty"`
}

// NewTurn creates a turn stamped with the current clock time.
func NewTurn(role Role, text string) *Turn {
	return &Turn{Role: role, Text: text, Created: clock.Now()}
}

// History is an append-only ordered sequence of turns.
type History []*Turn

// LastExchange returns the most recent user/assistant pair, or empty strings
// when the history holds fewer than two turns.
func (h History) LastExchange() (userText, assistantText string) {
	if len(h) < 2 {
		return "", ""
	}
	return h[len(h)-2].Text, h[len(h)-1].Text
}

// Clone returns a shallow copy of the sequence; turns themselves are immutable
// so sharing them is safe.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}
