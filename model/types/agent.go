package types

import (
	"context"

	"github.com/jlord31/autonomous-agents/model"
)

// Agent is an external specialist capability: it accepts a query plus its own
// conversation history and returns a response or fails. The return value is
// deliberately untyped; Text coerces whatever shape an implementation hands
// back into plain text.
type Agent interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, query, sessionID string, history model.History) (interface{}, error)
}

// ToolLister is optionally implemented by agents that expose named tools;
// tool names are folded into the agent description shown to the supervisor.
type ToolLister interface {
	Tools() []Tool
}

// Tool describes one capability an agent can use internally.
type Tool struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Supervisor is the planning oracle: a single opaque call used with three
// different prompts (planning, continuity check, synthesis).
type Supervisor interface {
	Propose(ctx context.Context, prompt string, history model.History) (interface{}, error)
}
