package model

import (
	"sync"
	"time"

	"github.com/jlord31/autonomous-agents/internal/clock"
)

// Session owns all conversation state for one session key: the main log, one
// log per specialist agent and the optional last-active agent pointer.
// Sessions are created lazily on first reference and never destroyed by the
// engine itself; eviction belongs to the embedding application.
type Session struct {
	ID string `json:"id" yaml:"id"`

	// Main holds the top-level user/assistant conversation.
	Main History `json:"main,omitempty" yaml:"main,omitempty"`

	// AgentLogs keeps an independent append-only log per agent name.
	AgentLogs map[string]History `json:"agentLogs,omitempty" yaml:"agentLogs,omitempty"`

	// LastActiveAgent points at the agent that produced the most recent
	// single-agent answer; empty when no such answer exists yet.
	LastActiveAgent string `json:"lastActiveAgent,omitempty" yaml:"lastActiveAgent,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`

	// logMux guards log mutation; parallel group members append to distinct
	// agent logs but share the AgentLogs map.
	logMux sync.Mutex
}

// NewSession creates an empty session for the given key.
func NewSession(id string) *Session {
	now := clock.Now()
	return &Session{
		ID:        id,
		AgentLogs: map[string]History{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a turn to the main conversation log.
func (s *Session) Append(turn *Turn) {
	s.logMux.Lock()
	defer s.logMux.Unlock()
	s.Main = append(s.Main, turn)
	s.UpdatedAt = clock.Now()
}

// AppendAgent adds a turn to the named agent's log, creating the log on first
// use.
func (s *Session) AppendAgent(agent string, turn *Turn) {
	s.logMux.Lock()
	defer s.logMux.Unlock()
	if s.AgentLogs == nil {
		s.AgentLogs = map[string]History{}
	}
	s.AgentLogs[agent] = append(s.AgentLogs[agent], turn)
	s.UpdatedAt = clock.Now()
}

// AgentHistory returns a stable snapshot of the named agent's log.
func (s *Session) AgentHistory(agent string) History {
	s.logMux.Lock()
	defer s.logMux.Unlock()
	return s.AgentLogs[agent].Clone()
}

// MainHistory returns a stable snapshot of the main log.
func (s *Session) MainHistory() History {
	s.logMux.Lock()
	defer s.logMux.Unlock()
	return s.Main.Clone()
}

// SetLastActiveAgent records the agent that answered the latest turn alone.
func (s *Session) SetLastActiveAgent(agent string) {
	s.logMux.Lock()
	defer s.logMux.Unlock()
	s.LastActiveAgent = agent
}

// LastAgent returns the last-active agent pointer.
func (s *Session) LastAgent() string {
	s.logMux.Lock()
	defer s.logMux.Unlock()
	return s.LastActiveAgent
}
