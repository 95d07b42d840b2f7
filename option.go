package agents

import (
	"github.com/jlord31/autonomous-agents/extension"
	"github.com/jlord31/autonomous-agents/model/types"
	"github.com/jlord31/autonomous-agents/policy"
	"github.com/jlord31/autonomous-agents/progress"
	"github.com/jlord31/autonomous-agents/service/dao/session"
	"github.com/jlord31/autonomous-agents/service/event"
	"github.com/viant/x"
)

// Option customizes service assembly.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithSupervisor sets the planning supervisor. Required.
func WithSupervisor(supervisor types.Supervisor) Option {
	return func(s *Service) {
		s.supervisor = supervisor
	}
}

// WithAgents registers specialists on the roster.
func WithAgents(agents ...types.Agent) Option {
	return func(s *Service) {
		s.rosterAgents = append(s.rosterAgents, agents...)
	}
}

// WithRoster replaces the roster registry entirely.
func WithRoster(roster *extension.Agents) Option {
	return func(s *Service) {
		s.agents = roster
	}
}

// WithSessionStore replaces the session store.
func WithSessionStore(store session.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithEventService attaches an event publisher.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithPolicy gates specialist dispatch.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithProgress registers a callback invoked after every execution counter
// update.
func WithProgress(onProgress func(progress.Progress)) Option {
	return func(s *Service) {
		s.onProgress = onProgress
	}
}

// WithExtensionTypes registers payload types on the roster's type registry.
func WithExtensionTypes(goTypes ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = append(s.extensionTypes, goTypes...)
	}
}
