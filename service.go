package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/jlord31/autonomous-agents/extension"
	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/model/types"
	"github.com/jlord31/autonomous-agents/policy"
	"github.com/jlord31/autonomous-agents/progress"
	"github.com/jlord31/autonomous-agents/service/dao/session"
	"github.com/jlord31/autonomous-agents/service/dao/session/fs"
	"github.com/jlord31/autonomous-agents/service/dao/session/memory"
	"github.com/jlord31/autonomous-agents/service/event"
	"github.com/jlord31/autonomous-agents/service/executor"
	"github.com/jlord31/autonomous-agents/service/parser"
	"github.com/jlord31/autonomous-agents/service/router"
	"github.com/jlord31/autonomous-agents/service/synthesizer"
	"github.com/jlord31/autonomous-agents/tracing"
	"github.com/viant/x"
)

// Service is the assembled routing engine.
type Service struct {
	config         *Config
	supervisor     types.Supervisor
	agents         *extension.Agents
	store          session.Store
	events         *event.Service
	router         *router.Service
	policy         *policy.Policy
	onProgress     func(progress.Progress)
	extensionTypes []*x.Type
	rosterAgents   []types.Agent
}

// New assembles a routing service. A supervisor is mandatory; every other
// collaborator has a default (in-memory session store, empty roster).
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() error {
	if s.supervisor == nil {
		return fmt.Errorf("supervisor is required")
	}
	if err := s.config.Validate(); err != nil {
		return err
	}

	if s.agents == nil {
		s.agents = extension.NewAgents(s.extensionTypes...)
	} else {
		for _, t := range s.extensionTypes {
			s.agents.Types().Register(t)
		}
	}
	for _, agent := range s.rosterAgents {
		s.agents.Register(agent)
	}

	if s.store == nil {
		switch s.config.Session.Provider {
		case ProviderFs:
			store, err := fs.New(s.config.Session.BaseURL)
			if err != nil {
				return err
			}
			s.store = store
		default:
			s.store = memory.New()
		}
	}

	if s.events == nil && s.config.Events.Enabled {
		s.events = event.New(s.config.Events.Buffer)
	}
	if s.policy == nil && s.config.Policy != nil {
		s.policy = policy.FromConfig(s.config.Policy)
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(s.config.Tracing.ServiceName, s.config.Tracing.Version, s.config.Tracing.OutputFile); err != nil {
			return err
		}
	}

	var executorOptions []executor.Option
	if s.config.Engine.AgentTimeoutMs > 0 {
		executorOptions = append(executorOptions, executor.WithTimeout(time.Duration(s.config.Engine.AgentTimeoutMs)*time.Millisecond))
	}
	engine := executor.New(s.agents, executorOptions...)

	s.router = router.New(
		s.supervisor,
		s.agents,
		s.store,
		parser.New(),
		engine,
		synthesizer.New(s.supervisor),
		router.WithEvents(s.events),
		router.WithProgress(s.onProgress),
	)
	return nil
}

// Route processes one user request end to end.
func (s *Service) Route(ctx context.Context, userInput, userID, sessionID string) (*model.Response, error) {
	if s.policy != nil {
		ctx = policy.WithPolicy(ctx, s.policy)
	}
	return s.router.Route(ctx, userInput, userID, sessionID)
}

// RegisterAgent adds a specialist to the roster after assembly.
func (s *Service) RegisterAgent(agent types.Agent) {
	s.agents.Register(agent)
}

// RegisterExtensionTypes registers payload types on the roster's type
// registry.
func (s *Service) RegisterExtensionTypes(goTypes ...*x.Type) {
	for i := range goTypes {
		s.agents.Types().Register(goTypes[i])
	}
}

// Agents returns the specialist roster.
func (s *Service) Agents() *extension.Agents {
	return s.agents
}

// Store returns the session store.
func (s *Service) Store() session.Store {
	return s.store
}

// Events returns the event publisher, nil when events are disabled.
func (s *Service) Events() *event.Service {
	return s.events
}
