// Package router implements the top-level route operation: one user turn in,
// one final answer out. It strings the session store, continuity check,
// planner, execution engine and synthesizer together and owns the per-session
// mutual exclusion at the route boundary.
package router

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jlord31/autonomous-agents/extension"
	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/model/types"
	"github.com/jlord31/autonomous-agents/progress"
	"github.com/jlord31/autonomous-agents/service/dao/session"
	"github.com/jlord31/autonomous-agents/service/event"
	"github.com/jlord31/autonomous-agents/service/executor"
	"github.com/jlord31/autonomous-agents/service/parser"
	"github.com/jlord31/autonomous-agents/service/synthesizer"
	"github.com/jlord31/autonomous-agents/tracing"
)

const noReasoning = "No reasoning provided"

// Service routes user requests through the supervisor architecture.
type Service struct {
	supervisor  types.Supervisor
	agents      *extension.Agents
	store       session.Store
	parser      *parser.Service
	executor    *executor.Service
	synthesizer *synthesizer.Service
	events      *event.Service
	onProgress  func(progress.Progress)

	// locks holds one mutex per session key so concurrent routes serialize
	// regardless of whether the store hands out shared or fresh instances
	locks sync.Map
}

// Option customizes the router.
type Option func(*Service)

// WithEvents attaches an event publisher; nil disables publication.
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithProgress registers a callback invoked after every counter update
// during plan execution.
func WithProgress(onProgress func(progress.Progress)) Option {
	return func(s *Service) {
		s.onProgress = onProgress
	}
}

// New creates a router over the given collaborators.
func New(supervisor types.Supervisor, agents *extension.Agents, store session.Store, planParser *parser.Service, engine *executor.Service, reducer *synthesizer.Service, options ...Option) *Service {
	ret := &Service{
		supervisor:  supervisor,
		agents:      agents,
		store:       store,
		parser:      planParser,
		executor:    engine,
		synthesizer: reducer,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Route processes one user request end to end and returns the final answer
// with its metadata. Concurrent calls for the same session serialize on a
// router-held mutex keyed by session ID.
func (s *Service) Route(ctx context.Context, userInput, userID, sessionID string) (response *model.Response, err error) {
	ctx, span := tracing.StartSpan(ctx, "route", "SERVER")
	span.WithAttributes(map[string]string{"session.id": sessionID, "user.id": userID})
	defer func() { tracing.EndSpan(span, err) }()

	// the lock is taken before Ensure so a concurrent route cannot load a
	// stale session document
	unlock := s.lockSession(sessionID)
	defer unlock()

	aSession, err := s.store.Ensure(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure session %s: %w", sessionID, err)
	}

	ctx, _ = progress.WithNewTracker(ctx, sessionID, userInput, s.onProgress)

	userTurn := model.NewTurn(model.RoleUser, userInput)
	aSession.Append(userTurn)
	s.events.PublishTurn(sessionID, userTurn)

	response, err = s.route(ctx, aSession, userInput)
	if err != nil {
		return nil, err
	}

	finalTurn := model.NewTurn(model.RoleAssistant, response.Output)
	aSession.Append(finalTurn)
	s.events.PublishTurn(sessionID, finalTurn)
	s.events.PublishResponse(sessionID, response)

	if err = s.store.Save(ctx, aSession); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return response, nil
}

// lockSession acquires the per-session mutex and returns its release func.
func (s *Service) lockSession(sessionID string) func() {
	actual, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mux := actual.(*sync.Mutex)
	mux.Lock()
	return mux.Unlock
}

func (s *Service) route(ctx context.Context, aSession *model.Session, userInput string) (*model.Response, error) {
	// follow-up short circuit: the previously active agent keeps the
	// conversation when the supervisor confirms continuity
	if lastAgent := aSession.LastAgent(); lastAgent != "" {
		if agent := s.agents.Lookup(lastAgent); agent != nil {
			if s.shouldContinue(ctx, agent, aSession, userInput) {
				return s.continueWithAgent(ctx, agent, aSession, userInput)
			}
		}
	}

	plan, err := s.plan(ctx, aSession, userInput)
	if err != nil {
		return nil, err
	}

	outcomes, directResponse := s.executor.Execute(ctx, plan, aSession, userInput)
	for _, outcome := range outcomes {
		s.events.PublishOutcome(aSession.ID, outcome)
	}

	output, source, err := s.synthesizer.Reduce(ctx, directResponse, outcomes, aSession)
	if err != nil {
		return nil, err
	}

	reasoning := plan.Reasoning
	if reasoning == "" {
		reasoning = noReasoning
	}
	return &model.Response{
		Output: output,
		Metadata: model.Metadata{
			Source:     source,
			AgentCount: len(outcomes),
			Plan:       reasoning,
		},
	}, nil
}

// plan issues the planning call and parses its free-form reply.
func (s *Service) plan(ctx context.Context, aSession *model.Session, userInput string) (*model.Plan, error) {
	prompt := planningPrompt(userInput, s.agents.Descriptions())

	ctx, span := tracing.StartSpan(ctx, "supervisor.plan", "CLIENT")
	result, err := s.supervisor.Propose(ctx, prompt, aSession.MainHistory())
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("planning failed: %w", err)
	}

	plan := s.parser.Parse(types.Text(result), s.agents.Names())
	for _, issue := range plan.Validate() {
		log.Printf("router: plan issue: %v", issue)
	}
	return plan, nil
}
