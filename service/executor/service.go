// Package executor walks a parsed plan action by action, dispatching
// specialist calls and collecting their outcomes. Failures never abort the
// walk: a failed call becomes an error outcome and execution continues.
package executor

import (
	"context"
	"log"
	"time"

	"github.com/jlord31/autonomous-agents/extension"
	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/model/types"
	"github.com/jlord31/autonomous-agents/policy"
	"github.com/jlord31/autonomous-agents/progress"
	"github.com/jlord31/autonomous-agents/runtime/expander"
	"github.com/jlord31/autonomous-agents/tracing"
)

// Service executes plans against the registered specialist roster.
type Service struct {
	agents  *extension.Agents
	timeout time.Duration
}

// Option customizes the executor.
type Option func(*Service)

// WithTimeout bounds every individual specialist invocation; zero means no
// bound beyond the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// New creates an executor over the given roster.
func New(agents *extension.Agents, options ...Option) *Service {
	ret := &Service{agents: agents}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Execute walks the plan's actions in declaration order. It returns every
// specialist outcome collected plus the supervisor's direct response when the
// plan carried one; when several direct responses appear the last one wins.
// DirectResponse actions do not stop the walk.
func (s *Service) Execute(ctx context.Context, plan *model.Plan, session *model.Session, originalQuery string) (model.Outcomes, string) {
	var outcomes model.Outcomes
	var directResponse string

	if plan == nil {
		return outcomes, directResponse
	}

	bindings := expander.Bindings{}

	for _, action := range plan.Actions {
		if action == nil {
			continue
		}
		switch action.Type {
		case model.ActionDirectResponse:
			// direct-response text also consumes bound variables
			directResponse = expander.Substitute(action.Response, bindings)
			progress.UpdateCtx(ctx, progress.Delta{Actions: 1, Succeeded: 1})

		case model.ActionCallSpecialist:
			outcome := s.callSpecialist(ctx, action, session, originalQuery, bindings)
			if outcome == nil {
				continue
			}
			outcomes = append(outcomes, outcome)
			if outcome.Success() {
				bindings.Bind(outcome.OutputVar, outcome.Response)
			}

		case model.ActionParallelGroup:
			group := s.runParallelGroup(ctx, action, session, originalQuery, bindings)
			outcomes = append(outcomes, group...)
			for _, outcome := range group {
				if outcome.Success() {
					bindings.Bind(outcome.OutputVar, outcome.Response)
				}
			}

		case model.ActionCondition:
			log.Printf("executor: skipping condition action (not executable): %v", action.Condition)
			progress.UpdateCtx(ctx, progress.Delta{Actions: 1, Skipped: 1})

		default:
			log.Printf("executor: skipping action with unknown type %q", action.Type)
			progress.UpdateCtx(ctx, progress.Delta{Actions: 1, Skipped: 1})
		}
	}
	return outcomes, directResponse
}

// callSpecialist dispatches one sequential specialist call. A nil return
// means the action was skipped entirely (unknown agent); a failed invocation
// is reported as an error outcome instead.
func (s *Service) callSpecialist(ctx context.Context, action *model.Action, session *model.Session, originalQuery string, bindings expander.Bindings) *model.Outcome {
	agent := s.agents.Lookup(action.Agent)
	if agent == nil {
		log.Printf("executor: skipping call: %v", types.NewAgentNotFoundError(action.Agent))
		progress.UpdateCtx(ctx, progress.Delta{Actions: 1, Skipped: 1})
		return nil
	}

	query := action.Query
	if query == "" {
		query = originalQuery
	}
	query = expander.Substitute(query, bindings)

	outcome := s.invoke(ctx, agent, query, session)
	outcome.OutputVar = action.OutputVar
	return outcome
}

// runParallelGroup fans the group members out concurrently and gathers their
// outcomes in completion order. Member failures are values, never aborts.
func (s *Service) runParallelGroup(ctx context.Context, action *model.Action, session *model.Session, originalQuery string, bindings expander.Bindings) model.Outcomes {
	members := make([]*model.SpecialistCall, 0, len(action.Calls))
	for _, call := range action.Calls {
		if call == nil {
			continue
		}
		if s.agents.Lookup(call.Agent) == nil {
			log.Printf("executor: skipping parallel call: %v", types.NewAgentNotFoundError(call.Agent))
			progress.UpdateCtx(ctx, progress.Delta{Actions: 1, Skipped: 1})
			continue
		}
		members = append(members, call)
	}
	if len(members) == 0 {
		return nil
	}
	progress.UpdateCtx(ctx, progress.Delta{Parallel: 1})

	collected := make(chan *model.Outcome, len(members))
	for _, member := range members {
		go func(call *model.SpecialistCall) {
			agent := s.agents.Lookup(call.Agent)
			query := call.Query
			if query == "" {
				query = originalQuery
			}
			// only variables the group declared as dependencies flow in
			query = expander.SubstituteNames(query, action.DependsOn, bindings)

			outcome := s.invoke(ctx, agent, query, session)
			outcome.OutputVar = call.OutputVar
			collected <- outcome
		}(member)
	}

	outcomes := make(model.Outcomes, 0, len(members))
	for range members {
		outcomes = append(outcomes, <-collected)
	}
	return outcomes
}

// invoke performs one agent call with policy gate, tracing and per-agent
// history bookkeeping.
func (s *Service) invoke(ctx context.Context, agent types.Agent, query string, session *model.Session) *model.Outcome {
	outcome := &model.Outcome{Agent: agent.Name(), Query: query}

	if !policy.FromContext(ctx).Approve(ctx, agent.Name(), query) {
		outcome.Error = types.NewAgentBlockedError(agent.Name()).Error()
		progress.UpdateCtx(ctx, progress.Delta{Actions: 1, Failed: 1})
		return outcome
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	callCtx, span := tracing.StartSpan(callCtx, "agent.invoke", "CLIENT")
	span.WithAttributes(map[string]string{"agent.name": agent.Name()})
	progress.UpdateCtx(ctx, progress.Delta{Actions: 1, Running: 1})

	sessionID := ""
	var history model.History
	if session != nil {
		sessionID = session.ID
		// the query joins the agent log before the call and stays there even
		// when the call fails; the history handed over includes it
		session.AppendAgent(agent.Name(), model.NewTurn(model.RoleUser, query))
		history = session.AgentHistory(agent.Name())
	}
	result, err := agent.Invoke(callCtx, query, sessionID, history)
	tracing.EndSpan(span, err)

	if err != nil {
		log.Printf("executor: agent %s failed: %v", agent.Name(), err)
		outcome.Error = err.Error()
		progress.UpdateCtx(ctx, progress.Delta{Failed: 1, Running: -1})
		return outcome
	}

	outcome.Response = types.Text(result)
	if session != nil {
		session.AppendAgent(agent.Name(), model.NewTurn(model.RoleAssistant, outcome.Response))
	}
	progress.UpdateCtx(ctx, progress.Delta{Succeeded: 1, Running: -1})
	return outcome
}
