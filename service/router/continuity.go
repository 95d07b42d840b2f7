package router

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/model/types"
	"github.com/jlord31/autonomous-agents/tracing"
)

// shouldContinue asks the supervisor whether the new request belongs to the
// previously active agent's conversation. Any supervisor failure or any
// answer other than YES falls through to full planning.
func (s *Service) shouldContinue(ctx context.Context, agent types.Agent, session *model.Session, userInput string) bool {
	recent := ""
	if userText, agentText := session.AgentHistory(agent.Name()).LastExchange(); agentText != "" || userText != "" {
		recent = fmt.Sprintf("Last user message: %s\nLast agent response: %s", userText, agentText)
	}

	prompt := continuityPrompt(agent.Name(), agent.Description(), recent, userInput)

	// the just-appended user turn is excluded so the check sees the
	// conversation as it stood before this request
	history := session.MainHistory()
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	ctx, span := tracing.StartSpan(ctx, "supervisor.continuity", "CLIENT")
	result, err := s.supervisor.Propose(ctx, prompt, history)
	tracing.EndSpan(span, err)
	if err != nil {
		log.Printf("router: continuity check failed, falling back to planning: %v", err)
		return false
	}

	answer := strings.ToUpper(strings.TrimSpace(types.Text(result)))
	return strings.Contains(answer, "YES")
}

// continueWithAgent short-circuits the route to the previously active agent.
func (s *Service) continueWithAgent(ctx context.Context, agent types.Agent, session *model.Session, userInput string) (*model.Response, error) {
	ctx, span := tracing.StartSpan(ctx, "agent.continue", "CLIENT")
	span.WithAttributes(map[string]string{"agent.name": agent.Name()})

	// the user turn is logged before the call and retained on failure
	session.AppendAgent(agent.Name(), model.NewTurn(model.RoleUser, userInput))
	history := session.AgentHistory(agent.Name())
	result, err := agent.Invoke(ctx, userInput, session.ID, history)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("continuation with agent %s failed: %w", agent.Name(), err)
	}

	text := types.Text(result)
	session.AppendAgent(agent.Name(), model.NewTurn(model.RoleAssistant, text))

	return &model.Response{
		Output: text,
		Metadata: model.Metadata{
			Source:     agent.Name(),
			AgentCount: 1,
			Plan:       model.PlanContinuation,
		},
	}, nil
}
