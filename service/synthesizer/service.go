// Package synthesizer reduces the outcomes of one plan execution into a
// single final answer. The reduction is a priority policy, not a scoring
// function: a direct supervisor response always wins even if specialist calls
// also ran.
package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/model/types"
	"github.com/jlord31/autonomous-agents/tracing"
)

const synthesisTemplate = `TASK: Synthesize specialist responses into a coherent response for the user.

SPECIALIST RESPONSES:
%s

INSTRUCTIONS:
1. Read the specialist responses
2. Combine the information into a single response
3. Provide the synthesized response`

// Service reduces outcomes into a final answer, consulting the supervisor
// when synthesis is required.
type Service struct {
	supervisor types.Supervisor
}

// New creates a synthesizer backed by the given supervisor.
func New(supervisor types.Supervisor) *Service {
	return &Service{supervisor: supervisor}
}

// Reduce resolves the final response text and its source label, in priority
// order:
//
//  1. a direct supervisor response is returned verbatim
//  2. a single successful outcome is returned as-is and the session's
//     last-active agent pointer is updated
//  3. two or more outcomes are merged through one synthesis call
//  4. otherwise the fixed fallback apology is returned
//
// Only a synthesis call failure is an error; there is no further fallback
// beyond that point.
func (s *Service) Reduce(ctx context.Context, directResponse string, outcomes model.Outcomes, session *model.Session) (string, string, error) {
	if directResponse != "" {
		return directResponse, model.SourceSupervisorDirect, nil
	}

	if len(outcomes) == 1 && outcomes[0].Success() {
		if session != nil {
			session.SetLastActiveAgent(outcomes[0].Agent)
		}
		return outcomes[0].Response, outcomes[0].Agent, nil
	}

	if len(outcomes) > 1 {
		return s.synthesize(ctx, outcomes, session)
	}

	return model.FallbackResponse, model.SourceErrorFallback, nil
}

// synthesize merges every outcome, failures included, through one supervisor
// call.
func (s *Service) synthesize(ctx context.Context, outcomes model.Outcomes, session *model.Session) (string, string, error) {
	prompt := fmt.Sprintf(synthesisTemplate, formatOutcomes(outcomes))

	var history model.History
	if session != nil {
		history = session.MainHistory()
	}

	ctx, span := tracing.StartSpan(ctx, "supervisor.synthesize", "CLIENT")
	result, err := s.supervisor.Propose(ctx, prompt, history)
	tracing.EndSpan(span, err)
	if err != nil {
		return "", "", fmt.Errorf("synthesis failed: %w", err)
	}
	return types.Text(result), model.SourceSynthesis, nil
}

// formatOutcomes renders each outcome as a labeled block; failed invocations
// contribute an ERROR body instead of a response.
func formatOutcomes(outcomes model.Outcomes) string {
	blocks := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		body := outcome.Response
		if !outcome.Success() {
			errText := outcome.Error
			if errText == "" {
				errText = "Unknown error"
			}
			body = "ERROR: " + errText
		}
		blocks = append(blocks, fmt.Sprintf("[%s RESPONSE TO '%s']\n%s", outcome.Agent, outcome.Query, body))
	}
	return strings.Join(blocks, "\n\n")
}
