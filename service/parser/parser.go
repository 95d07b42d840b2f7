// Package parser turns unstructured supervisor output into an executable
// plan. Supervisor text is unreliable prose: the parser tries a fenced
// structured block first, then a bare object literal, then degrades to
// heuristic agent-name extraction and finally to treating the whole text as a
// direct answer. Parse never fails.
package parser

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/viant/parsly"
)

const (
	extractedReasoning  = "Extracted from text response"
	errParsingReasoning = "Error parsing plan"

	// contextWindow is the number of characters taken on each side of an
	// agent-name mention when heuristically extracting a query.
	contextWindow = 100
)

// Service extracts execution plans from supervisor responses.
type Service struct{}

// New creates a plan parser.
func New() *Service {
	return &Service{}
}

// Parse extracts a plan from planning text. agentNames drives the heuristic
// fallback; matching is case-insensitive. On any internal error the returned
// plan carries the error reasoning and an empty action list.
func (s *Service) Parse(planningText string, agentNames []string) (plan *model.Plan) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("parser: error parsing supervisor plan: %v", r)
			plan = &model.Plan{Reasoning: errParsingReasoning, Actions: []*model.Action{}}
		}
	}()

	if payload, ok := s.extractPayload(planningText); ok {
		if parsed := decodePlan(payload); parsed != nil {
			// The decoded plan is used as-is, even with an empty action
			// list.
			return parsed
		}
		log.Printf("parser: structured decode failed, using fallback agent name detection")
	}
	return s.heuristicPlan(planningText, agentNames)
}

// extractPayload returns candidate structured text: the contents of the first
// fenced block when one exists, otherwise the first brace-balanced object
// literal whose leading key is "reasoning".
func (s *Service) extractPayload(text string) (string, bool) {
	input := []byte(text)
	for offset := 0; offset < len(input); offset++ {
		if input[offset] != '`' {
			continue
		}
		cursor := parsly.NewCursor("", input[offset:], 0)
		matched := cursor.MatchOne(fencedBlockToken)
		if matched.Code != fencedBlockToken.Code {
			continue
		}
		return unfence(matched.Text(cursor)), true
	}
	return s.extractBareObject(input)
}

func (s *Service) extractBareObject(input []byte) (string, bool) {
	for offset := 0; offset < len(input); offset++ {
		if input[offset] != '{' {
			continue
		}
		cursor := parsly.NewCursor("", input[offset:], 0)
		matched := cursor.MatchOne(objectLiteralToken)
		if matched.Code != objectLiteralToken.Code {
			continue
		}
		candidate := matched.Text(cursor)
		if leadingKeyIsReasoning(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// unfence strips the backtick fences and an optional json language tag.
func unfence(block string) string {
	block = strings.TrimPrefix(block, "```")
	block = strings.TrimSuffix(block, "```")
	trimmed := strings.TrimLeft(block, " \t")
	if strings.HasPrefix(trimmed, "json") {
		block = strings.TrimPrefix(trimmed, "json")
	}
	return strings.TrimSpace(block)
}

func leadingKeyIsReasoning(candidate string) bool {
	inner := strings.TrimSpace(strings.TrimPrefix(candidate, "{"))
	return strings.HasPrefix(inner, `"reasoning"`)
}

// decodePlan repairs then strictly decodes a candidate payload; nil means the
// payload is not a usable plan.
func decodePlan(payload string) *model.Plan {
	repaired := Repair(payload)
	plan := &model.Plan{}
	if err := json.Unmarshal([]byte(repaired), plan); err != nil {
		return nil
	}
	if plan.Actions == nil {
		plan.Actions = []*model.Action{}
	}
	return plan
}

// heuristicPlan scans the raw text for known agent names and turns each first
// mention into a specialist call carrying the surrounding context as query.
// Text that mentions no agent becomes a direct response verbatim.
func (s *Service) heuristicPlan(text string, agentNames []string) *model.Plan {
	plan := &model.Plan{Reasoning: extractedReasoning, Actions: []*model.Action{}}
	lower := strings.ToLower(text)
	for _, name := range agentNames {
		position := strings.Index(lower, strings.ToLower(name))
		if position == -1 {
			continue
		}
		start := position - contextWindow
		if start < 0 {
			start = 0
		}
		end := position + contextWindow
		if end > len(text) {
			end = len(text)
		}
		plan.Actions = append(plan.Actions, &model.Action{
			Type:  model.ActionCallSpecialist,
			Agent: name,
			Query: text[start:end],
		})
	}
	if len(plan.Actions) == 0 && strings.TrimSpace(text) != "" {
		plan.Actions = append(plan.Actions, &model.Action{
			Type:     model.ActionDirectResponse,
			Response: text,
		})
	}
	return plan
}
