package router

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jlord31/autonomous-agents/extension"
	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/service/dao/session/fs"
	"github.com/jlord31/autonomous-agents/service/dao/session/memory"
	"github.com/jlord31/autonomous-agents/service/executor"
	"github.com/jlord31/autonomous-agents/service/parser"
	"github.com/jlord31/autonomous-agents/service/synthesizer"
	"github.com/stretchr/testify/assert"
)

// scriptedSupervisor answers each prompt family with a canned reply and
// counts how often each was consulted.
type scriptedSupervisor struct {
	planReply       string
	planErr         error
	continuityReply string
	continuityErr   error
	synthesisReply  string
	synthesisErr    error

	planCalls       int
	continuityCalls int
	synthesisCalls  int
	lastPlanPrompt  string
}

func (s *scriptedSupervisor) Propose(_ context.Context, prompt string, _ model.History) (interface{}, error) {
	switch {
	case strings.HasPrefix(prompt, "TASK: Determine if this user message is a follow-up"):
		s.continuityCalls++
		return s.continuityReply, s.continuityErr
	case strings.HasPrefix(prompt, "TASK: Synthesize"):
		s.synthesisCalls++
		return s.synthesisReply, s.synthesisErr
	default:
		s.planCalls++
		s.lastPlanPrompt = prompt
		return s.planReply, s.planErr
	}
}

type stubAgent struct {
	name        string
	description string
	reply       func(query string) (interface{}, error)
	invocations int
}

func (a *stubAgent) Name() string        { return a.name }
func (a *stubAgent) Description() string { return a.description }

func (a *stubAgent) Invoke(_ context.Context, query, _ string, _ model.History) (interface{}, error) {
	a.invocations++
	if a.reply != nil {
		return a.reply(query)
	}
	return "ok", nil
}

func newService(supervisor *scriptedSupervisor, agents ...*stubAgent) (*Service, *extension.Agents) {
	roster := extension.NewAgents()
	for _, agent := range agents {
		roster.Register(agent)
	}
	svc := New(
		supervisor,
		roster,
		memory.New(),
		parser.New(),
		executor.New(roster),
		synthesizer.New(supervisor),
	)
	return svc, roster
}

func planJSON(body string) string {
	return "```json\n" + body + "\n```"
}

func TestService_Route_SingleSpecialist(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "math question", "actions": [{"type": "call_specialist", "agent": "calc_agent", "query": "2+2"}]}`),
	}
	calc := &stubAgent{name: "calc_agent", description: "does math", reply: func(string) (interface{}, error) { return "4", nil }}
	svc, _ := newService(supervisor, calc)

	response, err := svc.Route(context.Background(), "what is 2+2", "u1", "s1")
	assert.NoError(t, err)
	assert.Equal(t, "4", response.Output)
	assert.Equal(t, "calc_agent", response.Metadata.Source)
	assert.Equal(t, 1, response.Metadata.AgentCount)
	assert.Equal(t, "math question", response.Metadata.Plan)
}

func TestService_Route_PlanPromptCarriesRoster(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "r", "actions": []}`),
	}
	calc := &stubAgent{name: "calc_agent", description: "does math"}
	travel := &stubAgent{name: "travel_agent", description: "books trips"}
	svc, _ := newService(supervisor, calc, travel)

	_, err := svc.Route(context.Background(), "hello", "u1", "s1")
	assert.NoError(t, err)
	assert.Contains(t, supervisor.lastPlanPrompt, "- calc_agent: does math")
	assert.Contains(t, supervisor.lastPlanPrompt, "- travel_agent: books trips")
	assert.NotContains(t, supervisor.lastPlanPrompt, "condition", "condition schema is not offered to the planner")
}

func TestService_Route_DirectResponse(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "simple greeting", "actions": [{"type": "supervisor_direct_response", "response": "Hello there"}]}`),
	}
	svc, _ := newService(supervisor, &stubAgent{name: "calc_agent"})

	response, err := svc.Route(context.Background(), "hi", "u1", "s1")
	assert.NoError(t, err)
	assert.Equal(t, "Hello there", response.Output)
	assert.Equal(t, model.SourceSupervisorDirect, response.Metadata.Source)
	assert.Equal(t, 0, response.Metadata.AgentCount)
}

func TestService_Route_SynthesisPath(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "two experts", "actions": [
			{"type": "call_specialist", "agent": "calc_agent", "query": "2+2"},
			{"type": "call_specialist", "agent": "weather_agent", "query": "forecast"}]}`),
		synthesisReply: "4 and sunny",
	}
	calc := &stubAgent{name: "calc_agent", reply: func(string) (interface{}, error) { return "4", nil }}
	weather := &stubAgent{name: "weather_agent", reply: func(string) (interface{}, error) { return "sunny", nil }}
	svc, _ := newService(supervisor, calc, weather)

	response, err := svc.Route(context.Background(), "math and weather", "u1", "s1")
	assert.NoError(t, err)
	assert.Equal(t, "4 and sunny", response.Output)
	assert.Equal(t, model.SourceSynthesis, response.Metadata.Source)
	assert.Equal(t, 2, response.Metadata.AgentCount)
	assert.Equal(t, 1, supervisor.synthesisCalls)
}

func TestService_Route_EmptyPlanFallsBack(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "", "actions": []}`),
	}
	svc, _ := newService(supervisor, &stubAgent{name: "calc_agent"})

	response, err := svc.Route(context.Background(), "anything", "u1", "s1")
	assert.NoError(t, err)
	assert.Equal(t, model.FallbackResponse, response.Output)
	assert.Equal(t, model.SourceErrorFallback, response.Metadata.Source)
	assert.Equal(t, noReasoning, response.Metadata.Plan)
}

func TestService_Route_Continuity(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "math", "actions": [{"type": "call_specialist", "agent": "calc_agent", "query": "2+2"}]}`),
	}
	calls := 0
	calc := &stubAgent{name: "calc_agent", description: "does math", reply: func(string) (interface{}, error) {
		calls++
		return fmt.Sprintf("answer %d", calls), nil
	}}
	svc, _ := newService(supervisor, calc)
	ctx := context.Background()

	// first turn runs the planning path and marks calc_agent active
	first, err := svc.Route(ctx, "what is 2+2", "u1", "s1")
	assert.NoError(t, err)
	assert.Equal(t, "calc_agent", first.Metadata.Source)

	// follow-up confirmed by the supervisor goes straight to the agent
	supervisor.continuityReply = "YES"
	second, err := svc.Route(ctx, "and plus 3?", "u1", "s1")
	assert.NoError(t, err)
	assert.Equal(t, "answer 2", second.Output)
	assert.Equal(t, model.PlanContinuation, second.Metadata.Plan)
	assert.Equal(t, "calc_agent", second.Metadata.Source)
	assert.Equal(t, 1, second.Metadata.AgentCount)
	assert.Equal(t, 1, supervisor.continuityCalls)
	assert.Equal(t, 1, supervisor.planCalls, "no planning call on a confirmed follow-up")
}

func TestService_Route_ContinuationFailureKeepsQueryTurn(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "math", "actions": [{"type": "call_specialist", "agent": "calc_agent", "query": "2+2"}]}`),
	}
	fail := false
	calc := &stubAgent{name: "calc_agent", description: "does math", reply: func(string) (interface{}, error) {
		if fail {
			return nil, fmt.Errorf("agent down")
		}
		return "4", nil
	}}
	svc, _ := newService(supervisor, calc)
	ctx := context.Background()

	_, err := svc.Route(ctx, "what is 2+2", "u1", "s1")
	assert.NoError(t, err)

	supervisor.continuityReply = "YES"
	fail = true
	_, err = svc.Route(ctx, "and plus 3?", "u1", "s1")
	assert.Error(t, err)

	aSession, err := svc.store.Load(ctx, "s1")
	assert.NoError(t, err)
	// the user turn is logged before the continuation call and survives the
	// failure
	history := aSession.AgentHistory("calc_agent")
	if assert.Equal(t, 3, len(history)) {
		assert.Equal(t, model.RoleUser, history[2].Role)
		assert.Equal(t, "and plus 3?", history[2].Text)
	}
}

func TestService_Route_ConcurrentSameSessionWithFsStore(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "r", "actions": [{"type": "supervisor_direct_response", "response": "noted"}]}`),
	}
	store, err := fs.New(t.TempDir())
	assert.NoError(t, err)
	roster := extension.NewAgents()
	svc := New(supervisor, roster, store, parser.New(), executor.New(roster), synthesizer.New(supervisor))

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, routeErr := svc.Route(context.Background(), "turn", "u1", "s1")
			assert.NoError(t, routeErr)
		}()
	}
	wg.Wait()

	aSession, err := store.Load(context.Background(), "s1")
	assert.NoError(t, err)
	// both routes persisted their turns even though the store hands out a
	// fresh instance per Ensure
	assert.Equal(t, 4, len(aSession.MainHistory()))
}

func TestService_Route_ContinuityDeniedRunsPlanning(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply:       planJSON(`{"reasoning": "math", "actions": [{"type": "call_specialist", "agent": "calc_agent", "query": "2+2"}]}`),
		continuityReply: "NO",
	}
	calc := &stubAgent{name: "calc_agent", reply: func(string) (interface{}, error) { return "4", nil }}
	svc, _ := newService(supervisor, calc)
	ctx := context.Background()

	_, err := svc.Route(ctx, "first", "u1", "s1")
	assert.NoError(t, err)
	_, err = svc.Route(ctx, "second", "u1", "s1")
	assert.NoError(t, err)

	assert.Equal(t, 1, supervisor.continuityCalls)
	assert.Equal(t, 2, supervisor.planCalls, "a NO answer falls through to planning")
}

func TestService_Route_ContinuityFailureRunsPlanning(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply:     planJSON(`{"reasoning": "math", "actions": [{"type": "call_specialist", "agent": "calc_agent", "query": "2+2"}]}`),
		continuityErr: fmt.Errorf("oracle down"),
	}
	calc := &stubAgent{name: "calc_agent", reply: func(string) (interface{}, error) { return "4", nil }}
	svc, _ := newService(supervisor, calc)
	ctx := context.Background()

	_, err := svc.Route(ctx, "first", "u1", "s1")
	assert.NoError(t, err)
	second, err := svc.Route(ctx, "second", "u1", "s1")
	assert.NoError(t, err)
	assert.Equal(t, "4", second.Output)
	assert.Equal(t, 2, supervisor.planCalls)
}

func TestService_Route_PlanningFailurePropagates(t *testing.T) {
	supervisor := &scriptedSupervisor{planErr: fmt.Errorf("oracle unavailable")}
	svc, _ := newService(supervisor, &stubAgent{name: "calc_agent"})

	_, err := svc.Route(context.Background(), "q", "u1", "s1")
	assert.Error(t, err)
}

func TestService_Route_SynthesisFailurePropagates(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "r", "actions": [
			{"type": "call_specialist", "agent": "a", "query": "q1"},
			{"type": "call_specialist", "agent": "b", "query": "q2"}]}`),
		synthesisErr: fmt.Errorf("oracle down"),
	}
	a := &stubAgent{name: "a", reply: func(string) (interface{}, error) { return "ra", nil }}
	b := &stubAgent{name: "b", reply: func(string) (interface{}, error) { return "rb", nil }}
	svc, _ := newService(supervisor, a, b)

	_, err := svc.Route(context.Background(), "q", "u1", "s1")
	assert.Error(t, err)
}

func TestService_Route_HeuristicFallbackFromProse(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: "I think travel_agent is best placed to look into these flights.",
	}
	travel := &stubAgent{name: "travel_agent", reply: func(query string) (interface{}, error) { return "booked: " + query, nil }}
	svc, _ := newService(supervisor, travel)

	response, err := svc.Route(context.Background(), "book me a flight", "u1", "s1")
	assert.NoError(t, err)
	assert.Equal(t, "travel_agent", response.Metadata.Source)
	assert.True(t, strings.Contains(response.Output, "travel_agent is best placed"), "heuristic window becomes the query")
}

func TestService_Route_HistoryMaintained(t *testing.T) {
	supervisor := &scriptedSupervisor{
		planReply: planJSON(`{"reasoning": "r", "actions": [{"type": "supervisor_direct_response", "response": "noted"}]}`),
	}
	svc, _ := newService(supervisor, &stubAgent{name: "calc_agent"})
	store := memory.New()
	svc.store = store

	_, err := svc.Route(context.Background(), "remember this", "u1", "s1")
	assert.NoError(t, err)

	aSession, err := store.Load(context.Background(), "s1")
	assert.NoError(t, err)
	history := aSession.MainHistory()
	if assert.Equal(t, 2, len(history)) {
		assert.Equal(t, model.RoleUser, history[0].Role)
		assert.Equal(t, "remember this", history[0].Text)
		assert.Equal(t, model.RoleAssistant, history[1].Role)
		assert.Equal(t, "noted", history[1].Text)
	}
}
