package synthesizer

import (
	"context"
	"fmt"
	"testing"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/stretchr/testify/assert"
)

type stubSupervisor struct {
	reply   interface{}
	err     error
	prompts []string
}

func (s *stubSupervisor) Propose(_ context.Context, prompt string, _ model.History) (interface{}, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func TestService_Reduce_DirectResponseWins(t *testing.T) {
	supervisor := &stubSupervisor{}
	svc := New(supervisor)

	outcomes := model.Outcomes{
		{Agent: "calc_agent", Query: "2+2", Response: "4"},
	}
	text, source, err := svc.Reduce(context.Background(), "I can answer that myself", outcomes, model.NewSession("s1"))
	assert.NoError(t, err)
	assert.Equal(t, "I can answer that myself", text)
	assert.Equal(t, model.SourceSupervisorDirect, source)
	assert.Empty(t, supervisor.prompts, "no synthesis call when a direct response exists")
}

func TestService_Reduce_SingleSuccess(t *testing.T) {
	supervisor := &stubSupervisor{}
	svc := New(supervisor)
	aSession := model.NewSession("s1")

	outcomes := model.Outcomes{
		{Agent: "calc_agent", Query: "2+2", Response: "4"},
	}
	text, source, err := svc.Reduce(context.Background(), "", outcomes, aSession)
	assert.NoError(t, err)
	assert.Equal(t, "4", text)
	assert.Equal(t, "calc_agent", source)
	assert.Equal(t, "calc_agent", aSession.LastAgent(), "single success updates the last-active pointer")
	assert.Empty(t, supervisor.prompts)
}

func TestService_Reduce_SynthesisCalledOnce(t *testing.T) {
	supervisor := &stubSupervisor{reply: "merged answer"}
	svc := New(supervisor)
	aSession := model.NewSession("s1")

	outcomes := model.Outcomes{
		{Agent: "calc_agent", Query: "2+2", Response: "4"},
		{Agent: "weather_agent", Query: "forecast", Response: "sunny"},
	}
	text, source, err := svc.Reduce(context.Background(), "", outcomes, aSession)
	assert.NoError(t, err)
	assert.Equal(t, "merged answer", text)
	assert.Equal(t, model.SourceSynthesis, source)

	if assert.Equal(t, 1, len(supervisor.prompts), "synthesis oracle invoked exactly once") {
		prompt := supervisor.prompts[0]
		assert.Contains(t, prompt, "[calc_agent RESPONSE TO '2+2']\n4")
		assert.Contains(t, prompt, "[weather_agent RESPONSE TO 'forecast']\nsunny")
	}
	assert.Empty(t, aSession.LastAgent(), "synthesis does not update the last-active pointer")
}

func TestService_Reduce_SynthesisIncludesErrors(t *testing.T) {
	supervisor := &stubSupervisor{reply: "partial answer"}
	svc := New(supervisor)

	outcomes := model.Outcomes{
		{Agent: "calc_agent", Query: "2+2", Response: "4"},
		{Agent: "weather_agent", Query: "forecast", Error: "service down"},
	}
	_, source, err := svc.Reduce(context.Background(), "", outcomes, model.NewSession("s1"))
	assert.NoError(t, err)
	assert.Equal(t, model.SourceSynthesis, source)
	assert.Contains(t, supervisor.prompts[0], "[weather_agent RESPONSE TO 'forecast']\nERROR: service down")
}

func TestService_Reduce_SynthesisFailurePropagates(t *testing.T) {
	supervisor := &stubSupervisor{err: fmt.Errorf("oracle unavailable")}
	svc := New(supervisor)

	outcomes := model.Outcomes{
		{Agent: "a", Query: "q1", Response: "r1"},
		{Agent: "b", Query: "q2", Response: "r2"},
	}
	_, _, err := svc.Reduce(context.Background(), "", outcomes, model.NewSession("s1"))
	assert.Error(t, err)
}

func TestService_Reduce_Fallback(t *testing.T) {
	svc := New(&stubSupervisor{})

	// zero outcomes
	text, source, err := svc.Reduce(context.Background(), "", nil, model.NewSession("s1"))
	assert.NoError(t, err)
	assert.Equal(t, model.FallbackResponse, text)
	assert.Equal(t, model.SourceErrorFallback, source)

	// a single failed outcome also folds into the fallback
	outcomes := model.Outcomes{{Agent: "calc_agent", Query: "2+2", Error: "down"}}
	text, source, err = svc.Reduce(context.Background(), "", outcomes, model.NewSession("s1"))
	assert.NoError(t, err)
	assert.Equal(t, model.FallbackResponse, text)
	assert.Equal(t, model.SourceErrorFallback, source)
}
