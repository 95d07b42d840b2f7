package extension

import (
	"context"
	"testing"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/jlord31/autonomous-agents/model/types"
	"github.com/stretchr/testify/assert"
)

type rosterAgent struct {
	name        string
	description string
	tools       []types.Tool
}

func (a *rosterAgent) Name() string        { return a.name }
func (a *rosterAgent) Description() string { return a.description }

func (a *rosterAgent) Invoke(context.Context, string, string, model.History) (interface{}, error) {
	return "", nil
}

func (a *rosterAgent) Tools() []types.Tool { return a.tools }

func TestAgents_Register(t *testing.T) {
	roster := NewAgents()
	roster.Register(&rosterAgent{name: "calc_agent", description: "does math"})
	roster.Register(&rosterAgent{name: "travel_agent", description: "books trips"})

	assert.Equal(t, 2, roster.Size())
	assert.Equal(t, []string{"calc_agent", "travel_agent"}, roster.Names())
	assert.NotNil(t, roster.Lookup("calc_agent"))
	assert.Nil(t, roster.Lookup("unknown"))

	// re-registration replaces but keeps position
	roster.Register(&rosterAgent{name: "calc_agent", description: "better math"})
	assert.Equal(t, []string{"calc_agent", "travel_agent"}, roster.Names())
	assert.Equal(t, "better math", roster.Lookup("calc_agent").Description())

	// nil and anonymous agents are ignored
	roster.Register(nil)
	roster.Register(&rosterAgent{})
	assert.Equal(t, 2, roster.Size())
}

func TestAgents_Descriptions(t *testing.T) {
	roster := NewAgents()
	roster.Register(&rosterAgent{name: "calc_agent", description: "does math", tools: []types.Tool{
		{Name: "multiply"},
		{Name: "add"},
	}})
	roster.Register(&rosterAgent{name: "travel_agent", description: "books trips"})

	expect := "- calc_agent: does math (Tools: add, multiply)\n- travel_agent: books trips"
	assert.Equal(t, expect, roster.Descriptions())
}
