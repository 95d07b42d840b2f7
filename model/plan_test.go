package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_Validate(t *testing.T) {
	testCases := []struct {
		description string
		plan        *Plan
		issues      int
	}{
		{
			description: "nil plan",
			plan:        nil,
			issues:      1,
		},
		{
			description: "sound plan",
			plan: &Plan{Actions: []*Action{
				{Type: ActionDirectResponse, Response: "hi"},
				{Type: ActionCallSpecialist, Agent: "calc", Query: "2+2"},
				{Type: ActionParallelGroup, Calls: []*SpecialistCall{{Agent: "a", Query: "q"}}},
			}},
			issues: 0,
		},
		{
			description: "specialist call without agent",
			plan:        &Plan{Actions: []*Action{{Type: ActionCallSpecialist}}},
			issues:      1,
		},
		{
			description: "empty parallel group",
			plan:        &Plan{Actions: []*Action{{Type: ActionParallelGroup}}},
			issues:      1,
		},
		{
			description: "condition is flagged",
			plan:        &Plan{Actions: []*Action{{Type: ActionCondition, Condition: "x"}}},
			issues:      1,
		},
		{
			description: "unknown type",
			plan:        &Plan{Actions: []*Action{{Type: "mystery"}}},
			issues:      1,
		},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.issues, len(testCase.plan.Validate()), testCase.description)
	}
}

func TestPlan_OutputVars(t *testing.T) {
	plan := &Plan{Actions: []*Action{
		{Type: ActionCallSpecialist, Agent: "a", OutputVar: "first"},
		{Type: ActionParallelGroup, Calls: []*SpecialistCall{
			{Agent: "b", OutputVar: "second"},
			{Agent: "c"},
		}},
		{Type: ActionDirectResponse},
	}}
	assert.Equal(t, []string{"first", "second"}, plan.OutputVars())
}

func TestHistory_LastExchange(t *testing.T) {
	var history History
	userText, assistantText := history.LastExchange()
	assert.Empty(t, userText)
	assert.Empty(t, assistantText)

	history = History{
		NewTurn(RoleUser, "q1"),
		NewTurn(RoleAssistant, "a1"),
		NewTurn(RoleUser, "q2"),
		NewTurn(RoleAssistant, "a2"),
	}
	userText, assistantText = history.LastExchange()
	assert.Equal(t, "q2", userText)
	assert.Equal(t, "a2", assistantText)
}

func TestOutcomes_Successes(t *testing.T) {
	outcomes := Outcomes{
		{Agent: "a", Response: "ok"},
		{Agent: "b", Error: "down"},
		{Agent: "c", Response: "ok"},
	}
	assert.Equal(t, 2, outcomes.Successes())
	assert.True(t, outcomes[0].Success())
	assert.False(t, outcomes[1].Success())
}
