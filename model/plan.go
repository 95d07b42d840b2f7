package model

import "fmt"

// ActionKind discriminates the closed set of plan action variants. The
// executor matches exhaustively on this tag so an unhandled variant is a
// visible skip rather than a silent one.
type ActionKind string

const (
	// ActionDirectResponse carries an answer the supervisor gives without
	// delegating to any specialist.
	ActionDirectResponse ActionKind = "supervisor_direct_response"
	// ActionCallSpecialist is a single sequential specialist call.
	ActionCallSpecialist ActionKind = "call_specialist"
	// ActionParallelGroup fans a batch of specialist calls out concurrently.
	ActionParallelGroup ActionKind = "parallel_group"
	// ActionCondition appears in some planner output but has no execution
	// semantics; the executor skips it.
	ActionCondition ActionKind = "condition"
)

// Plan is the supervisor's answer to one routed request: free-form reasoning
// plus an ordered action list. Plans live only for the duration of a single
// request.
type Plan struct {
	Reasoning string    `json:"reasoning"`
	Actions   []*Action `json:"actions"`
}

// Action is one step of a plan. It is a tagged variant: Type selects which of
// the field groups below is meaningful.
type Action struct {
	Type ActionKind `json:"type"`

	// supervisor_direct_response
	Response string `json:"response,omitempty"`

	// call_specialist
	Agent     string `json:"agent,omitempty"`
	Query     string `json:"query,omitempty"`
	Step      int    `json:"step,omitempty"`
	OutputVar string `json:"output_var,omitempty"`

	// parallel_group
	Calls     []*SpecialistCall `json:"actions,omitempty"`
	DependsOn []string          `json:"depends_on,omitempty"`

	// condition (tolerated on decode, never executed)
	Condition string          `json:"condition,omitempty"`
	IfTrue    *SpecialistCall `json:"if_true,omitempty"`
	IfFalse   *SpecialistCall `json:"if_false,omitempty"`
}

// SpecialistCall names one specialist invocation inside a parallel group or a
// condition branch.
type SpecialistCall struct {
	Agent     string `json:"agent"`
	Query     string `json:"query"`
	OutputVar string `json:"output_var,omitempty"`
}

// Validate performs a best-effort structural check of the plan. The returned
// slice is empty when the plan is sound; it never prevents execution, the
// engine degrades per action instead.
func (p *Plan) Validate() []error {
	var issues []error
	if p == nil {
		return []error{fmt.Errorf("plan is nil")}
	}
	for i, action := range p.Actions {
		if action == nil {
			issues = append(issues, fmt.Errorf("action[%d] is nil", i))
			continue
		}
		switch action.Type {
		case ActionDirectResponse:
		case ActionCallSpecialist:
			if action.Agent == "" {
				issues = append(issues, fmt.Errorf("action[%d] call_specialist has no agent", i))
			}
		case ActionParallelGroup:
			if len(action.Calls) == 0 {
				issues = append(issues, fmt.Errorf("action[%d] parallel_group has no members", i))
			}
			for j, call := range action.Calls {
				if call == nil || call.Agent == "" {
					issues = append(issues, fmt.Errorf("action[%d] parallel member %d has no agent", i, j))
				}
			}
		case ActionCondition:
			issues = append(issues, fmt.Errorf("action[%d] condition actions are not executable", i))
		default:
			issues = append(issues, fmt.Errorf("action[%d] has unknown type %q", i, action.Type))
		}
	}
	return issues
}

// OutputVars lists every variable name the plan may bind, in declaration
// order. Later writers of a repeated name overwrite earlier ones.
func (p *Plan) OutputVars() []string {
	var vars []string
	for _, action := range p.Actions {
		if action == nil {
			continue
		}
		if action.OutputVar != "" {
			vars = append(vars, action.OutputVar)
		}
		for _, call := range action.Calls {
			if call != nil && call.OutputVar != "" {
				vars = append(vars, call.OutputVar)
			}
		}
	}
	return vars
}
