package model

// Outcome records the result of one specialist invocation during plan
// execution: either the response text or the captured failure, never both.
type Outcome struct {
	Agent    string `json:"agent"`
	Query    string `json:"query"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`

	// OutputVar carries the variable name the result should be bound to;
	// empty when the action declared none.
	OutputVar string `json:"outputVar,omitempty"`
}

// Success reports whether the invocation produced a response.
func (o *Outcome) Success() bool {
	return o != nil && o.Error == ""
}

// Outcomes is the ordered collection gathered over one plan execution.
// Parallel group members land in completion order, not declaration order.
type Outcomes []*Outcome

// Successes counts outcomes that carry a response.
func (o Outcomes) Successes() int {
	count := 0
	for _, outcome := range o {
		if outcome.Success() {
			count++
		}
	}
	return count
}
