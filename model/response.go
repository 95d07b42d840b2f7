package model

// Response source labels used in metadata.
const (
	SourceSupervisorDirect = "supervisor_direct"
	SourceSynthesis        = "synthesis"
	SourceErrorFallback    = "error_fallback"
)

// PlanContinuation is reported as the plan description when a request was
// routed straight to the previously active agent.
const PlanContinuation = "Direct continuation"

// FallbackResponse is returned when a plan produced neither a direct response
// nor any specialist outcome.
const FallbackResponse = "I apologize, but I encountered an issue while processing your request. " +
	"Could you please try again or rephrase your question?"

// Metadata describes how a response was produced.
type Metadata struct {
	// Source is either one of the Source* labels or the name of the single
	// agent that answered.
	Source string `json:"source"`
	// AgentCount is the number of specialist outcomes collected.
	AgentCount int `json:"agent_count"`
	// Plan echoes the supervisor's reasoning, or PlanContinuation.
	Plan string `json:"plan"`
}

// Response is the final answer to one routed request.
type Response struct {
	Output   string   `json:"output"`
	Metadata Metadata `json:"metadata"`
}
