package router

import "fmt"

// planTemplateOptionA shows the supervisor the delegation plan shape.
// Condition actions have no execution semantics and are not advertised here.
const planTemplateOptionA = "```json\n" + `{
    "reasoning": "Your reasoning about the request",
    "actions": [
        {
            "type": "call_specialist",
            "agent": "agent1",
            "query": "Initial query",
            "step": 1,
            "output_var": "result1"
        },
        {
            "type": "parallel_group",
            "step": 2,
            "actions": [
                {
                    "agent": "agent2",
                    "query": "Process part of {{result1}}",
                    "output_var": "result2a"
                },
                {
                    "agent": "agent3",
                    "query": "Process another part of {{result1}}",
                    "output_var": "result2b"
                }
            ],
            "depends_on": ["result1"]
        }
    ]
}` + "\n```"

const planTemplateOptionB = "```json\n" + `{
    "reasoning": "Your reasoning about handling directly",
    "actions": [
        {
            "type": "supervisor_direct_response",
            "response": "Your direct response to the user"
        }
    ]
}` + "\n```"

const planningTemplate = `TASK: Determine how to handle this user request.

USER REQUEST: %s

AVAILABLE SPECIALIST AGENTS:
%s

INSTRUCTIONS:
1. Analyze the user request
2. Decide which specialist agent(s) should handle this request
3. Provide your plan as valid JSON with the following format (make sure to include all commas between properties):

Option A - If you need specialist agents:
%s

Option B - If you can handle directly:
%s`

const continuityTemplate = `TASK: Determine if this user message is a follow-up to the previous conversation with %[1]s.

PREVIOUS AGENT: %[1]s
AGENT CAPABILITIES: %[2]s

RECENT CONVERSATION:
%[3]s

NEW USER REQUEST: %[4]s

INSTRUCTIONS:
1. Read the previous agent response and user's new request carefully
2. Determine if the NEW REQUEST is directly related to what %[1]s was helping with
3. Respond with ONLY "YES" if the same agent should continue the conversation
4. Respond with ONLY "NO" if this is a new topic or request better handled by a different agent`

// planningPrompt renders the full planning instruction for one user request.
func planningPrompt(userInput, agentDescriptions string) string {
	return fmt.Sprintf(planningTemplate, userInput, agentDescriptions, planTemplateOptionA, planTemplateOptionB)
}

// continuityPrompt renders the yes/no follow-up check for the previously
// active agent.
func continuityPrompt(agentName, capabilities, recentExchange, userInput string) string {
	return fmt.Sprintf(continuityTemplate, agentName, capabilities, recentExchange, userInput)
}
