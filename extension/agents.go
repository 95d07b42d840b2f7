package extension

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jlord31/autonomous-agents/model/types"
	"github.com/viant/x"
)

// Agents keeps the specialist roster for one routing service. Registration
// order is preserved for prompt rendering so that planning output stays
// stable between calls.
type Agents struct {
	types  *Types
	agents map[string]types.Agent
	order  []string
	mux    sync.RWMutex
}

// Types returns the payload type registry shared by the registered agents.
func (a *Agents) Types() *Types {
	return a.types
}

// Register adds an agent to the roster; a repeated name replaces the previous
// registration but keeps its original position.
func (a *Agents) Register(agent types.Agent) {
	if agent == nil || agent.Name() == "" {
		return
	}
	a.mux.Lock()
	defer a.mux.Unlock()

	if typer, ok := agent.(DataTypeIniter); ok {
		typer.InitTypes(a.types)
	}
	if _, exists := a.agents[agent.Name()]; !exists {
		a.order = append(a.order, agent.Name())
	}
	a.agents[agent.Name()] = agent
}

// Lookup returns an agent by name, nil when unknown.
func (a *Agents) Lookup(name string) types.Agent {
	a.mux.RLock()
	defer a.mux.RUnlock()
	return a.agents[name]
}

// Names returns the registered agent names in registration order.
func (a *Agents) Names() []string {
	a.mux.RLock()
	defer a.mux.RUnlock()
	return append([]string(nil), a.order...)
}

// Size returns the number of registered agents.
func (a *Agents) Size() int {
	a.mux.RLock()
	defer a.mux.RUnlock()
	return len(a.agents)
}

// Descriptions renders the roster as a bullet list for the planning prompt.
// Agents exposing tools get them folded into the line.
func (a *Agents) Descriptions() string {
	a.mux.RLock()
	defer a.mux.RUnlock()

	var lines []string
	for _, name := range a.order {
		agent := a.agents[name]
		line := fmt.Sprintf("- %s: %s", agent.Name(), agent.Description())
		if lister, ok := agent.(types.ToolLister); ok {
			if tools := lister.Tools(); len(tools) > 0 {
				toolNames := make([]string, 0, len(tools))
				for _, tool := range tools {
					toolNames = append(toolNames, tool.Name)
				}
				sort.Strings(toolNames)
				line += fmt.Sprintf(" (Tools: %s)", strings.Join(toolNames, ", "))
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// DataTypeIniter lets an agent register its payload types at registration
// time.
type DataTypeIniter interface {
	InitTypes(types *Types)
}

// NewAgents creates an agent roster, optionally pre-registering payload
// types.
func NewAgents(goTypes ...*x.Type) *Agents {
	ret := &Agents{
		types:  NewTypes(),
		agents: make(map[string]types.Agent),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
