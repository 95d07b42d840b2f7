// Package policy provides an optional per-specialist approval layer that can
// be attached to a route call via context.  It is deliberately decoupled from
// the rest of the engine so that using it is entirely opt-in – routers that do
// not embed the Policy in their context keep the original "auto" behaviour.
package policy

import (
	"context"
	"strings"
)

// Dispatch modes recognised by the execution engine.
const (
	ModeAsk  = "ask"  // ask user before every specialist call
	ModeAuto = "auto" // dispatch automatically (default)
	ModeDeny = "deny" // block specialist dispatch
)

// AskFunc is invoked when Mode==ask.  Returning true approves the specialist
// call, false rejects it.  Implementations MAY mutate the policy (for example,
// switching to ModeAuto after the first approval).
type AskFunc func(
	ctx context.Context,
	agent string, // specialist agent name
	query string, // substituted query about to be dispatched
	p *Policy,
) bool

// Policy represents the approval settings for the current route call.
//
//   - Mode controls the high-level behaviour (ask / auto / deny).
//   - AllowList, BlockList allow coarse filtering by agent name regardless
//     of Mode.
//   - Ask is only used when Mode==ask.
//
// A nil *Policy means "dispatch every specialist automatically" and is
// therefore the zero-cost default.
type Policy struct {
	Mode      string   // ask / auto / deny      (default = auto)
	AllowList []string // whitelist (empty => all agents)
	BlockList []string // blacklist
	Ask       AskFunc  // used only when Mode==ask
}

// Config represents the declarative, serialisable part of a Policy (a Policy
// with an AskFunc cannot be persisted).
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without
// AskFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList.  Both lists match the agent name
// by exact, case-insensitive string comparison.
func (p *Policy) IsAllowed(agent string) bool {
	if p == nil {
		return true
	}

	if p.Mode == ModeDeny {
		return false
	}

	normalized := strings.ToLower(agent)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}

	// AllowList – if empty everything is allowed, otherwise only the listed
	// agents.
	if len(p.AllowList) == 0 {
		return true
	}

	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}

	return false
}

// Approve runs the interactive gate for a specialist call.  It returns true
// when the call may proceed.
func (p *Policy) Approve(ctx context.Context, agent, query string) bool {
	if p == nil {
		return true
	}
	if !p.IsAllowed(agent) {
		return false
	}
	if p.Mode == ModeAsk && p.Ask != nil {
		return p.Ask(ctx, agent, query, p)
	}
	return true
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the Policy from ctx, nil when absent.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
