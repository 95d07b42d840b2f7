// Package expander implements placeholder substitution for intermediate
// results. Substitution is pure text replacement: every bound variable name
// replaces its literal {{name}} token, values are always text, there is no
// recursive expansion and no escaping. Placeholders with no binding stay in
// the text verbatim.
package expander

import "strings"

// Bindings maps output variable names to their bound text values.
type Bindings map[string]string

// Bind adds or overwrites a binding; later writers of a reused name win.
func (b Bindings) Bind(name, value string) {
	if name == "" {
		return
	}
	b[name] = value
}

// Substitute replaces every {{name}} token that has a binding. Unresolved
// tokens are left untouched. The text is scanned once, left to right, so a
// bound value containing another {{token}} is never expanded again.
func Substitute(text string, bindings Bindings) string {
	if text == "" || len(bindings) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	return substitute(text, func(name string) (string, bool) {
		value, ok := bindings[name]
		return value, ok
	})
}

// SubstituteNames replaces only the named bindings, used by parallel groups
// whose dependsOn list scopes which variables flow in.
func SubstituteNames(text string, names []string, bindings Bindings) string {
	if text == "" || len(names) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	allowed := make(map[string]bool, len(names))
	for _, name := range names {
		allowed[name] = true
	}
	return substitute(text, func(name string) (string, bool) {
		if !allowed[name] {
			return "", false
		}
		value, ok := bindings[name]
		return value, ok
	})
}

// substitute resolves each {{name}} token at most once; tokens the resolver
// rejects are emitted verbatim.
func substitute(text string, resolve func(name string) (string, bool)) string {
	var out strings.Builder
	rest := text
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end == -1 {
			break
		}
		value, ok := resolve(rest[start+2 : start+2+end])
		if !ok {
			out.WriteString(rest[:start+2])
			rest = rest[start+2:]
			continue
		}
		out.WriteString(rest[:start])
		out.WriteString(value)
		rest = rest[start+2+end+2:]
	}
	out.WriteString(rest)
	return out.String()
}
