package types

import "fmt"

func NewAgentNotFoundError(name string) error {
	return fmt.Errorf("agent %v not found", name)
}

func NewAgentBlockedError(name string) error {
	return fmt.Errorf("agent %v blocked by policy", name)
}
