package style

import (
	"fmt"
)

// RuleError indicates a rule that violates a structural invariant
type RuleError struct {
	Rule   string
	Index  int
	Reason string
}

func (e *RuleError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("rule %d (%s): %s", e.Index, e.Rule, e.Reason)
	}
	return fmt.Sprintf("rule %d: %s", e.Index, e.Reason)
}

// ErrUnknownFilterMode indicates a filter mode name other than all or first
type ErrUnknownFilterMode struct {
	Name string
}

func (e *ErrUnknownFilterMode) Error() string {
	return fmt.Sprintf("unknown filter mode: %q (want all or first)", e.Name)
}
