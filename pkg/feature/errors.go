package feature

import (
	"fmt"
)

// CoercionError indicates a value could not be converted to the requested type
type CoercionError struct {
	From  Kind
	To    string
	Value string
}

func (e *CoercionError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("cannot convert %s %q to %s", e.From, e.Value, e.To)
	}
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

// ErrInvalidFeature indicates a feature could not be built from its source record
type ErrInvalidFeature struct {
	Index  int
	Reason string
}

func (e *ErrInvalidFeature) Error() string {
	return fmt.Sprintf("invalid feature at index %d: %s", e.Index, e.Reason)
}
