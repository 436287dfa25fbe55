package symbolizer

import (
	"fmt"
)

// UnknownKindError indicates a symbolizer name outside the closed kind set
type UnknownKindError struct {
	Name string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown symbolizer kind: %q", e.Name)
}

// PropertyError indicates a property value that does not fit its key
type PropertyError struct {
	Kind   Kind
	Key    Key
	Name   string // raw name when the key itself is unknown
	Reason string
	Err    error
}

func (e *PropertyError) Error() string {
	name := e.Name
	if e.Key.Valid() {
		name = e.Key.String()
	}
	msg := fmt.Sprintf("%s symbolizer property %q: %s", e.Kind, name, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}
