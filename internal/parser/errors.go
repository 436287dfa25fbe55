package parser

import (
	"fmt"
)

// SyntaxError indicates malformed expression or transform text
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d in %q: %s", e.Pos, e.Input, e.Msg)
}

// EvalError indicates an expression could not be evaluated for a feature
type EvalError struct {
	Expr   string
	Reason string
	Err    error
}

func (e *EvalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("evaluating %s: %s: %v", e.Expr, e.Reason, e.Err)
	}
	return fmt.Sprintf("evaluating %s: %s", e.Expr, e.Reason)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// ErrUnknownFunction indicates a call to a function the evaluator does not provide
type ErrUnknownFunction struct {
	Name string
}

func (e *ErrUnknownFunction) Error() string {
	return fmt.Sprintf("unknown function: %s", e.Name)
}

// ErrArity indicates a function called with the wrong number of arguments
type ErrArity struct {
	Name string
	Want int
	Got  int
}

func (e *ErrArity) Error() string {
	return fmt.Sprintf("%s expects %d arguments, got %d", e.Name, e.Want, e.Got)
}
