// Package expr provides compiled filter and value expressions.
//
// Expressions read feature attributes ([name]), runtime variables (@name)
// and literals, and combine them with arithmetic, comparison and logical
// operators, regular expression matching and a small set of functions.
//
// Example:
//
//	e, err := expr.Parse("[population] > 100000 and [name].match('^San')")
//	if err != nil {
//	    return err
//	}
//	v, err := e.Evaluate(expr.Context{Feature: f})
package expr

import (
	"github.com/beetlebugorg/portrayal/internal/parser"
	"github.com/beetlebugorg/portrayal/pkg/feature"
)

// SyntaxError reports malformed expression text with its byte offset.
type SyntaxError = parser.SyntaxError

// EvalError reports an expression that could not be evaluated for a
// particular feature.
type EvalError = parser.EvalError

// Vars holds the named runtime variables of a render pass.
type Vars map[string]feature.Value

// Context is the evaluation input: a feature and runtime variables. Both
// may be nil; missing attributes read as null.
type Context struct {
	Feature *feature.Feature
	Vars    Vars
}

// Expr is a compiled expression. It is immutable and safe for concurrent
// use.
type Expr struct {
	source string
	node   parser.Node
}

// Parse compiles expression text. Errors are *SyntaxError.
func Parse(source string) (*Expr, error) {
	node, err := parser.ParseExpression(source)
	if err != nil {
		return nil, err
	}
	return &Expr{source: source, node: node}, nil
}

// MustParse is like Parse but panics on error. It is intended for
// expressions fixed at compile time.
func MustParse(source string) *Expr {
	e, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return e
}

// Evaluate computes the expression value.
func (e *Expr) Evaluate(ctx Context) (feature.Value, error) {
	return e.node.Eval(&parser.Env{Feature: ctx.Feature, Vars: ctx.Vars})
}

// Bool evaluates the expression as a filter.
func (e *Expr) Bool(ctx Context) (bool, error) {
	v, err := e.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	return v.ToBool(), nil
}

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string {
	return e.source
}

// String returns the canonical, fully parenthesised form.
func (e *Expr) String() string {
	return e.node.String()
}

// Attributes lists the feature attributes the expression reads.
func (e *Expr) Attributes() []string {
	return parser.Attributes(e.node)
}

// Variables lists the runtime variables the expression reads.
func (e *Expr) Variables() []string {
	return parser.Variables(e.node)
}

// IsConstant reports whether the expression evaluates the same for every
// feature.
func (e *Expr) IsConstant() bool {
	return parser.IsConstant(e.node)
}

// MarshalText implements encoding.TextMarshaler.
func (e *Expr) MarshalText() ([]byte, error) {
	return []byte(e.source), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Expr) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = *parsed
	return nil
}
