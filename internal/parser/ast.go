package parser

import (
	"strconv"
	"strings"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/dlclark/regexp2"
)

// Env is the evaluation environment: the feature being drawn and the
// runtime variables of the render pass. Either may be nil.
type Env struct {
	Feature *feature.Feature
	Vars    map[string]feature.Value
}

// Node is a parsed expression tree node.
//
// Nodes are immutable after parsing and safe for concurrent evaluation.
type Node interface {
	// Eval computes the node's value in env.
	Eval(env *Env) (feature.Value, error)

	// String renders the node back to expression text.
	String() string
}

// Literal is a constant value.
type Literal struct {
	Value feature.Value
}

// Attribute reads a feature attribute, written [name].
type Attribute struct {
	Name string
}

// Variable reads a runtime variable, written @name.
type Variable struct {
	Name string
}

// Unary is arithmetic negation.
type Unary struct {
	X Node
}

// Not is logical negation, written not or !.
type Not struct {
	X Node
}

// Binary is an arithmetic or comparison operator.
type Binary struct {
	Op   string
	L, R Node
}

// Logical is a short-circuit and/or.
type Logical struct {
	Op   string // "and" or "or"
	L, R Node
}

// Call is a built-in function call.
type Call struct {
	Name string
	Args []Node
}

// Match tests the string form of X against a regular expression.
type Match struct {
	X       Node
	Pattern string
	re      *regexp2.Regexp
}

// Replace substitutes regular expression matches in the string form of X.
type Replace struct {
	X       Node
	Pattern string
	With    string
	re      *regexp2.Regexp
}

func (n *Literal) String() string {
	if n.Value.Kind() == feature.KindString {
		r := strings.NewReplacer(`\`, `\\`, "'", `\'`)
		return "'" + r.Replace(n.Value.ToString()) + "'"
	}
	s := n.Value.String()
	if n.Value.Kind() == feature.KindFloat && !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

func (n *Attribute) String() string { return "[" + n.Name + "]" }

func (n *Variable) String() string { return "@" + n.Name }

func (n *Unary) String() string { return "-" + n.X.String() }

func (n *Not) String() string { return "not " + n.X.String() }

func (n *Binary) String() string {
	return "(" + n.L.String() + " " + n.Op + " " + n.R.String() + ")"
}

func (n *Logical) String() string {
	return "(" + n.L.String() + " " + n.Op + " " + n.R.String() + ")"
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ",") + ")"
}

func (n *Match) String() string {
	return n.X.String() + ".match(" + strconv.Quote(n.Pattern) + ")"
}

func (n *Replace) String() string {
	return n.X.String() + ".replace(" + strconv.Quote(n.Pattern) + "," + strconv.Quote(n.With) + ")"
}

// Walk visits n and its children depth first. Returning false from fn
// skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch t := n.(type) {
	case *Unary:
		Walk(t.X, fn)
	case *Not:
		Walk(t.X, fn)
	case *Binary:
		Walk(t.L, fn)
		Walk(t.R, fn)
	case *Logical:
		Walk(t.L, fn)
		Walk(t.R, fn)
	case *Call:
		for _, a := range t.Args {
			Walk(a, fn)
		}
	case *Match:
		Walk(t.X, fn)
	case *Replace:
		Walk(t.X, fn)
	}
}
