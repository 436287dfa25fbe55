package parser

import (
	"math"
	"unicode/utf8"

	"github.com/beetlebugorg/portrayal/pkg/feature"
)

func (n *Literal) Eval(*Env) (feature.Value, error) {
	return n.Value, nil
}

// Eval returns null for attributes the feature does not carry.
func (n *Attribute) Eval(env *Env) (feature.Value, error) {
	if env == nil || env.Feature == nil {
		return feature.Null(), nil
	}
	return env.Feature.Get(n.Name), nil
}

func (n *Variable) Eval(env *Env) (feature.Value, error) {
	if env != nil {
		if v, ok := env.Vars[n.Name]; ok {
			return v, nil
		}
	}
	return feature.Value{}, &EvalError{Expr: n.String(), Reason: "undefined variable"}
}

func (n *Unary) Eval(env *Env) (feature.Value, error) {
	v, err := n.X.Eval(env)
	if err != nil {
		return v, err
	}
	switch v.Kind() {
	case feature.KindNull:
		return v, nil
	case feature.KindInt:
		i, _ := v.ToInt()
		return feature.Int(-i), nil
	}
	f, err := v.ToFloat()
	if err != nil {
		return feature.Value{}, &EvalError{Expr: n.String(), Reason: "negating non-number", Err: err}
	}
	return feature.Float(-f), nil
}

func (n *Not) Eval(env *Env) (feature.Value, error) {
	v, err := n.X.Eval(env)
	if err != nil {
		return v, err
	}
	return feature.Bool(!v.ToBool()), nil
}

func (n *Logical) Eval(env *Env) (feature.Value, error) {
	l, err := n.L.Eval(env)
	if err != nil {
		return l, err
	}
	lb := l.ToBool()
	if n.Op == "or" && lb {
		return feature.Bool(true), nil
	}
	if n.Op == "and" && !lb {
		return feature.Bool(false), nil
	}
	r, err := n.R.Eval(env)
	if err != nil {
		return r, err
	}
	return feature.Bool(r.ToBool()), nil
}

func (n *Binary) Eval(env *Env) (feature.Value, error) {
	l, err := n.L.Eval(env)
	if err != nil {
		return l, err
	}
	r, err := n.R.Eval(env)
	if err != nil {
		return r, err
	}

	switch n.Op {
	case "=":
		return feature.Bool(l.Equal(r)), nil
	case "!=":
		return feature.Bool(!l.Equal(r)), nil
	case "<", "<=", ">", ">=":
		c, err := l.Compare(r)
		if err != nil {
			return feature.Value{}, &EvalError{Expr: n.String(), Reason: "incomparable operands", Err: err}
		}
		switch n.Op {
		case "<":
			return feature.Bool(c < 0), nil
		case "<=":
			return feature.Bool(c <= 0), nil
		case ">":
			return feature.Bool(c > 0), nil
		default:
			return feature.Bool(c >= 0), nil
		}
	}
	return n.arithmetic(l, r)
}

// arithmetic applies + - * / %. Null operands yield null; string operands
// concatenate under + and are parsed as numbers otherwise. Integer operands
// stay integers.
func (n *Binary) arithmetic(l, r feature.Value) (feature.Value, error) {
	if l.IsNull() || r.IsNull() {
		return feature.Null(), nil
	}
	if n.Op == "+" && (l.Kind() == feature.KindString || r.Kind() == feature.KindString) {
		return feature.String(l.ToString() + r.ToString()), nil
	}

	if l.Kind() == feature.KindInt && r.Kind() == feature.KindInt {
		a, _ := l.ToInt()
		b, _ := r.ToInt()
		switch n.Op {
		case "+":
			return feature.Int(a + b), nil
		case "-":
			return feature.Int(a - b), nil
		case "*":
			return feature.Int(a * b), nil
		case "/", "%":
			if b == 0 {
				return feature.Value{}, &EvalError{Expr: n.String(), Reason: "division by zero"}
			}
			if n.Op == "/" {
				return feature.Int(a / b), nil
			}
			return feature.Int(a % b), nil
		}
	}

	a, err := l.ToFloat()
	if err != nil {
		return feature.Value{}, &EvalError{Expr: n.String(), Reason: "non-numeric operand", Err: err}
	}
	b, err := r.ToFloat()
	if err != nil {
		return feature.Value{}, &EvalError{Expr: n.String(), Reason: "non-numeric operand", Err: err}
	}
	switch n.Op {
	case "+":
		return feature.Float(a + b), nil
	case "-":
		return feature.Float(a - b), nil
	case "*":
		return feature.Float(a * b), nil
	case "/":
		if b == 0 {
			return feature.Value{}, &EvalError{Expr: n.String(), Reason: "division by zero"}
		}
		return feature.Float(a / b), nil
	case "%":
		if b == 0 {
			return feature.Value{}, &EvalError{Expr: n.String(), Reason: "division by zero"}
		}
		return feature.Float(math.Mod(a, b)), nil
	}
	return feature.Value{}, &EvalError{Expr: n.String(), Reason: "unknown operator " + n.Op}
}

func (n *Match) Eval(env *Env) (feature.Value, error) {
	v, err := n.X.Eval(env)
	if err != nil {
		return v, err
	}
	ok, err := n.re.MatchString(v.ToString())
	if err != nil {
		return feature.Value{}, &EvalError{Expr: n.String(), Reason: "regex match failed", Err: err}
	}
	return feature.Bool(ok), nil
}

func (n *Replace) Eval(env *Env) (feature.Value, error) {
	v, err := n.X.Eval(env)
	if err != nil {
		return v, err
	}
	out, err := n.re.Replace(v.ToString(), n.With, -1, -1)
	if err != nil {
		return feature.Value{}, &EvalError{Expr: n.String(), Reason: "regex replace failed", Err: err}
	}
	return feature.String(out), nil
}

// builtin describes a function callable from expressions.
type builtin struct {
	arity int
	fn    func(n *Call, env *Env, args []feature.Value) (feature.Value, error)
}

var builtins = map[string]builtin{
	"abs":        unaryMath(math.Abs),
	"sin":        unaryMath(math.Sin),
	"cos":        unaryMath(math.Cos),
	"tan":        unaryMath(math.Tan),
	"atan":       unaryMath(math.Atan),
	"exp":        unaryMath(math.Exp),
	"log":        unaryMath(math.Log),
	"sqrt":       unaryMath(math.Sqrt),
	"min":        binaryMath(math.Min),
	"max":        binaryMath(math.Max),
	"pow":        binaryMath(math.Pow),
	"length":     {arity: 1, fn: callLength},
	"intersects": {arity: 4, fn: callIntersects},
}

func unaryMath(f func(float64) float64) builtin {
	return builtin{arity: 1, fn: func(n *Call, _ *Env, args []feature.Value) (feature.Value, error) {
		if args[0].IsNull() {
			return feature.Null(), nil
		}
		x, err := args[0].ToFloat()
		if err != nil {
			return feature.Value{}, &EvalError{Expr: n.String(), Reason: "non-numeric argument", Err: err}
		}
		return feature.Float(f(x)), nil
	}}
}

func binaryMath(f func(a, b float64) float64) builtin {
	return builtin{arity: 2, fn: func(n *Call, _ *Env, args []feature.Value) (feature.Value, error) {
		a, err := args[0].ToFloat()
		if err != nil {
			return feature.Value{}, &EvalError{Expr: n.String(), Reason: "non-numeric argument", Err: err}
		}
		b, err := args[1].ToFloat()
		if err != nil {
			return feature.Value{}, &EvalError{Expr: n.String(), Reason: "non-numeric argument", Err: err}
		}
		return feature.Float(f(a, b)), nil
	}}
}

func callLength(_ *Call, _ *Env, args []feature.Value) (feature.Value, error) {
	return feature.Int(int64(utf8.RuneCountInString(args[0].ToString()))), nil
}

// callIntersects tests the feature bound against minx, miny, maxx, maxy.
func callIntersects(n *Call, env *Env, args []feature.Value) (feature.Value, error) {
	var box [4]float64
	for i, a := range args {
		f, err := a.ToFloat()
		if err != nil {
			return feature.Value{}, &EvalError{Expr: n.String(), Reason: "non-numeric bound", Err: err}
		}
		box[i] = f
	}
	if env == nil || env.Feature == nil || env.Feature.Geometry() == nil {
		return feature.Bool(false), nil
	}
	b := env.Feature.Bounds()
	hit := b.Min[0] <= box[2] && b.Max[0] >= box[0] && b.Min[1] <= box[3] && b.Max[1] >= box[1]
	return feature.Bool(hit), nil
}

func (n *Call) Eval(env *Env) (feature.Value, error) {
	b, ok := builtins[n.Name]
	if !ok {
		return feature.Value{}, &EvalError{Expr: n.String(), Reason: "call failed", Err: &ErrUnknownFunction{Name: n.Name}}
	}
	args := make([]feature.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(env)
		if err != nil {
			return v, err
		}
		args[i] = v
	}
	return b.fn(n, env, args)
}
