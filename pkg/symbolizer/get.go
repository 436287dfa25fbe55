package symbolizer

import (
	"fmt"

	"github.com/beetlebugorg/portrayal/internal/logging"
	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
)

// Get returns the value of key as T for feature f.
//
// An unset key yields def. A literal of type T is returned as is; other
// literals and expression results are coerced to T. When evaluation or
// coercion fails, the failure is logged at debug level and def is returned.
// Get never mutates s or f.
//
// Supported T: feature.Value, float64, float32, int, int64, bool, string,
// Color, DashArray, Transform and any.
func Get[T any](s *Symbolizer, key Key, f *feature.Feature, vars expr.Vars, def T) T {
	v, err := Require(s, key, f, vars, def)
	if err != nil {
		var id int64
		if f != nil {
			id = f.ID()
		}
		logging.Logger().Debug("property fell back to default",
			"symbolizer", s.kind.String(),
			"key", key.String(),
			"feature", id,
			"error", err)
		return def
	}
	return v
}

// Require is like Get but reports evaluation and coercion failures as an
// *expr.EvalError instead of falling back silently. An unset key still
// yields def without error.
func Require[T any](s *Symbolizer, key Key, f *feature.Feature, vars expr.Vars, def T) (T, error) {
	if s == nil {
		return def, nil
	}
	p, ok := s.props[key]
	if !ok {
		return def, nil
	}

	if !p.IsExpression() {
		if t, ok := p.literal.(T); ok {
			return t, nil
		}
		out, err := coerce[T](valueOfLiteral(p.literal))
		if err != nil {
			return def, &expr.EvalError{Expr: p.String(), Reason: fmt.Sprintf("cannot convert literal to %T", def), Err: err}
		}
		return out, nil
	}

	v, err := p.expr.Evaluate(expr.Context{Feature: f, Vars: vars})
	if err != nil {
		return def, err
	}
	out, err := coerce[T](v)
	if err != nil {
		return def, &expr.EvalError{Expr: p.String(), Reason: fmt.Sprintf("cannot convert result to %T", def), Err: err}
	}
	return out, nil
}

// coerce converts a dynamic value to T.
func coerce[T any](v feature.Value) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *feature.Value:
		*p = v
	case *float64:
		*p, err = v.ToFloat()
	case *float32:
		var f float64
		f, err = v.ToFloat()
		*p = float32(f)
	case *int64:
		*p, err = v.ToInt()
	case *int:
		var i int64
		i, err = v.ToInt()
		*p = int(i)
	case *bool:
		*p = v.ToBool()
	case *string:
		*p = v.ToString()
	case *Color:
		if v.IsNull() {
			return out, &feature.CoercionError{From: v.Kind(), To: "color"}
		}
		*p, err = ParseColor(v.ToString())
	case *DashArray:
		*p, err = ParseDashArray(v.ToString())
	case *Transform:
		*p, err = ParseTransform(v.ToString())
	case *any:
		*p = v.Interface()
	default:
		err = fmt.Errorf("unsupported property type %T", out)
	}
	return out, err
}
