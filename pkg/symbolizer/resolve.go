package symbolizer

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
)

// Resolved holds concrete property values for one feature, keyed by
// property key. Values have the Go type of the key's declared kind: Color,
// float64, int64, bool, string, DashArray or Transform.
type Resolved map[Key]any

// Resolve evaluates every set property against f. A property that fails is
// replaced by its key default and its error is returned alongside; the
// remaining properties still resolve.
func (s *Symbolizer) Resolve(f *feature.Feature, vars expr.Vars) (Resolved, []error) {
	out := make(Resolved, len(s.props))
	var errs []error
	for _, key := range s.props.Keys() {
		v, err := resolveKey(s, key, f, vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			v = key.Default()
		}
		out[key] = v
	}
	return out, errs
}

func resolveKey(s *Symbolizer, key Key, f *feature.Feature, vars expr.Vars) (any, error) {
	switch key.ValueKind() {
	case ValueColor:
		return Require(s, key, f, vars, key.Default().(Color))
	case ValueFloat:
		return Require(s, key, f, vars, key.Default().(float64))
	case ValueInt:
		def, _ := key.Default().(int64)
		return Require(s, key, f, vars, def)
	case ValueBool:
		return Require(s, key, f, vars, key.Default().(bool))
	case ValueEnum:
		v, err := Require(s, key, f, vars, key.Default().(string))
		if err != nil {
			return nil, err
		}
		if !slices.Contains(key.EnumValues(), v) {
			return nil, fmt.Errorf("%q is not a valid %s", v, key)
		}
		return v, nil
	case ValueString, ValueExpression:
		return Require(s, key, f, vars, key.Default().(string))
	case ValueDashArray:
		return Require(s, key, f, vars, key.Default().(DashArray))
	case ValueTransform:
		return Require(s, key, f, vars, key.Default().(Transform))
	}
	return nil, fmt.Errorf("unsupported value kind %s", key.ValueKind())
}

// Float returns a float property or its key default.
func (r Resolved) Float(key Key) float64 {
	if v, ok := r[key].(float64); ok {
		return v
	}
	f, _ := key.Default().(float64)
	return f
}

// Color returns a color property or its key default.
func (r Resolved) Color(key Key) Color {
	if v, ok := r[key].(Color); ok {
		return v
	}
	c, _ := key.Default().(Color)
	return c
}

// String returns a string, enum or expression property or its key default.
func (r Resolved) String(key Key) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	s, _ := key.Default().(string)
	return s
}

// Bool returns a boolean property or its key default.
func (r Resolved) Bool(key Key) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	b, _ := key.Default().(bool)
	return b
}

// DashArray returns a dash array property or nil.
func (r Resolved) DashArray(key Key) DashArray {
	v, _ := r[key].(DashArray)
	return v
}

// Transform returns a transform property or the identity.
func (r Resolved) Transform(key Key) Transform {
	v, _ := r[key].(Transform)
	return v
}

// MarshalJSON encodes the values keyed by property name.
func (r Resolved) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r))
	for k, v := range r {
		m[k.String()] = v
	}
	return json.Marshal(m)
}
