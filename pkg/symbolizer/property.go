package symbolizer

import (
	"sort"

	"github.com/beetlebugorg/portrayal/pkg/expr"
)

// Property is a symbolizer property value: either a literal or an
// expression evaluated per feature.
type Property struct {
	literal any
	expr    *expr.Expr
}

// Literal wraps a literal property value.
func Literal(v any) Property {
	return Property{literal: v}
}

// Expression wraps an expression property value.
func Expression(e *expr.Expr) Property {
	return Property{expr: e}
}

// IsExpression reports whether the property is evaluated per feature.
func (p Property) IsExpression() bool {
	return p.expr != nil
}

// Expr returns the expression of an expression property, or nil.
func (p Property) Expr() *expr.Expr {
	return p.expr
}

// Value returns the literal of a literal property, or nil.
func (p Property) Value() any {
	return p.literal
}

// String returns the expression text or the literal formatted for a
// stylesheet.
func (p Property) String() string {
	if p.expr != nil {
		return p.expr.Source()
	}
	return formatLiteral(p.literal)
}

// Properties maps keys to property values.
type Properties map[Key]Property

// Keys returns the keys in declaration order.
func (p Properties) Keys() []Key {
	keys := make([]Key, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns a shallow copy; property values are immutable.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
