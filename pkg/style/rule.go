package style

import (
	"math"
	"slices"

	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// Rule is a filter, a scale range and an ordered list of symbolizers.
//
// A rule with Else set fires only when no filtered rule of its style
// matched; it never carries a Filter. A rule with neither fires for every
// feature.
type Rule struct {
	Name   string
	Filter *expr.Expr
	Else   bool

	// MinScale and MaxScale bound the scale denominators at which the rule
	// is active: MinScale <= denominator < MaxScale.
	MinScale float64
	MaxScale float64

	Symbolizers []*symbolizer.Symbolizer
}

// NewRule creates a rule active at every scale.
func NewRule(name string, symbolizers ...*symbolizer.Symbolizer) *Rule {
	return &Rule{
		Name:        name,
		MinScale:    0,
		MaxScale:    math.Inf(1),
		Symbolizers: symbolizers,
	}
}

// Active reports whether the rule applies at the scale denominator. The
// upper bound is exclusive.
func (r *Rule) Active(denominator float64) bool {
	return r.MinScale <= denominator && denominator < r.MaxScale
}

// Validate checks the rule invariants.
func (r *Rule) Validate() error {
	if r.Else && r.Filter != nil {
		return &RuleError{Rule: r.Name, Reason: "else rule cannot carry a filter"}
	}
	if math.IsNaN(r.MinScale) || math.IsNaN(r.MaxScale) {
		return &RuleError{Rule: r.Name, Reason: "scale bound is NaN"}
	}
	if r.MinScale < 0 {
		return &RuleError{Rule: r.Name, Reason: "negative min-scale"}
	}
	if r.MinScale > r.MaxScale {
		return &RuleError{Rule: r.Name, Reason: "min-scale exceeds max-scale"}
	}
	if slices.Contains(r.Symbolizers, nil) {
		return &RuleError{Rule: r.Name, Reason: "nil symbolizer"}
	}
	return nil
}

// Attributes lists the feature attributes the rule's filter and
// symbolizers read.
func (r *Rule) Attributes() []string {
	var names []string
	if r.Filter != nil {
		names = append(names, r.Filter.Attributes()...)
	}
	for _, s := range r.Symbolizers {
		names = append(names, s.Attributes()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
