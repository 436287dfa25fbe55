package style

import (
	"github.com/beetlebugorg/portrayal/internal/logging"
	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

type bucket int

const (
	bucketIf bucket = iota
	bucketElse
	bucketAlso
)

// cachedRule remembers a rule's bucket and declaration position
type cachedRule struct {
	rule   *Rule
	bucket bucket
	index  int // position among the scale-eligible rules
}

// RuleCache is the per-render-pass partition of a style's scale-eligible
// rules into filtered, else and unconditional buckets.
//
// It holds pointers into the style's rules, which must outlive it. It is
// built once per layer render and read once per feature; it is not safe
// for concurrent use.
type RuleCache struct {
	mode        FilterMode
	denominator float64

	ordered []cachedRule
	ifRules []cachedRule
	hasElse bool

	// scratch filter results, indexed like ordered
	matched []bool
}

// NewRuleCache partitions the rules of s that are active at denominator.
func NewRuleCache(s *Style, denominator float64) *RuleCache {
	c := &RuleCache{mode: s.FilterMode, denominator: denominator}
	for _, r := range s.Rules {
		if r == nil || !r.Active(denominator) {
			continue
		}
		cr := cachedRule{rule: r, index: len(c.ordered)}
		switch {
		case r.Else:
			cr.bucket = bucketElse
			c.hasElse = true
		case r.Filter != nil:
			cr.bucket = bucketIf
			c.ifRules = append(c.ifRules, cr)
		default:
			cr.bucket = bucketAlso
		}
		c.ordered = append(c.ordered, cr)
	}
	c.matched = make([]bool, len(c.ordered))
	return c
}

// Len returns the number of scale-eligible rules.
func (c *RuleCache) Len() int {
	return len(c.ordered)
}

// Empty reports whether no rule is eligible at the cache's scale, so no
// feature can produce output.
func (c *RuleCache) Empty() bool {
	return len(c.ordered) == 0
}

// FilterMode returns the filter mode of the cached style.
func (c *RuleCache) FilterMode() FilterMode {
	return c.mode
}

// ScaleDenominator returns the denominator the cache was built for.
func (c *RuleCache) ScaleDenominator() float64 {
	return c.denominator
}

// If returns the eligible rules that carry a filter, in declaration order.
func (c *RuleCache) If() []*Rule { return c.bucketRules(bucketIf) }

// Else returns the eligible else rules, in declaration order.
func (c *RuleCache) Else() []*Rule { return c.bucketRules(bucketElse) }

// Also returns the eligible unconditional rules, in declaration order.
func (c *RuleCache) Also() []*Rule { return c.bucketRules(bucketAlso) }

func (c *RuleCache) bucketRules(b bucket) []*Rule {
	var out []*Rule
	for _, cr := range c.ordered {
		if cr.bucket == b {
			out = append(out, cr.rule)
		}
	}
	return out
}

// Match returns the rules that fire for f, in declaration order. In
// FilterFirst mode at most one rule is returned.
func (c *RuleCache) Match(f *feature.Feature, vars expr.Vars) []*Rule {
	if len(c.ordered) == 0 {
		return nil
	}
	ctx := expr.Context{Feature: f, Vars: vars}

	if c.mode == FilterFirst {
		if r := c.first(ctx); r != nil {
			return []*Rule{r}
		}
		return nil
	}

	anyIf := false
	for _, cr := range c.ifRules {
		c.matched[cr.index] = c.eval(cr.rule, ctx)
		anyIf = anyIf || c.matched[cr.index]
	}
	elseFires := !anyIf && c.hasElse

	var out []*Rule
	for _, cr := range c.ordered {
		switch cr.bucket {
		case bucketIf:
			if c.matched[cr.index] {
				out = append(out, cr.rule)
			}
		case bucketElse:
			if elseFires {
				out = append(out, cr.rule)
			}
		case bucketAlso:
			out = append(out, cr.rule)
		}
	}
	return out
}

// first returns the first firing rule in declaration order. Filters are
// evaluated lazily; an else rule forces evaluation of the filtered rules
// until one matches, since it fires only if none does.
func (c *RuleCache) first(ctx expr.Context) *Rule {
	evaluated := 0 // ifRules[:evaluated] are known not to match
	anyIfMatches := func() bool {
		for ; evaluated < len(c.ifRules); evaluated++ {
			if c.eval(c.ifRules[evaluated].rule, ctx) {
				return true
			}
		}
		return false
	}

	for _, cr := range c.ordered {
		switch cr.bucket {
		case bucketAlso:
			return cr.rule
		case bucketIf:
			if evaluated < len(c.ifRules) && c.ifRules[evaluated].index == cr.index {
				evaluated++
				if c.eval(cr.rule, ctx) {
					return cr.rule
				}
			}
		case bucketElse:
			if !anyIfMatches() {
				return cr.rule
			}
			// a later filtered rule matches; it is the first to fire
			return c.ifRules[evaluated].rule
		}
	}
	return nil
}

// eval runs a rule filter. Evaluation errors count as false.
func (c *RuleCache) eval(r *Rule, ctx expr.Context) bool {
	ok, err := r.Filter.Bool(ctx)
	if err != nil {
		var id int64
		if ctx.Feature != nil {
			id = ctx.Feature.ID()
		}
		logging.Logger().Debug("rule filter failed, treating as false",
			"rule", r.Name,
			"filter", r.Filter.Source(),
			"feature", id,
			"error", err)
		return false
	}
	return ok
}

// Symbolizers returns the symbolizers of the rules that fire for f,
// concatenated in declaration order.
func (c *RuleCache) Symbolizers(f *feature.Feature, vars expr.Vars) []*symbolizer.Symbolizer {
	var out []*symbolizer.Symbolizer
	for _, r := range c.Match(f, vars) {
		out = append(out, r.Symbolizers...)
	}
	return out
}
