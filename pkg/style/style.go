// Package style implements the rule cascade: styles are ordered rule sets
// and a RuleCache selects, per feature, which rules fire at the current
// scale denominator.
//
// Scale-eligible rules fall into three buckets. A rule with a filter fires
// when its filter is true. Else rules fire, all of them, only when no
// filtered rule fired. Rules with neither always fire. In FilterAll mode
// every firing rule contributes its symbolizers in declaration order; in
// FilterFirst mode only the first firing rule does.
//
// Example:
//
//	cache := style.NewRuleCache(s, denominator)
//	for f, ok := src.Next(); ok; f, ok = src.Next() {
//	    for _, sym := range cache.Symbolizers(f, vars) {
//	        draw(f, sym)
//	    }
//	}
package style

import (
	"fmt"
	"slices"
	"strings"
)

// FilterMode governs how many firing rules of a style contribute.
type FilterMode int

const (
	// FilterAll fires every matching rule.
	FilterAll FilterMode = iota

	// FilterFirst fires only the first matching rule.
	FilterFirst
)

// String returns the stylesheet name of the mode.
func (m FilterMode) String() string {
	if m == FilterFirst {
		return "first"
	}
	return "all"
}

// ParseFilterMode maps "all" or "first" to a mode. Empty text is FilterAll.
func ParseFilterMode(name string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return FilterAll, nil
	case "first":
		return FilterFirst, nil
	}
	return FilterAll, &ErrUnknownFilterMode{Name: name}
}

// Style is an ordered rule set with a filter mode.
type Style struct {
	Name       string
	FilterMode FilterMode
	Rules      []*Rule

	// Opacity scales the alpha of everything the style draws.
	Opacity float64
}

// New creates an empty, fully opaque style in FilterAll mode.
func New(name string, rules ...*Rule) *Style {
	return &Style{Name: name, FilterMode: FilterAll, Rules: rules, Opacity: 1}
}

// Validate checks every rule of the style.
func (s *Style) Validate() error {
	for i, r := range s.Rules {
		if r == nil {
			return &RuleError{Index: i, Reason: "nil rule"}
		}
		if err := r.Validate(); err != nil {
			if re, ok := err.(*RuleError); ok {
				re.Index = i
			}
			return fmt.Errorf("style %s: %w", s.Name, err)
		}
	}
	return nil
}

// Attributes lists the feature attributes any rule of the style reads.
func (s *Style) Attributes() []string {
	var names []string
	for _, r := range s.Rules {
		names = append(names, r.Attributes()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ScaleRange returns the smallest MinScale and largest MaxScale of the
// style's rules. A style without rules reports an empty range.
func (s *Style) ScaleRange() (min, max float64) {
	if len(s.Rules) == 0 {
		return 0, 0
	}
	min, max = s.Rules[0].MinScale, s.Rules[0].MaxScale
	for _, r := range s.Rules[1:] {
		if r.MinScale < min {
			min = r.MinScale
		}
		if r.MaxScale > max {
			max = r.MaxScale
		}
	}
	return min, max
}
