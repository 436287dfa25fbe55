package symbolizer

import (
	"strconv"
	"strings"

	"github.com/beetlebugorg/portrayal/internal/logging"
	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/group"
)

// TextBlock is the placement configuration of text-bearing symbolizers.
type TextBlock struct {
	// Strategy names the placement strategy: "dummy", "simple", "list" or
	// "combined".
	Strategy string

	// Positions lists simple placement directions and sizes, for example
	// "N,S,E,W,12,10". Used by the simple and combined strategies.
	Positions string

	// List holds alternative property sets tried after the symbolizer's
	// own properties by the list and combined strategies.
	List []Properties
}

// Clone returns a deep copy of the block.
func (t *TextBlock) Clone() *TextBlock {
	if t == nil {
		return nil
	}
	out := &TextBlock{Strategy: t.Strategy, Positions: t.Positions}
	for _, p := range t.List {
		out.List = append(out.List, p.Clone())
	}
	return out
}

// GroupBlock configures the group symbolizer: which attribute columns form
// members, how members are laid out and which rules draw each member.
type GroupBlock struct {
	// ColumnStart and ColumnEnd bound the column indexes, inclusive.
	ColumnStart, ColumnEnd int

	// Layout selects the member layout algorithm.
	Layout group.Kind

	// Margin separates members.
	Margin float64

	// MaxDifference bounds the width difference of paired members; a
	// negative value disables the check.
	MaxDifference float64

	// Rules select the symbolizers drawn for each column.
	Rules []*GroupRule
}

// GroupRule selects symbolizers for one group member.
type GroupRule struct {
	// Filter selects the columns the rule applies to. Nil matches every
	// column.
	Filter *expr.Expr

	// RepeatKey, when set, identifies members for repeat suppression.
	RepeatKey *expr.Expr

	Symbolizers []*Symbolizer
}

// Columns returns the column indexes in order.
func (g *GroupBlock) Columns() []int {
	if g.ColumnEnd < g.ColumnStart {
		return nil
	}
	out := make([]int, 0, g.ColumnEnd-g.ColumnStart+1)
	for i := g.ColumnStart; i <= g.ColumnEnd; i++ {
		out = append(out, i)
	}
	return out
}

// NewLayout returns an empty layout configured from the block.
func (g *GroupBlock) NewLayout() *group.Layout {
	return group.New(g.Layout, g.Margin, g.MaxDifference)
}

// Matches reports whether the rule applies to a column feature. Filter
// evaluation errors count as no match.
func (r *GroupRule) Matches(f *feature.Feature, vars expr.Vars) bool {
	if r.Filter == nil {
		return true
	}
	ok, err := r.Filter.Bool(expr.Context{Feature: f, Vars: vars})
	if err != nil {
		logging.Logger().Debug("group rule filter failed", "filter", r.Filter.Source(), "error", err)
		return false
	}
	return ok
}

// ColumnFeature derives the feature seen by group rules for one column.
//
// Every attribute whose name ends in the column index is also exposed with
// the index replaced by "%", so "name2" reads as [name%] in column 2. The
// remaining attributes pass through unchanged.
func ColumnFeature(f *feature.Feature, column int) *feature.Feature {
	suffix := strconv.Itoa(column)
	attrs := f.Attributes()
	for _, name := range f.AttributeNames() {
		base, ok := strings.CutSuffix(name, suffix)
		if !ok || base == "" {
			continue
		}
		attrs[base+"%"] = attrs[name]
	}
	return feature.New(f.ID(), f.Geometry(), attrs)
}
