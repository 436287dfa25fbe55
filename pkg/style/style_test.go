package style

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

func road(kind string, lanes int64) *feature.Feature {
	return feature.New(1, orb.LineString{{0, 0}, {1, 1}}, map[string]feature.Value{
		"kind":  feature.String(kind),
		"lanes": feature.Int(lanes),
	})
}

func filtered(name, filter string) *Rule {
	r := NewRule(name, symbolizer.New(symbolizer.KindLine))
	if filter != "" {
		r.Filter = expr.MustParse(filter)
	}
	return r
}

func elseRule(name string) *Rule {
	r := NewRule(name, symbolizer.New(symbolizer.KindLine))
	r.Else = true
	return r
}

func names(rules []*Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Name)
	}
	return out
}

func TestFilterAllUnion(t *testing.T) {
	s := New("roads",
		filtered("major", "[kind] = 'motorway' or [kind] = 'trunk'"),
		filtered("wide", "[lanes] >= 4"),
		filtered("minor", "[kind] = 'residential'"),
	)
	c := NewRuleCache(s, 5000)

	assert.Equal(t, []string{"major", "wide"}, names(c.Match(road("motorway", 6), nil)))
	assert.Equal(t, []string{"minor"}, names(c.Match(road("residential", 2), nil)))
	assert.Empty(t, c.Match(road("track", 1), nil))
}

func TestFilterFirstPicksDeclarationOrder(t *testing.T) {
	s := New("roads",
		filtered("major", "[kind] = 'motorway'"),
		filtered("wide", "[lanes] >= 4"),
		filtered("any", ""),
	)
	s.FilterMode = FilterFirst
	c := NewRuleCache(s, 5000)

	assert.Equal(t, []string{"major"}, names(c.Match(road("motorway", 6), nil)))
	assert.Equal(t, []string{"wide"}, names(c.Match(road("trunk", 4), nil)))
	assert.Equal(t, []string{"any"}, names(c.Match(road("track", 1), nil)))
}

func TestScaleBoundsAreHalfOpen(t *testing.T) {
	r := filtered("mid", "")
	r.MinScale, r.MaxScale = 10, 20
	s := New("s", r)

	for _, tc := range []struct {
		denominator float64
		fires       bool
	}{
		{15, true},
		{10, true},
		{9, false},
		{20, false},
		{19.999, true},
	} {
		assert.Equal(t, tc.fires, r.Active(tc.denominator), "Active(%v)", tc.denominator)
		c := NewRuleCache(s, tc.denominator)
		assert.Equal(t, tc.fires, len(c.Match(road("x", 1), nil)) == 1, "Match at %v", tc.denominator)
		assert.Equal(t, !tc.fires, c.Empty())
	}
}

func TestElseFiresOnlyWithoutFilteredMatch(t *testing.T) {
	s := New("roads",
		elseRule("fallback-a"),
		filtered("motorway", "[kind] = 'motorway'"),
		filtered("always", ""),
		elseRule("fallback-b"),
	)
	c := NewRuleCache(s, 1000)
	require.Equal(t, 4, c.Len())
	assert.Equal(t, []string{"motorway"}, names(c.If()))
	assert.Equal(t, []string{"fallback-a", "fallback-b"}, names(c.Else()))
	assert.Equal(t, []string{"always"}, names(c.Also()))

	assert.Equal(t, []string{"motorway", "always"}, names(c.Match(road("motorway", 2), nil)))
	assert.Equal(t, []string{"fallback-a", "always", "fallback-b"}, names(c.Match(road("track", 2), nil)))
}

func TestFilterFirstWithElse(t *testing.T) {
	s := New("roads",
		elseRule("fallback"),
		filtered("motorway", "[kind] = 'motorway'"),
	)
	s.FilterMode = FilterFirst
	c := NewRuleCache(s, 1000)

	// the filtered rule matches, so the else rule declared before it is skipped
	assert.Equal(t, []string{"motorway"}, names(c.Match(road("motorway", 2), nil)))
	assert.Equal(t, []string{"fallback"}, names(c.Match(road("track", 2), nil)))
}

func TestElseWithoutFilteredRules(t *testing.T) {
	s := New("s", elseRule("only"))
	c := NewRuleCache(s, 1)
	assert.Equal(t, []string{"only"}, names(c.Match(road("x", 1), nil)))
}

func TestZeroRules(t *testing.T) {
	c := NewRuleCache(New("empty"), 1000)
	assert.True(t, c.Empty())
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Match(road("x", 1), nil))
	assert.Nil(t, c.Symbolizers(road("x", 1), nil))
}

func TestFilterErrorCountsAsFalse(t *testing.T) {
	s := New("s",
		filtered("broken", "[kind] > 3"),
		elseRule("fallback"),
	)
	c := NewRuleCache(s, 1)
	assert.Equal(t, []string{"fallback"}, names(c.Match(road("motorway", 1), nil)))

	s = New("s", filtered("undefined-var", "@missing = 1"))
	c = NewRuleCache(s, 1)
	assert.Empty(t, c.Match(road("motorway", 1), nil))
}

func TestFilterVariables(t *testing.T) {
	s := New("s", filtered("wide", "[lanes] >= @min_lanes"))
	c := NewRuleCache(s, 1)
	vars := expr.Vars{"min_lanes": feature.Int(3)}
	assert.Len(t, c.Match(road("x", 4), vars), 1)
	assert.Empty(t, c.Match(road("x", 2), vars))
}

func TestSymbolizersConcatenateInOrder(t *testing.T) {
	casing := symbolizer.New(symbolizer.KindLine)
	fill := symbolizer.New(symbolizer.KindLine)
	label := symbolizer.New(symbolizer.KindText)

	s := New("s",
		NewRule("lines", casing, fill),
		NewRule("labels", label),
	)
	got := NewRuleCache(s, 1).Symbolizers(road("x", 1), nil)
	require.Len(t, got, 3)
	assert.Same(t, casing, got[0])
	assert.Same(t, fill, got[1])
	assert.Same(t, label, got[2])
}

func TestRuleValidate(t *testing.T) {
	r := elseRule("bad")
	r.Filter = expr.MustParse("true")
	var re *RuleError
	require.ErrorAs(t, r.Validate(), &re)

	r = NewRule("inverted")
	r.MinScale, r.MaxScale = 20, 10
	assert.Error(t, r.Validate())

	r = NewRule("nan")
	r.MaxScale = math.NaN()
	assert.Error(t, r.Validate())

	s := New("s", NewRule("ok"), NewRule("nil-sym", nil))
	err := s.Validate()
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Index)

	assert.NoError(t, New("s", NewRule("ok")).Validate())
}

func TestParseFilterMode(t *testing.T) {
	m, err := ParseFilterMode("First")
	require.NoError(t, err)
	assert.Equal(t, FilterFirst, m)

	m, err = ParseFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, m)

	_, err = ParseFilterMode("some")
	var ue *ErrUnknownFilterMode
	assert.ErrorAs(t, err, &ue)
}

func TestStyleAttributesAndScaleRange(t *testing.T) {
	a := filtered("a", "[kind] = 'x'")
	a.MinScale, a.MaxScale = 100, 1000
	b := filtered("b", "[lanes] > 1 and [kind] != 'y'")
	b.MinScale, b.MaxScale = 50, 500
	s := New("s", a, b)

	assert.Equal(t, []string{"kind", "lanes"}, s.Attributes())
	lo, hi := s.ScaleRange()
	assert.Equal(t, 50.0, lo)
	assert.Equal(t, 1000.0, hi)
}
