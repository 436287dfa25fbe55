package placement

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

func textSymbolizer(t *testing.T) *symbolizer.Symbolizer {
	t.Helper()
	s := symbolizer.New(symbolizer.KindText)
	require.NoError(t, s.SetString(symbolizer.Name, "[name]"))
	return s
}

func TestDummyYieldsOnce(t *testing.T) {
	sym := textSymbolizer(t)
	info := NewInfo(sym, nil, 1)
	assert.Equal(t, Ready, info.State())
	assert.Equal(t, 1, info.MaxCandidates())

	require.True(t, info.Next())
	assert.Equal(t, Trying, info.State())
	assert.Same(t, sym, info.Candidate().Symbolizer)
	assert.Equal(t, Exact, info.Candidate().Direction)

	assert.False(t, info.Next())
	assert.False(t, info.Next())
	assert.Equal(t, Exhausted, info.State())
}

func TestPlacedStopsTheWalk(t *testing.T) {
	dirs, sizes, err := ParseSimple("N,S,E")
	require.NoError(t, err)
	info := NewInfo(textSymbolizer(t), &Strategy{Kind: Simple, Directions: dirs, Sizes: sizes}, 1)
	require.True(t, info.Next())
	info.Placed()
	assert.Equal(t, Placed, info.State())
	assert.False(t, info.Next())
	assert.Equal(t, 1, info.Tried())
}

func TestSimpleOrder(t *testing.T) {
	dirs, sizes, err := ParseSimple("N,S,10,8")
	require.NoError(t, err)
	info := NewInfo(textSymbolizer(t), &Strategy{Kind: Simple, Directions: dirs, Sizes: sizes}, 1)

	type pair struct {
		dir  Direction
		size float64
	}
	var got []pair
	for info.Next() {
		c := info.Candidate()
		got = append(got, pair{c.Direction, c.Size})
		assert.Equal(t, c.Size, symbolizer.Get(c.Symbolizer, symbolizer.Size, nil, nil, 0.0))
	}
	assert.Equal(t, []pair{{North, 10}, {South, 10}, {North, 8}, {South, 8}}, got)
	assert.Equal(t, Exhausted, info.State())
}

func TestListAndCombinedOrder(t *testing.T) {
	defaultFace := symbolizer.FaceName.Default().(string)
	sym := textSymbolizer(t)
	sym.Text.List = []symbolizer.Properties{
		{symbolizer.FaceName: symbolizer.Literal("Small")},
		{symbolizer.FaceName: symbolizer.Literal("Tiny")},
	}

	sym.Text.Strategy = "list"
	st, err := NewStrategy(sym.Text)
	require.NoError(t, err)
	info := NewInfo(sym, st, 1)
	var faces []string
	for info.Next() {
		faces = append(faces, symbolizer.Get(info.Candidate().Symbolizer, symbolizer.FaceName, nil, nil, defaultFace))
	}
	assert.Equal(t, []string{"Go Regular", "Small", "Tiny"}, faces)

	sym.Text.Strategy = "combined"
	sym.Text.Positions = "N,S"
	st, err = NewStrategy(sym.Text)
	require.NoError(t, err)
	info = NewInfo(sym, st, 1)
	assert.Equal(t, 6, info.MaxCandidates())
	var got []string
	for info.Next() {
		c := info.Candidate()
		got = append(got, symbolizer.Get(c.Symbolizer, symbolizer.FaceName, nil, nil, defaultFace)+"/"+c.Direction.String())
	}
	assert.Equal(t, []string{
		"Go Regular/N", "Go Regular/S",
		"Small/N", "Small/S",
		"Tiny/N", "Tiny/S",
	}, got)
}

func TestStrategyErrors(t *testing.T) {
	_, err := NewStrategy(&symbolizer.TextBlock{Strategy: "spiral"})
	var se *StrategyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "spiral", se.Name)

	_, err = NewStrategy(&symbolizer.TextBlock{Strategy: "simple", Positions: "N,Q"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "simple", se.Name)

	_, _, err = ParseSimple("N,-3")
	assert.Error(t, err)

	dirs, sizes, err := ParseSimple("")
	require.NoError(t, err)
	assert.Equal(t, []Direction{Exact}, dirs)
	assert.Empty(t, sizes)

	st, err := NewStrategy(nil)
	require.NoError(t, err)
	assert.Equal(t, Dummy, st.Kind)
}

type rejectAll struct{ calls int }

func (r *rejectAll) Allowed(orb.Bound) bool { r.calls++; return false }
func (r *rejectAll) Insert(orb.Bound)       {}
func (r *rejectAll) Place(orb.Bound) bool   { return false }

func TestFindIsBoundedWhenEverythingCollides(t *testing.T) {
	sym := textSymbolizer(t)
	dirs, sizes, err := ParseSimple("N,E,S,W,NE,SE,NW,SW,14,12,10")
	require.NoError(t, err)
	info := NewInfo(sym, &Strategy{Kind: Simple, Directions: dirs, Sizes: sizes}, 1)
	det := &rejectAll{}

	f := feature.New(1, orb.Point{0, 0}, map[string]feature.Value{"name": feature.String("Quay")})
	res := Find(info, Request{
		Feature:  f,
		Anchors:  []Anchor{{Point: orb.Point{0, 0}}, {Point: orb.Point{50, 0}}},
		Detector: det,
	})
	assert.Empty(t, res.Placements)
	assert.Equal(t, 24, res.Tried)
	assert.Equal(t, 48, det.calls)
	assert.Equal(t, ReasonCollision, res.Reason)
	assert.Equal(t, Exhausted, info.State())
}

func TestFindFallsBackToNextDirection(t *testing.T) {
	sym := textSymbolizer(t)
	dirs, _, err := ParseSimple("N,S")
	require.NoError(t, err)
	det := NewRTreeDetector(orb.Bound{}, 0)
	det.Insert(orb.Bound{Min: orb.Point{-50, -100}, Max: orb.Point{50, -1}})

	f := feature.New(1, orb.Point{0, 0}, map[string]feature.Value{"name": feature.String("Pier")})
	info := NewInfo(sym, &Strategy{Kind: Simple, Directions: dirs}, 1)
	res := Find(info, Request{
		Feature:  f,
		Anchors:  []Anchor{{Point: orb.Point{0, 0}}},
		Detector: det,
		Measurer: EstimateMeasurer{},
	})
	require.Len(t, res.Placements, 1)
	p := res.Placements[0]
	assert.Equal(t, South, p.Candidate.Direction)
	assert.Equal(t, 2, res.Tried)
	assert.Equal(t, "Pier", p.Text)
	assert.InDelta(t, 24, p.Box.Max[0]-p.Box.Min[0], 1e-9)
	assert.InDelta(t, 0, p.Box.Min[1], 1e-9)
	assert.Equal(t, Placed, info.State())
	assert.Equal(t, 2, det.Len())
}

func TestFindEmptyLabel(t *testing.T) {
	f := feature.New(1, orb.Point{0, 0}, nil)
	res := Find(NewInfo(textSymbolizer(t), nil, 1), Request{
		Feature: f,
		Anchors: []Anchor{{Point: orb.Point{0, 0}}},
	})
	assert.Empty(t, res.Placements)
	assert.Equal(t, ReasonEmptyLabel, res.Reason)

	res = Find(NewInfo(textSymbolizer(t), nil, 1), Request{Feature: f})
	assert.Equal(t, ReasonNoAnchor, res.Reason)
}

func TestFindRepeatSuppression(t *testing.T) {
	sym := textSymbolizer(t)
	sym.MustSet(symbolizer.MinDistance, 100.0)
	det := NewRTreeDetector(orb.Bound{}, 0)
	place := func(x float64, name string) int {
		f := feature.New(1, orb.Point{x, 0}, map[string]feature.Value{"name": feature.String(name)})
		return len(Find(NewInfo(sym, nil, 1), Request{
			Feature:  f,
			Anchors:  []Anchor{{Point: orb.Point{x, 0}}},
			Detector: det,
		}).Placements)
	}
	assert.Equal(t, 1, place(0, "Pier"))
	assert.Equal(t, 0, place(60, "Pier"))
	assert.Equal(t, 1, place(60, "Dock"))
	assert.Equal(t, 1, place(200, "Pier"))
}

func TestFindMarkerAllowOverlap(t *testing.T) {
	sym := symbolizer.New(symbolizer.KindMarkers)
	sym.MustSet(symbolizer.Width, 8.0).MustSet(symbolizer.Height, 4.0).MustSet(symbolizer.AllowOverlap, true)
	det := NewRTreeDetector(orb.Bound{}, 0)
	det.Insert(orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}})

	res := Find(NewInfo(sym, nil, 2), Request{
		Anchors:  []Anchor{{Point: orb.Point{0, 0}}},
		Detector: det,
	})
	require.Len(t, res.Placements, 1)
	b := res.Placements[0].Box
	assert.InDelta(t, 16, b.Max[0]-b.Min[0], 1e-9)
	assert.InDelta(t, 8, b.Max[1]-b.Min[1], 1e-9)
}

func TestRTreeDetector(t *testing.T) {
	extent := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 100}}
	d := NewRTreeDetector(extent, 0)
	box := func(x0, y0, x1, y1 float64) orb.Bound {
		return orb.Bound{Min: orb.Point{x0, y0}, Max: orb.Point{x1, y1}}
	}

	assert.True(t, d.Place(box(10, 10, 20, 20)))
	assert.False(t, d.Place(box(15, 15, 25, 25)))
	assert.True(t, d.Place(box(20, 10, 30, 20)), "touching boxes do not overlap")
	assert.False(t, d.Allowed(box(95, 95, 105, 105)), "outside the extent")
	assert.Equal(t, 2, d.Len())

	padded := NewRTreeDetector(extent, 5)
	padded.Insert(box(10, 10, 20, 20))
	assert.False(t, padded.Allowed(box(22, 10, 30, 20)))
	assert.True(t, padded.Allowed(box(26, 10, 30, 20)))

	d.Clear()
	assert.Zero(t, d.Len())
	assert.True(t, d.Allowed(box(15, 15, 25, 25)))
}

func TestAnchors(t *testing.T) {
	line := orb.LineString{{0, 0}, {0, 100}}

	t.Run("point modes", func(t *testing.T) {
		assert.Equal(t, []Anchor{{Point: orb.Point{3, 4}}}, Anchors(orb.Point{3, 4}, AnchorPoint, 0))
		a := Anchors(line, AnchorPoint, 0)
		require.Len(t, a, 1)
		assert.Equal(t, orb.Point{0, 50}, a[0].Point)
	})

	t.Run("line spacing", func(t *testing.T) {
		a := Anchors(line, AnchorLine, 30)
		require.Len(t, a, 3)
		assert.InDelta(t, 15, a[0].Point[1], 1e-9)
		assert.Equal(t, orb.Point{0, 75}, a[2].Point)
		assert.InDelta(t, math.Pi/2, a[0].Angle, 1e-9)

		short := Anchors(line, AnchorLine, 500)
		require.Len(t, short, 1)
		assert.Equal(t, orb.Point{0, 50}, short[0].Point)
	})

	t.Run("vertices", func(t *testing.T) {
		assert.Equal(t, orb.Point{0, 0}, Anchors(line, AnchorVertexFirst, 0)[0].Point)
		assert.Equal(t, orb.Point{0, 100}, Anchors(line, AnchorVertexLast, 0)[0].Point)
	})

	t.Run("areas", func(t *testing.T) {
		square := orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}
		c := Anchors(square, AnchorCentroid, 0)
		require.Len(t, c, 1)
		assert.InDelta(t, 5, c[0].Point[0], 1e-9)
		assert.InDelta(t, 5, c[0].Point[1], 1e-9)

		// a U shape whose centroid falls in the notch
		u := orb.Polygon{{{0, 0}, {30, 0}, {30, 30}, {20, 30}, {20, 5}, {10, 5}, {10, 30}, {0, 30}, {0, 0}}}
		cu := Anchors(u, AnchorCentroid, 0)[0].Point
		inside := Anchors(u, AnchorInterior, 0)[0].Point
		assert.NotEqual(t, cu, inside)
		assert.InDelta(t, 5, inside[0], 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, Anchors(orb.LineString{}, AnchorPoint, 0))
		assert.Nil(t, Anchors(nil, AnchorLine, 10))
	})

	m, err := ParseAnchorMode("Vertex-Last")
	require.NoError(t, err)
	assert.Equal(t, AnchorVertexLast, m)
}

func TestFootprint(t *testing.T) {
	origin := Anchor{Point: orb.Point{100, 100}}

	n := Footprint(origin, North, 20, 10, 0, 2)
	assert.Equal(t, orb.Bound{Min: orb.Point{90, 88}, Max: orb.Point{110, 98}}, n)

	x := Footprint(origin, Exact, 20, 10, 5, 0)
	assert.Equal(t, orb.Bound{Min: orb.Point{95, 95}, Max: orb.Point{115, 105}}, x)

	rotated := Footprint(Anchor{Point: orb.Point{0, 0}, Angle: math.Pi / 2}, Exact, 20, 10, 0, 0)
	assert.InDelta(t, 10, rotated.Max[0]-rotated.Min[0], 1e-9)
	assert.InDelta(t, 20, rotated.Max[1]-rotated.Min[1], 1e-9)
}

func TestTransformText(t *testing.T) {
	assert.Equal(t, "NORTH PIER", TransformText("north pier", "uppercase"))
	assert.Equal(t, "north pier", TransformText("North Pier", "lowercase"))
	assert.Equal(t, "North Pier", TransformText("north pier", "capitalize"))
	assert.Equal(t, "north Pier", TransformText("north Pier", "none"))
}

func TestWrap(t *testing.T) {
	runes := func(s string) float64 { return float64(len([]rune(s))) }
	assert.Equal(t, "the quick\nbrown fox", Wrap("the quick brown fox", 10, runes))
	assert.Equal(t, "short", Wrap("short", 10, runes))
	assert.Equal(t, "extraordinarily\nlong", Wrap("extraordinarily long", 10, runes))
	assert.Equal(t, "no wrap at all", Wrap("no wrap at all", 0, runes))
}

func TestFontMeasurer(t *testing.T) {
	m := NewFontMeasurer(nil)
	w1, h1 := m.Measure("Pier", "Go Regular", 12)
	w2, h2 := m.Measure("Pier Pier", "Go Regular", 12)
	assert.Greater(t, w1, 0.0)
	assert.Greater(t, w2, w1)
	assert.Equal(t, h1, h2)

	_, h3 := m.Measure("Pier\nPier", "Go Regular", 12)
	assert.InDelta(t, 2*h1, h3, 1e-9)
	assert.Equal(t, 1, m.faces.Len())

	w0, h0 := m.Measure("", "Go Regular", 12)
	assert.Zero(t, w0)
	assert.Zero(t, h0)
}

func TestFindSkipsNonFiniteAnchors(t *testing.T) {
	d := NewRTreeDetector(orb.Bound{Max: orb.Point{1000, 1000}}, 0)
	size := func(Candidate) (float64, float64) { return 10, 10 }

	res := Find(NewInfo(nil, nil, 1), Request{
		Anchors:  []Anchor{{Point: orb.Point{math.NaN(), math.NaN()}}},
		Detector: d,
		Size:     size,
	})
	assert.Empty(t, res.Placements)
	assert.Equal(t, ReasonCollision, res.Reason)
	assert.Zero(t, d.Len())

	res = Find(NewInfo(nil, nil, 1), Request{
		Anchors:  []Anchor{{Point: orb.Point{math.Inf(1), 5}}, {Point: orb.Point{50, 50}}},
		Detector: d,
		Size:     size,
	})
	require.Len(t, res.Placements, 1)
	assert.Equal(t, orb.Point{50, 50}, res.Placements[0].Anchor.Point)
	assert.Equal(t, 1, d.Len())
}

func TestRTreeDetectorRejectsNonFiniteBoxes(t *testing.T) {
	nan := math.NaN()
	inverted := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}

	for _, d := range []*RTreeDetector{
		NewRTreeDetector(orb.Bound{Max: orb.Point{100, 100}}, 0),
		NewRTreeDetector(orb.Bound{}, nan),
	} {
		assert.False(t, d.Allowed(inverted))
		assert.False(t, d.Place(orb.Bound{Min: orb.Point{nan, 0}, Max: orb.Point{10, 10}}))
		d.Insert(inverted)
		assert.Zero(t, d.Len())

		d.InsertKey(orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{20, 20}}, "k")
		assert.Equal(t, 1, d.Len())
		far := orb.Bound{Min: orb.Point{80, 80}, Max: orb.Point{90, 90}}
		assert.False(t, d.AllowedKey(far, "k", math.Inf(1)), "an infinite distance suppresses every repeat")
		assert.True(t, d.AllowedKey(far, "other", math.Inf(1)))
	}
}

func TestAnchorsDropNonFiniteVertices(t *testing.T) {
	nan := math.NaN()

	assert.Nil(t, Anchors(orb.Point{nan, nan}, AnchorPoint, 0))

	line := orb.LineString{{0, 0}, {nan, nan}, {100, 0}, {200, 0}}
	a := Anchors(line, AnchorLine, 50)
	require.Len(t, a, 4)
	assert.Equal(t, orb.Point{25, 0}, a[0].Point)
	mid := Anchors(line, AnchorPoint, 0)
	require.Len(t, mid, 1)
	assert.Equal(t, orb.Point{100, 0}, mid[0].Point)

	square := orb.Polygon{{{0, 0}, {10, 0}, {nan, 5}, {10, 10}, {0, 10}, {0, 0}}}
	c := Anchors(square, AnchorPoint, 0)
	require.Len(t, c, 1)
	assert.InDelta(t, 5, c[0].Point[0], 1e-9)
	assert.InDelta(t, 5, c[0].Point[1], 1e-9)

	for _, g := range []orb.Geometry{
		orb.MultiPoint{{nan, 0}, {3, 4}},
		orb.Polygon{{{nan, 0}, {1, 1}, {0, 0}}},
	} {
		for _, a := range Anchors(g, AnchorPoint, 0) {
			assert.False(t, math.IsNaN(a.Point[0]) || math.IsNaN(a.Point[1]), "%v", g)
		}
	}
}

func TestFinite(t *testing.T) {
	nan := math.NaN()

	assert.Nil(t, Finite(orb.Point{nan, 1}))
	assert.Equal(t, orb.LineString{{0, 0}, {2, 2}}, Finite(orb.LineString{{0, 0}, {math.Inf(-1), 1}, {2, 2}}))
	assert.Nil(t, Finite(orb.MultiLineString{{{nan, nan}}}))

	// the ring is reclosed after its first vertex goes
	p := Finite(orb.Polygon{
		{{nan, 0}, {10, 0}, {10, 10}, {0, 10}, {nan, 0}},
		{{2, 2}, {nan, 3}, {3, 3}, {2, 2}},
	})
	assert.Equal(t, orb.Polygon{{{10, 0}, {10, 10}, {0, 10}, {10, 0}}}, p)

	assert.Nil(t, Finite(orb.MultiPolygon{{{{nan, 0}, {1, 0}, {nan, 1}}}}))
	assert.Equal(t, orb.Collection{orb.Point{1, 2}}, Finite(orb.Collection{orb.Point{1, 2}, orb.Point{nan, 0}}))
}

func TestAnchorsSpacingIsBounded(t *testing.T) {
	line := orb.LineString{{0, 0}, {1000, 0}}

	a := Anchors(line, AnchorLine, 1e-5)
	assert.Len(t, a, 1000)
	assert.Equal(t, orb.Point{0.5, 0}, a[0].Point)

	long := orb.LineString{{0, 0}, {1e6, 0}}
	assert.Len(t, Anchors(long, AnchorLine, 10), MaxLineAnchors)

	short := Anchors(orb.LineString{{0, 0}, {0.3, 0}}, AnchorLine, 1e-5)
	require.Len(t, short, 1)
	assert.InDelta(t, 0.15, short[0].Point[0], 1e-9)
}
