package placement

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// AnchorMode selects where on a geometry labels and markers attach.
type AnchorMode int

const (
	// AnchorPoint uses points as they are, the middle of lines and the
	// centroid of areas.
	AnchorPoint AnchorMode = iota

	// AnchorCentroid uses the centroid of any geometry.
	AnchorCentroid

	// AnchorInterior uses a point guaranteed to lie inside areas.
	AnchorInterior

	// AnchorLine repeats along lines and area outlines at the spacing,
	// rotated to the line direction.
	AnchorLine

	// AnchorVertexFirst uses the first vertex.
	AnchorVertexFirst

	// AnchorVertexLast uses the last vertex.
	AnchorVertexLast
)

var anchorNames = [...]string{
	AnchorPoint:       "point",
	AnchorCentroid:    "centroid",
	AnchorInterior:    "interior",
	AnchorLine:        "line",
	AnchorVertexFirst: "vertex-first",
	AnchorVertexLast:  "vertex-last",
}

func (m AnchorMode) String() string {
	if m >= 0 && int(m) < len(anchorNames) {
		return anchorNames[m]
	}
	return fmt.Sprintf("AnchorMode(%d)", int(m))
}

// ParseAnchorMode maps a placement property value to a mode.
func ParseAnchorMode(name string) (AnchorMode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := slices.Index(anchorNames[:], n); i >= 0 {
		return AnchorMode(i), nil
	}
	return AnchorPoint, fmt.Errorf("unknown placement: %q", name)
}

// Anchor is a position a label or marker is attached to.
type Anchor struct {
	Point orb.Point

	// Angle is the rotation in radians, nonzero for line anchors.
	Angle float64
}

// MinSpacing is the smallest line-mode spacing honoured; smaller positive
// values are raised to it.
const MinSpacing = 1.0

// MaxLineAnchors caps the anchors generated along one line. Longer lines
// spread them out evenly instead.
const MaxLineAnchors = 1000

// Anchors returns the attachment positions of a geometry. Non-finite
// vertices are ignored. Line mode places the first anchor half a spacing
// into each line; lines shorter than the spacing get a single anchor at
// their middle.
func Anchors(g orb.Geometry, mode AnchorMode, spacing float64) []Anchor {
	if g != nil {
		g = Finite(g)
	}
	if g == nil || isEmpty(g) {
		return nil
	}
	switch mode {
	case AnchorCentroid:
		c, _ := planar.CentroidArea(g)
		return []Anchor{{Point: c}}
	case AnchorInterior:
		return []Anchor{{Point: interiorPoint(g)}}
	case AnchorLine:
		var out []Anchor
		for _, ls := range lines(g) {
			out = append(out, alongLine(ls, spacing)...)
		}
		return out
	case AnchorVertexFirst:
		if p, ok := firstVertex(g); ok {
			return []Anchor{{Point: p}}
		}
		return nil
	case AnchorVertexLast:
		if p, ok := lastVertex(g); ok {
			return []Anchor{{Point: p}}
		}
		return nil
	}

	switch g := g.(type) {
	case orb.Point:
		return []Anchor{{Point: g}}
	case orb.MultiPoint:
		out := make([]Anchor, len(g))
		for i, p := range g {
			out[i] = Anchor{Point: p}
		}
		return out
	case orb.LineString:
		return []Anchor{middle(g)}
	case orb.MultiLineString:
		longest := slices.MaxFunc(g, func(a, b orb.LineString) int {
			return cmpFloat(planar.Length(a), planar.Length(b))
		})
		return []Anchor{middle(longest)}
	}
	c, _ := planar.CentroidArea(g)
	return []Anchor{{Point: c}}
}

func isEmpty(g orb.Geometry) bool {
	_, ok := firstVertex(g)
	return !ok
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// middle returns the anchor halfway along a line.
func middle(ls orb.LineString) Anchor {
	if len(ls) == 1 {
		return Anchor{Point: ls[0]}
	}
	a, _ := pointAt(ls, planar.Length(ls)/2)
	return a
}

func alongLine(ls orb.LineString, spacing float64) []Anchor {
	if len(ls) < 2 {
		return nil
	}
	length := planar.Length(ls)
	if spacing > 0 {
		spacing = math.Max(spacing, MinSpacing)
	}
	if !(spacing > 0) || length < spacing {
		return []Anchor{middle(ls)}
	}
	if length/spacing > MaxLineAnchors {
		spacing = length / MaxLineAnchors
	}
	var out []Anchor
	for d := spacing / 2; d <= length && len(out) < MaxLineAnchors; d += spacing {
		if a, ok := pointAt(ls, d); ok {
			out = append(out, a)
		}
	}
	return out
}

// pointAt returns the anchor at distance d along the line, oriented to the
// segment containing it.
func pointAt(ls orb.LineString, d float64) (Anchor, bool) {
	for i := 1; i < len(ls); i++ {
		a, b := ls[i-1], ls[i]
		seg := planar.Distance(a, b)
		if seg == 0 {
			continue
		}
		if d <= seg || i == len(ls)-1 {
			t := math.Min(1, d/seg)
			return Anchor{
				Point: orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])},
				Angle: math.Atan2(b[1]-a[1], b[0]-a[0]),
			}, true
		}
		d -= seg
	}
	return Anchor{Point: ls[0]}, len(ls) > 0
}

// lines returns the line strings and area outlines of a geometry.
func lines(g orb.Geometry) []orb.LineString {
	switch g := g.(type) {
	case orb.LineString:
		return []orb.LineString{g}
	case orb.MultiLineString:
		return g
	case orb.Ring:
		return []orb.LineString{orb.LineString(g)}
	case orb.Polygon:
		var out []orb.LineString
		for _, r := range g {
			out = append(out, orb.LineString(r))
		}
		return out
	case orb.MultiPolygon:
		var out []orb.LineString
		for _, p := range g {
			out = append(out, lines(p)...)
		}
		return out
	case orb.Collection:
		var out []orb.LineString
		for _, sub := range g {
			out = append(out, lines(sub)...)
		}
		return out
	case orb.Bound:
		return lines(g.ToPolygon())
	}
	return nil
}

// interiorPoint returns the centroid when it lies inside the area,
// otherwise the midpoint of the widest span of a horizontal scan line
// through the centroid.
func interiorPoint(g orb.Geometry) orb.Point {
	c, _ := planar.CentroidArea(g)
	var polys orb.MultiPolygon
	switch g := g.(type) {
	case orb.Polygon:
		polys = orb.MultiPolygon{g}
	case orb.MultiPolygon:
		polys = g
	case orb.Bound:
		return g.Center()
	default:
		return c
	}
	if planar.MultiPolygonContains(polys, c) {
		return c
	}

	var xs []float64
	for _, poly := range polys {
		for _, r := range poly {
			for i := 1; i < len(r); i++ {
				a, b := r[i-1], r[i]
				if (a[1] <= c[1]) != (b[1] <= c[1]) {
					t := (c[1] - a[1]) / (b[1] - a[1])
					xs = append(xs, a[0]+t*(b[0]-a[0]))
				}
			}
		}
	}
	slices.Sort(xs)
	best, width := c, -1.0
	for i := 0; i+1 < len(xs); i += 2 {
		if w := xs[i+1] - xs[i]; w > width {
			best, width = orb.Point{(xs[i] + xs[i+1]) / 2, c[1]}, w
		}
	}
	return best
}

func firstVertex(g orb.Geometry) (orb.Point, bool) {
	var out orb.Point
	found := false
	eachVertex(g, func(p orb.Point) bool {
		out, found = p, true
		return false
	})
	return out, found
}

func lastVertex(g orb.Geometry) (orb.Point, bool) {
	var out orb.Point
	found := false
	eachVertex(g, func(p orb.Point) bool {
		out, found = p, true
		return true
	})
	return out, found
}

// eachVertex calls fn for every vertex until it returns false.
func eachVertex(g orb.Geometry, fn func(orb.Point) bool) bool {
	switch g := g.(type) {
	case orb.Point:
		return fn(g)
	case orb.MultiPoint:
		return eachPoint(g, fn)
	case orb.LineString:
		return eachPoint(g, fn)
	case orb.Ring:
		return eachPoint(g, fn)
	case orb.MultiLineString:
		for _, ls := range g {
			if !eachPoint(ls, fn) {
				return false
			}
		}
	case orb.Polygon:
		for _, r := range g {
			if !eachPoint(r, fn) {
				return false
			}
		}
	case orb.MultiPolygon:
		for _, p := range g {
			if !eachVertex(p, fn) {
				return false
			}
		}
	case orb.Collection:
		for _, sub := range g {
			if !eachVertex(sub, fn) {
				return false
			}
		}
	case orb.Bound:
		return eachVertex(g.ToRing(), fn)
	}
	return true
}

func eachPoint[S ~[]orb.Point](pts S, fn func(orb.Point) bool) bool {
	for _, p := range pts {
		if !fn(p) {
			return false
		}
	}
	return true
}
