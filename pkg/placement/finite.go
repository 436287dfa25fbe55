package placement

import (
	"math"

	"github.com/paulmach/orb"
)

// Finite returns g without NaN or infinite vertices. Lines are filtered
// vertex by vertex and rings are reclosed; parts left without enough
// vertices are dropped, and a polygon whose outer ring goes drops whole.
// It returns nil when nothing remains.
func Finite(g orb.Geometry) orb.Geometry {
	switch g := g.(type) {
	case orb.Point:
		if finitePoint(g) {
			return g
		}
	case orb.MultiPoint:
		if mp := orb.MultiPoint(finitePoints(g)); len(mp) > 0 {
			return mp
		}
	case orb.LineString:
		if ls := finiteLine(g); ls != nil {
			return ls
		}
	case orb.MultiLineString:
		var out orb.MultiLineString
		for _, ls := range g {
			if ls := finiteLine(ls); ls != nil {
				out = append(out, ls)
			}
		}
		if len(out) > 0 {
			return out
		}
	case orb.Ring:
		if r := finiteRing(g); r != nil {
			return r
		}
	case orb.Polygon:
		if p := finitePolygon(g); p != nil {
			return p
		}
	case orb.MultiPolygon:
		var out orb.MultiPolygon
		for _, p := range g {
			if p := finitePolygon(p); p != nil {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	case orb.Collection:
		var out orb.Collection
		for _, c := range g {
			if c := Finite(c); c != nil {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return out
		}
	case orb.Bound:
		if finiteBox(g) {
			return g
		}
	}
	return nil
}

func finitePoint(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}

func finitePoints(pts []orb.Point) []orb.Point {
	out := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		if finitePoint(p) {
			out = append(out, p)
		}
	}
	return out
}

func finiteLine(ls orb.LineString) orb.LineString {
	out := orb.LineString(finitePoints(ls))
	if len(out) == 0 {
		return nil
	}
	return out
}

func finiteRing(r orb.Ring) orb.Ring {
	out := orb.Ring(finitePoints(r))
	if len(out) > 1 && out[0].Equal(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil
	}
	return append(out, out[0])
}

func finitePolygon(p orb.Polygon) orb.Polygon {
	if len(p) == 0 {
		return nil
	}
	outer := finiteRing(p[0])
	if outer == nil {
		return nil
	}
	out := orb.Polygon{outer}
	for _, hole := range p[1:] {
		if r := finiteRing(hole); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// finiteBox reports whether b has finite corners with Min not past Max.
func finiteBox(b orb.Bound) bool {
	return finitePoint(b.Min) && finitePoint(b.Max) &&
		b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1]
}
