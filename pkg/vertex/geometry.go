package vertex

import (
	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// FromGeometry converts an orb geometry into a vertex stream. Points become
// lone move-to commands, rings and polygon rings become closed subpaths.
// Vertices with NaN or infinite coordinates are dropped.
func FromGeometry(g orb.Geometry) path.Path {
	if g == nil {
		return Empty()
	}
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for _, sp := range geometrySubpaths(g, nil) {
			if !emit(sp, yield) {
				return
			}
		}
	}
}

func geometrySubpaths(g orb.Geometry, out []Subpath) []Subpath {
	switch g := g.(type) {
	case orb.Point:
		return appendLine(out, []orb.Point{g}, false)
	case orb.MultiPoint:
		for _, p := range g {
			out = appendLine(out, []orb.Point{p}, false)
		}
	case orb.LineString:
		return appendLine(out, g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			out = appendLine(out, ls, false)
		}
	case orb.Ring:
		return appendRing(out, g)
	case orb.Polygon:
		for _, r := range g {
			out = appendRing(out, r)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, r := range poly {
				out = appendRing(out, r)
			}
		}
	case orb.Collection:
		for _, sub := range g {
			out = geometrySubpaths(sub, out)
		}
	case orb.Bound:
		return appendRing(out, g.ToRing())
	}
	return out
}

func appendRing(out []Subpath, r orb.Ring) []Subpath {
	pts := []orb.Point(r)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return appendLine(out, pts, true)
}

func appendLine(out []Subpath, pts []orb.Point, closed bool) []Subpath {
	sp := Subpath{Closed: closed, Points: make([]vec.Vec2, 0, len(pts))}
	for _, p := range pts {
		v := FromOrb(p)
		if finite(v) {
			sp.Points = append(sp.Points, v)
		}
	}
	if len(sp.Points) == 0 {
		return out
	}
	return append(out, sp)
}
