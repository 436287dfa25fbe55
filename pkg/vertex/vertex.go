// Package vertex implements the geometry pipeline that feeds drawing:
// lazy vertex streams passed through clip, affine transform, simplify and
// smooth stages.
//
// Streams are seehuhn.de/go/geom path.Path sequences of move-to, line-to
// and close commands. Every stage is a Stage function; stages compose with
// Pipeline and never mutate the source geometry.
//
//	p := vertex.FromGeometry(f.Geometry())
//	p = vertex.Pipeline(
//	    vertex.Clip(extent),
//	    vertex.Affine(view),
//	    vertex.Simplify(0.5, vertex.DouglasPeucker),
//	)(p)
//	for cmd, pts := range p {
//	    ...
//	}
package vertex

import (
	"iter"
	"math"

	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Stage transforms a vertex stream.
type Stage func(path.Path) path.Path

// Pipeline composes stages in the order given. Nil stages are skipped.
func Pipeline(stages ...Stage) Stage {
	return func(p path.Path) path.Path {
		for _, s := range stages {
			if s != nil {
				p = s(p)
			}
		}
		return p
	}
}

// Empty is the stream with no commands.
func Empty() path.Path {
	return func(func(path.Command, []vec.Vec2) bool) {}
}

// Subpath is one connected run of vertices. Closed subpaths do not repeat
// their first vertex at the end.
type Subpath struct {
	Points []vec.Vec2
	Closed bool
}

// subpaths groups a stream into subpaths. Curve commands contribute their
// end point only.
func subpaths(p path.Path) iter.Seq[Subpath] {
	return func(yield func(Subpath) bool) {
		var cur Subpath
		var start vec.Vec2
		open := false
		flush := func() bool {
			if !open {
				return true
			}
			open = false
			sp := cur
			cur = Subpath{}
			return yield(sp)
		}

		for cmd, pts := range p {
			switch cmd {
			case path.CmdMoveTo:
				if !flush() {
					return
				}
				start = pts[0]
				cur.Points = []vec.Vec2{start}
				open = true
			case path.CmdClose:
				if open {
					cur.Closed = true
					if !flush() {
						return
					}
				}
			default:
				if len(pts) == 0 {
					continue
				}
				if !open {
					// drawing after close continues from the subpath start
					cur.Points = []vec.Vec2{start}
					open = true
				}
				cur.Points = append(cur.Points, pts[len(pts)-1])
			}
		}
		flush()
	}
}

// emit writes a subpath to yield and reports whether to continue.
func emit(sp Subpath, yield func(path.Command, []vec.Vec2) bool) bool {
	if len(sp.Points) == 0 {
		return true
	}
	if !yield(path.CmdMoveTo, []vec.Vec2{sp.Points[0]}) {
		return false
	}
	for _, v := range sp.Points[1:] {
		if !yield(path.CmdLineTo, []vec.Vec2{v}) {
			return false
		}
	}
	if sp.Closed {
		return yield(path.CmdClose, nil)
	}
	return true
}

// perSubpath builds a stage that maps every subpath to zero or more
// subpaths.
func perSubpath(fn func(Subpath) []Subpath) Stage {
	return func(p path.Path) path.Path {
		return func(yield func(path.Command, []vec.Vec2) bool) {
			for sp := range subpaths(p) {
				for _, out := range fn(sp) {
					if !emit(out, yield) {
						return
					}
				}
			}
		}
	}
}

// Split materialises the subpaths of a stream.
func Split(p path.Path) []Subpath {
	var out []Subpath
	for sp := range subpaths(p) {
		out = append(out, sp)
	}
	return out
}

// Collect materialises a stream.
func Collect(p path.Path) *path.Data {
	d := &path.Data{}
	for sp := range subpaths(p) {
		if len(sp.Points) == 0 {
			continue
		}
		d.MoveTo(sp.Points[0])
		for _, v := range sp.Points[1:] {
			d.LineTo(v)
		}
		if sp.Closed {
			d.Close()
		}
	}
	return d
}

// Count returns the number of vertices in a stream.
func Count(p path.Path) int {
	n := 0
	for _, pts := range p {
		n += len(pts)
	}
	return n
}

// Extent returns the bounding rectangle of a stream's vertices and false
// when the stream is empty.
func Extent(p path.Path) (rect.Rect, bool) {
	r := rect.Rect{LLx: math.Inf(1), LLy: math.Inf(1), URx: math.Inf(-1), URy: math.Inf(-1)}
	seen := false
	for _, pts := range p {
		for _, v := range pts {
			r.LLx = math.Min(r.LLx, v.X)
			r.LLy = math.Min(r.LLy, v.Y)
			r.URx = math.Max(r.URx, v.X)
			r.URy = math.Max(r.URy, v.Y)
			seen = true
		}
	}
	if !seen {
		return rect.Rect{}, false
	}
	return r, true
}

// ToOrb converts a vertex to an orb point.
func ToOrb(v vec.Vec2) orb.Point {
	return orb.Point{v.X, v.Y}
}

// FromOrb converts an orb point to a vertex.
func FromOrb(p orb.Point) vec.Vec2 {
	return vec.Vec2{X: p[0], Y: p[1]}
}

// LineString returns the subpath as an orb line string. Closed subpaths
// repeat their first vertex at the end.
func (sp Subpath) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(sp.Points)+1)
	for _, v := range sp.Points {
		ls = append(ls, ToOrb(v))
	}
	if sp.Closed && len(sp.Points) > 0 {
		ls = append(ls, ls[0])
	}
	return ls
}

func finite(v vec.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
