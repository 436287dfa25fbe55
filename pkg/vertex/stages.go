package vertex

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/project"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Clip restricts a stream to a rectangle. Open subpaths are cut into the
// pieces that lie inside; closed subpaths are clipped as rings and stay
// closed. Lone points outside the box are dropped. A stream entirely
// outside the box becomes empty.
func Clip(box orb.Bound) Stage {
	return perSubpath(func(sp Subpath) []Subpath {
		if len(sp.Points) == 1 {
			if box.Contains(ToOrb(sp.Points[0])) {
				return []Subpath{sp}
			}
			return nil
		}

		if sp.Closed {
			r := clip.Ring(box, orb.Ring(sp.LineString()))
			if len(r) == 0 {
				return nil
			}
			return appendRing(nil, r)
		}

		var out []Subpath
		for _, ls := range clip.LineString(box, sp.LineString()) {
			out = appendLine(out, ls, false)
		}
		return out
	})
}

// Affine applies a transformation matrix to every vertex.
func Affine(m matrix.Matrix) Stage {
	if m == matrix.Identity {
		return identity
	}
	return mapVertices(func(v vec.Vec2) vec.Vec2 {
		return vec.Vec2{
			X: m[0]*v.X + m[2]*v.Y + m[4],
			Y: m[1]*v.X + m[3]*v.Y + m[5],
		}
	})
}

// Project applies an orb projection to every vertex.
func Project(proj orb.Projection) Stage {
	return mapVertices(func(v vec.Vec2) vec.Vec2 {
		return FromOrb(proj(ToOrb(v)))
	})
}

// ToMercator projects WGS84 longitude/latitude to spherical mercator.
func ToMercator() Stage {
	return Project(project.WGS84.ToMercator)
}

// ToWGS84 projects spherical mercator to WGS84 longitude/latitude.
func ToWGS84() Stage {
	return Project(project.Mercator.ToWGS84)
}

func identity(p path.Path) path.Path { return p }

func mapVertices(fn func(vec.Vec2) vec.Vec2) Stage {
	return func(p path.Path) path.Path {
		return func(yield func(path.Command, []vec.Vec2) bool) {
			for cmd, pts := range p {
				out := make([]vec.Vec2, len(pts))
				for i, v := range pts {
					out[i] = fn(v)
				}
				if !yield(cmd, out) {
					return
				}
			}
		}
	}
}

// DropInvalid removes vertices with NaN or infinite coordinates. A
// subpath whose first vertex is invalid starts at its next valid vertex.
func DropInvalid() Stage {
	return perSubpath(func(sp Subpath) []Subpath {
		kept := sp.Points[:0:0]
		for _, v := range sp.Points {
			if finite(v) {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		return []Subpath{{Points: kept, Closed: sp.Closed}}
	})
}
