package vertex

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// smoothSteps is the number of line segments each smoothed edge is
// flattened into.
const smoothSteps = 8

// Smooth rounds corners by replacing every edge with a cubic curve whose
// control points follow the neighbouring edges, flattened to line
// segments. The factor is clamped to [0,1]; zero passes the stream
// through unchanged. Open subpaths keep their end points.
func Smooth(factor float64) Stage {
	factor = math.Max(0, math.Min(1, factor))
	if factor == 0 {
		return identity
	}
	return perSubpath(func(sp Subpath) []Subpath {
		if len(sp.Points) < 3 {
			return []Subpath{sp}
		}
		return []Subpath{smoothSubpath(sp, factor)}
	})
}

func smoothSubpath(sp Subpath, factor float64) Subpath {
	pts := sp.Points
	n := len(pts)
	at := func(i int) vec.Vec2 {
		if sp.Closed {
			return pts[((i%n)+n)%n]
		}
		return pts[max(0, min(n-1, i))]
	}

	edges := n - 1
	if sp.Closed {
		edges = n
	}
	k := factor / 6
	out := Subpath{Closed: sp.Closed, Points: []vec.Vec2{pts[0]}}
	for i := 0; i < edges; i++ {
		p0, p1 := at(i), at(i+1)
		c1 := p0.Add(at(i + 1).Sub(at(i - 1)).Mul(k))
		c2 := p1.Sub(at(i + 2).Sub(at(i)).Mul(k))
		for s := 1; s <= smoothSteps; s++ {
			if sp.Closed && i == edges-1 && s == smoothSteps {
				break // the closing vertex is implied
			}
			out.Points = append(out.Points, cubic(p0, c1, c2, p1, float64(s)/smoothSteps))
		}
	}
	return out
}

func cubic(p0, p1, p2, p3 vec.Vec2, t float64) vec.Vec2 {
	u := 1 - t
	return p0.Mul(u * u * u).
		Add(p1.Mul(3 * u * u * t)).
		Add(p2.Mul(3 * u * t * t)).
		Add(p3.Mul(t * t * t))
}
