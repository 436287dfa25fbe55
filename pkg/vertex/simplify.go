package vertex

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
	"seehuhn.de/go/geom/vec"
)

// Algorithm selects a line simplification method.
type Algorithm int

const (
	RadialDistance Algorithm = iota
	DouglasPeucker
	VisvalingamWhyatt
	ZhaoSaalfeld
)

var algorithmNames = [...]string{
	RadialDistance:    "radial-distance",
	DouglasPeucker:    "douglas-peucker",
	VisvalingamWhyatt: "visvalingam-whyatt",
	ZhaoSaalfeld:      "zhao-saalfeld",
}

func (a Algorithm) String() string {
	if a >= 0 && int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm maps a stylesheet name such as "douglas-peucker" to an
// algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, s := range algorithmNames {
		if s == n {
			return Algorithm(i), nil
		}
	}
	return RadialDistance, fmt.Errorf("unknown simplify algorithm: %q", name)
}

// Simplify reduces the vertex count of every subpath. The tolerance is a
// distance in stream units; Visvalingam-Whyatt uses its square as the
// minimum triangle area. A tolerance of zero or less passes the stream
// through unchanged. Rings that would collapse below three vertices are
// kept as they are.
func Simplify(tolerance float64, alg Algorithm) Stage {
	if !(tolerance > 0) {
		return identity
	}
	reduce := reducer(tolerance, alg)
	return perSubpath(func(sp Subpath) []Subpath {
		if len(sp.Points) < 3 {
			return []Subpath{sp}
		}
		pts := reduce(sp.LineString(), sp.Closed)
		if sp.Closed {
			if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
				pts = pts[:len(pts)-1]
			}
			if len(pts) < 3 {
				return []Subpath{sp}
			}
		}
		out := Subpath{Closed: sp.Closed, Points: make([]vec.Vec2, len(pts))}
		for i, p := range pts {
			out.Points[i] = FromOrb(p)
		}
		return []Subpath{out}
	})
}

func reducer(tolerance float64, alg Algorithm) func(orb.LineString, bool) orb.LineString {
	var s orb.Simplifier
	switch alg {
	case ZhaoSaalfeld:
		return func(ls orb.LineString, _ bool) orb.LineString {
			return sleeveFit(ls, tolerance)
		}
	case DouglasPeucker:
		s = simplify.DouglasPeucker(tolerance)
	case VisvalingamWhyatt:
		s = simplify.VisvalingamThreshold(tolerance * tolerance)
	default:
		s = simplify.Radial(planar.Distance, tolerance)
	}
	return func(ls orb.LineString, closed bool) orb.LineString {
		if closed {
			if r, ok := s.Simplify(orb.Ring(ls)).(orb.Ring); ok {
				return orb.LineString(r)
			}
			return ls
		}
		if out, ok := s.Simplify(ls).(orb.LineString); ok {
			return out
		}
		return ls
	}
}

// sleeveFit is the Zhao-Saalfeld sleeve-fitting simplification: starting
// from an anchor, the line is extended while every skipped vertex stays
// within tolerance of the chord from the anchor to the candidate.
func sleeveFit(ls orb.LineString, tolerance float64) orb.LineString {
	if len(ls) < 3 {
		return ls
	}
	out := orb.LineString{ls[0]}
	anchor := 0
	for anchor < len(ls)-1 {
		next := anchor + 1
		for j := anchor + 2; j < len(ls); j++ {
			if !withinSleeve(ls, anchor, j, tolerance) {
				break
			}
			next = j
		}
		out = append(out, ls[next])
		anchor = next
	}
	return out
}

func withinSleeve(ls orb.LineString, from, to int, tolerance float64) bool {
	a, b := ls[from], ls[to]
	for k := from + 1; k < to; k++ {
		if segmentDistance(ls[k], a, b) > tolerance {
			return false
		}
	}
	return true
}

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(p, a, b orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return planar.Distance(p, a)
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return planar.Distance(p, orb.Point{a[0] + t*dx, a[1] + t*dy})
}
