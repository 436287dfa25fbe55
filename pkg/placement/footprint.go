package placement

import (
	"math"

	"github.com/paulmach/orb"
)

// Footprint returns the box occupied by a width×height label attached to
// an anchor. Compass directions push the box away from the anchor on
// their side, with dx and dy as extra gap; the exact position centres the
// box on the anchor shifted by (dx, dy). Rotated anchors yield the
// axis-aligned envelope of the rotated box.
func Footprint(a Anchor, dir Direction, width, height, dx, dy float64) orb.Bound {
	ux, uy := dir.Unit()
	var cx, cy float64
	if dir == Exact {
		cx, cy = dx, dy
	} else {
		cx = ux * (width/2 + math.Abs(dx))
		cy = uy * (height/2 + math.Abs(dy))
	}

	hw, hh := width/2, height/2
	corners := [4]orb.Point{
		{cx - hw, cy - hh},
		{cx + hw, cy - hh},
		{cx + hw, cy + hh},
		{cx - hw, cy + hh},
	}
	sin, cos := math.Sincos(a.Angle)
	b := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}
	for _, c := range corners {
		x := a.Point[0] + c[0]*cos - c[1]*sin
		y := a.Point[1] + c[0]*sin + c[1]*cos
		b = b.Extend(orb.Point{x, y})
	}
	return b
}
