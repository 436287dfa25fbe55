package placement

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Detector decides whether a footprint may be placed without overlapping
// earlier placements.
type Detector interface {
	// Allowed reports whether box is free.
	Allowed(box orb.Bound) bool

	// Insert marks box as occupied.
	Insert(box orb.Bound)

	// Place inserts box when it is allowed and reports whether it was.
	Place(box orb.Bound) bool
}

// KeyedDetector additionally suppresses repeats: a box carrying a key is
// rejected when another box with the same key lies within minDistance.
type KeyedDetector interface {
	Detector
	AllowedKey(box orb.Bound, key string, minDistance float64) bool
	InsertKey(box orb.Bound, key string)
}

// occupied is an R-tree entry
type occupied struct {
	box orb.Bound
	key string
}

// Bounds implements rtreego.Spatial interface. Only finite boxes are
// inserted, so the conversion cannot fail here.
func (o *occupied) Bounds() rtreego.Rect {
	rect, _ := toRect(o.box)
	return rect
}

// toRect converts a box to an R-tree rectangle, padding degenerate sides.
// It fails for boxes that are not finite.
func toRect(b orb.Bound) (rtreego.Rect, bool) {
	if !finiteBox(b) {
		return rtreego.Rect{}, false
	}
	const epsilon = 1e-9
	width := math.Max(b.Max[0]-b.Min[0], epsilon)
	height := math.Max(b.Max[1]-b.Min[1], epsilon)
	rect, err := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{width, height})
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

// RTreeDetector is a Detector over an R-tree of placed boxes.
//
// Boxes that leave the extent or have non-finite corners are rejected.
// Every box is grown by the padding before testing, but stored unpadded.
// A zero extent accepts boxes anywhere.
type RTreeDetector struct {
	extent  orb.Bound
	bounded bool
	padding float64
	tree    *rtreego.Rtree
	count   int
}

// NewRTreeDetector creates an empty detector.
func NewRTreeDetector(extent orb.Bound, padding float64) *RTreeDetector {
	return &RTreeDetector{
		extent:  extent,
		bounded: extent != orb.Bound{},
		padding: positiveOr(padding, 0),
		tree:    rtreego.NewTree(2, 25, 50),
	}
}

// Extent returns the detector's extent.
func (d *RTreeDetector) Extent() orb.Bound {
	return d.extent
}

// Len returns the number of occupied boxes.
func (d *RTreeDetector) Len() int {
	return d.count
}

// Allowed implements Detector.
func (d *RTreeDetector) Allowed(box orb.Bound) bool {
	if !finiteBox(box) {
		return false
	}
	if d.bounded && !contains(d.extent, box) {
		return false
	}
	test := box.Pad(d.padding)
	rect, ok := toRect(test)
	if !ok {
		return false
	}
	for _, s := range d.tree.SearchIntersect(rect) {
		if overlaps(s.(*occupied).box, test) {
			return false
		}
	}
	return true
}

// AllowedKey implements KeyedDetector.
func (d *RTreeDetector) AllowedKey(box orb.Bound, key string, minDistance float64) bool {
	if !d.Allowed(box) {
		return false
	}
	if key == "" || !(minDistance > 0) {
		return true
	}
	center := box.Center()
	near := orb.Bound{Min: center, Max: center}.Pad(math.Min(minDistance, math.MaxFloat32))
	rect, ok := toRect(near)
	if !ok {
		return false
	}
	for _, s := range d.tree.SearchIntersect(rect) {
		o := s.(*occupied)
		if o.key != key {
			continue
		}
		c := o.box.Center()
		if math.Hypot(c[0]-center[0], c[1]-center[1]) < minDistance {
			return false
		}
	}
	return true
}

// Insert implements Detector.
func (d *RTreeDetector) Insert(box orb.Bound) {
	d.InsertKey(box, "")
}

// InsertKey implements KeyedDetector.
func (d *RTreeDetector) InsertKey(box orb.Bound, key string) {
	if !finiteBox(box) {
		return
	}
	d.tree.Insert(&occupied{box: box, key: key})
	d.count++
}

// Place implements Detector.
func (d *RTreeDetector) Place(box orb.Bound) bool {
	if !d.Allowed(box) {
		return false
	}
	d.Insert(box)
	return true
}

// Clear removes all occupied boxes.
func (d *RTreeDetector) Clear() {
	d.tree = rtreego.NewTree(2, 25, 50)
	d.count = 0
}

// overlaps is a strict intersection test: boxes that only touch do not
// overlap.
func overlaps(a, b orb.Bound) bool {
	return a.Min[0] < b.Max[0] && b.Min[0] < a.Max[0] &&
		a.Min[1] < b.Max[1] && b.Min[1] < a.Max[1]
}

func contains(outer, inner orb.Bound) bool {
	return outer.Min[0] <= inner.Min[0] && outer.Min[1] <= inner.Min[1] &&
		inner.Max[0] <= outer.Max[0] && inner.Max[1] <= outer.Max[1]
}

// positiveOr returns v when it is a finite positive number and def otherwise.
func positiveOr(v, def float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return def
}
