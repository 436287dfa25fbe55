package render

import (
	"fmt"
	"math"
	"strings"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"github.com/beetlebugorg/portrayal/pkg/cache"
	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/placement"
)

// Caches are the read-mostly stores shared by renderers, possibly across
// goroutines. They never evict; call Clear to release memory.
type Caches struct {
	Faces       *cache.Cache[*placement.Face]
	Markers     *cache.Cache[*Marker]
	Expressions *cache.Cache[*expr.Expr]
}

// NewCaches creates empty caches.
func NewCaches() *Caches {
	return &Caches{
		Faces:       cache.New[*placement.Face](),
		Markers:     cache.New[*Marker](),
		Expressions: cache.New[*expr.Expr](),
	}
}

// Clear empties every cache.
func (c *Caches) Clear() {
	c.Faces.Clear()
	c.Markers.Clear()
	c.Expressions.Clear()
}

// Expression returns the parsed form of src, parsing it at most once.
func (c *Caches) Expression(src string) (*expr.Expr, error) {
	return c.Expressions.GetOrLoad(src, func() (*expr.Expr, error) {
		return expr.Parse(src)
	})
}

// Marker is a compiled marker outline centred on the origin.
type Marker struct {
	Name          string
	Width, Height float64
	Path          *path.Data
}

// Marker shape names. Files that are not shapes compile to a rectangle of
// the requested size; decoding images is the backend's concern.
const (
	ShapeEllipse  = "shape://ellipse"
	ShapeSquare   = "shape://square"
	ShapeTriangle = "shape://triangle"
	ShapeArrow    = "shape://arrow"
)

// ellipseSegments is the number of edges of a compiled ellipse.
const ellipseSegments = 16

// Marker returns the compiled marker for a file and size. An empty file is
// the ellipse.
func (c *Caches) Marker(file string, width, height float64) (*Marker, error) {
	if file == "" {
		file = ShapeEllipse
	}
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("marker %s: invalid size %gx%g", file, width, height)
	}
	key := fmt.Sprintf("%s@%gx%g", file, width, height)
	return c.Markers.GetOrLoad(key, func() (*Marker, error) {
		return compileMarker(file, width, height), nil
	})
}

func compileMarker(file string, w, h float64) *Marker {
	hw, hh := w/2, h/2
	var pts []vec.Vec2
	switch strings.ToLower(file) {
	case ShapeEllipse:
		for i := 0; i < ellipseSegments; i++ {
			a := 2 * math.Pi * float64(i) / ellipseSegments
			pts = append(pts, vec.Vec2{X: hw * math.Cos(a), Y: hh * math.Sin(a)})
		}
	case ShapeTriangle:
		pts = []vec.Vec2{{X: 0, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	case ShapeArrow:
		// points along +x, the line direction
		pts = []vec.Vec2{
			{X: -hw, Y: -hh / 2}, {X: 0, Y: -hh / 2}, {X: 0, Y: -hh},
			{X: hw, Y: 0},
			{X: 0, Y: hh}, {X: 0, Y: hh / 2}, {X: -hw, Y: hh / 2},
		}
	default:
		pts = []vec.Vec2{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	}

	d := &path.Data{}
	d.MoveTo(pts[0])
	for _, p := range pts[1:] {
		d.LineTo(p)
	}
	d.Close()
	return &Marker{Name: file, Width: w, Height: h, Path: d}
}
