package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/style"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// Spatial reference identifiers understood by the renderer.
const (
	SRSGeographic = "EPSG:4326"
	SRSMercator   = "EPSG:3857"
)

// pixelSize is the OGC standard rendering pixel, 0.28 mm.
const pixelSize = 0.00028

// earthCircumference is the equatorial circumference of the WGS84 sphere
// in meters.
const earthCircumference = 2 * math.Pi * 6378137

// Map is a render target: an extent in map units, an output size in
// pixels, styles and the layers that reference them.
type Map struct {
	Extent        orb.Bound
	Width, Height int

	// SRS is the map's spatial reference; empty means SRSMercator.
	SRS string

	// Background fills the canvas before any layer. A fully transparent
	// color draws nothing.
	Background symbolizer.Color

	// Buffer widens the queried area by this many pixels on every side so
	// that labels near the edge find their features.
	Buffer int

	Layers []*Layer
	Styles map[string]*style.Style
}

// NewMap creates an empty map in spherical mercator.
func NewMap(width, height int, extent orb.Bound) *Map {
	return &Map{
		Extent: extent,
		Width:  width,
		Height: height,
		SRS:    SRSMercator,
		Styles: make(map[string]*style.Style),
	}
}

// AddStyle registers a style under a name.
func (m *Map) AddStyle(name string, s *style.Style) {
	if m.Styles == nil {
		m.Styles = make(map[string]*style.Style)
	}
	m.Styles[name] = s
}

// AddLayer appends a layer; layers draw in the order added.
func (m *Map) AddLayer(l *Layer) {
	m.Layers = append(m.Layers, l)
}

// Validate checks the map is renderable: positive size, a non-empty extent,
// and every layer style reference resolves.
func (m *Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("invalid map size %dx%d", m.Width, m.Height)
	}
	if !(m.Extent.Max[0] > m.Extent.Min[0]) || !(m.Extent.Max[1] > m.Extent.Min[1]) {
		return fmt.Errorf("invalid map extent %v", m.Extent)
	}
	for _, l := range m.Layers {
		if l.Datasource == nil {
			return fmt.Errorf("layer %s: no datasource", l.Name)
		}
		for _, name := range l.Styles {
			s, ok := m.Styles[name]
			if !ok {
				return fmt.Errorf("layer %s: unknown style %q", l.Name, name)
			}
			if s == nil {
				return fmt.Errorf("layer %s: style %q is nil", l.Name, name)
			}
		}
	}
	return nil
}

func (m *Map) srs() string {
	if m.SRS == "" {
		return SRSMercator
	}
	return m.SRS
}

// Layer binds a datasource to styles.
type Layer struct {
	Name   string
	Styles []string

	// SRS is the datasource's spatial reference; empty means the map's.
	SRS string

	// MinScale and MaxScale bound the scale denominators at which the
	// layer draws; a zero MaxScale means no upper bound.
	MinScale float64
	MaxScale float64

	Datasource feature.Datasource

	// ClearLabelCache empties the collision detector before the layer
	// draws, so its labels ignore earlier layers.
	ClearLabelCache bool
}

// Visible reports whether the layer draws at the scale denominator. The
// upper bound is exclusive.
func (l *Layer) Visible(denominator float64) bool {
	if denominator < l.MinScale {
		return false
	}
	return l.MaxScale <= 0 || denominator < l.MaxScale
}

// ScaleDenominator returns the map scale for the standard 0.28 mm pixel.
// Geographic extents are converted from degrees to meters at the equator.
func ScaleDenominator(m *Map) float64 {
	if m.Width <= 0 {
		return 0
	}
	resolution := (m.Extent.Max[0] - m.Extent.Min[0]) / float64(m.Width)
	if IsGeographic(m.srs()) {
		resolution *= earthCircumference / 360
	}
	return resolution / pixelSize
}

// IsGeographic reports whether an SRS identifier names longitude/latitude
// degrees.
func IsGeographic(srs string) bool {
	s := strings.ToLower(strings.TrimSpace(srs))
	return s == "epsg:4326" || s == "wgs84" || strings.Contains(s, "+proj=longlat")
}

// IsMercator reports whether an SRS identifier names spherical mercator.
func IsMercator(srs string) bool {
	s := strings.ToLower(strings.TrimSpace(srs))
	switch s {
	case "", "epsg:3857", "epsg:900913", "epsg:3785", "merc":
		return true
	}
	return strings.Contains(s, "+proj=merc")
}

// reprojection returns the projection from one SRS to another, or nil when
// none is needed or known.
func reprojection(from, to string) orb.Projection {
	switch {
	case from == "" || to == "":
		return nil
	case IsGeographic(from) && IsMercator(to):
		return project.WGS84.ToMercator
	case IsMercator(from) && IsGeographic(to):
		return project.Mercator.ToWGS84
	}
	return nil
}

// projectBound maps a bound through a projection that preserves axis
// order, as the geographic and mercator conversions do.
func projectBound(b orb.Bound, proj orb.Projection) orb.Bound {
	if proj == nil {
		return b
	}
	return orb.Bound{Min: proj(b.Min), Max: proj(b.Max)}
}
