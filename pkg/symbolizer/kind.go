package symbolizer

import (
	"strings"

	"github.com/beetlebugorg/portrayal/pkg/feature"
)

// Kind is the closed set of symbolizer kinds.
type Kind int

const (
	// KindPoint draws an image or default square at a point.
	KindPoint Kind = iota + 1

	// KindLine strokes lines and polygon outlines.
	KindLine

	// KindLinePattern repeats an image along lines.
	KindLinePattern

	// KindPolygon fills areas.
	KindPolygon

	// KindPolygonPattern fills areas with a repeated image.
	KindPolygonPattern

	// KindText places a text label.
	KindText

	// KindShield places a text label over an image.
	KindShield

	// KindBuilding extrudes polygons into pseudo-3D blocks.
	KindBuilding

	// KindRaster draws raster data over its bound.
	KindRaster

	// KindMarkers places vector or image markers at points or along lines.
	KindMarkers

	// KindGroup lays out a group of symbols built from column attributes.
	KindGroup

	// KindDot draws a single pixel-sized dot per point.
	KindDot

	// KindDebug draws placement and collision diagnostics.
	KindDebug
)

var kindNames = map[Kind]string{
	KindPoint:          "point",
	KindLine:           "line",
	KindLinePattern:    "line-pattern",
	KindPolygon:        "polygon",
	KindPolygonPattern: "polygon-pattern",
	KindText:           "text",
	KindShield:         "shield",
	KindBuilding:       "building",
	KindRaster:         "raster",
	KindMarkers:        "markers",
	KindGroup:          "group",
	KindDot:            "dot",
	KindDebug:          "debug",
}

// Kinds returns every symbolizer kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindPoint, KindLine, KindLinePattern, KindPolygon, KindPolygonPattern,
		KindText, KindShield, KindBuilding, KindRaster, KindMarkers,
		KindGroup, KindDot, KindDebug,
	}
}

// String returns the stylesheet name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a stylesheet name to a Kind. Names are case-insensitive,
// and an optional "-symbolizer" suffix is accepted.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, "-symbolizer")
	n = strings.TrimSuffix(n, "symbolizer")
	n = strings.TrimSuffix(n, "_")
	for k, kn := range kindNames {
		if kn == n || strings.ReplaceAll(kn, "-", "_") == n || strings.ReplaceAll(kn, "-", "") == n {
			return k, nil
		}
	}
	return 0, &UnknownKindError{Name: name}
}

// HasText reports whether the kind carries a text block.
func (k Kind) HasText() bool {
	return k == KindText || k == KindShield
}

// HasImage reports whether the kind draws an external image or marker file.
func (k Kind) HasImage() bool {
	switch k {
	case KindPoint, KindShield, KindLinePattern, KindPolygonPattern, KindMarkers:
		return true
	}
	return false
}

// UsesPlacement reports whether the kind positions its output through the
// placement engine and collision detector.
func (k Kind) UsesPlacement() bool {
	switch k {
	case KindPoint, KindText, KindShield, KindMarkers, KindGroup:
		return true
	}
	return false
}

// GeometryKinds returns the geometry types the kind can draw.
func (k Kind) GeometryKinds() []feature.GeometryType {
	switch k {
	case KindPolygon, KindPolygonPattern, KindBuilding:
		return []feature.GeometryType{feature.GeometryTypePolygon}
	case KindLine, KindLinePattern:
		return []feature.GeometryType{feature.GeometryTypeLineString, feature.GeometryTypePolygon}
	case KindDot:
		return []feature.GeometryType{feature.GeometryTypePoint}
	default:
		return []feature.GeometryType{
			feature.GeometryTypePoint, feature.GeometryTypeLineString,
			feature.GeometryTypePolygon, feature.GeometryTypeCollection,
		}
	}
}

// Accepts reports whether the kind can draw geometries of type gt.
func (k Kind) Accepts(gt feature.GeometryType) bool {
	for _, g := range k.GeometryKinds() {
		if g == gt {
			return true
		}
	}
	return false
}
