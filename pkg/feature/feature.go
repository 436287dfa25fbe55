// Package feature provides the features a map layer draws: an identifier,
// an orb geometry and a set of dynamically typed attributes.
//
// Features are created by a Datasource and consumed read-only by the rule
// cascade, the property model and the placement engine.
package feature

import (
	"sort"

	"github.com/paulmach/orb"
)

// GeometryTypeAttribute is the pseudo-attribute name under which expressions
// read the geometry type of a feature.
const GeometryTypeAttribute = "mapnik::geometry_type"

// Feature is one drawable map object.
//
// A Feature is immutable once built: accessors never hand out storage that
// a caller could use to change it.
type Feature struct {
	id         int64
	geometry   orb.Geometry
	attributes map[string]Value
}

// New creates a feature. The attribute map is copied.
//
// Example:
//
//	f := feature.New(1, orb.Point{10, 20}, map[string]feature.Value{
//	    "name": feature.String("Harbour"),
//	    "pop":  feature.Int(1200),
//	})
func New(id int64, geom orb.Geometry, attrs map[string]Value) *Feature {
	copied := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Feature{id: id, geometry: geom, attributes: copied}
}

// ID returns the feature identifier.
func (f *Feature) ID() int64 {
	return f.id
}

// Geometry returns the feature geometry, which may be nil.
//
// Callers must not modify the returned geometry; use orb.Clone first when a
// mutating operation (projection, simplification) is applied.
func (f *Feature) Geometry() orb.Geometry {
	return f.geometry
}

// GeometryType returns the coarse geometry classification of the feature.
func (f *Feature) GeometryType() GeometryType {
	return GeometryTypeOf(f.geometry)
}

// Bounds returns the bounding box of the feature geometry, or the zero
// bound when the feature has no geometry.
func (f *Feature) Bounds() orb.Bound {
	if f.geometry == nil {
		return orb.Bound{}
	}
	return f.geometry.Bound()
}

// Attribute returns the named attribute.
//
// The pseudo-attribute "mapnik::geometry_type" yields the integer geometry
// type code (1 point, 2 linestring, 3 polygon, 4 collection).
func (f *Feature) Attribute(name string) (Value, bool) {
	if name == GeometryTypeAttribute {
		return Int(int64(f.GeometryType())), true
	}
	v, ok := f.attributes[name]
	return v, ok
}

// Get returns the named attribute or null when it is missing.
func (f *Feature) Get(name string) Value {
	v, _ := f.Attribute(name)
	return v
}

// Attributes returns a copy of the attribute map.
func (f *Feature) Attributes() map[string]Value {
	copied := make(map[string]Value, len(f.attributes))
	for k, v := range f.attributes {
		copied[k] = v
	}
	return copied
}

// AttributeNames returns the attribute names in sorted order.
func (f *Feature) AttributeNames() []string {
	names := make([]string, 0, len(f.attributes))
	for k := range f.attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// GeometryType classifies geometries the way filters see them.
type GeometryType int

const (
	// GeometryTypeUnknown is reported for nil or empty geometries.
	GeometryTypeUnknown GeometryType = 0

	// GeometryTypePoint covers points and multi-points.
	GeometryTypePoint GeometryType = 1

	// GeometryTypeLineString covers line strings and multi-line strings.
	GeometryTypeLineString GeometryType = 2

	// GeometryTypePolygon covers rings, polygons and multi-polygons.
	GeometryTypePolygon GeometryType = 3

	// GeometryTypeCollection covers heterogeneous collections.
	GeometryTypeCollection GeometryType = 4
)

// String returns a human-readable name for the geometry type.
func (g GeometryType) String() string {
	switch g {
	case GeometryTypePoint:
		return "Point"
	case GeometryTypeLineString:
		return "LineString"
	case GeometryTypePolygon:
		return "Polygon"
	case GeometryTypeCollection:
		return "Collection"
	default:
		return "Unknown"
	}
}

// GeometryTypeOf classifies an orb geometry.
func GeometryTypeOf(g orb.Geometry) GeometryType {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return GeometryTypePoint
	case orb.LineString, orb.MultiLineString:
		return GeometryTypeLineString
	case orb.Ring, orb.Polygon, orb.MultiPolygon, orb.Bound:
		return GeometryTypePolygon
	case orb.Collection:
		return GeometryTypeCollection
	default:
		return GeometryTypeUnknown
	}
}
