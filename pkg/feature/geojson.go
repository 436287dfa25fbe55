package feature

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// FromGeoJSON converts a GeoJSON feature. The GeoJSON id is used when it is
// numeric or a numeric string; otherwise fallbackID is used.
func FromGeoJSON(gf *geojson.Feature, fallbackID int64) *Feature {
	attrs := make(map[string]Value, len(gf.Properties))
	for k, v := range gf.Properties {
		attrs[k] = ValueOf(v)
	}
	return &Feature{
		id:         geoJSONID(gf.ID, fallbackID),
		geometry:   gf.Geometry,
		attributes: attrs,
	}
}

func geoJSONID(id any, fallback int64) int64 {
	switch t := id.(type) {
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return int64(t)
		}
	case int:
		return int64(t)
	case int64:
		return t
	case string:
		if i, err := strconv.ParseInt(t, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

// LoadGeoJSON builds a MemoryDatasource from a GeoJSON FeatureCollection.
//
// Features without an id are numbered from 1 in document order.
func LoadGeoJSON(data []byte) (*MemoryDatasource, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode feature collection: %w", err)
	}

	features := make([]*Feature, 0, len(fc.Features))
	for i, gf := range fc.Features {
		if gf == nil {
			return nil, &ErrInvalidFeature{Index: i, Reason: "null feature"}
		}
		features = append(features, FromGeoJSON(gf, int64(i+1)))
	}
	return NewMemoryDatasource(features), nil
}
