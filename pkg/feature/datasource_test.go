package feature

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureAccessors(t *testing.T) {
	attrs := map[string]Value{"name": String("Pier")}
	f := New(7, orb.LineString{{0, 0}, {10, 5}}, attrs)
	attrs["name"] = String("changed")

	assert.Equal(t, int64(7), f.ID())
	v, ok := f.Attribute("name")
	require.True(t, ok)
	assert.Equal(t, "Pier", v.ToString(), "constructor must copy attributes")

	gt, ok := f.Attribute(GeometryTypeAttribute)
	require.True(t, ok)
	assert.True(t, gt.Equal(Int(2)))

	assert.True(t, f.Get("missing").IsNull())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 5}}, f.Bounds())
	assert.Equal(t, []string{"name"}, f.AttributeNames())
}

func TestMemoryDatasourceQuery(t *testing.T) {
	features := []*Feature{
		New(1, orb.Point{5, 5}, nil),
		New(2, orb.Point{50, 50}, nil),
		New(3, orb.Polygon{{{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0}}}, nil),
		New(4, nil, nil),
	}
	ds := NewMemoryDatasource(features)
	require.Equal(t, 4, ds.Len())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{50, 50}}, ds.Bounds())

	all := Drain(ds.Features(Query{}))
	require.Len(t, all, 4)

	hits := Drain(ds.Features(Query{Bounds: orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{10, 10}}}))
	ids := make([]int64, len(hits))
	for i, f := range hits {
		ids[i] = f.ID()
	}
	assert.Equal(t, []int64{1, 3}, ids, "results keep insertion order")

	none := Drain(ds.Features(Query{Bounds: orb.Bound{Min: orb.Point{100, 100}, Max: orb.Point{110, 110}}}))
	assert.Empty(t, none)
}

func TestMemoryDatasourceNonFiniteBounds(t *testing.T) {
	nan := math.NaN()
	features := []*Feature{
		New(1, orb.Point{nan, nan}, nil),
		New(2, orb.MultiPoint{{nan, 0}, {5, 5}}, nil),
		New(3, orb.LineString{{math.Inf(1), 0}, {8, 8}, {9, 6}}, nil),
		New(4, orb.Point{50, 50}, nil),
	}
	ds := NewMemoryDatasource(features)
	require.Equal(t, 4, ds.Len())
	assert.Equal(t, orb.Bound{Min: orb.Point{5, 5}, Max: orb.Point{50, 50}}, ds.Bounds())

	assert.Len(t, Drain(ds.Features(Query{})), 4, "unbounded queries return every feature")

	hits := Drain(ds.Features(Query{Bounds: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}}))
	ids := make([]int64, len(hits))
	for i, f := range hits {
		ids[i] = f.ID()
	}
	assert.Equal(t, []int64{2, 3}, ids)

	bad := orb.Bound{Min: orb.Point{nan, 0}, Max: orb.Point{10, 10}}
	assert.Empty(t, Drain(ds.Features(Query{Bounds: bad})))
}

func TestSliceSourceNoRewind(t *testing.T) {
	src := NewSliceSource([]*Feature{New(1, nil, nil), nil, New(2, nil, nil)})
	f, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, int64(1), f.ID())
	f, ok = src.Next()
	require.True(t, ok)
	assert.Equal(t, int64(2), f.ID())
	_, ok = src.Next()
	assert.False(t, ok)
	_, ok = src.Next()
	assert.False(t, ok)
}

func TestLoadGeoJSON(t *testing.T) {
	data := []byte(`{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "id": 10, "geometry": {"type": "Point", "coordinates": [1, 2]},
	     "properties": {"name": "Light", "height": 12.5, "lit": true}},
	    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [3, 4]]},
	     "properties": {"kind": "road"}}
	  ]
	}`)

	ds, err := LoadGeoJSON(data)
	require.NoError(t, err)
	got := Drain(ds.Features(Query{}))
	require.Len(t, got, 2)

	assert.Equal(t, int64(10), got[0].ID())
	assert.Equal(t, "Light", got[0].Get("name").ToString())
	assert.True(t, got[0].Get("lit").ToBool())
	h, err := got[0].Get("height").ToFloat()
	require.NoError(t, err)
	assert.Equal(t, 12.5, h)

	assert.Equal(t, int64(2), got[1].ID(), "missing id falls back to position")
	assert.Equal(t, GeometryTypeLineString, got[1].GeometryType())

	_, err = LoadGeoJSON([]byte(`{"type":`))
	assert.Error(t, err)
}
