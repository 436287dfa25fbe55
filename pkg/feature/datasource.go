package feature

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Query selects features from a Datasource.
type Query struct {
	// Bounds limits results to features whose bound intersects it. A zero
	// bound selects every feature, including those without geometry.
	Bounds orb.Bound

	// ScaleDenominator is the scale of the render pass issuing the query.
	ScaleDenominator float64

	// Properties lists the attributes the caller reads. Nil means all.
	Properties []string
}

// Datasource produces fresh feature sources for queries.
type Datasource interface {
	// Features returns a source over the features matching the query.
	Features(q Query) Source

	// Bounds returns the extent of all features.
	Bounds() orb.Bound
}

// MemoryDatasource holds features in memory behind an R-tree.
//
// Query results preserve insertion order regardless of the tree layout.
// A MemoryDatasource is safe for concurrent reads once built.
type MemoryDatasource struct {
	features []*Feature
	rtree    *rtreego.Rtree
	bounds   orb.Bound
	hasBound bool
}

// indexedFeature wraps a feature for the R-tree
type indexedFeature struct {
	index   int
	feature *Feature
	bound   orb.Bound
}

// Bounds implements rtreego.Spatial interface.
func (f *indexedFeature) Bounds() rtreego.Rect {
	rect, _ := toRect(f.bound)
	return rect
}

// toRect converts a bound to an rtreego rectangle. It fails for bounds with
// NaN or infinite corners.
func toRect(b orb.Bound) (rtreego.Rect, bool) {
	if !finiteBound(b) {
		return rtreego.Rect{}, false
	}
	point := rtreego.Point{b.Min[0], b.Min[1]}
	width := b.Max[0] - b.Min[0]
	height := b.Max[1] - b.Min[1]

	// rtreego rejects zero-length sides, so points get a tiny extent
	const epsilon = 1e-9
	if width < epsilon {
		width = epsilon
	}
	if height < epsilon {
		height = epsilon
	}

	rect, err := rtreego.NewRect(point, []float64{width, height})
	return rect, err == nil
}

func finiteBound(b orb.Bound) bool {
	for _, v := range [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1]
}

// geometryBound returns the bound of the finite vertices of g. orb seeds
// bounds from the first vertex, so a leading NaN poisons Bound().
func geometryBound(g orb.Geometry) (orb.Bound, bool) {
	if b := g.Bound(); finiteBound(b) {
		return b, true
	}
	var (
		b  orb.Bound
		ok bool
	)
	eachPoint(g, func(p orb.Point) {
		if math.IsNaN(p[0]) || math.IsInf(p[0], 0) || math.IsNaN(p[1]) || math.IsInf(p[1], 0) {
			return
		}
		if !ok {
			b, ok = p.Bound(), true
			return
		}
		b = b.Extend(p)
	})
	return b, ok
}

func eachPoint(g orb.Geometry, fn func(orb.Point)) {
	switch g := g.(type) {
	case orb.Point:
		fn(g)
	case orb.MultiPoint:
		for _, p := range g {
			fn(p)
		}
	case orb.LineString:
		for _, p := range g {
			fn(p)
		}
	case orb.Ring:
		for _, p := range g {
			fn(p)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			eachPoint(ls, fn)
		}
	case orb.Polygon:
		for _, r := range g {
			eachPoint(r, fn)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			eachPoint(p, fn)
		}
	case orb.Collection:
		for _, c := range g {
			eachPoint(c, fn)
		}
	case orb.Bound:
		fn(g.Min)
		fn(g.Max)
	}
}

// NewMemoryDatasource indexes the given features. Nil entries are skipped.
func NewMemoryDatasource(features []*Feature) *MemoryDatasource {
	ds := &MemoryDatasource{
		features: make([]*Feature, 0, len(features)),
		rtree:    rtreego.NewTree(2, 25, 50),
	}
	for _, f := range features {
		ds.Add(f)
	}
	return ds
}

// Add appends a feature to the datasource. It must not be called
// concurrently with queries.
func (ds *MemoryDatasource) Add(f *Feature) {
	if f == nil {
		return
	}
	idx := len(ds.features)
	ds.features = append(ds.features, f)

	if f.Geometry() == nil {
		return
	}
	// features without a finite vertex are only reached by unbounded queries
	b, ok := geometryBound(f.Geometry())
	if !ok {
		return
	}
	ds.rtree.Insert(&indexedFeature{index: idx, feature: f, bound: b})

	if !ds.hasBound {
		ds.bounds = b
		ds.hasBound = true
	} else {
		ds.bounds = ds.bounds.Union(b)
	}
}

// Len returns the number of features held.
func (ds *MemoryDatasource) Len() int {
	return len(ds.features)
}

// Bounds implements Datasource.
func (ds *MemoryDatasource) Bounds() orb.Bound {
	return ds.bounds
}

// Features implements Datasource.
//
// Example:
//
//	src := ds.Features(feature.Query{Bounds: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}})
//	for f, ok := src.Next(); ok; f, ok = src.Next() {
//	    draw(f)
//	}
func (ds *MemoryDatasource) Features(q Query) Source {
	if q.Bounds == (orb.Bound{}) {
		all := make([]*Feature, len(ds.features))
		copy(all, ds.features)
		return NewSliceSource(all)
	}

	rect, ok := toRect(q.Bounds)
	if !ok {
		return NewSliceSource(nil)
	}
	spatials := ds.rtree.SearchIntersect(rect)
	hits := make([]*indexedFeature, 0, len(spatials))
	for _, spatial := range spatials {
		indexed := spatial.(*indexedFeature)
		// the epsilon padding can report near misses, so recheck exactly
		if indexed.bound.Intersects(q.Bounds) {
			hits = append(hits, indexed)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].index < hits[j].index })

	result := make([]*Feature, len(hits))
	for i, h := range hits {
		result[i] = h.feature
	}
	return NewSliceSource(result)
}
