package vertex

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

type command struct {
	cmd path.Command
	pts []vec.Vec2
}

func record(p path.Path) []command {
	var out []command
	for cmd, pts := range p {
		out = append(out, command{cmd, append([]vec.Vec2(nil), pts...)})
	}
	return out
}

func v(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }

func TestFromGeometry(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
		want []command
	}{
		{"nil", nil, nil},
		{"point", orb.Point{1, 2}, []command{{path.CmdMoveTo, []vec.Vec2{v(1, 2)}}}},
		{"line", orb.LineString{{0, 0}, {1, 0}, {1, 1}}, []command{
			{path.CmdMoveTo, []vec.Vec2{v(0, 0)}},
			{path.CmdLineTo, []vec.Vec2{v(1, 0)}},
			{path.CmdLineTo, []vec.Vec2{v(1, 1)}},
		}},
		{"polygon", orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 0}}}, []command{
			{path.CmdMoveTo, []vec.Vec2{v(0, 0)}},
			{path.CmdLineTo, []vec.Vec2{v(2, 0)}},
			{path.CmdLineTo, []vec.Vec2{v(2, 2)}},
			{path.CmdClose, nil},
		}},
		{"nan dropped", orb.LineString{{math.NaN(), 0}, {1, 1}, {math.Inf(1), 2}, {3, 3}}, []command{
			{path.CmdMoveTo, []vec.Vec2{v(1, 1)}},
			{path.CmdLineTo, []vec.Vec2{v(3, 3)}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, record(FromGeometry(tt.geom)))
		})
	}
}

func TestSimplifyZeroIsIdentity(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 0.01}, {2, 0}, {3, 5}, {4, 0}}
	for _, alg := range []Algorithm{RadialDistance, DouglasPeucker, VisvalingamWhyatt, ZhaoSaalfeld} {
		t.Run(alg.String(), func(t *testing.T) {
			want := record(FromGeometry(line))
			assert.Equal(t, want, record(Simplify(0, alg)(FromGeometry(line))))
		})
	}
}

func TestSimplifyRemovesNearCollinear(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 0.01}, {2, 0}, {3, 0.01}, {4, 0}}
	for _, alg := range []Algorithm{DouglasPeucker, ZhaoSaalfeld} {
		t.Run(alg.String(), func(t *testing.T) {
			sp := Split(Simplify(0.1, alg)(FromGeometry(line)))
			require.Len(t, sp, 1)
			assert.Equal(t, []vec.Vec2{v(0, 0), v(4, 0)}, sp[0].Points)
		})
	}
}

func TestSimplifyKeepsRingsClosed(t *testing.T) {
	ring := orb.Polygon{{{0, 0}, {5, 0}, {10, 0.01}, {10, 10}, {0, 10}, {0, 0}}}
	sp := Split(Simplify(0.5, DouglasPeucker)(FromGeometry(ring)))
	require.Len(t, sp, 1)
	assert.True(t, sp[0].Closed)
	assert.GreaterOrEqual(t, len(sp[0].Points), 3)
	assert.NotContains(t, sp[0].Points, v(5, 0))
}

func TestClip(t *testing.T) {
	box := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

	t.Run("line crossing", func(t *testing.T) {
		sp := Split(Clip(box)(FromGeometry(orb.LineString{{-5, 5}, {15, 5}})))
		require.Len(t, sp, 1)
		assert.Equal(t, []vec.Vec2{v(0, 5), v(10, 5)}, sp[0].Points)
	})

	t.Run("outside is empty", func(t *testing.T) {
		p := Clip(box)(FromGeometry(orb.LineString{{20, 20}, {30, 30}}))
		assert.Zero(t, Count(p))
		assert.Empty(t, record(p))
	})

	t.Run("ring stays closed", func(t *testing.T) {
		sq := orb.Polygon{{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}, {-5, -5}}}
		sp := Split(Clip(box)(FromGeometry(sq)))
		require.Len(t, sp, 1)
		assert.True(t, sp[0].Closed)
		ext, ok := Extent(Collect(FromGeometry(sq)).Iter())
		require.True(t, ok)
		assert.Equal(t, -5.0, ext.LLx)
		clipped, _ := Extent(Clip(box)(FromGeometry(sq)))
		assert.Equal(t, 0.0, clipped.LLx)
		assert.Equal(t, 5.0, clipped.URx)
	})

	t.Run("points", func(t *testing.T) {
		p := Clip(box)(FromGeometry(orb.MultiPoint{{1, 1}, {11, 1}}))
		assert.Equal(t, 1, Count(p))
	})
}

func TestAffine(t *testing.T) {
	m := matrix.Matrix{2, 0, 0, 2, 10, 20}
	p := Affine(m)(FromGeometry(orb.LineString{{1, 1}, {2, 3}}))
	sp := Split(p)
	require.Len(t, sp, 1)
	assert.Equal(t, []vec.Vec2{v(12, 22), v(14, 26)}, sp[0].Points)

	line := FromGeometry(orb.LineString{{1, 1}})
	assert.Equal(t, record(line), record(Affine(matrix.Identity)(line)))
}

func TestProjectMercator(t *testing.T) {
	sp := Split(ToMercator()(FromGeometry(orb.Point{180, 0})))
	require.Len(t, sp, 1)
	assert.InDelta(t, 20037508.34, sp[0].Points[0].X, 0.01)
	assert.InDelta(t, 0, sp[0].Points[0].Y, 1e-6)

	back := Split(ToWGS84()(ToMercator()(FromGeometry(orb.Point{10, 50}))))
	assert.InDelta(t, 10, back[0].Points[0].X, 1e-9)
	assert.InDelta(t, 50, back[0].Points[0].Y, 1e-9)
}

func TestDropInvalid(t *testing.T) {
	src := func(yield func(path.Command, []vec.Vec2) bool) {
		_ = yield(path.CmdMoveTo, []vec.Vec2{v(math.NaN(), 0)}) &&
			yield(path.CmdLineTo, []vec.Vec2{v(1, 1)}) &&
			yield(path.CmdLineTo, []vec.Vec2{v(2, math.Inf(-1))}) &&
			yield(path.CmdLineTo, []vec.Vec2{v(3, 3)})
	}
	sp := Split(DropInvalid()(src))
	require.Len(t, sp, 1)
	assert.Equal(t, []vec.Vec2{v(1, 1), v(3, 3)}, sp[0].Points)
}

func TestSmooth(t *testing.T) {
	line := FromGeometry(orb.LineString{{0, 0}, {10, 0}, {10, 10}})
	assert.Equal(t, record(line), record(Smooth(0)(line)))

	sp := Split(Smooth(1)(line))
	require.Len(t, sp, 1)
	pts := sp[0].Points
	assert.Len(t, pts, 1+2*smoothSteps)
	assert.Equal(t, v(0, 0), pts[0])
	assert.Equal(t, v(10, 10), pts[len(pts)-1])
	// the corner vertex survives but its neighbours move off the axes
	assert.Contains(t, pts, v(10, 0))
	assert.NotEqual(t, 0.0, pts[smoothSteps-1].Y)

	ring := FromGeometry(orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}})
	rs := Split(Smooth(0.5)(ring))
	require.Len(t, rs, 1)
	assert.True(t, rs[0].Closed)
	assert.Len(t, rs[0].Points, 4*smoothSteps)
}

func TestConventionalOrder(t *testing.T) {
	o := DefaultOptions()
	o.Clip = true
	o.ClipBox = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}
	o.Transform = matrix.Matrix{1, 0, 0, 1, 100, 0}

	// clipping happens in source coordinates, before the shift
	sp := Split(Conventional(o)(FromGeometry(orb.LineString{{-5, 5}, {5, 5}})))
	require.Len(t, sp, 1)
	assert.Equal(t, []vec.Vec2{v(100, 5), v(105, 5)}, sp[0].Points)

	line := FromGeometry(orb.LineString{{1, 2}, {3, 4}})
	assert.Equal(t, record(line), record(Conventional(Options{})(line)))
}

func TestConventionalIsDeterministic(t *testing.T) {
	geoms := []orb.Geometry{
		orb.LineString{{-20, 3}, {1.1, 2.7}, {2.3, 2.71}, {7.9, 9.3}, {14, 1}, {31, 17}},
		orb.Polygon{
			{{-5, -5}, {25, -4}, {26, 24}, {3, 27}, {-6, 11}, {-5, -5}},
			{{4, 4}, {9, 4.5}, {8, 9}, {4, 4}},
		},
		orb.MultiPoint{{1, 1}, {math.NaN(), 2}, {30, 30}},
	}
	for _, alg := range []Algorithm{RadialDistance, DouglasPeucker, VisvalingamWhyatt, ZhaoSaalfeld} {
		o := Options{
			Clip:              true,
			ClipBox:           orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 20}},
			Reproject:         ToMercator(),
			Transform:         matrix.Matrix{0.37, 0.11, -0.11, 0.37, 12.5, -3.25},
			SimplifyTolerance: 0.01,
			SimplifyAlgorithm: alg,
			Smooth:            0.4,
		}
		for _, g := range geoms {
			first := bits(Split(Conventional(o)(FromGeometry(g))))
			second := bits(Split(Conventional(o)(FromGeometry(g))))
			require.NotEmpty(t, first, "%v %T", alg, g)
			assert.Equal(t, first, second, "%v %T", alg, g)
		}
	}
}

// bits flattens subpaths to the raw bit patterns of their coordinates.
func bits(sps []Subpath) []uint64 {
	var out []uint64
	for _, sp := range sps {
		out = append(out, math.Float64bits(float64(len(sp.Points))))
		for _, p := range sp.Points {
			out = append(out, math.Float64bits(p.X), math.Float64bits(p.Y))
		}
	}
	return out
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm("Visvalingam_Whyatt")
	require.NoError(t, err)
	assert.Equal(t, VisvalingamWhyatt, a)
	_, err = ParseAlgorithm("lang")
	assert.Error(t, err)
}
