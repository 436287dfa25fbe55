package group

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(minX, minY, maxX, maxY float64) orb.Bound {
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}

func TestSimpleRowOffsets(t *testing.T) {
	l := New(SimpleRow, 2, -1)
	for i := 0; i < 3; i++ {
		l.Add(box(0, 0, 10, 10))
	}

	require.Equal(t, 3, l.Len())
	assert.Equal(t, 0.0, l.OffsetAt(0)[0])
	assert.Equal(t, 12.0, l.OffsetAt(1)[0])
	assert.Equal(t, 24.0, l.OffsetAt(2)[0])

	// members are centred on the row axis
	assert.Equal(t, -5.0, l.OffsetAt(0)[1])
	assert.Equal(t, box(0, -5, 34, 5), l.Bounds())
}

func TestSimpleRowUsesMemberMinX(t *testing.T) {
	l := New(SimpleRow, 0, -1)
	l.Add(box(-5, -5, 5, 5))
	l.Add(box(-2, -1, 2, 1))

	assert.Equal(t, orb.Point{5, 0}, l.OffsetAt(0))
	assert.Equal(t, orb.Point{12, 0}, l.OffsetAt(1))
	assert.Equal(t, box(0, -5, 14, 5), l.Bounds())
}

func TestLayoutIsLazy(t *testing.T) {
	l := New(SimpleRow, 2, -1)
	l.Add(box(0, 0, 10, 10))
	l.Add(box(0, 0, 10, 10))
	assert.Equal(t, 0, l.computes, "adding members must not compute offsets")

	l.OffsetAt(0)
	l.OffsetAt(1)
	l.Bounds()
	assert.Equal(t, 1, l.computes, "reads without changes reuse the offsets")

	l.Add(box(0, 0, 4, 4))
	assert.Equal(t, 1, l.computes)
	assert.Equal(t, 24.0, l.OffsetAt(2)[0])
	assert.Equal(t, 2, l.computes)

	l.SetBox(0, box(0, 0, 20, 10))
	assert.Equal(t, 22.0, l.OffsetAt(1)[0])
	assert.Equal(t, 3, l.computes)
}

func TestPairLayout(t *testing.T) {
	l := New(Pair, 2, -1)
	l.Add(box(0, 0, 10, 4))
	l.Add(box(0, 0, 6, 4))
	l.Add(box(0, 0, 8, 2))

	// first pair hugs the axis with half a margin each side
	assert.Equal(t, orb.Point{-11, 0}, l.OffsetAt(0))
	assert.Equal(t, orb.Point{1, 0}, l.OffsetAt(1))
	// odd member centred on the next row, below the first row plus margin
	assert.Equal(t, orb.Point{-4, 6}, l.OffsetAt(2))

	assert.Equal(t, box(-11, 0, 7, 8), l.Bounds())
	for i := 0; i < l.Len(); i++ {
		for j := i + 1; j < l.Len(); j++ {
			a, b := l.MemberBounds(i), l.MemberBounds(j)
			overlapX := a.Min[0] < b.Max[0] && b.Min[0] < a.Max[0]
			overlapY := a.Min[1] < b.Max[1] && b.Min[1] < a.Max[1]
			assert.False(t, overlapX && overlapY, "members %d and %d overlap", i, j)
		}
	}
}

func TestPairMaxDifferenceFallsBackToRow(t *testing.T) {
	l := New(Pair, 2, 3)
	l.Add(box(0, 0, 10, 4))
	l.Add(box(0, 0, 2, 4))

	// widths differ by 8 > 3: centred row of total width 14
	assert.Equal(t, orb.Point{-7, 0}, l.OffsetAt(0))
	assert.Equal(t, orb.Point{5, 0}, l.OffsetAt(1))
}

func TestResetAndParseKind(t *testing.T) {
	l := New(SimpleRow, 1, -1)
	l.Add(box(0, 0, 1, 1))
	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, orb.Bound{}, l.Bounds())

	k, err := ParseKind("pair")
	require.NoError(t, err)
	assert.Equal(t, Pair, k)
	k, err = ParseKind("simple-row")
	require.NoError(t, err)
	assert.Equal(t, SimpleRow, k)
	_, err = ParseKind("spiral")
	assert.Error(t, err)
}
