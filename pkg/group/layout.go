// Package group lays out the members of a grouped symbol so that they do
// not overlap.
//
// Member boxes are given in local, untransformed units. Adding or changing
// a box only marks the layout dirty; offsets are recomputed on the next
// read.
package group

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// Kind selects a layout algorithm.
type Kind int

const (
	// SimpleRow places members left to right, each offset by the running
	// width plus the margin.
	SimpleRow Kind = iota

	// Pair places members two at a time, one either side of the vertical
	// axis, with pairs stacked top to bottom.
	Pair
)

// String returns the stylesheet name of the layout kind.
func (k Kind) String() string {
	switch k {
	case SimpleRow:
		return "simple-row"
	case Pair:
		return "pair"
	default:
		return "unknown"
	}
}

// ParseKind maps a stylesheet name to a layout kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simple", "simple-row", "simple_row", "row":
		return SimpleRow, nil
	case "pair", "pair-layout", "pair_layout":
		return Pair, nil
	}
	return 0, fmt.Errorf("unknown group layout %q", name)
}

// Layout computes one offset per member box.
//
// A Layout is per-feature state and is not safe for concurrent use.
//
// Example:
//
//	l := group.New(group.SimpleRow, 2, -1)
//	for _, box := range boxes {
//	    l.Add(box)
//	}
//	for i := 0; i < l.Len(); i++ {
//	    draw(members[i], l.OffsetAt(i))
//	}
type Layout struct {
	kind          Kind
	margin        float64
	maxDifference float64

	boxes   []orb.Bound
	offsets []orb.Point
	dirty   bool

	computes int // number of recomputations, for tests
}

// New creates an empty layout. A negative maxDifference disables the pair
// size constraint.
func New(kind Kind, margin, maxDifference float64) *Layout {
	return &Layout{kind: kind, margin: margin, maxDifference: maxDifference}
}

// Kind returns the layout algorithm.
func (l *Layout) Kind() Kind { return l.kind }

// Margin returns the inter-item margin.
func (l *Layout) Margin() float64 { return l.margin }

// Add appends a member box and returns its index.
func (l *Layout) Add(box orb.Bound) int {
	l.boxes = append(l.boxes, box)
	l.dirty = true
	return len(l.boxes) - 1
}

// SetBox replaces the box of member i.
func (l *Layout) SetBox(i int, box orb.Bound) {
	l.boxes[i] = box
	l.dirty = true
}

// Len returns the number of members.
func (l *Layout) Len() int {
	return len(l.boxes)
}

// Reset removes all members.
func (l *Layout) Reset() {
	l.boxes = l.boxes[:0]
	l.offsets = l.offsets[:0]
	l.dirty = false
}

// OffsetAt returns the offset of member i, recomputing all offsets first if
// any box changed since the last read. It panics if i is out of range.
func (l *Layout) OffsetAt(i int) orb.Point {
	l.refresh()
	return l.offsets[i]
}

// Offsets returns a copy of all member offsets.
func (l *Layout) Offsets() []orb.Point {
	l.refresh()
	out := make([]orb.Point, len(l.offsets))
	copy(out, l.offsets)
	return out
}

// Bounds returns the extent of the laid out group: every member box moved
// by its offset. An empty layout has a zero bound.
func (l *Layout) Bounds() orb.Bound {
	l.refresh()
	if len(l.boxes) == 0 {
		return orb.Bound{}
	}
	b := translate(l.boxes[0], l.offsets[0])
	for i := 1; i < len(l.boxes); i++ {
		b = b.Union(translate(l.boxes[i], l.offsets[i]))
	}
	return b
}

// MemberBounds returns the box of member i moved by its offset.
func (l *Layout) MemberBounds(i int) orb.Bound {
	l.refresh()
	return translate(l.boxes[i], l.offsets[i])
}

func (l *Layout) refresh() {
	if !l.dirty {
		return
	}
	l.offsets = l.offsets[:0]
	switch l.kind {
	case Pair:
		l.layoutPairs()
	default:
		l.layoutRow(0, len(l.boxes), false)
	}
	l.dirty = false
	l.computes++
}

// layoutRow places boxes[from:to] left to right starting at x = 0, or
// centred on x = 0 when centred is set. Each member's centre sits on y = 0.
func (l *Layout) layoutRow(from, to int, centred bool) {
	x := 0.0
	if centred {
		total := l.margin * float64(to-from-1)
		for _, b := range l.boxes[from:to] {
			total += width(b)
		}
		x = -total / 2
	}
	for _, b := range l.boxes[from:to] {
		l.offsets = append(l.offsets, orb.Point{x - b.Min[0], -b.Center()[1]})
		x += width(b) + l.margin
	}
}

// layoutPairs places members in rows of two. The left member's right edge
// and the right member's left edge sit half a margin either side of x = 0.
// A pair whose widths differ by more than maxDifference is instead centred
// as a simple row. A trailing odd member is centred on its own row. Rows
// are separated vertically by the margin.
func (l *Layout) layoutPairs() {
	y := 0.0
	for i := 0; i < len(l.boxes); i += 2 {
		if i+1 == len(l.boxes) {
			b := l.boxes[i]
			l.offsets = append(l.offsets, orb.Point{-b.Center()[0], y + height(b)/2 - b.Center()[1]})
			break
		}

		left, right := l.boxes[i], l.boxes[i+1]
		rowHeight := math.Max(height(left), height(right))
		centre := y + rowHeight/2

		if l.maxDifference >= 0 && math.Abs(width(left)-width(right)) > l.maxDifference {
			start := len(l.offsets)
			l.layoutRow(i, i+2, true)
			for j := start; j < len(l.offsets); j++ {
				l.offsets[j][1] += centre
			}
		} else {
			half := l.margin / 2
			l.offsets = append(l.offsets,
				orb.Point{-half - left.Max[0], centre - left.Center()[1]},
				orb.Point{half - right.Min[0], centre - right.Center()[1]},
			)
		}
		y += rowHeight + l.margin
	}
}

func width(b orb.Bound) float64  { return b.Max[0] - b.Min[0] }
func height(b orb.Bound) float64 { return b.Max[1] - b.Min[1] }

func translate(b orb.Bound, p orb.Point) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] + p[0], b.Min[1] + p[1]},
		Max: orb.Point{b.Max[0] + p[0], b.Max[1] + p[1]},
	}
}
