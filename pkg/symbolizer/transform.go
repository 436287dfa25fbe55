package symbolizer

import (
	"github.com/beetlebugorg/portrayal/internal/parser"
	"seehuhn.de/go/geom/matrix"
)

// Transform is a parsed SVG-style transform list. The zero Transform is the
// identity.
type Transform struct {
	source string
	m      matrix.Matrix
	set    bool
}

// ParseTransform parses a transform list such as "translate(5,5) scale(2)".
func ParseTransform(s string) (Transform, error) {
	m, err := parser.ParseTransform(s)
	if err != nil {
		return Transform{}, err
	}
	return Transform{source: s, m: m, set: true}, nil
}

// Matrix returns the affine matrix of the transform.
func (t Transform) Matrix() matrix.Matrix {
	if !t.set {
		return matrix.Identity
	}
	return t.m
}

// IsIdentity reports whether the transform leaves points unchanged.
func (t Transform) IsIdentity() bool {
	return t.Matrix() == matrix.Identity
}

// Apply maps the point (x, y) through the transform.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return parser.Apply(t.Matrix(), x, y)
}

// String returns the transform text it was parsed from.
func (t Transform) String() string {
	return t.source
}

// MarshalText implements encoding.TextMarshaler.
func (t Transform) MarshalText() ([]byte, error) {
	return []byte(t.source), nil
}
