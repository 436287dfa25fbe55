package parser

import (
	"errors"
	"math"
	"testing"
)

func TestParseTransform(t *testing.T) {
	tests := []struct {
		input  string
		x, y   float64
		wx, wy float64
	}{
		{"", 3, 4, 3, 4},
		{"translate(10)", 1, 1, 11, 1},
		{"translate(10, -5)", 1, 1, 11, -4},
		{"scale(2)", 3, 4, 6, 8},
		{"scale(2 3)", 3, 4, 6, 12},
		{"rotate(90)", 1, 0, 0, 1},
		{"rotate(180, 5, 5)", 0, 0, 10, 10},
		{"translate(10,0) scale(2)", 1, 1, 12, 2},
		{"scale(2) translate(10,0)", 1, 1, 22, 2},
		{"matrix(1 0 0 1 7 8)", 0, 0, 7, 8},
		{"skewX(45)", 0, 1, 1, 1},
		{"skewY(45)", 1, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseTransform(tt.input)
			if err != nil {
				t.Fatalf("ParseTransform(%q) failed: %v", tt.input, err)
			}
			x, y := Apply(m, tt.x, tt.y)
			if math.Abs(x-tt.wx) > 1e-9 || math.Abs(y-tt.wy) > 1e-9 {
				t.Errorf("ParseTransform(%q) maps (%v,%v) to (%v,%v), want (%v,%v)",
					tt.input, tt.x, tt.y, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestParseTransformErrors(t *testing.T) {
	for _, input := range []string{"wobble(1)", "scale(1,2,3)", "translate(1", "rotate(a)", "matrix(1 2 3)"} {
		_, err := ParseTransform(input)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("ParseTransform(%q) error = %v, want *SyntaxError", input, err)
		}
	}
}
