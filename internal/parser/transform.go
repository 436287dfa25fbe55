package parser

import (
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"
)

// transform functions and their accepted argument counts
var transformArity = map[string][]int{
	"matrix":    {6},
	"translate": {1, 2},
	"scale":     {1, 2},
	"rotate":    {1, 3},
	"skewx":     {1},
	"skewy":     {1},
}

// ParseTransform parses an SVG transform list such as
// "translate(10,5) rotate(45)" into a single affine matrix.
//
// Functions apply right to left, as in SVG: the last function in the list
// is applied to a point first. Angles are in degrees.
func ParseTransform(input string) (matrix.Matrix, error) {
	l := lexer{input: input}
	result := matrix.Identity

	for {
		t, err := l.next()
		if err != nil {
			return matrix.Matrix{}, err
		}
		if t.kind == tokEOF {
			return result, nil
		}
		if t.kind == tokPunct && t.text == "," {
			continue
		}
		if t.kind != tokIdent {
			return matrix.Matrix{}, l.errorf(t.pos, "expected transform function")
		}
		name := strings.ToLower(t.text)
		arities, ok := transformArity[name]
		if !ok {
			return matrix.Matrix{}, l.errorf(t.pos, "unknown transform function "+strconv.Quote(t.text))
		}

		args, err := transformArgs(&l)
		if err != nil {
			return matrix.Matrix{}, err
		}
		if !containsInt(arities, len(args)) {
			return matrix.Matrix{}, l.errorf(t.pos, (&ErrArity{Name: name, Want: arities[0], Got: len(args)}).Error())
		}

		result = Multiply(result, transformMatrix(name, args))
	}
}

func transformArgs(l *lexer) ([]float64, error) {
	t, err := l.next()
	if err != nil {
		return nil, err
	}
	if t.kind != tokPunct || t.text != "(" {
		return nil, l.errorf(t.pos, `expected "("`)
	}

	var args []float64
	sign := 1.0
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		switch {
		case t.kind == tokPunct && t.text == ")":
			return args, nil
		case t.kind == tokPunct && t.text == ",":
		case t.kind == tokPunct && t.text == "-":
			sign = -sign
		case t.kind == tokPunct && t.text == "+":
		case t.kind == tokInt || t.kind == tokFloat:
			f, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return nil, l.errorf(t.pos, "invalid number")
			}
			args = append(args, sign*f)
			sign = 1
		case t.kind == tokEOF:
			return nil, l.errorf(t.pos, "unterminated argument list")
		default:
			return nil, l.errorf(t.pos, "expected number")
		}
	}
}

func transformMatrix(name string, a []float64) matrix.Matrix {
	switch name {
	case "matrix":
		return matrix.Matrix{a[0], a[1], a[2], a[3], a[4], a[5]}
	case "translate":
		ty := 0.0
		if len(a) > 1 {
			ty = a[1]
		}
		return matrix.Matrix{1, 0, 0, 1, a[0], ty}
	case "scale":
		sy := a[0]
		if len(a) > 1 {
			sy = a[1]
		}
		return matrix.Matrix{a[0], 0, 0, sy, 0, 0}
	case "rotate":
		rad := a[0] * math.Pi / 180
		sin, cos := math.Sincos(rad)
		rot := matrix.Matrix{cos, sin, -sin, cos, 0, 0}
		if len(a) == 3 {
			// rotate about (cx, cy)
			to := matrix.Matrix{1, 0, 0, 1, a[1], a[2]}
			from := matrix.Matrix{1, 0, 0, 1, -a[1], -a[2]}
			return Multiply(Multiply(to, rot), from)
		}
		return rot
	case "skewx":
		return matrix.Matrix{1, 0, math.Tan(a[0] * math.Pi / 180), 1, 0, 0}
	case "skewy":
		return matrix.Matrix{1, math.Tan(a[0] * math.Pi / 180), 0, 1, 0, 0}
	}
	return matrix.Identity
}

// Multiply returns m1·m2, the transform that applies m2 first and then m1.
// Matrices use the [a b c d e f] layout, mapping (x, y) to
// (a·x + c·y + e, b·x + d·y + f).
func Multiply(m1, m2 matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		m1[0]*m2[0] + m1[2]*m2[1],
		m1[1]*m2[0] + m1[3]*m2[1],
		m1[0]*m2[2] + m1[2]*m2[3],
		m1[1]*m2[2] + m1[3]*m2[3],
		m1[0]*m2[4] + m1[2]*m2[5] + m1[4],
		m1[1]*m2[4] + m1[3]*m2[5] + m1[5],
	}
}

// Apply maps the point (x, y) through m.
func Apply(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
