package parser

import (
	"errors"
	"math"
	"testing"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/paulmach/orb"
)

func testEnv() *Env {
	f := feature.New(1, orb.Point{5, 5}, map[string]feature.Value{
		"name":   feature.String("Port Royal"),
		"pop":    feature.Int(1500),
		"height": feature.Float(12.5),
		"code":   feature.String("12"),
		"lit":    feature.Bool(true),
	})
	return &Env{Feature: f, Vars: map[string]feature.Value{"zoom": feature.Int(12)}}
}

func TestParseAndEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want feature.Value
	}{
		{"1 + 2 * 3", feature.Int(7)},
		{"(1 + 2) * 3", feature.Int(9)},
		{"7 / 2", feature.Int(3)},
		{"7.0 / 2", feature.Float(3.5)},
		{"7 % 4", feature.Int(3)},
		{"-[pop]", feature.Int(-1500)},
		{"[pop] > 1000", feature.Bool(true)},
		{"[pop] >= 1500 and [height] < 10", feature.Bool(false)},
		{"[pop] = 1500 or [missing] = 1", feature.Bool(true)},
		{"[name] = 'Port Royal'", feature.Bool(true)},
		{"[name] <> \"Port Royal\"", feature.Bool(false)},
		{"[code] = 12", feature.Bool(false)},
		{"not [lit]", feature.Bool(false)},
		{"![lit] || true", feature.Bool(true)},
		{"[missing] = null", feature.Bool(true)},
		{"[name] + '!'", feature.String("Port Royal!")},
		{"[name].match('^Port')", feature.Bool(true)},
		{"[name].match('^port')", feature.Bool(false)},
		{"[name].replace('(\\w+) (\\w+)', '$2 $1')", feature.String("Royal Port")},
		{"length([name])", feature.Int(10)},
		{"max(2, [height])", feature.Float(12.5)},
		{"pow(2, 10)", feature.Float(1024)},
		{"abs(-3)", feature.Float(3)},
		{"@zoom * 2", feature.Int(24)},
		{"[mapnik::geometry_type] = point", feature.Bool(true)},
		{"[mapnik::geometry_type] = polygon", feature.Bool(false)},
		{"intersects(0, 0, 10, 10)", feature.Bool(true)},
		{"intersects(20, 20, 30, 30)", feature.Bool(false)},
		{"1.5e2", feature.Float(150)},
		{"[missing] + 1", feature.Null()},
	}

	env := testEnv()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			n, err := ParseExpression(tt.expr)
			if err != nil {
				t.Fatalf("ParseExpression(%q) failed: %v", tt.expr, err)
			}
			got, err := n.Eval(env)
			if err != nil {
				t.Fatalf("Eval(%q) failed: %v", tt.expr, err)
			}
			if got.Kind() != tt.want.Kind() || !got.Equal(tt.want) {
				t.Errorf("Eval(%q) = %v (%s), want %v (%s)", tt.expr, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		expr string
		pos  int
	}{
		{"", 0},
		{"[pop", 0},
		{"1 +", 3},
		{"'open", 0},
		{"[a] = = 1", 6},
		{"unknown(1)", 0},
		{"sqrt(1, 2)", 0},
		{"[a].match('(')", 4},
		{"[a].upper()", 4},
		{"(1 + 2", 6},
		{"frobnicate", 0},
		{"1 $ 2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ParseExpression(tt.expr)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("ParseExpression(%q) error = %v, want *SyntaxError", tt.expr, err)
			}
			if se.Pos != tt.pos {
				t.Errorf("ParseExpression(%q) position = %d, want %d (%v)", tt.expr, se.Pos, tt.pos, se)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []string{
		"[name] > 3",
		"@undefined",
		"1 / 0",
		"[name] * 2",
		"sqrt([name])",
	}

	env := testEnv()
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			n, err := ParseExpression(expr)
			if err != nil {
				t.Fatalf("ParseExpression(%q) failed: %v", expr, err)
			}
			_, err = n.Eval(env)
			var ee *EvalError
			if !errors.As(err, &ee) {
				t.Errorf("Eval(%q) error = %v, want *EvalError", expr, err)
			}
		})
	}
}

func TestEvalCoercionErrorUnwraps(t *testing.T) {
	n, err := ParseExpression("[name] < 3")
	if err != nil {
		t.Fatal(err)
	}
	_, err = n.Eval(testEnv())
	var ce *feature.CoercionError
	if !errors.As(err, &ce) {
		t.Errorf("expected wrapped *feature.CoercionError, got %v", err)
	}
}

func TestEvalWithoutFeature(t *testing.T) {
	n, err := ParseExpression("[pop] = null and not intersects(0, 0, 1, 1)")
	if err != nil {
		t.Fatal(err)
	}
	got, err := n.Eval(nil)
	if err != nil {
		t.Fatalf("Eval(nil) failed: %v", err)
	}
	if !got.ToBool() {
		t.Errorf("Eval(nil) = %v, want true", got)
	}
}

func TestNodeStringReparses(t *testing.T) {
	exprs := []string{
		"[pop] > 1000 and ([name].match('^P') or @zoom >= 10)",
		"not [lit]",
		"min([a], 3) - -2",
		"[s] + 'it\\'s' + 2.0",
	}
	env := testEnv()
	for _, expr := range exprs {
		n, err := ParseExpression(expr)
		if err != nil {
			t.Fatalf("ParseExpression(%q) failed: %v", expr, err)
		}
		again, err := ParseExpression(n.String())
		if err != nil {
			t.Errorf("String() of %q = %q does not reparse: %v", expr, n.String(), err)
			continue
		}
		a, errA := n.Eval(env)
		b, errB := again.Eval(env)
		if (errA == nil) != (errB == nil) || !a.Equal(b) {
			t.Errorf("reparsed %q evaluates differently: %v vs %v", expr, a, b)
		}
	}
}

func TestTrigFunctions(t *testing.T) {
	n, err := ParseExpression("sin(0) + cos(0) + atan(0) + exp(0) + log(1) + sqrt(4) + tan(0)")
	if err != nil {
		t.Fatal(err)
	}
	got, err := n.Eval(nil)
	if err != nil {
		t.Fatal(err)
	}
	f, _ := got.ToFloat()
	if math.Abs(f-4) > 1e-12 {
		t.Errorf("got %v, want 4", f)
	}
}
