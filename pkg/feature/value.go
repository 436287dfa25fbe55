package feature

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	// KindNull is the kind of a missing or explicitly null value.
	KindNull Kind = iota

	// KindBool is a boolean value.
	KindBool

	// KindInt is a 64-bit signed integer value.
	KindInt

	// KindFloat is a 64-bit floating point value.
	KindFloat

	// KindString is a UTF-8 string value.
	KindString
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a dynamically typed attribute value.
//
// The zero Value is null. Values are small and passed by value; they never
// share mutable state.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ValueOf converts a Go value into a Value.
//
// Decoded JSON numbers arrive as float64; integral floats stay floats so that
// round-tripping a document never changes a value's kind.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Int(int64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return Int(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return String(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if f, err := t.Float64(); err == nil {
			return Float(f)
		}
		return String(t.String())
	case fmt.Stringer:
		return String(t.String())
	default:
		return String(fmt.Sprint(t))
	}
}

// Kind returns the dynamic kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports whether the value is a bool, int or float.
func (v Value) IsNumeric() bool {
	return v.kind == KindBool || v.kind == KindInt || v.kind == KindFloat
}

// ToBool converts the value to a boolean. It never fails: null is false,
// numbers are true when non-zero and strings when non-empty.
func (v Value) ToBool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	default:
		return false
	}
}

// ToInt converts the value to an integer. Floats are truncated toward zero.
func (v Value) ToInt() (int64, error) {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return 0, &CoercionError{From: v.kind, To: "int", Value: v.ToString()}
		}
		return int64(v.f), nil
	case KindString:
		s := strings.TrimSpace(v.s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int64(f), nil
		}
		return 0, &CoercionError{From: v.kind, To: "int", Value: v.s}
	default:
		return 0, &CoercionError{From: v.kind, To: "int"}
	}
}

// ToFloat converts the value to a float.
func (v Value) ToFloat() (float64, error) {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindInt:
		return float64(v.i), nil
	case KindFloat:
		return v.f, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, &CoercionError{From: v.kind, To: "float", Value: v.s}
		}
		return f, nil
	default:
		return 0, &CoercionError{From: v.kind, To: "float"}
	}
}

// ToString converts the value to its string form. Null becomes "".
func (v Value) ToString() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// String implements fmt.Stringer. Strings are quoted so that debug output
// distinguishes "1" from 1.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.s)
	default:
		return v.ToString()
	}
}

// Interface returns the value as a plain Go value (nil, bool, int64,
// float64 or string).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Equal reports whether two values are equal. Numbers compare numerically
// across kinds; a string never equals a number; null only equals null.
func (v Value) Equal(other Value) bool {
	switch {
	case v.kind == KindNull || other.kind == KindNull:
		return v.kind == other.kind
	case v.IsNumeric() && other.IsNumeric():
		if v.kind == KindInt && other.kind == KindInt {
			return v.i == other.i
		}
		a, _ := v.ToFloat()
		b, _ := other.ToFloat()
		return a == b
	case v.kind == KindString && other.kind == KindString:
		return v.s == other.s
	default:
		return false
	}
}

// Compare orders two values, returning -1, 0 or +1. Only numbers with
// numbers, strings with strings and null with null are ordered; other
// combinations return a *CoercionError.
func (v Value) Compare(other Value) (int, error) {
	switch {
	case v.IsNumeric() && other.IsNumeric():
		if v.kind == KindInt && other.kind == KindInt {
			return cmpOrdered(v.i, other.i), nil
		}
		a, _ := v.ToFloat()
		b, _ := other.ToFloat()
		return cmpOrdered(a, b), nil
	case v.kind == KindString && other.kind == KindString:
		return strings.Compare(v.s, other.s), nil
	case v.kind == KindNull && other.kind == KindNull:
		return 0, nil
	default:
		return 0, &CoercionError{From: other.kind, To: v.kind.String(), Value: other.ToString()}
	}
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
