// Package symbolizer models drawing instructions: a closed set of kinds, each
// carrying a map from a closed key enumeration to literal or expression
// property values.
//
// Every read site names the type it expects and a default:
//
//	sym := symbolizer.New(symbolizer.KindLine)
//	_ = sym.Set(symbolizer.StrokeWidth, 2.5)
//	_ = sym.SetString(symbolizer.Stroke, "[colour]")
//
//	width := symbolizer.Get(sym, symbolizer.StrokeWidth, f, nil, 1.0)
//	stroke := symbolizer.Get(sym, symbolizer.Stroke, f, nil, symbolizer.Color{A: 255})
//
// Text-bearing kinds carry a TextBlock with their placement configuration;
// the group kind carries a GroupBlock.
package symbolizer

import (
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
)

// Symbolizer is one drawing instruction.
//
// A Symbolizer is configured at load time and read-only during rendering;
// evaluation never mutates it, so it may be shared across render passes.
type Symbolizer struct {
	kind  Kind
	props Properties

	// Text holds placement configuration for text and shield kinds.
	Text *TextBlock

	// Group holds column and layout configuration for the group kind.
	Group *GroupBlock
}

// New creates a symbolizer of the given kind with no properties set.
func New(kind Kind) *Symbolizer {
	s := &Symbolizer{kind: kind, props: make(Properties)}
	if kind.HasText() {
		s.Text = &TextBlock{Strategy: "dummy"}
	}
	if kind == KindGroup {
		s.Group = &GroupBlock{ColumnStart: 1, ColumnEnd: 1, MaxDifference: -1}
	}
	return s
}

// Kind returns the symbolizer kind.
func (s *Symbolizer) Kind() Kind {
	return s.kind
}

// Set assigns a property. The value must match the key's declared kind:
// Color for colors, a number for floats and ints, bool, string, one of the
// listed values for enums, DashArray, Transform, or an *expr.Expr or
// Property for any key. Mismatches return a *PropertyError.
func (s *Symbolizer) Set(key Key, value any) error {
	if !key.Valid() {
		return &PropertyError{Kind: s.kind, Key: key, Reason: "unknown key"}
	}

	switch v := value.(type) {
	case *expr.Expr:
		if v == nil {
			return &PropertyError{Kind: s.kind, Key: key, Reason: "nil expression"}
		}
		s.props[key] = Expression(v)
		return nil
	case Property:
		if v.IsExpression() {
			s.props[key] = v
			return nil
		}
		value = v.Value()
	}

	lit, err := normalize(key, value)
	if err != nil {
		return &PropertyError{Kind: s.kind, Key: key, Reason: err.Error()}
	}
	s.props[key] = Literal(lit)
	return nil
}

// MustSet is like Set but panics on error. It returns s for chaining.
func (s *Symbolizer) MustSet(key Key, value any) *Symbolizer {
	if err := s.Set(key, value); err != nil {
		panic(err)
	}
	return s
}

// SetString assigns a property from stylesheet text. Text containing an
// attribute reference or variable is compiled as an expression; expression
// keys are always compiled. Otherwise the text is parsed as a literal of
// the key's declared kind.
func (s *Symbolizer) SetString(key Key, text string) error {
	if !key.Valid() {
		return &PropertyError{Kind: s.kind, Key: key, Reason: "unknown key"}
	}

	if key.ValueKind() == ValueExpression || looksLikeExpression(text) {
		e, err := expr.Parse(text)
		if err != nil {
			return &PropertyError{Kind: s.kind, Key: key, Reason: "invalid expression", Err: err}
		}
		s.props[key] = Expression(e)
		return nil
	}

	lit, err := parseLiteral(key, text)
	if err != nil {
		return &PropertyError{Kind: s.kind, Key: key, Reason: "invalid value", Err: err}
	}
	s.props[key] = Literal(lit)
	return nil
}

// SetByName assigns a property by stylesheet name from text.
func (s *Symbolizer) SetByName(name, text string) error {
	key, ok := KeyByName(name)
	if !ok {
		return &PropertyError{Kind: s.kind, Name: name, Reason: "unknown property"}
	}
	return s.SetString(key, text)
}

// Unset removes a property so reads fall back to their default.
func (s *Symbolizer) Unset(key Key) {
	delete(s.props, key)
}

// Has reports whether the key is set.
func (s *Symbolizer) Has(key Key) bool {
	_, ok := s.props[key]
	return ok
}

// Property returns the raw property value of a key.
func (s *Symbolizer) Property(key Key) (Property, bool) {
	p, ok := s.props[key]
	return p, ok
}

// Properties returns a copy of the set properties.
func (s *Symbolizer) Properties() Properties {
	return s.props.Clone()
}

// With returns a copy of s with overrides layered over its properties.
// s is left unchanged. Blocks are shared since they are read-only during
// rendering.
func (s *Symbolizer) With(overrides Properties) *Symbolizer {
	out := s.Clone()
	for k, v := range overrides {
		out.props[k] = v
	}
	return out
}

// Clone returns a copy of s that can be modified independently. Blocks are
// shared.
func (s *Symbolizer) Clone() *Symbolizer {
	return &Symbolizer{
		kind:  s.kind,
		props: s.props.Clone(),
		Text:  s.Text,
		Group: s.Group,
	}
}

// Attributes lists the feature attributes read by the symbolizer's
// expression properties.
func (s *Symbolizer) Attributes() []string {
	var names []string
	for _, p := range s.props {
		if p.IsExpression() {
			names = append(names, p.Expr().Attributes()...)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// String returns a short description for logs.
func (s *Symbolizer) String() string {
	var b strings.Builder
	b.WriteString(s.kind.String())
	b.WriteString("{")
	for i, k := range s.props.Keys() {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%s", k, s.props[k])
	}
	b.WriteString("}")
	return b.String()
}

func looksLikeExpression(text string) bool {
	t := strings.TrimSpace(text)
	return strings.Contains(t, "[") || strings.HasPrefix(t, "@")
}

// normalize type-checks a literal against the key's kind and converts
// numbers to the stored representation.
func normalize(key Key, value any) (any, error) {
	kind := key.ValueKind()
	switch kind {
	case ValueColor:
		switch v := value.(type) {
		case Color:
			return v, nil
		case color.Color:
			n := color.NRGBAModel.Convert(v).(color.NRGBA)
			return Color{R: n.R, G: n.G, B: n.B, A: n.A}, nil
		}
	case ValueFloat:
		if f, ok := toFloat(value); ok {
			return f, nil
		}
	case ValueInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		}
	case ValueBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case ValueString, ValueExpression:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case ValueEnum:
		if s, ok := value.(string); ok {
			if slices.Contains(key.EnumValues(), s) {
				return s, nil
			}
			return nil, fmt.Errorf("%q is not one of %s", s, strings.Join(key.EnumValues(), ", "))
		}
	case ValueDashArray:
		switch v := value.(type) {
		case DashArray:
			return v, nil
		case []float64:
			return DashArray(v), nil
		}
	case ValueTransform:
		if t, ok := value.(Transform); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// parseLiteral parses stylesheet text for the key's kind.
func parseLiteral(key Key, text string) (any, error) {
	t := strings.TrimSpace(text)
	switch key.ValueKind() {
	case ValueColor:
		return ParseColor(t)
	case ValueFloat:
		return strconv.ParseFloat(t, 64)
	case ValueInt:
		return strconv.ParseInt(t, 10, 64)
	case ValueBool:
		return strconv.ParseBool(t)
	case ValueString:
		return text, nil
	case ValueEnum:
		return normalize(key, t)
	case ValueDashArray:
		return ParseDashArray(t)
	case ValueTransform:
		return ParseTransform(t)
	}
	return nil, fmt.Errorf("unsupported value kind %s", key.ValueKind())
}

func formatLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// valueOfLiteral converts a stored literal to a dynamic value.
func valueOfLiteral(v any) feature.Value {
	switch t := v.(type) {
	case float64, int64, bool, string:
		return feature.ValueOf(t)
	default:
		return feature.String(formatLiteral(v))
	}
}
