package symbolizer

import (
	"sort"
	"strings"
)

// ValueKind is the declared value type of a property key.
type ValueKind int

const (
	ValueColor ValueKind = iota + 1
	ValueFloat
	ValueInt
	ValueBool
	ValueString
	ValueEnum
	ValueDashArray
	ValueTransform
	ValueExpression
)

func (v ValueKind) String() string {
	switch v {
	case ValueColor:
		return "color"
	case ValueFloat:
		return "float"
	case ValueInt:
		return "int"
	case ValueBool:
		return "bool"
	case ValueString:
		return "string"
	case ValueEnum:
		return "enum"
	case ValueDashArray:
		return "dash-array"
	case ValueTransform:
		return "transform"
	case ValueExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// Key is the closed enumeration of symbolizer property keys.
type Key int

const (
	Opacity Key = iota + 1
	Fill
	FillOpacity
	Stroke
	StrokeWidth
	StrokeOpacity
	StrokeLinejoin
	StrokeLinecap
	StrokeDasharray
	Gamma
	Clip
	Simplify
	SimplifyAlgorithm
	Smooth
	Offset
	GeometryTransform
	ImageTransform
	File
	Width
	Height
	AllowOverlap
	IgnorePlacement
	Spacing
	MaxError
	Placement
	Name
	FaceName
	Size
	TextTransform
	HaloFill
	HaloRadius
	CharacterSpacing
	LineSpacing
	WrapWidth
	Dx
	Dy
	HorizontalAlignment
	VerticalAlignment
	Orientation
	MinDistance
	MinPadding
	AvoidEdges
	MaxCharAngleDelta
	RepeatDistance
	ShieldDx
	ShieldDy
	UnlockImage
	Scaling
	Mode

	keyCount
)

// keyInfo describes a key: its stylesheet name, value kind, default and,
// for enums, the accepted values.
type keyInfo struct {
	name   string
	kind   ValueKind
	def    any
	values []string
}

var keyTable = [keyCount]keyInfo{
	Opacity:             {"opacity", ValueFloat, 1.0, nil},
	Fill:                {"fill", ValueColor, Color{0, 0, 0, 255}, nil},
	FillOpacity:         {"fill-opacity", ValueFloat, 1.0, nil},
	Stroke:              {"stroke", ValueColor, Color{0, 0, 0, 255}, nil},
	StrokeWidth:         {"stroke-width", ValueFloat, 1.0, nil},
	StrokeOpacity:       {"stroke-opacity", ValueFloat, 1.0, nil},
	StrokeLinejoin:      {"stroke-linejoin", ValueEnum, "miter", []string{"miter", "miter-revert", "round", "bevel"}},
	StrokeLinecap:       {"stroke-linecap", ValueEnum, "butt", []string{"butt", "round", "square"}},
	StrokeDasharray:     {"stroke-dasharray", ValueDashArray, DashArray(nil), nil},
	Gamma:               {"gamma", ValueFloat, 1.0, nil},
	Clip:                {"clip", ValueBool, true, nil},
	Simplify:            {"simplify", ValueFloat, 0.0, nil},
	SimplifyAlgorithm:   {"simplify-algorithm", ValueEnum, "radial-distance", []string{"radial-distance", "douglas-peucker", "visvalingam-whyatt", "zhao-saalfeld"}},
	Smooth:              {"smooth", ValueFloat, 0.0, nil},
	Offset:              {"offset", ValueFloat, 0.0, nil},
	GeometryTransform:   {"geometry-transform", ValueTransform, Transform{}, nil},
	ImageTransform:      {"transform", ValueTransform, Transform{}, nil},
	File:                {"file", ValueString, "", nil},
	Width:               {"width", ValueFloat, 10.0, nil},
	Height:              {"height", ValueFloat, 10.0, nil},
	AllowOverlap:        {"allow-overlap", ValueBool, false, nil},
	IgnorePlacement:     {"ignore-placement", ValueBool, false, nil},
	Spacing:             {"spacing", ValueFloat, 100.0, nil},
	MaxError:            {"max-error", ValueFloat, 0.2, nil},
	Placement:           {"placement", ValueEnum, "point", []string{"point", "centroid", "interior", "line", "vertex-first", "vertex-last"}},
	Name:                {"name", ValueExpression, "", nil},
	FaceName:            {"face-name", ValueString, "Go Regular", nil},
	Size:                {"size", ValueFloat, 10.0, nil},
	TextTransform:       {"text-transform", ValueEnum, "none", []string{"none", "uppercase", "lowercase", "capitalize"}},
	HaloFill:            {"halo-fill", ValueColor, Color{255, 255, 255, 255}, nil},
	HaloRadius:          {"halo-radius", ValueFloat, 0.0, nil},
	CharacterSpacing:    {"character-spacing", ValueFloat, 0.0, nil},
	LineSpacing:         {"line-spacing", ValueFloat, 0.0, nil},
	WrapWidth:           {"wrap-width", ValueFloat, 0.0, nil},
	Dx:                  {"dx", ValueFloat, 0.0, nil},
	Dy:                  {"dy", ValueFloat, 0.0, nil},
	HorizontalAlignment: {"horizontal-alignment", ValueEnum, "auto", []string{"auto", "left", "middle", "right"}},
	VerticalAlignment:   {"vertical-alignment", ValueEnum, "auto", []string{"auto", "top", "middle", "bottom"}},
	Orientation:         {"orientation", ValueFloat, 0.0, nil},
	MinDistance:         {"minimum-distance", ValueFloat, 0.0, nil},
	MinPadding:          {"minimum-padding", ValueFloat, 0.0, nil},
	AvoidEdges:          {"avoid-edges", ValueBool, false, nil},
	MaxCharAngleDelta:   {"max-char-angle-delta", ValueFloat, 22.5, nil},
	RepeatDistance:      {"repeat-distance", ValueFloat, 0.0, nil},
	ShieldDx:            {"shield-dx", ValueFloat, 0.0, nil},
	ShieldDy:            {"shield-dy", ValueFloat, 0.0, nil},
	UnlockImage:         {"unlock-image", ValueBool, false, nil},
	Scaling:             {"scaling", ValueEnum, "near", []string{"near", "bilinear", "bicubic"}},
	Mode:                {"mode", ValueEnum, "collision", []string{"collision", "vertex"}},
}

var keysByName map[string]Key

func init() {
	keysByName = make(map[string]Key, keyCount)
	for k := Key(1); k < keyCount; k++ {
		keysByName[keyTable[k].name] = k
	}
}

// Valid reports whether k is a declared key.
func (k Key) Valid() bool {
	return k > 0 && k < keyCount
}

// String returns the stylesheet name of the key.
func (k Key) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return keyTable[k].name
}

// ValueKind returns the declared value kind of the key.
func (k Key) ValueKind() ValueKind {
	if !k.Valid() {
		return 0
	}
	return keyTable[k].kind
}

// Default returns the documented default value of the key. Colors are
// Color, numbers float64, enums and strings string, dash arrays DashArray
// and transforms Transform.
func (k Key) Default() any {
	if !k.Valid() {
		return nil
	}
	return keyTable[k].def
}

// EnumValues returns the accepted values of an enum key.
func (k Key) EnumValues() []string {
	if !k.Valid() {
		return nil
	}
	return keyTable[k].values
}

// KeyByName maps a stylesheet property name to its key. Underscores are
// accepted in place of dashes.
func KeyByName(name string) (Key, bool) {
	k, ok := keysByName[strings.ReplaceAll(strings.ToLower(name), "_", "-")]
	return k, ok
}

// AllKeys returns every declared key sorted by name.
func AllKeys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := Key(1); k < keyCount; k++ {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
