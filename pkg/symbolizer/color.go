package symbolizer

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a non-premultiplied 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r,g,b)",
// "rgba(r,g,b,a)" with alpha in [0,1], "transparent" and the SVG color
// keywords.
func ParseColor(s string) (Color, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	switch {
	case text == "":
		return Color{}, fmt.Errorf("empty color")
	case text == "transparent" || text == "none":
		return Color{}, nil
	case strings.HasPrefix(text, "#"):
		return parseHexColor(text)
	case strings.HasPrefix(text, "rgb"):
		return parseFunctionalColor(text)
	}

	if c, ok := colornames.Map[text]; ok {
		return Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return Color{}, fmt.Errorf("unknown color %q", s)
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHexColor(text string) (Color, error) {
	alpha := uint8(255)
	if len(text) == 9 {
		a, err := strconv.ParseUint(text[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", text, err)
		}
		alpha = uint8(a)
		text = text[:7]
	}
	c, err := colorful.Hex(text)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", text, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

func parseFunctionalColor(text string) (Color, error) {
	open := strings.IndexByte(text, '(')
	if open < 0 || !strings.HasSuffix(text, ")") {
		return Color{}, fmt.Errorf("invalid color %q", text)
	}
	name := strings.TrimSpace(text[:open])
	parts := strings.Split(text[open+1:len(text)-1], ",")

	want := 3
	if name == "rgba" {
		want = 4
	} else if name != "rgb" {
		return Color{}, fmt.Errorf("invalid color function %q", name)
	}
	if len(parts) != want {
		return Color{}, fmt.Errorf("%s() takes %d components, got %d", name, want, len(parts))
	}

	var c Color
	channels := []*uint8{&c.R, &c.G, &c.B}
	for i, ch := range channels {
		p := strings.TrimSpace(parts[i])
		var v float64
		var err error
		if strings.HasSuffix(p, "%") {
			v, err = strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			v = v * 255 / 100
		} else {
			v, err = strconv.ParseFloat(p, 64)
		}
		if err != nil {
			return Color{}, fmt.Errorf("invalid color component %q: %w", p, err)
		}
		*ch = clampByte(v)
	}

	c.A = 255
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha %q: %w", parts[3], err)
		}
		c.A = clampByte(a * 255)
	}
	return c, nil
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// String formats the color as "#rrggbb" when opaque and "rgba(...)"
// otherwise. ParseColor accepts both forms.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B,
		strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64))
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Colorful converts the color channels to a go-colorful color, dropping
// alpha. It is used for blending and lightness adjustments.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// WithOpacity returns the color with alpha scaled by opacity in [0,1].
func (c Color) WithOpacity(opacity float64) Color {
	c.A = clampByte(float64(c.A) * opacity)
	return c
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
