package symbolizer

import (
	"fmt"
	"strconv"
	"strings"
)

// DashArray is an alternating sequence of dash and gap lengths.
type DashArray []float64

// ParseDashArray parses comma or space separated lengths. An odd count is
// repeated to make pairs, as in SVG. "none" yields a nil array.
func ParseDashArray(s string) (DashArray, error) {
	text := strings.TrimSpace(s)
	if text == "" || strings.EqualFold(text, "none") {
		return nil, nil
	}

	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	dashes := make(DashArray, 0, len(fields)*2)
	total := 0.0
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid dash length %q: %w", f, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("negative dash length %v", v)
		}
		total += v
		dashes = append(dashes, v)
	}
	if total == 0 {
		return nil, fmt.Errorf("dash array %q has zero total length", s)
	}
	if len(dashes)%2 == 1 {
		dashes = append(dashes, dashes...)
	}
	return dashes, nil
}

// String formats the array the way ParseDashArray reads it.
func (d DashArray) String() string {
	if len(d) == 0 {
		return "none"
	}
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Scaled returns a copy with every length multiplied by f.
func (d DashArray) Scaled(f float64) DashArray {
	if d == nil {
		return nil
	}
	out := make(DashArray, len(d))
	for i, v := range d {
		out[i] = v * f
	}
	return out
}
