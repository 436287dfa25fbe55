package placement

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/beetlebugorg/portrayal/pkg/cache"
)

// TextMeasurer reports the extent of rendered text.
type TextMeasurer interface {
	// Measure returns the width and height of text set in the named face
	// at the given size. Lines are separated by "\n".
	Measure(text, face string, size float64) (width, height float64)
}

// Face is a sized font face shared between measurers.
type Face struct {
	mu   sync.Mutex // x/image faces are not safe for concurrent use
	face font.Face
}

// measure returns the widest line and the total height of lines.
func (f *Face) measure(lines []string) (float64, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var width float64
	for _, line := range lines {
		width = math.Max(width, fixedToFloat64(font.MeasureString(f.face, line)))
	}
	return width, fixedToFloat64(f.face.Metrics().Height) * float64(len(lines))
}

// FontMeasurer measures text with Go Regular outlines through
// golang.org/x/image. Faces are cached per size; every face name maps to
// the same outlines.
type FontMeasurer struct {
	faces *cache.Cache[*Face]
}

var (
	goRegular     *opentype.Font
	goRegularErr  error
	goRegularOnce sync.Once
)

func regularFont() (*opentype.Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// NewFontMeasurer creates a measurer that stores its faces in faces. A nil
// cache gets a private one.
func NewFontMeasurer(faces *cache.Cache[*Face]) *FontMeasurer {
	if faces == nil {
		faces = cache.New[*Face]()
	}
	return &FontMeasurer{faces: faces}
}

func (m *FontMeasurer) face(size float64) (*Face, error) {
	key := fmt.Sprintf("go-regular/%.2f", size)
	return m.faces.GetOrLoad(key, func() (*Face, error) {
		f, err := regularFont()
		if err != nil {
			return nil, err
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, err
		}
		return &Face{face: face}, nil
	})
}

// Measure implements TextMeasurer. Measuring falls back to an estimate of
// 0.6 em per rune when the face cannot be loaded.
func (m *FontMeasurer) Measure(text, _ string, size float64) (float64, float64) {
	if text == "" || !(size > 0) {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	face, err := m.face(size)
	if err != nil {
		return estimate(lines, size)
	}
	return face.measure(lines)
}

// EstimateMeasurer sizes text at 0.6 em per rune and 1.2 em per line.
type EstimateMeasurer struct{}

// Measure implements TextMeasurer.
func (EstimateMeasurer) Measure(text, _ string, size float64) (float64, float64) {
	if text == "" {
		return 0, 0
	}
	return estimate(strings.Split(text, "\n"), size)
}

func estimate(lines []string, size float64) (float64, float64) {
	var widest int
	for _, l := range lines {
		widest = max(widest, len([]rune(l)))
	}
	return float64(widest) * 0.6 * size, float64(len(lines)) * 1.2 * size
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// TransformText applies a text-transform property value: "uppercase",
// "lowercase" or "capitalize". Other values leave the text unchanged.
func TransformText(text, mode string) string {
	switch mode {
	case "uppercase":
		return cases.Upper(language.Und).String(text)
	case "lowercase":
		return cases.Lower(language.Und).String(text)
	case "capitalize":
		return cases.Title(language.Und).String(text)
	}
	return text
}

// Wrap breaks text at spaces so that no line is wider than width, except
// single words that do not fit on their own. A width of zero or less
// disables wrapping.
func Wrap(text string, width float64, measure func(string) float64) string {
	if !(width > 0) || measure(text) <= width {
		return text
	}
	var b strings.Builder
	for i, para := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := ""
		for _, word := range strings.Fields(para) {
			if line == "" {
				line = word
				continue
			}
			if measure(line+" "+word) > width {
				b.WriteString(line)
				b.WriteByte('\n')
				line = word
				continue
			}
			line += " " + word
		}
		b.WriteString(line)
	}
	return b.String()
}
