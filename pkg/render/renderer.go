// Package render drives the portrayal core over a map: for every layer and
// style it runs the rule cascade per feature, resolves symbolizer
// properties, pushes geometry through the vertex pipeline and places
// labels and markers, handing the resulting instructions to a Backend.
//
// A Renderer processes features strictly one at a time. Independent tiles
// may be rendered concurrently with RenderTiles, one Renderer per tile.
//
// Example:
//
//	m := render.NewMap(256, 256, extent)
//	m.AddStyle("roads", roads)
//	m.AddLayer(&render.Layer{Name: "roads", Styles: []string{"roads"}, Datasource: ds})
//
//	rec := &render.RecordingBackend{}
//	stats, err := render.NewRenderer(rec).Render(m)
package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/matrix"

	"github.com/beetlebugorg/portrayal/internal/logging"
	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/placement"
	"github.com/beetlebugorg/portrayal/pkg/style"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// ErrInterrupted is returned when the interrupt callback stops a render.
var ErrInterrupted = errors.New("render interrupted")

// SetLogger sets the logger used by every portrayal package. Passing nil
// silences logging, which is the default.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the logger used by the portrayal packages.
func Logger() *slog.Logger {
	return logging.Logger()
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCaches shares caches between renderers.
func WithCaches(c *Caches) Option {
	return func(r *Renderer) { r.caches = c }
}

// WithDetector supplies the collision detector. Without it every Render
// call starts from an empty detector covering the canvas.
func WithDetector(d placement.Detector) Option {
	return func(r *Renderer) { r.detector = d }
}

// WithMeasurer supplies the text measurer. The default measures Go
// Regular outlines with faces from the caches.
func WithMeasurer(m placement.TextMeasurer) Option {
	return func(r *Renderer) { r.measurer = m }
}

// WithScaleFactor scales sizes, widths and offsets, for high-density
// output. The scale denominator is divided by the same factor.
func WithScaleFactor(f float64) Option {
	return func(r *Renderer) {
		if f > 0 {
			r.scale = f
		}
	}
}

// WithVars supplies the runtime variables expressions read as @name.
func WithVars(vars expr.Vars) Option {
	return func(r *Renderer) { r.vars = vars }
}

// WithInterrupt installs a callback polled between features; returning
// true aborts the render with ErrInterrupted.
func WithInterrupt(fn func() bool) Option {
	return func(r *Renderer) { r.interrupt = fn }
}

// WithOutcome installs a callback receiving every feature outcome.
func WithOutcome(fn func(Outcome)) Option {
	return func(r *Renderer) { r.onOutcome = fn }
}

// Renderer turns maps into instructions. It is not safe for concurrent
// use.
type Renderer struct {
	backend   Backend
	caches    *Caches
	detector  placement.Detector
	measurer  placement.TextMeasurer
	scale     float64
	vars      expr.Vars
	interrupt func() bool
	onOutcome func(Outcome)

	// active detector of the current render
	det placement.Detector

	strategies map[*symbolizer.Symbolizer]*placement.Strategy
}

// NewRenderer creates a renderer drawing to backend.
func NewRenderer(backend Backend, opts ...Option) *Renderer {
	r := &Renderer{
		backend:    backend,
		scale:      1,
		strategies: make(map[*symbolizer.Symbolizer]*placement.Strategy),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.caches == nil {
		r.caches = NewCaches()
	}
	if r.measurer == nil {
		r.measurer = placement.NewFontMeasurer(r.caches.Faces)
	}
	return r
}

// Caches returns the renderer's caches.
func (r *Renderer) Caches() *Caches {
	return r.caches
}

// ScaleDenominator returns the denominator rules are matched against: the
// map scale divided by the scale factor.
func (r *Renderer) ScaleDenominator(m *Map) float64 {
	return ScaleDenominator(m) / r.scale
}

// view is the per-render mapping from map units to pixels
type view struct {
	m           *Map
	denominator float64
	toPixel     matrix.Matrix
	canvas      orb.Bound
}

func (r *Renderer) newView(m *Map) *view {
	sx := float64(m.Width) / (m.Extent.Max[0] - m.Extent.Min[0])
	sy := float64(m.Height) / (m.Extent.Max[1] - m.Extent.Min[1])
	return &view{
		m:           m,
		denominator: r.ScaleDenominator(m),
		// y grows downward on the canvas
		toPixel: matrix.Matrix{sx, 0, 0, -sy, -m.Extent.Min[0] * sx, m.Extent.Max[1] * sy},
		canvas:  orb.Bound{Max: orb.Point{float64(m.Width), float64(m.Height)}},
	}
}

// queryBox is the map extent widened by the buffer, in map units.
func (v *view) queryBox() orb.Bound {
	if v.m.Buffer <= 0 {
		return v.m.Extent
	}
	unit := (v.m.Extent.Max[0] - v.m.Extent.Min[0]) / float64(v.m.Width)
	return v.m.Extent.Pad(float64(v.m.Buffer) * unit)
}

func (r *Renderer) detectorFor(v *view) placement.Detector {
	if r.detector != nil {
		return r.detector
	}
	if r.det == nil {
		buf := float64(v.m.Buffer)
		r.det = placement.NewRTreeDetector(v.canvas.Pad(buf), 0)
	}
	return r.det
}

// Render draws every visible layer of m in order.
func (r *Renderer) Render(m *Map) (Stats, error) {
	var stats Stats
	if err := m.Validate(); err != nil {
		return stats, err
	}
	v := r.newView(m)
	r.det = nil
	r.detectorFor(v)

	logging.Logger().Debug("render started",
		"width", m.Width,
		"height", m.Height,
		"scale_denominator", v.denominator,
		"layers", len(m.Layers))

	if m.Background.A > 0 {
		ins := &Instruction{
			Kind:       symbolizer.KindPolygon,
			Properties: symbolizer.Resolved{symbolizer.Fill: m.Background},
			Path:       canvasPath(v.canvas),
		}
		if err := r.backend.Draw(ins); err != nil {
			return stats, fmt.Errorf("background: %w", err)
		}
		stats.Instructions++
	}

	for _, l := range m.Layers {
		if !l.Visible(v.denominator) {
			continue
		}
		stats.Layers++
		if err := r.renderLayer(v, l, &stats); err != nil {
			return stats, fmt.Errorf("layer %s: %w", l.Name, err)
		}
	}
	return stats, nil
}

// RenderLayer draws a single layer of m, sharing the collision state of
// the current render.
func (r *Renderer) RenderLayer(m *Map, l *Layer) (Stats, error) {
	var stats Stats
	if err := m.Validate(); err != nil {
		return stats, err
	}
	v := r.newView(m)
	if !l.Visible(v.denominator) {
		return stats, nil
	}
	stats.Layers++
	err := r.renderLayer(v, l, &stats)
	return stats, err
}

// layerPass is the per-layer, per-style state of a render
type layerPass struct {
	*view
	layer     *Layer
	style     string
	reproject orb.Projection
	inverse   orb.Projection
	clipBox   orb.Bound
}

func (r *Renderer) newPass(v *view, l *Layer, styleName string) *layerPass {
	p := &layerPass{view: v, layer: l, style: styleName}
	if l.SRS != "" {
		p.reproject = reprojection(l.SRS, v.m.srs())
		p.inverse = reprojection(v.m.srs(), l.SRS)
	}
	p.clipBox = projectBound(v.queryBox(), p.inverse)
	return p
}

func (r *Renderer) renderLayer(v *view, l *Layer, stats *Stats) error {
	if l.ClearLabelCache {
		if c, ok := r.detectorFor(v).(interface{ Clear() }); ok {
			c.Clear()
		}
	}
	for _, name := range l.Styles {
		s := v.m.Styles[name]
		cache := style.NewRuleCache(s, v.denominator)
		if cache.Empty() {
			continue
		}
		p := r.newPass(v, l, name)
		src := l.Datasource.Features(feature.Query{
			Bounds:           p.clipBox,
			ScaleDenominator: v.denominator,
			Properties:       s.Attributes(),
		})
		for f, ok := src.Next(); ok; f, ok = src.Next() {
			if r.interrupt != nil && r.interrupt() {
				return ErrInterrupted
			}
			stats.Features++
			syms := cache.Symbolizers(f, r.vars)
			if len(syms) == 0 {
				r.report(stats, p, f, 0, skipped(ReasonNoRule))
				continue
			}
			for _, sym := range syms {
				o, err := r.draw(p, f, sym)
				r.report(stats, p, f, sym.Kind(), o)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Renderer) report(stats *Stats, p *layerPass, f *feature.Feature, kind symbolizer.Kind, o Outcome) {
	o.Layer = p.layer.Name
	o.FeatureID = f.ID()
	o.Kind = kind
	stats.Add(o)
	if r.onOutcome != nil {
		r.onOutcome(o)
	}
}

// RenderFeature draws one symbolizer for one feature of a layer of m and
// reports the outcome. Backend errors are reported as a skipped outcome.
func (r *Renderer) RenderFeature(m *Map, l *Layer, f *feature.Feature, sym *symbolizer.Symbolizer) Outcome {
	v := r.newView(m)
	p := r.newPass(v, l, "")
	o, err := r.draw(p, f, sym)
	if err != nil {
		logging.Logger().Warn("backend failed", "layer", l.Name, "feature", f.ID(), "error", err)
	}
	o.Layer, o.FeatureID, o.Kind = l.Name, f.ID(), sym.Kind()
	return o
}

// strategy returns the placement strategy of a symbolizer, built once per
// renderer.
func (r *Renderer) strategy(sym *symbolizer.Symbolizer) (*placement.Strategy, error) {
	if s, ok := r.strategies[sym]; ok {
		return s, nil
	}
	s, err := placement.NewStrategy(sym.Text)
	if err != nil {
		return nil, err
	}
	r.strategies[sym] = s
	return s, nil
}
