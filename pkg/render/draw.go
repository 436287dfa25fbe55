package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"github.com/beetlebugorg/portrayal/internal/logging"
	"github.com/beetlebugorg/portrayal/internal/parser"
	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/placement"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
	"github.com/beetlebugorg/portrayal/pkg/vertex"
)

// draw renders one symbolizer for one feature. Only backend failures are
// returned as errors.
func (r *Renderer) draw(p *layerPass, f *feature.Feature, sym *symbolizer.Symbolizer) (Outcome, error) {
	kind := sym.Kind()
	if f.Geometry() == nil || !kind.Accepts(f.GeometryType()) {
		return skipped(ReasonGeometryType), nil
	}

	props, errs := sym.Resolve(f, r.vars)
	for _, err := range errs {
		logging.Logger().Debug("property fell back to default",
			"layer", p.layer.Name,
			"feature", f.ID(),
			"symbolizer", kind.String(),
			"error", err)
	}

	var o Outcome
	var err error
	switch {
	case kind == symbolizer.KindGroup:
		o, err = r.drawGroup(p, f, sym, props)
	case kind.UsesPlacement():
		o, err = r.drawPlaced(p, f, sym, props)
	default:
		o, err = r.drawGeometry(p, f, sym, props)
	}
	o.EvalErrors += len(errs)
	return o, err
}

func (r *Renderer) emit(p *layerPass, f *feature.Feature, sym *symbolizer.Symbolizer, ins *Instruction) error {
	ins.Layer = p.layer.Name
	ins.Style = p.style
	ins.FeatureID = f.ID()
	ins.Kind = sym.Kind()
	return r.backend.Draw(ins)
}

// screenTransform maps map units to pixels, then applies the
// symbolizer's geometry transform.
func screenTransform(p *layerPass, props symbolizer.Resolved) matrix.Matrix {
	gt := props.Transform(symbolizer.GeometryTransform)
	if gt.IsIdentity() {
		return p.toPixel
	}
	return parser.Multiply(gt.Matrix(), p.toPixel)
}

// pipeline builds the vertex stages for a symbolizer.
func (r *Renderer) pipeline(p *layerPass, props symbolizer.Resolved, smoothing bool) vertex.Stage {
	o := vertex.Options{
		Clip:      props.Bool(symbolizer.Clip),
		ClipBox:   p.clipBox,
		Transform: screenTransform(p, props),
	}
	if p.reproject != nil {
		o.Reproject = vertex.Project(p.reproject)
	}
	if smoothing {
		alg, err := vertex.ParseAlgorithm(props.String(symbolizer.SimplifyAlgorithm))
		if err != nil {
			alg = vertex.RadialDistance
		}
		o.SimplifyTolerance = props.Float(symbolizer.Simplify)
		o.SimplifyAlgorithm = alg
		o.Smooth = props.Float(symbolizer.Smooth)
	}
	return vertex.Conventional(o)
}

func (r *Renderer) drawGeometry(p *layerPass, f *feature.Feature, sym *symbolizer.Symbolizer, props symbolizer.Resolved) (Outcome, error) {
	var data *path.Data
	switch sym.Kind() {
	case symbolizer.KindRaster, symbolizer.KindDebug:
		data = vertex.Collect(r.pipeline(p, props, false)(vertex.FromGeometry(f.Bounds())))
	case symbolizer.KindBuilding:
		data = r.extrude(p, f, props)
	default:
		data = vertex.Collect(r.pipeline(p, props, true)(vertex.FromGeometry(f.Geometry())))
	}
	if vertex.Count(data.Iter()) == 0 {
		return skipped(ReasonEmpty), nil
	}
	if err := r.emit(p, f, sym, &Instruction{Properties: props, Path: data}); err != nil {
		return skipped(ReasonBackend), err
	}
	return drawn(1), nil
}

// extrude returns the building footprint followed by its roof, shifted up
// by the height in pixels.
func (r *Renderer) extrude(p *layerPass, f *feature.Feature, props symbolizer.Resolved) *path.Data {
	footprint := r.pipeline(p, props, false)(vertex.FromGeometry(f.Geometry()))
	height := props.Float(symbolizer.Height) * r.scale
	roof := vertex.Affine(matrix.Matrix{1, 0, 0, 1, 0, -height})(footprint)

	d := &path.Data{}
	for _, part := range []path.Path{footprint, roof} {
		for _, sp := range vertex.Split(part) {
			d.MoveTo(sp.Points[0])
			for _, v := range sp.Points[1:] {
				d.LineTo(v)
			}
			if sp.Closed {
				d.Close()
			}
		}
	}
	return d
}

// screenGeometry returns the feature geometry in pixels, unclipped, for
// anchor generation. Vertices that land on NaN or infinity are dropped.
func (r *Renderer) screenGeometry(p *layerPass, f *feature.Feature, props symbolizer.Resolved) orb.Geometry {
	m := screenTransform(p, props)
	reproject := p.reproject
	g := project.Geometry(orb.Clone(f.Geometry()), func(pt orb.Point) orb.Point {
		if reproject != nil {
			pt = reproject(pt)
		}
		x, y := parser.Apply(m, pt[0], pt[1])
		return orb.Point{x, y}
	})
	return placement.Finite(g)
}

func (r *Renderer) anchors(p *layerPass, f *feature.Feature, props symbolizer.Resolved) []placement.Anchor {
	mode, err := placement.ParseAnchorMode(props.String(symbolizer.Placement))
	if err != nil {
		mode = placement.AnchorPoint
	}
	spacing := props.Float(symbolizer.Spacing) * r.scale
	return placement.Anchors(r.screenGeometry(p, f, props), mode, spacing)
}

func (r *Renderer) drawPlaced(p *layerPass, f *feature.Feature, sym *symbolizer.Symbolizer, props symbolizer.Resolved) (Outcome, error) {
	strategy, err := r.strategy(sym)
	if err != nil {
		logging.Logger().Debug("invalid placement strategy", "feature", f.ID(), "error", err)
		return skipped(ReasonStrategy), nil
	}

	info := placement.NewInfo(sym, strategy, r.scale)
	res := placement.Find(info, placement.Request{
		Feature:  f,
		Vars:     r.vars,
		Anchors:  r.anchors(p, f, props),
		Measurer: r.measurer,
		Detector: r.detectorFor(p.view),
	})
	if len(res.Placements) == 0 {
		return skipped(res.Reason), nil
	}

	for _, pl := range res.Placements {
		cprops := props
		if pl.Candidate.Symbolizer != sym {
			cprops, _ = pl.Candidate.Symbolizer.Resolve(f, r.vars)
		}
		ins := &Instruction{
			Properties: cprops,
			Placed:     true,
			Position:   pl.Box.Center(),
			Angle:      pl.Anchor.Angle,
			Box:        pl.Box,
			Text:       pl.Text,
			Size:       pl.Size,
		}
		if sym.Kind().HasImage() {
			ins.Path = r.markerPath(sym.Kind(), cprops)
		}
		if err := r.emit(p, f, sym, ins); err != nil {
			return skipped(ReasonBackend), err
		}
	}
	return drawn(len(res.Placements)), nil
}

// markerPath returns the compiled outline for image-bearing kinds, or nil
// when the marker cannot be built.
func (r *Renderer) markerPath(kind symbolizer.Kind, props symbolizer.Resolved) *path.Data {
	file := props.String(symbolizer.File)
	if file == "" && kind != symbolizer.KindMarkers {
		file = ShapeSquare
	}
	m, err := r.caches.Marker(file,
		props.Float(symbolizer.Width)*r.scale,
		props.Float(symbolizer.Height)*r.scale)
	if err != nil {
		logging.Logger().Debug("marker not compiled", "file", file, "error", err)
		return nil
	}
	return m.Path
}

func canvasPath(b orb.Bound) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: b.Min[0], Y: b.Min[1]}).
		LineTo(vec.Vec2{X: b.Max[0], Y: b.Min[1]}).
		LineTo(vec.Vec2{X: b.Max[0], Y: b.Max[1]}).
		LineTo(vec.Vec2{X: b.Min[0], Y: b.Max[1]}).
		Close()
}
