package render

import (
	"github.com/paulmach/orb"

	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/placement"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// groupMember is one measured symbol of a group
type groupMember struct {
	sym   *symbolizer.Symbolizer
	props symbolizer.Resolved
	text  string
	size  float64
	box   orb.Bound // centred on the origin
}

// drawGroup lays out the symbols of every matching column and places the
// whole group as one footprint.
func (r *Renderer) drawGroup(p *layerPass, f *feature.Feature, sym *symbolizer.Symbolizer, props symbolizer.Resolved) (Outcome, error) {
	block := sym.Group
	if block == nil {
		return skipped(ReasonEmptyGroup), nil
	}

	layout := block.NewLayout()
	var members []groupMember
	key := ""
	for _, col := range block.Columns() {
		cf := symbolizer.ColumnFeature(f, col)
		for _, rule := range block.Rules {
			if !rule.Matches(cf, r.vars) {
				continue
			}
			if key == "" && rule.RepeatKey != nil {
				key = repeatKey(rule.RepeatKey, cf, r.vars)
			}
			for _, ms := range rule.Symbolizers {
				m, ok := r.measureMember(ms, cf)
				if !ok {
					continue
				}
				layout.Add(m.box)
				members = append(members, m)
			}
			break
		}
	}
	if len(members) == 0 {
		return skipped(ReasonEmptyGroup), nil
	}

	bounds := layout.Bounds()
	width, height := bounds.Max[0]-bounds.Min[0], bounds.Max[1]-bounds.Min[1]
	info := placement.NewInfo(sym, placement.DummyStrategy, r.scale)
	res := placement.Find(info, placement.Request{
		Feature:  f,
		Vars:     r.vars,
		Anchors:  r.anchors(p, f, props),
		Measurer: r.measurer,
		Detector: r.detectorFor(p.view),
		Key:      key,
		// members are measured in pixels already
		Size: func(placement.Candidate) (float64, float64) {
			return width / r.scale, height / r.scale
		},
	})
	if len(res.Placements) == 0 {
		return skipped(res.Reason), nil
	}

	origin := bounds.Center()
	for _, pl := range res.Placements {
		center := pl.Box.Center()
		ins := &Instruction{
			Properties: props,
			Placed:     true,
			Position:   center,
			Box:        pl.Box,
		}
		for i, m := range members {
			off := layout.OffsetAt(i)
			pos := orb.Point{center[0] + off[0] - origin[0], center[1] + off[1] - origin[1]}
			ins.Members = append(ins.Members, &Instruction{
				Layer:      p.layer.Name,
				Style:      p.style,
				FeatureID:  f.ID(),
				Kind:       m.sym.Kind(),
				Properties: m.props,
				Placed:     true,
				Position:   pos,
				Box: orb.Bound{
					Min: orb.Point{pos[0] + m.box.Min[0], pos[1] + m.box.Min[1]},
					Max: orb.Point{pos[0] + m.box.Max[0], pos[1] + m.box.Max[1]},
				},
				Text: m.text,
				Size: m.size,
			})
		}
		if err := r.emit(p, f, sym, ins); err != nil {
			return skipped(ReasonBackend), err
		}
	}
	return drawn(len(res.Placements)), nil
}

// measureMember sizes a member symbol in pixels. Text members with an
// empty label are dropped.
func (r *Renderer) measureMember(sym *symbolizer.Symbolizer, f *feature.Feature) (groupMember, bool) {
	props, _ := sym.Resolve(f, r.vars)
	m := groupMember{sym: sym, props: props}
	var w, h float64
	if sym.Kind().HasText() {
		m.size = props.Float(symbolizer.Size) * r.scale
		m.text = placement.TransformText(props.String(symbolizer.Name), props.String(symbolizer.TextTransform))
		if m.text == "" {
			return m, false
		}
		w, h = r.measurer.Measure(m.text, props.String(symbolizer.FaceName), m.size)
	} else {
		w = props.Float(symbolizer.Width) * r.scale
		h = props.Float(symbolizer.Height) * r.scale
	}
	m.box = orb.Bound{Min: orb.Point{-w / 2, -h / 2}, Max: orb.Point{w / 2, h / 2}}
	return m, true
}

func repeatKey(e *expr.Expr, f *feature.Feature, vars expr.Vars) string {
	v, err := e.Evaluate(expr.Context{Feature: f, Vars: vars})
	if err != nil {
		return ""
	}
	return v.ToString()
}
