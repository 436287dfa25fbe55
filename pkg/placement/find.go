package placement

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// Request carries what Find needs besides the state machine.
type Request struct {
	Feature *feature.Feature
	Vars    expr.Vars

	// Anchors are tried in order for every candidate.
	Anchors []Anchor

	Measurer TextMeasurer
	Detector Detector

	// Size, when set, replaces measurement and marker sizing: it returns
	// the unscaled width and height of a candidate.
	Size func(Candidate) (width, height float64)

	// Key overrides the repeat-suppression key, which defaults to the
	// label text.
	Key string
}

// Placement is one accepted label or marker.
type Placement struct {
	Candidate Candidate
	Anchor    Anchor
	Box       orb.Bound

	// Center is the middle of the placed box before rotation.
	Center orb.Point

	// Text is the final label text; empty for markers.
	Text string
	Size float64
}

// Result is the outcome of Find.
type Result struct {
	Placements []Placement

	// Tried counts the candidates consumed.
	Tried int

	// Reason explains an empty result.
	Reason string
}

// Reasons for an empty Result.
const (
	ReasonNoAnchor   = "no anchor"
	ReasonEmptyLabel = "empty label"
	ReasonCollision  = "no candidate fits"
)

// Find drives the state machine until a candidate fits at one or more
// anchors, testing footprints against the detector. All anchors at which
// the first fitting candidate is allowed are placed. Find stops after
// info.MaxCandidates candidates whatever the detector answers.
func Find(info *Info, req Request) Result {
	var res Result
	if len(req.Anchors) == 0 {
		res.Reason = ReasonNoAnchor
		return res
	}
	measurer := req.Measurer
	if measurer == nil {
		measurer = EstimateMeasurer{}
	}

	for info.Next() {
		res.Tried++
		c := info.Candidate()
		p := resolve(c, req, measurer)
		if p.empty {
			res.Reason = ReasonEmptyLabel
			continue
		}
		for _, a := range req.Anchors {
			box := Footprint(a, c.Direction, p.width, p.height, p.dx, p.dy)
			if !finiteBox(box) || !p.allowed(req.Detector, box) {
				continue
			}
			p.insert(req.Detector, box)
			res.Placements = append(res.Placements, Placement{
				Candidate: c,
				Anchor:    a,
				Box:       box,
				Center:    boxCenter(a, c.Direction, p),
				Text:      p.text,
				Size:      p.size,
			})
		}
		if len(res.Placements) > 0 {
			info.Placed()
			res.Reason = ""
			return res
		}
		res.Reason = ReasonCollision
	}
	if res.Reason == "" {
		res.Reason = ReasonCollision
	}
	return res
}

// resolved holds the properties of one candidate evaluated for a feature
type resolved struct {
	text          string
	empty         bool
	size          float64
	width, height float64
	dx, dy        float64
	padding       float64
	minDistance   float64
	key           string

	allowOverlap    bool
	ignorePlacement bool
}

func resolve(c Candidate, req Request, m TextMeasurer) resolved {
	s, f, vars := c.Symbolizer, req.Feature, req.Vars
	scale := c.ScaleFactor
	if !(scale > 0) {
		scale = 1
	}
	get := func(k symbolizer.Key) float64 {
		return symbolizer.Get(s, k, f, vars, k.Default().(float64))
	}

	r := resolved{
		dx:              get(symbolizer.Dx) * scale,
		dy:              get(symbolizer.Dy) * scale,
		padding:         get(symbolizer.MinPadding) * scale,
		minDistance:     math.Max(get(symbolizer.MinDistance), get(symbolizer.RepeatDistance)) * scale,
		allowOverlap:    symbolizer.Get(s, symbolizer.AllowOverlap, f, vars, false),
		ignorePlacement: symbolizer.Get(s, symbolizer.IgnorePlacement, f, vars, false),
		key:             req.Key,
	}

	switch {
	case req.Size != nil:
		w, h := req.Size(c)
		r.width, r.height = w*scale, h*scale
	case s.Kind().HasText():
		r.size = get(symbolizer.Size) * scale
		text := symbolizer.Get(s, symbolizer.Name, f, vars, "")
		text = TransformText(text, symbolizer.Get(s, symbolizer.TextTransform, f, vars, "none"))
		if text == "" {
			r.empty = true
			return r
		}
		face := symbolizer.Get(s, symbolizer.FaceName, f, vars, symbolizer.FaceName.Default().(string))
		if wrap := get(symbolizer.WrapWidth) * scale; wrap > 0 {
			text = Wrap(text, wrap, func(line string) float64 {
				w, _ := m.Measure(line, face, r.size)
				return w
			})
		}
		r.text = text
		r.width, r.height = m.Measure(text, face, r.size)
		if r.key == "" {
			r.key = text
		}
	default:
		r.width = get(symbolizer.Width) * scale
		r.height = get(symbolizer.Height) * scale
	}
	return r
}

func (r resolved) allowed(d Detector, box orb.Bound) bool {
	if d == nil || r.allowOverlap {
		return true
	}
	padded := box.Pad(r.padding)
	if kd, ok := d.(KeyedDetector); ok {
		return kd.AllowedKey(padded, r.key, r.minDistance)
	}
	return d.Allowed(padded)
}

func (r resolved) insert(d Detector, box orb.Bound) {
	if d == nil || r.ignorePlacement {
		return
	}
	if kd, ok := d.(KeyedDetector); ok {
		kd.InsertKey(box, r.key)
		return
	}
	d.Insert(box)
}

// boxCenter returns the placed box centre before rotation is applied.
func boxCenter(a Anchor, dir Direction, r resolved) orb.Point {
	b := Footprint(Anchor{Point: a.Point}, dir, r.width, r.height, r.dx, r.dy)
	return b.Center()
}
