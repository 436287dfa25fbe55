// Package stylesheet loads styles and layers from YAML.
//
// A stylesheet binds the styling core to a document; it defines no
// styling syntax of its own. Filters, and property values holding an
// attribute reference or variable, are expressions.
//
//	map:
//	  background: "#f2efe9"
//	  srs: EPSG:3857
//	styles:
//	  roads:
//	    filter-mode: first
//	    rules:
//	      - name: motorway
//	        filter: "[highway] = 'motorway'"
//	        max-scale: 500000
//	        symbolizers:
//	          - type: line
//	            properties:
//	              stroke: "#e892a2"
//	              stroke-width: "[lanes] * 1.5"
//	      - name: other
//	        else: true
//	        symbolizers:
//	          - type: line
//	layers:
//	  - name: roads
//	    styles: [roads]
//	    srs: EPSG:4326
//	    source: roads.geojson
package stylesheet

import (
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/beetlebugorg/portrayal/pkg/cache"
	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/group"
	"github.com/beetlebugorg/portrayal/pkg/placement"
	"github.com/beetlebugorg/portrayal/pkg/style"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// Stylesheet is a loaded, validated stylesheet.
type Stylesheet struct {
	Background symbolizer.Color
	SRS        string
	Buffer     int
	Styles     map[string]*style.Style
	Layers     []LayerConfig
}

// StyleNames returns the style names in sorted order.
func (s *Stylesheet) StyleNames() []string {
	names := make([]string, 0, len(s.Styles))
	for name := range s.Styles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Option configures loading.
type Option func(*loader)

// WithExpressionCache parses expressions through c, so identical
// expression text shares one compiled expression across stylesheets.
func WithExpressionCache(c *cache.Cache[*expr.Expr]) Option {
	return func(l *loader) { l.exprs = c }
}

type loader struct {
	exprs *cache.Cache[*expr.Expr]
}

// LoadFile loads a stylesheet from a YAML file.
func LoadFile(filename string, opts ...Option) (*Stylesheet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	ss, err := Load(data, opts...)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return ss, nil
}

// Load parses and validates a YAML stylesheet.
func Load(data []byte, opts ...Option) (*Stylesheet, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.exprs == nil {
		l.exprs = cache.New[*expr.Expr]()
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "invalid stylesheet")
	}

	ss := &Stylesheet{
		SRS:    doc.Map.SRS,
		Buffer: doc.Map.Buffer,
		Styles: make(map[string]*style.Style, len(doc.Styles)),
		Layers: doc.Layers,
	}
	if doc.Map.Background != "" {
		c, err := symbolizer.ParseColor(doc.Map.Background)
		if err != nil {
			return nil, errors.Wrap(err, "map background")
		}
		ss.Background = c
	}
	if doc.Map.Buffer < 0 {
		return nil, errors.Errorf("map buffer %d is negative", doc.Map.Buffer)
	}

	for name, sc := range doc.Styles {
		s, err := l.style(name, sc)
		if err != nil {
			return nil, errors.Wrapf(err, "style %s", name)
		}
		ss.Styles[name] = s
	}

	seen := make(map[string]bool, len(doc.Layers))
	for i, lc := range doc.Layers {
		if lc.Name == "" {
			return nil, errors.Errorf("layer %d: missing name", i)
		}
		if seen[lc.Name] {
			return nil, errors.Errorf("layer %s: duplicate name", lc.Name)
		}
		seen[lc.Name] = true
		for _, sn := range lc.Styles {
			if _, ok := ss.Styles[sn]; !ok {
				return nil, errors.Errorf("layer %s: unknown style %q", lc.Name, sn)
			}
		}
		if lc.MinScale < 0 || (lc.MaxScale > 0 && lc.MaxScale <= lc.MinScale) {
			return nil, errors.Errorf("layer %s: invalid scale range [%g, %g)", lc.Name, lc.MinScale, lc.MaxScale)
		}
	}
	return ss, nil
}

func (l *loader) expression(src string) (*expr.Expr, error) {
	return l.exprs.GetOrLoad(src, func() (*expr.Expr, error) {
		return expr.Parse(src)
	})
}

func (l *loader) style(name string, sc styleConfig) (*style.Style, error) {
	mode, err := style.ParseFilterMode(sc.FilterMode)
	if err != nil {
		return nil, err
	}
	s := style.New(name)
	s.FilterMode = mode
	if sc.Opacity != nil {
		if *sc.Opacity < 0 || *sc.Opacity > 1 {
			return nil, errors.Errorf("opacity %g outside [0, 1]", *sc.Opacity)
		}
		s.Opacity = *sc.Opacity
	}

	for i, rc := range sc.Rules {
		r, err := l.rule(rc)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %s", ruleLabel(rc.Name, i))
		}
		if err := r.Validate(); err != nil {
			if re, ok := err.(*style.RuleError); ok {
				re.Index = i
			}
			return nil, err
		}
		s.Rules = append(s.Rules, r)
	}
	return s, nil
}

func ruleLabel(name string, index int) string {
	if name == "" {
		return "#" + strconv.Itoa(index)
	}
	return name
}

func (l *loader) rule(rc ruleConfig) (*style.Rule, error) {
	r := style.NewRule(rc.Name)
	r.Else = rc.Else
	r.MinScale = rc.MinScale
	if rc.MaxScale > 0 {
		r.MaxScale = rc.MaxScale
	}
	if strings.TrimSpace(rc.Filter) != "" {
		e, err := l.expression(rc.Filter)
		if err != nil {
			return nil, errors.Wrap(err, "filter")
		}
		r.Filter = e
	}
	syms, err := l.symbolizers(rc.Symbolizers)
	if err != nil {
		return nil, err
	}
	r.Symbolizers = syms
	return r, nil
}

func (l *loader) symbolizers(cfgs []symbolizerConfig) ([]*symbolizer.Symbolizer, error) {
	out := make([]*symbolizer.Symbolizer, 0, len(cfgs))
	for i, sc := range cfgs {
		sym, err := l.symbolizer(sc)
		if err != nil {
			return nil, errors.Wrapf(err, "symbolizer %d (%s)", i, sc.Type)
		}
		out = append(out, sym)
	}
	return out, nil
}

func (l *loader) symbolizer(sc symbolizerConfig) (*symbolizer.Symbolizer, error) {
	kind, err := symbolizer.ParseKind(sc.Type)
	if err != nil {
		return nil, err
	}
	sym := symbolizer.New(kind)
	if err := l.setProperties(sym, sc.Properties); err != nil {
		return nil, err
	}

	if sc.Placement != nil {
		if sym.Text == nil {
			return nil, errors.Errorf("%s symbolizer takes no placement", kind)
		}
		if err := l.placement(sym, sc.Placement); err != nil {
			return nil, errors.Wrap(err, "placement")
		}
	}

	if sc.Group != nil {
		if sym.Group == nil {
			return nil, errors.Errorf("%s symbolizer takes no group", kind)
		}
		if err := l.group(sym.Group, sc.Group); err != nil {
			return nil, errors.Wrap(err, "group")
		}
	}
	return sym, nil
}

// setProperties assigns properties in declaration order. Expression text
// goes through the loader's cache.
func (l *loader) setProperties(sym *symbolizer.Symbolizer, props scalars) error {
	for _, p := range props {
		key, ok := symbolizer.KeyByName(p.name)
		if !ok {
			return errors.Wrapf(&symbolizer.PropertyError{Kind: sym.Kind(), Name: p.name, Reason: "unknown property"},
				"line %d", p.line)
		}
		var err error
		if isExpression(key, p.value) {
			var e *expr.Expr
			e, err = l.expression(p.value)
			if err != nil {
				err = &symbolizer.PropertyError{Kind: sym.Kind(), Key: key, Reason: "invalid expression", Err: err}
			} else {
				err = sym.Set(key, e)
			}
		} else {
			err = sym.SetString(key, p.value)
		}
		if err != nil {
			return errors.Wrapf(err, "line %d", p.line)
		}
	}
	return nil
}

func isExpression(key symbolizer.Key, text string) bool {
	if key.ValueKind() == symbolizer.ValueExpression {
		return true
	}
	t := strings.TrimSpace(text)
	return strings.Contains(t, "[") || strings.HasPrefix(t, "@")
}

func (l *loader) placement(sym *symbolizer.Symbolizer, pc *placementConfig) error {
	block := &symbolizer.TextBlock{Strategy: pc.Strategy, Positions: string(pc.Positions)}
	if block.Strategy == "" {
		block.Strategy = "dummy"
	}
	for i, props := range pc.List {
		// a scratch symbolizer type-checks the alternative
		alt := symbolizer.New(sym.Kind())
		if err := l.setProperties(alt, props); err != nil {
			return errors.Wrapf(err, "list entry %d", i)
		}
		block.List = append(block.List, alt.Properties())
	}
	if _, err := placement.NewStrategy(block); err != nil {
		return err
	}
	sym.Text = block
	return nil
}

func (l *loader) group(block *symbolizer.GroupBlock, gc *groupConfig) error {
	kind, err := group.ParseKind(gc.Layout)
	if err != nil {
		return err
	}
	block.Layout = kind
	block.Margin = gc.Margin
	if gc.ColumnStart != 0 {
		block.ColumnStart = gc.ColumnStart
	}
	if gc.ColumnEnd != 0 {
		block.ColumnEnd = gc.ColumnEnd
	}
	if block.ColumnEnd < block.ColumnStart {
		return errors.Errorf("column range %d..%d is empty", block.ColumnStart, block.ColumnEnd)
	}
	if gc.MaxDifference != nil {
		block.MaxDifference = *gc.MaxDifference
	}

	for i, rc := range gc.Rules {
		gr := &symbolizer.GroupRule{}
		if strings.TrimSpace(rc.Filter) != "" {
			if gr.Filter, err = l.expression(rc.Filter); err != nil {
				return errors.Wrapf(err, "rule %d: filter", i)
			}
		}
		if strings.TrimSpace(rc.RepeatKey) != "" {
			if gr.RepeatKey, err = l.expression(rc.RepeatKey); err != nil {
				return errors.Wrapf(err, "rule %d: repeat-key", i)
			}
		}
		if gr.Symbolizers, err = l.symbolizers(rc.Symbolizers); err != nil {
			return errors.Wrapf(err, "rule %d", i)
		}
		block.Rules = append(block.Rules, gr)
	}
	return nil
}
