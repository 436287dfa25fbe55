package stylesheet

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// document is the YAML form of a stylesheet.
type document struct {
	Map    mapConfig              `yaml:"map"`
	Styles map[string]styleConfig `yaml:"styles"`
	Layers []LayerConfig          `yaml:"layers"`
}

type mapConfig struct {
	Background string `yaml:"background"`
	SRS        string `yaml:"srs"`
	Buffer     int    `yaml:"buffer"`
}

type styleConfig struct {
	FilterMode string       `yaml:"filter-mode"`
	Opacity    *float64     `yaml:"opacity"`
	Rules      []ruleConfig `yaml:"rules"`
}

type ruleConfig struct {
	Name        string             `yaml:"name"`
	Filter      string             `yaml:"filter"`
	Else        bool               `yaml:"else"`
	MinScale    float64            `yaml:"min-scale"`
	MaxScale    float64            `yaml:"max-scale"`
	Symbolizers []symbolizerConfig `yaml:"symbolizers"`
}

type symbolizerConfig struct {
	Type       string           `yaml:"type"`
	Properties scalars          `yaml:"properties"`
	Placement  *placementConfig `yaml:"placement"`
	Group      *groupConfig     `yaml:"group"`
}

type placementConfig struct {
	Strategy  string    `yaml:"strategy"`
	Positions scalar    `yaml:"positions"`
	List      []scalars `yaml:"list"`
}

type groupConfig struct {
	ColumnStart   int               `yaml:"column-start"`
	ColumnEnd     int               `yaml:"column-end"`
	Layout        string            `yaml:"layout"`
	Margin        float64           `yaml:"margin"`
	MaxDifference *float64          `yaml:"max-difference"`
	Rules         []groupRuleConfig `yaml:"rules"`
}

type groupRuleConfig struct {
	Filter      string             `yaml:"filter"`
	RepeatKey   string             `yaml:"repeat-key"`
	Symbolizers []symbolizerConfig `yaml:"symbolizers"`
}

// LayerConfig is a layer as declared in the stylesheet. The datasource is
// bound when the map is built.
type LayerConfig struct {
	Name            string   `yaml:"name"`
	Styles          []string `yaml:"styles"`
	SRS             string   `yaml:"srs"`
	MinScale        float64  `yaml:"min-scale"`
	MaxScale        float64  `yaml:"max-scale"`
	Source          string   `yaml:"source"`
	ClearLabelCache bool     `yaml:"clear-label-cache"`
}

// scalar is a YAML scalar kept as its source text, so that numbers,
// colors and expressions all reach the property parser unchanged.
type scalar string

func (s *scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*s = scalar(node.Value)
	return nil
}

// entry is one property in declaration order
type entry struct {
	name  string
	value string
	line  int
}

// scalars is a mapping of property names to scalar text that remembers
// declaration order.
type scalars []entry

func (s *scalars) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of properties", node.Line)
	}
	out := make(scalars, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: property %s: expected a scalar value", v.Line, k.Value)
		}
		out = append(out, entry{name: k.Value, value: v.Value, line: v.Line})
	}
	*s = out
	return nil
}
