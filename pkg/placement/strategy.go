package placement

import (
	"strconv"
	"strings"

	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// StrategyKind selects how placement candidates are generated.
type StrategyKind int

const (
	// Dummy yields the symbolizer's own properties once.
	Dummy StrategyKind = iota

	// Simple yields every direction for each size, largest size first.
	Simple

	// List yields the symbolizer's properties, then each alternative.
	List

	// Combined runs the simple candidates for every list entry.
	Combined
)

var strategyNames = [...]string{
	Dummy:    "dummy",
	Simple:   "simple",
	List:     "list",
	Combined: "combined",
}

func (k StrategyKind) String() string {
	if k >= 0 && int(k) < len(strategyNames) {
		return strategyNames[k]
	}
	return "unknown"
}

// ParseStrategyKind maps a strategy name to its kind. Empty text is Dummy.
func ParseStrategyKind(name string) (StrategyKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Dummy, nil
	}
	for i, s := range strategyNames {
		if s == n {
			return StrategyKind(i), nil
		}
	}
	return Dummy, &StrategyError{Name: name, Reason: "unknown strategy"}
}

// Strategy is a validated candidate generator configuration.
type Strategy struct {
	Kind StrategyKind

	// Directions and Sizes drive the simple and combined strategies. An
	// empty Sizes keeps the symbolizer's own size.
	Directions []Direction
	Sizes      []float64

	// List holds alternative property sets for the list and combined
	// strategies.
	List []symbolizer.Properties
}

// DummyStrategy is the strategy used when a symbolizer configures none.
var DummyStrategy = &Strategy{Kind: Dummy}

// ParseSimple parses simple positions such as "N,S,E,W,NE,SE,NW,SW,X,16,12":
// direction abbreviations followed by font sizes, in the order they are
// tried. Without directions the exact position is used.
func ParseSimple(positions string) ([]Direction, []float64, error) {
	var dirs []Direction
	var sizes []float64
	for _, field := range strings.FieldsFunc(positions, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		if size, err := strconv.ParseFloat(field, 64); err == nil {
			if !(size > 0) {
				return nil, nil, &StrategyError{Name: "simple", Positions: positions, Reason: "size must be positive: " + field}
			}
			sizes = append(sizes, size)
			continue
		}
		d, err := ParseDirection(field)
		if err != nil {
			return nil, nil, &StrategyError{Name: "simple", Positions: positions, Reason: err.Error()}
		}
		dirs = append(dirs, d)
	}
	if len(dirs) == 0 {
		dirs = []Direction{Exact}
	}
	return dirs, sizes, nil
}

// NewStrategy builds the strategy configured by a text block. A nil block
// yields the dummy strategy.
func NewStrategy(block *symbolizer.TextBlock) (*Strategy, error) {
	if block == nil {
		return DummyStrategy, nil
	}
	kind, err := ParseStrategyKind(block.Strategy)
	if err != nil {
		return nil, err
	}
	s := &Strategy{Kind: kind}
	if kind == Simple || kind == Combined {
		s.Directions, s.Sizes, err = ParseSimple(block.Positions)
		if err != nil {
			err.(*StrategyError).Name = kind.String()
			return nil, err
		}
	}
	if kind == List || kind == Combined {
		s.List = block.List
	}
	return s, nil
}

// simpleCount is the number of candidates of the simple part.
func (s *Strategy) simpleCount() int {
	n := len(s.Directions)
	if n == 0 {
		n = 1
	}
	if len(s.Sizes) > 0 {
		n *= len(s.Sizes)
	}
	return n
}

// MaxCandidates is the static upper bound on the candidates the strategy
// generates for one feature.
func (s *Strategy) MaxCandidates() int {
	switch s.Kind {
	case Simple:
		return s.simpleCount()
	case List:
		return 1 + len(s.List)
	case Combined:
		return (1 + len(s.List)) * s.simpleCount()
	}
	return 1
}
