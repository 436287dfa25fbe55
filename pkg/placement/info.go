package placement

import (
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// State is a step of the placement state machine.
type State int

const (
	Ready State = iota
	Trying
	Placed
	Exhausted
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Trying:
		return "trying"
	case Placed:
		return "placed"
	}
	return "exhausted"
}

// Candidate is one placement attempt.
type Candidate struct {
	// Index counts candidates from zero.
	Index int

	Direction Direction

	// Size is the text size the candidate overrides, or zero when the
	// symbolizer's own size applies.
	Size float64

	// Symbolizer carries the candidate's properties layered over the
	// original symbolizer.
	Symbolizer *symbolizer.Symbolizer

	// ScaleFactor multiplies sizes and offsets.
	ScaleFactor float64
}

// Info walks the candidates of one feature and symbolizer.
//
// Next is the only transition: Ready and Trying move to Trying with a new
// candidate, or to Exhausted when the strategy has none left. Placed ends
// the walk. Info is not safe for concurrent use.
type Info struct {
	sym      *symbolizer.Symbolizer
	strategy *Strategy
	scale    float64

	state State
	index int
	cand  Candidate

	// list-level symbolizers, built on demand
	layered []*symbolizer.Symbolizer
}

// NewInfo creates a fresh state machine. A nil strategy is the dummy
// strategy; a scale factor of zero or less is read as 1.
func NewInfo(sym *symbolizer.Symbolizer, strategy *Strategy, scaleFactor float64) *Info {
	if strategy == nil {
		strategy = DummyStrategy
	}
	if !(scaleFactor > 0) {
		scaleFactor = 1
	}
	return &Info{sym: sym, strategy: strategy, scale: scaleFactor, index: -1}
}

// State returns the current state.
func (i *Info) State() State { return i.state }

// MaxCandidates returns the bound on the number of successful Next calls.
func (i *Info) MaxCandidates() int { return i.strategy.MaxCandidates() }

// Tried returns how many candidates have been produced so far.
func (i *Info) Tried() int { return i.index + 1 }

// Next advances to the next candidate and reports whether there is one.
func (i *Info) Next() bool {
	if i.state == Placed || i.state == Exhausted {
		return false
	}
	if i.index+1 >= i.strategy.MaxCandidates() {
		i.state = Exhausted
		return false
	}
	i.index++
	i.state = Trying
	i.cand = i.candidate(i.index)
	return true
}

// Candidate returns the current candidate. It is the zero Candidate before
// the first successful Next.
func (i *Info) Candidate() Candidate { return i.cand }

// Placed records that the current candidate was accepted. Later Next calls
// return false.
func (i *Info) Placed() {
	if i.state == Trying {
		i.state = Placed
	}
}

func (i *Info) candidate(n int) Candidate {
	c := Candidate{Index: n, Direction: Exact, Symbolizer: i.sym, ScaleFactor: i.scale}
	s := i.strategy
	switch s.Kind {
	case Simple:
		i.applySimple(&c, i.sym, n)
	case List:
		c.Symbolizer = i.listEntry(n)
	case Combined:
		per := s.simpleCount()
		i.applySimple(&c, i.listEntry(n/per), n%per)
	}
	return c
}

// applySimple fills the direction and size of the n-th simple candidate.
// Sizes form the outer loop and directions the inner one.
func (i *Info) applySimple(c *Candidate, base *symbolizer.Symbolizer, n int) {
	s := i.strategy
	dirs := s.Directions
	if len(dirs) == 0 {
		dirs = []Direction{Exact}
	}
	c.Direction = dirs[n%len(dirs)]
	c.Symbolizer = base
	if len(s.Sizes) > 0 {
		c.Size = s.Sizes[n/len(dirs)]
		c.Symbolizer = base.With(symbolizer.Properties{
			symbolizer.Size: symbolizer.Literal(c.Size),
		})
	}
}

// listEntry returns the symbolizer of list entry n; entry 0 is the
// original symbolizer.
func (i *Info) listEntry(n int) *symbolizer.Symbolizer {
	if n == 0 {
		return i.sym
	}
	if i.layered == nil {
		i.layered = make([]*symbolizer.Symbolizer, len(i.strategy.List))
	}
	if i.layered[n-1] == nil {
		i.layered[n-1] = i.sym.With(i.strategy.List[n-1])
	}
	return i.layered[n-1]
}
