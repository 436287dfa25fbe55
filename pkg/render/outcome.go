package render

import (
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

// Status is the result of drawing one symbolizer for one feature.
type Status int

const (
	Drawn Status = iota
	Skipped
)

func (s Status) String() string {
	if s == Drawn {
		return "drawn"
	}
	return "skipped"
}

// Reasons a symbolizer is skipped.
const (
	ReasonNoRule       = "no rule matched"
	ReasonGeometryType = "geometry type not drawn by symbolizer"
	ReasonEmpty        = "geometry empty after clipping"
	ReasonEmptyGroup   = "no group member matched"
	ReasonStrategy     = "invalid placement strategy"
	ReasonBackend      = "backend error"
)

// Outcome reports what happened to one feature and symbolizer. Placement
// exhaustion is an outcome, not an error.
type Outcome struct {
	Layer     string
	FeatureID int64
	Kind      symbolizer.Kind
	Status    Status
	Reason    string

	// EvalErrors counts properties that fell back to their default.
	EvalErrors int

	// Instructions counts the instructions drawn.
	Instructions int
}

func drawn(n int) Outcome {
	return Outcome{Status: Drawn, Instructions: n}
}

func skipped(reason string) Outcome {
	return Outcome{Status: Skipped, Reason: reason}
}

// Stats aggregates the outcomes of a render.
type Stats struct {
	Layers       int
	Features     int
	Drawn        int
	Skipped      int
	Instructions int
	EvalErrors   int

	// SkipReasons counts skipped outcomes per reason.
	SkipReasons map[string]int
}

// Add accumulates an outcome.
func (s *Stats) Add(o Outcome) {
	s.EvalErrors += o.EvalErrors
	s.Instructions += o.Instructions
	if o.Status == Drawn {
		s.Drawn++
		return
	}
	s.Skipped++
	if s.SkipReasons == nil {
		s.SkipReasons = make(map[string]int)
	}
	s.SkipReasons[o.Reason]++
}

// Merge accumulates another render's statistics.
func (s *Stats) Merge(o Stats) {
	s.Layers += o.Layers
	s.Features += o.Features
	s.Drawn += o.Drawn
	s.Skipped += o.Skipped
	s.Instructions += o.Instructions
	s.EvalErrors += o.EvalErrors
	for k, v := range o.SkipReasons {
		if s.SkipReasons == nil {
			s.SkipReasons = make(map[string]int)
		}
		s.SkipReasons[k] += v
	}
}
