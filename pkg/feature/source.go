package feature

// Source yields features one at a time until exhausted. Sources cannot be
// rewound; ask the Datasource for a fresh one instead.
type Source interface {
	// Next returns the next feature, or false once the source is exhausted.
	Next() (*Feature, bool)
}

// SliceSource is a Source over a fixed slice of features.
type SliceSource struct {
	features []*Feature
	pos      int
}

// NewSliceSource creates a source yielding the given features in order.
func NewSliceSource(features []*Feature) *SliceSource {
	return &SliceSource{features: features}
}

// Next implements Source.
func (s *SliceSource) Next() (*Feature, bool) {
	for s.pos < len(s.features) {
		f := s.features[s.pos]
		s.pos++
		if f != nil {
			return f, true
		}
	}
	return nil, false
}

// Drain reads every remaining feature from a source.
func Drain(src Source) []*Feature {
	var out []*Feature
	for {
		f, ok := src.Next()
		if !ok {
			return out
		}
		out = append(out, f)
	}
}
