package render

import (
	"encoding/json"
	"sync"

	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/path"

	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
	"github.com/beetlebugorg/portrayal/pkg/vertex"
)

// Instruction is one fully resolved drawing command in pixel space.
type Instruction struct {
	Layer     string
	Style     string
	FeatureID int64
	Kind      symbolizer.Kind

	// Properties holds the symbolizer's values evaluated for the feature.
	Properties symbolizer.Resolved

	// Path is the transformed geometry for geometry-drawing kinds and the
	// marker outline for markers.
	Path *path.Data

	// Placement results, set for kinds that use the placement engine.
	Placed   bool
	Position orb.Point
	Angle    float64
	Box      orb.Bound
	Text     string
	Size     float64

	// Members holds the member instructions of a group.
	Members []*Instruction
}

// Backend consumes instructions. This package never touches pixels.
type Backend interface {
	Draw(ins *Instruction) error
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(*Instruction) error

// Draw implements Backend.
func (f BackendFunc) Draw(ins *Instruction) error { return f(ins) }

// RecordingBackend keeps every instruction it is given. It is safe for
// concurrent use.
type RecordingBackend struct {
	mu           sync.Mutex
	instructions []*Instruction
}

// Draw implements Backend.
func (b *RecordingBackend) Draw(ins *Instruction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.instructions = append(b.instructions, ins)
	return nil
}

// Instructions returns the recorded instructions in draw order.
func (b *RecordingBackend) Instructions() []*Instruction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Instruction(nil), b.instructions...)
}

// Reset forgets all recorded instructions.
func (b *RecordingBackend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.instructions = nil
}

type jsonSubpath struct {
	Points [][2]float64 `json:"points"`
	Closed bool         `json:"closed,omitempty"`
}

type jsonInstruction struct {
	Layer      string              `json:"layer,omitempty"`
	Style      string              `json:"style,omitempty"`
	FeatureID  int64               `json:"feature"`
	Kind       string              `json:"kind"`
	Properties symbolizer.Resolved `json:"properties,omitempty"`
	Path       []jsonSubpath       `json:"path,omitempty"`
	Position   *[2]float64         `json:"position,omitempty"`
	Angle      float64             `json:"angle,omitempty"`
	Box        *[4]float64         `json:"box,omitempty"`
	Text       string              `json:"text,omitempty"`
	Size       float64             `json:"size,omitempty"`
	Members    []*Instruction      `json:"members,omitempty"`
}

// MarshalJSON encodes the instruction with its path as point lists.
func (ins *Instruction) MarshalJSON() ([]byte, error) {
	out := jsonInstruction{
		Layer:      ins.Layer,
		Style:      ins.Style,
		FeatureID:  ins.FeatureID,
		Kind:       ins.Kind.String(),
		Properties: ins.Properties,
		Angle:      ins.Angle,
		Text:       ins.Text,
		Size:       ins.Size,
		Members:    ins.Members,
	}
	if ins.Path != nil {
		for _, sp := range vertex.Split(ins.Path.Iter()) {
			js := jsonSubpath{Closed: sp.Closed, Points: make([][2]float64, len(sp.Points))}
			for i, v := range sp.Points {
				js.Points[i] = [2]float64{v.X, v.Y}
			}
			out.Path = append(out.Path, js)
		}
	}
	if ins.Placed {
		out.Position = &[2]float64{ins.Position[0], ins.Position[1]}
		out.Box = &[4]float64{ins.Box.Min[0], ins.Box.Min[1], ins.Box.Max[0], ins.Box.Max[1]}
	}
	return json.Marshal(out)
}
