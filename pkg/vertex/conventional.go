package vertex

import (
	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/matrix"
)

// Options configures the conventional pipeline. Zero values disable a
// stage, except Transform where the zero matrix is read as identity.
type Options struct {
	Clip    bool
	ClipBox orb.Bound

	// Reproject runs after clipping and before the transform.
	Reproject Stage
	Transform matrix.Matrix

	SimplifyTolerance float64
	SimplifyAlgorithm Algorithm

	Smooth float64
}

// DefaultOptions returns options for an identity pipeline.
func DefaultOptions() Options {
	return Options{Transform: matrix.Identity}
}

// Conventional builds the pipeline clip, reproject, transform, simplify,
// smooth, with invalid coordinates dropped after reprojection and the
// transform.
func Conventional(o Options) Stage {
	var stages []Stage
	if o.Clip {
		stages = append(stages, Clip(o.ClipBox))
	}
	if o.Reproject != nil {
		stages = append(stages, o.Reproject, DropInvalid())
	}
	if o.Transform != (matrix.Matrix{}) && o.Transform != matrix.Identity {
		stages = append(stages, Affine(o.Transform), DropInvalid())
	}
	stages = append(stages,
		Simplify(o.SimplifyTolerance, o.SimplifyAlgorithm),
		Smooth(o.Smooth))
	return Pipeline(stages...)
}
