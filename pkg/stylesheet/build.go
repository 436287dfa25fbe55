package stylesheet

import (
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/render"
)

// Sources resolves the datasource of a layer.
type Sources func(LayerConfig) (feature.Datasource, error)

// FileSources reads each layer's source as a GeoJSON file. Relative paths
// are resolved against dir.
func FileSources(dir string) Sources {
	return func(lc LayerConfig) (feature.Datasource, error) {
		if lc.Source == "" {
			return nil, errors.Errorf("layer %s: no source", lc.Name)
		}
		name := lc.Source
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %s", lc.Name)
		}
		ds, err := feature.LoadGeoJSON(data)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %s: %s", lc.Name, name)
		}
		return ds, nil
	}
}

// Overlay returns sources that prefer the given datasources by layer name
// and fall back to next.
func Overlay(byName map[string]feature.Datasource, next Sources) Sources {
	return func(lc LayerConfig) (feature.Datasource, error) {
		if ds, ok := byName[lc.Name]; ok {
			return ds, nil
		}
		if next == nil {
			return nil, errors.Errorf("layer %s: no datasource", lc.Name)
		}
		return next(lc)
	}
}

// Map builds a render map over extent with every stylesheet style and
// layer. Layers are bound to datasources through sources.
func (s *Stylesheet) Map(width, height int, extent orb.Bound, sources Sources) (*render.Map, error) {
	m := render.NewMap(width, height, extent)
	if s.SRS != "" {
		m.SRS = s.SRS
	}
	m.Background = s.Background
	m.Buffer = s.Buffer
	for name, st := range s.Styles {
		m.AddStyle(name, st)
	}
	for _, lc := range s.Layers {
		ds, err := sources(lc)
		if err != nil {
			return nil, err
		}
		m.AddLayer(&render.Layer{
			Name:            lc.Name,
			Styles:          lc.Styles,
			SRS:             lc.SRS,
			MinScale:        lc.MinScale,
			MaxScale:        lc.MaxScale,
			Datasource:      ds,
			ClearLabelCache: lc.ClearLabelCache,
		})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
