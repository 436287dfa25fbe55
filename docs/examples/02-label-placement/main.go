package main

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/render"
	"github.com/beetlebugorg/portrayal/pkg/style"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

func main() {
	// Try north, south, east and west at 12pt, then again at 10pt
	label := symbolizer.New(symbolizer.KindText).
		MustSet(symbolizer.Dy, 6.0)
	if err := label.SetString(symbolizer.Name, "[name]"); err != nil {
		log.Fatal(err)
	}
	label.Text.Strategy = "simple"
	label.Text.Positions = "N,S,E,W,12,10"

	ports := []*feature.Feature{
		feature.New(1, orb.Point{50, 50}, map[string]feature.Value{"name": feature.String("Harbour")}),
		feature.New(2, orb.Point{52, 50}, map[string]feature.Value{"name": feature.String("Marina")}),
		feature.New(3, orb.Point{54, 50}, map[string]feature.Value{"name": feature.String("Quay")}),
	}

	m := render.NewMap(200, 200, orb.Bound{Max: orb.Point{100, 100}})
	m.AddStyle("labels", style.New("labels", style.NewRule("names", label)))
	m.AddLayer(&render.Layer{
		Name:       "ports",
		Styles:     []string{"labels"},
		Datasource: feature.NewMemoryDatasource(ports),
	})

	rec := &render.RecordingBackend{}
	r := render.NewRenderer(rec, render.WithOutcome(func(o render.Outcome) {
		if o.Status == render.Skipped {
			fmt.Printf("feature %d not placed: %s\n", o.FeatureID, o.Reason)
		}
	}))
	if _, err := r.Render(m); err != nil {
		log.Fatal(err)
	}

	for _, ins := range rec.Instructions() {
		fmt.Printf("%-8s at (%.1f, %.1f) size %.0f\n", ins.Text, ins.Position[0], ins.Position[1], ins.Size)
	}
}
