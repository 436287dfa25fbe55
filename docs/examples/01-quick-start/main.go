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
	// One style with a single line rule
	line := symbolizer.New(symbolizer.KindLine).
		MustSet(symbolizer.Stroke, symbolizer.MustParseColor("#3366cc")).
		MustSet(symbolizer.StrokeWidth, 2.0)
	roads := style.New("roads", style.NewRule("all", line))

	ds := feature.NewMemoryDatasource([]*feature.Feature{
		feature.New(1, orb.LineString{{10, 10}, {90, 60}}, nil),
	})

	m := render.NewMap(256, 256, orb.Bound{Max: orb.Point{100, 100}})
	m.AddStyle("roads", roads)
	m.AddLayer(&render.Layer{Name: "roads", Styles: []string{"roads"}, Datasource: ds})

	rec := &render.RecordingBackend{}
	stats, err := render.NewRenderer(rec).Render(m)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Scale: 1:%.0f\n", render.ScaleDenominator(m))
	fmt.Printf("Drawn: %d, skipped: %d\n", stats.Drawn, stats.Skipped)
	for _, ins := range rec.Instructions() {
		fmt.Printf("%s feature %d: %v\n", ins.Kind, ins.FeatureID, ins.Properties)
	}
}
