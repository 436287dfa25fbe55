package main

import (
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/style"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

func main() {
	motorway := style.NewRule("motorway", symbolizer.New(symbolizer.KindLine).MustSet(symbolizer.StrokeWidth, 4.0))
	motorway.Filter = expr.MustParse("[highway] = 'motorway'")
	motorway.MaxScale = 500000

	primary := style.NewRule("primary", symbolizer.New(symbolizer.KindLine).MustSet(symbolizer.StrokeWidth, 2.0))
	primary.Filter = expr.MustParse("[highway] = 'primary' or [lanes] >= 4")

	other := style.NewRule("other", symbolizer.New(symbolizer.KindLine).MustSet(symbolizer.StrokeWidth, 0.5))
	other.Else = true

	s := style.New("roads", motorway, primary, other)
	if err := s.Validate(); err != nil {
		log.Fatal(err)
	}

	roads := []*feature.Feature{
		feature.New(1, orb.LineString{{0, 0}, {1, 1}}, map[string]feature.Value{
			"highway": feature.String("motorway"), "lanes": feature.Int(6),
		}),
		feature.New(2, orb.LineString{{0, 0}, {1, 1}}, map[string]feature.Value{
			"highway": feature.String("residential"), "lanes": feature.Int(2),
		}),
	}

	for _, mode := range []style.FilterMode{style.FilterAll, style.FilterFirst} {
		s.FilterMode = mode
		for _, denom := range []float64{100000, 1000000} {
			cache := style.NewRuleCache(s, denom)
			for _, f := range roads {
				var names []string
				for _, r := range cache.Match(f, nil) {
					names = append(names, r.Name)
				}
				fmt.Printf("%-5s 1:%-8.0f feature %d -> %v\n", mode, denom, f.ID(), names)
			}
		}
	}
}
