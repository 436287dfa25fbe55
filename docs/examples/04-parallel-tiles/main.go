package main

import (
	"fmt"
	"log"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/render"
	"github.com/beetlebugorg/portrayal/pkg/style"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

func main() {
	dot := symbolizer.New(symbolizer.KindDot)
	cities := feature.NewMemoryDatasource([]*feature.Feature{
		feature.New(1, orb.Point{-74.0, 40.7}, nil),
		feature.New(2, orb.Point{2.35, 48.86}, nil),
		feature.New(3, orb.Point{139.69, 35.69}, nil),
		feature.New(4, orb.Point{151.21, -33.87}, nil),
	})

	m := render.NewMap(render.TileSize, render.TileSize, orb.Bound{Max: orb.Point{1, 1}})
	m.AddStyle("cities", style.New("cities", style.NewRule("all", dot)))
	m.AddLayer(&render.Layer{
		Name:       "cities",
		Styles:     []string{"cities"},
		SRS:        render.SRSGeographic,
		Datasource: cities,
	})

	// Every tile at zoom 2, rendered by a worker pool
	var tiles []maptile.Tile
	for x := uint32(0); x < 4; x++ {
		for y := uint32(0); y < 4; y++ {
			tiles = append(tiles, render.TileFromXYZ(x, y, 2))
		}
	}

	var mu sync.Mutex
	counts := make(map[maptile.Tile]int)
	opts := render.DefaultTileOptions()
	opts.Progress = func(done, total int) {
		if done == total {
			fmt.Printf("rendered %d tiles\n", total)
		}
	}

	results, errs := render.RenderTiles(m, tiles, func(t maptile.Tile) render.Backend {
		return render.BackendFunc(func(*render.Instruction) error {
			mu.Lock()
			counts[t]++
			mu.Unlock()
			return nil
		})
	}, opts)
	if len(errs) > 0 {
		log.Fatal(errs[0])
	}

	for _, res := range results {
		if res.Stats.Drawn > 0 {
			fmt.Printf("tile %d/%d/%d: %d features\n", res.Tile.Z, res.Tile.X, res.Tile.Y, counts[res.Tile])
		}
	}
}
