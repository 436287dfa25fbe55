package render

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
)

// TileSize is the pixel size of a rendered tile.
const TileSize = 256

// TileOptions controls parallel tile rendering and error handling.
type TileOptions struct {
	// Parallel enables concurrent tile rendering.
	// When true, tiles are rendered by multiple worker goroutines.
	Parallel bool

	// Workers specifies the number of worker goroutines.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors causes rendering to continue when individual tiles fail.
	// When false, the first error stops rendering and is returned.
	SkipErrors bool

	// Progress is an optional callback called after each tile completes.
	Progress func(done, total int)

	// ErrorLog is an optional writer for per-tile error details.
	ErrorLog io.Writer

	// Renderer holds options applied to every tile's renderer. Each tile
	// gets its own collision detector; a detector given here is shared and
	// must not be combined with Parallel.
	Renderer []Option
}

// DefaultTileOptions returns tile options with sensible defaults.
func DefaultTileOptions() TileOptions {
	return TileOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// TileResult is the outcome of one tile.
type TileResult struct {
	Tile  maptile.Tile
	Stats Stats
}

// TileFromXYZ returns the web mercator tile at x, y and zoom z.
func TileFromXYZ(x, y uint32, z int) maptile.Tile {
	return maptile.New(x, y, maptile.Zoom(z))
}

// TileMap derives the map for one tile: the same layers and styles over
// the tile's extent at TileSize pixels.
func TileMap(m *Map, t maptile.Tile) *Map {
	b := t.Bound() // longitude/latitude
	if !IsGeographic(m.srs()) {
		b = orb.Bound{
			Min: project.WGS84.ToMercator(b.Min),
			Max: project.WGS84.ToMercator(b.Max),
		}
	}
	tm := *m
	tm.Extent = b
	tm.Width, tm.Height = TileSize, TileSize
	return &tm
}

// RenderTiles renders tiles of m, each to the backend returned by
// newBackend. Caches passed through the renderer options are shared; each
// tile has its own renderer. Results are returned in tile order.
//
// Example:
//
//	tiles := []maptile.Tile{render.TileFromXYZ(0, 0, 1), render.TileFromXYZ(1, 0, 1)}
//	results, errs := render.RenderTiles(m, tiles, func(maptile.Tile) render.Backend {
//	    return &render.RecordingBackend{}
//	}, render.DefaultTileOptions())
func RenderTiles(m *Map, tiles []maptile.Tile, newBackend func(maptile.Tile) Backend, opts TileOptions) ([]TileResult, []error) {
	if len(tiles) == 0 {
		return nil, nil
	}
	opts.Renderer = append([]Option{WithCaches(NewCaches())}, opts.Renderer...)

	if !opts.Parallel {
		return renderTilesSerial(m, tiles, newBackend, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tiles) {
		workers = len(tiles)
	}

	type tileResult struct {
		index int
		stats Stats
		err   error
	}

	jobs := make(chan int, len(tiles))
	results := make(chan tileResult, len(tiles))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				stats, err := renderTile(m, tiles[index], newBackend, opts)
				results <- tileResult{index: index, stats: stats, err: err}
			}
		}()
	}

	for i := range tiles {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	byIndex := make(map[int]Stats)
	var errs []error
	done := 0
	for result := range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(tiles))
		}
		if result.err != nil {
			err := fmt.Errorf("tile %v: %w", tiles[result.index], result.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error rendering tile: %v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		byIndex[result.index] = result.stats
	}

	out := make([]TileResult, 0, len(byIndex))
	for i, t := range tiles {
		if s, ok := byIndex[i]; ok {
			out = append(out, TileResult{Tile: t, Stats: s})
		}
	}
	return out, errs
}

func renderTilesSerial(m *Map, tiles []maptile.Tile, newBackend func(maptile.Tile) Backend, opts TileOptions) ([]TileResult, []error) {
	out := make([]TileResult, 0, len(tiles))
	var errs []error
	for i, t := range tiles {
		stats, err := renderTile(m, t, newBackend, opts)
		if opts.Progress != nil {
			opts.Progress(i+1, len(tiles))
		}
		if err != nil {
			err := fmt.Errorf("tile %v: %w", t, err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error rendering tile: %v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		out = append(out, TileResult{Tile: t, Stats: stats})
	}
	return out, errs
}

func renderTile(m *Map, t maptile.Tile, newBackend func(maptile.Tile) Backend, opts TileOptions) (Stats, error) {
	r := NewRenderer(newBackend(t), opts.Renderer...)
	return r.Render(TileMap(m, t))
}
