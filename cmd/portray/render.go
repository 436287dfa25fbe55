package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/beetlebugorg/portrayal/pkg/render"
	"github.com/beetlebugorg/portrayal/pkg/stylesheet"
)

type renderOptions struct {
	layers      []string
	bbox        string
	tile        string
	size        string
	scaleFactor float64
	summary     bool
}

func newRenderCommand() *cobra.Command {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render STYLE.yaml",
		Short: "Render layers and print draw instructions as JSON lines",
		Long: `Render runs every layer of the stylesheet over the given extent and
prints one JSON object per draw instruction. A summary goes to stderr.

Layer sources come from the stylesheet, relative to its directory, unless
overridden with --layer name=file.geojson.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], o)
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&o.layers, "layer", "l", nil, "layer datasource as name=file.geojson (repeatable)")
	f.StringVar(&o.bbox, "bbox", "", "extent in map units as minx,miny,maxx,maxy")
	f.StringVar(&o.tile, "tile", "", "render the web mercator tile z/x/y instead of --bbox")
	f.StringVar(&o.size, "size", "256x256", "output size in pixels as WxH")
	f.Float64Var(&o.scaleFactor, "scale-factor", 1, "scale factor for sizes and offsets")
	f.BoolVar(&o.summary, "summary", true, "print a summary to stderr")
	return cmd
}

func runRender(stdout, stderr io.Writer, styleFile string, o *renderOptions) error {
	ss, err := stylesheet.LoadFile(styleFile)
	if err != nil {
		return err
	}

	overrides := make(map[string]feature.Datasource, len(o.layers))
	for _, arg := range o.layers {
		name, file, ok := strings.Cut(arg, "=")
		if !ok || name == "" || file == "" {
			return errors.Errorf("invalid --layer %q, want name=file.geojson", arg)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		ds, err := feature.LoadGeoJSON(data)
		if err != nil {
			return errors.Wrapf(err, "layer %s", name)
		}
		overrides[name] = ds
	}
	sources := stylesheet.Overlay(overrides, stylesheet.FileSources(filepath.Dir(styleFile)))

	width, height, err := parseSize(o.size)
	if err != nil {
		return err
	}

	var m *render.Map
	switch {
	case o.tile != "":
		t, err := parseTile(o.tile)
		if err != nil {
			return err
		}
		base, err := ss.Map(render.TileSize, render.TileSize, orb.Bound{Max: orb.Point{1, 1}}, sources)
		if err != nil {
			return err
		}
		m = render.TileMap(base, t)
	case o.bbox != "":
		extent, err := parseBBox(o.bbox)
		if err != nil {
			return err
		}
		if m, err = ss.Map(width, height, extent, sources); err != nil {
			return err
		}
	default:
		return errors.New("one of --bbox or --tile is required")
	}

	enc := json.NewEncoder(stdout)
	backend := render.BackendFunc(func(ins *render.Instruction) error {
		return enc.Encode(ins)
	})
	r := render.NewRenderer(backend, render.WithScaleFactor(o.scaleFactor))
	stats, err := r.Render(m)
	if err != nil {
		return err
	}
	if o.summary {
		printSummary(stderr, r.ScaleDenominator(m), stats)
	}
	return nil
}

func printSummary(w io.Writer, denominator float64, s render.Stats) {
	fmt.Fprintf(w, "scale 1:%.0f\n", denominator)
	fmt.Fprintf(w, "layers=%d features=%d drawn=%d skipped=%d instructions=%d eval-errors=%d\n",
		s.Layers, s.Features, s.Drawn, s.Skipped, s.Instructions, s.EvalErrors)
	reasons := make([]string, 0, len(s.SkipReasons))
	for r := range s.SkipReasons {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(w, "  skipped %d: %s\n", s.SkipReasons[r], r)
	}
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.Errorf("invalid --size %q, want WxH", s)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, errors.Errorf("invalid --size %q, want WxH", s)
	}
	return w, h, nil
}

func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, errors.Errorf("invalid --bbox %q, want minx,miny,maxx,maxy", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, errors.Wrapf(err, "invalid --bbox %q", s)
		}
		v[i] = f
	}
	if v[2] <= v[0] || v[3] <= v[1] {
		return orb.Bound{}, errors.Errorf("invalid --bbox %q, max must exceed min", s)
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

func parseTile(s string) (maptile.Tile, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return maptile.Tile{}, errors.Errorf("invalid --tile %q, want z/x/y", s)
	}
	z, errZ := strconv.Atoi(parts[0])
	x, errX := strconv.ParseUint(parts[1], 10, 32)
	y, errY := strconv.ParseUint(parts[2], 10, 32)
	if errZ != nil || errX != nil || errY != nil || z < 0 || z > 30 {
		return maptile.Tile{}, errors.Errorf("invalid --tile %q, want z/x/y", s)
	}
	if n := uint64(1) << uint(z); x >= n || y >= n {
		return maptile.Tile{}, errors.Errorf("tile %s outside zoom %d", s, z)
	}
	return render.TileFromXYZ(uint32(x), uint32(y), z), nil
}
