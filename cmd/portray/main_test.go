package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStyle = `
styles:
  roads:
    rules:
      - name: all
        symbolizers:
          - type: line
            properties:
              stroke-width: 2
layers:
  - name: roads
    styles: [roads]
    source: roads.geojson
`

const testRoads = `{"type":"FeatureCollection","features":[
	{"type":"Feature","geometry":{"type":"LineString","coordinates":[[10,10],[90,10]]},"properties":{}}
]}`

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.yaml"), []byte(testStyle), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roads.geojson"), []byte(testRoads), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheck(t *testing.T) {
	dir := writeFixtures(t)
	out, _, err := execute(t, "check", filepath.Join(dir, "style.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "style roads: 1 rules, filter-mode all")
	assert.Contains(t, out, "layer roads")
	assert.Contains(t, out, ": ok")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("styles:\n  s:\n    filter-mode: any\n"), 0o644))
	_, _, err = execute(t, "check", bad)
	assert.ErrorContains(t, err, "style s")
}

func TestRender(t *testing.T) {
	dir := writeFixtures(t)
	out, summary, err := execute(t, "render", filepath.Join(dir, "style.yaml"),
		"--bbox", "0,0,100,100", "--size", "100x100")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)

	var ins struct {
		Layer string `json:"layer"`
		Kind  string `json:"kind"`
		Path  []struct {
			Points [][2]float64 `json:"points"`
		} `json:"path"`
		Properties map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ins))
	assert.Equal(t, "roads", ins.Layer)
	assert.Equal(t, "line", ins.Kind)
	assert.Equal(t, 2.0, ins.Properties["stroke-width"])
	require.Len(t, ins.Path, 1)
	assert.Equal(t, [][2]float64{{10, 90}, {90, 90}}, ins.Path[0].Points)

	assert.Contains(t, summary, "features=1 drawn=1")
}

func TestRenderLayerOverride(t *testing.T) {
	dir := writeFixtures(t)
	other := filepath.Join(dir, "other.geojson")
	require.NoError(t, os.WriteFile(other, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644))

	out, summary, err := execute(t, "render", filepath.Join(dir, "style.yaml"),
		"--bbox", "0,0,100,100", "--layer", "roads="+other)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
	assert.Contains(t, summary, "features=0")
}

func TestRenderErrors(t *testing.T) {
	dir := writeFixtures(t)
	style := filepath.Join(dir, "style.yaml")
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"render", style}, "--bbox or --tile"},
		{[]string{"render", style, "--bbox", "1,2,3"}, "minx,miny,maxx,maxy"},
		{[]string{"render", style, "--bbox", "5,0,1,1"}, "max must exceed min"},
		{[]string{"render", style, "--bbox", "0,0,1,1", "--size", "big"}, "WxH"},
		{[]string{"render", style, "--tile", "1/2/0"}, "outside zoom"},
		{[]string{"render", style, "--bbox", "0,0,1,1", "--layer", "roads"}, "name=file"},
		{[]string{"render"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		_, _, err := execute(t, tt.args...)
		assert.ErrorContains(t, err, tt.want, "args %v", tt.args)
	}
}

func TestParseHelpers(t *testing.T) {
	b, err := parseBBox("-1, -2, 3, 4")
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{-1, -2}, Max: orb.Point{3, 4}}, b)

	w, h, err := parseSize("640X480")
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	tile, err := parseTile("3/4/5")
	require.NoError(t, err)
	assert.Equal(t, uint32(4), tile.X)
	assert.Equal(t, uint32(5), tile.Y)
	assert.EqualValues(t, 3, tile.Z)
}
