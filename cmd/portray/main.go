// Command portray checks stylesheets and renders GeoJSON layers to draw
// instructions.
//
//	portray check style.yaml
//	portray render style.yaml --layer roads=roads.geojson --bbox -1000,-1000,1000,1000 --size 512x512
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
