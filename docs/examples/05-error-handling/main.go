package main

import (
	"errors"
	"fmt"

	"github.com/beetlebugorg/portrayal/pkg/expr"
	"github.com/beetlebugorg/portrayal/pkg/placement"
	"github.com/beetlebugorg/portrayal/pkg/stylesheet"
	"github.com/beetlebugorg/portrayal/pkg/symbolizer"
)

const broken = `
styles:
  roads:
    rules:
      - name: motorway
        symbolizers:
          - type: line
            properties:
              stroke-width: "[lanes] *"
`

func main() {
	// Configuration errors surface at load time
	_, err := stylesheet.Load([]byte(broken))
	var syntaxErr *expr.SyntaxError
	if errors.As(err, &syntaxErr) {
		fmt.Printf("syntax error at offset %d: %v\n", syntaxErr.Pos, err)
	}

	var propErr *symbolizer.PropertyError
	sym := symbolizer.New(symbolizer.KindPolygon)
	if err := sym.SetByName("fill", "not-a-color"); errors.As(err, &propErr) {
		fmt.Printf("property error: %v\n", propErr)
	}

	var stratErr *placement.StrategyError
	if _, err := placement.NewStrategy(&symbolizer.TextBlock{Strategy: "simple", Positions: "N,-3"}); errors.As(err, &stratErr) {
		fmt.Printf("strategy error: %v\n", stratErr)
	}

	// Evaluation errors fall back to the key default
	if err := sym.SetString(symbolizer.Opacity, "[missing] / 0"); err != nil {
		fmt.Println(err)
	}
	fmt.Println("opacity:", symbolizer.Get(sym, symbolizer.Opacity, nil, nil, 1.0))
}
