package placement

import (
	"fmt"
	"strings"
)

// Direction is a compass position of a label relative to its anchor.
type Direction int

const (
	Exact Direction = iota
	North
	East
	South
	West
	NorthEast
	SouthEast
	NorthWest
	SouthWest
)

var directionNames = [...]string{
	Exact:     "X",
	North:     "N",
	East:      "E",
	South:     "S",
	West:      "W",
	NorthEast: "NE",
	SouthEast: "SE",
	NorthWest: "NW",
	SouthWest: "SW",
}

func (d Direction) String() string {
	if d >= 0 && int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts the abbreviations N, E, S, W, NE, SE, NW, SW and
// X for the exact anchor position.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return Exact, fmt.Errorf("unknown direction: %q", s)
}

// Unit returns the direction as a unit step in screen space, where y grows
// downward: North is (0,-1).
func (d Direction) Unit() (dx, dy float64) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	case NorthEast:
		return 1, -1
	case SouthEast:
		return 1, 1
	case NorthWest:
		return -1, -1
	case SouthWest:
		return -1, 1
	}
	return 0, 0
}
