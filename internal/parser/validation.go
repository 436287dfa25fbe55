package parser

import (
	"sort"

	"github.com/beetlebugorg/portrayal/pkg/feature"
)

// Attributes returns the sorted, de-duplicated attribute names an
// expression reads. Datasources use it to limit the properties they load.
func Attributes(n Node) []string {
	seen := make(map[string]bool)
	Walk(n, func(n Node) bool {
		if a, ok := n.(*Attribute); ok && a.Name != feature.GeometryTypeAttribute {
			seen[a.Name] = true
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variables returns the sorted, de-duplicated runtime variable names an
// expression reads.
func Variables(n Node) []string {
	seen := make(map[string]bool)
	Walk(n, func(n Node) bool {
		if v, ok := n.(*Variable); ok {
			seen[v.Name] = true
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsConstant reports whether n reads no attribute, variable or feature
// geometry, so that its value is the same for every feature.
func IsConstant(n Node) bool {
	constant := true
	Walk(n, func(n Node) bool {
		switch t := n.(type) {
		case *Attribute, *Variable:
			constant = false
		case *Call:
			if t.Name == "intersects" {
				constant = false
			}
		}
		return constant
	})
	return constant
}
