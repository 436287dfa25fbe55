package placement

import (
	"fmt"
)

// StrategyError indicates an unknown placement strategy or malformed
// simple positions
type StrategyError struct {
	Name      string
	Positions string
	Reason    string
}

func (e *StrategyError) Error() string {
	if e.Positions != "" {
		return fmt.Sprintf("placement %s: positions %q: %s", e.Name, e.Positions, e.Reason)
	}
	return fmt.Sprintf("placement %q: %s", e.Name, e.Reason)
}
