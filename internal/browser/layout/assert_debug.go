//go:build layoutdebug

// internal/browser/layout/assert_debug.go
package layout

import (
	"fmt"
	"math"
)

const debugAssertions = true

// checkValue panics on an oracle result that is NaN, infinite or negative.
func (p *layoutPass) checkValue(id BoxID, what string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		panic(fmt.Sprintf("layout: oracle returned %s %v for box %d", what, v, id))
	}
	return v
}

// assertDeterministic panics when two measurements of the same input differ.
func (p *layoutPass) assertDeterministic(id BoxID, first, second Measurement) {
	if first != second {
		panic(fmt.Sprintf("layout: non-deterministic measurement of box %d: %+v then %+v", id, first, second))
	}
}
