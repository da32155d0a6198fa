//go:build !layoutdebug

// internal/browser/layout/assert_release.go
package layout

import (
	"math"

	"go.uber.org/zap"
)

const debugAssertions = false

// checkValue clamps an oracle result that is NaN, infinite or negative to 0.
func (p *layoutPass) checkValue(id BoxID, what string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		p.logger.Warn("Oracle returned an invalid size, clamping to zero",
			zap.Int("box", int(id)),
			zap.String("value", what),
			zap.Float64("got", v),
		)
		return 0
	}
	return v
}

func (p *layoutPass) assertDeterministic(BoxID, Measurement, Measurement) {}
