// internal/browser/style/values.go
package style

import (
	"fmt"
	"math"
	"strconv"
)

// -- Axes and Available Space --

// Axis identifies the physical dimension a value is resolved against.
type Axis int

const (
	// Horizontal is the inline (width) axis.
	Horizontal Axis = iota
	// Vertical is the block (height) axis.
	Vertical
)

// Cross returns the perpendicular axis.
func (a Axis) Cross() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// AvailableSpace is the size a parent offers along one axis: either a definite
// pixel amount or indefinite (content determined).
type AvailableSpace struct {
	definite bool
	px       float64
}

// Definite returns available space of exactly px pixels. Negative input is clamped to 0.
func Definite(px float64) AvailableSpace {
	if px < 0 || math.IsNaN(px) {
		px = 0
	}
	return AvailableSpace{definite: true, px: px}
}

// Indefinite returns an unknown, content-determined available size.
func Indefinite() AvailableSpace {
	return AvailableSpace{}
}

// IsDefinite reports whether the space is a known pixel amount.
func (a AvailableSpace) IsDefinite() bool { return a.definite }

// Px returns the pixel amount, or 0 for indefinite space.
func (a AvailableSpace) Px() float64 {
	if !a.definite {
		return 0
	}
	return a.px
}

// Or returns the pixel amount, or fallback when indefinite.
func (a AvailableSpace) Or(fallback float64) float64 {
	if !a.definite {
		return fallback
	}
	return a.px
}

// Shrink returns the space reduced by delta, staying definite or indefinite.
func (a AvailableSpace) Shrink(delta float64) AvailableSpace {
	if !a.definite {
		return a
	}
	return Definite(a.px - delta)
}

func (a AvailableSpace) String() string {
	if !a.definite {
		return "indefinite"
	}
	return strconv.FormatFloat(a.px, 'f', -1, 64) + "px"
}

// ResolutionContext carries what a raw length needs to become pixels.
type ResolutionContext struct {
	Available AvailableSpace
	Axis      Axis
}

// -- Lengths --

// LengthUnit tags the variant held by a Length.
type LengthUnit int

const (
	UnitAuto LengthUnit = iota
	UnitPx
	UnitPercent
	UnitMinContent
	UnitMaxContent
	UnitFitContent
)

// Length is a sizing value as it appears on box-model and size properties.
// Font relative and viewport units are folded into px when the style is computed.
type Length struct {
	Value float64
	Unit  LengthUnit
}

// Auto returns the auto keyword.
func Auto() Length { return Length{Unit: UnitAuto} }

// Px returns a fixed pixel length.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPx} }

// Percent returns a percentage length, v in [0,100] for typical values.
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

// MinContent returns the min-content sizing keyword.
func MinContent() Length { return Length{Unit: UnitMinContent} }

// MaxContent returns the max-content sizing keyword.
func MaxContent() Length { return Length{Unit: UnitMaxContent} }

// FitContentSize returns the fit-content sizing keyword.
func FitContentSize() Length { return Length{Unit: UnitFitContent} }

// IsAuto reports whether the length is the auto keyword.
func (l Length) IsAuto() bool { return l.Unit == UnitAuto }

// IsIntrinsic reports whether the length is a content based keyword.
func (l Length) IsIntrinsic() bool {
	return l.Unit == UnitMinContent || l.Unit == UnitMaxContent || l.Unit == UnitFitContent
}

// IsDefinite reports whether the length resolves without content measurement
// given the available space along its axis.
func (l Length) IsDefinite(avail AvailableSpace) bool {
	switch l.Unit {
	case UnitPx:
		return true
	case UnitPercent:
		return avail.IsDefinite()
	default:
		return false
	}
}

// Resolve turns the length into pixels. Percentages against indefinite space
// resolve to 0. Auto and content keywords are reported as unresolved.
func (l Length) Resolve(ctx ResolutionContext) (float64, bool) {
	switch l.Unit {
	case UnitPx:
		return l.Value, true
	case UnitPercent:
		if !ctx.Available.IsDefinite() {
			return 0, true
		}
		return ctx.Available.Px() * l.Value / 100.0, true
	default:
		return 0, false
	}
}

// ResolveOr resolves the length, returning fallback when it is unresolved.
func (l Length) ResolveOr(ctx ResolutionContext, fallback float64) float64 {
	if v, ok := l.Resolve(ctx); ok {
		return v
	}
	return fallback
}

// ResolveAgainst is shorthand for resolving against a definite or indefinite size.
func (l Length) ResolveAgainst(avail AvailableSpace, fallback float64) float64 {
	return l.ResolveOr(ResolutionContext{Available: avail}, fallback)
}

func (l Length) String() string {
	switch l.Unit {
	case UnitAuto:
		return "auto"
	case UnitPx:
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "px"
	case UnitPercent:
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "%"
	case UnitMinContent:
		return "min-content"
	case UnitMaxContent:
		return "max-content"
	case UnitFitContent:
		return "fit-content"
	}
	return fmt.Sprintf("Length(%d)", l.Unit)
}

// EdgeLengths holds the four sides of margin, padding or border widths.
type EdgeLengths struct {
	Top, Right, Bottom, Left Length
}

// Uniform returns the same length on all sides.
func Uniform(l Length) EdgeLengths {
	return EdgeLengths{Top: l, Right: l, Bottom: l, Left: l}
}
