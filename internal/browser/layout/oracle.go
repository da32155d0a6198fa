// internal/browser/layout/oracle.go
package layout

import (
	"math"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// SizingMode selects the width a box is measured at.
type SizingMode int

const (
	MinContentMode SizingMode = iota
	MaxContentMode
	DefiniteMode
)

func (m SizingMode) String() string {
	switch m {
	case MinContentMode:
		return "min-content"
	case MaxContentMode:
		return "max-content"
	}
	return "definite"
}

// MeasureConstraint asks for a box's size. Available is the containing block
// width percentages resolve against; Size is the border-box width for
// DefiniteMode.
type MeasureConstraint struct {
	Available style.AvailableSpace
	Mode      SizingMode
	Size      float64
}

// Measurement is a border-box size plus the first baseline from the top of
// the border box.
type Measurement struct {
	Width, Height float64
	Baseline      float64
	HasBaseline   bool
}

// Measure returns the size of box id under mc. Results are cached for the
// rest of the pass, so identical constraints always yield identical sizes.
//
// Heights come from laying the subtree out at the chosen width. That run
// writes geometry into the subtree; the final layout of the box overwrites it.
func (p *layoutPass) Measure(id BoxID, mc MeasureConstraint) Measurement {
	key := cacheKey{id: id, kind: kindMeasure, mode: mc.Mode}
	key.setAvailable(mc.Available)
	if mc.Mode == DefiniteMode {
		key.size = math.Float64bits(mc.Size)
	}
	if m, ok := p.cache.get(key); ok {
		return m
	}

	m := p.measure(id, mc)
	if debugAssertions {
		p.assertDeterministic(id, m, p.measure(id, mc))
	}
	p.cache.put(key, m)
	return m
}

func (p *layoutPass) measure(id BoxID, mc MeasureConstraint) Measurement {
	var width float64
	switch mc.Mode {
	case MinContentMode, MaxContentMode:
		width = p.intrinsicWidth(id, mc.Mode)
	default:
		width = mc.Size
	}

	c := constraints{cbWidth: mc.Available, cbHeight: style.Indefinite()}.withWidth(width)
	p.layoutBox(id, c)

	b := p.box(id)
	r := b.BorderBox()
	return Measurement{
		Width:       p.checkValue(id, "width", r.Width),
		Height:      p.checkValue(id, "height", r.Height),
		Baseline:    b.Baseline,
		HasBaseline: b.HasBaseline,
	}
}

// measureText runs the text oracle through the cache and sanitizes its output.
func (p *layoutPass) measureText(b *LayoutBox, availableWidth float64) Measurement {
	key := cacheKey{id: b.ID, kind: kindText, size: math.Float64bits(availableWidth)}
	if m, ok := p.cache.get(key); ok {
		return m
	}
	tm := p.text.MeasureText(b.Text, fontOf(b.Style), availableWidth)
	m := Measurement{
		Width:       p.checkValue(b.ID, "text width", tm.Width),
		Height:      p.checkValue(b.ID, "text height", tm.Height),
		Baseline:    p.checkValue(b.ID, "text baseline", tm.Baseline),
		HasBaseline: true,
	}
	p.cache.put(key, m)
	return m
}
