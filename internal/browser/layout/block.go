// internal/browser/layout/block.go
package layout

import (
	"math"

	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Layout Algorithm (Normal Flow) --

// collapsedMargin is a set of adjoining vertical margins: the largest
// positive one and the most negative one.
type collapsedMargin struct {
	Positive float64
	Negative float64
}

func marginOf(v float64) collapsedMargin {
	var m collapsedMargin
	m.add(v)
	return m
}

func (m *collapsedMargin) add(v float64) {
	if v > 0 {
		m.Positive = math.Max(m.Positive, v)
	} else if v < m.Negative {
		m.Negative = v
	}
}

func (m *collapsedMargin) adjoin(o collapsedMargin) {
	m.Positive = math.Max(m.Positive, o.Positive)
	m.Negative = math.Min(m.Negative, o.Negative)
}

// Resolve is the largest positive margin plus the most negative one.
func (m collapsedMargin) Resolve() float64 {
	return m.Positive + m.Negative
}

// flowContext tracks the block cursor and the margins waiting to collapse.
type flowContext struct {
	CurrentY float64
	Pending  collapsedMargin
}

func (fc *flowContext) CalculateCollapsedMargin() float64 {
	return fc.Pending.Resolve()
}

func (fc *flowContext) ResetMargins() {
	fc.Pending = collapsedMargin{}
}

// flush commits the pending collapsed margin to the cursor.
func (fc *flowContext) flush() {
	fc.CurrentY += fc.CalculateCollapsedMargin()
	fc.ResetMargins()
}

// collapsesWithChildren reports whether b's top and bottom margins adjoin
// those of its first and last in-flow children. Only block boxes in a
// parent's block flow do; anything establishing its own formatting context,
// the root included, keeps child margins inside. Padding or border on a side
// separates the margins on that side, and so does a non-auto height at the
// bottom.
func (p *layoutPass) collapsesWithChildren(b *LayoutBox) (top, bottom bool) {
	if b.Mode != ModeBlock || b.Parent == NoBox || b.IsOutOfFlow() || b.IsInlineLevel() {
		return false, false
	}
	if parent := p.box(b.Parent).Mode; parent != ModeBlock && parent != ModeInline {
		return false, false
	}
	s := b.Style
	top = b.Border.Top == 0 && b.Padding.Top == 0
	bottom = b.Border.Bottom == 0 && b.Padding.Bottom == 0 &&
		s.Height.IsAuto() && (s.MinHeight.IsAuto() || s.MinHeight.Value <= 0)
	return top, bottom
}

// layoutBlockFlow stacks block-level children and wraps runs of inline-level
// children into line boxes. It returns the content height. Margins that
// collapse through b's top or bottom edge move into b.marginTop and
// b.marginBottom for the parent's flow to apply.
func (p *layoutPass) layoutBlockFlow(b *LayoutBox, contentWidth float64, height style.AvailableSpace) float64 {
	x0, y0 := b.contentOffset(Horizontal), b.contentOffset(Vertical)
	fc := &flowContext{}
	cb := constraints{cbWidth: style.Definite(contentWidth), cbHeight: height}

	collapseTop, collapseBottom := p.collapsesWithChildren(b)
	// atTop holds while no content separates the pending margins from b's
	// top edge.
	atTop := collapseTop
	settle := func() {
		if atTop {
			b.marginTop.adjoin(fc.Pending)
			fc.ResetMargins()
			atTop = false
			return
		}
		fc.flush()
	}
	pendingOffset := func() float64 {
		if atTop {
			return 0
		}
		return fc.CalculateCollapsedMargin()
	}

	var run []BoxID
	lines := 0
	flushRun := func() {
		if len(run) == 0 {
			return
		}
		settle()
		lines += p.layoutInlineRun(b, run, contentWidth, x0, y0, fc)
		run = run[:0]
	}

	for _, id := range b.Children {
		child := p.box(id)
		if child.isHidden() {
			p.hideSubtree(id)
			continue
		}
		if child.IsOutOfFlow() {
			// Static position; excluded from the flow.
			p.layoutBox(id, constraints{cbWidth: cb.cbWidth, cbHeight: cb.cbHeight, shrinkToFit: true})
			child.placeMarginBox(x0, y0+fc.CurrentY+pendingOffset())
			continue
		}
		if child.IsInlineLevel() {
			run = append(run, id)
			continue
		}
		flushRun()

		p.layoutBox(id, cb)
		fc.Pending.adjoin(child.marginTop)
		if child.collapsedThrough {
			// An empty box lets the margins on both its sides collapse
			// together with whatever comes next.
			fc.Pending.adjoin(child.marginBottom)
			child.placeMarginBox(x0, y0+fc.CurrentY+pendingOffset()-child.Margin.Top)
			continue
		}
		settle()
		top := fc.CurrentY
		child.placeMarginBox(x0, y0+top-child.Margin.Top)
		if !b.HasBaseline && child.HasBaseline {
			b.Baseline, b.HasBaseline = child.Rect().Y+child.Baseline, true
		}

		fc.CurrentY = top + child.Rect().Height
		fc.ResetMargins()
		fc.Pending.adjoin(child.marginBottom)
	}
	flushRun()

	switch {
	case atTop:
		b.marginTop.adjoin(fc.Pending)
		b.collapsedThrough = collapseBottom
	case collapseBottom:
		b.marginBottom.adjoin(fc.Pending)
	default:
		fc.flush()
	}
	fc.ResetMargins()

	p.logger.Debug("Block flow laid out",
		zap.Int("box", int(b.ID)),
		zap.Int("children", len(b.Children)),
		zap.Int("line_boxes", lines),
		zap.Float64("content_height", fc.CurrentY),
		zap.Bool("collapsed_through", b.collapsedThrough),
	)
	return fc.CurrentY
}

// -- Inline Formatting Context (IFC) and Line Breaking --

type lineBox struct {
	Y, Width, Height float64
	Ascent           float64
	Fragments        []BoxID
}

// layoutInlineRun breaks a run of inline-level boxes into lines greedily. Each
// box is atomic; text runs wrap inside themselves through the text measurer.
// It returns the number of lines.
func (p *layoutPass) layoutInlineRun(b *LayoutBox, run []BoxID, contentWidth, x0, y0 float64, fc *flowContext) int {
	cb := constraints{cbWidth: style.Definite(contentWidth), cbHeight: style.Indefinite(), shrinkToFit: true}

	var lines []*lineBox
	current := &lineBox{Y: fc.CurrentY}
	lines = append(lines, current)
	for _, id := range run {
		p.layoutBox(id, cb)
		w := p.box(id).MarginBox().Width
		if current.Width > 0 && current.Width+w > contentWidth {
			p.calculateLineBoxHeightAndBaseline(current)
			current = &lineBox{Y: current.Y + current.Height}
			lines = append(lines, current)
		}
		p.box(id).placeMarginBox(x0+current.Width, 0)
		current.Fragments = append(current.Fragments, id)
		current.Width += w
	}
	p.calculateLineBoxHeightAndBaseline(current)

	for _, line := range lines {
		for _, id := range line.Fragments {
			frag := p.box(id)
			m := frag.MarginBox()
			frag.placeMarginBox(m.X, y0+line.Y+line.Ascent-fragmentAscent(frag))
		}
	}
	if !b.HasBaseline {
		b.Baseline, b.HasBaseline = y0+lines[0].Y+lines[0].Ascent, true
	}
	fc.CurrentY = current.Y + current.Height
	return len(lines)
}

// fragmentAscent is the distance from the top of the margin box to the
// baseline. Boxes without a baseline sit on it with their bottom margin edge.
func fragmentAscent(frag *LayoutBox) float64 {
	if frag.HasBaseline {
		return frag.Margin.Top + frag.Baseline
	}
	return frag.MarginBox().Height
}

func (p *layoutPass) calculateLineBoxHeightAndBaseline(line *lineBox) {
	ascent, descent := 0.0, 0.0
	for _, id := range line.Fragments {
		frag := p.box(id)
		a := fragmentAscent(frag)
		ascent = math.Max(ascent, a)
		descent = math.Max(descent, frag.MarginBox().Height-a)
	}
	line.Ascent = ascent
	line.Height = ascent + descent
}
