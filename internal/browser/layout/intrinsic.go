// internal/browser/layout/intrinsic.go
package layout

import (
	"math"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Intrinsic Sizes --

// intrinsicWidth returns the min-content or max-content border-box width of a
// box. It never writes geometry, so it is safe to call on a box mid-layout.
func (p *layoutPass) intrinsicWidth(id BoxID, mode SizingMode) float64 {
	if mode == DefiniteMode {
		mode = MaxContentMode
	}
	key := cacheKey{id: id, kind: kindWidth, mode: mode}
	if m, ok := p.cache.get(key); ok {
		return m.Width
	}
	w := p.computeIntrinsicWidth(id, mode)
	p.cache.put(key, Measurement{Width: w})
	return w
}

func (p *layoutPass) computeIntrinsicWidth(id BoxID, mode SizingMode) float64 {
	b := p.box(id)
	if b.Mode == ModeText {
		avail := math.Inf(1)
		if mode == MinContentMode {
			avail = 0
		}
		return p.measureText(b, avail).Width
	}

	s := b.Style
	indefinite := style.Indefinite()
	padding, border := resolveEdges(s.Padding, indefinite), resolveEdges(s.Border, indefinite)
	inner := padding.Sum(Horizontal) + border.Sum(Horizontal)

	if s.Width.Unit == style.UnitPx {
		v, _ := sizeFromLength(s, s.Width, inner, indefinite)
		return p.clampSize(s, Horizontal, v, inner, indefinite) + inner
	}

	var content float64
	switch b.Mode {
	case ModeReplaced:
		content = p.replacedContentWidth(b, indefinite)
	case ModeBlock, ModeInline:
		content = p.blockIntrinsicWidth(b, mode)
	case ModeFlex:
		content = p.flexIntrinsicWidth(b, mode)
	case ModeGrid:
		content = p.gridIntrinsicWidth(b, mode)
	}
	return p.clampSize(s, Horizontal, content, inner, indefinite) + inner
}

// outerIntrinsicWidth adds the item's fixed inline margins: the contribution
// of a child to its parent's intrinsic width.
func (p *layoutPass) outerIntrinsicWidth(id BoxID, mode SizingMode) float64 {
	b := p.box(id)
	w := p.intrinsicWidth(id, mode)
	if b.Mode == ModeText {
		return w
	}
	m := b.Style.Margin
	return w + m.Left.ResolveAgainst(style.Indefinite(), 0) + m.Right.ResolveAgainst(style.Indefinite(), 0)
}

// inFlowChildren lists the children that take part in their parent's layout.
func (p *layoutPass) inFlowChildren(b *LayoutBox) []BoxID {
	out := make([]BoxID, 0, len(b.Children))
	for _, c := range b.Children {
		cb := p.box(c)
		if cb.isHidden() || cb.IsOutOfFlow() {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *layoutPass) blockIntrinsicWidth(b *LayoutBox, mode SizingMode) float64 {
	best, run := 0.0, 0.0
	for _, c := range p.inFlowChildren(b) {
		w := p.outerIntrinsicWidth(c, mode)
		if p.box(c).IsInlineLevel() {
			if mode == MaxContentMode {
				run += w
			} else {
				best = math.Max(best, w)
			}
			continue
		}
		best = math.Max(best, run)
		run = 0
		best = math.Max(best, w)
	}
	return math.Max(best, run)
}

func (p *layoutPass) flexIntrinsicWidth(b *LayoutBox, mode SizingMode) float64 {
	s := b.Style
	items := p.inFlowChildren(b)
	if len(items) == 0 {
		return 0
	}
	if s.FlexDirection.MainAxis() == Vertical {
		best := 0.0
		for _, c := range items {
			best = math.Max(best, p.outerIntrinsicWidth(c, mode))
		}
		return best
	}
	if mode == MinContentMode && s.FlexWrap != style.FlexNoWrap {
		best := 0.0
		for _, c := range items {
			best = math.Max(best, p.outerIntrinsicWidth(c, mode))
		}
		return best
	}
	sum := s.ColumnGap.ResolveAgainst(style.Indefinite(), 0) * float64(len(items)-1)
	for _, c := range items {
		sum += p.outerIntrinsicWidth(c, mode)
	}
	return sum
}
