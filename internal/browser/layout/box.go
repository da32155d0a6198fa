// internal/browser/layout/box.go
package layout

import (
	"fmt"
	"math"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// Object size used for replaced elements with no natural size.
const (
	defaultReplacedWidth  = 300.0
	defaultReplacedHeight = 150.0
)

// layoutBox sizes the box against c and lays out its subtree. The margin box
// ends up at the parent's origin; the caller moves it with placeMarginBox.
func (p *layoutPass) layoutBox(id BoxID, c constraints) {
	b := p.box(id)
	b.Baseline, b.HasBaseline = 0, false
	b.marginTop, b.marginBottom, b.collapsedThrough = collapsedMargin{}, collapsedMargin{}, false
	if b.Mode == ModeText {
		p.layoutText(b, c)
		return
	}

	p.calculatePaddingAndBorders(b, c.cbWidth)
	p.calculateMargins(b, c.cbWidth)
	b.marginTop, b.marginBottom = marginOf(b.Margin.Top), marginOf(b.Margin.Bottom)

	width := p.resolveContentWidth(b, c)
	if !c.hasWidth && !c.shrinkToFit && c.cbWidth.IsDefinite() {
		p.resolveAutoMargins(b, c.cbWidth.Px(), width)
	}
	b.Content.Width = width

	height, definite := p.definiteContentHeight(b, c, width)
	heightSpace := style.Indefinite()
	if definite {
		heightSpace = style.Definite(height)
	}
	b.placeMarginBox(0, 0)

	var contentHeight float64
	switch b.Mode {
	case ModeBlock, ModeInline:
		contentHeight = p.layoutBlockFlow(b, width, heightSpace)
	case ModeFlex:
		contentHeight = p.layoutFlex(b, c, width, heightSpace)
	case ModeGrid:
		contentHeight = p.layoutGrid(b, c, width, heightSpace)
	case ModeReplaced:
		contentHeight = p.replacedContentHeight(b, width)
	default:
		// Validate rejects unknown modes before any layout starts.
		panic(fmt.Sprintf("layout: box %d has unknown display mode %d", id, int(b.Mode)))
	}

	if !definite {
		height = p.clampSize(b.Style, Vertical, contentHeight, b.InnerStatic(Vertical), c.cbHeight)
	}
	b.Content.Height = height
	if height != 0 {
		b.collapsedThrough = false
	}
}

// -- Box Model Calculations --

func resolveEdges(l style.EdgeLengths, referenceWidth style.AvailableSpace) Edges {
	return Edges{
		Top:    math.Max(0, l.Top.ResolveAgainst(referenceWidth, 0)),
		Right:  math.Max(0, l.Right.ResolveAgainst(referenceWidth, 0)),
		Bottom: math.Max(0, l.Bottom.ResolveAgainst(referenceWidth, 0)),
		Left:   math.Max(0, l.Left.ResolveAgainst(referenceWidth, 0)),
	}
}

// calculatePaddingAndBorders resolves padding and border widths. Percentages
// refer to the containing block width on both axes.
func (p *layoutPass) calculatePaddingAndBorders(b *LayoutBox, referenceWidth style.AvailableSpace) {
	b.Padding = resolveEdges(b.Style.Padding, referenceWidth)
	b.Border = resolveEdges(b.Style.Border, referenceWidth)
}

// calculateMargins resolves margins; auto margins start at 0.
func (p *layoutPass) calculateMargins(b *LayoutBox, referenceWidth style.AvailableSpace) {
	m := b.Style.Margin
	b.Margin = Edges{
		Top:    m.Top.ResolveAgainst(referenceWidth, 0),
		Right:  m.Right.ResolveAgainst(referenceWidth, 0),
		Bottom: m.Bottom.ResolveAgainst(referenceWidth, 0),
		Left:   m.Left.ResolveAgainst(referenceWidth, 0),
	}
}

// resolveAutoMargins lets auto inline margins absorb the space a block-level
// box leaves in its containing block: both auto centers the box.
func (p *layoutPass) resolveAutoMargins(b *LayoutBox, cbWidth, contentWidth float64) {
	left, right := b.Style.Margin.Left.IsAuto(), b.Style.Margin.Right.IsAuto()
	if !left && !right {
		return
	}
	remaining := cbWidth - contentWidth - b.InnerStatic(Horizontal) - b.Margin.Left - b.Margin.Right
	remaining = math.Max(0, remaining)
	switch {
	case left && right:
		b.Margin.Left, b.Margin.Right = remaining/2, remaining/2
	case left:
		b.Margin.Left = remaining
	default:
		b.Margin.Right = remaining
	}
}

// sizeFromLength resolves a width/height property to a content-box size when
// it is definite against avail.
func sizeFromLength(s *style.ComputedStyle, l style.Length, inner float64, avail style.AvailableSpace) (float64, bool) {
	if !l.IsDefinite(avail) {
		return 0, false
	}
	v, _ := l.Resolve(style.ResolutionContext{Available: avail})
	if s.BoxSizing == style.BorderBox {
		v -= inner
	}
	return math.Max(0, v), true
}

// clampSize applies min-*/max-* to a content-box size. An auto minimum is 0.
func (p *layoutPass) clampSize(s *style.ComputedStyle, axis Axis, v, inner float64, avail style.AvailableSpace) float64 {
	if maxV, ok := sizeFromLength(s, s.MaxSize(axis), inner, avail); ok {
		v = math.Min(v, maxV)
	}
	if minV, ok := sizeFromLength(s, s.MinSize(axis), inner, avail); ok {
		v = math.Max(v, minV)
	}
	return math.Max(0, v)
}

// minMaxContent returns the content-box min and max limits along an axis.
func minMaxContent(s *style.ComputedStyle, axis Axis, inner float64, avail style.AvailableSpace) (lo, hi float64) {
	hi = math.Inf(1)
	if v, ok := sizeFromLength(s, s.MaxSize(axis), inner, avail); ok {
		hi = v
	}
	if v, ok := sizeFromLength(s, s.MinSize(axis), inner, avail); ok {
		lo = v
	}
	return lo, math.Max(lo, hi)
}

// resolveContentWidth decides the content-box width: a width forced by the
// parent, then the width property, then fill or fit-content for auto.
func (p *layoutPass) resolveContentWidth(b *LayoutBox, c constraints) float64 {
	s := b.Style
	inner := b.InnerStatic(Horizontal)
	if c.hasWidth {
		return math.Max(0, c.width-inner)
	}

	var w float64
	if v, ok := sizeFromLength(s, s.Width, inner, c.cbWidth); ok {
		w = v
	} else if b.Mode == ModeReplaced {
		w = p.replacedContentWidth(b, c.cbHeight)
	} else {
		avail := c.cbWidth.Or(math.Inf(1)) - b.Margin.Left - b.Margin.Right
		switch s.Width.Unit {
		case style.UnitMinContent:
			w = p.intrinsicWidth(b.ID, MinContentMode) - inner
		case style.UnitMaxContent:
			w = p.intrinsicWidth(b.ID, MaxContentMode) - inner
		default:
			if !c.shrinkToFit && s.Width.Unit != style.UnitFitContent && c.cbWidth.IsDefinite() {
				w = avail - inner
			} else {
				w = p.fitContentWidth(b.ID, avail) - inner
			}
		}
	}
	return p.clampSize(s, Horizontal, w, inner, c.cbWidth)
}

// fitContentWidth is min(max-content, max(min-content, available)) for the
// border box.
func (p *layoutPass) fitContentWidth(id BoxID, available float64) float64 {
	maxW := p.intrinsicWidth(id, MaxContentMode)
	if math.IsInf(available, 1) {
		return maxW
	}
	minW := p.intrinsicWidth(id, MinContentMode)
	return math.Min(maxW, math.Max(minW, available))
}

// definiteContentHeight reports the content-box height when it does not
// depend on the box's content.
func (p *layoutPass) definiteContentHeight(b *LayoutBox, c constraints, contentWidth float64) (float64, bool) {
	s := b.Style
	inner := b.InnerStatic(Vertical)
	if c.hasHeight {
		return math.Max(0, c.height-inner), true
	}
	if v, ok := sizeFromLength(s, s.Height, inner, c.cbHeight); ok {
		return p.clampSize(s, Vertical, v, inner, c.cbHeight), true
	}
	if s.Height.IsAuto() {
		if ratio := p.aspectRatio(b); ratio > 0 {
			return p.clampSize(s, Vertical, contentWidth/ratio, inner, c.cbHeight), true
		}
	}
	return 0, false
}

// aspectRatio returns the preferred width/height ratio: the aspect-ratio
// property, else the natural ratio of a replaced element.
func (p *layoutPass) aspectRatio(b *LayoutBox) float64 {
	if b.Style.AspectRatio > 0 {
		return b.Style.AspectRatio
	}
	if b.Mode == ModeReplaced {
		if w, h, ok := p.imageSize(b); ok && w > 0 && h > 0 {
			return w / h
		}
	}
	return 0
}

// -- Replaced and Text Boxes --

func (p *layoutPass) imageSize(b *LayoutBox) (float64, float64, bool) {
	w, h, ok := p.images.IntrinsicImageSize(b.Resource)
	if !ok {
		return 0, 0, false
	}
	return p.checkValue(b.ID, "image width", w), p.checkValue(b.ID, "image height", h), true
}

// replacedContentWidth is the auto width of a replaced element: derived from
// a definite height through the ratio, else the natural width.
func (p *layoutPass) replacedContentWidth(b *LayoutBox, cbHeight style.AvailableSpace) float64 {
	s := b.Style
	if h, ok := sizeFromLength(s, s.Height, b.InnerStatic(Vertical), cbHeight); ok {
		if ratio := p.aspectRatio(b); ratio > 0 {
			return h * ratio
		}
	}
	if w, _, ok := p.imageSize(b); ok {
		return w
	}
	return defaultReplacedWidth
}

func (p *layoutPass) replacedContentHeight(b *LayoutBox, width float64) float64 {
	if ratio := p.aspectRatio(b); ratio > 0 {
		return width / ratio
	}
	if _, h, ok := p.imageSize(b); ok {
		return h
	}
	return defaultReplacedHeight
}

func fontOf(s *style.ComputedStyle) FontSpec {
	return FontSpec{Family: s.FontFamily, Size: s.FontSize, LineHeight: s.LineHeight, Weight: s.FontWeight}
}

// layoutText sizes a text run. Runs wrap at the forced width, else at the
// containing block width.
func (p *layoutPass) layoutText(b *LayoutBox, c constraints) {
	avail := math.Inf(1)
	if c.hasWidth {
		avail = c.width
	} else if c.cbWidth.IsDefinite() {
		avail = c.cbWidth.Px()
	}
	m := p.measureText(b, avail)

	b.Dimensions = Dimensions{}
	b.Content.Width = m.Width
	if c.hasWidth {
		b.Content.Width = c.width
	}
	b.Content.Height = m.Height
	if c.hasHeight {
		b.Content.Height = c.height
	}
	b.Baseline, b.HasBaseline = m.Baseline, true
}
