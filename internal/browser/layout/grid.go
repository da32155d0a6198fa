// internal/browser/layout/grid.go
package layout

import (
	"math"

	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Grid Layout --

// layoutGrid places and sizes the items of a grid container whose content
// width is known. height is the content height when definite. It returns the
// content height.
func (p *layoutPass) layoutGrid(b *LayoutBox, c constraints, width float64, height style.AvailableSpace) float64 {
	s := b.Style
	x0, y0 := b.contentOffset(Horizontal), b.contentOffset(Vertical)
	for _, id := range b.Children {
		child := p.box(id)
		switch {
		case child.isHidden():
			p.hideSubtree(id)
		case child.IsOutOfFlow():
			p.layoutBox(id, constraints{cbWidth: style.Definite(width), cbHeight: height, shrinkToFit: true})
			child.placeMarginBox(x0, y0)
		}
	}

	colGap := s.ColumnGap.ResolveAgainst(style.Definite(width), 0)
	rowGap := s.RowGap.ResolveAgainst(height, 0)
	cols, rows, items := p.placeGrid(b, style.Definite(width), height, colGap, rowGap)

	colSizer := &trackSizer{
		ts: cols, items: items, available: style.Definite(width), mode: DefiniteMode, align: s.JustifyContent,
		contrib: p.columnContribution,
	}
	colSizer.run()
	cols.position(width, s.JustifyContent)

	rowSizer := &trackSizer{
		ts: rows, items: items, available: height, mode: DefiniteMode, align: s.AlignContent,
		contrib: func(it *gridItem, _ SizingMode) float64 { return p.rowContribution(it, cols) },
	}
	rowSizer.run()

	contentHeight := height.Or(0)
	if !height.IsDefinite() {
		contentHeight = p.clampSize(s, Vertical, rows.totalSize(), b.InnerStatic(Vertical), c.cbHeight)
	}
	rows.position(contentHeight, s.AlignContent)

	jobs := make([]func(), 0, len(items))
	for _, it := range items {
		areaX, areaW := cols.extent(it.Column)
		areaY, areaH := rows.extent(it.Row)
		cc := p.gridItemConstraints(it, areaW, areaH)
		jobs = append(jobs, func() {
			p.layoutBox(it.id, cc)
			p.alignGridItem(it, x0+areaX, y0+areaY, areaW, areaH)
		})
	}
	p.runJobs(jobs)
	p.setGridBaseline(b, items)

	p.logger.Debug("Grid container laid out",
		zap.Int("box", int(b.ID)),
		zap.Int("items", len(items)),
		zap.Int("columns", len(cols.tracks)),
		zap.Int("rows", len(rows.tracks)),
		zap.Float64("content_height", contentHeight),
	)
	return contentHeight
}

// placeGrid builds both track sets, places the items and adds the implicit
// tracks they need.
func (p *layoutPass) placeGrid(b *LayoutBox, width, height style.AvailableSpace, colGap, rowGap float64) (*trackSet, *trackSet, []*gridItem) {
	cols := p.buildTrackSet(b, Horizontal, width, colGap)
	rows := p.buildTrackSet(b, Vertical, height, rowGap)
	items := p.collectGridItems(b, cols, rows)

	colCount, rowCount := placeGridItems(items, b.Style.GridAutoFlow, cols.explicitCount, rows.explicitCount)
	cols.ensure(colCount)
	rows.ensure(rowCount)
	cols.collapseEmpty(items)
	rows.collapseEmpty(items)

	for _, it := range items {
		p.resolveGridSelfAlignment(b.Style, it)
	}
	return cols, rows, items
}

// resolveGridSelfAlignment falls back to the container's *-items values.
// Normal stretches, except replaced boxes which start.
func (p *layoutPass) resolveGridSelfAlignment(container *style.ComputedStyle, it *gridItem) {
	st := it.box.Style
	resolve := func(a style.ItemAlignment) style.ItemAlignment {
		switch a {
		case style.AlignNormal:
			if it.box.Mode == ModeReplaced {
				return style.AlignStart
			}
			return style.AlignStretch
		case style.AlignBaseline:
			return style.AlignStart
		}
		return a
	}
	it.justify = resolve(st.JustifySelf.Or(container.JustifyItems))
	it.align = resolve(st.AlignSelf.Or(container.AlignItems))
}

// gridItemEdges resolves an item's inner and outer edges against its area
// width. Text runs carry none.
func gridItemEdges(it *gridItem, areaW float64) (inner, margin Edges) {
	if it.box.Mode == ModeText {
		return Edges{}, Edges{}
	}
	st := it.box.Style
	cb := style.Definite(areaW)
	padding, border := resolveEdges(st.Padding, cb), resolveEdges(st.Border, cb)
	inner = Edges{
		Top:    padding.Top + border.Top,
		Right:  padding.Right + border.Right,
		Bottom: padding.Bottom + border.Bottom,
		Left:   padding.Left + border.Left,
	}
	margin = Edges{
		Top:    st.Margin.Top.ResolveAgainst(cb, 0),
		Right:  st.Margin.Right.ResolveAgainst(cb, 0),
		Bottom: st.Margin.Bottom.ResolveAgainst(cb, 0),
		Left:   st.Margin.Left.ResolveAgainst(cb, 0),
	}
	return inner, margin
}

// stretches reports whether an item fills its area along axis.
func (it *gridItem) stretches(axis Axis) bool {
	st := it.box.Style
	align := it.justify
	if axis == Vertical {
		align = it.align
	}
	if align != style.AlignStretch || !st.Size(axis).IsAuto() || it.box.Mode == ModeText {
		return false
	}
	start, end := marginIsAuto(st, axis)
	return !start && !end
}

// gridItemWidth is the border-box width an item gets inside an area: its
// width property, the area minus margins when stretched, else fit-content.
func (p *layoutPass) gridItemWidth(it *gridItem, areaW float64) float64 {
	st := it.box.Style
	cb := style.Definite(areaW)
	inner, margin := gridItemEdges(it, areaW)
	pb := inner.Sum(Horizontal)
	avail := areaW - margin.Sum(Horizontal)

	var content float64
	switch {
	case it.box.Mode == ModeText:
		return p.fitContentWidth(it.id, avail)
	case !st.Width.IsAuto() && st.Width.IsDefinite(cb):
		content, _ = sizeFromLength(st, st.Width, pb, cb)
	case st.Width.Unit == style.UnitMinContent:
		content = p.intrinsicWidth(it.id, MinContentMode) - pb
	case st.Width.Unit == style.UnitMaxContent:
		content = p.intrinsicWidth(it.id, MaxContentMode) - pb
	case it.stretches(Horizontal):
		content = avail - pb
	case it.box.Mode == ModeReplaced:
		content = p.replacedContentWidth(it.box, style.Indefinite())
	default:
		content = p.fitContentWidth(it.id, avail) - pb
	}
	return p.clampSize(st, Horizontal, content, pb, cb) + pb
}

// gridItemConstraints fixes the item's width and, when it stretches, its
// height. The area is the containing block.
func (p *layoutPass) gridItemConstraints(it *gridItem, areaW, areaH float64) constraints {
	cc := constraints{cbWidth: style.Definite(areaW), cbHeight: style.Definite(areaH)}
	cc = cc.withWidth(p.gridItemWidth(it, areaW))
	if it.stretches(Vertical) {
		inner, margin := gridItemEdges(it, areaW)
		pb := inner.Sum(Vertical)
		h := p.clampSize(it.box.Style, Vertical, areaH-margin.Sum(Vertical)-pb, pb, cc.cbHeight)
		cc = cc.withHeight(h + pb)
	}
	return cc
}

// columnContribution is an item's outer min-content or max-content width.
func (p *layoutPass) columnContribution(it *gridItem, mode SizingMode) float64 {
	return p.outerIntrinsicWidth(it.id, mode)
}

// rowContribution is an item's outer height once laid out at the width its
// column area gives it.
func (p *layoutPass) rowContribution(it *gridItem, cols *trackSet) float64 {
	_, areaW := cols.extent(it.Column)
	m := p.Measure(it.id, MeasureConstraint{
		Available: style.Definite(areaW),
		Mode:      DefiniteMode,
		Size:      p.gridItemWidth(it, areaW),
	})
	_, margin := gridItemEdges(it, areaW)
	return m.Height + margin.Sum(Vertical)
}

// alignGridItem moves a laid out item into its area. Auto margins take the
// free space before self alignment does.
func (p *layoutPass) alignGridItem(it *gridItem, areaX, areaY, areaW, areaH float64) {
	box := it.box
	mb := box.MarginBox()
	offset := func(axis Axis, align style.ItemAlignment, outer, space float64) float64 {
		if box.Mode != ModeText {
			start, end := marginIsAuto(box.Style, axis)
			switch {
			case start && end:
				align = style.AlignCenter
			case start:
				align = style.AlignEnd
			case end:
				align = style.AlignStart
			}
		}
		return selfOffset(align, outer, space)
	}
	x := areaX + offset(Horizontal, it.justify, mb.Width, areaW)
	y := areaY + offset(Vertical, it.align, mb.Height, areaH)
	box.placeMarginBox(x, y)
}

// setGridBaseline takes the container baseline from the first item in the
// first row that has one.
func (p *layoutPass) setGridBaseline(b *LayoutBox, items []*gridItem) {
	firstRow := math.MaxInt
	for _, it := range items {
		firstRow = min(firstRow, it.Row.Start)
	}
	for _, it := range items {
		if it.Row.Start == firstRow && it.box.HasBaseline {
			b.Baseline, b.HasBaseline = it.box.Rect().Y+it.box.Baseline, true
			return
		}
	}
}

// gridIntrinsicWidth sizes the columns under a min-content or max-content
// constraint. It only reads intrinsic widths, so it writes no geometry.
func (p *layoutPass) gridIntrinsicWidth(b *LayoutBox, mode SizingMode) float64 {
	s := b.Style
	indefinite := style.Indefinite()
	colGap := s.ColumnGap.ResolveAgainst(indefinite, 0)
	rowGap := s.RowGap.ResolveAgainst(indefinite, 0)
	cols, _, items := p.placeGrid(b, indefinite, indefinite, colGap, rowGap)

	sizer := &trackSizer{
		ts: cols, items: items, available: indefinite, mode: mode, align: s.JustifyContent,
		contrib: p.columnContribution,
	}
	sizer.run()
	return cols.totalSize()
}
