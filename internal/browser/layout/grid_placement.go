// internal/browser/layout/grid_placement.go
package layout

import (
	"sort"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Grid Item Placement --

// gridSpan is a 0-based half-open track range on one axis.
type gridSpan struct {
	Start int
	Span  int
	Fixed bool
}

func (s gridSpan) End() int { return s.Start + s.Span }

// gridItem is the per-pass state of one in-flow grid child.
type gridItem struct {
	id  BoxID
	box *LayoutBox

	Column gridSpan
	Row    gridSpan
	placed bool

	justify, align style.ItemAlignment
}

func (it *gridItem) span(axis Axis) gridSpan {
	if axis == Horizontal {
		return it.Column
	}
	return it.Row
}

// flowAxes returns the span the auto-placement cursor walks along first and
// the one it advances when a line is full.
func (it *gridItem) flowAxes(rowFlow bool) (inner, outer *gridSpan) {
	if rowFlow {
		return &it.Column, &it.Row
	}
	return &it.Row, &it.Column
}

// collectGridItems lists in-flow children in order-modified document order
// with their resolved lines. It does not touch geometry.
func (p *layoutPass) collectGridItems(b *LayoutBox, cols, rows *trackSet) []*gridItem {
	var items []*gridItem
	for _, id := range p.inFlowChildren(b) {
		child := p.box(id)
		gp := child.Style.GridPlacement
		items = append(items, &gridItem{
			id:     id,
			box:    child,
			Column: cols.resolveSpan(gp.ColumnStart, gp.ColumnEnd),
			Row:    rows.resolveSpan(gp.RowStart, gp.RowEnd),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].box.Style.Order < items[j].box.Style.Order
	})
	return items
}

// occupancy records which cells are taken, keyed by (row, column).
type occupancy map[[2]int]struct{}

func (o occupancy) fits(row, col gridSpan) bool {
	for r := row.Start; r < row.End(); r++ {
		for c := col.Start; c < col.End(); c++ {
			if _, taken := o[[2]int{r, c}]; taken {
				return false
			}
		}
	}
	return true
}

func (o occupancy) mark(row, col gridSpan) {
	for r := row.Start; r < row.End(); r++ {
		for c := col.Start; c < col.End(); c++ {
			o[[2]int{r, c}] = struct{}{}
		}
	}
}

// placeGridItems runs grid item placement in four phases: items fixed on
// both axes, items with only a column fixed, items with only a row fixed,
// then the rest with the auto-placement cursor. Dense packing restarts every
// search from the first cell. It returns the column and row counts the items
// need.
func placeGridItems(items []*gridItem, flow style.GridAutoFlow, explicitCols, explicitRows int) (int, int) {
	rowFlow, dense := flow.IsRow(), flow.IsDense()
	occ := make(occupancy)

	for _, it := range items {
		if it.Column.Fixed && it.Row.Fixed {
			occ.mark(it.Row, it.Column)
			it.placed = true
		}
	}

	placeLocked(items, occ, Horizontal, dense)
	placeLocked(items, occ, Vertical, dense)

	explicitInner := explicitCols
	if !rowFlow {
		explicitInner = explicitRows
	}
	width := max(explicitInner, 1)
	for _, it := range items {
		inner, _ := it.flowAxes(rowFlow)
		if it.placed {
			width = max(width, inner.End())
		} else {
			width = max(width, inner.Span)
		}
	}

	fits := func(it *gridItem) bool { return occ.fits(it.Row, it.Column) }
	curOuter, curInner := 0, 0
	for _, it := range items {
		if it.placed {
			continue
		}
		inner, outer := it.flowAxes(rowFlow)
		if dense {
			curOuter, curInner = 0, 0
		}
		for {
			if curInner+inner.Span > width {
				curOuter++
				curInner = 0
				continue
			}
			inner.Start, outer.Start = curInner, curOuter
			if fits(it) {
				break
			}
			curInner++
		}
		occ.mark(it.Row, it.Column)
		it.placed = true
		curOuter, curInner = outer.Start, inner.End()
	}

	cols, rows := explicitCols, explicitRows
	for _, it := range items {
		cols = max(cols, it.Column.End())
		rows = max(rows, it.Row.End())
	}
	return max(cols, 1), max(rows, 1)
}

// placeLocked places the items fixed only along the locked axis, searching
// the other axis for the first free position. Sparse packing continues each
// line from where its previous item ended.
func placeLocked(items []*gridItem, occ occupancy, locked Axis, dense bool) {
	cursor := make(map[int]int)
	for _, it := range items {
		if it.placed {
			continue
		}
		fixed, free := &it.Column, &it.Row
		if locked == Vertical {
			fixed, free = &it.Row, &it.Column
		}
		if !fixed.Fixed || free.Fixed {
			continue
		}
		free.Start = 0
		if !dense {
			free.Start = cursor[fixed.Start]
		}
		for !occ.fits(it.Row, it.Column) {
			free.Start++
		}
		occ.mark(it.Row, it.Column)
		it.placed = true
		cursor[fixed.Start] = free.End()
	}
}
