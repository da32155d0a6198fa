package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Test Helpers --

func gridBox(width float64, mods ...func(*style.ComputedStyle)) *style.ComputedStyle {
	return newStyle(style.DisplayGrid, append([]func(*style.ComputedStyle){sized(width, -1)}, mods...)...)
}

func placed(gp style.GridPlacement) func(*style.ComputedStyle) {
	return func(s *style.ComputedStyle) { s.GridPlacement = gp }
}

func spanColumns(n int) func(*style.ComputedStyle) {
	return func(s *style.ComputedStyle) { s.GridPlacement.ColumnEnd = style.SpanLines(n) }
}

func gaps(column, row float64) func(*style.ComputedStyle) {
	return func(s *style.ComputedStyle) {
		s.ColumnGap, s.RowGap = style.Px(column), style.Px(row)
	}
}

// -- Test Cases --

func TestGridLayout_FractionalColumnsWithGap(t *testing.T) {
	tree := NewBoxTree()
	root := tree.Add(NoBox, ModeGrid, gridBox(300, columns(t, "repeat(3, 1fr)"), gaps(10, 0)))
	var items []BoxID
	for i := 0; i < 3; i++ {
		items = append(items, tree.Add(root, ModeBlock, newStyle(style.DisplayBlock)))
	}

	runLayout(t, tree, viewport)

	for i, x := range []float64{0, 103.33, 206.67} {
		r := tree.Box(items[i]).Rect()
		assert.InDelta(t, x, r.X, 0.01, "item %d", i)
		assert.InDelta(t, 93.33, r.Width, 0.01, "item %d", i)
		assert.InDelta(t, 0.0, r.Y, 0.01, "item %d", i)
	}
}

func TestGridLayout_ImplicitAutoRows(t *testing.T) {
	tree := NewBoxTree()
	root := tree.Add(NoBox, ModeGrid, gridBox(200, columns(t, "100px 100px")))
	first := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))
	tree.Add(first, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 10)))
	second := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 30)))
	third := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 20)))

	runLayout(t, tree, viewport)

	assertRect(t, Rect{X: 0, Y: 0, Width: 100, Height: 30}, tree.Box(first).Rect(), "stretched to the row")
	assertRect(t, Rect{X: 100, Y: 0, Width: 100, Height: 30}, tree.Box(second).Rect())
	assertRect(t, Rect{X: 0, Y: 30, Width: 100, Height: 20}, tree.Box(third).Rect())
	assert.InDelta(t, 50.0, tree.Box(root).Rect().Height, 0.01)
}

func TestGridLayout_AutoSizedImplicitTracks(t *testing.T) {
	tree := NewBoxTree()
	root := tree.Add(NoBox, ModeGrid, gridBox(200, columns(t, "100px 100px"), func(s *style.ComputedStyle) {
		s.GridAutoRows = []style.TrackSize{style.Fixed(25)}
	}))
	var items []BoxID
	for i := 0; i < 4; i++ {
		items = append(items, tree.Add(root, ModeBlock, newStyle(style.DisplayBlock)))
	}

	runLayout(t, tree, viewport)

	assertRect(t, Rect{X: 0, Y: 25, Width: 100, Height: 25}, tree.Box(items[2]).Rect())
	assertRect(t, Rect{X: 100, Y: 25, Width: 100, Height: 25}, tree.Box(items[3]).Rect())
	assert.InDelta(t, 50.0, tree.Box(root).Rect().Height, 0.01)
}

func TestGridLayout_AutoRepeat(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		wantWidth float64
	}{
		{name: "Auto Fill Keeps Empty Tracks", template: "repeat(auto-fill, minmax(100px, 1fr))", wantWidth: 105},
		{name: "Auto Fit Collapses Empty Tracks", template: "repeat(auto-fit, minmax(100px, 1fr))", wantWidth: 450},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewBoxTree()
			root := tree.Add(NoBox, ModeGrid, gridBox(450, columns(t, tt.template), gaps(10, 0)))
			item := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))

			runLayout(t, tree, viewport)

			r := tree.Box(item).Rect()
			assert.InDelta(t, 0.0, r.X, 0.01)
			assert.InDelta(t, tt.wantWidth, r.Width, 0.01)
		})
	}
}

func TestGridTracks_AutoRepeatCount(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		available float64
		gap       float64
		wantCount int
		wantLen   int
	}{
		{name: "Fits Four With Gaps", template: "repeat(auto-fill, minmax(100px, 1fr))", available: 450, gap: 10, wantCount: 4, wantLen: 4},
		{name: "At Least One", template: "repeat(auto-fit, minmax(200px, 1fr))", available: 150, wantCount: 1, wantLen: 1},
		{name: "Fixed Tracks Take Space First", template: "50px repeat(auto-fill, 100px) 50px", available: 330, wantCount: 2, wantLen: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewBoxTree()
			root := tree.Add(NoBox, ModeGrid, gridBox(tt.available, columns(t, tt.template)))
			p := newTestPass(t, tree, viewport)

			ts := p.buildTrackSet(tree.Box(root), Horizontal, style.Definite(tt.available), tt.gap)
			assert.Len(t, ts.tracks, tt.wantLen)
			assert.Equal(t, tt.wantLen, ts.explicitCount)
			assert.Equal(t, tt.wantCount, ts.repeatEnd-ts.repeatStart)
		})
	}

	t.Run("Empty Auto Fit Tracks Collapse", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(150, columns(t, "repeat(auto-fit, minmax(200px, 1fr))")))
		p := newTestPass(t, tree, viewport)

		ts := p.buildTrackSet(tree.Box(root), Horizontal, style.Definite(150), 0)
		require.Len(t, ts.tracks, 1)
		ts.collapseEmpty(nil)
		assert.True(t, ts.tracks[0].Collapsed)
		assert.Equal(t, 0, ts.visible())
	})
}

func TestGridLayout_AutoFlow(t *testing.T) {
	tests := []struct {
		name  string
		flow  style.GridAutoFlow
		wantX float64
		wantY float64
	}{
		{name: "Sparse Never Backtracks", flow: style.AutoFlowRow, wantX: 200, wantY: 10},
		{name: "Dense Fills The First Hole", flow: style.AutoFlowRowDense, wantX: 200, wantY: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewBoxTree()
			root := tree.Add(NoBox, ModeGrid, gridBox(300, columns(t, "100px 100px 100px"), func(s *style.ComputedStyle) {
				s.GridAutoFlow = tt.flow
			}))
			a := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 10), spanColumns(2)))
			b := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 10), spanColumns(2)))
			z := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 10)))

			runLayout(t, tree, viewport)

			assertRect(t, Rect{X: 0, Y: 0, Width: 200, Height: 10}, tree.Box(a).Rect())
			assertRect(t, Rect{X: 0, Y: 10, Width: 200, Height: 10}, tree.Box(b).Rect())
			assertRect(t, Rect{X: tt.wantX, Y: tt.wantY, Width: 100, Height: 10}, tree.Box(z).Rect())
		})
	}

	t.Run("Dense Packs Around Fixed Items", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(200, columns(t, "100px 100px"), func(s *style.ComputedStyle) {
			s.GridAutoFlow = style.AutoFlowRowDense
		}))
		fixed := style.GridPlacement{ColumnStart: style.LineAt(1), RowStart: style.LineAt(1)}
		a := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, placed(fixed)))
		b := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))
		c := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, placed(fixed)))

		runLayout(t, tree, viewport)

		assert.Equal(t, tree.Box(a).Rect(), tree.Box(c).Rect(), "explicitly placed items may overlap")
		assert.InDelta(t, 100.0, tree.Box(b).Rect().X, 0.01)
		assert.InDelta(t, 0.0, tree.Box(b).Rect().Y, 0.01)
	})

	t.Run("Column Locked Item Keeps Its Cell", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(200, columns(t, "100px 100px")))
		a := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 10), placed(style.GridPlacement{ColumnStart: style.LineAt(1)})))
		b := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 10), placed(style.GridPlacement{RowStart: style.LineAt(1)})))

		runLayout(t, tree, viewport)

		assertRect(t, Rect{X: 0, Y: 0, Width: 100, Height: 10}, tree.Box(a).Rect())
		assertRect(t, Rect{X: 100, Y: 0, Width: 100, Height: 10}, tree.Box(b).Rect())
		assert.InDelta(t, 10.0, tree.Box(root).Rect().Height, 0.01, "a single row")
	})

	t.Run("Span Before An End Line Stops There", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(300, columns(t, "100px 100px 100px")))
		z := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 10), placed(style.GridPlacement{
			ColumnStart: style.SpanLines(3), ColumnEnd: style.LineAt(2),
		})))

		runLayout(t, tree, viewport)

		assertRect(t, Rect{X: 0, Y: 0, Width: 100, Height: 10}, tree.Box(z).Rect())
	})

	t.Run("Column Flow", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(200, columns(t, "100px 100px"), rows(t, "20px 20px"), func(s *style.ComputedStyle) {
			s.GridAutoFlow = style.AutoFlowColumn
		}))
		var items []BoxID
		for i := 0; i < 3; i++ {
			items = append(items, tree.Add(root, ModeBlock, newStyle(style.DisplayBlock)))
		}

		runLayout(t, tree, viewport)

		assertRect(t, Rect{X: 0, Y: 20, Width: 100, Height: 20}, tree.Box(items[1]).Rect())
		assertRect(t, Rect{X: 100, Y: 0, Width: 100, Height: 20}, tree.Box(items[2]).Rect())
	})
}

func TestGridLayout_LinePlacement(t *testing.T) {
	areas, err := style.ParseTemplateAreas(`"head head" "side main"`)
	require.NoError(t, err)

	tests := []struct {
		name      string
		template  string
		placement style.GridPlacement
		want      Rect
	}{
		{
			name:      "Named Area",
			template:  "100px 200px",
			placement: style.PlacementFromArea("main"),
			want:      Rect{X: 100, Y: 50, Width: 200, Height: 100},
		},
		{
			name:      "Area Spanning Columns",
			template:  "100px 200px",
			placement: style.PlacementFromArea("head"),
			want:      Rect{X: 0, Y: 0, Width: 300, Height: 50},
		},
		{
			name:     "Named Lines",
			template: "[a] 100px [b] 100px [c] 100px",
			placement: style.GridPlacement{
				ColumnStart: style.NamedLine("b"), ColumnEnd: style.NamedLine("c"), RowStart: style.LineAt(2),
			},
			want: Rect{X: 100, Y: 50, Width: 100, Height: 100},
		},
		{
			name:     "Span To A Name",
			template: "[a] 100px [b] 100px [c] 100px",
			placement: style.GridPlacement{
				ColumnStart: style.LineAt(1), ColumnEnd: style.SpanToName("c"), RowStart: style.LineAt(1),
			},
			want: Rect{X: 0, Y: 0, Width: 200, Height: 50},
		},
		{
			name:     "Negative Lines Count From The End",
			template: "100px 100px 100px",
			placement: style.GridPlacement{
				ColumnStart: style.LineAt(-2), ColumnEnd: style.LineAt(-1), RowStart: style.LineAt(1),
			},
			want: Rect{X: 200, Y: 0, Width: 100, Height: 50},
		},
		{
			name:     "Reversed Lines Swap",
			template: "100px 100px 100px",
			placement: style.GridPlacement{
				ColumnStart: style.LineAt(3), ColumnEnd: style.LineAt(1), RowStart: style.LineAt(1),
			},
			want: Rect{X: 0, Y: 0, Width: 200, Height: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewBoxTree()
			root := tree.Add(NoBox, ModeGrid, gridBox(300, columns(t, tt.template), rows(t, "50px 100px"), func(s *style.ComputedStyle) {
				s.GridTemplateAreas = areas
			}))
			item := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, placed(tt.placement)))

			runLayout(t, tree, viewport)

			assertRect(t, tt.want, tree.Box(item).Rect())
		})
	}
}

func TestGridTracks_ResolveSpan(t *testing.T) {
	tree := NewBoxTree()
	root := tree.Add(NoBox, ModeGrid, gridBox(300, columns(t, "[a] 100px [b] 100px [a] 100px")))
	p := newTestPass(t, tree, viewport)
	ts := p.buildTrackSet(tree.Box(root), Horizontal, style.Definite(300), 0)

	tests := []struct {
		name       string
		start, end style.GridLine
		want       gridSpan
	}{
		{name: "Auto", start: style.AutoLine(), end: style.AutoLine(), want: gridSpan{Span: 1}},
		{name: "Auto With Span", start: style.SpanLines(2), end: style.AutoLine(), want: gridSpan{Span: 2}},
		{name: "Start Only", start: style.LineAt(2), end: style.AutoLine(), want: gridSpan{Start: 1, Span: 1, Fixed: true}},
		{name: "Equal Lines", start: style.LineAt(2), end: style.LineAt(2), want: gridSpan{Start: 1, Span: 1, Fixed: true}},
		{name: "End With Span", start: style.SpanLines(2), end: style.LineAt(4), want: gridSpan{Start: 1, Span: 2, Fixed: true}},
		{name: "End Span Past The First Line", start: style.SpanLines(5), end: style.LineAt(2), want: gridSpan{Start: 0, Span: 1, Fixed: true}},
		{name: "End Span Clamped To The End Line", start: style.SpanLines(3), end: style.LineAt(3), want: gridSpan{Start: 0, Span: 2, Fixed: true}},
		{name: "First Matching Name", start: style.NamedLine("a"), end: style.AutoLine(), want: gridSpan{Start: 0, Span: 1, Fixed: true}},
		{name: "Span To Next Name", start: style.LineAt(1), end: style.SpanToName("a"), want: gridSpan{Start: 0, Span: 2, Fixed: true}},
		{name: "Unknown Name Is Auto", start: style.NamedLine("missing"), end: style.AutoLine(), want: gridSpan{Span: 1}},
		{name: "Line Zero Is Auto", start: style.LineAt(0), end: style.AutoLine(), want: gridSpan{Span: 1}},
		{name: "Negative Past The Grid Clamps", start: style.LineAt(-10), end: style.AutoLine(), want: gridSpan{Start: 0, Span: 1, Fixed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ts.resolveSpan(tt.start, tt.end))
		})
	}
}

func TestPlaceGridItems(t *testing.T) {
	item := func(col, row gridSpan) *gridItem {
		return &gridItem{Column: col, Row: row}
	}

	t.Run("Grows Implicit Rows", func(t *testing.T) {
		items := []*gridItem{
			item(gridSpan{Span: 1}, gridSpan{Span: 1}),
			item(gridSpan{Span: 1}, gridSpan{Span: 1}),
			item(gridSpan{Span: 1}, gridSpan{Span: 1}),
		}
		cols, rowCount := placeGridItems(items, style.AutoFlowRow, 2, 0)
		assert.Equal(t, 2, cols)
		assert.Equal(t, 2, rowCount)
		assert.Equal(t, gridSpan{Start: 0, Span: 1}, items[2].Column)
		assert.Equal(t, gridSpan{Start: 1, Span: 1}, items[2].Row)
	})

	t.Run("Wide Items Widen The Grid", func(t *testing.T) {
		items := []*gridItem{item(gridSpan{Span: 3}, gridSpan{Span: 1})}
		cols, rowCount := placeGridItems(items, style.AutoFlowRow, 1, 1)
		assert.Equal(t, 3, cols)
		assert.Equal(t, 1, rowCount)
	})

	t.Run("Row Locked Items Skip Taken Cells", func(t *testing.T) {
		items := []*gridItem{
			item(gridSpan{Start: 0, Span: 1, Fixed: true}, gridSpan{Start: 0, Span: 1, Fixed: true}),
			item(gridSpan{Span: 1}, gridSpan{Start: 0, Span: 1, Fixed: true}),
			item(gridSpan{Span: 1}, gridSpan{Start: 0, Span: 1, Fixed: true}),
		}
		cols, _ := placeGridItems(items, style.AutoFlowRow, 2, 1)
		assert.Equal(t, 1, items[1].Column.Start)
		assert.Equal(t, 2, items[2].Column.Start, "extends past the explicit columns")
		assert.Equal(t, 3, cols)
	})

	t.Run("Column Locked Items Place Before Auto Items", func(t *testing.T) {
		items := []*gridItem{
			item(gridSpan{Span: 1}, gridSpan{Span: 1}),
			item(gridSpan{Start: 0, Span: 1, Fixed: true}, gridSpan{Span: 1}),
		}
		_, rowCount := placeGridItems(items, style.AutoFlowRow, 2, 1)
		assert.Equal(t, gridSpan{Start: 0, Span: 1, Fixed: true}, items[1].Column)
		assert.Equal(t, 0, items[1].Row.Start)
		assert.Equal(t, 1, items[0].Column.Start)
		assert.Equal(t, 0, items[0].Row.Start)
		assert.Equal(t, 1, rowCount)
	})

	t.Run("Column Locked Before Row Locked", func(t *testing.T) {
		for _, flow := range []style.GridAutoFlow{style.AutoFlowRow, style.AutoFlowColumn, style.AutoFlowRowDense} {
			items := []*gridItem{
				item(gridSpan{Start: 0, Span: 1, Fixed: true}, gridSpan{Span: 1}),
				item(gridSpan{Span: 1}, gridSpan{Start: 0, Span: 1, Fixed: true}),
			}
			cols, rowCount := placeGridItems(items, flow, 2, 0)
			assert.Equal(t, 0, items[0].Row.Start, "flow %v", flow)
			assert.Equal(t, 1, items[1].Column.Start, "flow %v", flow)
			assert.Equal(t, 2, cols, "flow %v", flow)
			assert.Equal(t, 1, rowCount, "flow %v", flow)
		}
	})

	t.Run("Sparse Locked Items Continue Their Line", func(t *testing.T) {
		items := []*gridItem{
			item(gridSpan{Start: 1, Span: 1, Fixed: true}, gridSpan{Span: 1}),
			item(gridSpan{Start: 1, Span: 1, Fixed: true}, gridSpan{Span: 1}),
			item(gridSpan{Start: 1, Span: 1, Fixed: true}, gridSpan{Span: 1}),
		}
		_, rowCount := placeGridItems(items, style.AutoFlowRow, 2, 1)
		for i, it := range items {
			assert.Equal(t, i, it.Row.Start)
		}
		assert.Equal(t, 3, rowCount)
	})

	t.Run("Empty Grid Has One Cell", func(t *testing.T) {
		cols, rowCount := placeGridItems(nil, style.AutoFlowRow, 0, 0)
		assert.Equal(t, 1, cols)
		assert.Equal(t, 1, rowCount)
	})
}

func TestGridLayout_IntrinsicTracks(t *testing.T) {
	t.Run("Fit Content Clamps To Its Limit", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(500, columns(t, "fit-content(100px) fit-content(100px)"), func(s *style.ComputedStyle) {
			s.JustifyContent = style.ContentStart
		}))
		long := tree.AddText(root, "aaaaa aaaaa aaaaa aaaaa aaaaa", newStyle(style.DisplayInline))
		short := tree.AddText(root, "aaaaa", newStyle(style.DisplayInline))

		runLayout(t, tree, viewport)

		assert.InDelta(t, 100.0, tree.Box(long).Rect().Width, 0.01)
		assert.InDelta(t, 100.0, tree.Box(short).Rect().X, 0.01)
		assert.InDelta(t, 40.0, tree.Box(short).Rect().Width, 0.01)
	})

	t.Run("Auto Tracks Stretch Into Free Space", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(400, columns(t, "auto auto")))
		a := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))
		b := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))

		runLayout(t, tree, viewport)

		assertRect(t, Rect{X: 0, Y: 0, Width: 200, Height: 0}, tree.Box(a).Rect())
		assertRect(t, Rect{X: 200, Y: 0, Width: 200, Height: 0}, tree.Box(b).Rect())
	})

	t.Run("Start Alignment Keeps Auto Tracks Tight", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(400, columns(t, "auto auto"), func(s *style.ComputedStyle) {
			s.JustifyContent = style.ContentStart
		}))
		a := tree.AddText(root, "abc", newStyle(style.DisplayInline))
		b := tree.AddText(root, "defgh", newStyle(style.DisplayInline))

		runLayout(t, tree, viewport)

		assertRect(t, Rect{X: 0, Y: 0, Width: 24, Height: 20}, tree.Box(a).Rect())
		assertRect(t, Rect{X: 24, Y: 0, Width: 40, Height: 20}, tree.Box(b).Rect())
	})

	t.Run("Shrink To Fit Grid", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeBlock, newStyle(style.DisplayBlock))
		grid := tree.Add(root, ModeGrid, newStyle(style.DisplayInlineGrid, columns(t, "100px 1fr")))
		tree.Add(grid, ModeBlock, newStyle(style.DisplayBlock))
		text := tree.AddText(grid, "abc", newStyle(style.DisplayInline))

		p := newTestPass(t, tree, viewport)
		assert.InDelta(t, 124.0, p.intrinsicWidth(grid, MaxContentMode), 0.01)
		assert.InDelta(t, 124.0, p.intrinsicWidth(grid, MinContentMode), 0.01)

		runLayout(t, tree, viewport)

		assert.InDelta(t, 124.0, tree.Box(grid).Rect().Width, 0.01)
		assert.InDelta(t, 100.0, tree.Box(text).Rect().X, 0.01)
	})
}

func TestGridLayout_Alignment(t *testing.T) {
	tests := []struct {
		name    string
		justify style.ItemAlignment
		align   style.ItemAlignment
		want    Rect
	}{
		{name: "Stretch", justify: style.AlignNormal, align: style.AlignNormal, want: Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{name: "Center", justify: style.AlignCenter, align: style.AlignCenter, want: Rect{X: 25, Y: 40, Width: 50, Height: 20}},
		{name: "End", justify: style.AlignEnd, align: style.AlignEnd, want: Rect{X: 50, Y: 80, Width: 50, Height: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewBoxTree()
			root := tree.Add(NoBox, ModeGrid, gridBox(100, columns(t, "100px"), rows(t, "100px")))
			content := func(s *style.ComputedStyle) {
				if tt.justify != style.AlignNormal {
					s.Width = style.Px(50)
				}
				s.JustifySelf, s.AlignSelf = tt.justify, tt.align
			}
			item := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, content))
			tree.Add(item, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 20)))

			runLayout(t, tree, viewport)

			assertRect(t, tt.want, tree.Box(item).Rect())
		})
	}

	t.Run("Auto Margins Center", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(100, columns(t, "100px"), rows(t, "100px")))
		item := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(40, 40), func(s *style.ComputedStyle) {
			s.Margin = style.Uniform(style.Auto())
		}))

		runLayout(t, tree, viewport)

		assertRect(t, Rect{X: 30, Y: 30, Width: 40, Height: 40}, tree.Box(item).Rect())
	})

	t.Run("Content Distribution", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(300, columns(t, "50px 50px"), func(s *style.ComputedStyle) {
			s.JustifyContent = style.ContentSpaceBetween
		}))
		a := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))
		b := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))

		runLayout(t, tree, viewport)

		assert.InDelta(t, 0.0, tree.Box(a).Rect().X, 0.01)
		assert.InDelta(t, 250.0, tree.Box(b).Rect().X, 0.01)
	})
}

func TestGridLayout_EdgeCases(t *testing.T) {
	t.Run("Empty Grid", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(100, columns(t, "1fr 1fr")))

		runLayout(t, tree, viewport)

		assertRect(t, Rect{X: 0, Y: 0, Width: 100, Height: 0}, tree.Box(root).Rect())
	})

	t.Run("Hidden And Absolute Children Are Not Items", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(200, columns(t, "100px 100px")))
		hidden := tree.Add(root, ModeBlock, newStyle(style.DisplayNone))
		abs := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(10, 10), func(s *style.ComputedStyle) {
			s.Position = style.PositionAbsolute
		}))
		item := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))

		runLayout(t, tree, viewport)

		assert.Equal(t, Rect{}, tree.Box(hidden).Rect())
		assertRect(t, Rect{X: 0, Y: 0, Width: 10, Height: 10}, tree.Box(abs).Rect())
		assert.InDelta(t, 0.0, tree.Box(item).Rect().X, 0.01, "takes the first cell")
	})

	t.Run("Percent Rows Behave As Auto Without A Height", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(100, rows(t, "50%")))
		item := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 30)))

		runLayout(t, tree, viewport)

		assert.InDelta(t, 30.0, tree.Box(item).Rect().Height, 0.01)
		assert.InDelta(t, 30.0, tree.Box(root).Rect().Height, 0.01)
	})

	t.Run("Baseline From The First Row", func(t *testing.T) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeGrid, gridBox(200, columns(t, "100px 100px"), gaps(0, 0), func(s *style.ComputedStyle) {
			s.Padding.Top = style.Px(4)
		}))
		tree.AddText(root, "a", newStyle(style.DisplayInline))

		runLayout(t, tree, viewport)

		r := tree.Box(root)
		assert.True(t, r.HasBaseline)
		assert.InDelta(t, 4+testAscent, r.Baseline, 0.01)
	})
}
