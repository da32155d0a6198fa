package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// flexRow builds a flex container root of the given width with one child per
// style.
func flexRow(width float64, container func(*style.ComputedStyle), items ...*style.ComputedStyle) (*BoxTree, BoxID, []BoxID) {
	tree := NewBoxTree()
	root := tree.Add(NoBox, ModeFlex, newStyle(style.DisplayFlex, sized(width, -1), container))
	ids := make([]BoxID, len(items))
	for i, s := range items {
		ids[i] = tree.Add(root, ModeForStyle(s), s)
	}
	return tree, root, ids
}

func noop(*style.ComputedStyle) {}

func TestFlexboxLayout_JustifyContent(t *testing.T) {
	tests := []struct {
		name    string
		justify style.ContentAlignment
		want    []float64
	}{
		{"Start", style.ContentStart, []float64{0, 100, 200}},
		{"End", style.ContentEnd, []float64{100, 200, 300}},
		{"Center", style.ContentCenter, []float64{50, 150, 250}},
		{"Space Between", style.ContentSpaceBetween, []float64{0, 150, 300}},
		{"Space Around", style.ContentSpaceAround, []float64{100.0 / 6, 100 + 100.0/2, 200 + 100.0*5/6}},
		{"Space Evenly", style.ContentSpaceEvenly, []float64{25, 150, 275}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _, ids := flexRow(400, func(s *style.ComputedStyle) { s.JustifyContent = tt.justify },
				newStyle(style.DisplayBlock, sized(100, 10)),
				newStyle(style.DisplayBlock, sized(100, 10)),
				newStyle(style.DisplayBlock, sized(100, 10)),
			)
			runLayout(t, tree, viewport)
			for i, id := range ids {
				assert.InDelta(t, tt.want[i], tree.Box(id).Rect().X, 0.01, "item %d", i)
			}
		})
	}
}

func TestFlexboxLayout_StretchToLine(t *testing.T) {
	// Items have content heights of 20 and 40 and an auto cross size.
	tree, root, ids := flexRow(400, noop,
		newStyle(style.DisplayBlock, grow(1)),
		newStyle(style.DisplayBlock, grow(1)),
	)
	tree.Add(ids[0], ModeBlock, newStyle(style.DisplayBlock, sized(-1, 20)))
	tree.Add(ids[1], ModeBlock, newStyle(style.DisplayBlock, sized(-1, 40)))

	runLayout(t, tree, viewport)

	assertRect(t, Rect{X: 0, Y: 0, Width: 200, Height: 40}, tree.Box(ids[0]).Rect())
	assertRect(t, Rect{X: 200, Y: 0, Width: 200, Height: 40}, tree.Box(ids[1]).Rect())
	assert.InDelta(t, 40.0, tree.Box(root).Rect().Height, 0.01)
}

func TestFlexboxLayout_AlignItems(t *testing.T) {
	tests := []struct {
		name  string
		align style.ItemAlignment
		wantY float64
		wantH float64
	}{
		{"Start", style.AlignStart, 0, 20},
		{"End", style.AlignEnd, 80, 20},
		{"Center", style.AlignCenter, 40, 20},
		{"Stretch", style.AlignStretch, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _, ids := flexRow(400, func(s *style.ComputedStyle) {
				s.Height = style.Px(100)
				s.AlignItems = tt.align
			}, newStyle(style.DisplayBlock, sized(50, -1)))
			tree.Add(ids[0], ModeBlock, newStyle(style.DisplayBlock, sized(-1, 20)))

			runLayout(t, tree, viewport)

			r := tree.Box(ids[0]).Rect()
			assert.InDelta(t, tt.wantY, r.Y, 0.01)
			assert.InDelta(t, tt.wantH, r.Height, 0.01)
		})
	}

	t.Run("Definite Cross Size Never Stretches", func(t *testing.T) {
		tree, _, ids := flexRow(400, func(s *style.ComputedStyle) { s.Height = style.Px(100) },
			newStyle(style.DisplayBlock, sized(50, 30)))
		runLayout(t, tree, viewport)
		assert.InDelta(t, 30.0, tree.Box(ids[0]).Rect().Height, 0.01)
	})
}

func TestFlexboxLayout_FlexibleLengths(t *testing.T) {
	t.Run("Grow By Factor", func(t *testing.T) {
		tree, _, ids := flexRow(400, noop,
			newStyle(style.DisplayBlock, sized(50, 10), grow(1)),
			newStyle(style.DisplayBlock, sized(50, 10), grow(3)),
		)
		runLayout(t, tree, viewport)
		assert.InDelta(t, 125.0, tree.Box(ids[0]).Rect().Width, 0.01)
		assert.InDelta(t, 275.0, tree.Box(ids[1]).Rect().Width, 0.01)
	})

	t.Run("Shrink Weighted By Base Size", func(t *testing.T) {
		tree, _, ids := flexRow(300, noop,
			newStyle(style.DisplayBlock, sized(200, 10)),
			newStyle(style.DisplayBlock, sized(200, 10)),
		)
		runLayout(t, tree, viewport)
		assert.InDelta(t, 150.0, tree.Box(ids[0]).Rect().Width, 0.01)
		assert.InDelta(t, 150.0, tree.Box(ids[1]).Rect().Width, 0.01)
		assert.InDelta(t, 150.0, tree.Box(ids[1]).Rect().X, 0.01)
	})

	t.Run("Min Violation Freezes Item", func(t *testing.T) {
		tree, _, ids := flexRow(300, noop,
			newStyle(style.DisplayBlock, sized(200, 10), func(s *style.ComputedStyle) { s.MinWidth = style.Px(180) }),
			newStyle(style.DisplayBlock, sized(200, 10)),
		)
		runLayout(t, tree, viewport)
		assert.InDelta(t, 180.0, tree.Box(ids[0]).Rect().Width, 0.01)
		assert.InDelta(t, 120.0, tree.Box(ids[1]).Rect().Width, 0.01)
	})

	t.Run("Max Violation Redistributes", func(t *testing.T) {
		tree, _, ids := flexRow(400, noop,
			newStyle(style.DisplayBlock, sized(0, 10), grow(1), func(s *style.ComputedStyle) { s.MaxWidth = style.Px(100) }),
			newStyle(style.DisplayBlock, sized(0, 10), grow(1)),
		)
		runLayout(t, tree, viewport)
		assert.InDelta(t, 100.0, tree.Box(ids[0]).Rect().Width, 0.01)
		assert.InDelta(t, 300.0, tree.Box(ids[1]).Rect().Width, 0.01)
	})

	t.Run("Content Based Basis", func(t *testing.T) {
		tree, _, ids := flexRow(400, noop, newStyle(style.DisplayBlock))
		tree.AddText(ids[0], "abc defg", newStyle(style.DisplayInline))
		runLayout(t, tree, viewport)
		assert.InDelta(t, 64.0, tree.Box(ids[0]).Rect().Width, 0.01, "max-content of the text")
		assert.InDelta(t, 20.0, tree.Box(ids[0]).Rect().Height, 0.01)
	})
}

func TestFlexboxLayout_Wrap(t *testing.T) {
	item := func() *style.ComputedStyle { return newStyle(style.DisplayBlock, sized(100, 10)) }

	t.Run("Wrap", func(t *testing.T) {
		tree, root, ids := flexRow(250, func(s *style.ComputedStyle) { s.FlexWrap = style.FlexWrapOn }, item(), item(), item())
		runLayout(t, tree, viewport)
		assertRect(t, Rect{X: 100, Y: 0, Width: 100, Height: 10}, tree.Box(ids[1]).Rect())
		assertRect(t, Rect{X: 0, Y: 10, Width: 100, Height: 10}, tree.Box(ids[2]).Rect())
		assert.InDelta(t, 20.0, tree.Box(root).Rect().Height, 0.01)
	})

	t.Run("Wrap Reverse", func(t *testing.T) {
		tree, _, ids := flexRow(250, func(s *style.ComputedStyle) { s.FlexWrap = style.FlexWrapReverse }, item(), item(), item())
		runLayout(t, tree, viewport)
		assert.InDelta(t, 10.0, tree.Box(ids[0]).Rect().Y, 0.01)
		assert.InDelta(t, 0.0, tree.Box(ids[2]).Rect().Y, 0.01)
	})

	t.Run("Align Content Stretch Grows Lines", func(t *testing.T) {
		tree, _, ids := flexRow(250, func(s *style.ComputedStyle) {
			s.FlexWrap = style.FlexWrapOn
			s.Height = style.Px(100)
		}, item(), item(), item())
		runLayout(t, tree, viewport)
		assert.InDelta(t, 50.0, tree.Box(ids[2]).Rect().Y, 0.01)
	})

	t.Run("Column Gap And Row Gap", func(t *testing.T) {
		tree, _, ids := flexRow(250, func(s *style.ComputedStyle) {
			s.FlexWrap = style.FlexWrapOn
			s.ColumnGap = style.Px(30)
			s.RowGap = style.Px(5)
		}, item(), item(), item())
		runLayout(t, tree, viewport)
		assert.InDelta(t, 130.0, tree.Box(ids[1]).Rect().X, 0.01)
		assert.InDelta(t, 15.0, tree.Box(ids[2]).Rect().Y, 0.01)
	})
}

func TestFlexboxLayout_DirectionAndOrder(t *testing.T) {
	t.Run("Row Reverse", func(t *testing.T) {
		tree, _, ids := flexRow(400, func(s *style.ComputedStyle) { s.FlexDirection = style.FlexDirectionRowReverse },
			newStyle(style.DisplayBlock, sized(100, 10)),
			newStyle(style.DisplayBlock, sized(100, 10)),
		)
		runLayout(t, tree, viewport)
		assert.InDelta(t, 300.0, tree.Box(ids[0]).Rect().X, 0.01)
		assert.InDelta(t, 200.0, tree.Box(ids[1]).Rect().X, 0.01)
	})

	t.Run("Column", func(t *testing.T) {
		tree, root, ids := flexRow(300, func(s *style.ComputedStyle) { s.FlexDirection = style.FlexDirectionColumn },
			newStyle(style.DisplayBlock, sized(-1, 50)),
			newStyle(style.DisplayBlock, sized(-1, 70)),
		)
		runLayout(t, tree, viewport)
		assertRect(t, Rect{X: 0, Y: 0, Width: 300, Height: 50}, tree.Box(ids[0]).Rect())
		assertRect(t, Rect{X: 0, Y: 50, Width: 300, Height: 70}, tree.Box(ids[1]).Rect())
		assert.InDelta(t, 120.0, tree.Box(root).Rect().Height, 0.01)
	})

	t.Run("Column Grows Into Definite Height", func(t *testing.T) {
		tree, _, ids := flexRow(300, func(s *style.ComputedStyle) {
			s.FlexDirection = style.FlexDirectionColumn
			s.Height = style.Px(200)
			s.AlignItems = style.AlignStart
		},
			newStyle(style.DisplayBlock, sized(40, 50), grow(1)),
			newStyle(style.DisplayBlock, sized(40, 50)),
		)
		runLayout(t, tree, viewport)
		assert.InDelta(t, 150.0, tree.Box(ids[0]).Rect().Height, 0.01)
		assert.InDelta(t, 150.0, tree.Box(ids[1]).Rect().Y, 0.01)
		assert.InDelta(t, 40.0, tree.Box(ids[1]).Rect().Width, 0.01)
	})

	t.Run("Order", func(t *testing.T) {
		tree, _, ids := flexRow(400, noop,
			newStyle(style.DisplayBlock, sized(100, 10), func(s *style.ComputedStyle) { s.Order = 2 }),
			newStyle(style.DisplayBlock, sized(100, 10), func(s *style.ComputedStyle) { s.Order = 1 }),
		)
		runLayout(t, tree, viewport)
		assert.InDelta(t, 100.0, tree.Box(ids[0]).Rect().X, 0.01)
		assert.InDelta(t, 0.0, tree.Box(ids[1]).Rect().X, 0.01)
	})

	t.Run("Auto Margin Absorbs Free Space", func(t *testing.T) {
		tree, _, ids := flexRow(400, noop,
			newStyle(style.DisplayBlock, sized(100, 10)),
			newStyle(style.DisplayBlock, sized(100, 10), func(s *style.ComputedStyle) { s.Margin.Left = style.Auto() }),
		)
		runLayout(t, tree, viewport)
		assert.InDelta(t, 300.0, tree.Box(ids[1]).Rect().X, 0.01)
	})
}

func TestFlexboxLayout_EdgeCases(t *testing.T) {
	t.Run("Zero Items Collapses To Padding", func(t *testing.T) {
		tree, root, _ := flexRow(100, func(s *style.ComputedStyle) { s.Padding = style.Uniform(style.Px(5)) })
		runLayout(t, tree, viewport)
		assert.InDelta(t, 10.0, tree.Box(root).Rect().Height, 0.01)
	})

	t.Run("Hidden And Absolute Children Are Skipped", func(t *testing.T) {
		tree, _, ids := flexRow(400, noop,
			newStyle(style.DisplayNone, sized(100, 10)),
			newStyle(style.DisplayBlock, sized(100, 10), func(s *style.ComputedStyle) { s.Position = style.PositionAbsolute }),
			newStyle(style.DisplayBlock, sized(100, 10)),
		)
		runLayout(t, tree, viewport)
		assert.Equal(t, Rect{}, tree.Box(ids[0]).Rect())
		assert.InDelta(t, 0.0, tree.Box(ids[2]).Rect().X, 0.01)
	})

	t.Run("Baseline Alignment", func(t *testing.T) {
		tree, root, ids := flexRow(400, func(s *style.ComputedStyle) { s.AlignItems = style.AlignBaseline },
			newStyle(style.DisplayBlock, func(s *style.ComputedStyle) { s.Padding.Top = style.Px(10) }),
			newStyle(style.DisplayBlock),
		)
		tree.AddText(ids[0], "a", newStyle(style.DisplayInline))
		tree.AddText(ids[1], "b", newStyle(style.DisplayInline))

		runLayout(t, tree, viewport)

		first, second := tree.Box(ids[0]), tree.Box(ids[1])
		require.True(t, first.HasBaseline)
		assert.InDelta(t, first.Rect().Y+first.Baseline, second.Rect().Y+second.Baseline, 0.01)
		assert.InDelta(t, 10.0, second.Rect().Y, 0.01)
		assert.InDelta(t, 26.0, tree.Box(root).Baseline, 0.01)
	})
}
