package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

func TestBoxTreeConstruction(t *testing.T) {
	tree := NewBoxTree()
	assert.Equal(t, NoBox, tree.Root())
	assert.Nil(t, tree.Box(0))

	root := tree.Add(NoBox, ModeBlock, newStyle(style.DisplayBlock))
	child := tree.Add(root, ModeFlex, newStyle(style.DisplayFlex))
	text := tree.AddText(child, "hi", newStyle(style.DisplayInline))
	img := tree.AddReplaced(child, "photo", newStyle(style.DisplayInline))

	assert.Equal(t, root, tree.Root())
	assert.Equal(t, 4, tree.Len())
	assert.Equal(t, []BoxID{child}, tree.Box(root).Children)
	assert.Equal(t, []BoxID{text, img}, tree.Box(child).Children)
	assert.Equal(t, "hi", tree.Box(text).Text)
	assert.Equal(t, "photo", tree.Box(img).Resource)
	require.NoError(t, tree.Validate())

	var visited []BoxID
	var depths []int
	tree.Walk(func(b *LayoutBox, depth int) bool {
		visited = append(visited, b.ID)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []BoxID{root, child, text, img}, visited)
	assert.Equal(t, []int{0, 1, 2, 2}, depths)

	visited = visited[:0]
	tree.Walk(func(b *LayoutBox, _ int) bool {
		visited = append(visited, b.ID)
		return b.ID != child
	})
	assert.Equal(t, []BoxID{root, child}, visited, "returning false skips the children")
}

func TestModeForStyle(t *testing.T) {
	tests := map[style.Display]DisplayMode{
		style.DisplayBlock:       ModeBlock,
		style.DisplayInlineBlock: ModeBlock,
		style.DisplayInline:      ModeInline,
		style.DisplayFlex:        ModeFlex,
		style.DisplayInlineFlex:  ModeFlex,
		style.DisplayGrid:        ModeGrid,
		style.DisplayInlineGrid:  ModeGrid,
	}
	for display, expected := range tests {
		assert.Equal(t, expected, ModeForStyle(newStyle(display)), "display %d", display)
	}
	assert.Equal(t, "grid", ModeGrid.String())
	assert.Equal(t, "DisplayMode(42)", DisplayMode(42).String())
}

func TestValidate(t *testing.T) {
	build := func() (*BoxTree, BoxID, BoxID) {
		tree := NewBoxTree()
		root := tree.Add(NoBox, ModeBlock, newStyle(style.DisplayBlock))
		child := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock))
		return tree, root, child
	}

	tests := []struct {
		name    string
		corrupt func(tree *BoxTree, root, child BoxID)
		message string
	}{
		{
			name:    "Unknown Display Mode",
			corrupt: func(tree *BoxTree, _, child BoxID) { tree.boxes[child].Mode = DisplayMode(42) },
			message: "unknown display mode",
		},
		{
			name:    "Missing Style",
			corrupt: func(tree *BoxTree, _, child BoxID) { tree.boxes[child].Style = nil },
			message: "has no style",
		},
		{
			name: "Leaf With Children",
			corrupt: func(tree *BoxTree, _, child BoxID) {
				tree.boxes[child].Mode = ModeText
				tree.Add(child, ModeBlock, newStyle(style.DisplayBlock))
			},
			message: "has children",
		},
		{
			name:    "Parent Disagrees",
			corrupt: func(tree *BoxTree, _, child BoxID) { tree.boxes[child].Parent = child },
			message: "whose parent is",
		},
		{
			name: "Child Listed Twice",
			corrupt: func(tree *BoxTree, root, child BoxID) {
				tree.boxes[root].Children = append(tree.boxes[root].Children, child)
			},
			message: "reachable more than once",
		},
		{
			name: "Detached Box",
			corrupt: func(tree *BoxTree, root, _ BoxID) {
				tree.boxes[root].Children = nil
			},
			message: "not reachable",
		},
		{
			name:    "Root With Parent",
			corrupt: func(tree *BoxTree, root, child BoxID) { tree.boxes[root].Parent = child },
			message: "root box",
		},
		{
			name:    "Unknown Child",
			corrupt: func(tree *BoxTree, root, _ BoxID) { tree.boxes[root].Children = append(tree.boxes[root].Children, 99) },
			message: "unknown child",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, root, child := build()
			tt.corrupt(tree, root, child)
			err := tree.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTree)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("Empty Tree", func(t *testing.T) {
		assert.ErrorIs(t, NewBoxTree().Validate(), ErrInvalidTree)
	})

	t.Run("Engine Rejects Invalid Trees", func(t *testing.T) {
		tree, _, child := build()
		tree.boxes[child].Style = nil
		err := newTestEngine(t).Layout(context.Background(), tree, Size{Width: 100, Height: 100})
		assert.ErrorIs(t, err, ErrInvalidTree)
		assert.ErrorIs(t, newTestEngine(t).Layout(context.Background(), nil, Size{}), ErrInvalidTree)
	})
}

func TestAbsoluteRect(t *testing.T) {
	tree := NewBoxTree()
	root := tree.Add(NoBox, ModeBlock, newStyle(style.DisplayBlock, func(s *style.ComputedStyle) {
		s.Padding = style.Uniform(style.Px(10))
	}))
	outer := tree.Add(root, ModeBlock, newStyle(style.DisplayBlock, sized(-1, 40), func(s *style.ComputedStyle) {
		s.Margin.Top = style.Px(5)
		s.Border = style.Uniform(style.Px(2))
	}))
	inner := tree.Add(outer, ModeBlock, newStyle(style.DisplayBlock, sized(50, 10)))

	runLayout(t, tree, Size{Width: 200, Height: 200})

	assertRect(t, Rect{X: 10, Y: 15, Width: 180, Height: 44}, tree.Box(outer).Rect())
	assertRect(t, Rect{X: 2, Y: 2, Width: 50, Height: 10}, tree.Box(inner).Rect(), "relative to the parent border box")
	assertRect(t, Rect{X: 12, Y: 17, Width: 50, Height: 10}, tree.AbsoluteRect(inner))
	assert.Equal(t, Rect{}, tree.AbsoluteRect(42))
}
