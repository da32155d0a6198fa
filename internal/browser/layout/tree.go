// internal/browser/layout/tree.go
package layout

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// ErrInvalidTree reports a structural defect in a BoxTree handed to the engine.
var ErrInvalidTree = errors.New("layout: invalid box tree")

// -- Layout Tree (Box Tree) --

// BoxID indexes a box inside its BoxTree arena.
type BoxID int

// NoBox is the parent of the root.
const NoBox BoxID = -1

// DisplayMode selects the layout algorithm for a box. The set is closed.
type DisplayMode int

const (
	ModeBlock DisplayMode = iota
	ModeInline
	ModeFlex
	ModeGrid
	ModeReplaced
	ModeText
)

func (m DisplayMode) String() string {
	switch m {
	case ModeBlock:
		return "block"
	case ModeInline:
		return "inline"
	case ModeFlex:
		return "flex"
	case ModeGrid:
		return "grid"
	case ModeReplaced:
		return "replaced"
	case ModeText:
		return "text"
	}
	return fmt.Sprintf("DisplayMode(%d)", int(m))
}

func (m DisplayMode) valid() bool { return m >= ModeBlock && m <= ModeText }

// isLeaf reports whether boxes of this mode must not have children.
func (m DisplayMode) isLeaf() bool { return m == ModeReplaced || m == ModeText }

// ModeForStyle maps the display property of an element box to its layout mode.
func ModeForStyle(s *style.ComputedStyle) DisplayMode {
	switch s.Display {
	case style.DisplayFlex, style.DisplayInlineFlex:
		return ModeFlex
	case style.DisplayGrid, style.DisplayInlineGrid:
		return ModeGrid
	case style.DisplayInline:
		return ModeInline
	}
	return ModeBlock
}

// LayoutBox is one node of the box tree. Geometry is written by the engine;
// everything else is input.
type LayoutBox struct {
	ID       BoxID
	Parent   BoxID
	Children []BoxID
	Mode     DisplayMode
	Style    *style.ComputedStyle

	// Text is the run of a ModeText box, Resource the image key of a ModeReplaced box.
	Text     string
	Resource string
	// Label is an optional name used in snapshots and logs.
	Label string

	Dimensions

	// Baseline is the first baseline, measured from the top of the border box.
	Baseline    float64
	HasBaseline bool

	// Vertical margins as seen by the parent's block flow, including child
	// margins that collapsed through this box's edges.
	marginTop, marginBottom collapsedMargin
	collapsedThrough        bool
}

// Rect returns the border box relative to the parent's border box.
func (b *LayoutBox) Rect() Rect {
	return b.BorderBox()
}

// IsInlineLevel reports whether the box participates in its parent's line boxes.
func (b *LayoutBox) IsInlineLevel() bool {
	switch b.Mode {
	case ModeText, ModeInline:
		return true
	}
	return b.Style != nil && b.Style.Display.IsInlineLevel()
}

// IsOutOfFlow reports whether the box is absolutely or fixed positioned.
func (b *LayoutBox) IsOutOfFlow() bool {
	return b.Style != nil && b.Style.Position.IsOutOfFlow()
}

// isHidden reports display: none.
func (b *LayoutBox) isHidden() bool {
	return b.Mode != ModeText && b.Style != nil && b.Style.Display == style.DisplayNone
}

// BoxTree is an arena of boxes addressed by BoxID. The first box added without
// a parent is the root.
type BoxTree struct {
	boxes []LayoutBox
	root  BoxID
}

// NewBoxTree returns an empty tree.
func NewBoxTree() *BoxTree {
	return &BoxTree{root: NoBox}
}

// Add appends a box under parent and returns its id.
func (t *BoxTree) Add(parent BoxID, mode DisplayMode, s *style.ComputedStyle) BoxID {
	id := BoxID(len(t.boxes))
	t.boxes = append(t.boxes, LayoutBox{ID: id, Parent: parent, Mode: mode, Style: s})
	if parent == NoBox {
		if t.root == NoBox {
			t.root = id
		}
	} else if t.valid(parent) {
		p := &t.boxes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

// AddText appends a text run.
func (t *BoxTree) AddText(parent BoxID, text string, s *style.ComputedStyle) BoxID {
	id := t.Add(parent, ModeText, s)
	t.boxes[id].Text = text
	return id
}

// AddReplaced appends a replaced element whose intrinsic size comes from resource.
func (t *BoxTree) AddReplaced(parent BoxID, resource string, s *style.ComputedStyle) BoxID {
	id := t.Add(parent, ModeReplaced, s)
	t.boxes[id].Resource = resource
	return id
}

// Root returns the root id, or NoBox for an empty tree.
func (t *BoxTree) Root() BoxID { return t.root }

// Len returns the number of boxes.
func (t *BoxTree) Len() int { return len(t.boxes) }

// Box returns the box with the given id, or nil if out of range.
func (t *BoxTree) Box(id BoxID) *LayoutBox {
	if !t.valid(id) {
		return nil
	}
	return &t.boxes[id]
}

func (t *BoxTree) valid(id BoxID) bool {
	return id >= 0 && int(id) < len(t.boxes)
}

// Walk visits the tree in pre-order. Returning false from fn skips the
// children of that box.
func (t *BoxTree) Walk(fn func(b *LayoutBox, depth int) bool) {
	if !t.valid(t.root) {
		return
	}
	var visit func(id BoxID, depth int)
	visit = func(id BoxID, depth int) {
		b := &t.boxes[id]
		if !fn(b, depth) {
			return
		}
		for _, c := range b.Children {
			visit(c, depth+1)
		}
	}
	visit(t.root, 0)
}

// AbsoluteRect returns the border box of id in viewport coordinates.
func (t *BoxTree) AbsoluteRect(id BoxID) Rect {
	b := t.Box(id)
	if b == nil {
		return Rect{}
	}
	r := b.Rect()
	for p := b.Parent; t.valid(p); p = t.boxes[p].Parent {
		origin := t.boxes[p].Rect()
		r = r.Translated(origin.X, origin.Y)
	}
	return r
}

// Validate checks the structural invariants the engine relies on: a single
// root, known display modes, styles present, parent and child links that agree,
// and every box reachable exactly once from the root.
func (t *BoxTree) Validate() error {
	if len(t.boxes) == 0 || !t.valid(t.root) {
		return fmt.Errorf("%w: no root box", ErrInvalidTree)
	}
	if t.boxes[t.root].Parent != NoBox {
		return fmt.Errorf("%w: root box %d has parent %d", ErrInvalidTree, t.root, t.boxes[t.root].Parent)
	}

	for i := range t.boxes {
		b := &t.boxes[i]
		if b.ID != BoxID(i) {
			return fmt.Errorf("%w: box %d carries id %d", ErrInvalidTree, i, b.ID)
		}
		if !b.Mode.valid() {
			return fmt.Errorf("%w: box %d has unknown display mode %d", ErrInvalidTree, i, int(b.Mode))
		}
		if b.Style == nil {
			return fmt.Errorf("%w: box %d has no style", ErrInvalidTree, i)
		}
		if b.Mode.isLeaf() && len(b.Children) > 0 {
			return fmt.Errorf("%w: %s box %d has children", ErrInvalidTree, b.Mode, i)
		}
		if b.Parent != NoBox && !t.valid(b.Parent) {
			return fmt.Errorf("%w: box %d has unknown parent %d", ErrInvalidTree, i, b.Parent)
		}
		for _, c := range b.Children {
			if !t.valid(c) {
				return fmt.Errorf("%w: box %d has unknown child %d", ErrInvalidTree, i, c)
			}
			if t.boxes[c].Parent != b.ID {
				return fmt.Errorf("%w: box %d lists child %d whose parent is %d", ErrInvalidTree, i, c, t.boxes[c].Parent)
			}
		}
	}

	seen := make([]bool, len(t.boxes))
	stack := []BoxID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return fmt.Errorf("%w: box %d is reachable more than once", ErrInvalidTree, id)
		}
		seen[id] = true
		stack = append(stack, t.boxes[id].Children...)
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: box %d is not reachable from the root", ErrInvalidTree, i)
		}
	}
	return nil
}
