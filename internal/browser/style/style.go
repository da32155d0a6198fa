// internal/browser/style/style.go
package style

// -- Constants and Configuration --

const (
	BaseFontSize      = 16.0 // Default root font size.
	DefaultLineHeight = 1.2  // Default multiplier for 'line-height: normal'.
)

// -- Keyword Enums --

type Display int

const (
	DisplayBlock Display = iota
	DisplayInline
	DisplayInlineBlock
	DisplayFlex
	DisplayInlineFlex
	DisplayGrid
	DisplayInlineGrid
	DisplayNone
)

// IsInlineLevel reports whether the box participates in a line box of its parent.
func (d Display) IsInlineLevel() bool {
	return d == DisplayInline || d == DisplayInlineBlock || d == DisplayInlineFlex || d == DisplayInlineGrid
}

type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
)

// IsOutOfFlow reports whether the box is excluded from in-flow sizing.
func (p Position) IsOutOfFlow() bool {
	return p == PositionAbsolute || p == PositionFixed
}

type BoxSizing int

const (
	ContentBox BoxSizing = iota
	BorderBox
)

type FlexDirection int

const (
	FlexDirectionRow FlexDirection = iota
	FlexDirectionRowReverse
	FlexDirectionColumn
	FlexDirectionColumnReverse
)

// MainAxis returns the physical axis items are laid out along.
func (d FlexDirection) MainAxis() Axis {
	if d == FlexDirectionColumn || d == FlexDirectionColumnReverse {
		return Vertical
	}
	return Horizontal
}

// IsReverse reports whether the main axis runs end to start.
func (d FlexDirection) IsReverse() bool {
	return d == FlexDirectionRowReverse || d == FlexDirectionColumnReverse
}

type FlexWrap int

const (
	FlexNoWrap FlexWrap = iota
	FlexWrapOn
	FlexWrapReverse
)

// ContentAlignment covers justify-content and align-content for flex and grid.
// flex-start/start and flex-end/end collapse to one value each.
type ContentAlignment int

const (
	ContentNormal ContentAlignment = iota
	ContentStart
	ContentEnd
	ContentCenter
	ContentStretch
	ContentSpaceBetween
	ContentSpaceAround
	ContentSpaceEvenly
)

// ItemAlignment covers align-items/self and justify-items/self. AlignAuto is
// only meaningful on the *-self properties.
type ItemAlignment int

const (
	AlignAuto ItemAlignment = iota
	AlignNormal
	AlignStart
	AlignEnd
	AlignCenter
	AlignStretch
	AlignBaseline
)

// Or resolves auto against the parent's *-items value.
func (a ItemAlignment) Or(parent ItemAlignment) ItemAlignment {
	if a == AlignAuto {
		return parent
	}
	return a
}

// -- Computed Style --

// ComputedStyle is the read-only style snapshot a layout box carries. Lengths
// are already absolute (em, rem and viewport units folded into px). MaxWidth
// and MaxHeight use Auto for 'none'.
type ComputedStyle struct {
	Display   Display
	Position  Position
	BoxSizing BoxSizing

	Width, Height       Length
	MinWidth, MinHeight Length
	MaxWidth, MaxHeight Length

	Margin  EdgeLengths
	Padding EdgeLengths
	Border  EdgeLengths

	// AspectRatio is width/height; 0 means auto.
	AspectRatio float64

	FlexDirection FlexDirection
	FlexWrap      FlexWrap
	FlexGrow      float64
	FlexShrink    float64
	FlexBasis     Length

	JustifyContent ContentAlignment
	AlignContent   ContentAlignment
	AlignItems     ItemAlignment
	AlignSelf      ItemAlignment
	JustifyItems   ItemAlignment
	JustifySelf    ItemAlignment

	Order     int
	RowGap    Length
	ColumnGap Length

	GridTemplateColumns GridTemplate
	GridTemplateRows    GridTemplate
	GridAutoColumns     []TrackSize
	GridAutoRows        []TrackSize
	GridAutoFlow        GridAutoFlow
	GridTemplateAreas   *GridTemplateAreas
	GridPlacement       GridPlacement

	FontSize   float64
	LineHeight float64
	FontFamily string
	FontWeight int
}

// DefaultStyle returns the initial values of every property.
func DefaultStyle() *ComputedStyle {
	return &ComputedStyle{
		Display:    DisplayInline,
		Width:      Auto(),
		Height:     Auto(),
		MinWidth:   Auto(),
		MinHeight:  Auto(),
		MaxWidth:   Auto(),
		MaxHeight:  Auto(),
		Margin:     Uniform(Px(0)),
		Padding:    Uniform(Px(0)),
		Border:     Uniform(Px(0)),
		FlexShrink: 1,
		FlexBasis:  Auto(),
		AlignItems: AlignNormal,
		// Self alignments start at auto and defer to the container.
		AlignSelf:    AlignAuto,
		JustifyItems: AlignNormal,
		JustifySelf:  AlignAuto,
		RowGap:       Px(0),
		ColumnGap:    Px(0),
		FontSize:     BaseFontSize,
		LineHeight:   BaseFontSize * DefaultLineHeight,
		FontFamily:   "sans-serif",
		FontWeight:   400,
	}
}

// Clone returns a copy safe to mutate.
func (s *ComputedStyle) Clone() *ComputedStyle {
	c := *s
	c.GridAutoColumns = append([]TrackSize(nil), s.GridAutoColumns...)
	c.GridAutoRows = append([]TrackSize(nil), s.GridAutoRows...)
	return &c
}

// IsFlexContainer reports whether children are laid out as flex items.
func (s *ComputedStyle) IsFlexContainer() bool {
	return s.Display == DisplayFlex || s.Display == DisplayInlineFlex
}

// IsGridContainer reports whether children are laid out as grid items.
func (s *ComputedStyle) IsGridContainer() bool {
	return s.Display == DisplayGrid || s.Display == DisplayInlineGrid
}

// Size returns the preferred size along an axis.
func (s *ComputedStyle) Size(a Axis) Length {
	if a == Horizontal {
		return s.Width
	}
	return s.Height
}

// MinSize returns the min-width or min-height.
func (s *ComputedStyle) MinSize(a Axis) Length {
	if a == Horizontal {
		return s.MinWidth
	}
	return s.MinHeight
}

// MaxSize returns the max-width or max-height (Auto meaning none).
func (s *ComputedStyle) MaxSize(a Axis) Length {
	if a == Horizontal {
		return s.MaxWidth
	}
	return s.MaxHeight
}

// Gap returns the gap between tracks running along the given axis: the
// column gap separates items horizontally.
func (s *ComputedStyle) Gap(a Axis) Length {
	if a == Horizontal {
		return s.ColumnGap
	}
	return s.RowGap
}
