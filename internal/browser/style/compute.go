// internal/browser/style/compute.go
package style

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xkilldash9x/boxlayout/internal/browser/parser"
)

// Computer turns declarations into a ComputedStyle, folding relative units
// into px against its root font size and viewport.
type Computer struct {
	RootFontSize   float64
	ViewportWidth  float64
	ViewportHeight float64
}

// NewComputer returns a Computer for the given viewport.
func NewComputer(viewportWidth, viewportHeight float64) Computer {
	return Computer{RootFontSize: BaseFontSize, ViewportWidth: viewportWidth, ViewportHeight: viewportHeight}
}

// Compute uses a zero viewport and the base root font size.
func Compute(decls []parser.Declaration, parent *ComputedStyle) (*ComputedStyle, error) {
	return NewComputer(0, 0).Compute(decls, parent)
}

// Compute starts from initial values, inherits the font properties from
// parent and applies decls in order. Every declaration that fails to parse is
// reported in the joined error; the returned style is always usable.
func (c Computer) Compute(decls []parser.Declaration, parent *ComputedStyle) (*ComputedStyle, error) {
	s := DefaultStyle()
	if parent != nil {
		s.FontSize = parent.FontSize
		s.FontFamily = parent.FontFamily
		s.FontWeight = parent.FontWeight
		s.LineHeight = parent.FontSize * DefaultLineHeight
	}
	parentFont := s.FontSize

	var errs []error
	record := func(prop parser.Property, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prop, err))
		}
	}

	// font-size first: em lengths in every other property depend on it.
	for _, d := range decls {
		if d.Property != "font-size" {
			continue
		}
		record(d.Property, c.applyFontSize(s, parent, string(d.Value), parentFont))
	}
	s.LineHeight = s.FontSize * DefaultLineHeight

	units := UnitContext{
		FontSize:       s.FontSize,
		RootFontSize:   c.RootFontSize,
		ViewportWidth:  c.ViewportWidth,
		ViewportHeight: c.ViewportHeight,
	}
	for _, d := range decls {
		if d.Property == "font-size" {
			continue
		}
		value := strings.TrimSpace(string(d.Value))
		switch strings.ToLower(value) {
		case "inherit":
			record(d.Property, inheritProperty(s, parent, string(d.Property)))
			continue
		case "initial", "unset":
			record(d.Property, inheritProperty(s, DefaultStyle(), string(d.Property)))
			continue
		}
		record(d.Property, apply(s, string(d.Property), value, units))
	}
	return s, errors.Join(errs...)
}

func (c Computer) applyFontSize(s, parent *ComputedStyle, value string, parentFont float64) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "inherit", "unset":
		if parent != nil {
			s.FontSize = parent.FontSize
		}
		return nil
	case "initial", "medium":
		s.FontSize = BaseFontSize
		return nil
	case "small":
		s.FontSize = 13
		return nil
	case "large":
		s.FontSize = 18
		return nil
	case "x-large":
		s.FontSize = 24
		return nil
	case "smaller":
		s.FontSize = parentFont / 1.2
		return nil
	case "larger":
		s.FontSize = parentFont * 1.2
		return nil
	}
	u := UnitContext{FontSize: parentFont, RootFontSize: c.RootFontSize, ViewportWidth: c.ViewportWidth, ViewportHeight: c.ViewportHeight}
	l, err := ParseLengthIn(value, u)
	if err != nil {
		return err
	}
	switch l.Unit {
	case UnitPx:
		if l.Value < 0 {
			return invalid("negative font-size")
		}
		s.FontSize = l.Value
	case UnitPercent:
		s.FontSize = parentFont * l.Value / 100.0
	default:
		return invalid("font-size %q", value)
	}
	return nil
}

// inheritProperty copies one longhand (or every longhand of a shorthand) from src.
func inheritProperty(s, src *ComputedStyle, prop string) error {
	if src == nil {
		src = DefaultStyle()
	}
	switch prop {
	case "display":
		s.Display = src.Display
	case "position":
		s.Position = src.Position
	case "box-sizing":
		s.BoxSizing = src.BoxSizing
	case "width":
		s.Width = src.Width
	case "height":
		s.Height = src.Height
	case "margin":
		s.Margin = src.Margin
	case "padding":
		s.Padding = src.Padding
	case "line-height":
		s.LineHeight = src.LineHeight
	case "font-family":
		s.FontFamily = src.FontFamily
	case "font-weight":
		s.FontWeight = src.FontWeight
	case "gap":
		s.RowGap, s.ColumnGap = src.RowGap, src.ColumnGap
	case "justify-items":
		s.JustifyItems = src.JustifyItems
	case "align-items":
		s.AlignItems = src.AlignItems
	default:
		return invalid("inherit is not supported for %s", prop)
	}
	return nil
}

// apply sets one declaration on s.
func apply(s *ComputedStyle, prop, value string, u UnitContext) error {
	switch prop {
	case "display":
		return keyword(value, displayKeywords, &s.Display)
	case "position":
		return keyword(value, positionKeywords, &s.Position)
	case "box-sizing":
		return keyword(value, boxSizingKeywords, &s.BoxSizing)

	case "width":
		return sizeLength(value, u, &s.Width)
	case "height":
		return sizeLength(value, u, &s.Height)
	case "min-width":
		return sizeLength(value, u, &s.MinWidth)
	case "min-height":
		return sizeLength(value, u, &s.MinHeight)
	case "max-width":
		return sizeLength(value, u, &s.MaxWidth)
	case "max-height":
		return sizeLength(value, u, &s.MaxHeight)

	case "margin":
		return edges(value, u, true, &s.Margin)
	case "margin-top":
		return edgeSide(value, u, true, &s.Margin.Top)
	case "margin-right":
		return edgeSide(value, u, true, &s.Margin.Right)
	case "margin-bottom":
		return edgeSide(value, u, true, &s.Margin.Bottom)
	case "margin-left":
		return edgeSide(value, u, true, &s.Margin.Left)
	case "padding":
		return edges(value, u, false, &s.Padding)
	case "padding-top":
		return edgeSide(value, u, false, &s.Padding.Top)
	case "padding-right":
		return edgeSide(value, u, false, &s.Padding.Right)
	case "padding-bottom":
		return edgeSide(value, u, false, &s.Padding.Bottom)
	case "padding-left":
		return edgeSide(value, u, false, &s.Padding.Left)
	case "border-width":
		return borderWidths(value, u, &s.Border)
	case "border-top-width":
		return borderWidth(value, u, &s.Border.Top)
	case "border-right-width":
		return borderWidth(value, u, &s.Border.Right)
	case "border-bottom-width":
		return borderWidth(value, u, &s.Border.Bottom)
	case "border-left-width":
		return borderWidth(value, u, &s.Border.Left)
	case "border":
		return borderShorthand(value, u, &s.Border)
	case "aspect-ratio":
		return aspectRatio(value, &s.AspectRatio)

	case "flex-direction":
		return keyword(value, flexDirectionKeywords, &s.FlexDirection)
	case "flex-wrap":
		return keyword(value, flexWrapKeywords, &s.FlexWrap)
	case "flex-flow":
		return flexFlow(s, value)
	case "flex-grow":
		return nonNegative(value, &s.FlexGrow)
	case "flex-shrink":
		return nonNegative(value, &s.FlexShrink)
	case "flex-basis":
		return flexBasis(value, u, &s.FlexBasis)
	case "flex":
		return flexShorthand(s, value, u)
	case "order":
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid("order %q", value)
		}
		s.Order = n
		return nil

	case "justify-content":
		return keyword(value, contentKeywords, &s.JustifyContent)
	case "align-content":
		return keyword(value, contentKeywords, &s.AlignContent)
	case "place-content":
		return pair(value, contentKeywords, &s.AlignContent, &s.JustifyContent)
	case "align-items":
		return keyword(value, itemKeywords, &s.AlignItems)
	case "justify-items":
		return keyword(value, itemKeywords, &s.JustifyItems)
	case "place-items":
		return pair(value, itemKeywords, &s.AlignItems, &s.JustifyItems)
	case "align-self":
		return keyword(value, selfKeywords, &s.AlignSelf)
	case "justify-self":
		return keyword(value, selfKeywords, &s.JustifySelf)
	case "place-self":
		return pair(value, selfKeywords, &s.AlignSelf, &s.JustifySelf)

	case "gap", "grid-gap":
		return gaps(value, u, s)
	case "row-gap", "grid-row-gap":
		return gapLength(value, u, &s.RowGap)
	case "column-gap", "grid-column-gap":
		return gapLength(value, u, &s.ColumnGap)

	case "grid-template-columns":
		return template(value, u, &s.GridTemplateColumns)
	case "grid-template-rows":
		return template(value, u, &s.GridTemplateRows)
	case "grid-template-areas":
		areas, err := ParseTemplateAreas(value)
		if err != nil {
			return err
		}
		s.GridTemplateAreas = areas
		return nil
	case "grid-auto-columns":
		return autoTracks(value, &s.GridAutoColumns)
	case "grid-auto-rows":
		return autoTracks(value, &s.GridAutoRows)
	case "grid-auto-flow":
		flow, err := ParseAutoFlow(value)
		if err != nil {
			return err
		}
		s.GridAutoFlow = flow
		return nil
	case "grid-row-start":
		return line(value, &s.GridPlacement.RowStart)
	case "grid-row-end":
		return line(value, &s.GridPlacement.RowEnd)
	case "grid-column-start":
		return line(value, &s.GridPlacement.ColumnStart)
	case "grid-column-end":
		return line(value, &s.GridPlacement.ColumnEnd)
	case "grid-row":
		return linePair(value, &s.GridPlacement.RowStart, &s.GridPlacement.RowEnd)
	case "grid-column":
		return linePair(value, &s.GridPlacement.ColumnStart, &s.GridPlacement.ColumnEnd)
	case "grid-area":
		return gridArea(value, &s.GridPlacement)

	case "line-height":
		return lineHeight(s, value, u)
	case "font-family":
		s.FontFamily = strings.Trim(strings.TrimSpace(strings.Split(value, ",")[0]), `"'`)
		return nil
	case "font-weight":
		return fontWeight(value, &s.FontWeight)
	}
	// Properties that do not affect layout are ignored.
	return nil
}

// -- Keyword Tables --

var displayKeywords = map[string]Display{
	"block":        DisplayBlock,
	"flow-root":    DisplayBlock,
	"list-item":    DisplayBlock,
	"inline":       DisplayInline,
	"inline-block": DisplayInlineBlock,
	"flex":         DisplayFlex,
	"inline-flex":  DisplayInlineFlex,
	"grid":         DisplayGrid,
	"inline-grid":  DisplayInlineGrid,
	"none":         DisplayNone,
}

var positionKeywords = map[string]Position{
	"static":   PositionStatic,
	"relative": PositionRelative,
	"sticky":   PositionRelative,
	"absolute": PositionAbsolute,
	"fixed":    PositionFixed,
}

var boxSizingKeywords = map[string]BoxSizing{
	"content-box": ContentBox,
	"border-box":  BorderBox,
}

var flexDirectionKeywords = map[string]FlexDirection{
	"row":            FlexDirectionRow,
	"row-reverse":    FlexDirectionRowReverse,
	"column":         FlexDirectionColumn,
	"column-reverse": FlexDirectionColumnReverse,
}

var flexWrapKeywords = map[string]FlexWrap{
	"nowrap":       FlexNoWrap,
	"wrap":         FlexWrapOn,
	"wrap-reverse": FlexWrapReverse,
}

var contentKeywords = map[string]ContentAlignment{
	"normal":        ContentNormal,
	"start":         ContentStart,
	"flex-start":    ContentStart,
	"left":          ContentStart,
	"end":           ContentEnd,
	"flex-end":      ContentEnd,
	"right":         ContentEnd,
	"center":        ContentCenter,
	"stretch":       ContentStretch,
	"space-between": ContentSpaceBetween,
	"space-around":  ContentSpaceAround,
	"space-evenly":  ContentSpaceEvenly,
}

var itemKeywords = map[string]ItemAlignment{
	"normal":         AlignNormal,
	"start":          AlignStart,
	"flex-start":     AlignStart,
	"self-start":     AlignStart,
	"left":           AlignStart,
	"end":            AlignEnd,
	"flex-end":       AlignEnd,
	"self-end":       AlignEnd,
	"right":          AlignEnd,
	"center":         AlignCenter,
	"stretch":        AlignStretch,
	"baseline":       AlignBaseline,
	"first baseline": AlignBaseline,
}

var selfKeywords = func() map[string]ItemAlignment {
	m := map[string]ItemAlignment{"auto": AlignAuto}
	for k, v := range itemKeywords {
		m[k] = v
	}
	return m
}()

func keyword[T any](value string, table map[string]T, dst *T) error {
	v, ok := table[strings.ToLower(strings.Join(strings.Fields(value), " "))]
	if !ok {
		return invalid("unknown keyword %q", value)
	}
	*dst = v
	return nil
}

// pair handles the place-* shorthands: one value sets both, two set align then justify.
func pair[T any](value string, table map[string]T, align, justify *T) error {
	parts := strings.Fields(value)
	if len(parts) == 3 && strings.EqualFold(parts[0], "first") {
		parts = []string{parts[0] + " " + parts[1], parts[2]}
	}
	if len(parts) == 2 && strings.EqualFold(parts[0], "first") {
		parts = []string{parts[0] + " " + parts[1]}
	}
	switch len(parts) {
	case 1:
		if err := keyword(parts[0], table, align); err != nil {
			return err
		}
		*justify = *align
		return nil
	case 2:
		var a, j T
		if err := keyword(parts[0], table, &a); err != nil {
			return err
		}
		if err := keyword(parts[1], table, &j); err != nil {
			return err
		}
		*align, *justify = a, j
		return nil
	}
	return invalid("expected one or two keywords in %q", value)
}

// -- Value Helpers --

func sizeLength(value string, u UnitContext, dst *Length) error {
	l, err := ParseLengthIn(value, u)
	if err != nil {
		return err
	}
	if l.Value < 0 {
		return invalid("negative size %q", value)
	}
	*dst = l
	return nil
}

func edgeSide(value string, u UnitContext, allowAuto bool, dst *Length) error {
	tok, err := single(value)
	if err != nil {
		return err
	}
	l, err := edgeToken(tok, u, allowAuto)
	if err != nil {
		return err
	}
	*dst = l
	return nil
}

func edgeToken(tok parser.Token, u UnitContext, allowAuto bool) (Length, error) {
	if allowAuto && tok.Is("auto") {
		return Auto(), nil
	}
	l, err := lengthPercentage(tok, u)
	if err != nil {
		return Length{}, err
	}
	if !allowAuto && l.Value < 0 {
		return Length{}, invalid("negative padding %s", tok.Text)
	}
	return l, nil
}

// edges expands the 1 to 4 value box shorthands.
func edges(value string, u UnitContext, allowAuto bool, dst *EdgeLengths) error {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	vals := make([]Length, 0, 4)
	for _, tok := range toks {
		l, err := edgeToken(tok, u, allowAuto)
		if err != nil {
			return err
		}
		vals = append(vals, l)
	}
	return expandFour(vals, dst)
}

func expandFour(vals []Length, dst *EdgeLengths) error {
	switch len(vals) {
	case 1:
		*dst = Uniform(vals[0])
	case 2:
		*dst = EdgeLengths{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
	case 3:
		*dst = EdgeLengths{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
	case 4:
		*dst = EdgeLengths{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	default:
		return invalid("expected 1 to 4 values, got %d", len(vals))
	}
	return nil
}

func borderToken(tok parser.Token, u UnitContext) (Length, bool) {
	switch {
	case tok.Is("thin"):
		return Px(1), true
	case tok.Is("medium"):
		return Px(3), true
	case tok.Is("thick"):
		return Px(5), true
	}
	l, err := lengthFromToken(tok, u)
	if err != nil || l.Unit != UnitPx || l.Value < 0 {
		return Length{}, false
	}
	return l, true
}

func borderWidth(value string, u UnitContext, dst *Length) error {
	tok, err := single(value)
	if err != nil {
		return err
	}
	l, ok := borderToken(tok, u)
	if !ok {
		return invalid("border width %q", value)
	}
	*dst = l
	return nil
}

func borderWidths(value string, u UnitContext, dst *EdgeLengths) error {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	vals := make([]Length, 0, 4)
	for _, tok := range toks {
		l, ok := borderToken(tok, u)
		if !ok {
			return invalid("border width %q", tok.Text)
		}
		vals = append(vals, l)
	}
	return expandFour(vals, dst)
}

// borderShorthand only keeps the width part of 'border'. A style of none or
// hidden zeroes the width.
func borderShorthand(value string, u UnitContext, dst *EdgeLengths) error {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	width, none := Px(3), true
	for _, tok := range toks {
		if l, ok := borderToken(tok, u); ok {
			width = l
			continue
		}
		switch {
		case tok.Is("none"), tok.Is("hidden"):
			none = true
		case tok.Kind == parser.TokenIdent:
			switch tok.Text {
			case "solid", "dashed", "dotted", "double", "groove", "ridge", "inset", "outset":
				none = false
			}
		}
	}
	if none {
		width = Px(0)
	}
	*dst = Uniform(width)
	return nil
}

func aspectRatio(value string, dst *float64) error {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	switch {
	case len(toks) == 1 && toks[0].Is("auto"):
		*dst = 0
		return nil
	case len(toks) == 1 && toks[0].Kind == parser.TokenNumber && toks[0].Number > 0:
		*dst = toks[0].Number
		return nil
	case len(toks) == 3 && toks[0].Kind == parser.TokenNumber && toks[1].Kind == parser.TokenSlash &&
		toks[2].Kind == parser.TokenNumber && toks[0].Number > 0 && toks[2].Number > 0:
		*dst = toks[0].Number / toks[2].Number
		return nil
	}
	return invalid("aspect-ratio %q", value)
}

func nonNegative(value string, dst *float64) error {
	tok, err := single(value)
	if err != nil {
		return err
	}
	if tok.Kind != parser.TokenNumber || tok.Number < 0 {
		return invalid("expected a non-negative number, got %q", value)
	}
	*dst = tok.Number
	return nil
}

func flexBasis(value string, u UnitContext, dst *Length) error {
	tok, err := single(value)
	if err != nil {
		return err
	}
	if tok.Is("content") {
		*dst = MaxContent()
		return nil
	}
	l, err := lengthFromToken(tok, u)
	if err != nil {
		return err
	}
	if l.Value < 0 {
		return invalid("negative flex-basis")
	}
	*dst = l
	return nil
}

func flexFlow(s *ComputedStyle, value string) error {
	dir, wrap := FlexDirectionRow, FlexNoWrap
	for _, w := range strings.Fields(strings.ToLower(value)) {
		if d, ok := flexDirectionKeywords[w]; ok {
			dir = d
			continue
		}
		if wr, ok := flexWrapKeywords[w]; ok {
			wrap = wr
			continue
		}
		return invalid("flex-flow %q", value)
	}
	s.FlexDirection, s.FlexWrap = dir, wrap
	return nil
}

// flexShorthand follows the CSS rules: a lone number sets grow with a 0%
// basis, a lone length sets the basis with grow 1.
func flexShorthand(s *ComputedStyle, value string, u UnitContext) error {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if len(toks) == 1 {
		switch {
		case toks[0].Is("none"):
			s.FlexGrow, s.FlexShrink, s.FlexBasis = 0, 0, Auto()
			return nil
		case toks[0].Is("auto"):
			s.FlexGrow, s.FlexShrink, s.FlexBasis = 1, 1, Auto()
			return nil
		case toks[0].Is("initial"):
			s.FlexGrow, s.FlexShrink, s.FlexBasis = 0, 1, Auto()
			return nil
		}
	}

	grow, shrink, basis := 1.0, 1.0, Percent(0)
	var numbers []float64
	sawBasis := false
	for _, tok := range toks {
		if tok.Kind == parser.TokenNumber && len(numbers) < 2 {
			if tok.Number < 0 {
				return invalid("negative flex factor")
			}
			numbers = append(numbers, tok.Number)
			continue
		}
		if sawBasis {
			return invalid("flex %q", value)
		}
		if tok.Is("content") {
			basis = MaxContent()
		} else {
			l, err := lengthFromToken(tok, u)
			if err != nil {
				return err
			}
			basis = l
		}
		sawBasis = true
	}
	switch len(numbers) {
	case 0:
		if !sawBasis {
			return invalid("flex %q", value)
		}
	case 1:
		grow = numbers[0]
	case 2:
		grow, shrink = numbers[0], numbers[1]
	default:
		return invalid("flex %q", value)
	}
	s.FlexGrow, s.FlexShrink, s.FlexBasis = grow, shrink, basis
	return nil
}

func gapLength(value string, u UnitContext, dst *Length) error {
	tok, err := single(value)
	if err != nil {
		return err
	}
	if tok.Is("normal") {
		*dst = Px(0)
		return nil
	}
	l, err := lengthPercentage(tok, u)
	if err != nil {
		return err
	}
	if l.Value < 0 {
		return invalid("negative gap")
	}
	*dst = l
	return nil
}

func gaps(value string, u UnitContext, s *ComputedStyle) error {
	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		if err := gapLength(parts[0], u, &s.RowGap); err != nil {
			return err
		}
		s.ColumnGap = s.RowGap
		return nil
	case 2:
		var row, col Length
		if err := gapLength(parts[0], u, &row); err != nil {
			return err
		}
		if err := gapLength(parts[1], u, &col); err != nil {
			return err
		}
		s.RowGap, s.ColumnGap = row, col
		return nil
	}
	return invalid("gap %q", value)
}

func template(value string, u UnitContext, dst *GridTemplate) error {
	t, err := parseGridTemplate(value, u)
	if err != nil {
		return err
	}
	*dst = t
	return nil
}

func autoTracks(value string, dst *[]TrackSize) error {
	ts, err := ParseTrackSizes(value)
	if err != nil {
		return err
	}
	*dst = ts
	return nil
}

func line(value string, dst *GridLine) error {
	l, err := ParseGridLine(value)
	if err != nil {
		return err
	}
	*dst = l
	return nil
}

// splitSlash parses value and splits it on top-level slashes.
func splitSlash(value string) ([][]parser.Token, error) {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	out := [][]parser.Token{nil}
	for _, t := range toks {
		if t.Kind == parser.TokenSlash {
			out = append(out, nil)
			continue
		}
		out[len(out)-1] = append(out[len(out)-1], t)
	}
	return out, nil
}

// omittedEnd is the value of an omitted end line: the same name when the
// start is a custom ident, auto otherwise.
func omittedEnd(start GridLine) GridLine {
	if start.Kind == LineName {
		return start
	}
	return AutoLine()
}

func linePair(value string, start, end *GridLine) error {
	parts, err := splitSlash(value)
	if err != nil {
		return err
	}
	if len(parts) > 2 {
		return invalid("too many slashes in %q", value)
	}
	s, err := gridLineFromTokens(parts[0])
	if err != nil {
		return err
	}
	e := omittedEnd(s)
	if len(parts) == 2 {
		if e, err = gridLineFromTokens(parts[1]); err != nil {
			return err
		}
	}
	*start, *end = s, e
	return nil
}

// gridArea parses row-start / column-start / row-end / column-end.
func gridArea(value string, dst *GridPlacement) error {
	parts, err := splitSlash(value)
	if err != nil {
		return err
	}
	if len(parts) > 4 {
		return invalid("too many slashes in %q", value)
	}
	lines := make([]GridLine, len(parts))
	for i, p := range parts {
		if lines[i], err = gridLineFromTokens(p); err != nil {
			return err
		}
	}
	rowStart := lines[0]
	colStart := omittedEnd(rowStart)
	if len(lines) > 1 {
		colStart = lines[1]
	}
	rowEnd := omittedEnd(rowStart)
	if len(lines) > 2 {
		rowEnd = lines[2]
	}
	colEnd := omittedEnd(colStart)
	if len(lines) > 3 {
		colEnd = lines[3]
	}
	*dst = GridPlacement{ColumnStart: colStart, ColumnEnd: colEnd, RowStart: rowStart, RowEnd: rowEnd}
	return nil
}

func lineHeight(s *ComputedStyle, value string, u UnitContext) error {
	tok, err := single(value)
	if err != nil {
		return err
	}
	switch tok.Kind {
	case parser.TokenIdent:
		if tok.Text == "normal" {
			s.LineHeight = s.FontSize * DefaultLineHeight
			return nil
		}
	case parser.TokenNumber:
		if tok.Number >= 0 {
			s.LineHeight = s.FontSize * tok.Number
			return nil
		}
	case parser.TokenPercentage:
		if tok.Number >= 0 {
			s.LineHeight = s.FontSize * tok.Number / 100.0
			return nil
		}
	case parser.TokenDimension:
		if px, ok := u.absoluteLength(tok.Number, tok.Unit); ok && px >= 0 {
			s.LineHeight = px
			return nil
		}
	}
	return invalid("line-height %q", value)
}

func fontWeight(value string, dst *int) error {
	switch strings.ToLower(value) {
	case "normal":
		*dst = 400
		return nil
	case "bold":
		*dst = 700
		return nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n < 1 || n > 1000 || math.IsNaN(n) {
		return invalid("font-weight %q", value)
	}
	*dst = int(n)
	return nil
}
