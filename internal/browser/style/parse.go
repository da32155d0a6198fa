// internal/browser/style/parse.go
package style

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xkilldash9x/boxlayout/internal/browser/parser"
)

// ErrInvalidValue marks a declaration value that could not be parsed. The
// property keeps its previous value.
var ErrInvalidValue = errors.New("invalid value")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}

// UnitContext supplies the references for relative length units.
type UnitContext struct {
	FontSize       float64
	RootFontSize   float64
	ViewportWidth  float64
	ViewportHeight float64
}

// DefaultUnits resolves em and rem against the base font size and viewport
// units against a zero viewport.
func DefaultUnits() UnitContext {
	return UnitContext{FontSize: BaseFontSize, RootFontSize: BaseFontSize}
}

// absoluteLength converts a dimension to px. The bool is false for unknown units.
func (u UnitContext) absoluteLength(n float64, unit string) (float64, bool) {
	switch unit {
	case "px":
		return n, true
	case "em":
		return n * u.FontSize, true
	// rem must not be mistaken for em.
	case "rem":
		return n * u.RootFontSize, true
	case "vw":
		return u.ViewportWidth * n / 100.0, true
	case "vh":
		return u.ViewportHeight * n / 100.0, true
	case "vmin":
		return math.Min(u.ViewportWidth, u.ViewportHeight) * n / 100.0, true
	case "vmax":
		return math.Max(u.ViewportWidth, u.ViewportHeight) * n / 100.0, true
	case "pt":
		return n * 96.0 / 72.0, true
	case "pc":
		return n * 16.0, true
	case "in":
		return n * 96.0, true
	case "cm":
		return n * 96.0 / 2.54, true
	case "mm":
		return n * 96.0 / 25.4, true
	}
	return 0, false
}

func single(value string) (parser.Token, error) {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return parser.Token{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if len(toks) != 1 {
		return parser.Token{}, invalid("expected a single value in %q", value)
	}
	return toks[0], nil
}

// -- Lengths --

// ParseLength parses a length with the default unit context.
func ParseLength(value string) (Length, error) {
	return ParseLengthIn(value, DefaultUnits())
}

// ParseLengthIn parses auto, px and relative units, percentages, a unitless
// zero and the content sizing keywords.
func ParseLengthIn(value string, u UnitContext) (Length, error) {
	tok, err := single(value)
	if err != nil {
		return Length{}, err
	}
	return lengthFromToken(tok, u)
}

func lengthFromToken(tok parser.Token, u UnitContext) (Length, error) {
	switch tok.Kind {
	case parser.TokenIdent:
		switch tok.Text {
		case "auto", "none":
			return Auto(), nil
		case "min-content":
			return MinContent(), nil
		case "max-content":
			return MaxContent(), nil
		case "fit-content":
			return FitContentSize(), nil
		}
	case parser.TokenDimension:
		if px, ok := u.absoluteLength(tok.Number, tok.Unit); ok {
			return Px(px), nil
		}
		return Length{}, invalid("unknown unit %q", tok.Unit)
	case parser.TokenPercentage:
		return Percent(tok.Number), nil
	case parser.TokenNumber:
		if tok.Number == 0 {
			return Px(0), nil
		}
		return Length{}, invalid("unitless length %s", tok.Text)
	}
	return Length{}, invalid("%q is not a length", tok.Text)
}

// lengthPercentage accepts only px-convertible lengths and percentages.
func lengthPercentage(tok parser.Token, u UnitContext) (Length, error) {
	l, err := lengthFromToken(tok, u)
	if err != nil {
		return Length{}, err
	}
	if l.Unit != UnitPx && l.Unit != UnitPercent {
		return Length{}, invalid("%q is not a length or percentage", tok.Text)
	}
	return l, nil
}

// -- Track Sizes --

// ParseTrackSize parses one track sizing function.
func ParseTrackSize(value string) (TrackSize, error) {
	tok, err := single(value)
	if err != nil {
		return TrackSize{}, err
	}
	return trackFromToken(tok, DefaultUnits())
}

func trackFromToken(tok parser.Token, u UnitContext) (TrackSize, error) {
	switch tok.Kind {
	case parser.TokenIdent:
		switch tok.Text {
		case "auto":
			return AutoTrack(), nil
		case "min-content":
			return MinContentTrack(), nil
		case "max-content":
			return MaxContentTrack(), nil
		}
		return TrackSize{}, invalid("unknown track keyword %q", tok.Text)
	case parser.TokenDimension:
		if tok.Unit == "fr" {
			if tok.Number < 0 {
				return TrackSize{}, invalid("negative fr %s", tok.Text)
			}
			return Fr(tok.Number), nil
		}
		px, ok := u.absoluteLength(tok.Number, tok.Unit)
		if !ok {
			return TrackSize{}, invalid("unknown unit %q", tok.Unit)
		}
		if px < 0 {
			return TrackSize{}, invalid("negative track size %s", tok.Text)
		}
		return Fixed(px), nil
	case parser.TokenPercentage:
		if tok.Number < 0 {
			return TrackSize{}, invalid("negative track size %s", tok.Text)
		}
		return PercentTrack(tok.Number), nil
	case parser.TokenNumber:
		if tok.Number == 0 {
			return Fixed(0), nil
		}
	case parser.TokenFunction:
		args := tok.SplitArgs()
		switch tok.Text {
		case "minmax":
			if len(args) != 2 || len(args[0]) != 1 || len(args[1]) != 1 {
				return TrackSize{}, invalid("minmax() takes two sizes")
			}
			min, err := trackFromToken(args[0][0], u)
			if err != nil {
				return TrackSize{}, err
			}
			max, err := trackFromToken(args[1][0], u)
			if err != nil {
				return TrackSize{}, err
			}
			if min.Kind == TrackFraction {
				return TrackSize{}, invalid("minmax() minimum cannot be flexible")
			}
			if min.Kind == TrackMinMax || max.Kind == TrackMinMax || min.Kind == TrackFitContent || max.Kind == TrackFitContent {
				return TrackSize{}, invalid("minmax() arguments must be simple sizes")
			}
			return MinMax(min, max), nil
		case "fit-content":
			if len(args) != 1 || len(args[0]) != 1 {
				return TrackSize{}, invalid("fit-content() takes one length")
			}
			limit, err := lengthPercentage(args[0][0], u)
			if err != nil {
				return TrackSize{}, err
			}
			return FitContent(limit), nil
		}
		return TrackSize{}, invalid("unknown track function %s()", tok.Text)
	}
	return TrackSize{}, invalid("%q is not a track size", tok.Text)
}

// ParseTrackSizes parses the space separated list used by grid-auto-rows and
// grid-auto-columns.
func ParseTrackSizes(value string) ([]TrackSize, error) {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if len(toks) == 0 {
		return nil, invalid("empty track list")
	}
	out := make([]TrackSize, 0, len(toks))
	for _, tok := range toks {
		ts, err := trackFromToken(tok, DefaultUnits())
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, nil
}

// -- Templates --

// ParseGridTemplate parses grid-template-columns/rows, including line names,
// repeat(<n>), repeat(auto-fill) and repeat(auto-fit). At most one auto
// repeat is allowed.
func ParseGridTemplate(value string) (GridTemplate, error) {
	return parseGridTemplate(value, DefaultUnits())
}

func parseGridTemplate(value string, u UnitContext) (GridTemplate, error) {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return GridTemplate{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if len(toks) == 1 && toks[0].Is("none") {
		return GridTemplate{}, nil
	}
	if len(toks) == 0 {
		return GridTemplate{}, invalid("empty template")
	}

	var tmpl GridTemplate
	var pending []string
	autoRepeats := 0
	for _, tok := range toks {
		switch {
		case tok.Kind == parser.TokenBracket:
			pending = append(pending, tok.Names...)
		case tok.Kind == parser.TokenFunction && tok.Text == "repeat":
			rep, err := parseRepeat(tok, u)
			if err != nil {
				return GridTemplate{}, err
			}
			if rep.Kind != RepeatCount {
				autoRepeats++
				if autoRepeats > 1 {
					return GridTemplate{}, invalid("only one auto repeat() is allowed")
				}
			}
			tmpl.Repeats = append(tmpl.Repeats, RepeatInsertion{Index: len(tmpl.Tracks), LineNames: pending, Repeat: rep})
			pending = nil
		default:
			ts, err := trackFromToken(tok, u)
			if err != nil {
				return GridTemplate{}, err
			}
			tmpl.Tracks = append(tmpl.Tracks, TrackDefinition{Size: ts, LineNames: pending})
			pending = nil
		}
	}
	tmpl.FinalLineNames = pending
	return tmpl, nil
}

func parseRepeat(tok parser.Token, u UnitContext) (TrackRepeat, error) {
	args := tok.SplitArgs()
	if len(args) != 2 || len(args[0]) != 1 || len(args[1]) == 0 {
		return TrackRepeat{}, invalid("repeat() takes a count and a track list")
	}

	var rep TrackRepeat
	count := args[0][0]
	switch {
	case count.Is("auto-fill"):
		rep.Kind = RepeatAutoFill
	case count.Is("auto-fit"):
		rep.Kind = RepeatAutoFit
	case count.Kind == parser.TokenNumber && count.Number >= 1 && count.Number == math.Trunc(count.Number):
		rep.Kind = RepeatCount
		rep.Count = int(count.Number)
	default:
		return TrackRepeat{}, invalid("repeat() count %q", count.Text)
	}

	var pending []string
	for _, t := range args[1] {
		if t.Kind == parser.TokenBracket {
			pending = append(pending, t.Names...)
			continue
		}
		if t.Kind == parser.TokenFunction && t.Text == "repeat" {
			return TrackRepeat{}, invalid("nested repeat()")
		}
		ts, err := trackFromToken(t, u)
		if err != nil {
			return TrackRepeat{}, err
		}
		rep.Tracks = append(rep.Tracks, TrackDefinition{Size: ts, LineNames: pending})
		pending = nil
	}
	if len(rep.Tracks) == 0 {
		return TrackRepeat{}, invalid("repeat() without tracks")
	}
	if rep.Kind != RepeatCount {
		for _, def := range rep.Tracks {
			if !isFixedSizing(def.Size) {
				return TrackRepeat{}, invalid("auto repeat() needs fixed track sizes")
			}
		}
	}
	rep.TrailingNames = pending
	return rep, nil
}

// isFixedSizing reports whether a track has a fixed min or max sizing function,
// the requirement for auto repetition.
func isFixedSizing(t TrackSize) bool {
	fixed := func(s TrackSize) bool { return s.Kind == TrackFixed || s.Kind == TrackPercent }
	if t.Kind == TrackMinMax {
		return (t.Min != nil && fixed(*t.Min)) || (t.Max != nil && fixed(*t.Max))
	}
	return fixed(t)
}

// -- Lines, Areas and Flow --

// ParseGridLine parses one of grid-{row,column}-{start,end}.
func ParseGridLine(value string) (GridLine, error) {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return GridLine{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return gridLineFromTokens(toks)
}

func gridLineFromTokens(toks []parser.Token) (GridLine, error) {
	integer := func(t parser.Token) (int, bool) {
		if t.Kind != parser.TokenNumber || t.Number != math.Trunc(t.Number) {
			return 0, false
		}
		return int(t.Number), true
	}
	customIdent := func(t parser.Token) bool {
		return t.Kind == parser.TokenIdent && t.Text != "auto" && t.Text != "span"
	}

	switch len(toks) {
	case 1:
		t := toks[0]
		if t.Is("auto") {
			return AutoLine(), nil
		}
		if n, ok := integer(t); ok {
			if n == 0 {
				return GridLine{}, invalid("line 0 does not exist")
			}
			return LineAt(n), nil
		}
		if customIdent(t) {
			return NamedLine(t.Text), nil
		}
	case 2:
		if !toks[0].Is("span") {
			break
		}
		if n, ok := integer(toks[1]); ok {
			if n < 1 {
				return GridLine{}, invalid("span must be positive")
			}
			return SpanLines(n), nil
		}
		if customIdent(toks[1]) {
			return SpanToName(toks[1].Text), nil
		}
	}
	return GridLine{}, invalid("unsupported grid line")
}

// ParseTemplateAreas parses grid-template-areas. "none" yields nil.
func ParseTemplateAreas(value string) (*GridTemplateAreas, error) {
	toks, err := parser.Tokenize(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if len(toks) == 1 && toks[0].Is("none") {
		return nil, nil
	}
	rows := make([][]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind != parser.TokenString {
			return nil, invalid("grid-template-areas rows must be strings")
		}
		var cells []string
		for _, cell := range strings.Fields(tok.Text) {
			if strings.Trim(cell, ".") == "" {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, cell)
		}
		rows = append(rows, cells)
	}
	areas, err := NewTemplateAreas(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return areas, nil
}

// ParseAutoFlow parses grid-auto-flow.
func ParseAutoFlow(value string) (GridAutoFlow, error) {
	words := strings.Fields(strings.ToLower(value))
	column, dense, sawDir := false, false, false
	for _, w := range words {
		switch w {
		case "row", "column":
			if sawDir {
				return AutoFlowRow, invalid("grid-auto-flow %q", value)
			}
			sawDir = true
			column = w == "column"
		case "dense":
			if dense {
				return AutoFlowRow, invalid("grid-auto-flow %q", value)
			}
			dense = true
		default:
			return AutoFlowRow, invalid("grid-auto-flow %q", value)
		}
	}
	if len(words) == 0 {
		return AutoFlowRow, invalid("empty grid-auto-flow")
	}
	switch {
	case column && dense:
		return AutoFlowColumnDense, nil
	case column:
		return AutoFlowColumn, nil
	case dense:
		return AutoFlowRowDense, nil
	}
	return AutoFlowRow, nil
}
