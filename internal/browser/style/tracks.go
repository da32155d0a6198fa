// internal/browser/style/tracks.go
package style

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// -- Track Sizing Functions --

// TrackKind tags the variant held by a TrackSize.
type TrackKind int

const (
	TrackAuto TrackKind = iota
	TrackFixed
	TrackPercent
	TrackFraction
	TrackMinContent
	TrackMaxContent
	TrackFitContent
	TrackMinMax
)

// TrackSize is one grid track sizing function. Value holds px for TrackFixed,
// the percentage for TrackPercent and the factor for TrackFraction. Limit is the
// fit-content() argument. Min and Max are set only for TrackMinMax.
type TrackSize struct {
	Kind  TrackKind
	Value float64
	Limit Length
	Min   *TrackSize
	Max   *TrackSize
}

func AutoTrack() TrackSize       { return TrackSize{Kind: TrackAuto} }
func Fixed(px float64) TrackSize { return TrackSize{Kind: TrackFixed, Value: px} }
func PercentTrack(p float64) TrackSize {
	return TrackSize{Kind: TrackPercent, Value: p}
}
func Fr(f float64) TrackSize        { return TrackSize{Kind: TrackFraction, Value: f} }
func MinContentTrack() TrackSize    { return TrackSize{Kind: TrackMinContent} }
func MaxContentTrack() TrackSize    { return TrackSize{Kind: TrackMaxContent} }
func FitContent(limit Length) TrackSize {
	return TrackSize{Kind: TrackFitContent, Limit: limit}
}

// MinMax builds minmax(min, max).
func MinMax(min, max TrackSize) TrackSize {
	return TrackSize{Kind: TrackMinMax, Min: &min, Max: &max}
}

// IsFlexible reports whether the track's max sizing function is an fr value.
func (t TrackSize) IsFlexible() bool {
	switch t.Kind {
	case TrackFraction:
		return true
	case TrackMinMax:
		return t.Max != nil && t.Max.Kind == TrackFraction
	}
	return false
}

// FlexFactor returns the fr factor of a flexible track, 0 otherwise.
func (t TrackSize) FlexFactor() float64 {
	switch t.Kind {
	case TrackFraction:
		return t.Value
	case TrackMinMax:
		if t.Max != nil && t.Max.Kind == TrackFraction {
			return t.Max.Value
		}
	}
	return 0
}

// MinSizing returns the min track sizing function. A bare fr behaves as auto
// for its minimum, fit-content as min-content.
func (t TrackSize) MinSizing() TrackSize {
	switch t.Kind {
	case TrackMinMax:
		if t.Min == nil {
			return AutoTrack()
		}
		if t.Min.Kind == TrackFraction {
			return AutoTrack()
		}
		return *t.Min
	case TrackFraction:
		return AutoTrack()
	case TrackFitContent:
		return MinContentTrack()
	}
	return t
}

// MaxSizing returns the max track sizing function.
func (t TrackSize) MaxSizing() TrackSize {
	if t.Kind == TrackMinMax {
		if t.Max == nil {
			return AutoTrack()
		}
		return *t.Max
	}
	return t
}

// IsIntrinsic reports whether the sizing function depends on item content.
func (t TrackSize) IsIntrinsic() bool {
	switch t.Kind {
	case TrackAuto, TrackMinContent, TrackMaxContent, TrackFitContent:
		return true
	}
	return false
}

// FixedSize returns the pixel value of a fixed track. Calling it on a
// fraction is a logic error: fr only resolves inside grid track sizing.
func (t TrackSize) FixedSize() float64 {
	if t.Kind == TrackFraction {
		panic("style: fr track size resolved outside grid track sizing")
	}
	if t.Kind == TrackFixed {
		return t.Value
	}
	return 0
}

// Normalize resolves the fit-content() limit against the container and returns
// the minmax(min-content, fit-content(px)) form used by track sizing. Other
// sizing functions come back unchanged.
func (t TrackSize) Normalize(container AvailableSpace) TrackSize {
	if t.Kind != TrackFitContent {
		return t
	}
	limit := t.Limit.ResolveAgainst(container, 0)
	return MinMax(MinContentTrack(), FitContent(Px(limit)))
}

// DefiniteMin returns the size used to count auto repetitions: the max
// sizing function when it is definite, otherwise the min sizing function.
func (t TrackSize) DefiniteMin(container AvailableSpace) (float64, bool) {
	switch t.Kind {
	case TrackFixed:
		return t.Value, true
	case TrackPercent:
		if container.IsDefinite() {
			return container.Px() * t.Value / 100.0, true
		}
	case TrackFitContent:
		if v, ok := t.Limit.Resolve(ResolutionContext{Available: container}); ok {
			return v, true
		}
	case TrackMinMax:
		if t.Max != nil {
			if v, ok := t.Max.DefiniteMin(container); ok && t.Max.Kind != TrackFitContent {
				return v, true
			}
		}
		if t.Min != nil {
			return t.Min.DefiniteMin(container)
		}
	}
	return 0, false
}

func (t TrackSize) String() string {
	switch t.Kind {
	case TrackAuto:
		return "auto"
	case TrackFixed:
		return formatFloat(t.Value) + "px"
	case TrackPercent:
		return formatFloat(t.Value) + "%"
	case TrackFraction:
		return formatFloat(t.Value) + "fr"
	case TrackMinContent:
		return "min-content"
	case TrackMaxContent:
		return "max-content"
	case TrackFitContent:
		return "fit-content(" + t.Limit.String() + ")"
	case TrackMinMax:
		min, max := AutoTrack(), AutoTrack()
		if t.Min != nil {
			min = *t.Min
		}
		if t.Max != nil {
			max = *t.Max
		}
		return "minmax(" + min.String() + ", " + max.String() + ")"
	}
	return fmt.Sprintf("TrackSize(%d)", t.Kind)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// -- Templates --

// TrackDefinition is one track of a template with the names of the line
// directly before it.
type TrackDefinition struct {
	Size      TrackSize
	LineNames []string
}

// RepeatKind distinguishes repeat(<n>) from the auto repetitions.
type RepeatKind int

const (
	RepeatCount RepeatKind = iota
	RepeatAutoFill
	RepeatAutoFit
)

func (k RepeatKind) String() string {
	switch k {
	case RepeatAutoFill:
		return "auto-fill"
	case RepeatAutoFit:
		return "auto-fit"
	}
	return "count"
}

// TrackRepeat is a repeat() function. TrailingNames are the names after the
// last repeated track, e.g. [b] in repeat(2, [a] 1fr [b]).
type TrackRepeat struct {
	Kind          RepeatKind
	Count         int
	Tracks        []TrackDefinition
	TrailingNames []string
}

// RepeatInsertion places a repeat() before Tracks[Index]. LineNames are the
// names written directly before the repeat() in the template.
type RepeatInsertion struct {
	Index     int
	LineNames []string
	Repeat    TrackRepeat
}

// GridTemplate is a parsed grid-template-columns/rows value.
type GridTemplate struct {
	Tracks         []TrackDefinition
	Repeats        []RepeatInsertion
	FinalLineNames []string
}

// TemplateFromSizes builds a template of unnamed tracks.
func TemplateFromSizes(sizes ...TrackSize) GridTemplate {
	tracks := make([]TrackDefinition, len(sizes))
	for i, s := range sizes {
		tracks[i] = TrackDefinition{Size: s}
	}
	return GridTemplate{Tracks: tracks}
}

// IsNone reports whether the template defines no explicit tracks.
func (g GridTemplate) IsNone() bool {
	return len(g.Tracks) == 0 && len(g.Repeats) == 0
}

// TrackListEntry is either a concrete track or an unexpanded auto-fill/auto-fit
// marker. For markers, Track.LineNames carries names that precede the repeat.
type TrackListEntry struct {
	Track      TrackDefinition
	AutoRepeat *TrackRepeat
}

// TrackList is the flat result of ExpandTracks.
type TrackList struct {
	Entries        []TrackListEntry
	FinalLineNames []string
}

// HasAutoRepeat reports whether any entry still needs an available size.
func (l TrackList) HasAutoRepeat() bool {
	for _, e := range l.Entries {
		if e.AutoRepeat != nil {
			return true
		}
	}
	return false
}

// ExpandTracks inlines every repeat(<n>) in place. Names attached to a repeat
// show up at every repetition boundary; adjacent name lists merge. A repeat
// with a non-positive count contributes no tracks.
func (g GridTemplate) ExpandTracks() TrackList {
	repeats := make([]RepeatInsertion, len(g.Repeats))
	copy(repeats, g.Repeats)
	sort.SliceStable(repeats, func(i, j int) bool { return repeats[i].Index < repeats[j].Index })

	var out TrackList
	var pending []string
	emit := func(def TrackDefinition) {
		names := mergeNames(pending, def.LineNames)
		pending = nil
		out.Entries = append(out.Entries, TrackListEntry{Track: TrackDefinition{Size: def.Size, LineNames: names}})
	}

	next := 0
	for i := 0; i <= len(g.Tracks); i++ {
		for next < len(repeats) && (repeats[next].Index <= i || i == len(g.Tracks)) {
			r := repeats[next].Repeat
			pending = mergeNames(pending, repeats[next].LineNames)
			next++
			switch r.Kind {
			case RepeatCount:
				for n := 0; n < r.Count; n++ {
					for _, def := range r.Tracks {
						emit(def)
					}
					pending = mergeNames(pending, r.TrailingNames)
				}
			case RepeatAutoFill, RepeatAutoFit:
				marker := r
				out.Entries = append(out.Entries, TrackListEntry{
					Track:      TrackDefinition{Size: AutoTrack(), LineNames: pending},
					AutoRepeat: &marker,
				})
				pending = nil
			}
		}
		if i < len(g.Tracks) {
			emit(g.Tracks[i])
		}
	}
	out.FinalLineNames = mergeNames(pending, g.FinalLineNames)
	return out
}

// ExpandAutoRepeat resolves the auto-fill/auto-fit marker of an expanded list
// with a concrete repetition count (at least one). repeatStart and repeatEnd
// bound the generated tracks; they are equal when the list has no marker.
func (l TrackList) ExpandAutoRepeat(count int) (tracks []TrackDefinition, finalNames []string, repeatStart, repeatEnd int) {
	if count < 1 {
		count = 1
	}
	var pending []string
	emit := func(def TrackDefinition) {
		tracks = append(tracks, TrackDefinition{Size: def.Size, LineNames: mergeNames(pending, def.LineNames)})
		pending = nil
	}
	for _, e := range l.Entries {
		if e.AutoRepeat == nil {
			emit(e.Track)
			continue
		}
		pending = mergeNames(pending, e.Track.LineNames)
		repeatStart = len(tracks)
		for n := 0; n < count; n++ {
			for _, def := range e.AutoRepeat.Tracks {
				emit(def)
			}
			pending = mergeNames(pending, e.AutoRepeat.TrailingNames)
		}
		repeatEnd = len(tracks)
	}
	return tracks, mergeNames(pending, l.FinalLineNames), repeatStart, repeatEnd
}

func mergeNames(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	for _, n := range b {
		dup := false
		for _, have := range out {
			if have == n {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n)
		}
	}
	return out
}

// -- Grid Lines and Areas --

// GridLineKind tags the variant of a GridLine.
type GridLineKind int

const (
	LineAuto GridLineKind = iota
	LineNumber
	LineName
	LineSpan
	LineSpanName
)

// GridLine is one grid-row/column-start/end value. Number may be negative
// (counted from the end of the explicit grid) and is kept as written.
type GridLine struct {
	Kind   GridLineKind
	Number int
	Name   string
}

func AutoLine() GridLine             { return GridLine{Kind: LineAuto} }
func LineAt(n int) GridLine          { return GridLine{Kind: LineNumber, Number: n} }
func NamedLine(name string) GridLine { return GridLine{Kind: LineName, Name: name} }
func SpanLines(n int) GridLine       { return GridLine{Kind: LineSpan, Number: n} }
func SpanToName(name string) GridLine {
	return GridLine{Kind: LineSpanName, Name: name}
}

// IsAuto reports whether the line is auto.
func (l GridLine) IsAuto() bool { return l.Kind == LineAuto }

// IsSpan reports whether the line is a span of either kind.
func (l GridLine) IsSpan() bool { return l.Kind == LineSpan || l.Kind == LineSpanName }

func (l GridLine) String() string {
	switch l.Kind {
	case LineNumber:
		return strconv.Itoa(l.Number)
	case LineName:
		return l.Name
	case LineSpan:
		return "span " + strconv.Itoa(l.Number)
	case LineSpanName:
		return "span " + l.Name
	}
	return "auto"
}

// GridPlacement is the four placement properties of an item.
type GridPlacement struct {
	ColumnStart, ColumnEnd GridLine
	RowStart, RowEnd       GridLine
}

// PlacementFromArea places an item into a named area via its implicit lines.
func PlacementFromArea(name string) GridPlacement {
	return GridPlacement{
		ColumnStart: NamedLine(name + "-start"),
		ColumnEnd:   NamedLine(name + "-end"),
		RowStart:    NamedLine(name + "-start"),
		RowEnd:      NamedLine(name + "-end"),
	}
}

// GridArea is a named rectangle from grid-template-areas, in 1-based lines.
type GridArea struct {
	Name                   string
	RowStart, RowEnd       int
	ColumnStart, ColumnEnd int
}

// GridTemplateAreas is a parsed grid-template-areas value. Empty cells ("." in
// CSS) are stored as "".
type GridTemplateAreas struct {
	Rows  [][]string
	Areas []GridArea
}

// NewTemplateAreas validates the cell matrix and extracts the named areas.
// Every row must have the same number of cells and every name must cover a
// single rectangle.
func NewTemplateAreas(rows [][]string) (*GridTemplateAreas, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid-template-areas: no rows")
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width || width == 0 {
			return nil, fmt.Errorf("grid-template-areas: row %d has %d cells, want %d", i+1, len(r), width)
		}
	}

	var areas []GridArea
	seen := make(map[string]bool)
	for ri, r := range rows {
		for ci, name := range r {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			colEnd := ci
			for colEnd < width && r[colEnd] == name {
				colEnd++
			}
			rowEnd := ri
			for rowEnd < len(rows) && rows[rowEnd][ci] == name {
				rowEnd++
			}
			// Every cell inside must match and no cell outside may carry the name.
			for y := range rows {
				for x := range rows[y] {
					inside := y >= ri && y < rowEnd && x >= ci && x < colEnd
					if inside != (rows[y][x] == name) {
						return nil, fmt.Errorf("grid-template-areas: area %q is not a rectangle", name)
					}
				}
			}
			areas = append(areas, GridArea{
				Name:        name,
				RowStart:    ri + 1,
				RowEnd:      rowEnd + 1,
				ColumnStart: ci + 1,
				ColumnEnd:   colEnd + 1,
			})
		}
	}
	return &GridTemplateAreas{Rows: rows, Areas: areas}, nil
}

// Area looks up a named area.
func (a *GridTemplateAreas) Area(name string) (GridArea, bool) {
	if a == nil {
		return GridArea{}, false
	}
	for _, area := range a.Areas {
		if area.Name == name {
			return area, true
		}
	}
	return GridArea{}, false
}

// ColumnCount returns the number of columns the areas imply.
func (a *GridTemplateAreas) ColumnCount() int {
	if a == nil || len(a.Rows) == 0 {
		return 0
	}
	return len(a.Rows[0])
}

// RowCount returns the number of rows the areas imply.
func (a *GridTemplateAreas) RowCount() int {
	if a == nil {
		return 0
	}
	return len(a.Rows)
}

func (a *GridTemplateAreas) String() string {
	if a == nil {
		return "none"
	}
	parts := make([]string, len(a.Rows))
	for i, r := range a.Rows {
		cells := make([]string, len(r))
		for j, c := range r {
			if c == "" {
				c = "."
			}
			cells[j] = c
		}
		parts[i] = strconv.Quote(strings.Join(cells, " "))
	}
	return strings.Join(parts, " ")
}

// GridAutoFlow is the grid-auto-flow value.
type GridAutoFlow int

const (
	AutoFlowRow GridAutoFlow = iota
	AutoFlowColumn
	AutoFlowRowDense
	AutoFlowColumnDense
)

// IsRow reports whether auto placement advances along rows.
func (f GridAutoFlow) IsRow() bool { return f == AutoFlowRow || f == AutoFlowRowDense }

// IsDense reports whether auto placement backfills earlier holes.
func (f GridAutoFlow) IsDense() bool { return f == AutoFlowRowDense || f == AutoFlowColumnDense }
