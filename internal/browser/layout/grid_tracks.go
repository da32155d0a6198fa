// internal/browser/layout/grid_tracks.go
package layout

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Grid Tracks --

// gridTrack is one row or column. BaseSize and GrowthLimit are the working
// values of track sizing; Size and Position are the results, relative to the
// container's content box.
type gridTrack struct {
	Sizing       style.TrackSize
	minFn, maxFn style.TrackSize

	BaseSize    float64
	GrowthLimit float64
	fitLimit    float64
	flex        float64

	Implicit  bool
	AutoFit   bool
	Collapsed bool

	Size     float64
	Position float64
}

func (t *gridTrack) isFlexible() bool { return t.flex > 0 || t.maxFn.Kind == style.TrackFraction }

// trackSet holds the tracks of one axis plus what line resolution needs.
type trackSet struct {
	axis          Axis
	tracks        []*gridTrack
	explicitCount int
	names         map[string][]int
	areas         *style.GridTemplateAreas
	repeatStart   int
	repeatEnd     int
	autoFit       bool
	gap           float64
	autoSizes     []style.TrackSize
	available     style.AvailableSpace
}

// buildTrackSet expands the explicit template of one axis. Auto repetitions
// are counted against available; areas can add explicit tracks beyond the
// template.
func (p *layoutPass) buildTrackSet(b *LayoutBox, axis Axis, available style.AvailableSpace, gap float64) *trackSet {
	s := b.Style
	tmpl, autoSizes := s.GridTemplateColumns, s.GridAutoColumns
	areaCount := s.GridTemplateAreas.ColumnCount()
	if axis == Vertical {
		tmpl, autoSizes = s.GridTemplateRows, s.GridAutoRows
		areaCount = s.GridTemplateAreas.RowCount()
	}

	ts := &trackSet{
		axis:      axis,
		names:     make(map[string][]int),
		areas:     s.GridTemplateAreas,
		gap:       gap,
		autoSizes: autoSizes,
		available: available,
	}

	list := tmpl.ExpandTracks()
	count := 1
	for _, e := range list.Entries {
		if e.AutoRepeat != nil {
			ts.autoFit = e.AutoRepeat.Kind == style.RepeatAutoFit
			count = p.autoRepeatCount(b, list, *e.AutoRepeat, available, gap)
		}
	}
	defs, finalNames, start, end := list.ExpandAutoRepeat(count)
	ts.repeatStart, ts.repeatEnd = start, end

	for i, d := range defs {
		ts.addTrack(d.Size, false)
		ts.tracks[i].AutoFit = ts.autoFit && i >= start && i < end
		for _, n := range d.LineNames {
			ts.names[n] = append(ts.names[n], i+1)
		}
	}
	for _, n := range finalNames {
		ts.names[n] = append(ts.names[n], len(defs)+1)
	}
	for len(ts.tracks) < areaCount {
		ts.addTrack(ts.autoSize(len(ts.tracks)-len(defs)), false)
	}
	ts.explicitCount = len(ts.tracks)
	return ts
}

// autoRepeatCount is the largest repetition count whose tracks and gaps fit
// in available, at least 1 and at most the configured limit.
func (p *layoutPass) autoRepeatCount(b *LayoutBox, list style.TrackList, repeat style.TrackRepeat, available style.AvailableSpace, gap float64) int {
	if !available.IsDefinite() || len(repeat.Tracks) == 0 {
		return 1
	}
	fixed, others := 0.0, 0
	for _, e := range list.Entries {
		if e.AutoRepeat != nil {
			continue
		}
		v, _ := e.Track.Size.DefiniteMin(available)
		fixed += v
		others++
	}
	perRepeat := 0.0
	for _, d := range repeat.Tracks {
		v, _ := d.Size.DefiniteMin(available)
		perRepeat += v
	}
	if perRepeat <= 0 {
		return 1
	}

	count := 1
	for count < p.autoRepeatLimit {
		next := count + 1
		tracks := others + next*len(repeat.Tracks)
		if fixed+float64(next)*perRepeat+float64(tracks-1)*gap > available.Px()+1e-6 {
			return count
		}
		count = next
	}
	p.logger.Warn("Auto repeat count hit the configured limit",
		zap.Int("box", int(b.ID)),
		zap.Int("limit", p.autoRepeatLimit),
		zap.String("kind", repeat.Kind.String()),
	)
	return count
}

func (ts *trackSet) addTrack(size style.TrackSize, implicit bool) {
	normalized := size.Normalize(ts.available)
	t := &gridTrack{
		Sizing:   normalized,
		minFn:    normalized.MinSizing(),
		maxFn:    normalized.MaxSizing(),
		flex:     normalized.FlexFactor(),
		Implicit: implicit,
		fitLimit: math.Inf(1),
	}
	if t.maxFn.Kind == style.TrackFitContent {
		t.fitLimit = t.maxFn.Limit.ResolveAgainst(ts.available, 0)
	}
	ts.tracks = append(ts.tracks, t)
}

// autoSize cycles grid-auto-rows/columns for the nth implicit track.
func (ts *trackSet) autoSize(n int) style.TrackSize {
	if len(ts.autoSizes) == 0 {
		return style.AutoTrack()
	}
	return ts.autoSizes[n%len(ts.autoSizes)]
}

// ensure appends implicit tracks until the axis has at least n tracks.
func (ts *trackSet) ensure(n int) {
	for len(ts.tracks) < n {
		ts.addTrack(ts.autoSize(len(ts.tracks)-ts.explicitCount), true)
	}
}

// collapseEmpty collapses auto-fit repetitions no item occupies.
func (ts *trackSet) collapseEmpty(items []*gridItem) {
	if !ts.autoFit {
		return
	}
	used := make([]bool, len(ts.tracks))
	for _, it := range items {
		sp := it.span(ts.axis)
		for i := sp.Start; i < sp.End() && i < len(used); i++ {
			used[i] = true
		}
	}
	for i := ts.repeatStart; i < ts.repeatEnd && i < len(ts.tracks); i++ {
		ts.tracks[i].Collapsed = !used[i]
	}
}

// visible counts the tracks that take space and gaps.
func (ts *trackSet) visible() int {
	n := 0
	for _, t := range ts.tracks {
		if !t.Collapsed {
			n++
		}
	}
	return n
}

// gapTotal is the space taken by gaps between visible tracks in [from, to).
func (ts *trackSet) gapTotal(from, to int) float64 {
	n := 0
	for i := from; i < to && i < len(ts.tracks); i++ {
		if !ts.tracks[i].Collapsed {
			n++
		}
	}
	if n < 2 {
		return 0
	}
	return ts.gap * float64(n-1)
}

// totalSize is the sum of track sizes plus gaps.
func (ts *trackSet) totalSize() float64 {
	sum := ts.gapTotal(0, len(ts.tracks))
	for _, t := range ts.tracks {
		if !t.Collapsed {
			sum += t.BaseSize
		}
	}
	return sum
}

// position lays the tracks out along containerSize using content alignment.
func (ts *trackSet) position(containerSize float64, align style.ContentAlignment) {
	for _, t := range ts.tracks {
		t.Size = t.BaseSize
		if t.Collapsed {
			t.Size = 0
		}
	}
	start, spacing := calculateAlignmentOffsets(ts.visible(), ts.totalSize(), containerSize, align)
	pos := start
	for _, t := range ts.tracks {
		t.Position = pos
		if t.Collapsed {
			continue
		}
		pos += t.Size + ts.gap + spacing
	}
}

// extent returns the offset and size of the area a span covers.
func (ts *trackSet) extent(sp gridSpan) (float64, float64) {
	if sp.Span == 0 || sp.Start >= len(ts.tracks) {
		return 0, 0
	}
	first, last := ts.tracks[sp.Start], ts.tracks[min(sp.End(), len(ts.tracks))-1]
	return first.Position, last.Position + last.Size - first.Position
}

// -- Line Resolution --

type lineSide int

const (
	sideStart lineSide = iota
	sideEnd
)

// lookupName returns the explicit line numbers (1-based, ascending) a name
// refers to: explicit names first, then an area's edge, then the implicit
// <area>-start and <area>-end names.
func (ts *trackSet) lookupName(name string, side lineSide) []int {
	if lines := ts.names[name]; len(lines) > 0 {
		return lines
	}
	if start, end, ok := ts.areaLines(name); ok {
		if side == sideStart {
			return []int{start}
		}
		return []int{end}
	}
	if area, ok := strings.CutSuffix(name, "-start"); ok {
		if start, _, ok := ts.areaLines(area); ok {
			return []int{start}
		}
	}
	if area, ok := strings.CutSuffix(name, "-end"); ok {
		if _, end, ok := ts.areaLines(area); ok {
			return []int{end}
		}
	}
	return nil
}

func (ts *trackSet) areaLines(name string) (int, int, bool) {
	area, ok := ts.areas.Area(name)
	if !ok {
		return 0, 0, false
	}
	if ts.axis == Horizontal {
		return area.ColumnStart, area.ColumnEnd, true
	}
	return area.RowStart, area.RowEnd, true
}

// resolveLine turns a definite line into a 1-based line number. Negative
// numbers count back from the last explicit line; lines before the grid
// clamp to line 1.
func (ts *trackSet) resolveLine(l style.GridLine, side lineSide) (int, bool) {
	switch l.Kind {
	case style.LineNumber:
		n := l.Number
		switch {
		case n == 0:
			return 0, false
		case n < 0:
			n = ts.explicitCount + 2 + n
		}
		return max(n, 1), true
	case style.LineName:
		if lines := ts.lookupName(l.Name, side); len(lines) > 0 {
			return lines[0], true
		}
	}
	return 0, false
}

// spanFrom returns the number of tracks l spans away from anchor. A named
// span that finds no matching line spans one track.
func (ts *trackSet) spanFrom(l style.GridLine, anchor int, forward bool) int {
	switch l.Kind {
	case style.LineSpan:
		return max(l.Number, 1)
	case style.LineSpanName:
		side := sideStart
		if forward {
			side = sideEnd
		}
		lines := ts.lookupName(l.Name, side)
		if forward {
			for _, n := range lines {
				if n > anchor {
					return n - anchor
				}
			}
		} else {
			for i := len(lines) - 1; i >= 0; i-- {
				if lines[i] < anchor {
					return anchor - lines[i]
				}
			}
		}
	}
	return 1
}

// resolveSpan converts a start/end pair into a 0-based track span. Fixed is
// false when the position is left to auto-placement; the span count is still
// known.
func (ts *trackSet) resolveSpan(startLine, endLine style.GridLine) gridSpan {
	start, startOK := ts.resolveLine(startLine, sideStart)
	end, endOK := ts.resolveLine(endLine, sideEnd)
	switch {
	case startOK && endOK:
		if end < start {
			start, end = end, start
		}
		if end == start {
			end = start + 1
		}
		return gridSpan{Start: start - 1, Span: end - start, Fixed: true}
	case startOK:
		return gridSpan{Start: start - 1, Span: ts.spanFrom(endLine, start, true), Fixed: true}
	case endOK:
		start := max(end-ts.spanFrom(startLine, end, false), 1)
		return gridSpan{Start: start - 1, Span: max(end-start, 1), Fixed: true}
	}

	span := 1
	switch {
	case startLine.Kind == style.LineSpan:
		span = max(startLine.Number, 1)
	case endLine.Kind == style.LineSpan:
		span = max(endLine.Number, 1)
	}
	return gridSpan{Span: span}
}
