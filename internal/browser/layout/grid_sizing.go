// internal/browser/layout/grid_sizing.go
package layout

import (
	"math"
	"sort"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Grid Track Sizing --

// contribution reports an item's outer size along the axis being sized.
type contribution func(it *gridItem, mode SizingMode) float64

// trackSizer runs the track sizing algorithm for one axis.
type trackSizer struct {
	ts        *trackSet
	items     []*gridItem
	available style.AvailableSpace
	mode      SizingMode
	align     style.ContentAlignment
	contrib   contribution
}

const sizingEpsilon = 1e-6

func (z *trackSizer) run() {
	z.initialize()
	z.resolveIntrinsic()
	z.maximize()
	z.expandFlexible()
	z.stretchAuto()
}

// initialize sets base sizes and growth limits from the sizing functions.
// Percentages against an indefinite size behave as auto.
func (z *trackSizer) initialize() {
	for _, t := range z.ts.tracks {
		if t.Collapsed {
			t.BaseSize, t.GrowthLimit = 0, 0
			continue
		}
		if t.minFn.Kind == style.TrackPercent && !z.available.IsDefinite() {
			t.minFn = style.AutoTrack()
		}
		if t.maxFn.Kind == style.TrackPercent && !z.available.IsDefinite() {
			t.maxFn = style.AutoTrack()
		}

		t.BaseSize = 0
		if v, ok := z.fixedSize(t.minFn); ok {
			t.BaseSize = v
		}
		t.GrowthLimit = math.Inf(1)
		if v, ok := z.fixedSize(t.maxFn); ok {
			t.GrowthLimit = v
		}
		if t.GrowthLimit < t.BaseSize {
			t.GrowthLimit = t.BaseSize
		}
	}
}

func (z *trackSizer) fixedSize(fn style.TrackSize) (float64, bool) {
	switch fn.Kind {
	case style.TrackFixed:
		return fn.Value, true
	case style.TrackPercent:
		if z.available.IsDefinite() {
			return z.available.Px() * fn.Value / 100.0, true
		}
	}
	return 0, false
}

func isIntrinsicMin(fn style.TrackSize) bool {
	switch fn.Kind {
	case style.TrackAuto, style.TrackMinContent, style.TrackMaxContent:
		return true
	}
	return false
}

func isIntrinsicMax(fn style.TrackSize) bool {
	switch fn.Kind {
	case style.TrackAuto, style.TrackMinContent, style.TrackMaxContent, style.TrackFitContent:
		return true
	}
	return false
}

// spannedTracks returns the visible tracks an item covers on this axis.
func (z *trackSizer) spannedTracks(it *gridItem) []*gridTrack {
	sp := it.span(z.ts.axis)
	out := make([]*gridTrack, 0, sp.Span)
	for i := sp.Start; i < sp.End() && i < len(z.ts.tracks); i++ {
		if !z.ts.tracks[i].Collapsed {
			out = append(out, z.ts.tracks[i])
		}
	}
	return out
}

// minContribution is what intrinsic minimums grow to: min-content, or
// max-content while the container itself is sized under max-content.
func (z *trackSizer) minContribution(it *gridItem) float64 {
	if z.mode == MaxContentMode {
		return z.contrib(it, MaxContentMode)
	}
	return z.contrib(it, MinContentMode)
}

// resolveIntrinsic sizes intrinsic tracks to fit their items: single-span
// items first, then wider spans in increasing order, then items crossing
// flexible tracks.
func (z *trackSizer) resolveIntrinsic() {
	var multi, flexible []*gridItem
	for _, it := range z.items {
		tracks := z.spannedTracks(it)
		if len(tracks) == 0 {
			continue
		}
		crossesFlex := false
		for _, t := range tracks {
			if t.isFlexible() {
				crossesFlex = true
			}
		}
		switch {
		case crossesFlex && len(tracks) > 1:
			flexible = append(flexible, it)
		case len(tracks) == 1:
			z.sizeSingleSpan(tracks[0], it)
		default:
			multi = append(multi, it)
		}
	}

	sort.SliceStable(multi, func(i, j int) bool {
		return len(z.spannedTracks(multi[i])) < len(z.spannedTracks(multi[j]))
	})
	for start := 0; start < len(multi); {
		end := start + 1
		n := len(z.spannedTracks(multi[start]))
		for end < len(multi) && len(z.spannedTracks(multi[end])) == n {
			end++
		}
		z.sizeSpanGroup(multi[start:end])
		start = end
	}

	for _, it := range flexible {
		z.sizeAcrossFlexible(it)
	}

	for _, t := range z.ts.tracks {
		if math.IsInf(t.GrowthLimit, 1) {
			t.GrowthLimit = t.BaseSize
		}
		if t.GrowthLimit < t.BaseSize {
			t.GrowthLimit = t.BaseSize
		}
	}
}

func (z *trackSizer) sizeSingleSpan(t *gridTrack, it *gridItem) {
	minC := z.minContribution(it)
	maxC := z.contrib(it, MaxContentMode)

	switch t.minFn.Kind {
	case style.TrackAuto, style.TrackMinContent:
		t.BaseSize = math.Max(t.BaseSize, minC)
	case style.TrackMaxContent:
		t.BaseSize = math.Max(t.BaseSize, maxC)
	}

	grow := func(v float64) {
		if math.IsInf(t.GrowthLimit, 1) {
			t.GrowthLimit = v
		} else {
			t.GrowthLimit = math.Max(t.GrowthLimit, v)
		}
	}
	switch t.maxFn.Kind {
	case style.TrackMinContent:
		grow(z.contrib(it, MinContentMode))
	case style.TrackAuto, style.TrackMaxContent:
		grow(maxC)
	case style.TrackFitContent:
		grow(math.Min(maxC, t.fitLimit))
	}
	if !math.IsInf(t.GrowthLimit, 1) && t.GrowthLimit < t.BaseSize {
		t.GrowthLimit = t.BaseSize
	}
}

// sizeSpanGroup handles items of equal span count. Each item's extra space
// is split evenly over the eligible tracks up to their growth limits; the
// largest increase any item asks of a track is applied after the group.
func (z *trackSizer) sizeSpanGroup(group []*gridItem) {
	z.increaseBases(group, isIntrinsicMin, z.minContribution)
	z.increaseBases(group, func(fn style.TrackSize) bool { return fn.Kind == style.TrackMaxContent }, func(it *gridItem) float64 {
		return z.contrib(it, MaxContentMode)
	})
	z.increaseLimits(group, func(fn style.TrackSize) bool { return fn.Kind == style.TrackMinContent }, func(it *gridItem) float64 {
		return z.contrib(it, MinContentMode)
	})
	z.increaseLimits(group, func(fn style.TrackSize) bool {
		return fn.Kind == style.TrackAuto || fn.Kind == style.TrackMaxContent || fn.Kind == style.TrackFitContent
	}, func(it *gridItem) float64 {
		return z.contrib(it, MaxContentMode)
	})
}

func (z *trackSizer) increaseBases(group []*gridItem, eligible func(style.TrackSize) bool, size func(*gridItem) float64) {
	planned := make(map[*gridTrack]float64)
	for _, it := range group {
		tracks := z.spannedTracks(it)
		sp := it.span(z.ts.axis)
		var targets []*gridTrack
		spanned := z.ts.gapTotal(sp.Start, sp.End())
		for _, t := range tracks {
			spanned += t.BaseSize
			if eligible(t.minFn) {
				targets = append(targets, t)
			}
		}
		extra := size(it) - spanned
		if extra <= sizingEpsilon || len(targets) == 0 {
			continue
		}
		sizes, caps := make([]float64, len(targets)), make([]float64, len(targets))
		for i, t := range targets {
			sizes[i], caps[i] = t.BaseSize, t.GrowthLimit
		}
		for i, inc := range distributeExtra(extra, sizes, caps, true) {
			planned[targets[i]] = math.Max(planned[targets[i]], inc)
		}
	}
	for t, inc := range planned {
		t.BaseSize += inc
		if !math.IsInf(t.GrowthLimit, 1) && t.GrowthLimit < t.BaseSize {
			t.GrowthLimit = t.BaseSize
		}
	}
}

func (z *trackSizer) increaseLimits(group []*gridItem, eligible func(style.TrackSize) bool, size func(*gridItem) float64) {
	limitOf := func(t *gridTrack) float64 {
		if math.IsInf(t.GrowthLimit, 1) {
			return t.BaseSize
		}
		return t.GrowthLimit
	}
	planned := make(map[*gridTrack]float64)
	for _, it := range group {
		tracks := z.spannedTracks(it)
		sp := it.span(z.ts.axis)
		var targets []*gridTrack
		spanned := z.ts.gapTotal(sp.Start, sp.End())
		for _, t := range tracks {
			spanned += limitOf(t)
			if eligible(t.maxFn) {
				targets = append(targets, t)
			}
		}
		extra := size(it) - spanned
		if extra <= sizingEpsilon || len(targets) == 0 {
			continue
		}
		sizes, caps := make([]float64, len(targets)), make([]float64, len(targets))
		for i, t := range targets {
			sizes[i], caps[i] = limitOf(t), t.fitLimit
		}
		for i, inc := range distributeExtra(extra, sizes, caps, true) {
			planned[targets[i]] = math.Max(planned[targets[i]], inc)
		}
	}
	for _, t := range z.ts.tracks {
		if inc, ok := planned[t]; ok {
			t.GrowthLimit = limitOf(t) + inc
		}
	}
}

// sizeAcrossFlexible grows the minimums of flexible tracks an item spans in
// proportion to their flex factors.
func (z *trackSizer) sizeAcrossFlexible(it *gridItem) {
	tracks := z.spannedTracks(it)
	sp := it.span(z.ts.axis)
	spanned := z.ts.gapTotal(sp.Start, sp.End())
	var targets []*gridTrack
	flexSum := 0.0
	for _, t := range tracks {
		spanned += t.BaseSize
		if t.isFlexible() && isIntrinsicMin(t.minFn) {
			targets = append(targets, t)
			flexSum += t.flex
		}
	}
	extra := z.minContribution(it) - spanned
	if extra <= sizingEpsilon || len(targets) == 0 {
		return
	}
	for _, t := range targets {
		if flexSum > 0 {
			t.BaseSize += extra * t.flex / flexSum
		} else {
			t.BaseSize += extra / float64(len(targets))
		}
	}
}

// distributeExtra splits space evenly over the tracks, never past a cap.
// With overflow set, space left once every track is capped is split evenly
// over all of them.
func distributeExtra(space float64, sizes, caps []float64, overflow bool) []float64 {
	inc := make([]float64, len(sizes))
	active := make([]int, 0, len(sizes))
	for i := range sizes {
		if caps[i]-sizes[i] > sizingEpsilon {
			active = append(active, i)
		}
	}
	for space > sizingEpsilon && len(active) > 0 {
		share := space / float64(len(active))
		next := active[:0]
		for _, i := range active {
			room := caps[i] - sizes[i] - inc[i]
			give := math.Min(share, room)
			inc[i] += give
			space -= give
			if room-give > sizingEpsilon {
				next = append(next, i)
			}
		}
		active = next
	}
	if overflow && space > sizingEpsilon && len(sizes) > 0 {
		share := space / float64(len(sizes))
		for i := range inc {
			inc[i] += share
		}
	}
	return inc
}

// maximize hands definite free space to tracks below their growth limits.
// Under max-content every track takes its limit; under min-content nothing
// grows.
func (z *trackSizer) maximize() {
	switch {
	case z.mode == MinContentMode:
		return
	case z.available.IsDefinite():
		free := z.available.Px() - z.ts.totalSize()
		if free <= sizingEpsilon {
			return
		}
		var targets []*gridTrack
		for _, t := range z.ts.tracks {
			if !t.Collapsed && t.GrowthLimit > t.BaseSize {
				targets = append(targets, t)
			}
		}
		if len(targets) == 0 {
			return
		}
		sizes, caps := make([]float64, len(targets)), make([]float64, len(targets))
		for i, t := range targets {
			sizes[i], caps[i] = t.BaseSize, t.GrowthLimit
		}
		for i, inc := range distributeExtra(free, sizes, caps, false) {
			targets[i].BaseSize += inc
		}
	default:
		for _, t := range z.ts.tracks {
			if !t.Collapsed {
				t.BaseSize = t.GrowthLimit
			}
		}
	}
}

// expandFlexible sizes fr tracks. With definite space the fr size is the
// largest one that fills the leftover space while no track drops below its
// base size; otherwise it is the largest size any track or item needs.
func (z *trackSizer) expandFlexible() {
	var flexible []*gridTrack
	for _, t := range z.ts.tracks {
		if !t.Collapsed && t.isFlexible() {
			flexible = append(flexible, t)
		}
	}
	if len(flexible) == 0 || z.mode == MinContentMode {
		return
	}

	var frSize float64
	if z.available.IsDefinite() {
		visible := make([]*gridTrack, 0, len(z.ts.tracks))
		for _, t := range z.ts.tracks {
			if !t.Collapsed {
				visible = append(visible, t)
			}
		}
		frSize = findFrSize(visible, z.available.Px()-z.ts.gapTotal(0, len(z.ts.tracks)))
	} else {
		for _, t := range flexible {
			if t.flex > 1 {
				frSize = math.Max(frSize, t.BaseSize/t.flex)
			} else {
				frSize = math.Max(frSize, t.BaseSize)
			}
		}
		for _, it := range z.items {
			tracks := z.spannedTracks(it)
			crosses := false
			for _, t := range tracks {
				crosses = crosses || t.isFlexible()
			}
			if !crosses {
				continue
			}
			sp := it.span(z.ts.axis)
			space := z.contrib(it, MaxContentMode) - z.ts.gapTotal(sp.Start, sp.End())
			frSize = math.Max(frSize, findFrSize(tracks, space))
		}
	}

	for _, t := range flexible {
		t.BaseSize = math.Max(t.BaseSize, frSize*t.flex)
	}
}

// findFrSize returns the size of 1fr when space is shared by tracks. Flexible
// tracks whose share would fall below their base size are treated as fixed
// and the size is recomputed; each round fixes at least one more track.
func findFrSize(tracks []*gridTrack, space float64) float64 {
	inflexible := make(map[*gridTrack]bool)
	for round := 0; round <= len(tracks); round++ {
		leftover, flexSum := space, 0.0
		for _, t := range tracks {
			if t.isFlexible() && !inflexible[t] {
				flexSum += t.flex
			} else {
				leftover -= t.BaseSize
			}
		}
		if flexSum < 1 {
			flexSum = 1
		}
		hyp := math.Max(0, leftover/flexSum)
		restart := false
		for _, t := range tracks {
			if t.isFlexible() && !inflexible[t] && hyp*t.flex < t.BaseSize {
				inflexible[t] = true
				restart = true
			}
		}
		if !restart {
			return hyp
		}
	}
	return 0
}

// stretchAuto shares remaining definite space among tracks with an auto
// max sizing function when content distribution is normal or stretch.
func (z *trackSizer) stretchAuto() {
	if !z.available.IsDefinite() || (z.align != style.ContentNormal && z.align != style.ContentStretch) {
		return
	}
	free := z.available.Px() - z.ts.totalSize()
	if free <= sizingEpsilon {
		return
	}
	var autos []*gridTrack
	for _, t := range z.ts.tracks {
		if !t.Collapsed && t.maxFn.Kind == style.TrackAuto {
			autos = append(autos, t)
		}
	}
	for _, t := range autos {
		t.BaseSize += free / float64(len(autos))
	}
}
