// internal/browser/layout/flex.go
package layout

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Flexbox --

// flexItem is the per-pass scratch state of one flex item. Main and cross
// sizes are content-box sizes; positions are margin-box offsets inside the
// container's content box.
type flexItem struct {
	id  BoxID
	box *LayoutBox

	grow, shrink    float64
	pbMain, pbCross float64
	marginMain      float64
	marginCross     float64

	autoMainStart, autoMainEnd   bool
	autoCrossStart, autoCrossEnd bool

	FlexBaseSize         float64
	HypotheticalMainSize float64
	TargetMainSize       float64
	minMain, maxMain     float64
	Frozen               bool
	violation            float64

	align         style.ItemAlignment
	crossSize     float64
	crossDefinite bool
	measuredWidth float64
	stretched     bool
	baseline      float64
	hasBaseline   bool

	mainPos, crossPos float64
}

func (it *flexItem) outerMain(size float64) float64 { return size + it.pbMain + it.marginMain }

func (it *flexItem) outerCross() float64 { return it.crossSize + it.pbCross + it.marginCross }

func (it *flexItem) hasAutoCrossMargin() bool { return it.autoCrossStart || it.autoCrossEnd }

type flexLine struct {
	items      []*flexItem
	CrossSize  float64
	CrossStart float64
	maxAscent  float64
}

// layoutFlex implements the flex layout algorithm for a container whose
// content width is known. height is the content height when definite. It
// returns the content height.
func (p *layoutPass) layoutFlex(b *LayoutBox, c constraints, width float64, height style.AvailableSpace) float64 {
	s := b.Style
	mainAxis := s.FlexDirection.MainAxis()
	crossAxis := mainAxis.Cross()
	space := func(axis Axis) style.AvailableSpace {
		if axis == Horizontal {
			return style.Definite(width)
		}
		return height
	}
	availMain, availCross := space(mainAxis), space(crossAxis)
	mainGap := s.Gap(mainAxis).ResolveAgainst(availMain, 0)
	crossGap := s.Gap(crossAxis).ResolveAgainst(availCross, 0)

	items := p.collectFlexItems(b, width, height)
	if len(items) == 0 {
		return 0
	}

	p.calculateFlexBaseSizes(items, mainAxis, width, availMain)

	var mainSize float64
	lineLimit := math.Inf(1)
	if availMain.IsDefinite() {
		mainSize = availMain.Px()
		lineLimit = mainSize
	} else {
		// Column container with an auto height: the content decides, then min/max.
		sum := mainGap * float64(len(items)-1)
		for _, it := range items {
			sum += it.outerMain(it.HypotheticalMainSize)
		}
		mainSize = p.clampSize(s, mainAxis, sum, b.InnerStatic(mainAxis), c.cbHeight)
	}

	lines := collectFlexLines(items, s.FlexWrap, lineLimit, mainGap)
	for _, line := range lines {
		resolveFlexibleLengths(line, mainSize, mainGap)
	}

	p.determineCrossSizes(lines, crossAxis, width, availCross)

	totalCross := crossGap * float64(len(lines)-1)
	for _, line := range lines {
		totalCross += line.CrossSize
	}
	var crossSize float64
	if availCross.IsDefinite() {
		crossSize = availCross.Px()
	} else {
		crossSize = p.clampSize(s, crossAxis, totalCross, b.InnerStatic(crossAxis), c.cbHeight)
	}
	if s.FlexWrap == style.FlexNoWrap {
		lines[0].CrossSize = crossSize
	}

	alignFlexLines(lines, s, crossSize, crossGap)
	// Stretch targets the line, not the container. A wrapping container with
	// a definite cross size only grows its lines under align-content normal or
	// stretch; any other value leaves them content sized and items follow.
	stretchFlexItems(lines, crossAxis, availCross)

	jobs := make([]func(), 0, len(items))
	for _, it := range items {
		cc := constraints{cbWidth: style.Definite(width), cbHeight: height}
		mainBorder := it.TargetMainSize + it.pbMain
		if mainAxis == Horizontal {
			cc = cc.withWidth(mainBorder)
			if it.stretched {
				cc = cc.withHeight(it.crossSize + it.pbCross)
			}
		} else {
			cc = cc.withHeight(mainBorder).withWidth(it.crossSize + it.pbCross)
		}
		id := it.id
		jobs = append(jobs, func() { p.layoutBox(id, cc) })
	}
	p.runJobs(jobs)

	alignMainAxis(lines, s, mainSize, mainGap)
	alignCrossAxis(lines, crossAxis)

	x0, y0 := b.contentOffset(Horizontal), b.contentOffset(Vertical)
	reverseCross := s.FlexWrap == style.FlexWrapReverse
	for _, line := range lines {
		for _, it := range line.items {
			crossPos := it.crossPos
			if reverseCross {
				crossPos = crossSize - crossPos - it.box.MarginBox().GetSize(crossAxis)
			}
			if mainAxis == Horizontal {
				it.box.placeMarginBox(x0+it.mainPos, y0+crossPos)
			} else {
				it.box.placeMarginBox(x0+crossPos, y0+it.mainPos)
			}
		}
	}
	p.setFlexBaseline(b, lines)

	p.logger.Debug("Flex container laid out",
		zap.Int("box", int(b.ID)),
		zap.Int("items", len(items)),
		zap.Int("lines", len(lines)),
		zap.Float64("main_size", mainSize),
		zap.Float64("cross_size", crossSize),
	)

	if mainAxis == Horizontal {
		return crossSize
	}
	return mainSize
}

// collectFlexItems gathers in-flow children in order-modified document order.
// Out-of-flow children are laid out at the content origin and skipped.
func (p *layoutPass) collectFlexItems(b *LayoutBox, width float64, height style.AvailableSpace) []*flexItem {
	s := b.Style
	x0, y0 := b.contentOffset(Horizontal), b.contentOffset(Vertical)
	var items []*flexItem
	for _, id := range b.Children {
		child := p.box(id)
		if child.isHidden() {
			p.hideSubtree(id)
			continue
		}
		if child.IsOutOfFlow() {
			p.layoutBox(id, constraints{cbWidth: style.Definite(width), cbHeight: height, shrinkToFit: true})
			child.placeMarginBox(x0, y0)
			continue
		}
		align := child.Style.AlignSelf.Or(s.AlignItems)
		if align == style.AlignNormal {
			align = style.AlignStretch
		}
		if align == style.AlignBaseline && s.FlexDirection.MainAxis() == Vertical {
			align = style.AlignStart
		}
		items = append(items, &flexItem{
			id:     id,
			box:    child,
			grow:   math.Max(0, child.Style.FlexGrow),
			shrink: math.Max(0, child.Style.FlexShrink),
			align:  align,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].box.Style.Order < items[j].box.Style.Order
	})
	return items
}

// calculateFlexBaseSizes resolves edges, flex base sizes and hypothetical
// main sizes. Column items are measured with their cross size fixed first.
func (p *layoutPass) calculateFlexBaseSizes(items []*flexItem, mainAxis Axis, width float64, availMain style.AvailableSpace) {
	crossAxis := mainAxis.Cross()
	cbWidth := style.Definite(width)
	for _, it := range items {
		box := it.box
		st := box.Style
		if box.Mode != ModeText {
			p.calculatePaddingAndBorders(box, cbWidth)
			p.calculateMargins(box, cbWidth)
		} else {
			box.Dimensions = Dimensions{}
		}
		it.pbMain, it.pbCross = box.InnerStatic(mainAxis), box.InnerStatic(crossAxis)
		it.marginMain, it.marginCross = box.Margin.Sum(mainAxis), box.Margin.Sum(crossAxis)
		it.autoMainStart, it.autoMainEnd = marginIsAuto(st, mainAxis)
		it.autoCrossStart, it.autoCrossEnd = marginIsAuto(st, crossAxis)

		if mainAxis == Vertical {
			it.measuredWidth = p.flexItemCrossWidth(it, width)
		}

		basis := st.FlexBasis
		if basis.IsAuto() {
			basis = st.Size(mainAxis)
		}
		if v, ok := sizeFromLength(st, basis, it.pbMain, availMain); ok {
			it.FlexBaseSize = v
		} else if mainAxis == Horizontal {
			it.FlexBaseSize = math.Max(0, p.intrinsicWidth(it.id, MaxContentMode)-it.pbMain)
		} else {
			m := p.Measure(it.id, MeasureConstraint{Available: cbWidth, Mode: DefiniteMode, Size: it.measuredWidth})
			it.FlexBaseSize = math.Max(0, m.Height-it.pbMain)
		}

		it.minMain, it.maxMain = minMaxContent(st, mainAxis, it.pbMain, availMain)
		it.HypotheticalMainSize = clamp(it.FlexBaseSize, it.minMain, it.maxMain)
	}
}

// flexItemCrossWidth is the border-box width of an item in a column container.
func (p *layoutPass) flexItemCrossWidth(it *flexItem, containerWidth float64) float64 {
	st := it.box.Style
	cb := style.Definite(containerWidth)
	if v, ok := sizeFromLength(st, st.Width, it.pbCross, cb); ok {
		return p.clampSize(st, Horizontal, v, it.pbCross, cb) + it.pbCross
	}
	avail := containerWidth - it.marginCross
	if it.align == style.AlignStretch && !it.hasAutoCrossMargin() {
		return p.clampSize(st, Horizontal, avail-it.pbCross, it.pbCross, cb) + it.pbCross
	}
	return p.clampSize(st, Horizontal, p.fitContentWidth(it.id, avail)-it.pbCross, it.pbCross, cb) + it.pbCross
}

func marginIsAuto(s *style.ComputedStyle, axis Axis) (start, end bool) {
	if axis == Horizontal {
		return s.Margin.Left.IsAuto(), s.Margin.Right.IsAuto()
	}
	return s.Margin.Top.IsAuto(), s.Margin.Bottom.IsAuto()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// collectFlexLines breaks items into lines when the next outer hypothetical
// size, gaps included, would overflow limit.
func collectFlexLines(items []*flexItem, wrap style.FlexWrap, limit, gap float64) []*flexLine {
	if wrap == style.FlexNoWrap {
		return []*flexLine{{items: items}}
	}
	var lines []*flexLine
	current := &flexLine{}
	used := 0.0
	for _, it := range items {
		outer := it.outerMain(it.HypotheticalMainSize)
		if len(current.items) > 0 && used+gap+outer > limit+1e-6 {
			lines = append(lines, current)
			current = &flexLine{}
			used = 0
		}
		if len(current.items) > 0 {
			used += gap
		}
		used += outer
		current.items = append(current.items, it)
	}
	return append(lines, current)
}

// resolveFlexibleLengths distributes free space with flex-grow or flex-shrink,
// freezing items that hit their min/max. Every round freezes at least one
// item, so the loop runs at most len(items)+1 times.
func resolveFlexibleLengths(line *flexLine, mainSize, gap float64) {
	items := line.items
	gaps := gap * float64(len(items)-1)
	sumHypothetical := gaps
	for _, it := range items {
		sumHypothetical += it.outerMain(it.HypotheticalMainSize)
	}
	growing := sumHypothetical < mainSize

	for _, it := range items {
		it.Frozen = false
		it.TargetMainSize = it.HypotheticalMainSize
		factor := it.shrink
		if growing {
			factor = it.grow
		}
		if factor == 0 || (growing && it.FlexBaseSize > it.HypotheticalMainSize) || (!growing && it.FlexBaseSize < it.HypotheticalMainSize) {
			it.Frozen = true
		}
	}

	remaining := func() float64 {
		used := gaps
		for _, it := range items {
			if it.Frozen {
				used += it.outerMain(it.TargetMainSize)
			} else {
				used += it.outerMain(it.FlexBaseSize)
			}
		}
		return mainSize - used
	}
	initialFree := remaining()

	for round := 0; round <= len(items); round++ {
		var active []*flexItem
		for _, it := range items {
			if !it.Frozen {
				active = append(active, it)
			}
		}
		if len(active) == 0 {
			break
		}

		free := remaining()
		sumFactors, sumScaled := 0.0, 0.0
		for _, it := range active {
			if growing {
				sumFactors += it.grow
			} else {
				sumFactors += it.shrink
				sumScaled += it.shrink * it.FlexBaseSize
			}
		}
		if sumFactors < 1 {
			if scaled := initialFree * sumFactors; math.Abs(scaled) < math.Abs(free) {
				free = scaled
			}
		}

		totalViolation := 0.0
		for _, it := range active {
			target := it.FlexBaseSize
			switch {
			case growing && sumFactors > 0:
				target += free * it.grow / sumFactors
			case !growing && sumScaled > 0:
				target += free * it.shrink * it.FlexBaseSize / sumScaled
			}
			clamped := math.Max(0, clamp(target, it.minMain, it.maxMain))
			it.violation = clamped - target
			totalViolation += it.violation
			it.TargetMainSize = clamped
		}

		for _, it := range active {
			switch {
			case math.Abs(totalViolation) < 1e-9:
				it.Frozen = true
			case totalViolation > 0 && it.violation > 0:
				it.Frozen = true
			case totalViolation < 0 && it.violation < 0:
				it.Frozen = true
			}
		}
	}
}

// determineCrossSizes computes each item's hypothetical cross size by laying
// it out at its target main size, then each line's cross size from the
// largest outer size, ignoring stretch.
func (p *layoutPass) determineCrossSizes(lines []*flexLine, crossAxis Axis, width float64, availCross style.AvailableSpace) {
	cbWidth := style.Definite(width)
	for _, line := range lines {
		maxOuter, maxAscent, maxDescent := 0.0, 0.0, 0.0
		for _, it := range line.items {
			st := it.box.Style
			it.crossDefinite = false
			if v, ok := sizeFromLength(st, st.Size(crossAxis), it.pbCross, availCross); ok {
				it.crossSize, it.crossDefinite = v, true
			}
			if crossAxis == Vertical {
				m := p.Measure(it.id, MeasureConstraint{Available: cbWidth, Mode: DefiniteMode, Size: it.TargetMainSize + it.pbMain})
				if !it.crossDefinite {
					it.crossSize = m.Height - it.pbCross
				}
				it.hasBaseline = m.HasBaseline
				it.baseline = it.box.Margin.Top + m.Baseline
			} else if !it.crossDefinite {
				it.crossSize = it.measuredWidth - it.pbCross
			}
			lo, hi := minMaxContent(st, crossAxis, it.pbCross, availCross)
			it.crossSize = math.Max(0, clamp(it.crossSize, lo, hi))

			if it.align == style.AlignBaseline && it.hasBaseline {
				maxAscent = math.Max(maxAscent, it.baseline)
				maxDescent = math.Max(maxDescent, it.outerCross()-it.baseline)
				continue
			}
			maxOuter = math.Max(maxOuter, it.outerCross())
		}
		line.maxAscent = maxAscent
		line.CrossSize = math.Max(maxOuter, maxAscent+maxDescent)
	}
}

// alignFlexLines applies align-content: free cross space goes to the lines
// (stretch and normal) or between them. Single-line containers have one line
// spanning the container.
func alignFlexLines(lines []*flexLine, s *style.ComputedStyle, crossSize, crossGap float64) {
	total := crossGap * float64(len(lines)-1)
	for _, line := range lines {
		total += line.CrossSize
	}

	var start, spacing float64
	if s.FlexWrap != style.FlexNoWrap {
		ac := s.AlignContent
		if (ac == style.ContentNormal || ac == style.ContentStretch) && crossSize > total {
			extra := (crossSize - total) / float64(len(lines))
			for _, line := range lines {
				line.CrossSize += extra
			}
			total = crossSize
		}
		start, spacing = calculateAlignmentOffsets(len(lines), total, crossSize, ac)
	}

	pos := start
	for _, line := range lines {
		line.CrossStart = pos
		pos += line.CrossSize + crossGap + spacing
	}
}

// stretchFlexItems sizes stretch-aligned items with an auto cross size to
// their line. Lines of an auto-sized container are content sized, so items
// never stretch past the tallest sibling.
func stretchFlexItems(lines []*flexLine, crossAxis Axis, availCross style.AvailableSpace) {
	for _, line := range lines {
		for _, it := range line.items {
			it.stretched = false
			if it.align != style.AlignStretch || it.crossDefinite || it.hasAutoCrossMargin() {
				continue
			}
			lo, hi := minMaxContent(it.box.Style, crossAxis, it.pbCross, availCross)
			it.crossSize = math.Max(0, clamp(line.CrossSize-it.marginCross-it.pbCross, lo, hi))
			it.stretched = true
		}
	}
}

// alignMainAxis applies auto margins or justify-content along each line.
// Reverse directions mirror the result.
func alignMainAxis(lines []*flexLine, s *style.ComputedStyle, mainSize, gap float64) {
	reverse := s.FlexDirection.IsReverse()
	for _, line := range lines {
		used := gap * float64(len(line.items)-1)
		autoMargins := 0
		for _, it := range line.items {
			used += it.outerMain(it.TargetMainSize)
			if it.autoMainStart {
				autoMargins++
			}
			if it.autoMainEnd {
				autoMargins++
			}
		}

		free := mainSize - used
		var start, spacing, share float64
		if autoMargins > 0 && free > 0 {
			share = free / float64(autoMargins)
		} else {
			start, spacing = calculateAlignmentOffsets(len(line.items), used, mainSize, s.JustifyContent)
		}

		pos := start
		for _, it := range line.items {
			if it.autoMainStart {
				pos += share
			}
			it.mainPos = pos
			pos += it.outerMain(it.TargetMainSize) + gap + spacing
			if it.autoMainEnd {
				pos += share
			}
			if reverse {
				it.mainPos = mainSize - it.mainPos - it.outerMain(it.TargetMainSize)
			}
		}
	}
}

// alignCrossAxis positions items inside their line with auto margins or
// align-self.
func alignCrossAxis(lines []*flexLine, crossAxis Axis) {
	for _, line := range lines {
		for _, it := range line.items {
			outer := it.box.MarginBox().GetSize(crossAxis)
			free := line.CrossSize - outer
			var offset float64
			switch {
			case it.hasAutoCrossMargin():
				if free > 0 {
					switch {
					case it.autoCrossStart && it.autoCrossEnd:
						offset = free / 2
					case it.autoCrossStart:
						offset = free
					}
				}
			case it.align == style.AlignBaseline && it.hasBaseline:
				offset = line.maxAscent - it.baseline
			default:
				offset = selfOffset(it.align, outer, line.CrossSize)
			}
			it.crossPos = line.CrossStart + offset
		}
	}
}

// setFlexBaseline takes the container baseline from the first line: its first
// baseline-aligned item, else its first item.
func (p *layoutPass) setFlexBaseline(b *LayoutBox, lines []*flexLine) {
	if len(lines) == 0 || len(lines[0].items) == 0 {
		return
	}
	pick := lines[0].items[0]
	for _, it := range lines[0].items {
		if it.align == style.AlignBaseline && it.hasBaseline {
			pick = it
			break
		}
	}
	if pick.box.HasBaseline {
		b.Baseline, b.HasBaseline = pick.box.Rect().Y+pick.box.Baseline, true
	}
}
