// internal/browser/layout/grid_inspect.go
package layout

import (
	"fmt"
	"math"
	"sort"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// TrackInfo is the resolved geometry of one explicit grid track, relative to
// the container's content box.
type TrackInfo struct {
	Position  float64
	Size      float64
	Collapsed bool
	// LineNames are the names of the track's start line.
	LineNames []string
}

// ResolveTracks expands and sizes the explicit tracks of an empty grid
// container with style s along axis, given a definite content size. Intrinsic
// tracks size as if no item contributed to them.
func (e *Engine) ResolveTracks(s *style.ComputedStyle, axis Axis, available float64) ([]TrackInfo, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil style", ErrInvalidTree)
	}
	if math.IsNaN(available) || math.IsInf(available, 0) || available < 0 {
		return nil, fmt.Errorf("available size must be finite and non-negative, got %v", available)
	}

	tree := NewBoxTree()
	id := tree.Add(NoBox, ModeGrid, s)
	p := &layoutPass{
		tree:            tree,
		text:            e.text,
		images:          e.images,
		cache:           NewMeasureCache(),
		logger:          e.logger,
		viewport:        Size{Width: available, Height: available},
		autoRepeatLimit: e.autoRepeatLimit,
		workers:         1,
	}

	space := style.Definite(available)
	align := s.JustifyContent
	if axis == Vertical {
		align = s.AlignContent
	}
	ts := p.buildTrackSet(p.box(id), axis, space, s.Gap(axis).ResolveAgainst(space, 0))
	ts.collapseEmpty(nil)
	z := &trackSizer{
		ts: ts, available: space, mode: DefiniteMode, align: align,
		contrib: func(*gridItem, SizingMode) float64 { return 0 },
	}
	z.run()
	ts.position(available, align)

	names := make(map[int][]string)
	for name, lines := range ts.names {
		for _, l := range lines {
			names[l] = append(names[l], name)
		}
	}
	out := make([]TrackInfo, len(ts.tracks))
	for i, t := range ts.tracks {
		lineNames := names[i+1]
		sort.Strings(lineNames)
		out[i] = TrackInfo{Position: t.Position, Size: t.Size, Collapsed: t.Collapsed, LineNames: lineNames}
	}
	return out, nil
}
