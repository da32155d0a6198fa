// internal/browser/layout/helpers_test.go
package layout

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Test Helpers --

const (
	testAdvance    = 8.0
	testLineHeight = 20.0
	testAscent     = 16.0
)

// monoText measures every rune testAdvance wide and wraps greedily at spaces.
// Its min-content width is the longest word.
type monoText struct{}

func (monoText) MeasureText(run string, _ FontSpec, availableWidth float64) TextMetrics {
	words := strings.Fields(run)
	if len(words) == 0 {
		return TextMetrics{}
	}
	lines, line, widest := 1, 0.0, 0.0
	for _, w := range words {
		ww := float64(len(w)) * testAdvance
		if line > 0 && line+testAdvance+ww > availableWidth {
			widest = math.Max(widest, line)
			lines++
			line = ww
			continue
		}
		if line > 0 {
			line += testAdvance
		}
		line += ww
	}
	widest = math.Max(widest, line)
	return TextMetrics{Width: widest, Height: float64(lines) * testLineHeight, Baseline: testAscent}
}

// fixedImages serves natural sizes from a map.
type fixedImages map[string]Size

func (f fixedImages) IntrinsicImageSize(resource string) (float64, float64, bool) {
	s, ok := f[resource]
	return s.Width, s.Height, ok
}

var testImages = fixedImages{"photo": {Width: 400, Height: 200}}

// newStyle returns the initial style with display set, then applies mods.
func newStyle(display style.Display, mods ...func(*style.ComputedStyle)) *style.ComputedStyle {
	s := style.DefaultStyle()
	s.Display = display
	for _, mod := range mods {
		mod(s)
	}
	return s
}

func sized(w, h float64) func(*style.ComputedStyle) {
	return func(s *style.ComputedStyle) {
		if w >= 0 {
			s.Width = style.Px(w)
		}
		if h >= 0 {
			s.Height = style.Px(h)
		}
	}
}

func grow(f float64) func(*style.ComputedStyle) {
	return func(s *style.ComputedStyle) { s.FlexGrow = f }
}

func columns(t *testing.T, template string) func(*style.ComputedStyle) {
	t.Helper()
	tmpl, err := style.ParseGridTemplate(template)
	require.NoError(t, err)
	return func(s *style.ComputedStyle) { s.GridTemplateColumns = tmpl }
}

func rows(t *testing.T, template string) func(*style.ComputedStyle) {
	t.Helper()
	tmpl, err := style.ParseGridTemplate(template)
	require.NoError(t, err)
	return func(s *style.ComputedStyle) { s.GridTemplateRows = tmpl }
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewEngine(monoText{}, testImages, opts...)
}

func runLayout(t *testing.T, tree *BoxTree, viewport Size, opts ...Option) {
	t.Helper()
	require.NoError(t, newTestEngine(t, opts...).Layout(context.Background(), tree, viewport))
}

// newTestPass builds a pass over tree for exercising internals directly.
func newTestPass(t *testing.T, tree *BoxTree, viewport Size) *layoutPass {
	t.Helper()
	require.NoError(t, tree.Validate())
	return &layoutPass{
		tree:            tree,
		text:            monoText{},
		images:          testImages,
		cache:           NewMeasureCache(),
		logger:          zaptest.NewLogger(t),
		viewport:        viewport,
		autoRepeatLimit: DefaultAutoRepeatLimit,
		workers:         1,
	}
}

// snapshot captures every border box so two layouts can be compared.
func snapshot(tree *BoxTree) []Rect {
	out := make([]Rect, 0, tree.Len())
	for i := 0; i < tree.Len(); i++ {
		out = append(out, tree.Box(BoxID(i)).Rect())
	}
	return out
}

func assertRect(t *testing.T, want, got Rect, msgAndArgs ...interface{}) {
	t.Helper()
	const delta = 0.01
	require.InDelta(t, want.X, got.X, delta, msgAndArgs...)
	require.InDelta(t, want.Y, got.Y, delta, msgAndArgs...)
	require.InDelta(t, want.Width, got.Width, delta, msgAndArgs...)
	require.InDelta(t, want.Height, got.Height, delta, msgAndArgs...)
}
