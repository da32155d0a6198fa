//go:build layoutdebug

package layout

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

type brokenText struct{ value float64 }

func (b brokenText) MeasureText(string, FontSpec, float64) TextMetrics {
	return TextMetrics{Width: b.value, Height: b.value}
}

func TestOracleValuesPanic(t *testing.T) {
	tree := NewBoxTree()
	root := tree.Add(NoBox, ModeBlock, newStyle(style.DisplayBlock))
	tree.AddText(root, "broken", newStyle(style.DisplayInline))

	engine := NewEngine(brokenText{value: math.NaN()}, nil)
	assert.PanicsWithValue(t, "layout: oracle returned text width NaN for box 1", func() {
		_ = engine.Layout(context.Background(), tree, viewport)
	})
}
