// internal/browser/text/measurer.go
package text

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/mattn/go-runewidth"

	"github.com/xkilldash9x/boxlayout/internal/browser/layout"
)

// Approximate font metrics, as fractions of the font size.
const (
	ascentRatio   = 0.8
	monospaceEms  = 0.6
	fitTolerance  = 1e-6
	monospaceName = "monospace"
)

// Options configures the approximate metrics used when a run's font leaves a
// value unset.
type Options struct {
	// FontSize in px.
	FontSize float64
	// LineHeight as a multiple of the font size.
	LineHeight float64
	// AdvanceRatio is the width of one terminal cell in ems.
	AdvanceRatio float64
	FontFamily   string
}

// DefaultOptions returns a 16px font with a 1.2 line height and half-em cells.
func DefaultOptions() Options {
	return Options{FontSize: 16, LineHeight: 1.2, AdvanceRatio: 0.5, FontFamily: "sans-serif"}
}

// Measurer is a deterministic text measurer. Runs are split into words with
// Unicode word segmentation, each cell of a word's display width is one
// advance wide, and lines break greedily at white space. Runs of white space
// collapse to a single space.
type Measurer struct {
	opts Options
}

var _ layout.TextMeasurer = (*Measurer)(nil)

// NewMeasurer returns a measurer. Non-positive options fall back to the
// defaults.
func NewMeasurer(opts Options) *Measurer {
	def := DefaultOptions()
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = def.LineHeight
	}
	if opts.AdvanceRatio <= 0 {
		opts.AdvanceRatio = def.AdvanceRatio
	}
	if opts.FontFamily == "" {
		opts.FontFamily = def.FontFamily
	}
	return &Measurer{opts: opts}
}

// unit is a run of non-space segments: the smallest piece a line holds.
type unit struct {
	start int
	cells int
}

// MeasureText implements layout.TextMeasurer.
func (m *Measurer) MeasureText(run string, font layout.FontSpec, availableWidth float64) layout.TextMetrics {
	units := segment(run)
	if len(units) == 0 {
		return layout.TextMetrics{}
	}

	size := font.Size
	if size <= 0 {
		size = m.opts.FontSize
	}
	lineHeight := font.LineHeight
	if lineHeight <= 0 {
		lineHeight = size * m.opts.LineHeight
	}
	advance := size * m.advanceRatio(font.Family)

	var breaks []int
	lines, line, widest := 1, 0.0, 0.0
	for i, u := range units {
		w := float64(u.cells) * advance
		if i > 0 && line+advance+w > availableWidth+fitTolerance {
			widest = max(widest, line)
			breaks = append(breaks, u.start)
			lines++
			line = w
			continue
		}
		if i > 0 {
			line += advance
		}
		line += w
	}
	widest = max(widest, line)

	return layout.TextMetrics{
		Width:      widest,
		Height:     float64(lines) * lineHeight,
		Baseline:   (lineHeight-size)/2 + size*ascentRatio,
		LineBreaks: breaks,
	}
}

func (m *Measurer) advanceRatio(family string) float64 {
	if family == "" {
		family = m.opts.FontFamily
	}
	if strings.EqualFold(strings.TrimSpace(family), monospaceName) {
		return max(m.opts.AdvanceRatio, monospaceEms)
	}
	return m.opts.AdvanceRatio
}

// segment groups word segments into breakable units. White space separates
// units; punctuation stays attached to its word.
func segment(run string) []unit {
	var units []unit
	open := false
	seg := words.FromString(run)
	for seg.Next() {
		value := seg.Value()
		if isSpace(value) {
			open = false
			continue
		}
		if !open {
			units = append(units, unit{start: seg.Start()})
			open = true
		}
		units[len(units)-1].cells += runewidth.StringWidth(value)
	}
	return units
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
