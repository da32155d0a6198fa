// internal/scene/snapshot.go
package scene

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-runewidth"

	"github.com/xkilldash9x/boxlayout/internal/browser/layout"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BoxSnapshot is the laid out geometry of one box and its subtree.
type BoxSnapshot struct {
	ID       int            `json:"id"`
	Label    string         `json:"label,omitempty"`
	Mode     string         `json:"mode"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Baseline *float64       `json:"baseline,omitempty"`
	Text     string         `json:"text,omitempty"`
	Children []*BoxSnapshot `json:"children,omitempty"`
}

// Snapshot captures tree geometry rounded to hundredths of a pixel. With
// absolute set, positions are in viewport coordinates instead of relative to
// the parent's border box.
func Snapshot(tree *layout.BoxTree, absolute bool) *BoxSnapshot {
	var build func(id layout.BoxID) *BoxSnapshot
	build = func(id layout.BoxID) *BoxSnapshot {
		b := tree.Box(id)
		r := b.Rect()
		if absolute {
			r = tree.AbsoluteRect(id)
		}
		snap := &BoxSnapshot{
			ID:     int(id),
			Label:  b.Label,
			Mode:   b.Mode.String(),
			X:      round2(r.X),
			Y:      round2(r.Y),
			Width:  round2(r.Width),
			Height: round2(r.Height),
			Text:   b.Text,
		}
		if b.HasBaseline {
			v := round2(b.Baseline)
			snap.Baseline = &v
		}
		for _, c := range b.Children {
			snap.Children = append(snap.Children, build(c))
		}
		return snap
	}
	if tree.Box(tree.Root()) == nil {
		return nil
	}
	return build(tree.Root())
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0 // no negative zero in output
	}
	return r
}

// WriteJSON writes the snapshot as indented JSON.
func WriteJSON(w io.Writer, snap *BoxSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

const labelColumn = 28

// WriteTable writes one line per box, indented by depth.
func WriteTable(w io.Writer, snap *BoxSnapshot) error {
	if snap == nil {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(runewidth.FillRight("BOX", labelColumn))
	sb.WriteString(fmt.Sprintf("%-9s %9s %9s %9s %9s\n", "MODE", "X", "Y", "WIDTH", "HEIGHT"))

	var walk func(s *BoxSnapshot, depth int)
	walk = func(s *BoxSnapshot, depth int) {
		name := s.Label
		if name == "" {
			name = fmt.Sprintf("#%d", s.ID)
		}
		if s.Text != "" {
			name += " " + strconv.Quote(s.Text)
		}
		cell := runewidth.Truncate(strings.Repeat("  ", depth)+name, labelColumn-1, "…")
		sb.WriteString(runewidth.FillRight(cell, labelColumn))
		sb.WriteString(fmt.Sprintf("%-9s %9.2f %9.2f %9.2f %9.2f\n", s.Mode, s.X, s.Y, s.Width, s.Height))
		for _, c := range s.Children {
			walk(c, depth+1)
		}
	}
	walk(snap, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}
