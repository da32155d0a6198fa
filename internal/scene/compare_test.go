package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baselineOf(v float64) *float64 { return &v }

func sampleSnapshot() *BoxSnapshot {
	return &BoxSnapshot{
		ID: 0, Label: "root", Mode: "block", Width: 300, Height: 50,
		Children: []*BoxSnapshot{
			{ID: 1, Label: "a", Mode: "block", Width: 300, Height: 20, Baseline: baselineOf(14.4)},
			{ID: 2, Label: "b", Mode: "flex", Y: 20, Width: 300, Height: 30},
		},
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(s *BoxSnapshot)
		opts           CompareOptions
		wantEqual      bool
		wantMismatches int
	}{
		{name: "Identical", mutate: func(*BoxSnapshot) {}, opts: DefaultCompareOptions(), wantEqual: true},
		{
			name:      "Within Tolerance",
			mutate:    func(s *BoxSnapshot) { s.Children[1].Y = 20.005 },
			opts:      DefaultCompareOptions(),
			wantEqual: true,
		},
		{
			name:           "Moved Box",
			mutate:         func(s *BoxSnapshot) { s.Children[1].Y = 21 },
			opts:           DefaultCompareOptions(),
			wantMismatches: 1,
		},
		{
			name:           "Resized Root And Child",
			mutate:         func(s *BoxSnapshot) { s.Width, s.Children[0].Width = 310, 310 },
			opts:           DefaultCompareOptions(),
			wantMismatches: 2,
		},
		{
			name:           "Missing Child",
			mutate:         func(s *BoxSnapshot) { s.Children = s.Children[:1] },
			opts:           DefaultCompareOptions(),
			wantMismatches: 1,
		},
		{
			name:      "Baselines Ignored",
			mutate:    func(s *BoxSnapshot) { s.Children[0].Baseline = baselineOf(12) },
			opts:      CompareOptions{Tolerance: 0.01, IgnoreBaselines: true},
			wantEqual: true,
		},
		{
			name:      "IDs Ignored",
			mutate:    func(s *BoxSnapshot) { s.Children[0].ID = 7 },
			opts:      CompareOptions{IgnoreIDs: true},
			wantEqual: true,
		},
		{
			name:      "Nil And Empty Children Match",
			mutate:    func(s *BoxSnapshot) { s.Children[0].Children = []*BoxSnapshot{} },
			opts:      DefaultCompareOptions(),
			wantEqual: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := sampleSnapshot()
			tt.mutate(actual)
			got := Compare(sampleSnapshot(), actual, tt.opts)
			assert.Equal(t, tt.wantEqual, got.Equivalent, got.Diff)
			assert.Equal(t, tt.wantMismatches, got.Mismatches)
			if !tt.wantEqual {
				assert.NotEmpty(t, got.Diff)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSnapshot()))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.True(t, Compare(sampleSnapshot(), got, DefaultCompareOptions()).Equivalent)

	_, err = ReadJSON(strings.NewReader(`{"mode": "block", "colour": 1}`))
	assert.ErrorContains(t, err, "invalid snapshot")

	_, err = ReadJSON(strings.NewReader(`{"id": 0}`))
	assert.ErrorContains(t, err, "no mode")
}
