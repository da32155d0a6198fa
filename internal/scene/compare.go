// internal/scene/compare.go
package scene

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// CompareOptions tunes snapshot comparison.
type CompareOptions struct {
	// Tolerance is the largest difference in px still treated as equal.
	Tolerance float64
	// IgnoreBaselines skips baseline values, which depend on font metrics.
	IgnoreBaselines bool
	// IgnoreIDs matches boxes by position in the tree only.
	IgnoreIDs bool
}

// DefaultCompareOptions allows for the rounding done by Snapshot.
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{Tolerance: 0.01}
}

// ComparisonResult reports whether two snapshots match. Diff is in go-cmp's
// format, "-" for the expected side and "+" for the actual one.
type ComparisonResult struct {
	Equivalent bool
	Diff       string
	// Mismatches counts the boxes with at least one differing field.
	Mismatches int
}

// Compare checks actual geometry against expected.
func Compare(expected, actual *BoxSnapshot, opts CompareOptions) ComparisonResult {
	tol := opts.Tolerance
	if !(tol > 0) {
		tol = 0
	}
	cmpOpts := cmp.Options{
		cmpopts.EquateApprox(0, tol),
		cmpopts.EquateEmpty(),
	}
	if opts.IgnoreBaselines {
		cmpOpts = append(cmpOpts, cmpopts.IgnoreFields(BoxSnapshot{}, "Baseline"))
	}
	if opts.IgnoreIDs {
		cmpOpts = append(cmpOpts, cmpopts.IgnoreFields(BoxSnapshot{}, "ID"))
	}

	diff := cmp.Diff(expected, actual, cmpOpts...)
	if diff == "" {
		return ComparisonResult{Equivalent: true}
	}
	return ComparisonResult{Diff: diff, Mismatches: countMismatches(expected, actual, cmpOpts)}
}

// countMismatches walks both trees in step, counting boxes whose own fields
// differ. Missing or extra subtrees count every box in them.
func countMismatches(a, b *BoxSnapshot, opts cmp.Options) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return size(b)
	case b == nil:
		return size(a)
	}

	n := 0
	own := append(cmp.Options{cmpopts.IgnoreFields(BoxSnapshot{}, "Children")}, opts...)
	if !cmp.Equal(*a, *b, own...) {
		n++
	}
	for i := 0; i < max(len(a.Children), len(b.Children)); i++ {
		var ca, cb *BoxSnapshot
		if i < len(a.Children) {
			ca = a.Children[i]
		}
		if i < len(b.Children) {
			cb = b.Children[i]
		}
		n += countMismatches(ca, cb, opts)
	}
	return n
}

func size(s *BoxSnapshot) int {
	n := 1
	for _, c := range s.Children {
		n += size(c)
	}
	return n
}

// ReadJSON decodes a snapshot written by WriteJSON.
func ReadJSON(r io.Reader) (*BoxSnapshot, error) {
	var snap BoxSnapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	if strings.TrimSpace(snap.Mode) == "" {
		return nil, errors.New("invalid snapshot: root box has no mode")
	}
	return &snap, nil
}
