// internal/browser/layout/align.go
package layout

import (
	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// calculateAlignmentOffsets is a helper for justify-content and align-content,
// shared by flex lines and grid tracks. spacing is added between consecutive
// items on top of any gap. Negative free space keeps end and center alignment
// (content overflows at the start) and turns the distributed values into
// their fallbacks.
func calculateAlignmentOffsets(itemCount int, totalSize, availableSize float64, alignment style.ContentAlignment) (startOffset, spacing float64) {
	freeSpace := availableSize - totalSize
	if freeSpace > -0.001 && freeSpace < 0.001 {
		return 0, 0
	}
	if freeSpace < 0 {
		switch alignment {
		case style.ContentEnd:
			return freeSpace, 0
		case style.ContentCenter, style.ContentSpaceAround, style.ContentSpaceEvenly:
			return freeSpace / 2.0, 0
		}
		return 0, 0
	}

	switch alignment {
	case style.ContentEnd:
		startOffset = freeSpace
	case style.ContentCenter:
		startOffset = freeSpace / 2.0
	case style.ContentSpaceBetween:
		if itemCount > 1 {
			spacing = freeSpace / float64(itemCount-1)
		}
	case style.ContentSpaceAround:
		if itemCount > 0 {
			spacing = freeSpace / float64(itemCount)
			startOffset = spacing / 2.0
		} else {
			startOffset = freeSpace / 2.0
		}
	case style.ContentSpaceEvenly:
		if itemCount > 0 {
			spacing = freeSpace / float64(itemCount+1)
			startOffset = spacing
		} else {
			startOffset = freeSpace / 2.0
		}
	}
	// Start, Normal and Stretch pack at the start; stretching is done by the caller.
	return startOffset, spacing
}

// selfOffset positions an item of outerSize inside space along one axis.
// Stretch and baseline resolve to start here; callers handle them first.
func selfOffset(align style.ItemAlignment, outerSize, space float64) float64 {
	switch align {
	case style.AlignEnd:
		return space - outerSize
	case style.AlignCenter:
		return (space - outerSize) / 2.0
	}
	return 0
}
