// internal/scene/images.go
package scene

import (
	"fmt"
	"math"

	"github.com/xkilldash9x/boxlayout/internal/browser/layout"
)

// ImageTable maps image resources to their natural sizes.
type ImageTable map[string]layout.Size

var _ layout.ImageSizer = ImageTable(nil)

// Set records a natural size. Both sides must be finite and positive.
func (t ImageTable) Set(resource string, width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("image %q: invalid natural size %vx%v", resource, width, height)
		}
	}
	t[resource] = layout.Size{Width: width, Height: height}
	return nil
}

// IntrinsicImageSize implements layout.ImageSizer.
func (t ImageTable) IntrinsicImageSize(resource string) (float64, float64, bool) {
	s, ok := t[resource]
	return s.Width, s.Height, ok
}
