// Package visualinfo augments a color-based foreground mask with gradient
// information, recovering low-contrast objects (e.g. dark clothing against
// a dark background) that the background model alone classifies as
// background.
package visualinfo

import "github.com/your-org/mva/internal/imageops"

// GradientThreshold is the magnitude above which a pixel counts as an edge.
const GradientThreshold = 145

// VisualInfo caches the background's own gradient-edge map across calls:
// the caller only asks for it to be refreshed on "full" frames (see
// Augment), and freeze-only frames reuse whatever was last computed.
type VisualInfo struct {
	bgGrad     imageops.Mask
	haveBgGrad bool
}

func New() *VisualInfo { return &VisualInfo{} }

// Augment blurs gray (and, on full frames, bgGray) with a 3x3 box filter,
// computes Scharr gradient magnitude on each, thresholds both, and keeps
// only the edges present in the current frame but absent from the
// background (grad_diff_mask). That mask is median-blurred on its own and
// returned alongside the foreground decision ORed with it. full controls
// whether bgGray's gradient is recomputed this call or the last cached one
// is reused; the pipeline paces full at update_back_interval, the same
// cadence the background model itself uses to decide learn-vs-freeze.
func (vi *VisualInfo) Augment(gray, bgGray, fgMask imageops.Mask, full bool) (combined, gradDiff imageops.Mask) {
	blurredGray := imageops.BoxBlur3x3(gray)
	fgGrad := imageops.Threshold(imageops.GradientMagnitude(blurredGray), GradientThreshold)
	if full || !vi.haveBgGrad {
		blurredBg := imageops.BoxBlur3x3(bgGray)
		vi.bgGrad = imageops.Threshold(imageops.GradientMagnitude(blurredBg), GradientThreshold)
		vi.haveBgGrad = true
	}
	gradDiff = imageops.MedianBlur(imageops.AndNot(fgGrad, vi.bgGrad), 1)
	combined = imageops.Or(fgMask, gradDiff)
	return combined, gradDiff
}
