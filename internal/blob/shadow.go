package blob

import (
	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/imageops"
)

// narrowRunRatio is the row-run-width fraction below which a row is
// considered shadow-narrow for the by-shape refinement.
const narrowRunRatio = 0.3

// shadowZeroRunRatio is the zero-run-length fraction of a row above which
// the row is considered a shadow row for the by-gradient refinement.
const shadowZeroRunRatio = 0.6

// shadowColorRatioTolerance is the max spread allowed between a row's
// per-channel current/background intensity ratios for the row to count as
// a uniformly-attenuated (shadow-colored) row under the optional
// color-ratio support.
const shadowColorRatioTolerance = 0.15

// shadowColorRatioMax is the ratio ceiling: a row lit the same as the
// background (ratio ~1) or brighter isn't a shadow candidate.
const shadowColorRatioMax = 0.92

// refineByShape trims rows from the top and bottom of r whose foreground
// run (within mask) is narrow relative to r's width, stopping at the
// first row wide enough to be the real object.
func refineByShape(mask imageops.Mask, r frame.Rect) frame.Rect {
	top, bottom := r.Y, r.Bottom()-1
	for top <= bottom {
		lo, hi, found := rowRun(mask, r, top)
		if found && hi-lo+1 >= int(narrowRunRatio*float64(r.W)) {
			break
		}
		top++
	}
	for bottom >= top {
		lo, hi, found := rowRun(mask, r, bottom)
		if found && hi-lo+1 >= int(narrowRunRatio*float64(r.W)) {
			break
		}
		bottom--
	}
	return trimmedRows(r, top, bottom)
}

// refineByGrad trims leading/trailing rows whose largest zero-run in
// gradMask (the gradient-difference mask) dominates the row, a signature
// of cast shadows having weak internal gradient relative to the true
// object boundary. When curColor/bgColor are non-nil, a row also counts as
// shadow if its per-channel current/background intensity ratio is both
// uniformly dark and consistent across channels (the color-ratio support
// named alongside the zero-run rule).
func refineByGrad(gradMask imageops.Mask, r frame.Rect, curColor, bgColor *frame.Frame) frame.Rect {
	top, bottom := r.Y, r.Bottom()-1
	for top <= bottom && isShadowRow(gradMask, r, top, curColor, bgColor) {
		top++
	}
	for bottom >= top && isShadowRow(gradMask, r, bottom, curColor, bgColor) {
		bottom--
	}
	return trimmedRows(r, top, bottom)
}

// fitToForeground tightens r to the actual bounding box of non-zero
// pixels in mask within r, undoing any over-inclusive morphology padding.
func fitToForeground(mask imageops.Mask, r frame.Rect) frame.Rect {
	minX, minY := r.Right(), r.Bottom()
	maxX, maxY := r.X-1, r.Y-1
	any := false
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if mask.At(x, y) == 0 {
				continue
			}
			any = true
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if !any {
		return r
	}
	return frame.Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}

func rowRun(mask imageops.Mask, r frame.Rect, y int) (lo, hi int, found bool) {
	lo, hi = -1, -1
	for x := r.X; x < r.Right(); x++ {
		if mask.At(x, y) != 0 {
			if lo < 0 {
				lo = x
			}
			hi = x
		}
	}
	return lo, hi, lo >= 0
}

// isShadowRow reports whether row y's single largest run of zero pixels
// in gradMask covers at least shadowZeroRunRatio of r's width, or (when
// curColor/bgColor are supplied) whether the row is uniformly darkened
// relative to the background across all three channels.
func isShadowRow(gradMask imageops.Mask, r frame.Rect, y int, curColor, bgColor *frame.Frame) bool {
	best, cur := 0, 0
	for x := r.X; x < r.Right(); x++ {
		if gradMask.At(x, y) == 0 {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	if best >= int(shadowZeroRunRatio*float64(r.W)) {
		return true
	}
	if curColor == nil || bgColor == nil {
		return false
	}
	return rowColorRatioShadow(curColor, bgColor, r, y)
}

// rowColorRatioShadow reports whether row y's mean per-channel
// current/background intensity ratio is both below shadowColorRatioMax
// and consistent (within shadowColorRatioTolerance) across B, G, and R,
// the signature of a cast shadow attenuating every channel roughly
// equally rather than changing the surface's underlying color.
func rowColorRatioShadow(curColor, bgColor *frame.Frame, r frame.Rect, y int) bool {
	if curColor.C != 3 || bgColor.C != 3 {
		return false
	}
	var sum, n [3]float64
	for x := r.X; x < r.Right(); x++ {
		idx := (y*curColor.W + x) * curColor.C
		for c := 0; c < 3; c++ {
			bg := float64(bgColor.Pixels[idx+c])
			if bg < 1 {
				continue
			}
			sum[c] += float64(curColor.Pixels[idx+c]) / bg
			n[c]++
		}
	}
	var ratio [3]float64
	for c := 0; c < 3; c++ {
		if n[c] == 0 {
			return false
		}
		ratio[c] = sum[c] / n[c]
	}
	lo, hi := ratio[0], ratio[0]
	for _, v := range ratio[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi <= shadowColorRatioMax && hi-lo <= shadowColorRatioTolerance
}

func trimmedRows(r frame.Rect, top, bottom int) frame.Rect {
	if top > bottom {
		return frame.Rect{X: r.X, Y: r.Y, W: r.W, H: 0}
	}
	return frame.Rect{X: r.X, Y: top, W: r.W, H: bottom - top + 1}
}
