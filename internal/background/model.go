// Package background implements two interchangeable per-pixel background
// models: a Mixture-of-Gaussians model and a ViBe sample-bank model. Both
// satisfy Model so VisualInfo and the pipeline can swap between them
// without caring which is active.
package background

import "github.com/your-org/mva/internal/frame"

// Model is the shared interface over the background engines.
type Model interface {
	// Init allocates per-pixel state sized to the given frame and resets
	// the frame counter.
	Init(f *frame.Frame) error
	// Update classifies and (outside freeze) updates the model, returning
	// a binary foreground mask (one byte per pixel, 0 or 255) at frame
	// resolution and a reconstructed background frame.
	Update(f *frame.Frame, freeze []frame.Rect) (fgMask []byte, back *frame.Frame, err error)
	// FrameCount returns the number of Update calls so far, capped at 1000.
	FrameCount() int
	Reset()
}

// buildFreezeMask rasterizes the freeze rectangles into a per-pixel
// boolean mask sized w*h; pixels inside any rectangle are frozen (read
// classification only, no model update).
func buildFreezeMask(w, h int, freeze []frame.Rect) []bool {
	if len(freeze) == 0 {
		return nil
	}
	mask := make([]bool, w*h)
	for _, r := range freeze {
		x0, y0 := clamp(r.X, 0, w), clamp(r.Y, 0, h)
		x1, y1 := clamp(r.Right(), 0, w), clamp(r.Bottom(), 0, h)
		for y := y0; y < y1; y++ {
			row := y * w
			for x := x0; x < x1; x++ {
				mask[row+x] = true
			}
		}
	}
	return mask
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
