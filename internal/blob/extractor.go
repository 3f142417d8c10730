// Package blob turns a binary foreground mask into the filtered, merged,
// shadow-refined rectangle list the tracker associates across frames, plus
// the subset of rectangles considered part of the static scene long enough
// to be "stable".
package blob

import (
	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/imageops"
)

// Result is one frame's extraction output.
type Result struct {
	Rects       []frame.Rect
	StableRects []frame.Rect
}

// Extractor runs the morphology -> contour -> filter -> merge -> shadow
// pipeline and carries the stable-rectangle tracker's state across calls.
type Extractor struct {
	cfg     Config
	charReg []frame.Rect
	stable  *stableTracker
}

func NewExtractor(cfg Config, charRegionRects []frame.Rect) *Extractor {
	return &Extractor{cfg: cfg, charReg: charRegionRects, stable: newStableTracker(cfg)}
}

// Process extracts rectangles from mask. curColor/bgColor (3-channel) are
// required only when CorrRatioCheck, or RefineByGrad together with
// RefineByColor, is enabled; gradDiff is required only when RefineByGrad
// is enabled.
func (e *Extractor) Process(mask imageops.Mask, curColor, bgColor *frame.Frame, gradDiff imageops.Mask) Result {
	cleaned := imageops.ErodeEllipse(imageops.DilateEllipse(imageops.MedianBlur(mask, 1), 3, 3), 1, 1)

	rects := imageops.BoundingRects(cleaned)
	rects = e.filter(rects, curColor, bgColor)

	if e.cfg.MergeVertical {
		rects = mergeVertical(rects)
	}
	if e.cfg.MergeHorizontal {
		rects = mergeHorizontal(rects)
	}
	if e.cfg.MergeBigSmall {
		rects = mergeBigSmall(rects)
	}

	if e.cfg.RefineByShape || e.cfg.RefineByGrad {
		for i, r := range rects {
			if e.cfg.RefineByShape {
				r = refineByShape(cleaned, r)
			}
			if e.cfg.RefineByGrad && gradDiff.Pixels != nil {
				colorCur, colorBg := curColor, bgColor
				if !e.cfg.RefineByColor {
					colorCur, colorBg = nil, nil
				}
				r = refineByGrad(gradDiff, r, colorCur, colorBg)
			}
			rects[i] = r
		}
	}
	rects = dropEmpty(rects)
	// fit-to-foreground always runs last, tightening whatever survived
	// merging/refinement to the actual mask extent.
	for i, r := range rects {
		rects[i] = fitToForeground(cleaned, r)
	}

	stable := e.stable.update(rects)
	return Result{Rects: rects, StableRects: stable}
}

func (e *Extractor) filter(rects []frame.Rect, curColor, bgColor *frame.Frame) []frame.Rect {
	out := rects[:0]
	for _, r := range rects {
		if r.Area() < e.cfg.MinArea {
			continue
		}
		if e.cfg.CharRegionEnabled && e.inCharRegion(r) {
			continue
		}
		if r.H > 0 && float64(r.Area())/float64(r.H) < e.cfg.MinAvgWidth {
			continue
		}
		if r.W > 0 && float64(r.Area())/float64(r.W) < e.cfg.MinAvgHeight {
			continue
		}
		if e.cfg.CorrRatioCheck && correlationReject(curColor, bgColor, r, e.cfg) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e *Extractor) inCharRegion(r frame.Rect) bool {
	for _, cr := range e.charReg {
		inter := r.Intersect(cr)
		if inter.Area() == 0 {
			continue
		}
		if float64(inter.Area())/float64(r.Area()) >= e.cfg.CharRegionRatio {
			return true
		}
	}
	return false
}

func dropEmpty(rects []frame.Rect) []frame.Rect {
	out := rects[:0]
	for _, r := range rects {
		if r.H > 0 && r.W > 0 {
			out = append(out, r)
		}
	}
	return out
}
