package blob

import "github.com/your-org/mva/internal/frame"

// mergeVertical merges pairs of rectangles that are horizontally aligned
// (their x-ranges overlap substantially) into a single taller rectangle —
// e.g. a pedestrian split into a torso blob and a legs blob by a weak
// foreground gap.
func mergeVertical(rects []frame.Rect) []frame.Rect {
	return mergeFixedPoint(rects, func(a, b frame.Rect) bool {
		ratioA, ratioB := horizontalOverlapRatio(a, b)
		if ratioA < 0.75 || ratioB < 0.75 {
			return false
		}
		u := a.Union(b)
		return float64(u.H) <= 1.75*float64(u.W)
	})
}

// mergeHorizontal merges pairs of rectangles that are vertically aligned
// (their y-ranges overlap substantially) into a single wider rectangle.
func mergeHorizontal(rects []frame.Rect) []frame.Rect {
	return mergeFixedPoint(rects, func(a, b frame.Rect) bool {
		ratioA, ratioB := verticalOverlapRatio(a, b)
		if ratioA < 0.6 || ratioB < 0.6 {
			return false
		}
		u := a.Union(b)
		return float64(u.W) <= 2.5*float64(u.H)
	})
}

// mergeBigSmall absorbs a rectangle that is mostly contained in a larger
// one (e.g. a reflection or a limb detected separately from the torso).
func mergeBigSmall(rects []frame.Rect) []frame.Rect {
	return mergeFixedPoint(rects, func(a, b frame.Rect) bool {
		inter := a.Intersect(b)
		if inter.Area() == 0 {
			return false
		}
		big, small := a, b
		if small.Area() > big.Area() {
			big, small = small, big
		}
		ia := float64(inter.Area())
		return ia >= 0.8*float64(big.Area()) || ia >= 0.7*float64(small.Area())
	})
}

// horizontalOverlapRatio returns, for two rectangles, the fraction of each
// one's width covered by their horizontal (x-axis) intersection.
func horizontalOverlapRatio(a, b frame.Rect) (float64, float64) {
	lo := maxInt(a.X, b.X)
	hi := minInt(a.Right(), b.Right())
	overlap := hi - lo
	if overlap <= 0 {
		return 0, 0
	}
	return float64(overlap) / float64(a.W), float64(overlap) / float64(b.W)
}

// verticalOverlapRatio is horizontalOverlapRatio's y-axis counterpart.
func verticalOverlapRatio(a, b frame.Rect) (float64, float64) {
	lo := maxInt(a.Y, b.Y)
	hi := minInt(a.Bottom(), b.Bottom())
	overlap := hi - lo
	if overlap <= 0 {
		return 0, 0
	}
	return float64(overlap) / float64(a.H), float64(overlap) / float64(b.H)
}

// mergeFixedPoint repeatedly scans for the first mergeable pair under
// shouldMerge and unions it, until no pair qualifies.
func mergeFixedPoint(rects []frame.Rect, shouldMerge func(a, b frame.Rect) bool) []frame.Rect {
	out := append([]frame.Rect(nil), rects...)
	for {
		mergedAny := false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if !shouldMerge(out[i], out[j]) {
					continue
				}
				out[i] = out[i].Union(out[j])
				out = append(out[:j], out[j+1:]...)
				mergedAny = true
				break
			}
			if mergedAny {
				break
			}
		}
		if !mergedAny {
			return out
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
