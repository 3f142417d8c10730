package blob

import (
	"gonum.org/v1/gonum/stat"

	"github.com/your-org/mva/internal/frame"
)

// correlationReject reports whether rect should be rejected as a shadow
// or lighting artifact: its interior is "too correlated" with the
// reconstructed background across color channels, one of three rules:
//   - the three channels' correlations sum above CorrSumThreshold,
//   - at least two channels exceed CorrHighThreshold,
//   - all three channels exceed CorrLowThreshold.
func correlationReject(cur, bg *frame.Frame, r frame.Rect, cfg Config) bool {
	if cur == nil || bg == nil || cur.C != 3 {
		return false
	}
	var rho [3]float64
	for ch := 0; ch < 3; ch++ {
		rho[ch] = channelCorrelation(cur, bg, r, ch)
	}

	sum := rho[0] + rho[1] + rho[2]
	if sum > cfg.CorrSumThreshold {
		return true
	}

	high := 0
	low := 0
	for _, v := range rho {
		if v > cfg.CorrHighThreshold {
			high++
		}
		if v > cfg.CorrLowThreshold {
			low++
		}
	}
	return high >= 2 || low == 3
}

func channelCorrelation(cur, bg *frame.Frame, r frame.Rect, ch int) float64 {
	n := r.W * r.H
	if n == 0 {
		return 0
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			idx := (y*cur.W + x) * cur.C
			xs = append(xs, float64(cur.Pixels[idx+ch]))
			ys = append(ys, float64(bg.Pixels[idx+ch]))
		}
	}
	if len(xs) < 2 {
		return 0
	}
	c := stat.Correlation(xs, ys, nil)
	if c != c { // NaN guard (zero-variance rectangle)
		return 0
	}
	return c
}
