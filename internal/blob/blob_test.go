package blob

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/imageops"
)

func rectMask(w, h int, rects ...frame.Rect) imageops.Mask {
	m := imageops.NewMask(w, h)
	for _, r := range rects {
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				m.Pixels[y*w+x] = 255
			}
		}
	}
	return m
}

func TestExtractorFiltersTinyBlobsAndEmitsOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeVertical, cfg.MergeHorizontal, cfg.MergeBigSmall = false, false, false
	e := NewExtractor(cfg, nil)

	mask := rectMask(100, 100, frame.Rect{X: 20, Y: 20, W: 30, H: 30}, frame.Rect{X: 1, Y: 1, W: 2, H: 2})
	res := e.Process(mask, nil, nil, imageops.Mask{})
	require.Len(t, res.Rects, 1)
}

func TestMergeVerticalJoinsAlignedStack(t *testing.T) {
	a := frame.Rect{X: 10, Y: 10, W: 20, H: 15}
	b := frame.Rect{X: 11, Y: 25, W: 19, H: 15}
	merged := mergeVertical([]frame.Rect{a, b})
	require.Len(t, merged, 1)
	require.Equal(t, 30, merged[0].H)
}

func TestMergeBigSmallAbsorbsContained(t *testing.T) {
	big := frame.Rect{X: 0, Y: 0, W: 100, H: 100}
	small := frame.Rect{X: 10, Y: 10, W: 10, H: 10}
	merged := mergeBigSmall([]frame.Rect{big, small})
	require.Len(t, merged, 1)
	require.Equal(t, big, merged[0])
}

func TestStableTrackerPromotesRepeatedMatches(t *testing.T) {
	st := newStableTracker(DefaultConfig())
	r := frame.Rect{X: 10, Y: 10, W: 60, H: 60}
	var stable []frame.Rect
	for i := 0; i < 25; i++ {
		stable = st.update([]frame.Rect{r})
	}
	require.Len(t, stable, 1)
}

func TestStableTrackerDropsAfterMisses(t *testing.T) {
	st := newStableTracker(DefaultConfig())
	r := frame.Rect{X: 10, Y: 10, W: 60, H: 60}
	for i := 0; i < 25; i++ {
		st.update([]frame.Rect{r})
	}
	for i := 0; i < 20; i++ {
		st.update(nil)
	}
	stable := st.update(nil)
	require.Empty(t, stable)
}

func TestFitToForegroundTightensRect(t *testing.T) {
	mask := rectMask(50, 50, frame.Rect{X: 10, Y: 10, W: 5, H: 5})
	tight := fitToForeground(mask, frame.Rect{X: 0, Y: 0, W: 50, H: 50})
	require.Equal(t, frame.Rect{X: 10, Y: 10, W: 5, H: 5}, tight)
}

func TestRefineByGradColorRatioTrimsUniformlyDarkenedRows(t *testing.T) {
	r := frame.Rect{X: 0, Y: 0, W: 10, H: 10}
	// A gradient mask with no dominant zero-run on any row: the plain
	// by-gradient rule alone would never trim anything here.
	grad := imageops.NewMask(10, 10)
	for i := range grad.Pixels {
		grad.Pixels[i] = 255
	}

	cur := &frame.Frame{Pixels: make([]byte, 10*10*3), W: 10, H: 10, C: 3}
	bg := &frame.Frame{Pixels: make([]byte, 10*10*3), W: 10, H: 10, C: 3}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			idx := (y*10 + x) * 3
			for c := 0; c < 3; c++ {
				bg.Pixels[idx+c] = 100
				if y < 3 {
					cur.Pixels[idx+c] = 70 // uniformly darkened: cast shadow
				} else {
					cur.Pixels[idx+c] = 100
				}
			}
		}
	}

	out := refineByGrad(grad, r, cur, bg)
	require.Equal(t, 3, out.Y)
	require.Equal(t, 7, out.H)

	// Without color/bg frames, the zero-run rule alone finds nothing to
	// trim and the rectangle passes through unchanged.
	unchanged := refineByGrad(grad, r, nil, nil)
	require.Equal(t, r, unchanged)
}
