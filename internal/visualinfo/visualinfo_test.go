package visualinfo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/imageops"
)

func TestAugmentAddsOnlyForegroundNovelEdges(t *testing.T) {
	gray := imageops.NewMask(10, 10)
	bgGray := imageops.NewMask(10, 10)
	fg := imageops.NewMask(10, 10)

	// A sharp edge present in both the frame and the background should not
	// be added as new foreground.
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			gray.Pixels[y*10+x] = 200
			bgGray.Pixels[y*10+x] = 200
		}
	}
	out, _ := New().Augment(gray, bgGray, fg, true)
	require.EqualValues(t, 0, out.Pixels[5*10+5])
}

func TestAugmentKeepsExistingForeground(t *testing.T) {
	gray := imageops.NewMask(10, 10)
	bgGray := imageops.NewMask(10, 10)
	fg := imageops.NewMask(10, 10)
	for i := 3; i < 7; i++ {
		fg.Pixels[5*10+i] = 255
	}
	out, _ := New().Augment(gray, bgGray, fg, true)
	require.EqualValues(t, 255, out.Pixels[5*10+5])
}

func TestAugmentReusesCachedBackgroundGradientWhenNotFull(t *testing.T) {
	gray := imageops.NewMask(10, 10)
	bgGray := imageops.NewMask(10, 10)
	fg := imageops.NewMask(10, 10)
	vi := New()

	// First call, full: bgGray is flat, no edges cached.
	vi.Augment(gray, bgGray, fg, true)

	// Second call, not full: even though bgGray now has a sharp edge
	// matching gray's, the stale (empty) cached gradient is used, so the
	// edge is still reported as foreground.
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			gray.Pixels[y*10+x] = 200
			bgGray.Pixels[y*10+x] = 200
		}
	}
	out, _ := vi.Augment(gray, bgGray, fg, false)
	require.EqualValues(t, 255, out.Pixels[5*10+5])
}

func TestNormalizeFrameSizeRescales(t *testing.T) {
	f := &frame.Frame{Pixels: make([]byte, 20*20), W: 20, H: 20, C: 1}
	for i := range f.Pixels {
		f.Pixels[i] = 128
	}
	out := NormalizeFrameSize(f, 10, 10)
	require.Equal(t, 10, out.W)
	require.Equal(t, 10, out.H)
	require.Len(t, out.Pixels, 100)
}
