package imageops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func square(w, h, x0, y0, x1, y1 int) Mask {
	m := NewMask(w, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Pixels[y*w+x] = 255
		}
	}
	return m
}

func TestDilateGrowsAndErodeShrinks(t *testing.T) {
	m := square(20, 20, 9, 9, 11, 11) // a 2x2 dot
	dil := DilateEllipse(m, 3, 3)

	count := func(mk Mask) int {
		n := 0
		for _, v := range mk.Pixels {
			if v != 0 {
				n++
			}
		}
		return n
	}

	require.Greater(t, count(dil), count(m))

	er := ErodeEllipse(square(20, 20, 2, 2, 18, 18), 1, 1)
	require.Less(t, count(er), count(square(20, 20, 2, 2, 18, 18)))
}

func TestMedianBlurRemovesSaltNoise(t *testing.T) {
	m := NewMask(10, 10)
	m.Pixels[55] = 255 // isolated single pixel
	out := MedianBlur(m, 1)
	require.EqualValues(t, 0, out.Pixels[55])
}

func TestBoundingRectsFindsTwoBlobs(t *testing.T) {
	m := square(30, 30, 2, 2, 6, 6)
	b := square(30, 30, 20, 20, 25, 27)
	for i := range b.Pixels {
		if b.Pixels[i] != 0 {
			m.Pixels[i] = 255
		}
	}
	rects := BoundingRects(m)
	require.Len(t, rects, 2)
}

func TestGradientMagnitudeFlatImageIsZero(t *testing.T) {
	m := NewMask(10, 10)
	for i := range m.Pixels {
		m.Pixels[i] = 128
	}
	g := GradientMagnitude(m)
	for _, v := range g.Pixels {
		require.EqualValues(t, 0, v)
	}
}

func TestThresholdAndNotOr(t *testing.T) {
	a := square(4, 4, 0, 0, 2, 2)
	b := square(4, 4, 1, 1, 3, 3)
	andNot := AndNot(a, b)
	require.EqualValues(t, 255, andNot.Pixels[0])
	require.EqualValues(t, 0, andNot.Pixels[1*4+1])

	or := Or(a, b)
	require.EqualValues(t, 255, or.Pixels[2*4+2])
}
