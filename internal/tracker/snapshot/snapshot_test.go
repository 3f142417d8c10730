package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/geometry"
	"github.com/your-org/mva/internal/imageops"
)

func rectAt(cx, cy, w, h int) frame.Rect {
	return frame.Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

func TestCrossTriBoundFiresOnceOnLeftCrossing(t *testing.T) {
	loop := geometry.NewVirtualLoop(
		frame.Point{X: 10, Y: 120}, frame.Point{X: 10, Y: 220},
		frame.Point{X: 310, Y: 220}, frame.Point{X: 310, Y: 120},
	)
	h := NewCrossTriBound(loop)
	scene := NewSceneProxy(nil)
	fore := NewForeProxy(imageops.Mask{})

	// Move from outside (x=0) to inside (x=50): crosses left going inward.
	h.Update(frame.Point{X: 0, Y: 150}, frame.Point{X: 50, Y: 150}, rectAt(50, 150, 20, 20), rectAt(50, 150, 20, 20), 0, 0, scene, fore)
	out := h.Output()
	require.Len(t, out, 1)
	require.Equal(t, BoundLeft, out[0].Bound)
	require.Equal(t, DirLeftToRight, out[0].Direction)
}

func TestCrossLineCapturesBelowThreshold(t *testing.T) {
	line := geometry.NewLineSegment(frame.Point{X: 0, Y: 100}, frame.Point{X: 300, Y: 100}, frame.Point{X: 0, Y: 0})
	h := NewCrossLine(line)
	scene := NewSceneProxy(nil)
	fore := NewForeProxy(imageops.Mask{})

	h.Update(frame.Point{}, frame.Point{X: 150, Y: 105}, rectAt(150, 105, 10, 10), rectAt(150, 105, 10, 10), 0, 0, scene, fore)
	out := h.Output()
	require.Len(t, out, 1)
}

func TestCrossLineIgnoresFarPoints(t *testing.T) {
	line := geometry.NewLineSegment(frame.Point{X: 0, Y: 100}, frame.Point{X: 300, Y: 100}, frame.Point{X: 0, Y: 0})
	h := NewCrossLine(line)
	scene := NewSceneProxy(nil)
	fore := NewForeProxy(imageops.Mask{})

	h.Update(frame.Point{}, frame.Point{X: 150, Y: 500}, rectAt(150, 500, 10, 10), rectAt(150, 500, 10, 10), 0, 0, scene, fore)
	require.Empty(t, h.Output())
}

func TestMultiRecordPrefersInteriorOverBorder(t *testing.T) {
	h := NewMultiRecord(2, 1, 100, 100)
	scene := NewSceneProxy(nil)
	fore := NewForeProxy(imageops.Mask{})

	// Two border-touching rects fill the bag first.
	h.Update(frame.Rect{X: 0, Y: 0, W: 10, H: 10}, frame.Rect{X: 0, Y: 0, W: 10, H: 10}, 0, 0, scene, fore)
	h.Update(frame.Rect{X: 90, Y: 90, W: 10, H: 10}, frame.Rect{X: 90, Y: 90, W: 10, H: 10}, 0, 1, scene, fore)

	// An interior rect should bump a border-touching one out.
	h.Update(frame.Rect{X: 40, Y: 40, W: 10, H: 10}, frame.Rect{X: 40, Y: 40, W: 10, H: 10}, 0, 2, scene, fore)

	out := h.Output()
	interiorFound := false
	for _, r := range out {
		if r.NormRect.X == 40 {
			interiorFound = true
		}
	}
	require.True(t, interiorFound)
}
