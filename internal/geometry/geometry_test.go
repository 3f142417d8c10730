package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/frame"
)

func TestRegionOfInterestInclude(t *testing.T) {
	poly := Polygon{{X: 10, Y: 10}, {X: 10, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 10}}
	roi := NewInclude(320, 240, []Polygon{poly})

	require.True(t, roi.Contains(50, 50))
	require.False(t, roi.Contains(200, 200))
	require.True(t, roi.Intersects(frame.Rect{X: 40, Y: 40, W: 20, H: 20}))
	require.False(t, roi.Intersects(frame.Rect{X: 200, Y: 200, W: 10, H: 10}))
}

func TestRegionOfInterestExclude(t *testing.T) {
	poly := Polygon{{X: 10, Y: 10}, {X: 10, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 10}}
	roi := NewExclude(320, 240, []Polygon{poly})

	require.False(t, roi.Contains(50, 50))
	require.True(t, roi.Contains(200, 200))
}

func TestVirtualLoopHalfPlanes(t *testing.T) {
	loop := NewVirtualLoop(
		frame.Point{X: 10, Y: 120},
		frame.Point{X: 10, Y: 220},
		frame.Point{X: 310, Y: 220},
		frame.Point{X: 310, Y: 120},
	)

	require.True(t, loop.LeftOfLeft(frame.Point{X: 0, Y: 150}))
	require.False(t, loop.LeftOfLeft(frame.Point{X: 50, Y: 150}))
	require.True(t, loop.RightOfRight(frame.Point{X: 320, Y: 150}))

	crossed := loop.Crossed(frame.Point{X: 5, Y: 150}, frame.Point{X: 50, Y: 150})
	require.Equal(t, SideLeft, crossed)
}

func TestLineSegmentDistance(t *testing.T) {
	seg := NewLineSegment(frame.Point{X: 0, Y: 100}, frame.Point{X: 300, Y: 100}, frame.Point{X: 0, Y: 0})

	require.InDelta(t, 0, seg.Distance(frame.Point{X: 150, Y: 100}), 1e-6)
	require.InDelta(t, 10, seg.Distance(frame.Point{X: 150, Y: 110}), 1e-6)

	cross := seg.CrossingInward(frame.Point{X: 150, Y: 50}, frame.Point{X: 150, Y: 150})
	require.Equal(t, 1, cross)
}
