package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/geometry"
	"github.com/your-org/mva/internal/imageops"
)

func fullFrameROI() *geometry.RegionOfInterest {
	poly := geometry.Polygon{{X: 0, Y: 0}, {X: 0, Y: 240}, {X: 320, Y: 240}, {X: 320, Y: 0}}
	return geometry.NewInclude(320, 240, []geometry.Polygon{poly})
}

func TestTrackerCreatesNewTrackForUnmatchedRect(t *testing.T) {
	tr := New(DefaultConfig(), fullFrameROI(), nil, nil)
	rect := frame.Rect{X: 65, Y: 105, W: 30, H: 30} // center (80,120)

	updates := tr.Process(0, 21, []frame.Rect{rect}, nil, nil, imageops.Mask{})
	require.Len(t, updates, 1)
	require.Equal(t, 1, updates[0].ID)
	require.False(t, updates[0].IsFinal)
}

func TestTrackerKeepsSameIDAcrossSmallMovement(t *testing.T) {
	tr := New(DefaultConfig(), fullFrameROI(), nil, nil)
	r1 := frame.Rect{X: 65, Y: 105, W: 30, H: 30}
	u1 := tr.Process(0, 0, []frame.Rect{r1}, nil, nil, imageops.Mask{})
	require.Len(t, u1, 1)
	id := u1[0].ID

	r2 := frame.Rect{X: 68, Y: 105, W: 30, H: 30}
	u2 := tr.Process(33, 1, []frame.Rect{r2}, nil, nil, imageops.Mask{})
	require.Len(t, u2, 1)
	require.Equal(t, id, u2[0].ID)
}

func TestTrackerDirectionReversalCreatesNewTrack(t *testing.T) {
	cfg := DefaultConfig()
	tr := New(cfg, fullFrameROI(), nil, nil)

	x := 20
	rect := frame.Rect{X: x, Y: 100, W: 20, H: 20}
	u := tr.Process(0, 0, []frame.Rect{rect}, nil, nil, imageops.Mask{})
	require.Len(t, u, 1)
	firstID := u[0].ID

	var firstTrackFinalized bool
	var newID int
	for i := 1; i < 15; i++ {
		x += 5
		rect := frame.Rect{X: x, Y: 100, W: 20, H: 20}
		tr.Process(int64(i*33), int32(i), []frame.Rect{rect}, nil, nil, imageops.Mask{})
	}
	for i := 15; i < 30; i++ {
		x -= 5
		rect := frame.Rect{X: x, Y: 100, W: 20, H: 20}
		updates := tr.Process(int64(i*33), int32(i), []frame.Rect{rect}, nil, nil, imageops.Mask{})
		for _, upd := range updates {
			if upd.ID == firstID && upd.IsFinal {
				firstTrackFinalized = true
			}
			if upd.ID != firstID && !upd.IsFinal {
				newID = upd.ID
			}
		}
	}

	// The reversal must have finalized the original track and started a
	// new one with a different ID, not just kept extending the same track.
	require.True(t, firstTrackFinalized, "direction reversal should finalize the original track")
	require.NotZero(t, newID)
	require.NotEqual(t, firstID, newID)
}

func TestTrackerEmitsFinalOnNoMatch(t *testing.T) {
	tr := New(DefaultConfig(), fullFrameROI(), nil, nil)
	rect := frame.Rect{X: 10, Y: 10, W: 20, H: 20}
	tr.Process(0, 0, []frame.Rect{rect}, nil, nil, imageops.Mask{})

	updates := tr.Process(33, 1, nil, nil, nil, imageops.Mask{})
	require.Len(t, updates, 1)
	require.True(t, updates[0].IsFinal)
}

func TestLinearRegresFitsHorizontalLine(t *testing.T) {
	points := []frame.Point{{X: 0, Y: 50}, {X: 10, Y: 50}, {X: 20, Y: 50}, {X: 30, Y: 50}}
	fit := LinearRegres(points)
	require.InDelta(t, 0, fit.MeanError, 1e-6)
}
