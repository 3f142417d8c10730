package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/background"
	"github.com/your-org/mva/internal/blob"
	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/geometry"
	"github.com/your-org/mva/internal/tracker"
)

const w, h = 80, 60

func fullROI() *geometry.RegionOfInterest {
	poly := geometry.Polygon{{X: 0, Y: 0}, {X: 0, Y: h}, {X: w, Y: h}, {X: w, Y: 0}}
	return geometry.NewInclude(w, h, []geometry.Polygon{poly})
}

func grayFrame(val byte, t int64, idx int32) *frame.Frame {
	px := make([]byte, w*h)
	for i := range px {
		px[i] = val
	}
	return &frame.Frame{Pixels: px, W: w, H: h, C: 1, TimeMs: t, FrameIndex: idx}
}

func withBox(base *frame.Frame, x, y, bw, bh int, val byte) *frame.Frame {
	px := make([]byte, len(base.Pixels))
	copy(px, base.Pixels)
	for yy := y; yy < y+bh; yy++ {
		for xx := x; xx < x+bw; xx++ {
			px[yy*w+xx] = val
		}
	}
	return &frame.Frame{Pixels: px, W: w, H: h, C: 1, TimeMs: base.TimeMs, FrameIndex: base.FrameIndex}
}

func newPipeline() *Pipeline {
	cfg := Config{
		FrameW: w, FrameH: h,
		Background: background.RelaxedParams,
		Blob:       blob.DefaultConfig(),
		Tracker:    tracker.DefaultConfig(),
		ROI:        fullROI(),
	}
	return New(cfg)
}

func TestPipelineNoForegroundOnConstantFrames(t *testing.T) {
	p := newPipeline()
	// The freshly initialized background model classifies the first frame
	// as foreground; one warm-up frame keeps it from being tracked.
	p.cfg.BuildBackCount = 1
	for i := 0; i < 10; i++ {
		updates, err := p.Process(grayFrame(128, int64(i*33), int32(i)), nil)
		require.NoError(t, err)
		require.Empty(t, updates)
	}
}

func TestPipelineTracksNewObject(t *testing.T) {
	p := newPipeline()
	for i := 0; i < 10; i++ {
		_, err := p.Process(grayFrame(40, int64(i*33), int32(i)), nil)
		require.NoError(t, err)
	}

	var sawTrack bool
	for i := 10; i < 15; i++ {
		f := withBox(grayFrame(40, int64(i*33), int32(i)), 20, 15, 20, 20, 220)
		updates, err := p.Process(f, nil)
		require.NoError(t, err)
		if len(updates) > 0 {
			sawTrack = true
		}
	}
	require.True(t, sawTrack, "expected the bright box to be tracked as foreground")
}

func TestPipelineFinalFlushesOpenTracks(t *testing.T) {
	p := newPipeline()
	for i := 0; i < 10; i++ {
		_, err := p.Process(grayFrame(40, int64(i*33), int32(i)), nil)
		require.NoError(t, err)
	}
	f := withBox(grayFrame(40, 330, 10), 20, 15, 20, 20, 220)
	_, err := p.Process(f, nil)
	require.NoError(t, err)

	finals := p.Final()
	for _, u := range finals {
		require.True(t, u.IsFinal)
	}
}

func TestPipelineWarmUpSuppressesTrackingUntilBuildBackCount(t *testing.T) {
	cfg := Config{
		FrameW: w, FrameH: h,
		Background:     background.RelaxedParams,
		Blob:           blob.DefaultConfig(),
		Tracker:        tracker.DefaultConfig(),
		ROI:            fullROI(),
		BuildBackCount: 5,
	}
	p := New(cfg)
	for i := 0; i < 5; i++ {
		f := withBox(grayFrame(40, int64(i*33), int32(i)), 20, 15, 20, 20, 220)
		updates, err := p.Process(f, nil)
		require.NoError(t, err)
		require.Empty(t, updates, "no tracking should occur during warm-up")
	}
}

func TestPipelineDecimatesByProcessEveryNFrame(t *testing.T) {
	cfg := Config{
		FrameW: w, FrameH: h,
		Background:         background.RelaxedParams,
		Blob:               blob.DefaultConfig(),
		Tracker:            tracker.DefaultConfig(),
		ROI:                fullROI(),
		ProcessEveryNFrame: 3,
		BuildBackCount:     1,
	}
	p := New(cfg)
	// Only arrivals 0 and 3 (every 3rd) should actually reach the model;
	// the rest return empty updates without incrementing p.processed.
	for i := 0; i < 6; i++ {
		updates, err := p.Process(grayFrame(128, int64(i*33), int32(i)), nil)
		require.NoError(t, err)
		require.Empty(t, updates)
	}
	require.Equal(t, 2, p.processed)
}

func TestPipelineRejectsWrongShapeFrame(t *testing.T) {
	p := newPipeline()
	_, err := p.Process(grayFrame(128, 0, 0), nil)
	require.NoError(t, err)

	bad := &frame.Frame{Pixels: make([]byte, 10*10), W: 10, H: 10, C: 1}
	_, err = p.Process(bad, nil)
	require.Error(t, err)
}
