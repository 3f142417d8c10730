package historyfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/tracker"
	"github.com/your-org/mva/internal/tracker/snapshot"
)

func TestWriteObjectInfoSkipsNonFinalTracks(t *testing.T) {
	var buf strings.Builder
	updates := []tracker.TrackUpdate{
		{ID: 1, IsFinal: false},
		{
			ID: 2, IsFinal: true,
			Snapshots: []snapshot.Record{
				{NormRect: frame.Rect{X: 1, Y: 2, W: 3, H: 4}, TimeMs: 100},
			},
		},
	}
	require.NoError(t, WriteObjectInfo(&buf, updates))
	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "\n"))
	require.True(t, strings.HasPrefix(out, "       2"))
}

func TestWriteHistoryBlockFormatsFixedWidthRows(t *testing.T) {
	var buf strings.Builder
	u := tracker.TrackUpdate{
		ID: 7,
		History: []tracker.QuantRecord{
			{FrameIndex: 10, TimeMs: 330, Rect: frame.Rect{X: 1, Y: 2, W: 3, H: 4}},
		},
	}
	require.NoError(t, WriteHistoryBlock(&buf, 1, u))
	out := buf.String()
	require.Contains(t, out, "Vehicle Count: 1")
	require.Contains(t, out, "ID:            7")
	require.Contains(t, out, "Size:          1")
}

func TestWriteAllHistoryBlocksIncrementsCount(t *testing.T) {
	var buf strings.Builder
	updates := []tracker.TrackUpdate{
		{ID: 1, IsFinal: true, History: []tracker.QuantRecord{{FrameIndex: 0, TimeMs: 0}}},
		{ID: 2, IsFinal: true, History: nil},
		{ID: 3, IsFinal: true, History: []tracker.QuantRecord{{FrameIndex: 0, TimeMs: 0}}},
	}
	n, err := WriteAllHistoryBlocks(&buf, 0, updates)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
