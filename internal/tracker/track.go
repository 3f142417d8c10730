package tracker

import (
	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/tracker/snapshot"
)

// Track is one identity-bearing object association across frames (spec
// §3). BlobTracker exclusively owns every Track and the QuantHistory /
// SnapshotHistory instances inside it.
type Track struct {
	ID            int
	CurrentRect   frame.Rect
	ToBeDeleted   bool
	Quant         QuantHistory
	Snapshot      *snapshot.History
	lastCenter    frame.Point
	hasLastCenter bool
}

func newTrack(id int, rect frame.Rect, snap *snapshot.History) *Track {
	return &Track{ID: id, CurrentRect: rect, Snapshot: snap}
}

// TrackUpdate is one emitted record.
type TrackUpdate struct {
	ID          int
	CurrentRect frame.Rect
	IsFinal     bool
	History     []QuantRecord
	Snapshots   []snapshot.Record
}
